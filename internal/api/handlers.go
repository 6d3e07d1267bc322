package api

import (
	"encoding/json"
	"net/http"

	"safarinova/internal/metrics"
	"safarinova/internal/service"
)

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleAuthMe(w http.ResponseWriter, r *http.Request) {
	const op = "auth.me"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "INVALID_INPUT", "method not allowed")
		return
	}

	identity := s.resolver.Resolve(r.Context(), s.credential(r))
	metrics.IncRPC(op, "OK")
	writeJSON(w, http.StatusOK, identity)
}

func (s *HTTPServer) handleBookingsCreate(w http.ResponseWriter, r *http.Request) {
	const op = "bookings.create"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "INVALID_INPUT", "method not allowed")
		return
	}

	identity := s.resolver.Resolve(r.Context(), s.credential(r))

	// Unknown fields are ignored on purpose: an owner id supplied in the
	// payload must have no effect on the created record.
	var in service.CreateBookingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.fail(w, op, invalidInput("invalid JSON body"))
		return
	}

	booking, err := s.bookings.Create(r.Context(), identity, in)
	if err != nil {
		s.fail(w, op, err)
		return
	}

	metrics.IncRPC(op, "OK")
	if booking != nil {
		metrics.IncBookingCreated()
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	const op = "bookings.myBookings"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "INVALID_INPUT", "method not allowed")
		return
	}

	identity := s.resolver.Resolve(r.Context(), s.credential(r))
	bookings, err := s.bookings.MyBookings(r.Context(), identity)
	if err != nil {
		s.fail(w, op, err)
		return
	}

	metrics.IncRPC(op, "OK")
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleAllBookings(w http.ResponseWriter, r *http.Request) {
	const op = "bookings.all"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "INVALID_INPUT", "method not allowed")
		return
	}

	identity := s.resolver.Resolve(r.Context(), s.credential(r))
	bookings, err := s.bookings.All(r.Context(), identity)
	if err != nil {
		s.fail(w, op, err)
		return
	}

	metrics.IncRPC(op, "OK")
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	const op = "bookings.updateStatus"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "INVALID_INPUT", "method not allowed")
		return
	}

	identity := s.resolver.Resolve(r.Context(), s.credential(r))

	var in struct {
		BookingID int64  `json:"booking_id"`
		Status    string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.fail(w, op, invalidInput("invalid JSON body"))
		return
	}

	booking, err := s.bookings.UpdateStatus(r.Context(), identity, in.BookingID, in.Status)
	if err != nil {
		s.fail(w, op, err)
		return
	}

	// A nonexistent booking id yields null, not an error.
	metrics.IncRPC(op, "OK")
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "bookings.export"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "INVALID_INPUT", "method not allowed")
		return
	}

	identity := s.resolver.Resolve(r.Context(), s.credential(r))
	data, err := s.bookings.Export(r.Context(), identity)
	if err != nil {
		s.fail(w, op, err)
		return
	}

	metrics.IncRPC(op, "OK")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
