// Package service implements the booking operations. Every operation
// follows the same fixed order: the caller resolves identity first, the
// authorization policy runs second, and only then is the store touched.
package service

import (
	"context"
	"fmt"
	"time"

	"safarinova/internal/authz"
	"safarinova/internal/domain"
	"safarinova/internal/events"
	"safarinova/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
)

type BookingService struct {
	store    domain.BookingStore
	eventBus domain.EventPublisher
	log      zerolog.Logger
}

func NewBookingService(store domain.BookingStore, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	var serviceLogger zerolog.Logger
	if logger != nil {
		serviceLogger = logger.With().Str("component", "booking-service").Logger()
	}
	return &BookingService{
		store:    store,
		eventBus: eventBus,
		log:      serviceLogger,
	}
}

// CreateBookingInput carries the caller-supplied booking fields. The
// owner is never part of the input; it always comes from the resolved
// identity.
type CreateBookingInput struct {
	DestinationSlug    string     `json:"destination_slug"`
	DestinationName    string     `json:"destination_name"`
	TripStartDate      *time.Time `json:"trip_start_date"`
	TripEndDate        *time.Time `json:"trip_end_date"`
	NumberOfTravellers int        `json:"number_of_travellers"`
	TotalPrice         int64      `json:"total_price"`
	PricingTier        string     `json:"pricing_tier"`
	SpecialRequests    string     `json:"special_requests"`
}

func (in CreateBookingInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.DestinationSlug, validation.Required),
		validation.Field(&in.DestinationName, validation.Required),
		validation.Field(&in.NumberOfTravellers, validation.Required, validation.Min(1)),
		validation.Field(&in.TotalPrice, validation.Min(0)),
		validation.Field(&in.PricingTier, validation.Required),
	)
}

// Create inserts a booking owned by the caller. The returned record is
// the freshest row for that owner, or nil when the store is unavailable.
func (s *BookingService) Create(ctx context.Context, identity *models.User, in CreateBookingInput) (*models.Booking, error) {
	if err := authz.Decide(identity, authz.OpCreateBooking); err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	booking := &models.Booking{
		OwnerUserID:        identity.ID,
		DestinationSlug:    in.DestinationSlug,
		DestinationName:    in.DestinationName,
		TripStartDate:      in.TripStartDate,
		TripEndDate:        in.TripEndDate,
		NumberOfTravellers: in.NumberOfTravellers,
		TotalPrice:         in.TotalPrice,
		PricingTier:        in.PricingTier,
		SpecialRequests:    in.SpecialRequests,
		Status:             models.StatusPending,
	}

	created := s.store.InsertBooking(ctx, booking)
	if created == nil {
		return nil, nil
	}

	s.publishEvent(events.EventBookingCreated, created, identity.ID)
	s.log.Info().
		Int64("booking_id", created.ID).
		Int64("owner_user_id", created.OwnerUserID).
		Str("destination", created.DestinationSlug).
		Msg("booking created")

	return created, nil
}

// MyBookings returns the caller's own bookings, unfiltered by status.
func (s *BookingService) MyBookings(ctx context.Context, identity *models.User) ([]*models.Booking, error) {
	if err := authz.Decide(identity, authz.OpListOwnBookings); err != nil {
		return nil, err
	}
	return s.store.BookingsByOwner(ctx, identity.ID), nil
}

// All returns every booking in the system. Admin only.
func (s *BookingService) All(ctx context.Context, identity *models.User) ([]*models.Booking, error) {
	if err := authz.Decide(identity, authz.OpListAllBookings); err != nil {
		return nil, err
	}
	return s.store.AllBookings(ctx), nil
}

// UpdateStatus writes a new status on a booking. Admin only. Returns nil
// without error when the id does not exist.
func (s *BookingService) UpdateStatus(ctx context.Context, identity *models.User, bookingID int64, status string) (*models.Booking, error) {
	if err := authz.Decide(identity, authz.OpUpdateBookingStatus); err != nil {
		return nil, err
	}

	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: status must be one of pending, confirmed, cancelled, completed", domain.ErrInvalidInput)
	}

	updated := s.store.UpdateBookingStatus(ctx, bookingID, status)
	if updated == nil {
		return nil, nil
	}

	s.publishEvent(events.EventBookingStatusChanged, updated, identity.ID)
	s.log.Info().
		Int64("booking_id", updated.ID).
		Str("status", updated.Status).
		Int64("actor_user_id", identity.ID).
		Msg("booking status updated")

	return updated, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, actorID int64) {
	if s.eventBus == nil {
		return
	}
	err := s.eventBus.PublishJSON(eventType, events.BookingEventPayload{
		BookingID:       booking.ID,
		OwnerUserID:     booking.OwnerUserID,
		DestinationSlug: booking.DestinationSlug,
		Status:          booking.Status,
		ActorUserID:     actorID,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("event_type", eventType).Msg("publish event failed")
	}
}
