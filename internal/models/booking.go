package models

import "time"

// Booking is a single customer reservation. OwnerUserID is set from the
// resolved identity at creation time and never from client input.
type Booking struct {
	ID                 int64      `json:"id"`
	OwnerUserID        int64      `json:"owner_user_id"`
	DestinationSlug    string     `json:"destination_slug"`
	DestinationName    string     `json:"destination_name"`
	TripStartDate      *time.Time `json:"trip_start_date,omitempty"`
	TripEndDate        *time.Time `json:"trip_end_date,omitempty"`
	NumberOfTravellers int        `json:"number_of_travellers"`
	TotalPrice         int64      `json:"total_price"` // minor currency units
	PricingTier        string     `json:"pricing_tier"`
	SpecialRequests    string     `json:"special_requests,omitempty"`
	Status             string     `json:"status"` // pending, confirmed, cancelled, completed
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// AuditEntry records a booking lifecycle event for the audit trail.
type AuditEntry struct {
	ID          int64     `json:"id"`
	EventType   string    `json:"event_type"`
	BookingID   int64     `json:"booking_id"`
	ActorUserID int64     `json:"actor_user_id"`
	Detail      string    `json:"detail"`
	CreatedAt   time.Time `json:"created_at"`
}
