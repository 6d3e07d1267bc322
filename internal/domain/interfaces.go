package domain

import (
	"context"
	"time"

	"safarinova/internal/models"
)

// BookingStore is the persistence contract for bookings. It carries no
// authorization logic and trusts its caller. Implementations absorb
// storage unavailability: reads return empty slices, writes return nil.
type BookingStore interface {
	InsertBooking(ctx context.Context, booking *models.Booking) *models.Booking
	BookingsByOwner(ctx context.Context, ownerUserID int64) []*models.Booking
	AllBookings(ctx context.Context) []*models.Booking
	UpdateBookingStatus(ctx context.Context, id int64, status string) *models.Booking
}

// UserDirectory upserts and looks up identity records.
type UserDirectory interface {
	Upsert(ctx context.Context, openID string, attrs models.UserAttrs)
	ByOpenID(ctx context.Context, openID string) *models.User
	ByID(ctx context.Context, id int64) *models.User
}

// CredentialVerifier checks a raw credential against the external
// credential provider and reports who it belongs to.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) (*models.Claims, error)
}

// ClaimsCache stores verified credential claims keyed by a credential
// fingerprint so repeated requests skip re-verification.
type ClaimsCache interface {
	GetClaims(ctx context.Context, fingerprint string) (*models.Claims, error)
	SetClaims(ctx context.Context, fingerprint string, claims *models.Claims, ttl time.Duration) error
}

// IdentityResolver turns an inbound credential into a user or anonymous.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) *models.User
}

// EventPublisher emits booking lifecycle events.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// AuditSink persists audit trail entries.
type AuditSink interface {
	InsertAuditEntry(ctx context.Context, entry *models.AuditEntry) error
}
