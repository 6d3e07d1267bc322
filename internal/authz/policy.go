// Package authz is the pure authorization policy: no I/O, no transport.
// Every operation handler calls Decide before touching storage.
package authz

import (
	"fmt"

	"safarinova/internal/domain"
	"safarinova/internal/models"
)

type Operation string

const (
	OpCreateBooking       Operation = "bookings.create"
	OpListOwnBookings     Operation = "bookings.myBookings"
	OpListAllBookings     Operation = "bookings.all"
	OpUpdateBookingStatus Operation = "bookings.updateStatus"
	OpExportBookings      Operation = "bookings.export"
)

// Decide maps (identity, operation) to a decision. A nil identity is
// anonymous. Rules, in order:
//
//  1. Anonymous callers are denied everything that reaches this policy.
//  2. Any authenticated user may create bookings and list their own.
//  3. Listing all bookings, mutating status, and exporting require the
//     admin role. There is deliberately no owner-may-update rule: status
//     reflects operational confirmation, not customer intent.
//
// Unknown operations are denied.
func Decide(identity *models.User, op Operation) error {
	if identity == nil {
		return fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}

	switch op {
	case OpCreateBooking, OpListOwnBookings:
		return nil
	case OpListAllBookings, OpUpdateBookingStatus, OpExportBookings:
		if !identity.IsAdmin() {
			return fmt.Errorf("%s requires role %s: %w", op, models.RoleAdmin, domain.ErrForbidden)
		}
		return nil
	default:
		return fmt.Errorf("unknown operation %s: %w", op, domain.ErrForbidden)
	}
}
