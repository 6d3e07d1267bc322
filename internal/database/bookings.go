package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"safarinova/internal/domain"
	"safarinova/internal/models"
)

const bookingColumns = `id, owner_user_id, destination_slug, destination_name,
	                 trip_start_date, trip_end_date, number_of_travellers,
					 total_price, pricing_tier, special_requests, status,
					 created_at, updated_at`

func (db *DB) InsertBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (
				owner_user_id, destination_slug, destination_name,
				trip_start_date, trip_end_date, number_of_travellers,
				total_price, pricing_tier, special_requests, status,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.OwnerUserID,
		booking.DestinationSlug,
		booking.DestinationName,
		booking.TripStartDate,
		booking.TripEndDate,
		booking.NumberOfTravellers,
		booking.TotalPrice,
		booking.PricingTier,
		booking.SpecialRequests,
		booking.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return nil
}

// GetLatestBookingByOwner returns the freshest booking row for an owner.
// Used by the create path, which inserts and then re-reads.
func (db *DB) GetLatestBookingByOwner(ctx context.Context, ownerUserID int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings WHERE owner_user_id = ?
              ORDER BY created_at DESC, id DESC LIMIT 1`
	return db.queryBooking(ctx, query, ownerUserID)
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := db.queryBooking(ctx, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	return booking, err
}

func (db *DB) GetBookingsByOwner(ctx context.Context, ownerUserID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE owner_user_id = ?`
	return db.queryBookings(ctx, query, ownerUserID)
}

func (db *DB) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	return db.queryBookings(ctx, query)
}

// UpdateBookingStatus writes the new status and returns the updated row,
// or a domain.ErrNotFound when no booking carries the id.
func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) (*models.Booking, error) {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	return db.GetBooking(ctx, id)
}

func (db *DB) queryBooking(ctx context.Context, query string, args ...interface{}) (*models.Booking, error) {
	b := &models.Booking{}
	var start, end sql.NullTime
	var specialRequests sql.NullString
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&b.ID, &b.OwnerUserID, &b.DestinationSlug, &b.DestinationName,
		&start, &end, &b.NumberOfTravellers,
		&b.TotalPrice, &b.PricingTier, &specialRequests, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	applyNullable(b, start, end, specialRequests)
	return b, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		var start, end sql.NullTime
		var specialRequests sql.NullString
		err := rows.Scan(
			&b.ID, &b.OwnerUserID, &b.DestinationSlug, &b.DestinationName,
			&start, &end, &b.NumberOfTravellers,
			&b.TotalPrice, &b.PricingTier, &specialRequests, &b.Status,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		applyNullable(b, start, end, specialRequests)
		bookings = append(bookings, b)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func applyNullable(b *models.Booking, start, end sql.NullTime, specialRequests sql.NullString) {
	if start.Valid {
		t := start.Time
		b.TripStartDate = &t
	}
	if end.Valid {
		t := end.Time
		b.TripEndDate = &t
	}
	b.SpecialRequests = specialRequests.String
}
