// Package store wraps the relational database as a capability that is
// either connected or unavailable. All methods trust their caller; no
// authorization decisions happen here. When the database is absent or a
// call fails, reads degrade to empty results and writes to nil instead
// of surfacing errors, so higher layers stay up in a limited mode.
package store

import (
	"context"

	"safarinova/internal/config"
	"safarinova/internal/database"
	"safarinova/internal/models"

	"github.com/rs/zerolog"
)

type Store struct {
	db  *database.DB
	log zerolog.Logger
}

// New opens the store from config. An empty connection string or a failed
// open yields an unavailable store, not an error.
func New(cfg config.DatabaseConfig, logger *zerolog.Logger) *Store {
	var storeLogger zerolog.Logger
	if logger != nil {
		storeLogger = logger.With().Str("component", "store").Logger()
	}

	if cfg.Path == "" {
		storeLogger.Warn().Msg("no database path configured, store is unavailable")
		return &Store{log: storeLogger}
	}

	db, err := database.NewDB(cfg.Path, logger)
	if err != nil {
		storeLogger.Warn().Err(err).Str("path", cfg.Path).Msg("database open failed, store is unavailable")
		return &Store{log: storeLogger}
	}

	return &Store{db: db, log: storeLogger}
}

// NewWithDB wraps an already-open database. Used by tests and by callers
// that manage the database lifecycle themselves.
func NewWithDB(db *database.DB, logger *zerolog.Logger) *Store {
	var storeLogger zerolog.Logger
	if logger != nil {
		storeLogger = logger.With().Str("component", "store").Logger()
	}
	return &Store{db: db, log: storeLogger}
}

func (s *Store) Available() bool {
	return s.db != nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying database, or nil when unavailable.
func (s *Store) DB() *database.DB {
	return s.db
}

// InsertBooking writes the booking and returns the freshest row for the
// owner, mirroring the insert-then-reselect behavior of the original
// storefront. Returns nil when the store is unavailable.
func (s *Store) InsertBooking(ctx context.Context, booking *models.Booking) *models.Booking {
	if s.db == nil {
		s.log.Warn().Msg("cannot insert booking: store unavailable")
		return nil
	}
	if err := s.db.InsertBooking(ctx, booking); err != nil {
		s.log.Warn().Err(err).Msg("insert booking failed")
		return nil
	}
	created, err := s.db.GetLatestBookingByOwner(ctx, booking.OwnerUserID)
	if err != nil {
		s.log.Warn().Err(err).Int64("owner_user_id", booking.OwnerUserID).Msg("reselect created booking failed")
		return nil
	}
	return created
}

func (s *Store) BookingsByOwner(ctx context.Context, ownerUserID int64) []*models.Booking {
	if s.db == nil {
		s.log.Warn().Msg("cannot list bookings: store unavailable")
		return []*models.Booking{}
	}
	bookings, err := s.db.GetBookingsByOwner(ctx, ownerUserID)
	if err != nil {
		s.log.Warn().Err(err).Int64("owner_user_id", ownerUserID).Msg("list owner bookings failed")
		return []*models.Booking{}
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	return bookings
}

func (s *Store) AllBookings(ctx context.Context) []*models.Booking {
	if s.db == nil {
		s.log.Warn().Msg("cannot list bookings: store unavailable")
		return []*models.Booking{}
	}
	bookings, err := s.db.GetAllBookings(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("list all bookings failed")
		return []*models.Booking{}
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	return bookings
}

// UpdateBookingStatus returns the updated row, or nil when the id does
// not exist or the store is unavailable.
func (s *Store) UpdateBookingStatus(ctx context.Context, id int64, status string) *models.Booking {
	if s.db == nil {
		s.log.Warn().Msg("cannot update booking status: store unavailable")
		return nil
	}
	booking, err := s.db.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		s.log.Warn().Err(err).Int64("booking_id", id).Msg("update booking status failed")
		return nil
	}
	return booking
}

func (s *Store) UpsertUser(ctx context.Context, user *models.User, setRole bool) {
	if s.db == nil {
		s.log.Warn().Msg("cannot upsert user: store unavailable")
		return
	}
	if err := s.db.UpsertUser(ctx, user, setRole); err != nil {
		s.log.Warn().Err(err).Str("open_id", user.OpenID).Msg("upsert user failed")
	}
}

func (s *Store) UserByOpenID(ctx context.Context, openID string) *models.User {
	if s.db == nil {
		s.log.Warn().Msg("cannot get user: store unavailable")
		return nil
	}
	user, err := s.db.GetUserByOpenID(ctx, openID)
	if err != nil {
		return nil
	}
	return user
}

func (s *Store) UserByID(ctx context.Context, id int64) *models.User {
	if s.db == nil {
		return nil
	}
	user, err := s.db.GetUserByID(ctx, id)
	if err != nil {
		return nil
	}
	return user
}
