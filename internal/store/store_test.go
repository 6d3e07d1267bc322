package store

import (
	"context"
	"io"
	"testing"
	"time"

	"safarinova/internal/config"
	"safarinova/internal/database"
	"safarinova/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db, &logger)
}

func unavailableStore() *Store {
	logger := zerolog.New(io.Discard)
	return New(config.DatabaseConfig{}, &logger)
}

func testBooking(owner int64) *models.Booking {
	return &models.Booking{
		OwnerUserID:        owner,
		DestinationSlug:    "serengeti",
		DestinationName:    "Serengeti",
		NumberOfTravellers: 2,
		TotalPrice:         500000,
		PricingTier:        "luxury",
		Status:             models.StatusPending,
	}
}

func TestInsertBookingReturnsFreshestRow(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	created := s.InsertBooking(ctx, testBooking(2))
	require.NotNil(t, created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(2), created.OwnerUserID)
	assert.Equal(t, models.StatusPending, created.Status)
}

func TestBookingsByOwnerFiltersStrictly(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NotNil(t, s.InsertBooking(ctx, testBooking(1)))
	require.NotNil(t, s.InsertBooking(ctx, testBooking(2)))
	require.NotNil(t, s.InsertBooking(ctx, testBooking(2)))

	mine := s.BookingsByOwner(ctx, 2)
	assert.Len(t, mine, 2)
	for _, b := range mine {
		assert.Equal(t, int64(2), b.OwnerUserID)
	}

	assert.Len(t, s.AllBookings(ctx), 3)
	assert.Empty(t, s.BookingsByOwner(ctx, 99))
}

func TestUpdateBookingStatus(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	created := s.InsertBooking(ctx, testBooking(3))
	require.NotNil(t, created)

	updated := s.UpdateBookingStatus(ctx, created.ID, models.StatusConfirmed)
	require.NotNil(t, updated)
	assert.Equal(t, models.StatusConfirmed, updated.Status)

	// Unknown id degrades to nil, not an error.
	assert.Nil(t, s.UpdateBookingStatus(ctx, 99999, models.StatusConfirmed))
}

func TestUsersRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	s.UpsertUser(ctx, &models.User{OpenID: "open-1", Email: "u@safarinova.com", LastSignedIn: time.Now()}, false)

	user := s.UserByOpenID(ctx, "open-1")
	require.NotNil(t, user)
	assert.Equal(t, "u@safarinova.com", user.Email)

	assert.NotNil(t, s.UserByID(ctx, user.ID))
	assert.Nil(t, s.UserByOpenID(ctx, "missing"))
}

func TestUnavailableStoreDegrades(t *testing.T) {
	s := unavailableStore()
	ctx := context.Background()

	assert.False(t, s.Available())
	assert.Nil(t, s.InsertBooking(ctx, testBooking(1)))
	assert.Empty(t, s.BookingsByOwner(ctx, 1))
	assert.Empty(t, s.AllBookings(ctx))
	assert.Nil(t, s.UpdateBookingStatus(ctx, 1, models.StatusConfirmed))

	s.UpsertUser(ctx, &models.User{OpenID: "open-1"}, false)
	assert.Nil(t, s.UserByOpenID(ctx, "open-1"))
	assert.Nil(t, s.UserByID(ctx, 1))
	assert.NoError(t, s.Close())
}
