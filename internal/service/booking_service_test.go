package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"safarinova/internal/config"
	"safarinova/internal/database"
	"safarinova/internal/domain"
	"safarinova/internal/events"
	"safarinova/internal/models"
	"safarinova/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminIdentity = &models.User{ID: 1, OpenID: "admin-open-id", Role: models.RoleAdmin}
	userIdentity  = &models.User{ID: 2, OpenID: "user-open-id", Role: models.RoleUser}
	otherIdentity = &models.User{ID: 3, OpenID: "other-open-id", Role: models.RoleUser}
)

func setupService(t *testing.T) (*BookingService, *events.EventBus) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := events.NewEventBus()
	return NewBookingService(store.NewWithDB(db, &logger), bus, &logger), bus
}

func unavailableService() *BookingService {
	logger := zerolog.New(io.Discard)
	return NewBookingService(store.New(config.DatabaseConfig{}, &logger), events.NewEventBus(), &logger)
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		DestinationSlug:    "serengeti",
		DestinationName:    "Serengeti",
		NumberOfTravellers: 2,
		TotalPrice:         500000,
		PricingTier:        "luxury",
	}
}

func TestCreateRequiresIdentity(t *testing.T) {
	s, _ := setupService(t)

	created, err := s.Create(context.Background(), nil, validInput())
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
	assert.Nil(t, created)
}

func TestCreateOwnedByCaller(t *testing.T) {
	s, bus := setupService(t)
	ctx := context.Background()

	var published []*events.Event
	bus.Subscribe(events.EventBookingCreated, func(e *events.Event) error {
		published = append(published, e)
		return nil
	})

	created, err := s.Create(ctx, userIdentity, validInput())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, userIdentity.ID, created.OwnerUserID)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.NotZero(t, created.ID)
	assert.Len(t, published, 1)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateBookingInput)
	}{
		{"missing destination", func(in *CreateBookingInput) { in.DestinationSlug = "" }},
		{"zero travellers", func(in *CreateBookingInput) { in.NumberOfTravellers = 0 }},
		{"negative travellers", func(in *CreateBookingInput) { in.NumberOfTravellers = -1 }},
		{"negative price", func(in *CreateBookingInput) { in.TotalPrice = -1 }},
		{"missing tier", func(in *CreateBookingInput) { in.PricingTier = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			created, err := s.Create(ctx, userIdentity, in)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
			assert.Nil(t, created)
		})
	}
}

func TestMyBookingsIsOwnerScoped(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, userIdentity, validInput())
	require.NoError(t, err)
	_, err = s.Create(ctx, otherIdentity, validInput())
	require.NoError(t, err)

	mine, err := s.MyBookings(ctx, userIdentity)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, userIdentity.ID, mine[0].OwnerUserID)

	_, err = s.MyBookings(ctx, nil)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestAllIsAdminOnly(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, userIdentity, validInput())
	require.NoError(t, err)

	all, err := s.All(ctx, adminIdentity)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = s.All(ctx, userIdentity)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = s.All(ctx, nil)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestUpdateStatus(t *testing.T) {
	s, bus := setupService(t)
	ctx := context.Background()

	var published []*events.Event
	bus.Subscribe(events.EventBookingStatusChanged, func(e *events.Event) error {
		published = append(published, e)
		return nil
	})

	created, err := s.Create(ctx, userIdentity, validInput())
	require.NoError(t, err)

	updated, err := s.UpdateStatus(ctx, adminIdentity, created.ID, models.StatusConfirmed)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Len(t, published, 1)
}

func TestUpdateStatusDeniedForNonAdmin(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, userIdentity, validInput())
	require.NoError(t, err)

	// Owning the booking does not grant status mutation.
	_, err = s.UpdateStatus(ctx, userIdentity, created.ID, models.StatusCancelled)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = s.UpdateStatus(ctx, nil, created.ID, models.StatusCancelled)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestUpdateStatusUnknownBooking(t *testing.T) {
	s, _ := setupService(t)

	updated, err := s.UpdateStatus(context.Background(), adminIdentity, 99999, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	s, _ := setupService(t)

	_, err := s.UpdateStatus(context.Background(), adminIdentity, 1, "shipped")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestOperationsDegradeWithoutStore(t *testing.T) {
	s := unavailableService()
	ctx := context.Background()

	created, err := s.Create(ctx, userIdentity, validInput())
	require.NoError(t, err)
	assert.Nil(t, created)

	mine, err := s.MyBookings(ctx, userIdentity)
	require.NoError(t, err)
	assert.Empty(t, mine)

	all, err := s.All(ctx, adminIdentity)
	require.NoError(t, err)
	assert.Empty(t, all)

	updated, err := s.UpdateStatus(ctx, adminIdentity, 1, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestAuthorizationRunsBeforeValidation(t *testing.T) {
	s, _ := setupService(t)

	// An anonymous caller with garbage input sees the auth failure, not
	// the validation failure.
	_, err := s.Create(context.Background(), nil, CreateBookingInput{})
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}
