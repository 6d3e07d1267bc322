package database

import (
	"context"
	"testing"

	"safarinova/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditEntries(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	entry := &models.AuditEntry{
		EventType:   "booking_created",
		BookingID:   7,
		ActorUserID: 2,
		Detail:      `{"booking_id":7}`,
	}
	require.NoError(t, db.InsertAuditEntry(ctx, entry))
	assert.NotZero(t, entry.ID)

	require.NoError(t, db.InsertAuditEntry(ctx, &models.AuditEntry{
		EventType: "booking_status_changed", BookingID: 7, ActorUserID: 1,
	}))
	require.NoError(t, db.InsertAuditEntry(ctx, &models.AuditEntry{
		EventType: "booking_created", BookingID: 8, ActorUserID: 3,
	}))

	entries, err := db.GetAuditEntriesByBooking(ctx, 7)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "booking_created", entries[0].EventType)
	assert.Equal(t, "booking_status_changed", entries[1].EventType)
}
