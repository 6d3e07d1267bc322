package database

import (
	"context"
	"fmt"
	"time"

	"safarinova/internal/models"
)

func (db *DB) InsertAuditEntry(ctx context.Context, entry *models.AuditEntry) error {
	query := `INSERT INTO audit_log (event_type, booking_id, actor_user_id, detail, created_at)
              VALUES (?, ?, ?, ?, ?)`
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	result, err := db.ExecContext(ctx, query,
		entry.EventType, entry.BookingID, entry.ActorUserID, entry.Detail, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	entry.ID, _ = result.LastInsertId()
	entry.CreatedAt = createdAt
	return nil
}

func (db *DB) GetAuditEntriesByBooking(ctx context.Context, bookingID int64) ([]*models.AuditEntry, error) {
	query := `SELECT id, event_type, booking_id, actor_user_id, detail, created_at
              FROM audit_log WHERE booking_id = ? ORDER BY created_at ASC, id ASC`
	rows, err := db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		e := &models.AuditEntry{}
		if err := rows.Scan(&e.ID, &e.EventType, &e.BookingID, &e.ActorUserID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
