package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"safarinova/internal/models"
)

// UpsertUser inserts or updates a user keyed by open_id. Empty attribute
// strings leave the stored value untouched; last_signed_in is always
// refreshed. The role column changes only when setRole is true.
func (db *DB) UpsertUser(ctx context.Context, user *models.User, setRole bool) error {
	query := `INSERT INTO users (
				open_id, email, name, login_method, role,
				last_signed_in, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
              ON CONFLICT(open_id) DO UPDATE SET
                email = COALESCE(NULLIF(excluded.email, ''), email),
                name = COALESCE(NULLIF(excluded.name, ''), name),
                login_method = COALESCE(NULLIF(excluded.login_method, ''), login_method),
                role = CASE WHEN ? THEN excluded.role ELSE role END,
                last_signed_in = excluded.last_signed_in,
                updated_at = excluded.updated_at`

	lastSignedIn := user.LastSignedIn
	if lastSignedIn.IsZero() {
		lastSignedIn = time.Now()
	}
	role := user.Role
	if role == "" {
		role = models.RoleUser
	}
	now := time.Now()
	_, err := db.ExecContext(ctx, query,
		user.OpenID,
		user.Email,
		user.Name,
		user.LoginMethod,
		role,
		lastSignedIn,
		now,
		now,
		setRole,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (db *DB) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	query := `SELECT id, open_id, email, name, login_method, role,
	                 last_signed_in, created_at, updated_at
              FROM users WHERE open_id = ?`
	return db.queryUser(ctx, query, openID)
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, open_id, email, name, login_method, role,
	                 last_signed_in, created_at, updated_at
              FROM users WHERE id = ?`
	return db.queryUser(ctx, query, id)
}

func (db *DB) queryUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	var email, name, loginMethod sql.NullString
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.OpenID, &email, &name, &loginMethod,
		&user.Role, &user.LastSignedIn, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Email = email.String
	user.Name = name.String
	user.LoginMethod = loginMethod.String
	return &user, nil
}
