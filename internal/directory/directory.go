// Package directory maintains user identity records. Role assignment is
// strictly server-side: the configured owner open id is always forced to
// admin, everyone else keeps their stored role unless a caller inside
// the process supplies one explicitly.
package directory

import (
	"context"
	"time"

	"safarinova/internal/models"
	"safarinova/internal/store"

	"github.com/rs/zerolog"
)

type Directory struct {
	store       *store.Store
	ownerOpenID string
	log         zerolog.Logger
}

func New(st *store.Store, ownerOpenID string, logger *zerolog.Logger) *Directory {
	var dirLogger zerolog.Logger
	if logger != nil {
		dirLogger = logger.With().Str("component", "directory").Logger()
	}
	return &Directory{
		store:       st,
		ownerOpenID: ownerOpenID,
		log:         dirLogger,
	}
}

// Upsert creates or refreshes the record for openID. Idempotent: repeated
// calls update only supplied fields and always advance last_signed_in.
func (d *Directory) Upsert(ctx context.Context, openID string, attrs models.UserAttrs) {
	if openID == "" {
		d.log.Warn().Msg("upsert called without an open id")
		return
	}

	role := attrs.Role
	setRole := role != ""
	if d.ownerOpenID != "" && openID == d.ownerOpenID {
		role = models.RoleAdmin
		setRole = true
	}

	user := &models.User{
		OpenID:       openID,
		Email:        attrs.Email,
		Name:         attrs.Name,
		LoginMethod:  attrs.LoginMethod,
		Role:         role,
		LastSignedIn: time.Now(),
	}
	d.store.UpsertUser(ctx, user, setRole)
}

func (d *Directory) ByOpenID(ctx context.Context, openID string) *models.User {
	if openID == "" {
		return nil
	}
	return d.store.UserByOpenID(ctx, openID)
}

func (d *Directory) ByID(ctx context.Context, id int64) *models.User {
	return d.store.UserByID(ctx, id)
}
