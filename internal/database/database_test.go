package database

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	return db
}
