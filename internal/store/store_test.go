package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestStore opens an in-memory database pinned to a single
// connection so the schema and the foreign key pragma stay visible.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	s.DB.SetMaxOpenConns(1)
	_, err = s.DB.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	require.NoError(t, s.InitSchema())

	t.Cleanup(func() { s.Close() })
	return s
}
