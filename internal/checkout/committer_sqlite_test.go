package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddarthanreddy/ministore/internal/cart"
	"github.com/siddarthanreddy/ministore/internal/store"
)

func newSQLiteStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(":memory:")
	require.NoError(t, err)
	s.DB.SetMaxOpenConns(1)
	require.NoError(t, s.InitSchema())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCommitPersistsOrderAndItems(t *testing.T) {
	s := newSQLiteStore(t)
	committer := NewCommitter(s)

	crt := cart.New()
	crt.Add(product(1, "Mug", "5.00"), 2)
	crt.Add(product(2, "Pin", "3.00"), 1)

	order, err := committer.Commit(context.Background(), crt, "Alice", "a@x.com", "123 St")
	require.NoError(t, err)
	assert.True(t, crt.IsEmpty())

	got, err := s.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "13.00", got.Total.StringFixed(2))
	require.Len(t, got.Items, 2)

	var orderCount, itemCount int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&orderCount))
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM order_items`).Scan(&itemCount))
	assert.Equal(t, 1, orderCount)
	assert.Equal(t, 2, itemCount)
}

// A persistence failure mid-commit must leave zero rows behind and the
// cart exactly as it was.
func TestCommitSQLiteFailureRollsBack(t *testing.T) {
	s := newSQLiteStore(t)
	committer := NewCommitter(s)

	_, err := s.DB.Exec(`DROP TABLE order_items`)
	require.NoError(t, err)

	crt := cart.New()
	crt.Add(product(1, "Mug", "5.00"), 2)

	_, err = committer.Commit(context.Background(), crt, "Alice", "a@x.com", "123 St")
	require.Error(t, err)

	var orderCount int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&orderCount))
	assert.Equal(t, 0, orderCount)

	require.Len(t, crt.Lines, 1)
	assert.Equal(t, 2, crt.Lines[0].Quantity)
	assert.Equal(t, "10.00", crt.Subtotal().StringFixed(2))
}
