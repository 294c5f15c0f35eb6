package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddarthanreddy/ministore/internal/models"
)

func newOrder() *models.Order {
	return &models.Order{
		CustomerName:  "Alice",
		CustomerEmail: "a@x.com",
		Address:       "123 St",
		Total:         decimal.RequireFromString("13.00"),
		Items: []models.OrderItem{
			{ProductName: "Mug", UnitPrice: decimal.RequireFromString("5.00"), Quantity: 2},
			{ProductName: "Pin", UnitPrice: decimal.RequireFromString("3.00"), Quantity: 1},
		},
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	s := newTestStore(t)

	order := newOrder()
	require.NoError(t, s.CreateOrder(context.Background(), order))
	require.NotZero(t, order.ID)

	got, err := s.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.CustomerName)
	assert.Equal(t, "a@x.com", got.CustomerEmail)
	assert.Equal(t, "123 St", got.Address)
	assert.Equal(t, "13.00", got.Total.StringFixed(2))

	require.Len(t, got.Items, 2)
	assert.Equal(t, "Mug", got.Items[0].ProductName)
	assert.Equal(t, "5.00", got.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "Pin", got.Items[1].ProductName)

	// Total matches the sum over the persisted items.
	sum := decimal.Zero
	for _, item := range got.Items {
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.True(t, got.Total.Equal(sum))
}

func TestGetOrderNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetOrder(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersNewestFirstWithPagination(t *testing.T) {
	s := newTestStore(t)

	var ids []int
	for i := 0; i < 3; i++ {
		order := newOrder()
		require.NoError(t, s.CreateOrder(context.Background(), order))
		ids = append(ids, order.ID)
	}

	orders, err := s.ListOrders(2, 0)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, ids[2], orders[0].ID)
	assert.Equal(t, ids[1], orders[1].ID)
	require.Len(t, orders[0].Items, 2)

	rest, err := s.ListOrders(2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, ids[0], rest[0].ID)

	count, err := s.CountOrders()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCreateOrderRollsBackOnItemFailure(t *testing.T) {
	s := newTestStore(t)

	// Force the item insert to fail mid-transaction.
	_, err := s.DB.Exec(`DROP TABLE order_items`)
	require.NoError(t, err)

	order := newOrder()
	err = s.CreateOrder(context.Background(), order)
	require.Error(t, err)

	// The order row from the same transaction must be gone too.
	var count int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestDeleteOrderCascadesToItems(t *testing.T) {
	s := newTestStore(t)

	order := newOrder()
	require.NoError(t, s.CreateOrder(context.Background(), order))

	require.NoError(t, s.DeleteOrder(order.ID))

	_, err := s.GetOrder(order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM order_items`).Scan(&count))
	assert.Equal(t, 0, count)
}

// Deleting a product must not disturb orders that sold it; items hold
// snapshots, not references.
func TestOrderSurvivesProductDeletion(t *testing.T) {
	s := newTestStore(t)

	p := newProduct("Mug", "5.00")
	require.NoError(t, s.CreateProduct(p))

	order := &models.Order{
		Total: decimal.RequireFromString("10.00"),
		Items: []models.OrderItem{
			{ProductName: p.Name, UnitPrice: p.Price, Quantity: 2},
		},
	}
	require.NoError(t, s.CreateOrder(context.Background(), order))
	require.NoError(t, s.DeleteProduct(p.ID))

	got, err := s.GetOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Mug", got.Items[0].ProductName)
	assert.Equal(t, "5.00", got.Items[0].UnitPrice.StringFixed(2))
}
