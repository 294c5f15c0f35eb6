package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/siddarthanreddy/ministore/internal/cart"
	"github.com/siddarthanreddy/ministore/internal/models"
)

// ErrEmptyCart reports a checkout attempt with no cart lines. Nothing
// is persisted and the cart is untouched.
var ErrEmptyCart = errors.New("cart is empty")

// OrderStore persists an order together with all its items as a single
// atomic unit.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
}

// Committer turns a non-empty cart plus contact details into a
// persisted, immutable order.
type Committer struct {
	Store OrderStore
}

func NewCommitter(store OrderStore) *Committer {
	return &Committer{Store: store}
}

// Commit builds one order item per cart line, freezing each line's
// name, price and quantity, and sums the total over the items being
// created. On successful persistence the cart is cleared; on any
// failure the cart is left exactly as it was. Contact fields are
// stored as provided, empty strings included.
func (c *Committer) Commit(ctx context.Context, crt *cart.Cart, customerName, customerEmail, address string) (*models.Order, error) {
	if crt.IsEmpty() {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		Address:       address,
		Total:         decimal.Zero,
	}
	for _, line := range crt.Lines {
		item := models.OrderItem{
			ProductName: line.Name,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		}
		order.Total = order.Total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		order.Items = append(order.Items, item)
	}

	if err := c.Store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	// Payment is a demo stub; a real gateway would be charged here,
	// before the cart is cleared.
	slog.Info("Demo payment accepted, no real charge made", "order_id", order.ID, "total", order.Total.StringFixed(2))

	crt.Clear()
	return order, nil
}
