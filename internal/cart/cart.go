package cart

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/siddarthanreddy/ministore/internal/models"
)

// Line is one product's snapshot inside a cart. Name, UnitPrice and
// ImageURL are frozen at the moment the product was first added; later
// catalog edits never reach an existing line.
type Line struct {
	ProductID int
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageURL  string
}

// Cart holds a visitor's pending selection. Lines are unique per
// product and keep insertion order for display. The zero value is not
// usable; construct with New.
type Cart struct {
	Lines []Line
}

func New() *Cart {
	return &Cart{}
}

// ParseQuantity parses a raw form quantity. The second return reports
// whether the input was a well-formed integer; callers decide what an
// invalid or non-positive quantity means.
func ParseQuantity(raw string) (int, bool) {
	q, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return q, true
}

// Add puts qty units of the product into the cart. A quantity below 1
// is a no-op. A product already present accumulates; a new product is
// appended with a snapshot of its current name, price and image.
func (c *Cart) Add(p models.Product, qty int) {
	if qty < 1 {
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity += qty
			return
		}
	}
	c.Lines = append(c.Lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
		ImageURL:  p.ImageURL,
	})
}

// ApplyUpdates sets quantities in bulk from raw form values. An entry
// that fails to parse or resolves to zero or less removes the line; a
// positive integer replaces (not adds to) the current quantity.
// Product ids not in the cart are ignored.
func (c *Cart) ApplyUpdates(updates map[int]string) {
	for productID, raw := range updates {
		q, ok := ParseQuantity(raw)
		if !ok || q <= 0 {
			c.Remove(productID)
			continue
		}
		for i := range c.Lines {
			if c.Lines[i].ProductID == productID {
				c.Lines[i].Quantity = q
				break
			}
		}
	}
}

func (c *Cart) Remove(productID int) {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Subtotal is recomputed from the lines on every call, never cached.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemCount sums quantities across all lines, for the cart badge.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clear empties the cart. Only the order committer calls this, after a
// successful commit.
func (c *Cart) Clear() {
	c.Lines = nil
}
