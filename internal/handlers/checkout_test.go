package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddarthanreddy/ministore/internal/checkout"
	"github.com/siddarthanreddy/ministore/internal/store"
)

func newCheckoutHandler(t *testing.T) (*CheckoutHandler, *CartHandler, *store.Store) {
	t.Helper()
	cartHandler, s := newCartHandler(t)
	h := &CheckoutHandler{
		Committer:    checkout.NewCommitter(s),
		Carts:        cartHandler.Carts,
		SessionStore: cartHandler.SessionStore,
	}
	return h, cartHandler, s
}

func TestSubmitCheckoutPlacesOrderAndEmptiesCart(t *testing.T) {
	h, cartHandler, s := newCheckoutHandler(t)

	seedProduct(t, s, "Mug", "5.00")
	w := addToCart(t, cartHandler, nil, "1", "2")

	req := postForm("/checkout", url.Values{
		"name":    {"Alice"},
		"email":   {"a@x.com"},
		"address": {"123 St"},
	})
	carryCookies(w, req)
	w2 := httptest.NewRecorder()
	h.SubmitCheckout(w2, req)

	require.Equal(t, http.StatusSeeOther, w2.Code)
	assert.Equal(t, "/", w2.Header().Get("Location"))

	order, err := s.GetOrder(1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", order.CustomerName)
	assert.Equal(t, "10.00", order.Total.StringFixed(2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Mug", order.Items[0].ProductName)

	// The cleared cart was written back into the session.
	crt := loadCart(t, cartHandler, w2)
	assert.True(t, crt.IsEmpty())
}

func TestSubmitCheckoutEmptyCartRedirectsHome(t *testing.T) {
	h, _, s := newCheckoutHandler(t)

	req := postForm("/checkout", url.Values{"name": {"Alice"}})
	w := httptest.NewRecorder()
	h.SubmitCheckout(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	count, err := s.CountOrders()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSubmitCheckoutStorageFailureKeepsCart(t *testing.T) {
	h, cartHandler, s := newCheckoutHandler(t)

	seedProduct(t, s, "Mug", "5.00")
	w := addToCart(t, cartHandler, nil, "1", "2")

	_, err := s.DB.Exec(`DROP TABLE order_items`)
	require.NoError(t, err)

	req := postForm("/checkout", url.Values{"name": {"Alice"}})
	carryCookies(w, req)
	w2 := httptest.NewRecorder()
	h.SubmitCheckout(w2, req)

	require.Equal(t, http.StatusSeeOther, w2.Code)
	assert.Equal(t, "/checkout", w2.Header().Get("Location"))

	// Session cart survives the failure.
	crt := loadCart(t, cartHandler, w2)
	require.Len(t, crt.Lines, 1)
	assert.Equal(t, 2, crt.Lines[0].Quantity)
}
