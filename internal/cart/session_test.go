package cart

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func carryCookies(t *testing.T, from *httptest.ResponseRecorder, to *http.Request) {
	t.Helper()
	for _, c := range from.Result().Cookies() {
		to.AddCookie(c)
	}
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	store := sessions.NewCookieStore([]byte(strings.Repeat("k", 32)))
	repo := NewSessionRepository(store)

	// A fresh session yields an empty cart.
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	crt, err := repo.Load(req)
	require.NoError(t, err)
	assert.True(t, crt.IsEmpty())

	// Save a cart, then load it back through the cookie.
	crt.Add(product(1, "Mug", "5.00"), 2)
	w := httptest.NewRecorder()
	require.NoError(t, repo.Save(req, w, crt))

	req2 := httptest.NewRequest(http.MethodGet, "/cart", nil)
	carryCookies(t, w, req2)

	loaded, err := repo.Load(req2)
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 1)
	assert.Equal(t, 1, loaded.Lines[0].ProductID)
	assert.Equal(t, "Mug", loaded.Lines[0].Name)
	assert.Equal(t, 2, loaded.Lines[0].Quantity)
	assert.Equal(t, "5.00", loaded.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "10.00", loaded.Subtotal().StringFixed(2))
}

func TestSessionRepositoryTamperedCookie(t *testing.T) {
	store := sessions.NewCookieStore([]byte(strings.Repeat("k", 32)))
	repo := NewSessionRepository(store)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: sessionName, Value: "garbage"})

	crt, err := repo.Load(req)
	require.NoError(t, err)
	assert.True(t, crt.IsEmpty())
}
