package cart

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "shop-session"
	cartKey     = "cart"
)

// Register types for gob encoding (used by sessions)
func init() {
	gob.Register(Cart{})
}

// Repository loads and saves a visitor's cart at request boundaries.
// The cart is never ambient state; handlers load it, mutate it, and
// save it back explicitly.
type Repository interface {
	Load(r *http.Request) (*Cart, error)
	Save(r *http.Request, w http.ResponseWriter, c *Cart) error
}

// SessionRepository keeps the cart gob-encoded inside the visitor's
// cookie session, one cart per session.
type SessionRepository struct {
	Store *sessions.CookieStore
}

func NewSessionRepository(store *sessions.CookieStore) *SessionRepository {
	return &SessionRepository{Store: store}
}

// Load returns the session's cart, or a fresh empty cart if the
// session has none yet.
func (sr *SessionRepository) Load(r *http.Request) (*Cart, error) {
	session, err := sr.Store.Get(r, sessionName)
	if err != nil {
		// A stale or tampered cookie decodes to a fresh session; start
		// the visitor over with an empty cart rather than failing.
		return New(), nil
	}
	stored, ok := session.Values[cartKey].(Cart)
	if !ok {
		return New(), nil
	}
	return &stored, nil
}

func (sr *SessionRepository) Save(r *http.Request, w http.ResponseWriter, c *Cart) error {
	session, _ := sr.Store.Get(r, sessionName)
	session.Values[cartKey] = *c
	return session.Save(r, w)
}
