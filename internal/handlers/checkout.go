package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/siddarthanreddy/ministore/internal/cart"
	"github.com/siddarthanreddy/ministore/internal/checkout"
)

type CheckoutHandler struct {
	Committer    *checkout.Committer
	Carts        cart.Repository
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func (h *CheckoutHandler) CheckoutForm(w http.ResponseWriter, r *http.Request) {
	crt, err := h.Carts.Load(r)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("checkout.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, shopSession)
	data := map[string]interface{}{
		"Cart":      crt,
		"Subtotal":  crt.Subtotal(),
		"CartCount": crt.ItemCount(),
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// SubmitCheckout commits the cart into an order. Contact fields are
// stored as provided; the committer guarantees the cart survives any
// persistence failure untouched.
func (h *CheckoutHandler) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, shopSession)
	defer session.Save(r, w)

	if err := r.ParseForm(); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid form data."})
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	crt, err := h.Carts.Load(r)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	order, err := h.Committer.Commit(r.Context(), crt,
		r.FormValue("name"),
		r.FormValue("email"),
		r.FormValue("address"),
	)
	if errors.Is(err, checkout.ErrEmptyCart) {
		session.AddFlash(FlashMessage{Type: "error", Message: "Cart empty"})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("Order commit failed", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Failed to place order. Please try again."})
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	// The committer cleared the cart; persist the empty cart back into
	// the session.
	if err := h.Carts.Save(r, w, crt); err != nil {
		slog.Error("Failed to save cleared cart", "order_id", order.ID, "error", err)
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Order placed — this is a demo, no real payment processed"})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
