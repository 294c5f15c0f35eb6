package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/siddarthanreddy/ministore/internal/cart"
	"github.com/siddarthanreddy/ministore/internal/store"
)

type CartHandler struct {
	Store        *store.Store
	Carts        cart.Repository
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	crt, err := h.Carts.Load(r)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("cart.html")
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

// AddToCart handles POST /cart/add/{id}. A malformed or non-positive
// quantity degrades to adding nothing rather than failing the request.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, shopSession)
	defer session.Save(r, w)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid product."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	product, err := h.Store.GetProduct(id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return
	}

	qty := 1
	if raw := r.FormValue("quantity"); raw != "" {
		q, ok := cart.ParseQuantity(raw)
		if !ok {
			q = 0
		}
		qty = q
	}

	crt, err := h.Carts.Load(r)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}
	crt.Add(*product, qty)
	if err := h.Carts.Save(r, w, crt); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Added to cart"})
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// UpdateCart handles POST /cart/update. Quantity inputs are named
// qty_<productID>; zero, negative and unparsable values remove the
// line, anything else replaces the stored quantity.
func (h *CartHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	updates := make(map[int]string)
	for key, vals := range r.PostForm {
		pidStr, found := strings.CutPrefix(key, "qty_")
		if !found || len(vals) == 0 {
			continue
		}
		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			continue
		}
		updates[pid] = vals[0]
	}

	crt, err := h.Carts.Load(r)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}
	crt.ApplyUpdates(updates)
	if err := h.Carts.Save(r, w, crt); err != nil {
		http.Error(w, "Error saving cart", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
