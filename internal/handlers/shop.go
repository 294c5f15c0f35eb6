package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/siddarthanreddy/ministore/internal/cart"
	"github.com/siddarthanreddy/ministore/internal/store"
)

const shopSession = "shop-session"

type ShopHandler struct {
	Store        *store.Store
	Carts        cart.Repository
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func (h *ShopHandler) Index(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts()
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("home.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	crt, _ := h.Carts.Load(r)
	session, _ := h.SessionStore.Get(r, shopSession)
	data := map[string]interface{}{
		"Products":  products,
		"CartCount": crt.ItemCount(),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *ShopHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
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

	tmpl := h.Templates.Get("product.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	crt, _ := h.Carts.Load(r)
	session, _ := h.SessionStore.Get(r, shopSession)
	data := map[string]interface{}{
		"Product":   product,
		"CartCount": crt.ItemCount(),
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
