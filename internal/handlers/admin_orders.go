package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
)

// ListOrders shows placed orders, newest first, with their item
// snapshots. Orders are read-only here; there is nothing to edit.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 10 // Default limit
	}

	offset := (page - 1) * limit

	orders, err := h.Store.ListOrders(limit, offset)
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}

	totalOrders, err := h.Store.CountOrders()
	if err != nil {
		http.Error(w, "Error fetching total order count", http.StatusInternalServerError)
		return
	}

	totalPages := (totalOrders + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	tmpl := h.Templates.Get("admin_orders.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, adminSession)
	data := map[string]interface{}{
		"Orders":      orders,
		"CsrfField":   csrf.TemplateField(r),
		"Flashes":     GetFlash(session),
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"Limit":       limit,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
