package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/shopspring/decimal"

	"github.com/siddarthanreddy/ministore/internal/models"
	"github.com/siddarthanreddy/ministore/internal/store"
)

func (h *AdminHandler) NewProductForm(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("admin_product_new.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, adminSession)
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// parseProductForm validates the admin-submitted fields: non-empty
// name, non-negative decimal price.
func parseProductForm(r *http.Request) (name, description string, price decimal.Decimal, errs map[string]string) {
	errs = make(map[string]string)
	name = r.FormValue("name")
	description = r.FormValue("description")
	priceStr := r.FormValue("price")

	if name == "" {
		errs["name"] = "Name is required."
	}
	if priceStr == "" {
		errs["price"] = "Price is required."
		return
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		errs["price"] = "Invalid price format."
		return
	}
	if price.IsNegative() {
		errs["price"] = "Price must not be negative."
	}
	return name, description, price, errs
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)
	defer session.Save(r, w)

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		session.AddFlash(FlashMessage{Type: "error", Message: "File too large. Max 10MB."})
		http.Redirect(w, r, "/admin/product/new", http.StatusSeeOther)
		return
	}

	name, description, price, errs := parseProductForm(r)
	if len(errs) > 0 {
		for _, msg := range errs {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		http.Redirect(w, r, "/admin/product/new", http.StatusSeeOther)
		return
	}

	// Image is optional; only an allow-listed extension is stored.
	filename := ""
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		filename, err = saveUploadedImage(file, header, h.UploadDir)
		if errors.Is(err, ErrUnsupportedImage) {
			session.AddFlash(FlashMessage{Type: "error", Message: "Unsupported image format. Only PNG, JPG, JPEG, GIF are allowed."})
			http.Redirect(w, r, "/admin/product/new", http.StatusSeeOther)
			return
		}
		if err != nil {
			session.AddFlash(FlashMessage{Type: "error", Message: "Error saving image file."})
			http.Redirect(w, r, "/admin/product/new", http.StatusSeeOther)
			return
		}
	}

	product := &models.Product{
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    filename,
	}
	if err := h.Store.CreateProduct(product); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Error saving product to database."})
		http.Redirect(w, r, "/admin/product/new", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Product added successfully!"})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) EditProductForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
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

	tmpl := h.Templates.Get("admin_product_edit.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, adminSession)
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
		"Product":   product,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)
	defer session.Save(r, w)

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		session.AddFlash(FlashMessage{Type: "error", Message: "File too large."})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid ID."})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	name, description, price, errs := parseProductForm(r)
	if len(errs) > 0 {
		for _, msg := range errs {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		http.Redirect(w, r, fmt.Sprintf("/admin/product/edit/%d", id), http.StatusSeeOther)
		return
	}

	product := &models.Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
	}
	if err := h.Store.UpdateProduct(product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		session.AddFlash(FlashMessage{Type: "error", Message: "Error updating product."})
		http.Redirect(w, r, fmt.Sprintf("/admin/product/edit/%d", id), http.StatusSeeOther)
		return
	}

	// Handle optional image replacement
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		filename, err := saveUploadedImage(file, header, h.UploadDir)
		if errors.Is(err, ErrUnsupportedImage) {
			session.AddFlash(FlashMessage{Type: "error", Message: "Unsupported image format."})
			http.Redirect(w, r, fmt.Sprintf("/admin/product/edit/%d", id), http.StatusSeeOther)
			return
		}
		if err == nil {
			if err := h.Store.UpdateProductImage(id, filename); err != nil {
				session.AddFlash(FlashMessage{Type: "error", Message: "Error updating product image."})
				http.Redirect(w, r, fmt.Sprintf("/admin/product/edit/%d", id), http.StatusSeeOther)
				return
			}
		}
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Product updated successfully!"})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)
	defer session.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid ID."})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	if err := h.Store.DeleteProduct(id); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Error deleting product."})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Product deleted successfully!"})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
