package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/siddarthanreddy/ministore/internal/store"
)

const adminSession = "admin-session"

type AdminHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
	// PasswordHash is the bcrypt hash of the single shared admin secret.
	PasswordHash []byte
	UploadDir    string
}

func (h *AdminHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("admin_login.html")
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

func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)

	password := r.FormValue("password")
	if err := bcrypt.CompareHashAndPassword(h.PasswordHash, []byte(password)); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Incorrect password"})
		session.Save(r, w)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	session.Values["is_admin"] = true
	session.Options.Path = "/"

	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Admin login successful")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSession)
	delete(session.Values, "is_admin")
	session.Options.MaxAge = -1 // Expire immediately
	session.Save(r, w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RequireAdmin gates every product-mutating route. Without the session
// flag the visitor is sent to the login form, never shown detail.
func (h *AdminHandler) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, adminSession)
		if isAdmin, ok := session.Values["is_admin"].(bool); !ok || !isAdmin {
			slog.Info("Unauthenticated admin request, redirecting to login", "path", r.URL.Path)
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetDashboardStats()
	if err != nil {
		http.Error(w, "Error fetching stats", http.StatusInternalServerError)
		return
	}

	products, err := h.Store.ListProducts()
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("admin_dashboard.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, adminSession)
	data := map[string]interface{}{
		"Stats":     stats,
		"Products":  products,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
