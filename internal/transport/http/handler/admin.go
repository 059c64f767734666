package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-tempcred-api/internal/application/admin"
	"github.com/go-tempcred-api/internal/application/provisioning"
	"github.com/go-tempcred-api/internal/transport/http/middleware"
)

// AdminHandler serves the admin login and user provisioning endpoints.
type AdminHandler struct {
	svc        admin.Service
	provision  provisioning.Service
	sessionTTL time.Duration
	secure     bool
}

// NewAdminHandler builds the handler. secure marks the session cookie HTTPS-only.
func NewAdminHandler(svc admin.Service, provision provisioning.Service, sessionTTL time.Duration, secure bool) *AdminHandler {
	return &AdminHandler{svc: svc, provision: provision, sessionTTL: sessionTTL, secure: secure}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, err := decodeCredentials(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	session, err := h.svc.Login(r.Context(), creds)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, "/add_user", http.StatusFound)
}

func (h *AdminHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	creds, err := decodeCredentials(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.provision.ProvisionUser(r.Context(), creds); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{
		Message: fmt.Sprintf("User %s added successfully to both stores.", creds.Username),
	})
}
