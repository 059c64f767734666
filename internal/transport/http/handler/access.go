package handler

import (
	"net/http"

	"github.com/go-tempcred-api/internal/application/validation"
)

const accessGrantedMessage = "Access granted to the Hospital database"

// AccessHandler checks temporary tokens against the secondary store.
type AccessHandler struct {
	svc validation.Service
}

func NewAccessHandler(svc validation.Service) *AccessHandler { return &AccessHandler{svc: svc} }

func (h *AccessHandler) Access(w http.ResponseWriter, r *http.Request) {
	creds, err := decodeCredentials(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.svc.ValidateToken(r.Context(), creds); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: accessGrantedMessage})
}
