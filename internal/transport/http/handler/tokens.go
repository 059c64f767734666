package handler

import (
	"net/http"

	"github.com/go-tempcred-api/internal/application/issuance"
)

// TokenHandler issues temporary tokens.
type TokenHandler struct {
	svc issuance.Service
}

func NewTokenHandler(svc issuance.Service) *TokenHandler { return &TokenHandler{svc: svc} }

// Generate answers with {"temp_token","token_expiry"}. The plaintext token is not stored anywhere.
func (h *TokenHandler) Generate(w http.ResponseWriter, r *http.Request) {
	creds, err := decodeCredentials(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	issued, err := h.svc.IssueToken(r.Context(), creds)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, issued)
}
