package middleware

import (
	"encoding/json"
	"net/http"
)

const authChallenge = `Bearer realm="admin"`

// writeJSONError writes a JSON-encoded error response. 401s carry a Bearer
// challenge so API clients know the cookie can be replaced by a header.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", authChallenge)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
