package handler

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/go-tempcred-api/internal/domain"
	"github.com/go-tempcred-api/internal/pkg/validate"
)

const maxFormMemory = 1 << 20

// decodeCredentials accepts a JSON body or form fields and normalizes them into
// domain.Credentials. Anything else is domain.ErrMalformedInput. Bodies are
// capped at maxFormMemory whatever the encoding.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (domain.Credentials, error) {
	var creds domain.Credentials
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	r.Body = http.MaxBytesReader(w, r.Body, maxFormMemory)

	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return creds, fmt.Errorf("%w: invalid JSON body", domain.ErrMalformedInput)
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return creds, fmt.Errorf("%w: invalid form body", domain.ErrMalformedInput)
		}
		creds = formCredentials(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return creds, fmt.Errorf("%w: invalid form body", domain.ErrMalformedInput)
		}
		creds = formCredentials(r)
	default:
		return creds, domain.ErrMalformedInput
	}

	creds.Username = strings.TrimSpace(creds.Username)
	if err := validate.Struct(creds); err != nil {
		return creds, fmt.Errorf("%w: %s", domain.ErrMalformedInput, err.Error())
	}
	return creds, nil
}

func formCredentials(r *http.Request) domain.Credentials {
	return domain.Credentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
}
