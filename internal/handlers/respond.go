package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rvasil/pactchat/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"code":  string(apperr.CodeInternal),
			"error": "internal error",
		})
		return
	}
	writeJSON(w, apperr.HTTPStatus(err), map[string]string{
		"code":  string(ae.Code),
		"error": ae.Message,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, apperr.InvalidArg("invalid request body"))
		return false
	}
	return true
}
