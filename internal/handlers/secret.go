package handlers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/rvasil/pactchat/internal/apperr"
	"github.com/rvasil/pactchat/internal/store"
)

type SecretHandler struct {
	Store store.Store
}

// The demo constrains secrets to exactly two decimal digits; key derivation
// itself accepts anything up to the key length.
var secretFormat = regexp.MustCompile(`^\d{2}$`)

func (h *SecretHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !secretFormat.MatchString(req.Password) {
		writeError(w, apperr.InvalidArg("encryption secret must be exactly 2 digits"))
		return
	}

	if err := h.Store.SetEncryptionSecret(req.UserID, req.Password); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, apperr.NotFound("user not found"))
			return
		}
		writeError(w, apperr.Internal("set encryption secret", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Encryption secret updated"})
}

func (h *SecretHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, apperr.InvalidArg("user_id is required"))
		return
	}

	user, err := h.Store.GetUserByID(userID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, apperr.NotFound("user not found"))
		return
	}
	if err != nil {
		writeError(w, apperr.Internal("look up user", err))
		return
	}
	if user.EncryptionSecret == "" {
		writeError(w, apperr.NotFound("encryption secret not set"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"user_id": userID,
		"secret":  user.EncryptionSecret,
	})
}
