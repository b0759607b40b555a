package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/mail"

	"github.com/google/uuid"
	"github.com/rvasil/pactchat/internal/apperr"
	"github.com/rvasil/pactchat/internal/auth"
	"github.com/rvasil/pactchat/internal/avatar"
	"github.com/rvasil/pactchat/internal/email"
	"github.com/rvasil/pactchat/internal/models"
	"github.com/rvasil/pactchat/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Store  store.Store
	Tokens *auth.TokenManager
	Email  *email.Sender
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, apperr.InvalidArg("username and password are required"))
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, apperr.InvalidArg("invalid email address"))
		return
	}

	if _, err := h.Store.GetUserByEmail(req.Email); err == nil {
		writeError(w, apperr.AlreadyExists("email already exists"))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, apperr.Internal("look up user", err))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, apperr.Internal("hash password", err))
		return
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Avatar:   avatar.URL(req.Username),
	}
	if err := h.Store.CreateUser(user); err != nil {
		writeError(w, apperr.AlreadyExists("email already exists"))
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		writeError(w, apperr.Internal("issue token", err))
		return
	}

	if h.Email != nil {
		go func() {
			if err := h.Email.SendWelcome(user.Email, user.Username); err != nil {
				log.Printf("welcome email to %s: %v", user.Email, err)
			}
		}()
	}

	writeJSON(w, http.StatusCreated, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Store.GetUserByEmail(req.Email)
	if err != nil {
		writeError(w, apperr.Unauthorized("invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeError(w, apperr.Unauthorized("invalid credentials"))
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		writeError(w, apperr.Internal("issue token", err))
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}
