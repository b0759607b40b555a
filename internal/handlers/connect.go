package handlers

import (
	"net/http"

	"github.com/rvasil/pactchat/internal/apperr"
	"github.com/rvasil/pactchat/internal/connections"
	"github.com/rvasil/pactchat/internal/models"
	"github.com/rvasil/pactchat/internal/store"
)

type ConnectHandler struct {
	Graph *connections.Service
	Store store.Store
}

type pairRequest struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
}

func (h *ConnectHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := h.Graph.Request(req.SenderID, req.ReceiverID)
	if err != nil {
		writeError(w, err)
		return
	}
	// A duplicate request is a no-op result, not an error.
	if outcome == connections.OutcomeAlreadyExists {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Request already sent or already connected",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Connection request sent",
		"status":  models.StatusPending,
	})
}

func (h *ConnectHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	var req pairRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Graph.Accept(req.SenderID, req.ReceiverID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Connection accepted"})
}

func (h *ConnectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, apperr.InvalidArg("user_id is required"))
		return
	}

	users, err := h.Graph.ListAccepted(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"connections": users})
}

func (h *ConnectHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	senderID := r.URL.Query().Get("sender_id")
	receiverID := r.URL.Query().Get("receiver_id")
	if senderID == "" || receiverID == "" {
		writeError(w, apperr.InvalidArg("sender_id and receiver_id are required"))
		return
	}

	status, err := h.Graph.StatusBetween(senderID, receiverID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (h *ConnectHandler) SentRequests(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, apperr.InvalidArg("user_id is required"))
		return
	}

	reqs, err := h.Graph.ListOutgoing(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sent_requests": reqs})
}

func (h *ConnectHandler) ReceivedRequests(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, apperr.InvalidArg("user_id is required"))
		return
	}

	reqs, err := h.Graph.ListIncoming(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"received_requests": reqs})
}

func (h *ConnectHandler) AllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers()
	if err != nil {
		writeError(w, apperr.Internal("list users", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
