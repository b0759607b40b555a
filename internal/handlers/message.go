package handlers

import (
	"net/http"
	"time"

	"github.com/rvasil/pactchat/internal/apperr"
	"github.com/rvasil/pactchat/internal/messaging"
)

type MessageHandler struct {
	Pipeline *messaging.Service
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID   string `json:"sender_id"`
		ReceiverID string `json:"receiver_id"`
		Message    string `json:"message"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Message == "" {
		writeError(w, apperr.InvalidArg("message is required"))
		return
	}

	messageID, err := h.Pipeline.Send(req.SenderID, req.ReceiverID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "Encrypted message sent",
		"message_id": messageID,
	})
}

func (h *MessageHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReceiverID string `json:"receiver_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	messages, err := h.Pipeline.Inbox(req.ReceiverID)
	if err != nil {
		writeError(w, err)
		return
	}

	type inboxItem struct {
		MessageID        string    `json:"message_id"`
		SenderID         string    `json:"sender_id"`
		EncryptedMessage string    `json:"encrypted_message"`
		Timestamp        time.Time `json:"timestamp"`
	}
	items := make([]inboxItem, 0, len(messages))
	for _, msg := range messages {
		items = append(items, inboxItem{
			MessageID:        msg.ID,
			SenderID:         msg.SenderID,
			EncryptedMessage: msg.CipherForReceiver,
			Timestamp:        msg.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"received_messages": items})
}

func (h *MessageHandler) Decrypt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID string `json:"message_id"`
		UserID    string `json:"user_id"`
		Password  string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.Pipeline.Decrypt(req.MessageID, req.UserID, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User1ID string `json:"user1_id"`
		User2ID string `json:"user2_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	messages, err := h.Pipeline.Conversation(req.User1ID, req.User2ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"conversation": messages})
}

func (h *MessageHandler) ChatPartners(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	partners, err := h.Pipeline.Partners(req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"chat_partners": partners})
}

func (h *MessageHandler) UserCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Pipeline.UserCount()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"total_users": count})
}
