package models

import "time"

type User struct {
	ID               string `json:"user_id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"-"`
	Avatar           string `json:"avatar"`
	EncryptionSecret string `json:"-"`
}

// Connection statuses. There is no declined or revoked state; a request
// either waits or has been accepted.
const (
	StatusNone     = "none"
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

// Connection is a directed request from SenderID to ReceiverID. Only one
// record may exist per unordered user pair, regardless of direction.
type Connection struct {
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Message stores two independent ciphertexts of the same plaintext, one
// recoverable with the sender's secret and one with the receiver's. The
// plaintext itself is never persisted.
type Message struct {
	ID                string    `json:"message_id"`
	SenderID          string    `json:"sender_id"`
	ReceiverID        string    `json:"receiver_id"`
	CipherForSender   string    `json:"message_for_sender"`
	CipherForReceiver string    `json:"message_for_receiver"`
	CreatedAt         time.Time `json:"timestamp"`
}
