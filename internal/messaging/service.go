// Package messaging implements the dual-ciphertext message pipeline: each
// send authorizes against the connection graph, encrypts the plaintext once
// per party, persists the pair of ciphertexts, and then pushes a best-effort
// notification to the receiver's live session.
package messaging

import (
	"errors"
	"fmt"
	"time"

	"github.com/rvasil/pactchat/internal/apperr"
	"github.com/rvasil/pactchat/internal/crypto"
	"github.com/rvasil/pactchat/internal/models"
	"github.com/rvasil/pactchat/internal/store"
)

// Notifier delivers an event to a user's live session, if one exists.
// Delivery is best-effort; false means nobody was listening.
type Notifier interface {
	Send(userID string, event interface{}) bool
}

// NewMessageEvent is pushed to the receiver's session after a message is
// persisted. It references the receiver-side ciphertext, never the plaintext.
type NewMessageEvent struct {
	Type       string `json:"type"`
	MessageID  string `json:"message_id"`
	SenderID   string `json:"sender_id"`
	Ciphertext string `json:"ciphertext"`
}

// Decrypted is the recovered plaintext together with the message envelope.
type Decrypted struct {
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Plaintext  string    `json:"original_message"`
	CreatedAt  time.Time `json:"timestamp"`
}

type Service struct {
	store    store.Store
	notifier Notifier
}

func New(s store.Store, n Notifier) *Service {
	return &Service{store: s, notifier: n}
}

// Send encrypts plaintext under both parties' keys and stores the resulting
// message. The insert is durable before any notification is attempted, so an
// offline receiver always finds the message in their inbox later.
func (s *Service) Send(senderID, receiverID, plaintext string) (string, error) {
	status, err := s.statusBetween(senderID, receiverID)
	if err != nil {
		return "", err
	}
	if status != models.StatusAccepted {
		return "", apperr.Forbidden("connection not accepted by the user")
	}

	sender, err := s.lookupUser(senderID)
	if err != nil {
		return "", err
	}
	receiver, err := s.lookupUser(receiverID)
	if err != nil {
		return "", err
	}
	if sender.EncryptionSecret == "" || receiver.EncryptionSecret == "" {
		return "", apperr.FailedPrecondition("one or both users have no encryption secret set")
	}

	cipherForSender, err := sealFor(sender.EncryptionSecret, plaintext)
	if err != nil {
		return "", err
	}
	cipherForReceiver, err := sealFor(receiver.EncryptionSecret, plaintext)
	if err != nil {
		return "", err
	}

	msg := &models.Message{
		SenderID:          senderID,
		ReceiverID:        receiverID,
		CipherForSender:   cipherForSender,
		CipherForReceiver: cipherForReceiver,
	}
	if err := s.store.SaveMessage(msg); err != nil {
		return "", apperr.Internal("save message", err)
	}

	if s.notifier != nil {
		s.notifier.Send(receiverID, NewMessageEvent{
			Type:       "new-message",
			MessageID:  msg.ID,
			SenderID:   senderID,
			Ciphertext: cipherForReceiver,
		})
	}
	return msg.ID, nil
}

// Decrypt recovers the plaintext of a stored message for one of its parties.
// The supplied secret must equal the requester's stored secret: the equality
// pre-gate turns a stale or mistyped secret into a clean authorization error
// instead of a garbled fernet failure.
func (s *Service) Decrypt(messageID, requesterID, secret string) (*Decrypted, error) {
	msg, err := s.store.GetMessageByID(messageID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("message not found")
	}
	if err != nil {
		return nil, apperr.Internal("look up message", err)
	}

	var ciphertext string
	switch requesterID {
	case msg.SenderID:
		ciphertext = msg.CipherForSender
	case msg.ReceiverID:
		ciphertext = msg.CipherForReceiver
	default:
		return nil, apperr.Forbidden("user is not a party to this message")
	}

	requester, err := s.lookupUser(requesterID)
	if err != nil {
		return nil, err
	}
	if requester.EncryptionSecret == "" {
		return nil, apperr.Unauthorized("user has no encryption secret set")
	}
	if secret != requester.EncryptionSecret {
		return nil, apperr.Unauthorized("invalid encryption secret")
	}

	key, err := crypto.DeriveKey(secret)
	if err != nil {
		return nil, apperr.Internal("derive key", err)
	}
	plaintext, err := crypto.Decrypt(key, ciphertext)
	if err != nil {
		return nil, apperr.DecryptionFailed("decryption failed")
	}

	return &Decrypted{
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Plaintext:  plaintext,
		CreatedAt:  msg.CreatedAt,
	}, nil
}

// Inbox lists every message addressed to the user, oldest first.
func (s *Service) Inbox(receiverID string) ([]models.Message, error) {
	msgs, err := s.store.GetMessagesByReceiver(receiverID)
	if err != nil {
		return nil, apperr.Internal("list inbox", err)
	}
	return msgs, nil
}

// Conversation lists the full two-party ciphertext history, oldest first.
func (s *Service) Conversation(a, b string) ([]models.Message, error) {
	msgs, err := s.store.GetConversation(a, b)
	if err != nil {
		return nil, apperr.Internal("list conversation", err)
	}
	return msgs, nil
}

// Partners returns the profiles of everyone the user has ever exchanged
// messages with.
func (s *Service) Partners(userID string) ([]models.User, error) {
	ids, err := s.store.GetPartnerIDs(userID)
	if err != nil {
		return nil, apperr.Internal("list chat partners", err)
	}
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.lookupUser(id)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

func (s *Service) UserCount() (int, error) {
	count, err := s.store.CountUsers()
	if err != nil {
		return 0, apperr.Internal("count users", err)
	}
	return count, nil
}

func (s *Service) statusBetween(a, b string) (string, error) {
	conn, err := s.store.GetConnectionBetween(a, b)
	if err != nil {
		return "", apperr.Internal("look up connection", err)
	}
	if conn == nil {
		return models.StatusNone, nil
	}
	return conn.Status, nil
}

func (s *Service) lookupUser(id string) (*models.User, error) {
	user, err := s.store.GetUserByID(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("user %s not found", id))
	}
	if err != nil {
		return nil, apperr.Internal("look up user", err)
	}
	return user, nil
}

func sealFor(secret, plaintext string) (string, error) {
	key, err := crypto.DeriveKey(secret)
	if err != nil {
		return "", apperr.Internal("derive key", err)
	}
	token, err := crypto.Encrypt(key, plaintext)
	if err != nil {
		return "", apperr.Internal("encrypt message", err)
	}
	return token, nil
}
