package store

import (
	"errors"

	"github.com/rvasil/pactchat/internal/models"
)

// ErrNotFound is returned by single-row lookups when no row matches.
var ErrNotFound = errors.New("store: not found")

type Store interface {
	// User operations
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers() ([]models.User, error)
	CountUsers() (int, error)
	SetEncryptionSecret(userID, secret string) error

	// Connection operations
	CreateConnection(senderID, receiverID string) (created bool, err error)
	GetConnectionBetween(a, b string) (*models.Connection, error)
	AcceptConnection(senderID, receiverID string) (accepted bool, err error)
	GetConnectionsBySender(userID string) ([]models.Connection, error)
	GetConnectionsByReceiver(userID string) ([]models.Connection, error)
	GetAcceptedPeerIDs(userID string) ([]string, error)

	// Message operations
	SaveMessage(msg *models.Message) error
	GetMessageByID(id string) (*models.Message, error)
	GetMessagesByReceiver(userID string) ([]models.Message, error)
	GetConversation(a, b string) ([]models.Message, error)
	GetPartnerIDs(userID string) ([]string, error)
}
