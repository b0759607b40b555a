package sqlstore

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rvasil/pactchat/internal/models"
	"github.com/rvasil/pactchat/internal/store"
)

func (s *SQLStore) SaveMessage(msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	query := s.rebind("INSERT INTO messages (id, sender_id, receiver_id, cipher_for_sender, cipher_for_receiver, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	_, err := s.db.Exec(query, msg.ID, msg.SenderID, msg.ReceiverID, msg.CipherForSender, msg.CipherForReceiver, msg.CreatedAt)
	return err
}

func (s *SQLStore) GetMessageByID(id string) (*models.Message, error) {
	query := s.rebind("SELECT id, sender_id, receiver_id, cipher_for_sender, cipher_for_receiver, created_at FROM messages WHERE id = ?")
	var msg models.Message
	err := s.db.QueryRow(query, id).Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.CipherForSender, &msg.CipherForReceiver, &msg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *SQLStore) GetMessagesByReceiver(userID string) ([]models.Message, error) {
	query := s.rebind("SELECT id, sender_id, receiver_id, cipher_for_sender, cipher_for_receiver, created_at FROM messages WHERE receiver_id = ? ORDER BY created_at ASC")
	return s.queryMessages(query, userID)
}

func (s *SQLStore) GetConversation(a, b string) ([]models.Message, error) {
	query := s.rebind(`
		SELECT id, sender_id, receiver_id, cipher_for_sender, cipher_for_receiver, created_at
		FROM messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		ORDER BY created_at ASC
	`)
	return s.queryMessages(query, a, b, b, a)
}

func (s *SQLStore) queryMessages(query string, args ...interface{}) ([]models.Message, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.CipherForSender, &msg.CipherForReceiver, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *SQLStore) GetPartnerIDs(userID string) ([]string, error) {
	query := s.rebind(`
		SELECT DISTINCT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
		FROM messages
		WHERE sender_id = ? OR receiver_id = ?
	`)
	rows, err := s.db.Query(query, userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		partners = append(partners, id)
	}
	return partners, rows.Err()
}
