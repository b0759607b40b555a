package sqlstore

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rvasil/pactchat/internal/models"
)

// CreateConnection inserts a pending request for the pair. The loser of a
// concurrent insert race hits the pair_key conflict and reports created=false,
// same as a plain duplicate.
func (s *SQLStore) CreateConnection(senderID, receiverID string) (bool, error) {
	query := s.rebind(`
		INSERT INTO connections (pair_key, sender_id, receiver_id, status, created_at)
		VALUES (?, ?, ?, 'pending', ?)
		ON CONFLICT (pair_key) DO NOTHING
	`)
	result, err := s.db.Exec(query, pairKey(senderID, receiverID), senderID, receiverID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// GetConnectionBetween looks up the pair's record irrespective of direction.
// Returns (nil, nil) when no record exists.
func (s *SQLStore) GetConnectionBetween(a, b string) (*models.Connection, error) {
	query := s.rebind("SELECT sender_id, receiver_id, status, created_at FROM connections WHERE pair_key = ?")
	var conn models.Connection
	err := s.db.QueryRow(query, pairKey(a, b)).Scan(&conn.SenderID, &conn.ReceiverID, &conn.Status, &conn.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// AcceptConnection flips pending to accepted for the exact direction given.
// A conditional update, so of two concurrent accepts only one sees a row.
func (s *SQLStore) AcceptConnection(senderID, receiverID string) (bool, error) {
	query := s.rebind("UPDATE connections SET status = 'accepted' WHERE sender_id = ? AND receiver_id = ? AND status = 'pending'")
	result, err := s.db.Exec(query, senderID, receiverID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (s *SQLStore) GetConnectionsBySender(userID string) ([]models.Connection, error) {
	query := s.rebind("SELECT sender_id, receiver_id, status, created_at FROM connections WHERE sender_id = ? ORDER BY created_at ASC")
	return s.queryConnections(query, userID)
}

func (s *SQLStore) GetConnectionsByReceiver(userID string) ([]models.Connection, error) {
	query := s.rebind("SELECT sender_id, receiver_id, status, created_at FROM connections WHERE receiver_id = ? ORDER BY created_at ASC")
	return s.queryConnections(query, userID)
}

func (s *SQLStore) queryConnections(query string, args ...interface{}) ([]models.Connection, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []models.Connection
	for rows.Next() {
		var conn models.Connection
		if err := rows.Scan(&conn.SenderID, &conn.ReceiverID, &conn.Status, &conn.CreatedAt); err != nil {
			return nil, err
		}
		conns = append(conns, conn)
	}
	return conns, rows.Err()
}

func (s *SQLStore) GetAcceptedPeerIDs(userID string) ([]string, error) {
	query := s.rebind(`
		SELECT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
		FROM connections
		WHERE status = 'accepted' AND (sender_id = ? OR receiver_id = ?)
		ORDER BY created_at ASC
	`)
	rows, err := s.db.Query(query, userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var peers []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		peers = append(peers, id)
	}
	return peers, rows.Err()
}
