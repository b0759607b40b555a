package sqlstore

import (
	"database/sql"
	"errors"

	"github.com/rvasil/pactchat/internal/models"
	"github.com/rvasil/pactchat/internal/store"
)

func (s *SQLStore) CreateUser(user *models.User) error {
	query := s.rebind("INSERT INTO users (id, username, email, password, avatar, encryption_secret) VALUES (?, ?, ?, ?, ?, ?)")
	_, err := s.db.Exec(query, user.ID, user.Username, user.Email, user.Password, user.Avatar, user.EncryptionSecret)
	return err
}

func (s *SQLStore) GetUserByID(id string) (*models.User, error) {
	query := s.rebind("SELECT id, username, email, password, COALESCE(avatar, ''), COALESCE(encryption_secret, '') FROM users WHERE id = ?")
	return s.scanUser(s.db.QueryRow(query, id))
}

func (s *SQLStore) GetUserByEmail(email string) (*models.User, error) {
	query := s.rebind("SELECT id, username, email, password, COALESCE(avatar, ''), COALESCE(encryption_secret, '') FROM users WHERE email = ?")
	return s.scanUser(s.db.QueryRow(query, email))
}

func (s *SQLStore) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Avatar, &user.EncryptionSecret)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SQLStore) ListUsers() ([]models.User, error) {
	query := "SELECT id, username, email, COALESCE(avatar, '') FROM users"
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Avatar); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *SQLStore) CountUsers() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (s *SQLStore) SetEncryptionSecret(userID, secret string) error {
	query := s.rebind("UPDATE users SET encryption_secret = ? WHERE id = ?")
	result, err := s.db.Exec(query, secret, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}
