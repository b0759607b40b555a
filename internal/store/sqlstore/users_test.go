package sqlstore

import (
	"errors"
	"testing"

	"github.com/rvasil/pactchat/internal/models"
	"github.com/rvasil/pactchat/internal/store"
)

func newTestUser(id, username, email string) *models.User {
	return &models.User{ID: id, Username: username, Email: email, Password: "hash"}
}

func TestCreateUser(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	err := testStore.CreateUser(newTestUser("u1", "alice", "alice@example.com"))
	if err != nil {
		t.Errorf("Failed to create user: %v", err)
	}

	// Duplicate email must be rejected
	err = testStore.CreateUser(newTestUser("u2", "alice2", "alice@example.com"))
	if err == nil {
		t.Error("Expected error when creating user with duplicate email, got nil")
	}
}

func TestGetUser(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	testStore.CreateUser(newTestUser("u1", "alice", "alice@example.com"))

	user, err := testStore.GetUserByID("u1")
	if err != nil {
		t.Fatalf("Failed to get user by id: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Expected username 'alice', got '%s'", user.Username)
	}

	user, err = testStore.GetUserByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("Failed to get user by email: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("Expected id 'u1', got '%s'", user.ID)
	}

	if _, err = testStore.GetUserByID("nonexistent"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestListAndCountUsers(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	testStore.CreateUser(newTestUser("u1", "alice", "alice@example.com"))
	testStore.CreateUser(newTestUser("u2", "bob", "bob@example.com"))

	users, err := testStore.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("Expected 2 users, got %d", len(users))
	}

	count, err := testStore.CountUsers()
	if err != nil {
		t.Fatalf("CountUsers failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}
}

func TestSetEncryptionSecret(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	testStore.CreateUser(newTestUser("u1", "alice", "alice@example.com"))

	if err := testStore.SetEncryptionSecret("u1", "12"); err != nil {
		t.Errorf("Failed to set secret: %v", err)
	}

	user, _ := testStore.GetUserByID("u1")
	if user.EncryptionSecret != "12" {
		t.Errorf("Expected secret '12', got '%s'", user.EncryptionSecret)
	}

	// Updating is allowed
	if err := testStore.SetEncryptionSecret("u1", "34"); err != nil {
		t.Errorf("Failed to update secret: %v", err)
	}
	user, _ = testStore.GetUserByID("u1")
	if user.EncryptionSecret != "34" {
		t.Errorf("Expected secret '34', got '%s'", user.EncryptionSecret)
	}

	if err := testStore.SetEncryptionSecret("nonexistent", "12"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
}
