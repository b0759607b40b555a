package sqlstore

import (
	"errors"
	"testing"
	"time"

	"github.com/rvasil/pactchat/internal/models"
	"github.com/rvasil/pactchat/internal/store"
)

func newTestMessage(sender, receiver string, at time.Time) *models.Message {
	return &models.Message{
		SenderID:          sender,
		ReceiverID:        receiver,
		CipherForSender:   "tok-s",
		CipherForReceiver: "tok-r",
		CreatedAt:         at,
	}
}

func TestSaveMessage(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()
	seedPair(t)

	msg := newTestMessage("u1", "u2", time.Time{})
	if err := testStore.SaveMessage(msg); err != nil {
		t.Fatalf("Failed to save message: %v", err)
	}
	if msg.ID == "" {
		t.Error("Expected SaveMessage to assign an id")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("Expected SaveMessage to assign a timestamp")
	}

	got, err := testStore.GetMessageByID(msg.ID)
	if err != nil {
		t.Fatalf("GetMessageByID failed: %v", err)
	}
	if got.CipherForSender != "tok-s" || got.CipherForReceiver != "tok-r" {
		t.Errorf("Unexpected ciphertexts: %+v", got)
	}

	if _, err := testStore.GetMessageByID("nonexistent"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown message, got %v", err)
	}
}

func TestGetMessagesByReceiver(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()
	seedPair(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	testStore.SaveMessage(newTestMessage("u1", "u2", base.Add(time.Minute)))
	testStore.SaveMessage(newTestMessage("u3", "u2", base))
	testStore.SaveMessage(newTestMessage("u2", "u1", base))

	inbox, err := testStore.GetMessagesByReceiver("u2")
	if err != nil {
		t.Fatalf("GetMessagesByReceiver failed: %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(inbox))
	}
	// Oldest first
	if inbox[0].SenderID != "u3" || inbox[1].SenderID != "u1" {
		t.Errorf("Expected timestamp-ascending order, got %s then %s", inbox[0].SenderID, inbox[1].SenderID)
	}
}

func TestGetConversation(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()
	seedPair(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	testStore.SaveMessage(newTestMessage("u1", "u2", base))
	testStore.SaveMessage(newTestMessage("u2", "u1", base.Add(time.Minute)))
	testStore.SaveMessage(newTestMessage("u1", "u3", base)) // different pair

	conv, err := testStore.GetConversation("u1", "u2")
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	if len(conv) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(conv))
	}
	if conv[0].SenderID != "u1" || conv[1].SenderID != "u2" {
		t.Errorf("Expected both directions ordered by time, got %+v", conv)
	}

	// Order of arguments must not matter
	conv2, _ := testStore.GetConversation("u2", "u1")
	if len(conv2) != 2 {
		t.Errorf("Expected 2 messages for reversed pair, got %d", len(conv2))
	}
}

func TestGetPartnerIDs(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()
	seedPair(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	testStore.SaveMessage(newTestMessage("u1", "u2", base))
	testStore.SaveMessage(newTestMessage("u2", "u1", base))
	testStore.SaveMessage(newTestMessage("u3", "u1", base))

	partners, err := testStore.GetPartnerIDs("u1")
	if err != nil {
		t.Fatalf("GetPartnerIDs failed: %v", err)
	}
	if len(partners) != 2 {
		t.Errorf("Expected 2 distinct partners, got %v", partners)
	}
	seen := map[string]bool{}
	for _, p := range partners {
		seen[p] = true
	}
	if !seen["u2"] || !seen["u3"] {
		t.Errorf("Expected partners u2 and u3, got %v", partners)
	}
}
