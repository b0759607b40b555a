package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rvasil/pactchat/internal/connections"
	"github.com/rvasil/pactchat/internal/messaging"
	"github.com/rvasil/pactchat/internal/models"
	"github.com/rvasil/pactchat/internal/store/sqlstore"
)

type testApp struct {
	store    *sqlstore.SQLStore
	connect  *ConnectHandler
	messages *MessageHandler
	secrets  *SecretHandler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store, err := sqlstore.New("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	for _, u := range []models.User{
		{ID: "alice-id", Username: "alice", Email: "alice@example.com", Password: "hash", EncryptionSecret: "12"},
		{ID: "bob-id", Username: "bob", Email: "bob@example.com", Password: "hash", EncryptionSecret: "34"},
		{ID: "carol-id", Username: "carol", Email: "carol@example.com", Password: "hash", EncryptionSecret: "56"},
	} {
		user := u
		if err := store.CreateUser(&user); err != nil {
			t.Fatal(err)
		}
	}

	graph := connections.New(store)
	pipeline := messaging.New(store, nil)
	return &testApp{
		store:    store,
		connect:  &ConnectHandler{Graph: graph, Store: store},
		messages: &MessageHandler{Pipeline: pipeline},
		secrets:  &SecretHandler{Store: store},
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func (app *testApp) pair(t *testing.T, sender, receiver string) {
	t.Helper()
	rr := postJSON(t, app.connect.SendRequest, "/connect/send-request", map[string]string{
		"sender_id": sender, "receiver_id": receiver,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("send-request failed: %d %s", rr.Code, rr.Body.String())
	}
	rr = postJSON(t, app.connect.AcceptRequest, "/connect/accept-request", map[string]string{
		"sender_id": sender, "receiver_id": receiver,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("accept-request failed: %d %s", rr.Code, rr.Body.String())
	}
}

func TestSendForbiddenWithoutConnection(t *testing.T) {
	app := newTestApp(t)

	rr := postJSON(t, app.messages.Send, "/messages/send", map[string]string{
		"sender_id": "alice-id", "receiver_id": "bob-id", "message": "hello",
	})
	if rr.Code != http.StatusForbidden {
		t.Errorf("handler returned wrong status code: got %v want %v",
			rr.Code, http.StatusForbidden)
	}
}

func TestSendAndDecryptFlow(t *testing.T) {
	app := newTestApp(t)
	app.pair(t, "alice-id", "bob-id")

	rr := postJSON(t, app.messages.Send, "/messages/send", map[string]string{
		"sender_id": "alice-id", "receiver_id": "bob-id", "message": "hello",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("send failed: %d %s", rr.Code, rr.Body.String())
	}
	var sendResp map[string]string
	json.NewDecoder(rr.Body).Decode(&sendResp)
	messageID := sendResp["message_id"]
	if messageID == "" {
		t.Fatal("Expected a message_id in the response")
	}

	// Bob decrypts with his secret
	rr = postJSON(t, app.messages.Decrypt, "/messages/decrypt", map[string]string{
		"message_id": messageID, "user_id": "bob-id", "password": "34",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("decrypt failed: %d %s", rr.Code, rr.Body.String())
	}
	var decResp map[string]interface{}
	json.NewDecoder(rr.Body).Decode(&decResp)
	if decResp["original_message"] != "hello" {
		t.Errorf("Expected plaintext 'hello', got %v", decResp["original_message"])
	}

	// Bob with alice's secret is rejected
	rr = postJSON(t, app.messages.Decrypt, "/messages/decrypt", map[string]string{
		"message_id": messageID, "user_id": "bob-id", "password": "12",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong secret, got %d", rr.Code)
	}

	// Carol is not a party to the message
	rr = postJSON(t, app.messages.Decrypt, "/messages/decrypt", map[string]string{
		"message_id": messageID, "user_id": "carol-id", "password": "56",
	})
	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for a third party, got %d", rr.Code)
	}
}

func TestReceiveInbox(t *testing.T) {
	app := newTestApp(t)
	app.pair(t, "alice-id", "bob-id")

	postJSON(t, app.messages.Send, "/messages/send", map[string]string{
		"sender_id": "alice-id", "receiver_id": "bob-id", "message": "hello",
	})

	rr := postJSON(t, app.messages.Receive, "/messages/receive", map[string]string{
		"receiver_id": "bob-id",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("receive failed: %d %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		ReceivedMessages []struct {
			MessageID        string `json:"message_id"`
			SenderID         string `json:"sender_id"`
			EncryptedMessage string `json:"encrypted_message"`
		} `json:"received_messages"`
	}
	json.NewDecoder(rr.Body).Decode(&resp)
	if len(resp.ReceivedMessages) != 1 {
		t.Fatalf("Expected 1 inbox item, got %d", len(resp.ReceivedMessages))
	}
	item := resp.ReceivedMessages[0]
	if item.SenderID != "alice-id" {
		t.Errorf("Expected sender alice-id, got %s", item.SenderID)
	}
	if item.EncryptedMessage == "" || item.EncryptedMessage == "hello" {
		t.Error("Expected an encrypted payload, not plaintext")
	}
}

func TestUserCount(t *testing.T) {
	app := newTestApp(t)

	req, _ := http.NewRequest("GET", "/messages/user-count", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(app.messages.UserCount).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("user-count failed: %d", rr.Code)
	}
	var resp map[string]int
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp["total_users"] != 3 {
		t.Errorf("Expected 3 users, got %d", resp["total_users"])
	}
}
