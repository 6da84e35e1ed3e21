package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSendGridGatewaySendsMailPayload(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	gateway := NewSendGridGateway("key-123", "quizapp@example.com", server.URL, time.Second)
	err := gateway.Send(context.Background(), "alice@example.com", "New Quiz Created: Weekly", "Hello Alice", "reply@example.com")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotAuth != "Bearer key-123" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}
	if gotBody["subject"] != "New Quiz Created: Weekly" {
		t.Fatalf("unexpected subject: %v", gotBody["subject"])
	}
	replyTo, ok := gotBody["reply_to"].(map[string]any)
	if !ok || replyTo["email"] != "reply@example.com" {
		t.Fatalf("unexpected reply_to: %v", gotBody["reply_to"])
	}
}

func TestSendGridGatewayRejectsNonAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	gateway := NewSendGridGateway("bad-key", "quizapp@example.com", server.URL, time.Second)
	if err := gateway.Send(context.Background(), "a@example.com", "s", "b", ""); err == nil {
		t.Fatalf("expected error for non-202 response")
	}
}
