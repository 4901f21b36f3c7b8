package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var got sendRequest
	var apiKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	m := New(Config{
		APIKey:      "test-key",
		SenderName:  "Lunch System",
		SenderEmail: "noreply@lunch.local",
		Endpoint:    srv.URL,
	})

	err := m.Send(context.Background(), "chef@lunch.local", "Daily Lunch Count", "7 employees")
	require.NoError(t, err)

	require.Equal(t, "test-key", apiKey)
	require.Equal(t, "Lunch System", got.Sender.Name)
	require.Equal(t, "noreply@lunch.local", got.Sender.Email)
	require.Len(t, got.To, 1)
	require.Equal(t, "chef@lunch.local", got.To[0].Email)
	require.Equal(t, "Daily Lunch Count", got.Subject)
	require.Equal(t, "7 employees", got.TextContent)
}

func TestSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := New(Config{APIKey: "bad-key", Endpoint: srv.URL})

	err := m.Send(context.Background(), "chef@lunch.local", "subject", "body")
	require.Error(t, err)
	require.Contains(t, err.Error(), "email rejected")
}

func TestSendTimeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	m := New(Config{APIKey: "test-key", Endpoint: srv.URL, Timeout: 50 * time.Millisecond})

	err := m.Send(context.Background(), "chef@lunch.local", "subject", "body")
	require.Error(t, err)
}

func TestSendWithoutAPIKey(t *testing.T) {
	m := New(Config{})

	err := m.Send(context.Background(), "chef@lunch.local", "subject", "body")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not configured")
}
