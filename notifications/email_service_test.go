package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBrevoService_Send(t *testing.T) {
	req := require.New(t)

	var got brevoPayload
	var apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	svc := NewBrevoService("key-123", "noreply@example.com", "Social Network")
	svc.Endpoint = server.URL

	req.NoError(svc.Send(context.Background(), "bob@example.com", "", "Welcome!", "<h1>Hi</h1>"))
	req.Equal("key-123", apiKey)
	req.Equal(brevoContact{Email: "noreply@example.com", Name: "Social Network"}, got.Sender)
	req.Equal([]brevoContact{{Email: "bob@example.com", Name: "bob"}}, got.To)
	req.Equal("Welcome!", got.Subject)
}

func TestBrevoService_SendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized"}`))
	}))
	defer server.Close()

	svc := NewBrevoService("bad-key", "noreply@example.com", "Social Network")
	svc.Endpoint = server.URL

	err := svc.Send(context.Background(), "bob@example.com", "Bob", "Hi", "body")
	require.ErrorContains(t, err, "401")

	err = svc.Send(context.Background(), "not-an-email", "", "Hi", "body")
	require.ErrorContains(t, err, "invalid recipient")
}
