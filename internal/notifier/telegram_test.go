package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Notifier = (*TelegramNotifier)(nil)

func TestNewTelegramNotifier(t *testing.T) {
	_, err := NewTelegramNotifier("", "123", "")
	assert.Error(t, err)

	_, err = NewTelegramNotifier("token", "", "")
	assert.Error(t, err)

	n, err := NewTelegramNotifier("token", "123", "85293211378")
	require.NoError(t, err)
	assert.Equal(t, telegramAPIBaseURL, n.baseURL)
}

func TestTelegramNotifier_Notify(t *testing.T) {
	var (
		gotPath    string
		gotPayload map[string]interface{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	n, err := NewTelegramNotifier("token", "-100200", "+852 9321 1378")
	require.NoError(t, err)
	n.baseURL = srv.URL + "/bot"

	require.NoError(t, n.Notify(context.Background(), testBooking()))

	assert.Equal(t, "/bottoken/sendMessage", gotPath)
	assert.Equal(t, "-100200", gotPayload["chat_id"])
	text, _ := gotPayload["text"].(string)
	assert.Contains(t, text, "BK654321")
	assert.True(t, strings.Contains(text, "https://wa.me/85293211378?text="))
}

func TestTelegramNotifier_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http status", http.StatusUnauthorized, `{"ok":false,"description":"Unauthorized"}`, "status 401"},
		{"api not ok", http.StatusOK, `{"ok":false,"description":"chat not found"}`, "chat not found"},
		{"bad json", http.StatusOK, `not json`, "parsing response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			n, err := NewTelegramNotifier("token", "1", "85293211378")
			require.NoError(t, err)
			n.baseURL = srv.URL + "/bot"

			err = n.Notify(context.Background(), testBooking())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "BK654321")
		})
	}
}
