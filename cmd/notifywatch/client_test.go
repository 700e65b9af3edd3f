package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	var mu sync.Mutex
	issued := map[string]bool{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Invalid credentials", Code: "UNAUTHORIZED"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-" + body["username"]})
	})
	mux.HandleFunc("/api/ws/ticket", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-ada" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mu.Lock()
		issued["t1"] = true
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"ticket": "t1", "expiresIn": 30})
	})
	mux.HandleFunc("/api/ws/notifications", func(w http.ResponseWriter, r *http.Request) {
		ticket := r.URL.Query().Get("ticket")
		mu.Lock()
		ok := issued[ticket]
		delete(issued, ticket)
		mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		for i := uint(1); i <= 2; i++ {
			_ = conn.WriteJSON(event{Type: "notification", Payload: &models.Notification{ID: i, Title: "hello"}})
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestWatch(t *testing.T) {
	srv := fakeAPI(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := newClient(srv.URL + "/")
	require.NoError(t, c.login(ctx, "ada", "password123"))
	assert.Equal(t, "tok-ada", c.token)

	var got []uint
	err := c.watch(ctx, func(ev event) {
		assert.Equal(t, "notification", ev.Type)
		got = append(got, ev.Payload.ID)
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, got)
}

func TestLogin_Rejected(t *testing.T) {
	srv := fakeAPI(t)
	c := newClient(srv.URL)
	err := c.login(context.Background(), "ada", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
	assert.Empty(t, c.token)
}

func TestStreamURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{base: "http://localhost:8375", want: "ws://localhost:8375/api/ws/notifications?ticket=abc"},
		{base: "https://inkwell.dev/", want: "wss://inkwell.dev/api/ws/notifications?ticket=abc"},
		{base: "https://inkwell.dev/backend", want: "wss://inkwell.dev/backend/api/ws/notifications?ticket=abc"},
	}
	for _, tt := range tests {
		got, err := newClient(tt.base).streamURL("abc")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
