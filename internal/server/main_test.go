package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/mail"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testJWTSecret     = "server-test-secret-0123456789abcdef"
	testAdminUsername = "inkadmin"
	testAdminPassword = "admin-password-1"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mail.Message{}
	}
	return m.sent[len(m.sent)-1]
}

type testEnv struct {
	srv    *Server
	app    *fiber.App
	db     *gorm.DB
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	mailer *recordingMailer
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Env:           "test",
		JWTSecret:     testJWTSecret,
		Port:          "0",
		FeatureFlags:  "live_notifications=on",
		AdminEmail:    "editor@inkwell.test",
		OTPTTLMinutes: 5,
		UploadDir:     t.TempDir(),
		UploadMaxMB:   1,
	}
	for _, fn := range mutate {
		fn(cfg)
	}

	mailer := &recordingMailer{}
	srv, err := NewServerWithDeps(cfg, db, rdb, WithMailer(mailer))
	require.NoError(t, err)

	return &testEnv{srv: srv, app: srv.App(), db: db, mr: mr, rdb: rdb, mailer: mailer}
}

// do sends a JSON request and decodes the JSON response body, if any.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()
	status, raw := e.doRaw(t, method, path, body, token)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return status, out
}

func (e *testEnv) doList(t *testing.T, method, path, token string) (int, []map[string]any) {
	t.Helper()
	status, raw := e.doRaw(t, method, path, nil, token)
	var out []map[string]any
	if status == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return status, out
}

func (e *testEnv) doRaw(t *testing.T, method, path string, body any, token string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// signup registers username and returns its token and id.
func (e *testEnv) signup(t *testing.T, username string) (string, uint) {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/signup", map[string]string{
		"name":     "Name " + username,
		"username": username,
		"email":    username + "@example.com",
		"password": "pw-" + username,
	}, "")
	require.Equal(t, http.StatusCreated, status, body)
	user := body["user"].(map[string]any)
	return body["token"].(string), uint(user["id"].(float64))
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	require.NoError(t, e.srv.adminService.EnsureCredential(context.Background(), testAdminUsername, testAdminPassword))
	status, body := e.do(t, http.MethodPost, "/api/admin/authenticate", map[string]string{
		"username": testAdminUsername,
		"password": testAdminPassword,
	}, "")
	require.Equal(t, http.StatusOK, status, body)
	return body["token"].(string)
}

func (e *testEnv) createArticle(t *testing.T, token, title string) uint {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/articles", map[string]string{
		"title":   title,
		"content": "<p>" + title + "</p>",
	}, token)
	require.Equal(t, http.StatusCreated, status, body)
	return uint(body["article"].(map[string]any)["id"].(float64))
}

var otpCodePattern = regexp.MustCompile(`\b\d{6}\b`)
