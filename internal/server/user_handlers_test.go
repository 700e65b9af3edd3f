package server

import (
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Success",
			body:           map[string]string{"name": "Ada", "username": "ada", "email": "Ada@Example.com", "password": "pw"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Duplicate email",
			body:           map[string]string{"name": "Ada 2", "username": "ada2", "email": "ada@example.com", "password": "pw"},
			expectedStatus: http.StatusConflict,
			expectedCode:   models.CodeConflict,
		},
		{
			name:           "Duplicate username",
			body:           map[string]string{"name": "Ada 3", "username": "ada", "email": "ada3@example.com", "password": "pw"},
			expectedStatus: http.StatusConflict,
			expectedCode:   models.CodeConflict,
		},
		{
			name:           "Whitespace in username",
			body:           map[string]string{"name": "Bob", "username": "bob smith", "email": "bob@example.com", "password": "pw"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   models.CodeValidation,
		},
		{
			name:           "Missing password",
			body:           map[string]string{"name": "Cy", "username": "cy", "email": "cy@example.com"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   models.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/api/signup", tt.body, "")
			assert.Equal(t, tt.expectedStatus, status, body)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, body["code"])
			} else {
				assert.NotEmpty(t, body["token"])
				assert.NotEmpty(t, body["message"])
				user := body["user"].(map[string]any)
				assert.Equal(t, "ada@example.com", user["email"])
				assert.NotContains(t, user, "password")
			}
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "grace")

	status, body := env.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": "grace", "password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, models.CodeUnauthorized, body["code"])

	status, body = env.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": "grace", "password": "pw-grace",
	}, "")
	require.Equal(t, http.StatusOK, status, body)
	token := body["token"].(string)
	assert.NotEmpty(t, body["expiresAt"])

	status, body = env.do(t, http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "grace", body["username"])

	status, _ = env.do(t, http.MethodPost, "/api/logout", nil, token)
	assert.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodGet, "/api/users/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token has been revoked", body["error"])
}

func TestUpdateInterests(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "linus")

	status, body := env.do(t, http.MethodPost, "/api/interests", map[string]any{
		"interestedDomains": []string{" go ", "", "rust", "go"},
	}, token)
	require.Equal(t, http.StatusOK, status, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, []any{"go", "rust"}, user["interestedDomains"])

	status, _ = env.do(t, http.MethodPost, "/api/interests", map[string]any{
		"interestedDomains": []string{"go"},
	}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "up", body["status"])

	status, body = env.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "healthy", body["status"])

	env.mr.Close()
	status, body = env.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", body["status"])
}
