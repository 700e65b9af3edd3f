package server

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProposal() map[string]any {
	return map[string]any{
		"description":         "Build a reader app",
		"details":             "Flutter, two months",
		"deadline":            "2027-03-01",
		"teamMembersRequired": 2,
		"isPaid":              true,
		"email":               "lead@example.com",
	}
}

func TestProposals(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.signup(t, "lead")
	otherToken, _ := env.signup(t, "helper")

	bad := validProposal()
	bad["email"] = "not-an-email"
	status, body := env.do(t, http.MethodPost, "/api/proposals/create", bad, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, body["code"])

	bad = validProposal()
	bad["teamMembersRequired"] = 0
	status, _ = env.do(t, http.MethodPost, "/api/proposals/create", bad, token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.do(t, http.MethodPost, "/api/proposals/create", validProposal(), token)
	require.Equal(t, http.StatusCreated, status, body)
	proposalID := uint(body["proposal"].(map[string]any)["id"].(float64))

	status, body = env.do(t, http.MethodPost, "/api/proposals/respond", map[string]any{
		"proposalId": proposalID,
		"phone":      "+1 555 0100",
		"message":    strings.Repeat("x", 101),
	}, "")
	assert.Equal(t, http.StatusBadRequest, status, body)

	status, _ = env.do(t, http.MethodPost, "/api/proposals/respond", map[string]any{
		"proposalId": 9999, "phone": "+1 555 0100", "message": "hi",
	}, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(t, http.MethodPost, "/api/proposals/respond", map[string]any{
		"proposalId": fmt.Sprint(proposalID), "phone": "+1 555 0100", "message": "count me in",
	}, "")
	require.Equal(t, http.StatusCreated, status, body)
	assert.NotContains(t, body["response"], "userId")

	status, body = env.do(t, http.MethodPost, "/api/proposals/respond", map[string]any{
		"proposalId": proposalID, "phone": "+1 555 0101", "message": "me too",
	}, otherToken)
	require.Equal(t, http.StatusCreated, status, body)
	assert.NotNil(t, body["response"].(map[string]any)["userId"])

	status, list := env.doList(t, http.MethodGet, fmt.Sprintf("/api/proposals/my-proposals/%d", userID), token)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Len(t, list[0]["responses"], 2)

	status, _ = env.doList(t, http.MethodGet, fmt.Sprintf("/api/proposals/my-proposals/%d", userID), otherToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, list = env.doList(t, http.MethodGet, "/api/proposals/explore", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.NotContains(t, list[0], "responses")

	path := fmt.Sprintf("/api/proposals/%d", proposalID)
	status, _ = env.do(t, http.MethodPut, path, map[string]any{"isPaid": false}, otherToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = env.do(t, http.MethodPut, path, map[string]any{"isPaid": false}, token)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, false, body["proposal"].(map[string]any)["isPaid"])

	status, _ = env.do(t, http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, status)

	status, list = env.doList(t, http.MethodGet, "/api/proposals/explore", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, list)
}
