package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"id":           "ID",
		"userId":       "user ID",
		"articleId":    "article ID",
		"discussionId": "discussion ID",
		"username":     "username",
	}
	for in, want := range tests {
		assert.Equal(t, want, humanizeParam(in), in)
	}
}

func TestFlexID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw     string
		want    uint
		wantErr bool
	}{
		{raw: `7`, want: 7},
		{raw: `"7"`, want: 7},
		{raw: `" 12 "`, want: 12},
		{raw: `0`, want: 0},
		{raw: `-3`, wantErr: true},
		{raw: `1.5`, wantErr: true},
		{raw: `"abc"`, wantErr: true},
		{raw: `true`, wantErr: true},
		{raw: `null`, wantErr: true},
	}
	for _, tt := range tests {
		var id flexID
		err := json.Unmarshal([]byte(tt.raw), &id)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, id.value())
	}

	var req bookmarkRequest
	require.NoError(t, json.Unmarshal([]byte(`{"userId":null,"articleId":"4"}`), &req))
	assert.Nil(t, req.UserID)
	assert.Equal(t, uint(0), req.UserID.value())
	assert.Equal(t, uint(4), req.ArticleID.value())
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		p := parsePagination(c, defaultPaginationLimit)
		return c.JSON(fiber.Map{"limit": p.Limit, "offset": p.Offset})
	})

	tests := []struct {
		query          string
		expectedLimit  int
		expectedOffset int
	}{
		{query: "", expectedLimit: 50, expectedOffset: 0},
		{query: "?limit=10&offset=5", expectedLimit: 10, expectedOffset: 5},
		{query: "?limit=1000", expectedLimit: maxPaginationLimit, expectedOffset: 0},
		{query: "?limit=-4&offset=-1", expectedLimit: 50, expectedOffset: 0},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
		require.NoError(t, err)
		var body map[string]int
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, tt.expectedLimit, body["limit"], tt.query)
		assert.Equal(t, tt.expectedOffset, body["offset"], tt.query)
	}
}
