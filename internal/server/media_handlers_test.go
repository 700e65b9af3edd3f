package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < 8; i++ {
		img.Set(i, i, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartImage(t *testing.T, field, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="cover.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestUploadMedia(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "artist")

	upload := func(field, contentType string, content []byte, token string) (int, map[string]any) {
		body, ct := multipartImage(t, field, contentType, content)
		req := httptest.NewRequest(http.MethodPost, "/api/media/upload", body)
		req.Header.Set("Content-Type", ct)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		out := map[string]any{}
		_ = json.NewDecoder(resp.Body).Decode(&out)
		return resp.StatusCode, out
	}

	status, _ := upload("image", "image/png", pngBytes(t), "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = upload("file", "image/png", pngBytes(t), token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = upload("image", "text/plain", []byte("definitely not an image"), token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, out := upload("image", "image/png", pngBytes(t), token)
	require.Equal(t, http.StatusCreated, status, out)
	url := out["url"].(string)
	assert.Regexp(t, `^/uploads/[0-9a-f]{64}\.webp$`, url)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, url, nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
