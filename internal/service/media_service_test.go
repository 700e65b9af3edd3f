package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMediaService_UploadResizesToWebP(t *testing.T) {
	dir := t.TempDir()
	svc := NewMediaService(&config.Config{UploadDir: dir, UploadMaxMB: 5})

	out, err := svc.Upload(context.Background(), UploadMediaInput{
		UserID:      1,
		Filename:    "cover.png",
		ContentType: "image/png",
		Content:     tinyPNG(t, 2560, 640),
	})
	require.NoError(t, err)
	assert.Equal(t, 1280, out.Width)
	assert.Equal(t, 320, out.Height)
	assert.True(t, strings.HasPrefix(out.URL, UploadURLPrefix))
	assert.True(t, strings.HasSuffix(out.URL, ".webp"))

	data, err := os.ReadFile(filepath.Join(dir, out.Hash+".webp"))
	require.NoError(t, err)
	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1280, cfg.Width)
}

func TestMediaService_SmallImageKeepsSize(t *testing.T) {
	svc := NewMediaService(&config.Config{UploadDir: t.TempDir()})
	out, err := svc.Upload(context.Background(), UploadMediaInput{UserID: 1, Content: tinyPNG(t, 64, 32)})
	require.NoError(t, err)
	assert.Equal(t, 64, out.Width)
	assert.Equal(t, 32, out.Height)
}

func TestMediaService_Rejects(t *testing.T) {
	svc := NewMediaService(&config.Config{UploadDir: t.TempDir(), UploadMaxMB: 1})
	ctx := context.Background()

	tests := []struct {
		name string
		in   UploadMediaInput
	}{
		{"no user", UploadMediaInput{Content: tinyPNG(t, 4, 4)}},
		{"empty", UploadMediaInput{UserID: 1}},
		{"not an image", UploadMediaInput{UserID: 1, Content: []byte("%PDF-1.4 not an image")}},
		{"too large", UploadMediaInput{UserID: 1, Content: bytes.Repeat([]byte{0}, 2*1024*1024)}},
		{"declared type mismatch", UploadMediaInput{UserID: 1, ContentType: "image/jpeg", Content: tinyPNG(t, 4, 4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, tt.in)
			assertCode(t, err, models.CodeValidation)
		})
	}
}

// pngHeader returns a PNG whose IHDR declares w x h grayscale pixels,
// followed by an empty IEND. Only the header is needed to size the image.
func pngHeader(w, h uint32) []byte {
	chunk := func(buf *bytes.Buffer, typ string, data []byte) {
		_ = binary.Write(buf, binary.BigEndian, uint32(len(data)))
		body := append([]byte(typ), data...)
		buf.Write(body)
		_ = binary.Write(buf, binary.BigEndian, crc32.ChecksumIEEE(body))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth; color type 0 is grayscale

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk(&buf, "IHDR", ihdr)
	chunk(&buf, "IEND", nil)
	return buf.Bytes()
}

func TestMediaService_RejectsOversizedPixelCount(t *testing.T) {
	dir := t.TempDir()
	svc := NewMediaService(&config.Config{UploadDir: dir, UploadMaxMB: 1})

	content := pngHeader(16000, 16000)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	require.NoError(t, err)
	require.Equal(t, 16000, cfg.Width)

	_, err = svc.Upload(context.Background(), UploadMediaInput{
		UserID:      1,
		ContentType: "image/png",
		Content:     content,
	})
	assertCode(t, err, models.CodeValidation)
	assert.Contains(t, err.Error(), "dimensions")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewMediaService_Defaults(t *testing.T) {
	svc := NewMediaService(nil)
	assert.Equal(t, DefaultUploadDir, svc.uploadDir)
	assert.Equal(t, int64(DefaultUploadMaxSizeMB)*1024*1024, svc.MaxUploadBytes())
}
