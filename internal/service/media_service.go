package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/chai2010/webp"
	"go.opentelemetry.io/otel/attribute"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultUploadDir       = "./uploads"
	DefaultUploadMaxSizeMB = 10
	MaxImageDimension      = 1280
	// MaxSourcePixels caps width*height of an upload before it is decoded.
	MaxSourcePixels = 40_000_000
	WebPQuality            = 75
	// UploadURLPrefix is where UPLOAD_DIR is served.
	UploadURLPrefix = "/uploads/"
)

type UploadMediaInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// UploadedMedia describes a stored image.
type UploadedMedia struct {
	URL    string `json:"url"`
	Hash   string `json:"hash"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int    `json:"size"`
}

// MediaService normalizes uploaded images (article thumbnails, inline
// images) to bounded WebP files on disk.
type MediaService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewMediaService(cfg *config.Config) *MediaService {
	uploadDir := DefaultUploadDir
	maxUploadSizeMB := DefaultUploadMaxSizeMB

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.UploadMaxMB > 0 {
			maxUploadSizeMB = cfg.UploadMaxMB
		}
	}

	return &MediaService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// MaxUploadBytes is the accepted upload size.
func (s *MediaService) MaxUploadBytes() int64 {
	return s.maxUploadSizeBytes
}

// UploadDir is the directory served under UploadURLPrefix.
func (s *MediaService) UploadDir() string {
	return s.uploadDir
}

func (s *MediaService) Upload(ctx context.Context, in UploadMediaInput) (_ *UploadedMedia, err error) {
	_, span := observability.StartSpan(ctx, "media", "upload", attribute.Int("media.input_bytes", len(in.Content)))
	defer func() { observability.EndSpan(span, err) }()

	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detected := normalizeContentType(http.DetectContentType(in.Content))
	if !isAllowedImageMIME(detected) {
		return nil, models.NewValidationError("Invalid image type")
	}

	header, _, err := image.DecodeConfig(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if header.Width <= 0 || header.Height <= 0 || int64(header.Width)*int64(header.Height) > MaxSourcePixels {
		return nil, models.NewValidationError("Image dimensions too large")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && provided != formatToMIME(format) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	fitted := resizeToFit(decoded, MaxImageDimension, MaxImageDimension)

	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, fitted, &webp.Options{Quality: WebPQuality}); err != nil {
		return nil, models.NewInternalError(err)
	}
	encoded := buf.Bytes()

	sum := sha256.Sum256(encoded)
	hash := hex.EncodeToString(sum[:])
	name := hash + ".webp"
	if err := writeFileOnce(filepath.Join(s.uploadDir, name), encoded); err != nil {
		return nil, models.NewInternalError(err)
	}

	b := fitted.Bounds()
	return &UploadedMedia{
		URL:    UploadURLPrefix + name,
		Hash:   hash,
		Width:  b.Dx(),
		Height: b.Dy(),
		Size:   len(encoded),
	}, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func isAllowedImageMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	if mediaType == "image/jpg" {
		return "image/jpeg"
	}
	return strings.ToLower(mediaType)
}

func formatToMIME(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png", "gif", "webp":
		return "image/" + format
	default:
		return ""
	}
}

// writeFileOnce stores data at path unless identical content (same hash
// name) is already there.
func writeFileOnce(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
