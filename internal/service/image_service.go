package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"sportpulse/internal/config"
	"sportpulse/internal/models"
	"sportpulse/internal/observability"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultUploadDir       = "./uploads"
	DefaultMaxUploadSizeMB = 10
	MaxImageSize           = 1440
	JPEGQuality            = 82
	WebPQuality            = 70
	// UploadURLPrefix is where stored images are served from.
	UploadURLPrefix = "/uploads/"
)

type UploadImageInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// StoredImage describes an upload written to disk.
type StoredImage struct {
	Name     string
	URL      string
	WebPURL  string
	Width    int
	Height   int
	JPEGSize int
}

type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultUploadDir
	maxBytes := int64(DefaultMaxUploadSizeMB) * 1024 * 1024

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.MaxUploadSizeMB > 0 {
			maxBytes = cfg.MaxUploadBytes()
		}
	}

	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: maxBytes,
	}
}

// UploadDir is the directory served under UploadURLPrefix.
func (s *ImageService) UploadDir() string {
	return s.uploadDir
}

// MaxUploadBytes is the largest accepted upload.
func (s *ImageService) MaxUploadBytes() int64 {
	return s.maxUploadSizeBytes
}

// Save validates an uploaded image, downscales it and writes JPEG and WebP renditions.
func (s *ImageService) Save(ctx context.Context, in UploadImageInput) (*StoredImage, error) {
	_, span := observability.StartSpan(ctx, "ImageService", "Save")
	stored, err := s.save(in)
	observability.EndSpan(span, err)
	return stored, err
}

func (s *ImageService) save(in UploadImageInput) (*StoredImage, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") &&
		!isMatchingContentType(provided, decodedFormatToMime(format)) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	master := resizeToFit(decoded, MaxImageSize, MaxImageSize)

	jpgBytes, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	webpBytes, err := encodeWebP(master, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	name := uuid.NewString()
	jpgPath := filepath.Join(s.uploadDir, name+".jpg")
	webpPath := filepath.Join(s.uploadDir, name+".webp")

	if err := writeBytesToFile(jpgPath, jpgBytes); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(webpPath, webpBytes); err != nil {
		_ = os.Remove(jpgPath)
		return nil, models.NewInternalError(err)
	}
	observability.UploadBytes.Observe(float64(len(in.Content)))

	b := master.Bounds()
	return &StoredImage{
		Name:     name + ".jpg",
		URL:      UploadURLPrefix + name + ".jpg",
		WebPURL:  UploadURLPrefix + name + ".webp",
		Width:    b.Dx(),
		Height:   b.Dy(),
		JPEGSize: len(jpgBytes),
	}, nil
}

// Remove deletes both renditions behind an upload URL. Unknown URLs are ignored.
func (s *ImageService) Remove(url string) {
	name, ok := strings.CutPrefix(url, UploadURLPrefix)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	_ = os.Remove(filepath.Join(s.uploadDir, base+".jpg"))
	_ = os.Remove(filepath.Join(s.uploadDir, base+".webp"))
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
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
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
