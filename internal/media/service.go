package media

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/foundlyhq/foundly-backend/pkg/config"
	pkgerrors "github.com/foundlyhq/foundly-backend/pkg/errors"
)

var allowedImageMimes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

// Image is the decoded upload ready to be stored inline on an item row.
type Image struct {
	Data     []byte
	MimeType string
}

// Service reads and validates image uploads attached to item reports.
type Service interface {
	ReadImage(header *multipart.FileHeader) (*Image, error)
}

type service struct {
	maxBytes int64
}

// NewService constructs an image ingest service bounded by the configured upload limit.
func NewService(cfg config.MediaConfig) (Service, error) {
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{maxBytes: int64(cfg.MaxUploadMB) * 1024 * 1024}, nil
}

func (s *service) ReadImage(header *multipart.FileHeader) (*Image, error) {
	if header == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image file is required")
	}
	if header.Size > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("image must be ≤ %d bytes", s.maxBytes))
	}

	file, err := header.Open()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open image upload")
	}
	defer file.Close()

	// LimitReader guards against a lying Content-Length in the part header.
	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image upload")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("image must be ≤ %d bytes", s.maxBytes))
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image upload is empty")
	}

	mimeType := resolveMimeType(header.Header.Get("Content-Type"), data)
	if !isAllowedImageMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("mime type %q is not an accepted image format", mimeType))
	}

	return &Image{Data: data, MimeType: mimeType}, nil
}

// resolveMimeType prefers the declared content type but falls back to sniffing
// the payload when the client omits or mangles the header.
func resolveMimeType(declared string, data []byte) string {
	clean := strings.TrimSpace(declared)
	if clean != "" {
		if mediaType, _, err := mime.ParseMediaType(clean); err == nil && mediaType != "" {
			return strings.ToLower(mediaType)
		}
	}
	return strings.ToLower(http.DetectContentType(data))
}

func isAllowedImageMime(mimeType string) bool {
	for _, candidate := range allowedImageMimes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}
