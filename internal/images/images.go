// Package images stores uploaded product images and serves them back by name.
package images

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const URLPrefix = "/images/"

var (
	ErrNotFound    = errors.New("image not found")
	ErrNotAnImage  = errors.New("only image uploads are accepted")
	ErrInvalidName = errors.New("invalid image name")
)

type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Get(ctx context.Context, name string) ([]byte, string, error)
}

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func ValidName(name string) bool {
	return validName.MatchString(name) && !strings.Contains(name, "..")
}

// NewName builds product-<unixmillis>-<8 hex><ext> from the uploaded filename.
func NewName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	if !validName.MatchString("x" + ext) {
		ext = ""
	}
	return fmt.Sprintf("product-%d-%s%s", now.UnixMilli(), uuid.NewString()[:8], ext)
}

// Save checks that data is an image, stores it under a fresh name and returns
// the public URL.
func Save(ctx context.Context, s Store, filename, declaredType string, data []byte) (string, error) {
	contentType := declaredType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}

	name := NewName(filename, time.Now())
	if err := s.Put(ctx, name, data, contentType); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return URLPrefix + name, nil
}
