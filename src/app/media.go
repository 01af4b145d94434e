// Package app holds the media store: upload constraints, filename generation
// and the storage backends images are written to and served from.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnsupportedMedia rejects anything whose extension or declared
	// content type falls outside the image allow-list.
	ErrUnsupportedMedia = errors.New("only images are allowed")

	// ErrPayloadTooLarge rejects uploads over the configured size cap.
	ErrPayloadTooLarge = errors.New("file too large")

	// ErrObjectMissing reports a retrieve for a name nothing was stored under.
	ErrObjectMissing = errors.New("object does not exist")
)

// Store is the storage surface behind uploads. Saved objects are never
// deleted: the system is append-only and orphaned images are an accepted
// property, not a leak to clean up here.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// allowedTypes pairs each accepted extension with the content type it is
// served back under.
var allowedTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// UploadPolicy validates an upload and produces its stored filename.
type UploadPolicy struct {
	MaxBytes int64
}

// Check verifies the original filename and declared content type against the
// allow-list, and the reported size against the cap. Both the extension and
// the content type must look like an accepted image, mirroring the legacy
// double check.
func (p UploadPolicy) Check(originalName, contentType string, size int64) error {
	ext := strings.ToLower(filepath.Ext(originalName))
	want, ok := allowedTypes[ext]
	if !ok {
		return fmt.Errorf("%w: extension %q", ErrUnsupportedMedia, ext)
	}
	if contentType != "" && contentType != want {
		return fmt.Errorf("%w: content type %q", ErrUnsupportedMedia, contentType)
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return fmt.Errorf("%w: %d bytes over %d limit", ErrPayloadTooLarge, size, p.MaxBytes)
	}
	return nil
}

// Filename builds the stored name as <field>-<unixMilli>-<random8><ext>.
// The legacy scheme was field plus millisecond timestamp only; the random
// suffix closes the same-millisecond collision window while keeping the
// names recognizable next to legacy files.
func (p UploadPolicy) Filename(field, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixMilli(), suffix, ext)
}

// ContentTypeFor reports the content type a stored filename is served with.
func ContentTypeFor(name string) string {
	if ct, ok := allowedTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
