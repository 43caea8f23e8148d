// Package media picks image files from disk for report attachments.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jask/alerta/internal/api"
)

var (
	ErrPermissionDenied = errors.New("media: permission denied")
	ErrNotImage         = errors.New("media: not a supported image")
	ErrTooLarge         = errors.New("media: file too large")
)

// DefaultMaxBytes caps a single attachment when no limit is configured.
const DefaultMaxBytes int64 = 8 << 20

// Image is a picked file ready to upload.
type Image struct {
	Path   string
	Name   string
	Format string
	Width  int
	Height int
	Data   []byte
}

// ContentType is the MIME type for the decoded format.
func (i Image) ContentType() string {
	return "image/" + i.Format
}

// Attachment converts the image into the upload form.
func (i Image) Attachment() api.Attachment {
	return api.Attachment{Name: i.Name, ContentType: i.ContentType(), Data: i.Data}
}

// PermissionFunc decides whether a path may be read. It stands in for the
// storage permission prompt of a mobile device.
type PermissionFunc func(path string) error

// Loader reads and validates image files.
type Loader struct {
	MaxBytes   int64
	Permission PermissionFunc
}

func NewLoader(maxBytes int64) *Loader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Loader{MaxBytes: maxBytes, Permission: CheckReadable}
}

// CheckReadable is the default permission check: the file must exist, be a
// regular file and be openable by this process.
func CheckReadable(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return err
	}
	if !st.Mode().IsRegular() {
		return fmt.Errorf("media: %s is not a regular file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return err
	}
	return f.Close()
}

// Load checks permission, reads path and verifies it decodes as an image.
func (l *Loader) Load(path string) (Image, error) {
	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		return Image{}, fmt.Errorf("media: empty path")
	}
	if l.Permission != nil {
		if err := l.Permission(path); err != nil {
			return Image{}, err
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return Image{}, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > limit {
		return Image{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, filepath.Base(path), limit)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s", ErrNotImage, filepath.Base(path))
	}
	return Image{
		Path:   path,
		Name:   filepath.Base(path),
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Data:   data,
	}, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
