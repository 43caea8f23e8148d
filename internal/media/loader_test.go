package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestLoadPNG(t *testing.T) {
	t.Parallel()
	path := writePNG(t, t.TempDir(), "foto.png", 4, 3)

	img, err := NewLoader(0).Load(path)
	require.NoError(t, err)
	require.Equal(t, "foto.png", img.Name)
	require.Equal(t, "png", img.Format)
	require.Equal(t, "image/png", img.ContentType())
	require.Equal(t, 4, img.Width)
	require.Equal(t, 3, img.Height)
	require.NotEmpty(t, img.Data)

	att := img.Attachment()
	require.Equal(t, "foto.png", att.Name)
	require.Equal(t, img.Data, att.Data)
}

func TestLoadRejectsNonImage(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	_, err := NewLoader(0).Load(path)
	require.True(t, errors.Is(err, ErrNotImage))
}

func TestLoadRejectsOversized(t *testing.T) {
	t.Parallel()
	path := writePNG(t, t.TempDir(), "big.png", 64, 64)

	_, err := NewLoader(16).Load(path)
	require.True(t, errors.Is(err, ErrTooLarge))
}

func TestLoadHonoursPermissionCheck(t *testing.T) {
	t.Parallel()
	path := writePNG(t, t.TempDir(), "foto.png", 1, 1)
	l := NewLoader(0)
	l.Permission = func(string) error { return ErrPermissionDenied }

	_, err := l.Load(path)
	require.True(t, errors.Is(err, ErrPermissionDenied))
}

func TestCheckReadableMissingAndDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.Error(t, CheckReadable(filepath.Join(dir, "missing.png")))
	require.Error(t, CheckReadable(dir))
}
