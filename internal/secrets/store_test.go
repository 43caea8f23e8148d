package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreFetchDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	require.NoError(t, s.StorePassword(" Ana@Example.test ", "hunter2"))
	got, err := s.FetchPassword("ana@example.test")
	require.NoError(t, err)
	require.Equal(t, "hunter2", got)

	raw, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	require.False(t, strings.Contains(string(raw), "hunter2"))

	info, err := os.Stat(filepath.Join(dir, fileName))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.DeletePassword("ana@example.test"))
	_, err = s.FetchPassword("ana@example.test")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestFetchMissingFile(t *testing.T) {
	_, err := NewStore(t.TempDir()).FetchPassword("nobody@example.test")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEmptyEmailRejected(t *testing.T) {
	s := NewStore(t.TempDir())
	require.Error(t, s.StorePassword("  ", "x"))
	_, err := s.FetchPassword("")
	require.Error(t, err)
}

func TestOtherSeedCannotDecrypt(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.StorePassword("ana@example.test", "hunter2"))

	other := NewStore(dir)
	other.seed = "someone-else"
	_, err := other.FetchPassword("ana@example.test")
	require.Error(t, err)
}
