package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	p, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, Prefs{}, p)
}

func TestSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	require.NoError(t, Save(dir, Prefs{LastEmail: "ana@example.test"}))

	p, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "ana@example.test", p.LastEmail)

	raw, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	require.Contains(t, string(raw), `last_email = "ana@example.test"`)
}

func TestLoadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("last_email = ["), 0o600))
	_, err := Load(dir)
	require.Error(t, err)
}
