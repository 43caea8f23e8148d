// Package prefs persists small per-user UI preferences as TOML.
package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const fileName = "prefs.toml"

// Prefs are remembered between runs.
type Prefs struct {
	LastEmail string `toml:"last_email"`
}

// Load reads dir/prefs.toml. A missing file yields zero Prefs.
func Load(dir string) (Prefs, error) {
	var p Prefs
	_, err := toml.DecodeFile(filepath.Join(dir, fileName), &p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Prefs{}, nil
		}
		return Prefs{}, err
	}
	p.LastEmail = strings.TrimSpace(p.LastEmail)
	return p, nil
}

// Save writes p atomically.
func Save(dir string, p Prefs) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, fileName)
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(p); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
