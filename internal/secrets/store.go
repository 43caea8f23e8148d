// Package secrets keeps remembered passwords in a per-user file (0600),
// sealed with AES-GCM under an argon2id-derived key.
// Not a replacement for OS keychains but avoids plain-text storage.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

const (
	fileName = "credentials.json"
	saltLen  = 16
)

// ErrNotFound is returned when no password is stored for an email.
var ErrNotFound = errors.New("secrets: password not found")

type secretFile struct {
	Salt      string            `json:"salt"`
	Passwords map[string]string `json:"passwords"` // email -> base64(nonce|ciphertext)
}

// Store is a credential file under one directory.
type Store struct {
	dir  string
	seed string

	mu sync.Mutex
}

// NewStore keeps its file in dir. The machine seed defaults to OS and $USER.
func NewStore(dir string) *Store {
	return &Store{dir: dir, seed: fmt.Sprintf("alerta-%s-%s", runtime.GOOS, os.Getenv("USER"))}
}

func (s *Store) StorePassword(email, password string) error {
	if email = norm(email); email == "" {
		return fmt.Errorf("email required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sf, err := s.load()
	if err != nil {
		return err
	}
	if sf.Salt == "" {
		salt := make([]byte, saltLen)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return err
		}
		sf.Salt = base64.StdEncoding.EncodeToString(salt)
	}
	key, err := s.key(sf.Salt)
	if err != nil {
		return err
	}
	ct, err := encrypt(key, []byte(password))
	if err != nil {
		return err
	}
	sf.Passwords[email] = base64.StdEncoding.EncodeToString(ct)
	return s.save(sf)
}

func (s *Store) FetchPassword(email string) (string, error) {
	if email = norm(email); email == "" {
		return "", fmt.Errorf("email required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sf, err := s.load()
	if err != nil {
		return "", err
	}
	enc, ok := sf.Passwords[email]
	if !ok {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	key, err := s.key(sf.Salt)
	if err != nil {
		return "", err
	}
	pt, err := decrypt(key, raw)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

func (s *Store) DeletePassword(email string) error {
	if email = norm(email); email == "" {
		return fmt.Errorf("email required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sf, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := sf.Passwords[email]; !ok {
		return nil
	}
	delete(sf.Passwords, email)
	return s.save(sf)
}

func (s *Store) path() string { return filepath.Join(s.dir, fileName) }

func (s *Store) load() (secretFile, error) {
	sf := secretFile{Passwords: map[string]string{}}
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return sf, nil
		}
		return sf, err
	}
	if err := json.Unmarshal(data, &sf); err != nil {
		return sf, err
	}
	if sf.Passwords == nil {
		sf.Passwords = map[string]string{}
	}
	return sf, nil
}

func (s *Store) save(sf secretFile) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path())
}

func (s *Store) key(salt string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	return argon2.IDKey([]byte(s.seed), raw, 1, 64*1024, 2, 32), nil
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func encrypt(key, plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(key, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
