package storage

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"skoolife/backend/config"
)

var (
	ErrObjectNotFound   = errors.New("stored object not found")
	ErrSignatureInvalid = errors.New("download signature invalid")
	ErrSignatureExpired = errors.New("download signature expired")
)

// Store is a local-disk object store for study files.
// Objects live under <dir>/<userID>/<random>.bin; download access outside an
// authenticated session goes through HMAC-signed, time-limited URLs.
type Store struct {
	dir         string
	secret      []byte
	downloadTTL time.Duration
}

// NewStore creates the root directory and returns a Store.
func NewStore(cfg *config.StorageConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	ttl := cfg.DownloadTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Store{
		dir:         cfg.Dir,
		secret:      []byte(cfg.SigningSecret),
		downloadTTL: ttl,
	}, nil
}

// Save writes the object and returns its storage path (relative to the root).
func (s *Store) Save(userID string, r io.Reader) (string, int64, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", 0, err
	}
	rel := filepath.Join(userID, hex.EncodeToString(buf[:])+".bin")

	abs := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", 0, err
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(abs)
		return "", 0, err
	}
	return rel, n, nil
}

// Open returns a reader over a stored object.
func (s *Store) Open(storagePath string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Clean(storagePath)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	return f, err
}

// Remove deletes a stored object. Missing objects are not an error: the row
// is authoritative, the object is best-effort.
func (s *Store) Remove(storagePath string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Clean(storagePath)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ── signed download URLs ──

// Sign produces (expiry, signature) query parameters for a file id.
func (s *Store) Sign(fileID string, now time.Time) (exp int64, sig string) {
	exp = now.Add(s.downloadTTL).Unix()
	return exp, s.mac(fileID, exp)
}

// Verify checks a signature produced by Sign.
func (s *Store) Verify(fileID string, exp int64, sig string, now time.Time) error {
	if now.Unix() > exp {
		return ErrSignatureExpired
	}
	expected := s.mac(fileID, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrSignatureInvalid
	}
	return nil
}

func (s *Store) mac(fileID string, exp int64) string {
	h := hmac.New(sha256.New, s.secret)
	io.WriteString(h, strings.Join([]string{fileID, strconv.FormatInt(exp, 10)}, ":"))
	return hex.EncodeToString(h.Sum(nil))
}
