package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"veilchat/internal/domain"
)

const keystoreFile = "keystore.enc"

// SecureFileStore keeps named secrets in one encrypted file under dir.
type SecureFileStore struct {
	dir        string
	passphrase string
	mu         sync.Mutex
}

// NewSecureFileStore returns a SecureFileStore rooted at dir, sealed with
// passphrase.
func NewSecureFileStore(dir, passphrase string) *SecureFileStore {
	return &SecureFileStore{dir: dir, passphrase: passphrase}
}

// Get returns the value stored under name, if any.
func (s *SecureFileStore) Get(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return "", false, &domain.StoreError{Op: "get", Err: err}
	}
	v, ok := m[name]
	return v, ok, nil
}

// Set stores value under name.
func (s *SecureFileStore) Set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return &domain.StoreError{Op: "set", Err: err}
	}
	m[name] = value
	if err := s.save(m); err != nil {
		return &domain.StoreError{Op: "set", Err: err}
	}
	return nil
}

// Delete removes name from the store. Deleting a missing entry is not an
// error.
func (s *SecureFileStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return &domain.StoreError{Op: "delete", Err: err}
	}
	if _, ok := m[name]; !ok {
		return nil
	}
	delete(m, name)
	if err := s.save(m); err != nil {
		return &domain.StoreError{Op: "delete", Err: err}
	}
	return nil
}

func (s *SecureFileStore) load() (map[string]string, error) {
	raw, ok, err := readFileIfExists(filepath.Join(s.dir, keystoreFile))
	if err != nil {
		return nil, err
	}
	if !ok {
		return make(map[string]string), nil
	}
	pt, err := decrypt(s.passphrase, raw)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string)
	if err := json.Unmarshal(pt, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *SecureFileStore) save(m map[string]string) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	N, r, p := scryptParamsDefault()
	ct, err := encrypt(s.passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.dir, keystoreFile), ct, 0o600)
}

// Compile-time assertion that SecureFileStore implements domain.SecureStore.
var _ domain.SecureStore = (*SecureFileStore)(nil)
