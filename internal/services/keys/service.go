package keys

import (
	"sync"
	"time"

	"gopkg.in/op/go-logging.v1"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
	"veilchat/internal/log"
)

// Secure store entry names. Values are base64 for the key halves and
// RFC 3339 for the creation timestamp.
const (
	storePublicKey = "e2ee_public_key"
	storeSecretKey = "e2ee_secret_key"
	storeCreatedAt = "e2ee_key_created_at"
)

// DefaultMaxKeyAgeDays is the rotation policy threshold applied when the
// caller does not configure one.
const DefaultMaxKeyAgeDays = 90

// Service manages the device key pair backed by a secure store.
type Service struct {
	store      domain.SecureStore
	log        *logging.Logger
	maxAgeDays int64
	now        func() time.Time

	mu sync.Mutex
}

// New returns a key manager backed by the given store. maxAgeDays <= 0
// selects DefaultMaxKeyAgeDays.
func New(store domain.SecureStore, backend *log.Backend, maxAgeDays int64) *Service {
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultMaxKeyAgeDays
	}
	return &Service{
		store:      store,
		log:        backend.GetLogger("keys"),
		maxAgeDays: maxAgeDays,
		now:        time.Now,
	}
}

// Initialize returns the stored pair, generating and persisting a fresh one
// if none exists. Calling it repeatedly without an intervening Rotate
// always yields the same pair.
func (s *Service) Initialize() (domain.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kp, ok := s.stored(); ok {
		return kp, nil
	}
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return domain.KeyPair{}, err
	}
	if err := s.persist(kp); err != nil {
		return domain.KeyPair{}, err
	}
	s.log.Noticef("generated key pair %s", crypto.Fingerprint(kp.Public))
	return kp, nil
}

// Stored returns the persisted pair if both halves are present. A storage
// read failure is treated as absence, not a fatal error, so keys can be
// re-initialized.
func (s *Service) Stored() (domain.KeyPair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stored()
}

// Rotate unconditionally generates and stores a new pair, discarding the
// previous secret key. Messages encrypted under the old pair become
// undecryptable on this device; that is the point of rotation.
func (s *Service) Rotate() (domain.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return domain.KeyPair{}, err
	}
	if err := s.persist(kp); err != nil {
		return domain.KeyPair{}, err
	}
	s.log.Noticef("rotated key pair, now %s", crypto.Fingerprint(kp.Public))
	return kp, nil
}

// AgeDays reports the age of the active pair in whole days since its
// stored creation timestamp.
func (s *Service) AgeDays() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.createdAt()
	if !ok {
		return 0, false
	}
	return int64(s.now().Sub(ts).Hours() / 24), true
}

// ShouldRotate reports whether the active pair exceeds the configured
// maximum age. Policy only: nothing rotates until a caller acts on it.
func (s *Service) ShouldRotate() bool {
	age, ok := s.AgeDays()
	return ok && age > s.maxAgeDays
}

// Clear erases all key material. It runs on logout, where failure must not
// block sign-out, so errors are logged and swallowed.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{storeSecretKey, storePublicKey, storeCreatedAt} {
		if err := s.store.Delete(name); err != nil {
			s.log.Errorf("clear %s: %v", name, err)
		}
	}
	s.log.Noticef("cleared key material")
}

func (s *Service) stored() (domain.KeyPair, bool) {
	pubB64, okPub, err := s.store.Get(storePublicKey)
	if err != nil {
		s.log.Warningf("read public key: %v", err)
		return domain.KeyPair{}, false
	}
	secB64, okSec, err := s.store.Get(storeSecretKey)
	if err != nil {
		s.log.Warningf("read secret key: %v", err)
		return domain.KeyPair{}, false
	}
	if !okPub || !okSec {
		return domain.KeyPair{}, false
	}

	pub, err := crypto.B64Decode(pubB64)
	if err != nil || len(pub) != 32 {
		s.log.Warningf("stored public key malformed")
		return domain.KeyPair{}, false
	}
	sec, err := crypto.B64Decode(secB64)
	if err != nil || len(sec) != 32 {
		s.log.Warningf("stored secret key malformed")
		return domain.KeyPair{}, false
	}

	var kp domain.KeyPair
	copy(kp.Public[:], pub)
	copy(kp.Secret[:], sec)
	return kp, true
}

// persist writes the secret half first: if a later write fails, Stored
// still reports absence (no public half) rather than a split pair.
func (s *Service) persist(kp domain.KeyPair) error {
	if err := s.store.Set(storeSecretKey, crypto.B64(kp.Secret.Slice())); err != nil {
		return err
	}
	if err := s.store.Set(storePublicKey, crypto.B64(kp.Public.Slice())); err != nil {
		return err
	}
	return s.store.Set(storeCreatedAt, s.now().UTC().Format(time.RFC3339))
}

func (s *Service) createdAt() (time.Time, bool) {
	v, ok, err := s.store.Get(storeCreatedAt)
	if err != nil || !ok {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		s.log.Warningf("stored key timestamp malformed")
		return time.Time{}, false
	}
	return ts, true
}

// Compile-time assertion that Service implements domain.KeyManager.
var _ domain.KeyManager = (*Service)(nil)
