package directory

import (
	"context"
	"errors"
	"sync"

	"gopkg.in/op/go-logging.v1"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
	"veilchat/internal/log"
)

// Service caches counterpart public keys fetched from the remote directory.
type Service struct {
	client domain.DirectoryClient
	log    *logging.Logger

	mu    sync.RWMutex
	cache map[domain.UserID]domain.PublicKey
}

// New returns a directory service over the given remote client.
func New(client domain.DirectoryClient, backend *log.Backend) *Service {
	return &Service{
		client: client,
		log:    backend.GetLogger("directory"),
		cache:  make(map[domain.UserID]domain.PublicKey),
	}
}

// PublicKey returns the user's public key, fetching on a cache miss.
// domain.ErrPeerKeyNotFound passes through untouched so callers can tell
// "user never enrolled" from a transient network failure. A miss that
// fails remotely leaves the cache unchanged.
func (s *Service) PublicKey(ctx context.Context, user domain.UserID) (domain.PublicKey, error) {
	s.mu.RLock()
	pub, ok := s.cache[user]
	s.mu.RUnlock()
	if ok {
		return pub, nil
	}

	pub, err := s.client.FetchPublicKey(ctx, user)
	if err != nil {
		return domain.PublicKey{}, err
	}

	// Last-writer-wins on a concurrent miss; both writers fetched the same
	// remote value.
	s.mu.Lock()
	s.cache[user] = pub
	s.mu.Unlock()

	s.log.Debugf("cached key %s for %s", crypto.Fingerprint(pub), user)
	return pub, nil
}

// UploadOwn publishes the local public key so counterparts can discover it.
// Best-effort: a server without directory support is reported as
// domain.ErrDirectoryUnsupported and should not abort login or sends.
func (s *Service) UploadOwn(ctx context.Context, pub domain.PublicKey) error {
	err := s.client.UploadPublicKey(ctx, pub)
	if errors.Is(err, domain.ErrDirectoryUnsupported) {
		s.log.Warningf("server does not accept public keys; peers cannot reach this device securely")
		return err
	}
	if err != nil {
		return err
	}
	s.log.Noticef("published public key %s", crypto.Fingerprint(pub))
	return nil
}

// Invalidate evicts a single cached entry, for when a counterpart is known
// to have rotated keys.
func (s *Service) Invalidate(user domain.UserID) {
	s.mu.Lock()
	delete(s.cache, user)
	s.mu.Unlock()
}

// ClearCache empties the cache. Called on logout so no key material leaks
// across sessions.
func (s *Service) ClearCache() {
	s.mu.Lock()
	s.cache = make(map[domain.UserID]domain.PublicKey)
	s.mu.Unlock()
}

// Compile-time assertion that Service implements domain.Directory.
var _ domain.Directory = (*Service)(nil)
