package domain

import "context"

// SecureStore is durable, access-controlled storage for key material.
// Values are text-safe encodings of binary material. A missing entry is
// (value "", ok false, err nil); err is reserved for storage faults.
type SecureStore interface {
	Get(name string) (value string, ok bool, err error)
	Set(name, value string) error
	Delete(name string) error
}

// KeyManager owns the local key-pair lifecycle. Rotation is serialized
// against concurrent reads of the active pair: a caller never observes a
// half-rotated state.
type KeyManager interface {
	// Initialize returns the stored pair, or generates, stores, and
	// returns a new one if none exists. Idempotent between rotations.
	Initialize() (KeyPair, error)
	// Stored returns the persisted pair if both halves are present.
	// Storage read failures are treated as absence.
	Stored() (KeyPair, bool)
	// Rotate unconditionally generates and stores a new pair. Messages
	// encrypted under the old pair become undecryptable on this device.
	Rotate() (KeyPair, error)
	// AgeDays reports the age of the active pair in whole days.
	AgeDays() (int64, bool)
	// ShouldRotate reports whether the active pair has outlived the
	// configured maximum age. Policy only; callers decide when to act.
	ShouldRotate() bool
	// Clear erases all key material. It never fails: this runs on logout,
	// where an error must not block sign-out. Failures are logged.
	Clear()
}

// DirectoryClient is the remote public-key directory endpoint.
type DirectoryClient interface {
	FetchPublicKey(ctx context.Context, user UserID) (PublicKey, error)
	UploadPublicKey(ctx context.Context, pub PublicKey) error
}

// Directory resolves counterpart public keys through an in-memory cache,
// invalidated wholesale at logout.
type Directory interface {
	PublicKey(ctx context.Context, user UserID) (PublicKey, error)
	UploadOwn(ctx context.Context, pub PublicKey) error
	// Invalidate evicts one user's cached key, for when a counterpart is
	// known to have rotated.
	Invalidate(user UserID)
	ClearCache()
}

// MessageTransport carries opaque envelopes to and from the platform.
type MessageTransport interface {
	SendEnvelope(ctx context.Context, env Envelope) error
	FetchConversation(ctx context.Context, peer UserID) ([]Envelope, error)
}

// MessagePipeline orchestrates encryption before send and decryption after
// fetch. One undecryptable message never aborts a conversation load.
type MessagePipeline interface {
	Send(ctx context.Context, to UserID, plaintext []byte) (SentMessage, error)
	Conversation(ctx context.Context, peer UserID) ([]DisplayMessage, error)
}
