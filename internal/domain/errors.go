package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationFailed is returned when box opening fails its MAC
	// check: tampered ciphertext, wrong key, or wrong nonce. Decryption is
	// all-or-nothing; partial plaintext is never returned alongside it.
	ErrAuthenticationFailed = errors.New("message authentication failed")

	// ErrNoLocalKeys indicates no key pair exists in the secure store.
	ErrNoLocalKeys = errors.New("no local key pair")

	// ErrPeerKeyNotFound means the directory has no public key for the
	// user: they never initialized encrypted messaging. Stable state, not
	// retryable, distinguished from transient network failure.
	ErrPeerKeyNotFound = errors.New("peer has no published public key")

	// ErrRecipientHasNoKeys is the send-side form of ErrPeerKeyNotFound,
	// surfaced distinctly so callers can explain the failure.
	ErrRecipientHasNoKeys = errors.New("recipient has not set up secure messaging")

	// ErrDirectoryUnsupported means the deployed backend predates the
	// public-key directory endpoints. Uploads hitting this are best-effort
	// and must not fail login or sends.
	ErrDirectoryUnsupported = errors.New("directory endpoint not supported by server")
)

// StoreError wraps a secure key store failure. Losing the secret key
// corrupts all future decryption, so these are always propagated, never
// swallowed.
type StoreError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("secure store %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *StoreError) Unwrap() error { return e.Err }
