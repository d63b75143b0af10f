// Package crypto exposes the minimal primitives used by veilchat.
//
// Contents
//
//   - Key-pair generation for the box construction (GenerateKeyPair)
//   - Authenticated public-key encryption and decryption (Seal, Open)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Seal and Open wrap NaCl box: X25519 key agreement, XSalsa20, and a
// Poly1305 MAC combined into a single primitive. Open is all-or-nothing; a
// failed MAC check yields domain.ErrAuthenticationFailed and no plaintext.
// All functions operate on fixed-size array types defined in
// internal/domain to avoid accidental reallocations.
package crypto
