// Package store implements the secure key store on the local filesystem.
//
// The store holds a small set of named text values (the key pair halves and
// the key timestamp) inside a single passphrase-encrypted file. The
// envelope is scrypt plus ChaCha20-Poly1305; writes go through a temp file
// and rename so a crash never leaves a torn keystore.
package store
