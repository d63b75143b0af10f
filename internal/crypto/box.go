package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/box"

	"veilchat/internal/domain"
)

// GenerateKeyPair returns a fresh Curve25519 pair for the box construction.
func GenerateKeyPair() (domain.KeyPair, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("generate key pair: %w", err)
	}
	return domain.KeyPair{
		Public: domain.PublicKey(*pub),
		Secret: domain.SecretKey(*priv),
	}, nil
}

// Seal encrypts plaintext for peerPub under ourSecret with a fresh random
// nonce. The nonce is public and travels with the ciphertext; it must never
// be reused, which sampling 24 random bytes per call guarantees in practice.
func Seal(
	plaintext []byte,
	peerPub domain.PublicKey,
	ourSecret domain.SecretKey,
) (domain.EncryptedMessage, error) {
	var nonce domain.Nonce
	if _, err := rand.Read(nonce[:]); err != nil {
		return domain.EncryptedMessage{}, fmt.Errorf("generate nonce: %w", err)
	}

	pub := [32]byte(peerPub)
	sec := [32]byte(ourSecret)
	n := [24]byte(nonce)

	ct := box.Seal(nil, plaintext, &n, &pub, &sec)
	return domain.EncryptedMessage{Ciphertext: ct, Nonce: nonce}, nil
}

// Open authenticates and decrypts msg sent by peerPub to ourSecret. On any
// MAC failure it returns domain.ErrAuthenticationFailed and no plaintext.
func Open(
	msg domain.EncryptedMessage,
	peerPub domain.PublicKey,
	ourSecret domain.SecretKey,
) ([]byte, error) {
	pub := [32]byte(peerPub)
	sec := [32]byte(ourSecret)
	n := [24]byte(msg.Nonce)

	plain, ok := box.Open(nil, msg.Ciphertext, &n, &pub, &sec)
	if !ok {
		return nil, domain.ErrAuthenticationFailed
	}
	return plain, nil
}
