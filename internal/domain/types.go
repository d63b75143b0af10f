package domain

// UserID identifies a platform account on both sides of a conversation.
type UserID string

// String returns the string form of the user identifier.
func (u UserID) String() string { return string(u) }

// PublicKey is a Curve25519 public key.
type PublicKey [32]byte

// Slice returns the key as a []byte.
func (p PublicKey) Slice() []byte { return p[:] }

// SecretKey is a Curve25519 secret key. It must never appear in logs or in
// any serialized structure other than the secure key store.
type SecretKey [32]byte

// Slice returns the key as a []byte.
func (k SecretKey) Slice() []byte { return k[:] }

// Nonce is the per-message random value sent alongside a ciphertext.
type Nonce [24]byte

// Slice returns the nonce as a []byte.
func (n Nonce) Slice() []byte { return n[:] }

// KeyPair is the local device's active asymmetric pair.
type KeyPair struct {
	Public PublicKey
	Secret SecretKey
}

// EncryptedMessage is the output of a single encryption call: ciphertext
// plus the fresh nonce it was sealed under. Both travel to the transport;
// neither is secret.
type EncryptedMessage struct {
	Ciphertext []byte
	Nonce      Nonce
}

// Envelope is the wire form of a conversation message as the transport
// delivers it. Messages sent before either party enabled encryption carry
// Content with no EncryptedContent/MessageNonce.
type Envelope struct {
	ID               string `json:"id,omitempty"`
	SenderID         UserID `json:"sender_id"`
	RecipientID      UserID `json:"recipient_id"`
	Content          string `json:"content,omitempty"`
	EncryptedContent []byte `json:"encrypted_content,omitempty"`
	MessageNonce     []byte `json:"nonce,omitempty"`
	SentAt           int64  `json:"sent_at,omitempty"`
}

// SentMessage is what the pipeline returns after a successful send.
type SentMessage struct {
	ID          string
	RecipientID UserID
	SentAt      int64
}

// ContentState tags how a conversation item should be presented.
type ContentState int

const (
	// ContentDecrypted means Plaintext holds the recovered message body.
	ContentDecrypted ContentState = iota
	// ContentPlain means the message was never encrypted; Plaintext holds
	// the body as received.
	ContentPlain
	// ContentUndecryptable means authentication failed or the counterpart
	// key could not be resolved. The ciphertext is preserved, never shown
	// as garbage plaintext.
	ContentUndecryptable
	// ContentNoLocalKeys means no local key pair exists, so decryption was
	// not attempted at all.
	ContentNoLocalKeys
)

// String returns a short label for logs.
func (s ContentState) String() string {
	switch s {
	case ContentDecrypted:
		return "decrypted"
	case ContentPlain:
		return "plain"
	case ContentUndecryptable:
		return "undecryptable"
	case ContentNoLocalKeys:
		return "no-local-keys"
	default:
		return "unknown"
	}
}

// DisplayMessage is a conversation item after the pipeline has resolved its
// content. A failed decrypt yields State ContentUndecryptable with the raw
// envelope intact; the message is never dropped.
type DisplayMessage struct {
	ID          string
	SenderID    UserID
	RecipientID UserID
	State       ContentState
	Plaintext   []byte
	Envelope    Envelope
	SentAt      int64
}
