package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/op/go-logging.v1"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
	"veilchat/internal/log"
)

// Service encrypts messages before send and decrypts conversation history
// after fetch, using the key manager, the directory and the transport.
//
// High-level flow:
//   - Send: ensure a local key pair exists (generating one lazily), resolve
//     the recipient's public key, seal, hand the envelope to the transport.
//   - Conversation: fetch raw envelopes, then resolve each one
//     independently; a message that fails to decrypt becomes a tagged
//     tombstone instead of aborting the load or vanishing from history.
type Service struct {
	keys      domain.KeyManager
	directory domain.Directory
	transport domain.MessageTransport
	self      domain.UserID
	log       *logging.Logger
	now       func() time.Time
}

// New constructs a message pipeline for the local user self.
func New(
	keys domain.KeyManager,
	directory domain.Directory,
	transport domain.MessageTransport,
	self domain.UserID,
	backend *log.Backend,
) *Service {
	return &Service{
		keys:      keys,
		directory: directory,
		transport: transport,
		self:      self,
		log:       backend.GetLogger("message"),
		now:       time.Now,
	}
}

// Send encrypts plaintext for recipient to and posts it.
//
// A recipient without a published key yields domain.ErrRecipientHasNoKeys
// so callers can say "this user hasn't set up secure messaging" instead of
// a generic failure. Key store failures propagate: sending without a
// persisted secret key would make our own history undecryptable.
func (s *Service) Send(
	ctx context.Context,
	to domain.UserID,
	plaintext []byte,
) (domain.SentMessage, error) {
	kp, err := s.keys.Initialize()
	if err != nil {
		return domain.SentMessage{}, fmt.Errorf("initialize keys: %w", err)
	}

	peerPub, err := s.directory.PublicKey(ctx, to)
	if errors.Is(err, domain.ErrPeerKeyNotFound) {
		return domain.SentMessage{}, fmt.Errorf("send to %s: %w", to, domain.ErrRecipientHasNoKeys)
	}
	if err != nil {
		return domain.SentMessage{}, fmt.Errorf("resolve key for %s: %w", to, err)
	}

	enc, err := crypto.Seal(plaintext, peerPub, kp.Secret)
	if err != nil {
		return domain.SentMessage{}, err
	}

	env := domain.Envelope{
		ID:               uuid.NewString(),
		SenderID:         s.self,
		RecipientID:      to,
		EncryptedContent: enc.Ciphertext,
		MessageNonce:     enc.Nonce.Slice(),
		SentAt:           s.now().Unix(),
	}
	if err := s.transport.SendEnvelope(ctx, env); err != nil {
		return domain.SentMessage{}, err
	}

	s.log.Debugf("sent %s to %s", env.ID, to)
	return domain.SentMessage{ID: env.ID, RecipientID: to, SentAt: env.SentAt}, nil
}

// Conversation fetches the history with peer and resolves every envelope.
//
// Failures are message-scoped: an envelope that cannot be decrypted is
// surfaced as ContentUndecryptable with its ciphertext intact, and the rest
// of the conversation still resolves. With no local key pair at all,
// encrypted envelopes come back as ContentNoLocalKeys, which the UI treats
// differently from a decrypt failure.
func (s *Service) Conversation(
	ctx context.Context,
	peer domain.UserID,
) ([]domain.DisplayMessage, error) {
	envs, err := s.transport.FetchConversation(ctx, peer)
	if err != nil {
		return nil, err
	}

	kp, haveKeys := s.keys.Stored()

	out := make([]domain.DisplayMessage, 0, len(envs))
	for _, env := range envs {
		out = append(out, s.resolve(ctx, env, kp, haveKeys))
	}
	return out, nil
}

func (s *Service) resolve(
	ctx context.Context,
	env domain.Envelope,
	kp domain.KeyPair,
	haveKeys bool,
) domain.DisplayMessage {
	msg := domain.DisplayMessage{
		ID:          env.ID,
		SenderID:    env.SenderID,
		RecipientID: env.RecipientID,
		Envelope:    env,
		SentAt:      env.SentAt,
	}

	if len(env.EncryptedContent) == 0 || len(env.MessageNonce) == 0 {
		msg.State = domain.ContentPlain
		msg.Plaintext = []byte(env.Content)
		return msg
	}

	if !haveKeys {
		msg.State = domain.ContentNoLocalKeys
		return msg
	}

	// Decrypting needs the other party's public key: the sender's for a
	// received message, the recipient's when re-displaying one we sent.
	counterpart := env.SenderID
	if env.SenderID == s.self {
		counterpart = env.RecipientID
	}
	peerPub, err := s.directory.PublicKey(ctx, counterpart)
	if err != nil {
		s.log.Warningf("resolve key for %s: %v", counterpart, err)
		msg.State = domain.ContentUndecryptable
		return msg
	}

	if len(env.MessageNonce) != len(domain.Nonce{}) {
		s.log.Warningf("message %s carries a malformed nonce", env.ID)
		msg.State = domain.ContentUndecryptable
		return msg
	}
	var enc domain.EncryptedMessage
	enc.Ciphertext = env.EncryptedContent
	copy(enc.Nonce[:], env.MessageNonce)

	plain, err := crypto.Open(enc, peerPub, kp.Secret)
	if err != nil {
		s.log.Warningf("message %s from %s failed to decrypt", env.ID, env.SenderID)
		msg.State = domain.ContentUndecryptable
		return msg
	}

	msg.State = domain.ContentDecrypted
	msg.Plaintext = plain
	return msg
}

// Compile-time assertion that Service implements domain.MessagePipeline.
var _ domain.MessagePipeline = (*Service)(nil)
