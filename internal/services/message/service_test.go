package message_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
	"veilchat/internal/log"
	"veilchat/internal/services/message"
)

// fakeKeys is an in-memory domain.KeyManager.
type fakeKeys struct {
	kp      domain.KeyPair
	have    bool
	initErr error
}

func (f *fakeKeys) Initialize() (domain.KeyPair, error) {
	if f.initErr != nil {
		return domain.KeyPair{}, f.initErr
	}
	if !f.have {
		kp, err := crypto.GenerateKeyPair()
		if err != nil {
			return domain.KeyPair{}, err
		}
		f.kp, f.have = kp, true
	}
	return f.kp, nil
}

func (f *fakeKeys) Stored() (domain.KeyPair, bool) { return f.kp, f.have }

func (f *fakeKeys) Rotate() (domain.KeyPair, error) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return domain.KeyPair{}, err
	}
	f.kp, f.have = kp, true
	return kp, nil
}

func (f *fakeKeys) AgeDays() (int64, bool) { return 0, f.have }
func (f *fakeKeys) ShouldRotate() bool     { return false }
func (f *fakeKeys) Clear()                 { f.have = false }

// fakeDirectory serves keys from a map, bypassing any transport.
type fakeDirectory struct {
	keys map[domain.UserID]domain.PublicKey
}

func (d *fakeDirectory) PublicKey(_ context.Context, user domain.UserID) (domain.PublicKey, error) {
	pub, ok := d.keys[user]
	if !ok {
		return domain.PublicKey{}, domain.ErrPeerKeyNotFound
	}
	return pub, nil
}

func (d *fakeDirectory) UploadOwn(context.Context, domain.PublicKey) error { return nil }
func (d *fakeDirectory) Invalidate(user domain.UserID)                     { delete(d.keys, user) }
func (d *fakeDirectory) ClearCache()                                       {}

// fakeTransport records outbound envelopes and serves a scripted history.
type fakeTransport struct {
	sent    []domain.Envelope
	history []domain.Envelope
}

func (tr *fakeTransport) SendEnvelope(_ context.Context, env domain.Envelope) error {
	tr.sent = append(tr.sent, env)
	return nil
}

func (tr *fakeTransport) FetchConversation(context.Context, domain.UserID) ([]domain.Envelope, error) {
	return tr.history, nil
}

func setup(t *testing.T) (*message.Service, *fakeKeys, *fakeDirectory, *fakeTransport, domain.KeyPair) {
	t.Helper()
	bobPair, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	keys := &fakeKeys{}
	dir := &fakeDirectory{keys: map[domain.UserID]domain.PublicKey{"bob": bobPair.Public}}
	tr := &fakeTransport{}
	svc := message.New(keys, dir, tr, "alice", log.NewDiscard())
	return svc, keys, dir, tr, bobPair
}

func TestSend_GeneratesKeysLazily(t *testing.T) {
	svc, keys, _, tr, bobPair := setup(t)
	require.False(t, keys.have)

	sent, err := svc.Send(context.Background(), "bob", []byte("hello"))
	require.NoError(t, err)
	require.NotEmpty(t, sent.ID)
	require.True(t, keys.have, "sending must auto-initialize a key pair")

	require.Len(t, tr.sent, 1)
	env := tr.sent[0]
	require.NotEmpty(t, env.EncryptedContent)
	require.Len(t, env.MessageNonce, 24)
	require.Empty(t, env.Content, "no plaintext leaves the pipeline")

	// Bob can open it with his secret and Alice's public key.
	var enc domain.EncryptedMessage
	enc.Ciphertext = env.EncryptedContent
	copy(enc.Nonce[:], env.MessageNonce)
	plain, err := crypto.Open(enc, keys.kp.Public, bobPair.Secret)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), plain)
}

func TestSend_SamePlaintextDiffersAcrossCalls(t *testing.T) {
	svc, _, _, tr, _ := setup(t)

	ctx := context.Background()
	_, err := svc.Send(ctx, "bob", []byte("hello"))
	require.NoError(t, err)
	_, err = svc.Send(ctx, "bob", []byte("hello"))
	require.NoError(t, err)

	require.Len(t, tr.sent, 2)
	require.NotEqual(t, tr.sent[0].MessageNonce, tr.sent[1].MessageNonce)
	require.NotEqual(t, tr.sent[0].EncryptedContent, tr.sent[1].EncryptedContent)
}

func TestSend_RecipientWithoutKeys(t *testing.T) {
	svc, _, _, tr, _ := setup(t)

	_, err := svc.Send(context.Background(), "carol", []byte("hello"))
	require.ErrorIs(t, err, domain.ErrRecipientHasNoKeys)
	require.Empty(t, tr.sent)
}

func TestSend_StoreFailurePropagates(t *testing.T) {
	svc, keys, _, _, _ := setup(t)
	keys.initErr = &domain.StoreError{Op: "set", Err: context.DeadlineExceeded}

	_, err := svc.Send(context.Background(), "bob", []byte("hello"))
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
}

// sealFrom builds a wire envelope encrypted by sender for recipient.
func sealFrom(
	t *testing.T,
	id string,
	from, to domain.UserID,
	senderSecret domain.SecretKey,
	recipientPub domain.PublicKey,
	plaintext string,
) domain.Envelope {
	t.Helper()
	enc, err := crypto.Seal([]byte(plaintext), recipientPub, senderSecret)
	require.NoError(t, err)
	return domain.Envelope{
		ID:               id,
		SenderID:         from,
		RecipientID:      to,
		EncryptedContent: enc.Ciphertext,
		MessageNonce:     enc.Nonce.Slice(),
	}
}

func TestConversation_DecryptsInboundAndOutbound(t *testing.T) {
	svc, keys, _, tr, bobPair := setup(t)

	alicePair, err := keys.Initialize()
	require.NoError(t, err)

	tr.history = []domain.Envelope{
		sealFrom(t, "m1", "bob", "alice", bobPair.Secret, alicePair.Public, "hi alice"),
		// Re-displaying our own sent message uses the recipient's public key.
		sealFrom(t, "m2", "alice", "bob", alicePair.Secret, bobPair.Public, "hi bob"),
	}

	msgs, err := svc.Conversation(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	require.Equal(t, domain.ContentDecrypted, msgs[0].State)
	require.Equal(t, []byte("hi alice"), msgs[0].Plaintext)
	require.Equal(t, domain.ContentDecrypted, msgs[1].State)
	require.Equal(t, []byte("hi bob"), msgs[1].Plaintext)
}

func TestConversation_CorruptedMessageIsTombstoneNotFailure(t *testing.T) {
	svc, keys, _, tr, bobPair := setup(t)

	alicePair, err := keys.Initialize()
	require.NoError(t, err)

	good := sealFrom(t, "m1", "bob", "alice", bobPair.Secret, alicePair.Public, "before")
	bad := sealFrom(t, "m2", "bob", "alice", bobPair.Secret, alicePair.Public, "corrupted in transit")
	bad.EncryptedContent[0] ^= 0x01
	alsoGood := sealFrom(t, "m3", "bob", "alice", bobPair.Secret, alicePair.Public, "after")

	tr.history = []domain.Envelope{good, bad, alsoGood}

	msgs, err := svc.Conversation(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	require.Equal(t, domain.ContentDecrypted, msgs[0].State)
	require.Equal(t, domain.ContentUndecryptable, msgs[1].State)
	require.Empty(t, msgs[1].Plaintext, "no garbage plaintext on auth failure")
	require.NotEmpty(t, msgs[1].Envelope.EncryptedContent, "ciphertext preserved")
	require.Equal(t, domain.ContentDecrypted, msgs[2].State)
	require.Equal(t, []byte("after"), msgs[2].Plaintext)
}

func TestConversation_NoLocalKeysMarker(t *testing.T) {
	svc, keys, _, tr, bobPair := setup(t)
	require.False(t, keys.have)

	// Whatever bob encrypted to a previous installation of ours.
	other, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	tr.history = []domain.Envelope{
		sealFrom(t, "m1", "bob", "alice", bobPair.Secret, other.Public, "old message"),
		{ID: "m0", SenderID: "bob", RecipientID: "alice", Content: "plain history"},
	}

	msgs, err := svc.Conversation(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	require.Equal(t, domain.ContentNoLocalKeys, msgs[0].State)
	require.NotEmpty(t, msgs[0].Envelope.EncryptedContent)
	require.Equal(t, domain.ContentPlain, msgs[1].State)
	require.Equal(t, []byte("plain history"), msgs[1].Plaintext)
}

func TestConversation_RotationMakesOldMessagesUndecryptable(t *testing.T) {
	svc, keys, _, tr, bobPair := setup(t)

	oldPair, err := keys.Initialize()
	require.NoError(t, err)
	tr.history = []domain.Envelope{
		sealFrom(t, "m1", "bob", "alice", bobPair.Secret, oldPair.Public, "pre-rotation"),
	}

	_, err = keys.Rotate()
	require.NoError(t, err)

	msgs, err := svc.Conversation(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, domain.ContentUndecryptable, msgs[0].State)
}

func TestConversation_PeerKeyUnresolvableIsTombstone(t *testing.T) {
	svc, keys, dir, tr, bobPair := setup(t)

	alicePair, err := keys.Initialize()
	require.NoError(t, err)
	tr.history = []domain.Envelope{
		sealFrom(t, "m1", "bob", "alice", bobPair.Secret, alicePair.Public, "hi"),
	}
	dir.Invalidate("bob") // directory no longer knows bob

	msgs, err := svc.Conversation(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, domain.ContentUndecryptable, msgs[0].State)
}
