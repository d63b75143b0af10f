package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
)

// Client talks to the platform REST API.
type Client struct {
	base string
	http *http.Client
}

// New returns a Client for the API at base. httpClient may be nil, in which
// case http.DefaultClient is used; callers owning timeouts pass their own.
func New(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient}
}

type publicKeyPayload struct {
	PublicKey string `json:"public_key"`
}

// UploadPublicKey publishes the local public key. A 404 or 405 means the
// deployed backend predates the directory feature; that is reported as
// domain.ErrDirectoryUnsupported, not a hard failure.
func (c *Client) UploadPublicKey(ctx context.Context, pub domain.PublicKey) error {
	resp, err := c.post(ctx, "/upload-public-key", publicKeyPayload{
		PublicKey: crypto.B64(pub.Slice()),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode/100 == 2:
		return nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed:
		return domain.ErrDirectoryUnsupported
	default:
		return fmt.Errorf("upload public key: %s", resp.Status)
	}
}

// FetchPublicKey retrieves a user's public key from the directory. A 404 is
// domain.ErrPeerKeyNotFound: the user has never enrolled.
func (c *Client) FetchPublicKey(ctx context.Context, user domain.UserID) (domain.PublicKey, error) {
	resp, err := c.get(ctx, "/public-key/"+url.PathEscape(user.String()))
	if err != nil {
		return domain.PublicKey{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.PublicKey{}, domain.ErrPeerKeyNotFound
	case resp.StatusCode/100 != 2:
		return domain.PublicKey{}, fmt.Errorf("fetch public key for %s: %s", user, resp.Status)
	}

	var payload publicKeyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.PublicKey{}, fmt.Errorf("decode public key response: %w", err)
	}
	raw, err := crypto.B64Decode(payload.PublicKey)
	if err != nil || len(raw) != 32 {
		return domain.PublicKey{}, fmt.Errorf("directory returned malformed key for %s", user)
	}
	var pub domain.PublicKey
	copy(pub[:], raw)
	return pub, nil
}

// SendEnvelope posts one encrypted message. The payload carries ciphertext
// and nonce only; there is no plaintext fallback field.
func (c *Client) SendEnvelope(ctx context.Context, env domain.Envelope) error {
	resp, err := c.post(ctx, "/send", struct {
		RecipientID      domain.UserID `json:"recipient_id"`
		EncryptedContent []byte        `json:"encrypted_content"`
		Nonce            []byte        `json:"nonce"`
	}{
		RecipientID:      env.RecipientID,
		EncryptedContent: env.EncryptedContent,
		Nonce:            env.MessageNonce,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("send message: %s", resp.Status)
	}
	return nil
}

// FetchConversation returns the raw message history with a peer, newest
// last, exactly as the server stores it.
func (c *Client) FetchConversation(ctx context.Context, peer domain.UserID) ([]domain.Envelope, error) {
	resp, err := c.get(ctx, "/conversation/"+url.PathEscape(peer.String()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("fetch conversation with %s: %s", peer, resp.Status)
	}
	var envs []domain.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envs); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return envs, nil
}

func (c *Client) post(ctx context.Context, path string, in any) (*http.Response, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

// Compile-time assertions that Client implements the transport contracts.
var (
	_ domain.DirectoryClient  = (*Client)(nil)
	_ domain.MessageTransport = (*Client)(nil)
)
