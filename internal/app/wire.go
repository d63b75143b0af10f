package app

import (
	"net/http"

	"veilchat/internal/domain"
	"veilchat/internal/log"
	directorysvc "veilchat/internal/services/directory"
	keysvc "veilchat/internal/services/keys"
	messagesvc "veilchat/internal/services/message"
	"veilchat/internal/store"
	"veilchat/internal/transport"
)

// Wire bundles the store, services, and clients for the CLI.
type Wire struct {
	Keys      domain.KeyManager
	Directory domain.Directory
	Messages  domain.MessagePipeline
	Store     domain.SecureStore
	Log       *log.Backend
}

// NewWire constructs the dependency graph from cfg. The passphrase seals
// the on-disk secure store.
func NewWire(cfg Config, passphrase string) (*Wire, error) {
	backend, err := log.New(cfg.Log.File, cfg.Log.Level, cfg.Log.Disable)
	if err != nil {
		return nil, err
	}

	secureStore := store.NewSecureFileStore(cfg.Home, passphrase)

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	tc := transport.New(cfg.ServerURL, httpClient)

	keyManager := keysvc.New(secureStore, backend, cfg.MaxKeyAgeDays)
	dir := directorysvc.New(tc, backend)
	pipeline := messagesvc.New(keyManager, dir, tc, domain.UserID(cfg.UserID), backend)

	return &Wire{
		Keys:      keyManager,
		Directory: dir,
		Messages:  pipeline,
		Store:     secureStore,
		Log:       backend,
	}, nil
}
