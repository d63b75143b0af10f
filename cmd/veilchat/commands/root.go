package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"veilchat/internal/app"
)

var (
	home       string
	passphrase string
	serverURL  string
	userID     string

	appCtx *app.Wire
	cfg    app.Config
)

// Execute runs the veilchat CLI.
func Execute() error {
	root := &cobra.Command{
		Use:   "veilchat",
		Short: "End-to-end encrypted messaging client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".veilchat")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			var err error
			cfg, err = app.LoadConfig(home)
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.ServerURL = serverURL
			}
			if userID != "" {
				cfg.UserID = userID
			}
			if cfg.ServerURL == "" {
				return fmt.Errorf("server URL required (--server or config)")
			}
			if cfg.UserID == "" {
				return fmt.Errorf("user id required (--user or config)")
			}
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}

			appCtx, err = app.NewWire(cfg, passphrase)
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.veilchat)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the local keystore")
	root.PersistentFlags().StringVar(&serverURL, "server", "", "platform API base URL")
	root.PersistentFlags().StringVar(&userID, "user", "", "your account id")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		statusCmd(),
		rotateCmd(),
		sendCmd(),
		recvCmd(),
		logoutCmd(),
	)
	return root.Execute()
}
