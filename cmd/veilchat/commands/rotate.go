package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
)

// rotate: replace the key pair. Messages encrypted under the old pair stop
// being readable on this device; peers keep using our stale public key
// until their cache resets at logout.
func rotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate",
		Short: "Replace the key pair and republish the public half",
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := appCtx.Keys.Rotate()
			if err != nil {
				return err
			}
			fmt.Printf("Keys rotated.\nNew fingerprint: %s\n", crypto.Fingerprint(kp.Public))

			err = appCtx.Directory.UploadOwn(cmd.Context(), kp.Public)
			switch {
			case errors.Is(err, domain.ErrDirectoryUnsupported):
				fmt.Println("Server does not support key publication yet; skipping.")
			case err != nil:
				fmt.Printf("Key publication failed: %v\n", err)
			default:
				fmt.Println("New public key published.")
			}
			return nil
		},
	}
}
