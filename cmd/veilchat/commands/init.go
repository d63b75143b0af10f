package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create local encryption keys and publish the public half",
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := appCtx.Keys.Initialize()
			if err != nil {
				return err
			}
			fmt.Printf("Keys ready.\nFingerprint: %s\n", crypto.Fingerprint(kp.Public))

			// Publication is best-effort: a backend without the directory
			// endpoints only limits who can reach this device securely.
			err = appCtx.Directory.UploadOwn(cmd.Context(), kp.Public)
			switch {
			case errors.Is(err, domain.ErrDirectoryUnsupported):
				fmt.Println("Server does not support key publication yet; skipping.")
			case err != nil:
				fmt.Printf("Key publication failed (will retry on next init): %v\n", err)
			default:
				fmt.Println("Public key published.")
			}
			return nil
		},
	}
}
