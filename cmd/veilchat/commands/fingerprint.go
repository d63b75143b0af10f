package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"veilchat/internal/crypto"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the local public-key fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, ok := appCtx.Keys.Stored()
			if !ok {
				return fmt.Errorf("no local keys; run init first")
			}
			fmt.Printf("Fingerprint: %s\n", crypto.Fingerprint(kp.Public))
			return nil
		},
	}
}
