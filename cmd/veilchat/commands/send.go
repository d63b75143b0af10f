package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"veilchat/internal/domain"
)

// send <recipient> <message>: encrypt and send a message.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <recipient> <message>",
		Short: "Encrypt and send a message to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sent, err := appCtx.Messages.Send(
				cmd.Context(),
				domain.UserID(args[0]),
				[]byte(args[1]),
			)
			if err != nil {
				return err
			}
			fmt.Printf("sent %s\n", sent.ID)
			return nil
		},
	}
}
