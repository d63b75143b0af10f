package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"veilchat/internal/domain"
)

// recv <peer>: fetch the conversation with <peer> and print what resolves.
func recvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recv <peer>",
		Short: "Fetch a conversation and decrypt what can be decrypted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := appCtx.Messages.Conversation(cmd.Context(), domain.UserID(args[0]))
			if err != nil {
				return err
			}
			for _, m := range msgs {
				switch m.State {
				case domain.ContentDecrypted, domain.ContentPlain:
					fmt.Printf("[%s] %s\n", m.SenderID, m.Plaintext)
				case domain.ContentUndecryptable:
					fmt.Printf("[%s] <message could not be decrypted>\n", m.SenderID)
				case domain.ContentNoLocalKeys:
					fmt.Printf("[%s] <encrypted; no local keys - run init>\n", m.SenderID)
				}
			}
			return nil
		},
	}
}
