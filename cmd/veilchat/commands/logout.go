package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logout: erase key material and the public-key cache. Never fails; a
// storage error here must not trap the user in a signed-in state.
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Erase local keys and the public-key cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx.Keys.Clear()
			appCtx.Directory.ClearCache()
			fmt.Println("Logged out; local key material erased.")
			return nil
		},
	}
}
