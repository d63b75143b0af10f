package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report key age and whether rotation is due",
		RunE: func(cmd *cobra.Command, args []string) error {
			age, ok := appCtx.Keys.AgeDays()
			if !ok {
				fmt.Println("No local keys.")
				return nil
			}
			fmt.Printf("Key age: %d days\n", age)
			if appCtx.Keys.ShouldRotate() {
				fmt.Println("Rotation is due; run rotate.")
			}
			return nil
		},
	}
}
