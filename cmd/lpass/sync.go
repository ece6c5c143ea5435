package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "download the vault blob and refresh local account/share lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Sync(cmd.Context(), true); err != nil {
			return err
		}
		fmt.Printf("Synced %d accounts, %d shares\n", len(client.Accounts()), len(client.Shares()))
		return nil
	},
}
