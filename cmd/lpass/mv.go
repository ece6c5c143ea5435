package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mvCmd = &cobra.Command{
	Use:   "mv <query> <group>",
	Short: "move an account to a different group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		account, err := client.Move(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println("Moved to", account.Fullname)
		return nil
	},
}
