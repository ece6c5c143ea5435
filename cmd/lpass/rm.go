package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <query>",
	Short: "delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted")
		return nil
	},
}
