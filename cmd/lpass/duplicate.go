package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var duplicateName string

var duplicateCmd = &cobra.Command{
	Use:   "duplicate <query>",
	Short: "create a copy of an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		id, err := client.Duplicate(cmd.Context(), args[0], duplicateName)
		if err != nil {
			return err
		}
		fmt.Println("Created", id)
		return nil
	},
}

func init() {
	duplicateCmd.Flags().StringVar(&duplicateName, "name", "", `name for the duplicate (default "Copy of <orig>")`)
}
