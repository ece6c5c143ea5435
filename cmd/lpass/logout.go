package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutForce bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "end the session and clear persisted state",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Logout(cmd.Context(), logoutForce); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

func init() {
	logoutCmd.Flags().BoolVar(&logoutForce, "force", false, "clear local state even if the server logout call fails")
}
