package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "show whether a session is currently valid",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			fmt.Println("Not logged in")
			return nil
		}
		defer client.Close()

		sess := client.Session()
		if sess == nil || !sess.IsValid() {
			fmt.Println("Not logged in")
			return nil
		}
		fmt.Printf("Logged in as %s on %s\n", viperUsername(), sess.Server)
		return nil
	},
}

func viperUsername() string {
	u, _ := username()
	return u
}
