package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [group]",
	Short: "list accounts, optionally restricted to a group",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Sync(cmd.Context(), false); err != nil {
			return err
		}

		group := ""
		if len(args) > 0 {
			group = args[0]
		}

		for _, a := range client.Accounts() {
			if group != "" && !strings.HasPrefix(strings.ToLower(a.Group), strings.ToLower(group)) {
				continue
			}
			fmt.Printf("%s [id: %s]\n", a.Fullname, a.ID)
		}
		return nil
	},
}
