package main

import (
	"github.com/spf13/cobra"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "change the master password (currently unsupported)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		// ChangePassword always returns ErrPasswordChangeIncomplete: a
		// full implementation would need to re-encrypt every share's
		// sharekey under the new RSA keypair first (SPEC_FULL.md §9).
		return client.ChangePassword(cmd.Context(), "")
	},
}
