package main

import (
	"fmt"

	"github.com/spf13/cobra"

	vault "github.com/vaultkeep/lpass-go"
)

var (
	editUsername string
	editPassword string
	editURL      string
	editNotes    string
	editGroup    string
)

var editCmd = &cobra.Command{
	Use:   "edit <query>",
	Short: "update fields on an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		upd := vault.AccountUpdate{}
		flags := cmd.Flags()
		if flags.Changed("username") {
			upd.Username = &editUsername
		}
		if flags.Changed("password") {
			upd.Password = &editPassword
		}
		if flags.Changed("url") {
			upd.URL = &editURL
		}
		if flags.Changed("notes") {
			upd.Notes = &editNotes
		}
		if flags.Changed("group") {
			upd.Group = &editGroup
		}

		account, err := client.Update(cmd.Context(), args[0], upd)
		if err != nil {
			return err
		}
		fmt.Println("Updated", account.Fullname)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editUsername, "username", "", "new username")
	editCmd.Flags().StringVar(&editPassword, "password", "", "new password")
	editCmd.Flags().StringVar(&editURL, "url", "", "new URL")
	editCmd.Flags().StringVar(&editNotes, "notes", "", "new notes")
	editCmd.Flags().StringVar(&editGroup, "group", "", "new group/folder path")
}
