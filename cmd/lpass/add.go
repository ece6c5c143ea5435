package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addUsername string
	addPassword string
	addURL      string
	addNotes    string
	addGroup    string
	addGenerate int
	addIsApp    bool
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "create a new account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		password := addPassword
		if addGenerate > 0 {
			generated, err := generatePasswordOrDefault(addGenerate)
			if err != nil {
				return err
			}
			password = generated
		}

		id, err := client.Add(cmd.Context(), args[0], addUsername, password, addURL, addNotes, addGroup, nil, addIsApp)
		if err != nil {
			return err
		}
		fmt.Println("Created", id)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addUsername, "username", "", "account username")
	addCmd.Flags().StringVar(&addPassword, "password", "", "account password")
	addCmd.Flags().StringVar(&addURL, "url", "", "account URL")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "account notes")
	addCmd.Flags().StringVar(&addGroup, "group", "", "group/folder path")
	addCmd.Flags().IntVar(&addGenerate, "generate", 0, "generate a random password of this length instead of --password")
	addCmd.Flags().BoolVar(&addIsApp, "is-app", false, "mark this entry as an application entry")
}
