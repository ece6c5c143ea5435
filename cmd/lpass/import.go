package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var importKeepDupes bool

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "import accounts from CSV (stdin if no file given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		var data []byte
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}

		created, err := client.ImportCSV(cmd.Context(), string(data), importKeepDupes)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d accounts\n", created)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importKeepDupes, "keep-dupes", false, "don't skip CSV rows repeating an earlier row's (group, name, username)")
}
