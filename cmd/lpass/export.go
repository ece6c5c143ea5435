package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var exportFields string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "export accounts as CSV to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Sync(cmd.Context(), false); err != nil {
			return err
		}

		var fields []string
		if exportFields != "" {
			fields = strings.Split(exportFields, ",")
		}

		out, err := client.ExportCSV(fields)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFields, "fields", "", "comma-separated column list (default: the standard set)")
}
