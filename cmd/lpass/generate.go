package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	vault "github.com/vaultkeep/lpass-go"
)

var generateNoSymbols bool
var generateClip bool

var generateCmd = &cobra.Command{
	Use:   "generate [length]",
	Short: "generate a random password",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		length := 16
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("vault: invalid length %q", args[0])
			}
			length = n
		}

		password, err := vault.GeneratePassword(length, generateNoSymbols)
		if err != nil {
			return err
		}

		if generateClip {
			if err := copyToClipboard(password); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Println("Copied to clipboard")
			return nil
		}

		fmt.Println(password)
		return nil
	},
}

func generatePasswordOrDefault(length int) (string, error) {
	return vault.GeneratePassword(length, false)
}

func init() {
	generateCmd.Flags().BoolVar(&generateNoSymbols, "no-symbols", false, "exclude symbol characters")
	generateCmd.Flags().BoolVarP(&generateClip, "clip", "c", false, "copy the generated password to the clipboard")
}
