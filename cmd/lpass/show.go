package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/vaultkeep/lpass-go/internal/config"
)

var showClip bool
var showField string

var showCmd = &cobra.Command{
	Use:   "show <query>",
	Short: "display one account's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Sync(cmd.Context(), false); err != nil {
			return err
		}

		account, err := client.Find(args[0])
		if err != nil {
			return err
		}

		if showClip {
			value := account.Password
			if showField != "" {
				if f := account.GetField(showField); f != nil {
					value = f.Value
				}
			}
			if err := copyToClipboard(value); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Fprintln(os.Stderr, "Copied to clipboard")
			if clear := config.ClipClearTime(); clear > 0 {
				go clearClipboardAfter(value, clear)
			}
			return nil
		}

		if showField != "" {
			if f := account.GetField(showField); f != nil {
				fmt.Println(f.Value)
				return nil
			}
			return fmt.Errorf("vault: no field named %q", showField)
		}

		fmt.Printf("%s\n", account.Fullname)
		fmt.Printf("Username: %s\n", account.Username)
		fmt.Printf("Password: %s\n", account.Password)
		fmt.Printf("URL: %s\n", account.URL)
		if account.Notes != "" {
			fmt.Printf("Notes: %s\n", account.Notes)
		}
		for _, f := range account.Fields {
			fmt.Printf("%s: %s\n", f.Name, f.Value)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVarP(&showClip, "clip", "c", false, "copy the password (or --field) to the clipboard instead of printing it")
	showCmd.Flags().StringVar(&showField, "field", "", "show/copy a specific field instead of the full record")
}

// copyToClipboard prefers LPASS_CLIPBOARD_COMMAND (a shell command
// reading the value on stdin) over atotto/clipboard's platform
// backend, per spec §6 — useful on headless hosts with no X11,
// Wayland, or pbcopy for atotto/clipboard to shell out to.
func copyToClipboard(value string) error {
	if cmdline := config.ClipboardCommand(); cmdline != "" {
		cmd := exec.Command("sh", "-c", cmdline)
		cmd.Stdin = strings.NewReader(value)
		return cmd.Run()
	}
	return clipboard.WriteAll(value)
}

// clearClipboardAfter wipes the clipboard after delay, but only if it
// still holds the value we copied (a user may have copied something
// else in the meantime).
func clearClipboardAfter(value string, delay time.Duration) {
	time.Sleep(delay)
	current, err := clipboard.ReadAll()
	if err != nil || current != value {
		return
	}
	_ = copyToClipboard("")
}
