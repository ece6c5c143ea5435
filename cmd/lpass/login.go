package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	vault "github.com/vaultkeep/lpass-go"
)

var trustDevice bool
var otp string
var plaintextKey bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "authenticate and persist a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		user, err := username()
		if err != nil {
			return err
		}

		if plaintextKey {
			var confirmed bool
			err := huh.NewConfirm().
				Title("Persist the raw vault key to disk?").
				Description("plaintext_key lets any process running as you decrypt the vault without a password prompt.").
				Value(&confirmed).
				Run()
			if err != nil {
				return err
			}
			if !confirmed {
				plaintextKey = false
			}
		}

		password, err := promptPassword(fmt.Sprintf("Master password for %s: ", user))
		if err != nil {
			return err
		}

		var opts []vault.Option
		if server := viper.GetString("server"); server != "" {
			opts = append(opts, vault.WithServer(server))
		}
		opts = append(opts, vault.WithTrustDevice(trustDevice), vault.WithOTP(otp), vault.WithPlaintextKey(plaintextKey))

		client, err := vault.Login(ctx, user, password, opts...)
		if err != nil {
			return err
		}
		defer client.Close()

		fmt.Println("Logged in as", user)
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&trustDevice, "trust", false, "trust this device for future logins")
	loginCmd.Flags().StringVar(&otp, "otp", "", "one-time passcode for two-factor login")
	loginCmd.Flags().BoolVar(&plaintextKey, "plaintext-key", false, "persist the raw vault key (requires confirmation)")
}
