package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "manage shared folders",
}

var shareCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "create a shared folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		id, err := client.CreateShare(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println("Created share", id)
		return nil
	},
}

var shareRmCmd = &cobra.Command{
	Use:   "rm <name-or-id>",
	Short: "delete a shared folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()
		return client.DeleteShare(cmd.Context(), args[0])
	},
}

var shareUserlsCmd = &cobra.Command{
	Use:   "userls <name-or-id>",
	Short: "list a shared folder's members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		users, err := client.ShareUsers(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Printf("%s (readonly=%v admin=%v)\n", u.Username, u.ReadOnly, u.Admin)
		}
		return nil
	},
}

var (
	shareUserReadOnly      bool
	shareUserAdmin         bool
	shareUserHidePasswords bool
)

var shareUseraddCmd = &cobra.Command{
	Use:   "useradd <name-or-id> <username> <public-key-pem-file>",
	Short: "invite a user to a shared folder",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		pemData, err := readFile(args[2])
		if err != nil {
			return err
		}
		return client.AddShareUser(cmd.Context(), args[0], args[1], shareUserReadOnly, shareUserAdmin, shareUserHidePasswords, pemData)
	},
}

var shareUserdelCmd = &cobra.Command{
	Use:   "userdel <name-or-id> <username>",
	Short: "remove a user from a shared folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()
		return client.RemoveShareUser(cmd.Context(), args[0], args[1])
	},
}

var shareUsermodCmd = &cobra.Command{
	Use:   "usermod <name-or-id> <username>",
	Short: "change a member's permissions on a shared folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		flags := cmd.Flags()
		var readOnly, admin, hidePasswords *bool
		if flags.Changed("readonly") {
			readOnly = &shareUserReadOnly
		}
		if flags.Changed("admin") {
			admin = &shareUserAdmin
		}
		if flags.Changed("hide-passwords") {
			hidePasswords = &shareUserHidePasswords
		}
		return client.UpdateShareUser(cmd.Context(), args[0], args[1], readOnly, admin, hidePasswords)
	},
}

var shareLimitWhitelist bool
var shareLimitIDs []string

var shareLimitCmd = &cobra.Command{
	Use:   "limit <name-or-id> <username>",
	Short: "restrict which accounts a member can see within a shared folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		limit := vaultShareLimit(shareLimitWhitelist, shareLimitIDs)
		return client.SetShareLimit(cmd.Context(), args[0], args[1], limit)
	},
}

func init() {
	shareUseraddCmd.Flags().BoolVar(&shareUserReadOnly, "readonly", false, "grant read-only access")
	shareUseraddCmd.Flags().BoolVar(&shareUserAdmin, "admin", false, "grant admin privileges")
	shareUseraddCmd.Flags().BoolVar(&shareUserHidePasswords, "hide-passwords", false, "hide passwords from this user")

	shareUsermodCmd.Flags().BoolVar(&shareUserReadOnly, "readonly", false, "set read-only access")
	shareUsermodCmd.Flags().BoolVar(&shareUserAdmin, "admin", false, "set admin privileges")
	shareUsermodCmd.Flags().BoolVar(&shareUserHidePasswords, "hide-passwords", false, "set password hiding")

	shareLimitCmd.Flags().BoolVar(&shareLimitWhitelist, "whitelist", true, "treat --id as a whitelist (default) rather than a blacklist")
	shareLimitCmd.Flags().StringSliceVar(&shareLimitIDs, "id", nil, "account id to include/exclude (repeatable)")

	shareCmd.AddCommand(shareCreateCmd, shareRmCmd, shareUserlsCmd, shareUseraddCmd, shareUserdelCmd, shareUsermodCmd, shareLimitCmd)
}
