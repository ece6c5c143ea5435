package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/vaultkeep/lpass-go/internal/agent"
	"github.com/vaultkeep/lpass-go/internal/config"
	vault "github.com/vaultkeep/lpass-go"
)

// promptPassword reads a password from the controlling terminal
// without echoing it, per spec §6's golang.org/x/term.ReadPassword
// requirement.
func promptPassword(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func vaultShareLimit(whitelist bool, ids []string) vault.ShareLimit {
	return vault.ShareLimit{Whitelist: whitelist, AccountIDs: ids}
}

func username() (string, error) {
	u := viper.GetString("username")
	if u == "" {
		return "", fatalf("username is required (--username or LPASS_USERNAME)")
	}
	return u, nil
}

// openClient resumes (or, on first use, logs in and persists) a
// session, consulting the local key-cache agent before re-deriving
// the key from the master password, per spec §5's agent role.
func openClient(ctx context.Context) (*vault.Client, error) {
	user, err := username()
	if err != nil {
		return nil, err
	}

	var opts []vault.Option
	if server := viper.GetString("server"); server != "" {
		opts = append(opts, vault.WithServer(server))
	}

	dir, err := configDir()
	if err != nil {
		return nil, err
	}

	if !config.AgentDisabled() {
		if cached, ok := agent.FetchKey(dir); ok && len(cached) == len(vault.VaultKey{}) {
			var key vault.VaultKey
			copy(key[:], cached)
			if client, err := vault.ResumeWithKey(ctx, user, key, opts...); err == nil {
				return client, nil
			}
			// Cached key failed the verification-string check (stale
			// cache, rotated password); fall through to the password
			// prompt rather than failing the whole command.
		}
	}

	password, err := promptPassword(fmt.Sprintf("Master password for %s: ", user))
	if err != nil {
		return nil, err
	}

	client, err := vault.Resume(ctx, user, password, opts...)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, vault.ErrInvalidSession) {
		return nil, err
	}

	return vault.Login(ctx, user, password, opts...)
}
