// Package config provides the Environment value threaded through the
// vault client and its internal collaborators: config paths, clock,
// and logger, replacing the module-level singletons the teacher
// avoids in favor of injected collaborators (see Client's onSyncError
// callback and Strategy's constructor options).
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// DefaultAgentTimeout is the idle timeout the local key-cache agent
// uses when LPASS_AGENT_TIMEOUT is unset.
const DefaultAgentTimeout = time.Hour

// Environment carries the ambient collaborators every package that
// touches disk, the clock, or diagnostics needs, per the "global
// mutable state -> injected state" design note. Zero value is not
// usable; build one with New.
type Environment struct {
	// ConfigDir is the per-user directory holding session, verify,
	// plaintext_key, upload-queue/, and agent.sock.
	ConfigDir string

	// Clock returns the current time; overridable in tests.
	Clock func() time.Time

	// Logger receives structured records for recoverable failures
	// (a skipped undecryptable account, a queue entry aging into
	// failed/). Never nil.
	Logger *slog.Logger
}

// New builds an Environment rooted at the directory LPASS_HOME names,
// falling back to $XDG_CONFIG_HOME/lpass or ~/.config/lpass.
func New(logger *slog.Logger) (*Environment, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Environment{
		ConfigDir: dir,
		Clock:     time.Now,
		Logger:    logger,
	}, nil
}

// ConfigDir resolves the per-user configuration root.
func ConfigDir() (string, error) {
	if home := os.Getenv("LPASS_HOME"); home != "" {
		return home, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lpass"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lpass"), nil
}

// AgentTimeout resolves LPASS_AGENT_TIMEOUT (seconds), defaulting to
// DefaultAgentTimeout.
func AgentTimeout() time.Duration {
	raw := os.Getenv("LPASS_AGENT_TIMEOUT")
	if raw == "" {
		return DefaultAgentTimeout
	}
	secs, err := time.ParseDuration(raw + "s")
	if err != nil {
		return DefaultAgentTimeout
	}
	return secs
}

// AgentDisabled reports whether LPASS_AGENT_DISABLE=1 is set.
func AgentDisabled() bool {
	return os.Getenv("LPASS_AGENT_DISABLE") == "1"
}

// ClipboardCommand resolves LPASS_CLIPBOARD_COMMAND, the shell
// command that `show --clip` pipes its value into instead of calling
// the platform clipboard backend directly (useful on headless systems
// with no X11/Wayland/pbcopy backend for atotto/clipboard to shell
// out to). Empty when unset.
func ClipboardCommand() string {
	return os.Getenv("LPASS_CLIPBOARD_COMMAND")
}

// ClipClearTime resolves LPASS_CLIP_CLEAR_TIME (seconds): how long
// after copying a value to the clipboard the CLI should clear it.
// Zero means "don't clear".
func ClipClearTime() time.Duration {
	raw := os.Getenv("LPASS_CLIP_CLEAR_TIME")
	if raw == "" {
		return 0
	}
	secs, err := time.ParseDuration(raw + "s")
	if err != nil {
		return 0
	}
	return secs
}

// EnsureDir creates dir (and parents) with owner-only permissions if
// it does not already exist, per §5's shared-resource policy.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0700)
}

// WriteFileSecure writes data to path with owner-only permissions,
// replacing any existing content.
func WriteFileSecure(path string, data []byte) error {
	return os.WriteFile(path, data, 0600)
}
