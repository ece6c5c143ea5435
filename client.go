package vault

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/vaultkeep/lpass-go/internal/api"
	blobpkg "github.com/vaultkeep/lpass-go/internal/blob"
	"github.com/vaultkeep/lpass-go/internal/config"
	"github.com/vaultkeep/lpass-go/internal/crypto"
	"github.com/vaultkeep/lpass-go/internal/queue"
)

// Client is the in-memory vault façade (C7): session, vault key, and
// the account/share lists it was built from, kept behind a RWMutex so
// reads against a stable snapshot can fan out safely while a single
// writer mutates (spec §4.7/§5's concurrency model — one façade is
// not safe for concurrent writers).
type Client struct {
	api       *api.Client
	sessions  *SessionStore
	queue     *queue.Queue
	logger    *slog.Logger
	pluginVer string

	mu         sync.RWMutex
	session    *Session
	vaultKey   VaultKey
	username   string
	iterations int
	accounts   []*Account
	shares     []*Share
	loaded     bool
	closed     bool
}

func buildAPIClient(cfg *clientConfig) (*api.Client, error) {
	var opts []api.Option
	if cfg.httpClient != nil {
		opts = append(opts, api.WithHTTPClient(cfg.httpClient))
	}
	if cfg.retries > 0 {
		opts = append(opts, api.WithRetries(cfg.retries))
	}
	return api.New("https://"+cfg.server, opts...)
}

func queueCipher() queue.Cipher {
	return queue.Cipher{
		Encrypt: func(plaintext string, key []byte) (string, error) {
			return crypto.EncryptBase64([]byte(plaintext), key)
		},
		Decrypt: func(data string, key []byte) (string, error) {
			plain, err := crypto.DecryptBase64(data, key)
			if err != nil {
				return "", err
			}
			return string(plain), nil
		},
	}
}

// Login authenticates against the vault server and returns a ready
// Client, per spec §4.6's login protocol. Session state (tokens,
// iterations, username, the decrypted private key if any) is
// persisted to disk, encrypted under the derived vault key, so a
// later Resume can skip the network round trip.
func Login(ctx context.Context, username, password string, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(cfg)
	if err != nil {
		return nil, err
	}

	iterations, err := apiClient.GetIterations(ctx, username)
	if err != nil {
		return nil, wrapNetwork("get iterations", err)
	}
	if iterations < 2 && iterations != 1 {
		return nil, &LoginError{Message: fmt.Sprintf("server returned invalid iteration count %d", iterations)}
	}

	loginHash, decryptionKey := crypto.DeriveKeys(username, password, iterations)

	resp, err := apiClient.Login(ctx, api.LoginParams{
		Username:   username,
		LoginHash:  loginHash,
		Iterations: iterations,
		OTP:        cfg.otp,
		Trust:      cfg.trustDevice,
	})
	if err != nil {
		if loginErr, ok := err.(*api.LoginError); ok {
			return nil, &LoginError{Cause: loginErr.Cause, Message: loginErr.Message}
		}
		return nil, wrapNetwork("login", err)
	}

	sess := &Session{
		UID:       resp.UID,
		SessionID: resp.SessionID,
		Token:     resp.Token,
		Server:    cfg.server,
	}

	if resp.PrivateKeyEnc != "" {
		if encrypted, hexErr := hex.DecodeString(resp.PrivateKeyEnc); hexErr == nil {
			if pemBytes, decErr := crypto.DecryptBytes(encrypted, decryptionKey); decErr == nil {
				sess.PrivateKeyPEM = string(pemBytes)
			}
			// Per spec §4.6 step 5, a failed private-key decrypt is
			// non-fatal: shares requiring RSA unwrap later degrade
			// (they are skipped with a logged warning during Sync).
		}
	}

	configDir, err := resolveConfigDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	sessionStore := NewSessionStore(configDir)

	var vaultKey VaultKey
	copy(vaultKey[:], decryptionKey)

	if err := sessionStore.Save(sess, iterations, username, &vaultKey, cfg.plaintextKey); err != nil {
		return nil, err
	}

	return newClient(apiClient, sessionStore, configDir, cfg, sess, vaultKey, username, iterations), nil
}

// Resume re-derives the vault key from (username, password) and loads
// a previously persisted session without a login.php round trip,
// succeeding only when the verification string matches (spec §4.6's
// resume protocol, §8 property 6).
func Resume(ctx context.Context, username, password string, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(cfg)
	if err != nil {
		return nil, err
	}

	configDir, err := resolveConfigDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	sessionStore := NewSessionStore(configDir)

	iterations, err := apiClient.GetIterations(ctx, username)
	if err != nil {
		return nil, wrapNetwork("get iterations", err)
	}

	_, decryptionKey := crypto.DeriveKeys(username, password, iterations)
	var candidate VaultKey
	copy(candidate[:], decryptionKey)

	sess, storedIterations, storedUsername, ok := sessionStore.Load(&candidate)
	if !ok {
		return nil, ErrInvalidSession
	}

	return newClient(apiClient, sessionStore, configDir, cfg, sess, candidate, storedUsername, storedIterations), nil
}

// ResumeWithKey loads a previously persisted session using an
// already-derived vault key (typically supplied by the local
// key-cache agent, spec §5), skipping both the iterations.php round
// trip and the password-based re-derivation that Resume performs.
// Like Resume, it succeeds only when the verification string matches
// the candidate key (spec §4.6's resume protocol, §8 property 6); a
// stale or wrong cached key yields ErrInvalidSession so the caller can
// fall back to prompting for the master password.
func ResumeWithKey(ctx context.Context, username string, key VaultKey, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(cfg)
	if err != nil {
		return nil, err
	}

	configDir, err := resolveConfigDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	sessionStore := NewSessionStore(configDir)

	sess, storedIterations, storedUsername, ok := sessionStore.Load(&key)
	if !ok {
		return nil, ErrInvalidSession
	}
	if storedUsername != "" && storedUsername != username {
		return nil, ErrInvalidSession
	}

	return newClient(apiClient, sessionStore, configDir, cfg, sess, key, storedUsername, storedIterations), nil
}

func newClient(apiClient *api.Client, sessionStore *SessionStore, configDir string, cfg *clientConfig, sess *Session, vaultKey VaultKey, username string, iterations int) *Client {
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		api:        apiClient,
		sessions:   sessionStore,
		logger:     logger,
		pluginVer:  cfg.pluginVersion,
		session:    sess,
		vaultKey:   vaultKey,
		username:   username,
		iterations: iterations,
	}
	c.queue = queue.New(filepath.Join(configDir, "upload-queue"), queueCipher())
	return c
}

func resolveConfigDir(cfg *clientConfig) (string, error) {
	if cfg.configDir != "" {
		return cfg.configDir, nil
	}
	return config.ConfigDir()
}

// Close releases the client's resources, zeroing the in-memory vault
// key so a caller holding the last reference scrubs it from memory on
// logout (the VaultKey.Zero "zeroizing wrapper" design note).
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.queue != nil {
		c.queue.Stop()
	}
	c.vaultKey.Zero()
	return nil
}

// Logout best-effort notifies the server the session has ended, then
// unconditionally clears persisted and in-memory session state when
// force is true; otherwise a notification failure is surfaced instead
// of being swallowed (spec §4.6).
func (c *Client) Logout(ctx context.Context, force bool) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()

	var notifyErr error
	if sess != nil {
		notifyErr = c.api.Logout(ctx, api.SessionCredentials{Token: sess.Token, SessionID: sess.SessionID})
	}

	if notifyErr != nil && !force {
		return wrapNetwork("logout", notifyErr)
	}

	if err := c.sessions.Clear(); err != nil {
		return err
	}

	c.mu.Lock()
	c.session = nil
	c.vaultKey.Zero()
	c.accounts = nil
	c.shares = nil
	c.loaded = false
	c.mu.Unlock()

	return nil
}

// credentials returns the authenticated session's transport
// credentials, or ErrInvalidSession if there is no valid session.
func (c *Client) credentials() (api.SessionCredentials, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil || !c.session.IsValid() {
		return api.SessionCredentials{}, ErrInvalidSession
	}
	return api.SessionCredentials{Token: c.session.Token, SessionID: c.session.SessionID}, nil
}

// Sync downloads the vault blob and rebuilds the in-memory account and
// share lists. It is idempotent when force is false and the client has
// already loaded once, per spec §4.7.
func (c *Client) Sync(ctx context.Context, force bool) error {
	c.mu.RLock()
	alreadyLoaded := c.loaded
	c.mu.RUnlock()
	if alreadyLoaded && !force {
		return nil
	}

	creds, err := c.credentials()
	if err != nil {
		return err
	}

	raw, err := c.api.GetAccounts(ctx, creds, c.pluginVer)
	if err != nil {
		return wrapNetwork("sync", err)
	}

	parsed, err := blobpkg.Parse(bytes.NewReader(raw), c.logger)
	if err != nil {
		return fmt.Errorf("vault: parse blob: %w", err)
	}

	c.mu.RLock()
	vaultKey := c.vaultKey
	privPEM := ""
	if c.session != nil {
		privPEM = c.session.PrivateKeyPEM
	}
	c.mu.RUnlock()

	shares, shareKeys := decodeShares(parsed.Shares, vaultKey.Bytes(), privPEM, c.logger)
	accounts := decodeAccounts(parsed.Accounts, vaultKey.Bytes(), shares, shareKeys, c.logger)

	c.mu.Lock()
	c.shares = shares
	c.accounts = accounts
	c.loaded = true
	c.mu.Unlock()

	return nil
}

// Accounts returns a snapshot slice of every account currently loaded.
// Safe to call concurrently with other readers.
func (c *Client) Accounts() []*Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// Shares returns a snapshot slice of every share currently loaded.
func (c *Client) Shares() []*Share {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Share, len(c.shares))
	copy(out, c.shares)
	return out
}

// Session returns the client's current session, or nil if logged out.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}
