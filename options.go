package vault

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultServer        = "lastpass.com"
	defaultPluginVersion = "6.0.0"
	defaultTimeout       = 30 * time.Second
)

// clientConfig holds the optional knobs Login/Resume/ResumeWithKey accept.
type clientConfig struct {
	server        string
	httpClient    *http.Client
	retries       int
	pluginVersion string
	configDir     string
	logger        *slog.Logger
	trustDevice   bool
	otp           string
	plaintextKey  bool
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		server:        defaultServer,
		pluginVersion: defaultPluginVersion,
	}
}

// Option configures a Client at construction time.
type Option func(*clientConfig)

// WithServer sets the vault server host (e.g. "lastpass.com"),
// combined with https:// by the transport layer.
func WithServer(server string) Option {
	return func(c *clientConfig) { c.server = server }
}

// WithHTTPClient sets a custom HTTP client for the transport layer.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = client }
}

// WithRetries sets the transport's retry budget.
func WithRetries(retries int) Option {
	return func(c *clientConfig) { c.retries = retries }
}

// WithPluginVersion overrides the hasplugin version string sent to
// getaccts.php.
func WithPluginVersion(version string) Option {
	return func(c *clientConfig) { c.pluginVersion = version }
}

// WithConfigDir overrides the persisted-state directory, normally
// resolved from LPASS_HOME by internal/config.
func WithConfigDir(dir string) Option {
	return func(c *clientConfig) { c.configDir = dir }
}

// WithLogger sets the logger recoverable failures are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// WithTrustDevice sets login.php's "trust" flag.
func WithTrustDevice(trust bool) Option {
	return func(c *clientConfig) { c.trustDevice = trust }
}

// WithOTP supplies a one-time passcode for two-factor login.
func WithOTP(otp string) Option {
	return func(c *clientConfig) { c.otp = otp }
}

// WithPlaintextKey opts into persisting the raw vault key to disk
// (plaintext_key, mode 0600). Per spec §3 this requires an explicit
// safety confirmation; cmd/lpass gates it behind a huh.Confirm prompt
// before setting this option.
func WithPlaintextKey(enabled bool) Option {
	return func(c *clientConfig) { c.plaintextKey = enabled }
}
