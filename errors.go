package vault

import (
	"errors"
	"fmt"

	"github.com/vaultkeep/lpass-go/internal/apierrors"
)

// ErrInvalidSession is returned when an operation requires an
// authenticated session the client cannot produce (spec §7
// InvalidSessionError).
var ErrInvalidSession = errors.New("vault: not authenticated")

// ErrConfig reports persisted state that is corrupt or inaccessible
// (spec §7 ConfigError).
var ErrConfig = errors.New("vault: local configuration is corrupt or inaccessible")

// ErrClientClosed names use of a Client after Close. No Client method
// checks for a closed client or returns this value.
var ErrClientClosed = errors.New("vault: client is closed")

// ErrInvalidPattern is returned by SearchRegex when pattern does not
// compile.
var ErrInvalidPattern = errors.New("vault: invalid search pattern")

// errMissingPrivateKey and errNoShareKey are internal decode-path
// sentinels: a share record whose key cannot be resolved is skipped
// with a logged warning rather than aborting the whole sync (spec
// §4.3), so these never need to be exported.
var errMissingPrivateKey = errors.New("vault: share key is RSA-wrapped but no private key is available")
var errNoShareKey = errors.New("vault: share record has neither sharekey nor sharekey_aes")

// ErrPasswordChangeIncomplete guards Client.ChangePassword: per the
// resolved Open Question in SPEC_FULL.md §9, this endpoint does not
// re-encrypt every share's sharekey under the user's RSA keypair, so
// it must not be exposed as a safe, complete operation.
var ErrPasswordChangeIncomplete = errors.New("vault: password change does not re-encrypt share keys; not safe to use")

// NotFoundError reports a lookup that matched zero or more than one
// account. When len(Matches) > 1 it carries every match's fullname so
// the caller can render a disambiguation prompt (spec §7).
type NotFoundError struct {
	Query   string
	Matches []string // fullnames of near-matches, when ambiguous
}

func (e *NotFoundError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("vault: no account matches %q", e.Query)
	}
	return fmt.Sprintf("vault: %d accounts match %q: %v", len(e.Matches), e.Query, e.Matches)
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// LoginError reports an authentication rejection: bad password,
// unknown user, wrong one-time passcode. Not recoverable locally.
type LoginError struct {
	Cause   string
	Message string
}

func (e *LoginError) Error() string {
	if e.Message != "" {
		return "vault: login rejected: " + e.Message
	}
	return "vault: login rejected: wrong username or password"
}

func (e *LoginError) Is(target error) bool {
	_, ok := target.(*LoginError)
	return ok
}

// NetworkError wraps a transport-level failure surfaced to a façade
// caller, annotated with the operation it occurred during (spec §7's
// "the façade... annotates with operation context and re-raises").
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("vault: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err is, or wraps, a 429 rejection
// from the transport, letting a caller recommend a wait per spec §7.
func IsRateLimited(err error) bool {
	return errors.Is(err, apierrors.ErrRateLimited)
}

// wrapNetwork annotates a transport error with the façade operation
// it occurred during.
func wrapNetwork(op string, err error) error {
	if err == nil {
		return nil
	}
	return &NetworkError{Op: op, Err: err}
}
