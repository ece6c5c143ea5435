package vault

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/vaultkeep/lpass-go/internal/crypto"
)

// verificationConstant is the fixed UTF-8 string encrypted with the
// vault key and stored alongside the session. Decrypting it with a
// candidate key and matching bit-for-bit is the authoritative "this
// key is correct" test (spec §3/§4.6).
const verificationConstant = "lpass-go-verification-token-v1"

const (
	sessionFileName    = "session"
	verifyFileName     = "verify"
	plaintextKeyFile   = "plaintext_key"
)

// persistedSession is the on-disk shape of session.go, written to the
// "session" file as one JSON document that is encrypted as a whole
// under the vault key; fields are not encrypted individually (spec
// §4.6 step 6: "self-referential
// ... persisted state is only readable by someone who already
// re-derives the key").
type persistedSession struct {
	UID           string `json:"uid"`
	SessionID     string `json:"sessionid"`
	Token         string `json:"token"`
	PrivateKeyPEM string `json:"private_key_pem,omitempty"`
	Server        string `json:"server"`
	Username      string `json:"username"`
	Iterations    int    `json:"iterations"`
}

// SessionStore persists Session + derived key state under
// Environment.ConfigDir, gated by the verification-string round-trip.
type SessionStore struct {
	dir string
}

// NewSessionStore builds a SessionStore rooted at configDir.
func NewSessionStore(configDir string) *SessionStore {
	return &SessionStore{dir: configDir}
}

func (s *SessionStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// Save persists session, iterations, and username encrypted under
// vaultKey, along with the verification string. When plaintextKey is
// true the raw 32-byte key is also written to plaintext_key (0600);
// callers must have already obtained the user's explicit safety
// confirmation before setting this, per spec §3.
func (s *SessionStore) Save(sess *Session, iterations int, username string, vaultKey *VaultKey, plaintextKey bool) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return errors.Join(ErrConfig, err)
	}

	ps := persistedSession{
		UID:           sess.UID,
		SessionID:     sess.SessionID,
		Token:         sess.Token,
		PrivateKeyPEM: sess.PrivateKeyPEM,
		Server:        sess.Server,
		Username:      username,
		Iterations:    iterations,
	}
	plain, err := json.Marshal(ps)
	if err != nil {
		return err
	}
	encrypted, err := crypto.EncryptString(string(plain), vaultKey.Bytes())
	if err != nil {
		return errors.Join(ErrConfig, err)
	}
	if err := os.WriteFile(s.path(sessionFileName), encrypted, 0600); err != nil {
		return errors.Join(ErrConfig, err)
	}

	verify, err := crypto.EncryptBase64([]byte(verificationConstant), vaultKey.Bytes())
	if err != nil {
		return errors.Join(ErrConfig, err)
	}
	if err := os.WriteFile(s.path(verifyFileName), []byte(verify), 0600); err != nil {
		return errors.Join(ErrConfig, err)
	}

	if plaintextKey {
		if err := os.WriteFile(s.path(plaintextKeyFile), vaultKey.Bytes(), 0600); err != nil {
			return errors.Join(ErrConfig, err)
		}
	} else {
		_ = os.Remove(s.path(plaintextKeyFile))
	}

	return nil
}

// VerifyKey reports whether candidateKey correctly decrypts the
// stored verification string, per spec §4.6's resume protocol step 2.
// A missing verify file or any decryption failure is treated as "not
// verified" rather than an error.
func (s *SessionStore) VerifyKey(candidateKey *VaultKey) bool {
	data, err := os.ReadFile(s.path(verifyFileName))
	if err != nil {
		return false
	}
	plain, err := crypto.DecryptBase64(string(data), candidateKey.Bytes())
	if err != nil {
		return false
	}
	return string(plain) == verificationConstant
}

// Load resumes a persisted session using candidateKey. It returns
// (nil, false) when the verification string does not match, per spec
// §4.6 step 2's "on mismatch discard all persisted state" -- discard
// here means "do not trust"; Load never deletes files itself.
func (s *SessionStore) Load(candidateKey *VaultKey) (*Session, int, string, bool) {
	if !s.VerifyKey(candidateKey) {
		return nil, 0, "", false
	}

	data, err := os.ReadFile(s.path(sessionFileName))
	if err != nil {
		return nil, 0, "", false
	}
	plain, err := crypto.DecryptString(data, candidateKey.Bytes())
	if err != nil {
		return nil, 0, "", false
	}

	var ps persistedSession
	if err := json.Unmarshal([]byte(plain), &ps); err != nil {
		return nil, 0, "", false
	}

	sess := &Session{
		UID:           ps.UID,
		SessionID:     ps.SessionID,
		Token:         ps.Token,
		PrivateKeyPEM: ps.PrivateKeyPEM,
		Server:        ps.Server,
	}
	if !sess.IsValid() {
		return nil, 0, "", false
	}
	return sess, ps.Iterations, ps.Username, true
}

// LoadPlaintextKey reads the optional plaintext_key file, returning
// (nil, false) if the user never opted into that mode.
func (s *SessionStore) LoadPlaintextKey() (*VaultKey, bool) {
	data, err := os.ReadFile(s.path(plaintextKeyFile))
	if err != nil || len(data) != 32 {
		return nil, false
	}
	var key VaultKey
	copy(key[:], data)
	return &key, true
}

// Clear removes every persisted session file, used unconditionally on
// logout even when the server notification failed (spec §4.6).
func (s *SessionStore) Clear() error {
	var firstErr error
	for _, name := range []string{sessionFileName, verifyFileName, plaintextKeyFile} {
		if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
