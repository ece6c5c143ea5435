package vault

import (
	"encoding/hex"
	"log/slog"

	blobpkg "github.com/vaultkeep/lpass-go/internal/blob"
	"github.com/vaultkeep/lpass-go/internal/crypto"
)

// decodeShares turns parsed SHAR records into Share values plus a
// lookup from share id to its raw decrypted AES key, resolving each
// share's key per spec §4.3: sharekey_aes is AES-decrypted under the
// vault key, sharekey is hex-decoded then RSA-OAEP-decrypted under
// the user's private key. A share whose key cannot be resolved is
// skipped with a logged warning; its accounts are then undecryptable
// and are skipped in turn by decodeAccounts.
func decodeShares(parsed []blobpkg.ParsedShare, vaultKey []byte, privateKeyPEM string, logger *slog.Logger) ([]*Share, map[string][]byte) {
	shares := make([]*Share, 0, len(parsed))
	keys := make(map[string][]byte, len(parsed))

	for _, s := range parsed {
		key, err := resolveShareKey(s, vaultKey, privateKeyPEM)
		if err != nil {
			logSkip(logger, "skipping share with unresolvable key", "share_id", s.ID, "error", err)
			continue
		}

		name, err := crypto.DecryptString(s.Name, vaultKey)
		if err != nil {
			logSkip(logger, "skipping share with undecryptable name", "share_id", s.ID, "error", err)
			continue
		}

		var shareKey VaultKey
		copy(shareKey[:], key)

		shares = append(shares, &Share{
			ID:       s.ID,
			Name:     name,
			Key:      shareKey,
			ReadOnly: s.ReadOnly,
		})
		keys[s.ID] = key
	}

	return shares, keys
}

func resolveShareKey(s blobpkg.ParsedShare, vaultKey []byte, privateKeyPEM string) ([]byte, error) {
	if len(s.ShareKeyAES) > 0 {
		return crypto.DecryptBytes(s.ShareKeyAES, vaultKey)
	}
	if s.ShareKeyHex != "" {
		wrapped, err := hex.DecodeString(s.ShareKeyHex)
		if err != nil {
			return nil, err
		}
		if privateKeyPEM == "" {
			return nil, errMissingPrivateKey
		}
		priv, err := crypto.ParsePrivateKeyPEM(privateKeyPEM)
		if err != nil {
			return nil, err
		}
		return crypto.UnwrapShareKey(wrapped, priv)
	}
	return nil, errNoShareKey
}

// decodeAccounts decrypts every parsed ACCT record with either the
// vault key or the current share's key, skipping any account whose
// decryption fails (spec §4.3's "a single undecryptable account is
// skipped with a logged warning; the surrounding blob continues").
func decodeAccounts(parsed []blobpkg.ParsedAccount, vaultKey []byte, shares []*Share, shareKeys map[string][]byte, logger *slog.Logger) []*Account {
	shareByID := make(map[string]*Share, len(shares))
	for _, s := range shares {
		shareByID[s.ID] = s
	}

	accounts := make([]*Account, 0, len(parsed))
	for _, pa := range parsed {
		key := vaultKey
		var share *Share
		if pa.ShareID != "" {
			k, ok := shareKeys[pa.ShareID]
			if !ok {
				logSkip(logger, "skipping account in share with unresolved key", "account_id", pa.ID, "share_id", pa.ShareID)
				continue
			}
			key = k
			share = shareByID[pa.ShareID]
		}

		account, err := decodeAccount(pa, key, share)
		if err != nil {
			logSkip(logger, "skipping undecryptable account", "account_id", pa.ID, "error", err)
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts
}

func decodeAccount(pa blobpkg.ParsedAccount, key []byte, share *Share) (*Account, error) {
	name, err := crypto.DecryptString(pa.Name, key)
	if err != nil {
		return nil, err
	}
	group, err := crypto.DecryptString(pa.Group, key)
	if err != nil {
		return nil, err
	}
	notes, err := crypto.DecryptString(pa.Notes, key)
	if err != nil {
		return nil, err
	}
	username, err := crypto.DecryptString(pa.Username, key)
	if err != nil {
		return nil, err
	}
	password, err := crypto.DecryptString(pa.Password, key)
	if err != nil {
		return nil, err
	}
	url, err := decodeURLField(pa.URLHex, key)
	if err != nil {
		return nil, err
	}

	// AttachKey is tolerant of decryption failure: an account with a
	// damaged attachkey still has valid login fields, so attachments
	// simply become unavailable rather than hiding the whole record.
	attachKey, _ := crypto.DecryptString(pa.AttachKey, key)

	a := &Account{
		ID:            pa.ID,
		Name:          name,
		Group:         normalizeGroup(group),
		URL:           url,
		Notes:         notes,
		Username:      username,
		Password:      password,
		Favorite:      pa.Favorite,
		PWProtect:     pa.PWProtect,
		AttachPresent: pa.AttachPresent,
		AttachKey:     attachKey,
		Share:         share,
	}
	a.Fullname = a.DeriveFullname()

	for _, pf := range pa.Fields {
		field, err := decodeField(pf, key)
		if err != nil {
			continue // a single bad custom field does not sink the account
		}
		a.Fields = append(a.Fields, field)
	}

	for _, pat := range pa.Attachments {
		att, err := decodeAttachment(pat, key)
		if err != nil {
			continue
		}
		a.Attachments = append(a.Attachments, att)
	}

	return a, nil
}

func decodeField(pf blobpkg.ParsedField, key []byte) (Field, error) {
	name, err := crypto.DecryptString(pf.Name, key)
	if err != nil {
		return Field{}, err
	}
	value := decryptTolerant(pf.Value, key)
	return Field{
		Name:    name,
		Value:   value,
		Type:    FieldType(pf.Type),
		Checked: pf.Checked,
	}, nil
}

func decodeAttachment(pat blobpkg.ParsedAttachment, key []byte) (Attachment, error) {
	mimetype, err := crypto.DecryptString(pat.MimeType, key)
	if err != nil {
		return Attachment{}, err
	}
	filename, err := crypto.DecryptString(pat.Filename, key)
	if err != nil {
		return Attachment{}, err
	}
	storageKey, err := crypto.DecryptString(pat.StorageKey, key)
	if err != nil {
		return Attachment{}, err
	}
	return Attachment{
		ID:         pat.ID,
		ParentID:   pat.ParentID,
		MimeType:   mimetype,
		Filename:   filename,
		Size:       pat.Size,
		StorageKey: storageKey,
	}, nil
}

// decodeURLField implements spec §4.3's URL framing sniff: the
// payload is ASCII hex of the UTF-8 bytes, decrypted only if those
// bytes happen to start with the CBC envelope marker. Historically
// URLs were not always encrypted, so a plaintext hex-decode is a
// valid outcome, not an error.
func decodeURLField(urlHex []byte, key []byte) (string, error) {
	if len(urlHex) == 0 {
		return "", nil
	}
	raw, err := hex.DecodeString(string(urlHex))
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", nil
	}
	if raw[0] == crypto.CBCPrefix {
		return crypto.DecryptString(raw, key)
	}
	return string(raw), nil
}

// decryptTolerant decrypts data under key, falling back to the raw
// bytes verbatim when decryption fails — custom field values are
// "encrypted or conditional-plaintext depending on type" per spec
// §4.3, and this codec does not maintain the full type table that
// would predict which.
func decryptTolerant(data, key []byte) string {
	if len(data) == 0 {
		return ""
	}
	value, err := crypto.DecryptString(data, key)
	if err != nil {
		return string(data)
	}
	return value
}

// normalizeGroup converts the input-side "\"-separated hierarchical
// group path to the "/"-separated display form (spec §3).
func normalizeGroup(group string) string {
	out := make([]byte, len(group))
	for i := 0; i < len(group); i++ {
		if group[i] == '\\' {
			out[i] = '/'
		} else {
			out[i] = group[i]
		}
	}
	return string(out)
}

func logSkip(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}
