package vault

import "fmt"

// FieldType is the type tag of a custom field, as declared by a
// secure-note template or set directly by the caller for an ordinary
// account.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldPassword FieldType = "password"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldURL      FieldType = "url"
	FieldCheckbox FieldType = "checkbox"
	FieldTextarea FieldType = "textarea"
)

// Field is one custom field on an Account: {name, value, type, checked}.
type Field struct {
	Name    string
	Value   string
	Type    FieldType
	Checked bool
}

// Attachment is file metadata for an account; content is never held
// in-memory and is fetched on demand via Client.GetAttachment.
type Attachment struct {
	ID        string
	ParentID  string
	MimeType  string
	Filename  string
	Size      string
	StorageKey string // per-attachment symmetric key, itself encrypted at rest
}

// Share is a shared folder's metadata and its decrypted symmetric key.
type Share struct {
	ID       string
	Name     string
	Key      VaultKey
	ReadOnly bool
}

// ShareUser is one member of a shared folder.
type ShareUser struct {
	Username      string
	UID           string
	RealName      string
	ReadOnly      bool
	Admin         bool
	HidePasswords bool
	Accepted      bool
}

// ShareLimit restricts which accounts within a share are visible to a
// given user: a whitelist (only AccountIDs visible) or a blacklist
// (AccountIDs hidden).
type ShareLimit struct {
	Whitelist bool
	AccountIDs []string
}

// Account is one vault entry.
type Account struct {
	ID              string
	Name            string
	Username        string
	Password        string
	URL             string
	Group           string // hierarchical path, "/"-separated for display
	Notes           string
	Fullname        string // derived: Group/Name, or "(none)/Name"
	LastTouch       string
	LastModifiedGMT string
	PWProtect       bool
	Favorite        bool
	IsApp           bool
	AttachPresent   bool
	AttachKey       string
	Fields          []Field
	Attachments     []Attachment

	// Share is a non-owning reference to the share this account was
	// decrypted under, or nil for vault-scoped accounts. When set, the
	// account's plaintext values were obtained with Share.Key, not the
	// vault key.
	Share *Share
}

// GetField returns the first custom field whose name matches, or nil.
func (a *Account) GetField(name string) *Field {
	for i := range a.Fields {
		if a.Fields[i].Name == name {
			return &a.Fields[i]
		}
	}
	return nil
}

// IsSecureNote reports whether the account stores a structured secure
// note rather than an ordinary login.
func (a *Account) IsSecureNote() bool {
	return a.URL == secureNoteURL
}

// DeriveFullname computes the display fullname from Group and Name,
// following the "(none)/<name>" fallback whenever Group is empty; Share
// is not consulted.
func (a *Account) DeriveFullname() string {
	group := a.Group
	if group == "" {
		group = "(none)"
	}
	return fmt.Sprintf("%s/%s", group, a.Name)
}

// VaultKey is a 32-byte symmetric key. Zero overwrites the key
// material in place so a caller that holds the last reference can
// scrub it from memory on Close/logout, modeling the "zeroizing
// wrapper" design note without needing a finalizer.
type VaultKey [32]byte

// Zero overwrites k's bytes with zeroes.
func (k *VaultKey) Zero() {
	for i := range k {
		k[i] = 0
	}
}

// Bytes returns k's contents as a slice, valid only as long as k is
// not zeroed or reused.
func (k *VaultKey) Bytes() []byte {
	return k[:]
}

// Session is the authenticated state persisted across invocations.
type Session struct {
	UID        string
	SessionID  string
	Token      string
	PrivateKeyPEM string // decrypted, empty if private key decryption failed or absent
	Server     string
}

// IsValid reports whether all three session identifiers are present,
// per spec §3's Session invariant.
func (s *Session) IsValid() bool {
	return s != nil && s.UID != "" && s.SessionID != "" && s.Token != ""
}
