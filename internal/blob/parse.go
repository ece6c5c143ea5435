package blob

import (
	"io"
	"log/slog"
)

// ParsedField is one ACFL/ACOF custom-field record attached to the
// preceding ACCT.
type ParsedField struct {
	Name    []byte // encrypted
	Value   []byte // encrypted, or plaintext depending on Type
	Type    string
	Checked bool
}

// ParsedAttachment is one ATTA record attached to the preceding ACCT.
type ParsedAttachment struct {
	ID         string
	ParentID   string
	MimeType   []byte // encrypted
	StorageKey []byte // encrypted
	Size       string
	Filename   []byte // encrypted
}

// ParsedAccount is one ACCT record. Every *text field that the wire
// format encrypts is left as raw ciphertext bytes; ShareID is empty
// for vault-scoped accounts and non-empty while inside a SHAR context.
type ParsedAccount struct {
	ID            string
	ShareID       string
	Name          []byte // encrypted
	Group         []byte // encrypted
	URLHex        []byte // hex(maybe-encrypted UTF-8)
	Notes         []byte // encrypted
	Favorite      bool
	GroupShared   bool
	IsShared      bool
	Username      []byte // encrypted
	Password      []byte // encrypted
	PWProtect     bool
	AttachPresent bool
	AttachKey     []byte // encrypted
	Fields        []ParsedField
	Attachments   []ParsedAttachment
}

// ParsedShare is one SHAR record. Exactly one of ShareKeyHex or
// ShareKeyAES is populated, per §4.3.
type ParsedShare struct {
	ID          string
	Name        []byte // encrypted
	ShareKeyHex string // RSA-OAEP-wrapped share key, hex-encoded
	ShareKeyAES []byte // AES-wrapped share key, under the vault key
	ReadOnly    bool
}

// Blob is the parsed form of an entire vault stream.
type Blob struct {
	Version  string
	Accounts []ParsedAccount
	Shares   []ParsedShare
}

// Parse reads a full blob stream from r. A malformed chunk or field
// header aborts with a BlobError (§4.3's "fatal to the whole parse").
// Per-account decryption failures are not this package's concern: this
// layer never decrypts, so the only failures here are structural.
//
// logger, if non-nil, receives a debug-level record for ignored LOCA/
// NMAC chunks and unrecognized tags, mirroring the codec's tolerance
// of unknown trailing chunks.
func Parse(r io.Reader, logger *slog.Logger) (*Blob, error) {
	cr := NewChunkReader(r)
	out := &Blob{}

	currentShareID := ""
	var currentAccount *ParsedAccount

	for {
		chunk, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch chunk.Tag {
		case "LPAV":
			out.Version = string(chunk.Payload)

		case "SHAR":
			share, err := parseShare(chunk.Payload)
			if err != nil {
				return nil, err
			}
			out.Shares = append(out.Shares, share)
			currentShareID = share.ID
			currentAccount = nil

		case "ACCT":
			account, err := parseAccount(chunk.Payload, currentShareID)
			if err != nil {
				return nil, err
			}
			out.Accounts = append(out.Accounts, account)
			currentAccount = &out.Accounts[len(out.Accounts)-1]

		case "ACFL", "ACOF":
			field, err := parseField(chunk.Payload)
			if err != nil {
				return nil, err
			}
			if currentAccount != nil {
				currentAccount.Fields = append(currentAccount.Fields, field)
			}

		case "ATTA":
			att, err := parseAttachment(chunk.Payload)
			if err != nil {
				return nil, err
			}
			if currentAccount != nil {
				currentAccount.Attachments = append(currentAccount.Attachments, att)
			}

		case "LOCA", "NMAC":
			if logger != nil {
				logger.Debug("ignoring blob chunk", "tag", chunk.Tag)
			}

		default:
			if logger != nil {
				logger.Debug("ignoring unrecognized blob chunk", "tag", chunk.Tag)
			}
		}
	}

	return out, nil
}

func parseShare(payload []byte) (ParsedShare, error) {
	fr := newFieldReader(payload)

	var s ParsedShare
	var err error
	if s.ID, err = fr.nextString(); err != nil {
		return s, err
	}
	if s.Name, _, err = fr.next(); err != nil {
		return s, err
	}
	if s.ShareKeyHex, err = fr.nextString(); err != nil {
		return s, err
	}
	if s.ShareKeyAES, _, err = fr.next(); err != nil {
		return s, err
	}
	if s.ReadOnly, err = fr.nextBool(); err != nil {
		return s, err
	}
	return s, nil
}

func parseAccount(payload []byte, shareID string) (ParsedAccount, error) {
	fr := newFieldReader(payload)

	a := ParsedAccount{ShareID: shareID}
	var err error
	if a.ID, err = fr.nextString(); err != nil {
		return a, err
	}
	if a.Name, _, err = fr.next(); err != nil {
		return a, err
	}
	if a.Group, _, err = fr.next(); err != nil {
		return a, err
	}
	if a.URLHex, _, err = fr.next(); err != nil {
		return a, err
	}
	if a.Notes, _, err = fr.next(); err != nil {
		return a, err
	}
	if a.Favorite, err = fr.nextBool(); err != nil {
		return a, err
	}
	if a.GroupShared, err = fr.nextBool(); err != nil {
		return a, err
	}
	if a.IsShared, err = fr.nextBool(); err != nil {
		return a, err
	}
	if a.Username, _, err = fr.next(); err != nil {
		return a, err
	}
	if a.Password, _, err = fr.next(); err != nil {
		return a, err
	}
	if a.PWProtect, err = fr.nextBool(); err != nil {
		return a, err
	}
	if a.AttachPresent, err = fr.nextBool(); err != nil {
		return a, err
	}
	if a.AttachKey, _, err = fr.next(); err != nil {
		return a, err
	}
	return a, nil
}

func parseField(payload []byte) (ParsedField, error) {
	fr := newFieldReader(payload)

	var f ParsedField
	var err error
	if f.Name, _, err = fr.next(); err != nil {
		return f, err
	}
	if f.Value, _, err = fr.next(); err != nil {
		return f, err
	}
	if f.Type, err = fr.nextString(); err != nil {
		return f, err
	}
	if f.Checked, err = fr.nextBool(); err != nil {
		return f, err
	}
	return f, nil
}

func parseAttachment(payload []byte) (ParsedAttachment, error) {
	fr := newFieldReader(payload)

	var a ParsedAttachment
	var err error
	if a.ID, err = fr.nextString(); err != nil {
		return a, err
	}
	if a.ParentID, err = fr.nextString(); err != nil {
		return a, err
	}
	if a.MimeType, _, err = fr.next(); err != nil {
		return a, err
	}
	if a.StorageKey, _, err = fr.next(); err != nil {
		return a, err
	}
	if a.Size, err = fr.nextString(); err != nil {
		return a, err
	}
	if a.Filename, _, err = fr.next(); err != nil {
		return a, err
	}
	return a, nil
}
