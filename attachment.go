package vault

import (
	"context"
	"strconv"

	"github.com/vaultkeep/lpass-go/internal/crypto"
)

// GetAttachment fetches and decrypts attachment attachID belonging to
// the account matched by query, returning its raw bytes (spec §4.7).
// Raw bytes, not a UTF-8 string, since attachment content is rarely
// text — per the resolved Open Question on DecryptString/DecryptBytes
// aliasing in SPEC_FULL.md §9.
func (c *Client) GetAttachment(ctx context.Context, query, attachID string) ([]byte, error) {
	account, err := c.Find(query)
	if err != nil {
		return nil, err
	}

	var attachment *Attachment
	for i := range account.Attachments {
		if account.Attachments[i].ID == attachID {
			attachment = &account.Attachments[i]
			break
		}
	}
	if attachment == nil {
		return nil, &NotFoundError{Query: attachID}
	}

	creds, err := c.credentials()
	if err != nil {
		return nil, err
	}

	shareID := ""
	if account.Share != nil {
		shareID = account.Share.ID
	}

	encrypted, err := c.api.GetAttachment(ctx, creds, attachment.StorageKey, shareID)
	if err != nil {
		return nil, wrapNetwork("get attachment", err)
	}

	key := c.keyFor(account.Share)
	return crypto.DecryptBytes(encrypted, key)
}

// UploadAttachment encrypts data under the account's scope (vault or
// current share key) and uploads it via uploadattach.php, then resyncs so the new attachment's metadata is
// reflected locally.
func (c *Client) UploadAttachment(ctx context.Context, query, filename string, data []byte) error {
	account, err := c.Find(query)
	if err != nil {
		return err
	}

	creds, err := c.credentials()
	if err != nil {
		return err
	}

	key := c.keyFor(account.Share)
	encryptedData, err := crypto.EncryptBytes(data, key)
	if err != nil {
		return err
	}
	encryptedName, err := crypto.EncryptString(filename, key)
	if err != nil {
		return err
	}

	fields, err := buildMutateFields(key, map[string]string{}, nil)
	if err != nil {
		return err
	}
	fields.Set("aid", account.ID)
	fields.Set("filename", string(encryptedName))
	fields.Set("data", string(encryptedData))
	fields.Set("size", strconv.Itoa(len(data)))
	if account.Share != nil {
		fields.Set("sharedfolderid", account.Share.ID)
	}

	if _, err := c.api.PostForm(ctx, "uploadattach.php", fields); err != nil {
		return wrapNetwork("upload attachment", err)
	}

	return c.Sync(ctx, true)
}
