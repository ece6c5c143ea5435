package vault

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vaultkeep/lpass-go/internal/api"
	"github.com/vaultkeep/lpass-go/internal/crypto"
)

// AccountUpdate carries only the fields a caller wants to change.
// Nil/unset pointers are left untouched server-side, per spec §4.7's
// "only supplied fields are re-encrypted and sent".
type AccountUpdate struct {
	Name     *string
	Username *string
	Password *string
	URL      *string
	Notes    *string
	Group    *string
	Fields   map[string]string // custom field name -> value, merged wholesale when non-nil
}

// keyFor returns the key an account (or an about-to-be-created
// account scoped to share) must be encrypted/decrypted under.
func (c *Client) keyFor(share *Share) []byte {
	if share != nil {
		return share.Key.Bytes()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vaultKey.Bytes()
}

func encryptFieldValue(value string, key []byte) (string, error) {
	if value == "" {
		return "", nil
	}
	enc, err := crypto.EncryptString(value, key)
	if err != nil {
		return "", err
	}
	return string(enc), nil
}

// Add creates a new vault-scoped account, encrypting every supplied
// value under the vault key, per spec
// §4.7's add contract.
func (c *Client) Add(ctx context.Context, name, username, password, urlValue, notes, group string, customFields map[string]string, isApp bool) (string, error) {
	return c.addScoped(ctx, name, username, password, urlValue, notes, group, customFields, isApp, nil)
}

func (c *Client) addScoped(ctx context.Context, name, username, password, urlValue, notes, group string, customFields map[string]string, isApp bool, share *Share) (string, error) {
	creds, err := c.credentials()
	if err != nil {
		return "", err
	}

	key := c.keyFor(share)
	fields, err := buildMutateFields(key, map[string]string{
		"name":     name,
		"username": username,
		"password": password,
		"url":      urlValue,
		"extra":    notes,
		"grouping": group,
	}, customFields)
	if err != nil {
		return "", err
	}
	if isApp {
		appname, err := encryptFieldValue(name, key)
		if err != nil {
			return "", err
		}
		fields.Set("appname", appname)
	}
	if share != nil {
		fields.Set("sharedfolderid", share.ID)
	}

	result, err := c.api.MutateAccount(ctx, api.MutateAccountParams{
		Creds:  creds,
		Method: "cr",
		Fields: fields,
	})
	if err != nil {
		return "", wrapNetwork("add", err)
	}

	if syncErr := c.Sync(ctx, true); syncErr != nil {
		return result.AccountID, syncErr
	}
	return result.AccountID, nil
}

func buildMutateFields(key []byte, standard map[string]string, custom map[string]string) (url.Values, error) {
	out := url.Values{}
	for name, value := range standard {
		enc, err := encryptFieldValue(value, key)
		if err != nil {
			return nil, err
		}
		out.Set(name, enc)
	}
	for name, value := range custom {
		encName, err := encryptFieldValue(name, key)
		if err != nil {
			return nil, err
		}
		encValue, err := encryptFieldValue(value, key)
		if err != nil {
			return nil, err
		}
		out.Set("customfield_"+encName, encValue)
	}
	return out, nil
}

// Update re-encrypts and sends only the fields set on upd, leaving
// everything else untouched server-side.
func (c *Client) Update(ctx context.Context, query string, upd AccountUpdate) (*Account, error) {
	account, err := c.Find(query)
	if err != nil {
		return nil, err
	}

	creds, err := c.credentials()
	if err != nil {
		return nil, err
	}

	key := c.keyFor(account.Share)
	standard := map[string]string{}
	if upd.Name != nil {
		standard["name"] = *upd.Name
	}
	if upd.Username != nil {
		standard["username"] = *upd.Username
	}
	if upd.Password != nil {
		standard["password"] = *upd.Password
	}
	if upd.URL != nil {
		standard["url"] = *upd.URL
	}
	if upd.Notes != nil {
		standard["extra"] = *upd.Notes
	}
	if upd.Group != nil {
		standard["grouping"] = *upd.Group
	}

	fields, err := buildMutateFields(key, standard, upd.Fields)
	if err != nil {
		return nil, err
	}
	if account.Share != nil {
		fields.Set("sharedfolderid", account.Share.ID)
	}

	if _, err := c.api.MutateAccount(ctx, api.MutateAccountParams{
		Creds:     creds,
		Method:    "save",
		AccountID: account.ID,
		Fields:    fields,
	}); err != nil {
		return nil, wrapNetwork("update", err)
	}

	if err := c.Sync(ctx, true); err != nil {
		return nil, err
	}
	return c.Find(account.ID)
}

// Delete removes the matched account and refreshes local state.
func (c *Client) Delete(ctx context.Context, query string) error {
	account, err := c.Find(query)
	if err != nil {
		return err
	}

	creds, err := c.credentials()
	if err != nil {
		return err
	}

	if err := c.api.DeleteAccount(ctx, creds, account.ID); err != nil {
		return wrapNetwork("delete", err)
	}

	return c.Sync(ctx, true)
}

// Duplicate creates a copy of the matched account under newName,
// defaulting to "Copy of <name>" when newName is empty (spec §4.7).
func (c *Client) Duplicate(ctx context.Context, query, newName string) (string, error) {
	account, err := c.Find(query)
	if err != nil {
		return "", err
	}

	if newName == "" {
		newName = fmt.Sprintf("Copy of %s", account.Name)
	}

	custom := make(map[string]string, len(account.Fields))
	for _, f := range account.Fields {
		custom[f.Name] = f.Value
	}

	return c.addScoped(ctx, newName, account.Username, account.Password, account.URL, account.Notes, account.Group, custom, account.IsApp, account.Share)
}

// Move relocates an account to newGroup; equivalent to
// Update(query, AccountUpdate{Group: &newGroup}) per spec §4.7.
func (c *Client) Move(ctx context.Context, query, newGroup string) (*Account, error) {
	return c.Update(ctx, query, AccountUpdate{Group: &newGroup})
}

// ChangePassword is deliberately incomplete: per SPEC_FULL.md §9's
// resolved Open Question, this endpoint does not re-encrypt every
// share's sharekey under the user's RSA keypair, so it returns
// ErrPasswordChangeIncomplete instead of silently corrupting share
// access.
func (c *Client) ChangePassword(ctx context.Context, newPassword string) error {
	return ErrPasswordChangeIncomplete
}
