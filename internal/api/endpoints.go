package api

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// GetIterations fetches the PBKDF2 iteration count for username.
// Per spec §4.6 step 1, a count below 2 is rejected except for the
// documented legacy iterations==1 account class, which the caller
// (not this transport) decides how to handle.
func (c *Client) GetIterations(ctx context.Context, username string) (int, error) {
	body, err := c.PostForm(ctx, "iterations.php", url.Values{"email": {username}})
	if err != nil {
		return 0, err
	}

	iterations, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return 0, fmt.Errorf("iterations.php: unparseable response %q", body)
	}
	return iterations, nil
}

// LoginParams carries the login.php request fields.
type LoginParams struct {
	Username   string
	LoginHash  string // hex-encoded
	Iterations int
	OTP        string // optional one-time passcode
	Trust      bool   // optional "remember this device"
}

// LoginResponse is the parsed <ok> element of login.php's XML
// response. PrivateKeyEnc, when present, is the hex-encoded,
// AES-encrypted PEM private key the caller must decrypt with the
// vault key (spec §4.6 step 5).
type LoginResponse struct {
	UID           string
	SessionID     string
	Token         string
	PrivateKeyEnc string
	Iterations    int
}

type loginXMLOK struct {
	XMLName       xml.Name `xml:"ok"`
	UID           string   `xml:"uid,attr"`
	SessionID     string   `xml:"sessionid,attr"`
	Token         string   `xml:"token,attr"`
	PrivateKeyEnc string   `xml:"privatekeyenc,attr"`
	Iterations    int      `xml:"iterations,attr"`
}

type loginXMLError struct {
	XMLName xml.Name `xml:"error"`
	Message string   `xml:"message,attr"`
	Cause   string   `xml:"cause,attr"`
}

type loginXMLResponse struct {
	XMLName xml.Name       `xml:"response"`
	OK      *loginXMLOK    `xml:"ok"`
	Error   *loginXMLError `xml:"error"`
}

// LoginError reports a login.php rejection (bad password, unknown
// user, wrong one-time passcode). It is not recoverable locally.
type LoginError struct {
	Cause   string
	Message string
}

func (e *LoginError) Error() string {
	if e.Message != "" {
		return "login rejected: " + e.Message
	}
	return "login rejected: " + e.Cause
}

// Login authenticates with the vault server and parses its XML
// response.
func (c *Client) Login(ctx context.Context, p LoginParams) (*LoginResponse, error) {
	params := url.Values{
		"method":     {"cli"},
		"xml":        {"2"},
		"username":   {p.Username},
		"hash":       {p.LoginHash},
		"iterations": {strconv.Itoa(p.Iterations)},
	}
	if p.OTP != "" {
		params.Set("otp", p.OTP)
	}
	if p.Trust {
		params.Set("trust", "1")
	}

	body, err := c.PostForm(ctx, "login.php", params)
	if err != nil {
		return nil, err
	}

	var parsed loginXMLResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("login.php: unparseable XML response: %w", err)
	}

	if parsed.Error != nil {
		return nil, &LoginError{Cause: parsed.Error.Cause, Message: parsed.Error.Message}
	}
	if parsed.OK == nil {
		return nil, &LoginError{Message: "missing <ok> element in response"}
	}

	return &LoginResponse{
		UID:           parsed.OK.UID,
		SessionID:     parsed.OK.SessionID,
		Token:         parsed.OK.Token,
		PrivateKeyEnc: parsed.OK.PrivateKeyEnc,
		Iterations:    parsed.OK.Iterations,
	}, nil
}

// SessionCredentials are the token/sessionid pair attached to every
// authenticated call after login, per spec §6.
type SessionCredentials struct {
	Token     string
	SessionID string
}

func (sc SessionCredentials) apply(params url.Values) {
	params.Set("token", sc.Token)
	params.Set("sessionid", sc.SessionID)
}

// Logout ends the session server-side. Callers decide whether a
// failure here should block clearing local state (spec §4.6 "best
// effort... unconditional clear when force=true").
func (c *Client) Logout(ctx context.Context, creds SessionCredentials) error {
	params := url.Values{}
	creds.apply(params)
	_, err := c.PostForm(ctx, "logout.php", params)
	return err
}

// GetAccounts downloads the raw vault blob.
func (c *Client) GetAccounts(ctx context.Context, creds SessionCredentials, pluginVersion string) ([]byte, error) {
	params := url.Values{
		"mobile":     {"1"},
		"requestsrc": {"cli"},
		"hasplugin":  {pluginVersion},
	}
	creds.apply(params)
	return c.PostForm(ctx, "getaccts.php", params)
}

// MutateAccountParams carries show_website.php's request fields for
// both account creation ("cr") and update ("save").
type MutateAccountParams struct {
	Creds     SessionCredentials
	Method    string // "cr" or "save"
	AccountID string
	Fields    url.Values // pre-encrypted field values, merged into the request
}

// MutateAccountResult is show_website.php's minimal ack: the
// server-assigned account id.
type MutateAccountResult struct {
	AccountID string
}

// MutateAccount creates or updates one account.
func (c *Client) MutateAccount(ctx context.Context, p MutateAccountParams) (*MutateAccountResult, error) {
	params := url.Values{
		"extjs":  {"1"},
		"method": {p.Method},
	}
	if p.AccountID != "" {
		params.Set("aid", p.AccountID)
	}
	p.Creds.apply(params)
	for k, vs := range p.Fields {
		for _, v := range vs {
			params.Add(k, v)
		}
	}

	body, err := c.PostForm(ctx, "show_website.php", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		XMLName xml.Name `xml:"xmlresponse"`
		Result  struct {
			AID string `xml:"aid,attr"`
		} `xml:"result"`
	}
	if err := xml.Unmarshal(body, &resp); err != nil {
		// Some deployments answer a bare account id with no XML
		// envelope; tolerate that rather than failing the mutation.
		return &MutateAccountResult{AccountID: strings.TrimSpace(string(body))}, nil
	}

	return &MutateAccountResult{AccountID: resp.Result.AID}, nil
}

// DeleteAccount removes an account by id.
func (c *Client) DeleteAccount(ctx context.Context, creds SessionCredentials, accountID string) error {
	params := url.Values{
		"extjs":  {"1"},
		"method": {"delete"},
		"aid":    {accountID},
	}
	creds.apply(params)
	_, err := c.PostForm(ctx, "show_website.php", params)
	return err
}

// GetAttachment fetches one attachment's raw (still-encrypted) bytes.
func (c *Client) GetAttachment(ctx context.Context, creds SessionCredentials, storageKey, shareID string) ([]byte, error) {
	params := url.Values{"getattach": {storageKey}}
	if shareID != "" {
		params.Set("shareid", shareID)
	}
	creds.apply(params)
	return c.PostForm(ctx, "getattach.php", params)
}

// ShareRequest carries share.php's request fields; the exact
// parameter set depends on which of Update/Delete/GetInfo is set, per
// spec §6.
type ShareRequest struct {
	Creds    SessionCredentials
	ShareID  string
	Update   bool
	Delete   bool
	GetInfo  bool
	Fields   url.Values
}

// Share issues a share.php call and returns the raw response body for
// the caller to parse (its shape varies by request variant).
func (c *Client) Share(ctx context.Context, req ShareRequest) ([]byte, error) {
	params := url.Values{}
	if req.ShareID != "" {
		params.Set("id", req.ShareID)
	}
	if req.Update {
		params.Set("update", "1")
	}
	if req.Delete {
		params.Set("delete", "1")
	}
	if req.GetInfo {
		params.Set("getinfo", "1")
	}
	req.Creds.apply(params)
	for k, vs := range req.Fields {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	return c.PostForm(ctx, "share.php", params)
}

// ChangePasswordResult reports what the server returned from a
// password-change attempt.
type ChangePasswordResult struct {
	OK bool
}

// ChangePassword implements the documented stub behavior: POST the
// new credentials and check for the literal "pwchangeok" response.
//
// Per the resolved Open Question in SPEC_FULL.md §9, this endpoint
// deliberately does NOT re-encrypt every share's sharekey under the
// user's new RSA keypair; a full implementation would need to
// do that before this is safe to expose to end users. Callers should
// treat a true result as "server accepted the new login hash", not
// "share access was fully migrated".
func (c *Client) ChangePassword(ctx context.Context, creds SessionCredentials, newLoginHash string, iterations int) (*ChangePasswordResult, error) {
	params := url.Values{
		"newhash":    {newLoginHash},
		"iterations": {strconv.Itoa(iterations)},
	}
	creds.apply(params)

	body, err := c.PostForm(ctx, "login.php", params)
	if err != nil {
		return nil, err
	}

	return &ChangePasswordResult{OK: strings.TrimSpace(string(body)) == "pwchangeok"}, nil
}
