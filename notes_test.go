package vault

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandNote_NotASecureNoteReturnsFalse(t *testing.T) {
	a := &Account{URL: "https://example.com", Notes: "NoteType:Generic\n"}
	_, ok := ExpandNote(a)
	require.False(t, ok)
}

func TestExpandNote_MissingNoteTypePrefixReturnsFalse(t *testing.T) {
	a := &Account{URL: secureNoteURL, Notes: "just some text"}
	_, ok := ExpandNote(a)
	require.False(t, ok)
}

func TestExpandNote_GenericTemplate(t *testing.T) {
	a := &Account{
		ID: "1", Name: "my note", URL: secureNoteURL,
		Notes: "NoteType:Generic\nNotes:line one\nline two",
	}

	expanded, ok := ExpandNote(a)
	require.True(t, ok)
	require.Equal(t, "line one\nline two", expanded.Notes)

	f := expanded.GetField("NoteType")
	require.NotNil(t, f)
	require.Equal(t, "Generic", f.Value)
}

func TestExpandNote_ServerTemplateFields(t *testing.T) {
	a := &Account{
		URL: secureNoteURL,
		Notes: "NoteType:Server\n" +
			"Hostname:db1.internal\n" +
			"Username:admin\n" +
			"Password:s3cr3t\n",
	}

	expanded, ok := ExpandNote(a)
	require.True(t, ok)
	require.Equal(t, "admin", expanded.Username)
	require.Equal(t, "s3cr3t", expanded.Password)

	hostField := expanded.GetField("Hostname")
	require.NotNil(t, hostField)
	require.Equal(t, "db1.internal", hostField.Value)
}

func TestExpandNote_MultilineFieldContinuation(t *testing.T) {
	a := &Account{
		URL: secureNoteURL,
		Notes: "NoteType:SSH Key\n" +
			"Private Key:-----BEGIN KEY-----\n" +
			"abc123\n" +
			"-----END KEY-----\n" +
			"Hostname:box.example\n",
	}

	expanded, ok := ExpandNote(a)
	require.True(t, ok)

	pk := expanded.GetField("Private Key")
	require.NotNil(t, pk)
	require.Contains(t, pk.Value, "abc123")
	require.Contains(t, pk.Value, "-----END KEY-----")

	host := expanded.GetField("Hostname")
	require.NotNil(t, host)
	require.Equal(t, "box.example", host.Value)
}

func TestCollapseNote_RoundTripsGeneric(t *testing.T) {
	a := &Account{
		ID: "1", Name: "my note", Username: "admin", Password: "s3cr3t",
		Fields: []Field{
			{Name: "NoteType", Value: "Generic"},
			{Name: "Custom", Value: "value"},
		},
		Notes: "extra info",
	}

	collapsed := CollapseNote(a)
	require.Equal(t, secureNoteURL, collapsed.URL)
	require.Contains(t, collapsed.Notes, "NoteType:Generic")
	require.Contains(t, collapsed.Notes, "Custom:value")
	require.Contains(t, collapsed.Notes, "Username:admin")
	require.Contains(t, collapsed.Notes, "Password:s3cr3t")
	require.Contains(t, collapsed.Notes, "Notes:extra info")
}

func TestCollapseNote_OmitsEmptyFields(t *testing.T) {
	a := &Account{Fields: []Field{{Name: "NoteType", Value: "Generic"}}}
	collapsed := CollapseNote(a)
	require.NotContains(t, collapsed.Notes, "Username:")
	require.NotContains(t, collapsed.Notes, "Password:")
	require.NotContains(t, collapsed.Notes, "Notes:")
}

func TestExpandCollapseNote_RoundTrip(t *testing.T) {
	original := &Account{
		ID: "1", Name: "db creds", URL: secureNoteURL,
		Notes: "NoteType:Server\nHostname:db1\nUsername:admin\nPassword:p4ss\n",
	}

	expanded, ok := ExpandNote(original)
	require.True(t, ok)

	collapsed := CollapseNote(expanded)
	require.Equal(t, "admin", expanded.Username)
	require.Equal(t, "p4ss", expanded.Password)
	require.Contains(t, collapsed.Notes, "Hostname:db1")
}
