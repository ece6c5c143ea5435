package vault

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindShare_ExactIDShortCircuits(t *testing.T) {
	c := &Client{shares: []*Share{
		{ID: "1", Name: "work"},
		{ID: "2", Name: "work-backup"},
	}}

	s, err := c.FindShare("1")
	require.NoError(t, err)
	require.Equal(t, "work", s.Name)
}

func TestFindShare_UniqueSubstringMatch(t *testing.T) {
	c := &Client{shares: []*Share{
		{ID: "1", Name: "work"},
		{ID: "2", Name: "personal"},
	}}

	s, err := c.FindShare("per")
	require.NoError(t, err)
	require.Equal(t, "personal", s.Name)
}

func TestFindShare_NoMatch(t *testing.T) {
	c := &Client{shares: []*Share{{ID: "1", Name: "work"}}}
	_, err := c.FindShare("nope")
	require.Error(t, err)
}

func TestFindShare_AmbiguousMatch(t *testing.T) {
	c := &Client{shares: []*Share{
		{ID: "1", Name: "work-a"},
		{ID: "2", Name: "work-b"},
	}}
	_, err := c.FindShare("work")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Len(t, notFound.Matches, 2)
}

func TestBoolParam(t *testing.T) {
	require.Equal(t, "1", boolParam(true))
	require.Equal(t, "0", boolParam(false))
}

func TestParseShareUsers_ParsesAttributes(t *testing.T) {
	body := []byte(`<users>
		<user username="alice@example.com" uid="1" realname="Alice" readonly="1" admin="0" hide_passwords="0" accepted="1"/>
		<user username="bob@example.com" uid="2" realname="Bob" readonly="0" admin="1" hide_passwords="1" accepted="0"/>
	</users>`)

	users, err := parseShareUsers(body)
	require.NoError(t, err)
	require.Len(t, users, 2)

	require.Equal(t, "alice@example.com", users[0].Username)
	require.True(t, users[0].ReadOnly)
	require.False(t, users[0].Admin)
	require.True(t, users[0].Accepted)

	require.Equal(t, "bob@example.com", users[1].Username)
	require.True(t, users[1].Admin)
	require.True(t, users[1].HidePasswords)
	require.False(t, users[1].Accepted)
}

func TestParseShareUsers_UnparseableBodyReturnsEmpty(t *testing.T) {
	users, err := parseShareUsers([]byte("not xml at all <<<"))
	require.NoError(t, err)
	require.Nil(t, users)
}
