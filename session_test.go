package vault

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testVaultKey(t *testing.T) *VaultKey {
	t.Helper()
	var key VaultKey
	copy(key[:], []byte("0123456789abcdef0123456789abcdef"))
	return &key
}

func TestSessionStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewSessionStore(t.TempDir())
	key := testVaultKey(t)

	sess := &Session{UID: "u1", SessionID: "s1", Token: "t1", Server: "lastpass.com"}
	require.NoError(t, store.Save(sess, 100100, "alice", key, false))

	loaded, iterations, username, ok := store.Load(key)
	require.True(t, ok)
	require.Equal(t, sess.UID, loaded.UID)
	require.Equal(t, sess.SessionID, loaded.SessionID)
	require.Equal(t, sess.Token, loaded.Token)
	require.Equal(t, 100100, iterations)
	require.Equal(t, "alice", username)
}

func TestSessionStore_LoadFailsWithWrongKey(t *testing.T) {
	store := NewSessionStore(t.TempDir())
	key := testVaultKey(t)
	require.NoError(t, store.Save(&Session{UID: "u1", SessionID: "s1", Token: "t1"}, 1, "alice", key, false))

	var wrongKey VaultKey
	copy(wrongKey[:], []byte("ffffffffffffffffffffffffffffffff"))

	_, _, _, ok := store.Load(&wrongKey)
	require.False(t, ok)
}

func TestSessionStore_VerifyKey(t *testing.T) {
	store := NewSessionStore(t.TempDir())
	key := testVaultKey(t)
	require.NoError(t, store.Save(&Session{UID: "u1", SessionID: "s1", Token: "t1"}, 1, "alice", key, false))

	require.True(t, store.VerifyKey(key))

	var other VaultKey
	require.False(t, store.VerifyKey(&other))
}

func TestSessionStore_PlaintextKeyOptIn(t *testing.T) {
	store := NewSessionStore(t.TempDir())
	key := testVaultKey(t)
	require.NoError(t, store.Save(&Session{UID: "u1", SessionID: "s1", Token: "t1"}, 1, "alice", key, true))

	loaded, ok := store.LoadPlaintextKey()
	require.True(t, ok)
	require.Equal(t, key.Bytes(), loaded.Bytes())
}

func TestSessionStore_PlaintextKeyNotWrittenByDefault(t *testing.T) {
	store := NewSessionStore(t.TempDir())
	key := testVaultKey(t)
	require.NoError(t, store.Save(&Session{UID: "u1", SessionID: "s1", Token: "t1"}, 1, "alice", key, false))

	_, ok := store.LoadPlaintextKey()
	require.False(t, ok)
}

func TestSessionStore_Clear(t *testing.T) {
	store := NewSessionStore(t.TempDir())
	key := testVaultKey(t)
	require.NoError(t, store.Save(&Session{UID: "u1", SessionID: "s1", Token: "t1"}, 1, "alice", key, true))

	require.NoError(t, store.Clear())

	_, _, _, ok := store.Load(key)
	require.False(t, ok)
	_, ok = store.LoadPlaintextKey()
	require.False(t, ok)
}

func TestSession_IsValid(t *testing.T) {
	require.False(t, (&Session{}).IsValid())
	require.False(t, (*Session)(nil).IsValid())
	require.True(t, (&Session{UID: "u", SessionID: "s", Token: "t"}).IsValid())
}
