package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKeys_Deterministic(t *testing.T) {
	login1, key1 := DeriveKeys("user@example.com", "password123", 5000)
	login2, key2 := DeriveKeys("user@example.com", "password123", 5000)

	require.Equal(t, login1, login2)
	require.Equal(t, key1, key2)
	require.Len(t, key1, AESKeySize)
	require.Len(t, login1, AESKeySize*2) // hex-encoded
}

func TestDeriveKeys_DifferentInputsDifferentOutputs(t *testing.T) {
	_, keyA := DeriveKeys("alice@example.com", "password123", 5000)
	_, keyB := DeriveKeys("bob@example.com", "password123", 5000)
	require.NotEqual(t, keyA, keyB)

	_, keyC := DeriveKeys("alice@example.com", "password123", 5000)
	_, keyD := DeriveKeys("alice@example.com", "password123", 10000)
	require.NotEqual(t, keyC, keyD)
}

func TestDeriveKeys_LegacySinglePass(t *testing.T) {
	login, key := DeriveKeys("user@example.com", "password123", 1)
	require.Len(t, key, AESKeySize)
	require.NotEmpty(t, login)

	// The legacy path must be stable across iteration values <= 1.
	login0, key0 := DeriveKeys("user@example.com", "password123", 0)
	require.Equal(t, login, login0)
	require.Equal(t, key, key0)
}

// TestDeriveKeys_Fixture pins the exact S1 scenario from spec.md §8:
// username "user@example.com", password "password123", iterations
// 5000. Expected bytes were computed independently with Python's
// hashlib.pbkdf2_hmac against the two-step derivation spec §4.2
// describes (decryption_key = PBKDF2(password, username, iterations),
// login_key = PBKDF2(decryption_key, password, 1)) and must stay byte
// identical across runs and platforms.
func TestDeriveKeys_Fixture(t *testing.T) {
	const wantDecryptionKeyHex = "4006294fd6b353daa0684f9dffc62069ae8782e5ae5e8ffbd95e9f4c0733f508"
	const wantLoginHashHex = "4fb1aef504af93468b6e37a190be1786eff54ac2914ba5376aeece4462fee00c"

	loginHash, decryptionKey := DeriveKeys("user@example.com", "password123", 5000)

	require.Equal(t, wantDecryptionKeyHex, hex.EncodeToString(decryptionKey))
	require.Equal(t, wantLoginHashHex, loginHash)
}

// TestDeriveKeys_LegacyFixture pins the iterations==1 branch, whose
// login hash is SHA-256(hex(decryption_key) || password) per spec
// §4.2 — the hex *string* of the decryption key, not its raw bytes.
func TestDeriveKeys_LegacyFixture(t *testing.T) {
	const wantDecryptionKeyHex = "1869a65c576bf844f00b2ef88aa352ffd2d5b348a383720772c0c416470fc74e"
	const wantLoginHashHex = "eab145d2bf029a6c87a0fdfb097e6a175db91546d0627c37df0ce47286c9ea36"

	loginHash, decryptionKey := DeriveKeys("user@example.com", "password123", 1)

	require.Equal(t, wantDecryptionKeyHex, hex.EncodeToString(decryptionKey))
	require.Equal(t, wantLoginHashHex, loginHash)
}

func TestSHA256Hex(t *testing.T) {
	require.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		SHA256Hex([]byte("hello")),
	)
}
