package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// DeriveKeys computes the vault decryption key and the hex-encoded login
// hash sent to the login endpoint, from a username/password pair and the
// server-supplied PBKDF2 iteration count.
//
// For iterations > 1 this is PBKDF2-HMAC-SHA256(password, username,
// iterations, 32) for the decryption key, and a second single-round
// PBKDF2-HMAC-SHA256(decryptionKey, password, 1, 32) for the login hash —
// decryptionKey is the KDF's password argument and password is its salt,
// not the other way around. For the legacy iterations == 1 case both keys
// collapse to plain SHA-256 rounds, matching accounts created before
// iterated hashing existed.
func DeriveKeys(username, password string, iterations int) (loginHash string, decryptionKey []byte) {
	if iterations <= KDFLegacyIterations {
		key := sha256.Sum256([]byte(username + password))
		login := sha256.Sum256(append([]byte(hex.EncodeToString(key[:])), password...))
		return hex.EncodeToString(login[:]), key[:]
	}

	key := pbkdf2.Key([]byte(password), []byte(username), iterations, AESKeySize, sha256.New)
	login := pbkdf2.Key(key, []byte(password), 1, AESKeySize, sha256.New)
	return hex.EncodeToString(login), key
}

// SHA256Hex returns the hex-encoded SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
