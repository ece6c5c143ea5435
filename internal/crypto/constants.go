package crypto

const (
	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32

	// AESBlockSize is the AES block size in bytes, used both as the CBC
	// IV length and the PKCS#7 padding unit.
	AESBlockSize = 16

	// CBCPrefix is the leading byte that marks a ciphertext as using the
	// "!iv|ciphertext" textual envelope rather than the legacy raw-ECB
	// format. It is itself the ASCII '!' character.
	CBCPrefix = '!'

	// CBCSeparator separates the base64-encoded IV from the
	// base64-encoded ciphertext inside the "!iv|ciphertext" envelope.
	CBCSeparator = '|'

	// KDFLegacyIterations is the iteration count at or below which the key
	// derivation falls back to the legacy single-round SHA-256 scheme
	// instead of PBKDF2.
	KDFLegacyIterations = 1
)
