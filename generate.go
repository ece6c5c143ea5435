package vault

import (
	"crypto/rand"
	"math/big"
)

const (
	generatorAlphaNumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	generatorSymbols      = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// GeneratePassword returns a cryptographically random password of
// length characters, drawn from letters+digits (plus symbols unless
// noSymbols is set). Supplemented from original_source/client.py's
// generate_password, reimplemented on crypto/rand rather than
// Python's secrets module.
func GeneratePassword(length int, noSymbols bool) (string, error) {
	if length <= 0 {
		length = 16
	}

	alphabet := generatorAlphaNumeric
	if !noSymbols {
		alphabet += generatorSymbols
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
