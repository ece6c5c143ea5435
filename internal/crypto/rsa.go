package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
)

// DecodePrivateKeyHex decrypts the hex-encoded, AES-encrypted PKCS#1
// private key the server stores alongside a share-enabled account,
// using the vault decryption key, and parses the resulting PEM block.
//
// The server stores the key hex-encoded rather than base64-encoded
// because it predates the rest of the blob's base64 conventions.
func DecodePrivateKeyHex(keyHex string, decryptionKey []byte) (*rsa.PrivateKey, error) {
	encrypted, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decode private key hex: %w", err)
	}

	pemBytes, err := DecryptBytes(encrypted, decryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decrypt private key: %w", err)
	}

	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, newDecryptionError("no PEM block in decrypted private key")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse RSA private key: %w", err)
	}

	return key, nil
}

// ParsePrivateKeyPEM parses an already-decrypted PEM-encoded PKCS#1
// RSA private key, as held in Session.PrivateKeyPEM after login's
// one-time hex-decode-then-AES-decrypt step.
func ParsePrivateKeyPEM(pemStr string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, newDecryptionError("no PEM block in private key")
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse RSA private key: %w", err)
	}
	return key, nil
}

// ParsePublicKeyPEM parses a PEM-encoded PKIX RSA public key, as
// exchanged out-of-band when inviting a user to a share.
func ParsePublicKeyPEM(pemStr string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, newDecryptionError("no PEM block in public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse RSA public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not RSA")
	}
	return rsaPub, nil
}

// UnwrapShareKey decrypts an RSA-OAEP/SHA-1 wrapped share key using the
// share recipient's private key, returning the raw AES-256 key used to
// decrypt accounts inside that shared folder.
func UnwrapShareKey(wrapped []byte, priv *rsa.PrivateKey) ([]byte, error) {
	key, err := rsa.DecryptOAEP(sha1.New(), rand.Reader, priv, wrapped, nil)
	if err != nil {
		return nil, newDecryptionError("RSA-OAEP unwrap failed")
	}
	return key, nil
}

// WrapShareKey RSA-OAEP/SHA-1 encrypts a share's AES key under a
// recipient's public key, for use when granting share access.
func WrapShareKey(key []byte, pub *rsa.PublicKey) ([]byte, error) {
	wrapped, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, pub, key, nil)
	if err != nil {
		return nil, fmt.Errorf("RSA-OAEP wrap: %w", err)
	}
	return wrapped, nil
}
