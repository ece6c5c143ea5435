package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestWrapShareKey_UnwrapShareKey_RoundTrip(t *testing.T) {
	priv := generateTestKey(t)
	shareKey := make([]byte, AESKeySize)
	_, err := rand.Read(shareKey)
	require.NoError(t, err)

	wrapped, err := WrapShareKey(shareKey, &priv.PublicKey)
	require.NoError(t, err)

	unwrapped, err := UnwrapShareKey(wrapped, priv)
	require.NoError(t, err)
	require.Equal(t, shareKey, unwrapped)
}

func TestDecodePrivateKeyHex_RoundTrip(t *testing.T) {
	priv := generateTestKey(t)
	derBytes := x509.MarshalPKCS1PrivateKey(priv)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: derBytes})

	decryptionKey := make([]byte, AESKeySize)
	_, err := rand.Read(decryptionKey)
	require.NoError(t, err)

	encrypted, err := EncryptBytes(pemBytes, decryptionKey)
	require.NoError(t, err)

	parsed, err := DecodePrivateKeyHex(hex.EncodeToString(encrypted), decryptionKey)
	require.NoError(t, err)
	require.Equal(t, priv.D, parsed.D)
}

func TestDecodePrivateKeyHex_InvalidHex(t *testing.T) {
	_, err := DecodePrivateKeyHex("not-hex!!", make([]byte, AESKeySize))
	require.Error(t, err)
}

func TestParsePrivateKeyPEM_RoundTrip(t *testing.T) {
	priv := generateTestKey(t)
	derBytes := x509.MarshalPKCS1PrivateKey(priv)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: derBytes})

	parsed, err := ParsePrivateKeyPEM(string(pemBytes))
	require.NoError(t, err)
	require.Equal(t, priv.D, parsed.D)
}

func TestParsePrivateKeyPEM_NoPEMBlock(t *testing.T) {
	_, err := ParsePrivateKeyPEM("not a pem block")
	require.Error(t, err)
}

func TestParsePublicKeyPEM_RoundTrip(t *testing.T) {
	priv := generateTestKey(t)
	derBytes, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: derBytes})

	parsed, err := ParsePublicKeyPEM(string(pemBytes))
	require.NoError(t, err)
	require.Equal(t, priv.PublicKey.N, parsed.N)
}

func TestParsePublicKeyPEM_NoPEMBlock(t *testing.T) {
	_, err := ParsePublicKeyPEM("not a pem block")
	require.Error(t, err)
}

func TestParsePublicKeyPEM_WrongKeyType(t *testing.T) {
	// An ed25519-shaped PKIX block would fail the RSA type assertion;
	// simplest non-RSA negative case here is a private key's DER under
	// a public-key PEM type, which PKIX parsing itself rejects.
	priv := generateTestKey(t)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	_, err := ParsePublicKeyPEM(string(pemBytes))
	require.Error(t, err)
}
