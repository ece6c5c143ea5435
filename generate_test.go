package vault

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePassword_Length(t *testing.T) {
	pw, err := GeneratePassword(24, false)
	require.NoError(t, err)
	require.Len(t, pw, 24)
}

func TestGeneratePassword_DefaultsWhenNonPositive(t *testing.T) {
	for _, length := range []int{0, -5} {
		pw, err := GeneratePassword(length, false)
		require.NoError(t, err)
		require.Len(t, pw, 16)
	}
}

func TestGeneratePassword_NoSymbols(t *testing.T) {
	pw, err := GeneratePassword(200, true)
	require.NoError(t, err)
	require.False(t, strings.ContainsAny(pw, generatorSymbols))
}

func TestGeneratePassword_WithSymbolsEventuallyIncludesOne(t *testing.T) {
	// Not deterministic by construction, but 200 characters drawn from an
	// alphabet that's roughly a third symbols makes a zero-symbol result
	// astronomically unlikely; a flake here would indicate a broken RNG.
	pw, err := GeneratePassword(200, false)
	require.NoError(t, err)
	require.True(t, strings.ContainsAny(pw, generatorSymbols))
}
