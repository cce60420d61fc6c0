package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pasture-gate-42")
	require.NoError(t, err)
	require.NotEqual(t, "pasture-gate-42", hash)

	require.True(t, VerifyPassword(hash, "pasture-gate-42"))
	require.False(t, VerifyPassword(hash, "wrong-password"))
}

func TestVerifyPasswordRejectsGarbageHash(t *testing.T) {
	require.False(t, VerifyPassword("not-a-bcrypt-hash", "anything"))
}
