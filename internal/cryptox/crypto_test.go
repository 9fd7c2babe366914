package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	assert.Equal(t, key1, key2)
	assert.Len(t, key1, 32)
	assert.Equal(t, "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39", hex.EncodeToString(key1))
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")
	assert.NotEqual(t, DeriveKey(password, []byte("salt-1")), DeriveKey(password, []byte("salt-2")))
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, salt := HashPassword("hunter2")
	require.Len(t, salt, SaltSize)
	require.Len(t, hash, 32)

	assert.True(t, VerifyPassword("hunter2", hash, salt))
	assert.False(t, VerifyPassword("hunter3", hash, salt))

	hash2, salt2 := HashPassword("hunter2")
	assert.NotEqual(t, salt, salt2)
	assert.NotEqual(t, hash, hash2)
}
