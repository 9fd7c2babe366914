// Package cryptox hashes account passwords for the sync server.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/loveops/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 16
	keySize  = 32
)

// DeriveKey stretches password with argon2id. The same inputs always
// produce the same 32-byte key.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, keySize)
}

// HashPassword returns a fresh random salt and the derived hash.
func HashPassword(password string) (hash, salt []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return DeriveKey([]byte(password), salt), salt
}

// VerifyPassword reports whether password matches hash under salt.
func VerifyPassword(password string, hash, salt []byte) bool {
	got := DeriveKey([]byte(password), salt)
	defer common.WipeByteArray(got)
	return subtle.ConstantTimeCompare(got, hash) == 1
}
