package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasher_CostBounds(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(bcrypt.MinCost).Cost())
}

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, pw := range []string{"secret1", "P@ssw0rd123!", "", "пароль", strings.Repeat("a", 72)} {
		first, err := h.Hash(pw)
		require.NoError(t, err)
		second, err := h.Hash(pw)
		require.NoError(t, err)

		assert.NotEqual(t, first, second, "salted hashes must differ")
		assert.NotContains(t, first, pw+"$")
		assert.True(t, h.Verify(pw, first))
		assert.True(t, h.Verify(pw, second))
	}
}

func TestBcryptHasher_VerifyMismatch(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.False(t, h.Verify("secret2", hash))
	assert.False(t, h.Verify("Secret1", hash))
}

func TestBcryptHasher_VerifyAcrossCosts(t *testing.T) {
	hash, err := NewBcryptHasher(bcrypt.MinCost).Hash("secret1")
	require.NoError(t, err)
	assert.True(t, NewBcryptHasher(bcrypt.MinCost+1).Verify("secret1", hash))
}

func TestBcryptHasher_MalformedHashIsMismatch(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	for _, bad := range []string{
		"",
		"not-a-hash",
		"$2a$",
		"$2a$99$abcdefghijklmnopqrstuu",
		"$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"5f4dcc3b5aa765d61d8327deb882cf99",
	} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("password", bad))
		})
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}
