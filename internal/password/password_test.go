package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := New(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret1", hash, "hash must never equal the plaintext")

	assert.True(t, h.Verify("secret1", hash))
	assert.False(t, h.Verify("wrongpass", hash))
}

func TestHasher_SaltedPerCall(t *testing.T) {
	h := New(bcrypt.MinCost)

	first, err := h.Hash("secret1")
	assert.NoError(t, err)
	second, err := h.Hash("secret1")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second, "per-call salt must produce distinct hashes")
	assert.True(t, h.Verify("secret1", first))
	assert.True(t, h.Verify("secret1", second))
}

func TestNew_CostOutOfRange(t *testing.T) {
	h := New(100)
	assert.Equal(t, DefaultCost, h.cost)

	h = New(-1)
	assert.Equal(t, DefaultCost, h.cost)
}

func TestHasher_VerifyGarbageHash(t *testing.T) {
	h := New(bcrypt.MinCost)
	assert.False(t, h.Verify("secret1", "not-a-bcrypt-hash"))
}
