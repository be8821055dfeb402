package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cheapParams() PasswordParams {
	return PasswordParams{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestArgon2Hasher_RoundTrip(t *testing.T) {
	h, err := NewArgon2Hasher(cheapParams())
	require.NoError(t, err)

	encoded, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))

	assert.True(t, h.Verify("correct horse", encoded))
	assert.False(t, h.Verify("correct horsE", encoded))
	assert.False(t, h.Verify("", encoded))
}

func TestArgon2Hasher_SaltedHashesDiffer(t *testing.T) {
	h, err := NewArgon2Hasher(cheapParams())
	require.NoError(t, err)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("same", a))
	assert.True(t, h.Verify("same", b))
}

func TestArgon2Hasher_VerifyUsesStoredParams(t *testing.T) {
	weak, err := NewArgon2Hasher(cheapParams())
	require.NoError(t, err)
	encoded, err := weak.Hash("pw")
	require.NoError(t, err)

	p := cheapParams()
	p.Time = 2
	p.Memory = 2048
	stronger, err := NewArgon2Hasher(p)
	require.NoError(t, err)

	assert.True(t, stronger.Verify("pw", encoded))
}

func TestArgon2Hasher_MalformedHashIsMismatch(t *testing.T) {
	h, err := NewArgon2Hasher(cheapParams())
	require.NoError(t, err)

	cases := []string{
		"",
		"plaintext",
		"$2a$10$abcdefghijklmnopqrstuu",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		"$argon2id$v=16$m=1024,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		"$argon2id$v=19$m=1024,t=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaGhhc2g",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$",
	}
	for _, c := range cases {
		assert.False(t, h.Verify("pw", c), c)
	}
}

func TestArgon2Hasher_AcceptsPaddedBase64(t *testing.T) {
	h, err := NewArgon2Hasher(cheapParams())
	require.NoError(t, err)
	encoded, err := h.Hash("pw")
	require.NoError(t, err)

	parts := strings.Split(encoded, "$")
	for _, i := range []int{4, 5} {
		for len(parts[i])%4 != 0 {
			parts[i] += "="
		}
	}
	assert.True(t, h.Verify("pw", strings.Join(parts, "$")))
}

func TestNewArgon2Hasher_RejectsZeroParams(t *testing.T) {
	_, err := NewArgon2Hasher(PasswordParams{})
	require.Error(t, err)
}
