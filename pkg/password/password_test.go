package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	h := NewHasher(8)

	hash, err := h.Hash("NewPass1!")
	require.NoError(t, err)

	assert.True(t, h.Verify("NewPass1!", hash))
	assert.False(t, h.Verify("OtherPass1!", hash))
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewHasher(8)

	assert.False(t, h.Verify("NewPass1!", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("NewPass1!", ""))
}

func TestIsValid(t *testing.T) {
	h := NewHasher(8)

	cases := []struct {
		name  string
		plain string
		want  bool
	}{
		{"ok", "NewPass1!", true},
		{"too short", "Np1!", false},
		{"no upper", "newpass1!", false},
		{"no lower", "NEWPASS1!", false},
		{"no digit", "NewPassword!", false},
		{"no special", "NewPassword1", false},
		{"space is not special", "NewPass1 word", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, h.IsValid(tc.plain))
		})
	}
}

func TestRandomSatisfiesPolicy(t *testing.T) {
	h := NewHasher(10)

	for i := 0; i < 20; i++ {
		plain, err := h.Random()
		require.NoError(t, err)
		assert.True(t, h.IsValid(plain), "generated password %q must satisfy policy", plain)
	}
}
