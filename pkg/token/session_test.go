package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCodec_RoundTrip(t *testing.T) {
	codec := NewSessionCodec([]byte("test-signing-secret"), time.Hour)

	tokenString, err := codec.Mint(42)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	userID, err := codec.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestSessionCodec_Expired(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
	}{
		{name: "zero ttl", ttl: 0},
		{name: "already expired", ttl: -time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := NewSessionCodec([]byte("test-signing-secret"), tt.ttl)

			tokenString, err := codec.Mint(7)
			require.NoError(t, err)

			_, err = codec.Validate(tokenString)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestSessionCodec_WrongKey(t *testing.T) {
	minter := NewSessionCodec([]byte("key-one"), time.Hour)
	verifier := NewSessionCodec([]byte("key-two"), time.Hour)

	tokenString, err := minter.Mint(7)
	require.NoError(t, err)

	_, err = verifier.Validate(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionCodec_Malformed(t *testing.T) {
	codec := NewSessionCodec([]byte("test-signing-secret"), time.Hour)

	for _, tokenString := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9"} {
		_, err := codec.Validate(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tokenString)
	}
}
