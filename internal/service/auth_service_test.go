package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Parallel()
	svc := NewAuthService()

	t.Run("issues a token that validates back to the nickname", func(t *testing.T) {
		t.Parallel()
		resp, err := svc.Login("ana")
		require.NoError(t, err)
		assert.Equal(t, "ana", resp.Nickname)
		require.NotEmpty(t, resp.Token)

		claims, err := svc.ValidatePlayerToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "ana", claims.Nickname)
		assert.NotEmpty(t, claims.SessionID)
	})

	t.Run("empty nickname is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Login("")
		assert.ErrorIs(t, err, ErrInvalidNickname)
	})

	t.Run("overlong nickname is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Login(strings.Repeat("x", maxNicknameLen+1))
		assert.ErrorIs(t, err, ErrInvalidNickname)
	})

	t.Run("nickname at the limit is accepted", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Login(strings.Repeat("x", maxNicknameLen))
		assert.NoError(t, err)
	})
}

func TestValidatePlayerToken(t *testing.T) {
	t.Parallel()
	svc := NewAuthService()

	t.Run("garbage token is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.ValidatePlayerToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		t.Parallel()
		other := &AuthService{jwtSecret: []byte("someone-else")}
		resp, err := other.Login("ana")
		require.NoError(t, err)

		_, err = svc.ValidatePlayerToken(resp.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
