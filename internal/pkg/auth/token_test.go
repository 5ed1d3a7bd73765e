package auth

import (
	"context"
	"testing"
	"time"

	"loan-ledger/internal/pkg/apperrors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	token, err := issuer.Issue(7, "admin")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestIssuer_UniqueTokenIDs(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	a, err := issuer.Issue(1, "user")
	require.NoError(t, err)
	b, err := issuer.Issue(1, "user")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIssuer_Rejects(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	valid, err := issuer.Issue(1, "user")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		expired := NewIssuer("secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := expired.Issue(1, "user")
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewIssuer("other", time.Hour).Parse(valid)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
			UserID:           1,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		})
		signed, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = issuer.Parse(signed)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTokenTTL, NewIssuer("s", 0).TTL())
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &Claims{UserID: 3, Role: "user"})
	claims, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), claims.UserID)
}
