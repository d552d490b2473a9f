package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIDIsStable(t *testing.T) {
	a := UserID("Fan@Example.com")
	b := UserID(" fan@example.com ")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, UserID("other@example.com"))
	assert.Len(t, a, 36)
}

func TestLocalProviderLifecycle(t *testing.T) {
	ctx := context.Background()
	p := NewLocalProvider(filepath.Join(t.TempDir(), "nested", "session.yaml"))
	p.now = func() time.Time { return time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC) }

	u, err := p.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	signed, err := p.SignIn(ctx, "Glitter@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "glitter@example.com", signed.Email)
	assert.Equal(t, UserID("glitter@example.com"), signed.ID)

	cur, err := p.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, signed, *cur)

	require.NoError(t, p.SignOut(ctx))
	require.NoError(t, p.SignOut(ctx))
	cur, err = p.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestSignInRejectsBadEmail(t *testing.T) {
	p := NewLocalProvider(filepath.Join(t.TempDir(), "session.yaml"))
	_, err := p.SignIn(context.Background(), "not-an-email")
	assert.True(t, errors.Is(err, ErrInvalidEmail))
}

func TestTokenRoundTrip(t *testing.T) {
	u := User{ID: UserID("a@b.co"), Email: "a@b.co"}
	tok, err := IssueToken("secret", u, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.ID, claims.Subject)

	_, err = ValidateToken("other", tok)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	claims := &Claims{
		UserID: "u",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ValidateToken("secret", tok)
	assert.Error(t, err)
}
