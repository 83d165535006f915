package auth

import (
	"errors"
	"testing"
	"time"

	"p2p-lending/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestTokens_IssueVerify(t *testing.T) {
	tk := NewTokens(secret, "p2p-lending", time.Hour)
	id := user.Identity{UserID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Role: user.RoleLender}

	tok, exp, err := tk.Issue(id)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, err := tk.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestTokens_Rejects(t *testing.T) {
	tk := NewTokens(secret, "p2p-lending", time.Hour)
	id := user.Identity{UserID: "u1", Role: user.RoleBorrower}

	other := NewTokens("another-secret-another-secret!!", "p2p-lending", time.Hour)
	forged, _, err := other.Issue(id)
	require.NoError(t, err)
	_, err = tk.Verify(forged)
	require.True(t, errors.Is(err, ErrInvalidToken))

	wrongIssuer := NewTokens(secret, "someone-else", time.Hour)
	tok, _, err := wrongIssuer.Issue(id)
	require.NoError(t, err)
	_, err = tk.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens(secret, "p2p-lending", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err = expired.Issue(id)
	require.NoError(t, err)
	_, err = tk.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = tk.Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RejectsUnknownRole(t *testing.T) {
	tk := NewTokens(secret, "p2p-lending", time.Hour)
	claims := Claims{
		Role: "auditor",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "p2p-lending",
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = tk.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}
