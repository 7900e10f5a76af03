package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("user-1", "a@example.com", secret, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "a@example.com", claims.Email)
	require.Equal(t, "user-1", claims.Subject)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("user-1", "", secret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, secret)
	require.Error(t, err)
	require.ErrorIs(t, err, jwtlib.ErrTokenExpired)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-1", "", secret, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("other-secret"))
	require.Error(t, err)
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: "user-1",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	hs512, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(hs512, secret)
	require.Error(t, err)

	none, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, claims).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(none, secret)
	require.Error(t, err)
}

func TestParseTokenRequiresExpiryAndUser(t *testing.T) {
	noExp, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{UserID: "user-1"}).SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(noExp, secret)
	require.Error(t, err)

	noUser, err := GenerateToken("", "", secret, time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(noUser, secret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-jwt", secret)
	require.Error(t, err)
}
