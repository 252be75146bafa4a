package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withJWTSettings(t *testing.T, secret string, verify bool) {
	t.Helper()
	prevSecret, prevVerify := jwtSecret, jwtVerifyExpiration
	SetJWTSecret(secret)
	SetJWTVerifyExpiration(verify)
	t.Cleanup(func() {
		jwtSecret, jwtVerifyExpiration = prevSecret, prevVerify
	})
}

func TestJWTRoundTrip(t *testing.T) {
	withJWTSettings(t, "test-secret", true)
	id := uuid.New()

	token, err := GenerateJWT(id, "f20190120", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "f20190120", claims.Username)

	parsed, err := claims.ParseUserID()
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestJWTExpiration(t *testing.T) {
	withJWTSettings(t, "test-secret", false)

	token, err := GenerateJWT(uuid.New(), "old", -2)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.NoError(t, err, "expired tokens pass while expiration checks are off")

	SetJWTVerifyExpiration(true)
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTRejectsForeignSignatures(t *testing.T) {
	withJWTSettings(t, "test-secret", false)

	token, err := GenerateJWT(uuid.New(), "someone", 1)
	require.NoError(t, err)

	SetJWTSecret("another-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)

	SetJWTSecret("test-secret")
	other := jwt.NewWithClaims(jwt.SigningMethodHS512, JWTClaims{
		UserID: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := other.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ValidateJWT(signed)
	assert.Error(t, err)
}

func TestGenerateUsernameSuffix(t *testing.T) {
	suffix, err := GenerateUsernameSuffix()
	require.NoError(t, err)
	assert.Regexp(t, `^[a-z0-9]{4}$`, suffix)

	secret, err := GenerateAccountSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 32)
}

type profileForm struct {
	Hostel    string `validate:"omitempty,hostel"`
	ContactNo string `validate:"omitempty,e164"`
	Name      string `validate:"max=10"`
}

func TestValidatorCustomTags(t *testing.T) {
	assert.NoError(t, ValidateStruct(&profileForm{Hostel: "SR", ContactNo: "+919876543210", Name: "John"}))
	assert.NoError(t, ValidateStruct(&profileForm{}))

	err := ValidateStruct(&profileForm{Hostel: "XX", ContactNo: "98765", Name: "A very long name"})
	require.Error(t, err)

	fields := map[string]string{}
	for _, e := range GetValidationErrors(err) {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, map[string]string{"hostel": "hostel", "contactno": "e164", "name": "max"}, fields)
	assert.Len(t, ValidationMessages(err), 3)
}
