// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	lowerDigits  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

func randomFrom(charset string, length int) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

func GenerateRandomString(length int) (string, error) {
	return randomFrom(alphanumeric, length)
}

// GenerateAccountSecret returns the initial password for accounts that only
// ever sign in through the identity provider.
func GenerateAccountSecret() (string, error) {
	return GenerateRandomString(32)
}

// GenerateUsernameSuffix returns a short lowercase tail used to make a
// derived username unique.
func GenerateUsernameSuffix() (string, error) {
	return randomFrom(lowerDigits, 4)
}
