package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	tokenLength   = 25
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// generateSubscriptionToken draws a 25-character token uniformly from the
// alphanumeric alphabet. Uniqueness is not checked against existing tokens;
// the 62^25 space makes a collision a non-concern.
func generateSubscriptionToken() (string, error) {
	alphabetSize := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, tokenLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate subscription token: %w", err)
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
