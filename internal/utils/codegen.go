package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReferralCode returns a random 8-character code over A-Z0-9,
// short enough to share verbally. Uniqueness is enforced by the caller
// against the store; this only handles entropy.
func GenerateReferralCode() (string, error) {
	b := make([]byte, 8)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate referral code: %w", err)
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}
