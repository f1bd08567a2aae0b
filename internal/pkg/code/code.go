package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewTwoFACode generates a random 6-digit code in [100000, 999999].
func NewTwoFACode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate 2FA code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
