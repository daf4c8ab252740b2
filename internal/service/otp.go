package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// generateOTP returns a 6-digit numeric one-time code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// codeExpired reports whether a code/expiration pair is unusable.
func codeExpired(expiration *time.Time, now time.Time) bool {
	return expiration == nil || !now.Before(*expiration)
}
