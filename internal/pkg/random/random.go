package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// OTP generates a 6-digit numeric one-time code.
func OTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Password generates a random opaque password for accounts provisioned via an
// external identity provider. It is never shown to anyone; its bcrypt hash
// just makes the account unusable for password login.
func Password() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return hex.EncodeToString(b), nil
}
