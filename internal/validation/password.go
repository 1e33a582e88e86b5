package validation

import "fmt"

const (
	minPasswordLength = 6
	// bcrypt rejects inputs over 72 bytes, so the policy caps there too.
	maxPasswordLength = 72
)

// ValidatePassword checks if a password meets the account requirements.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must not exceed %d characters", maxPasswordLength)
	}
	return nil
}
