package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Sender dispatches a recovery code out-of-band. Implementations must
// never echo the code back through the HTTP response.
type Sender interface {
	Send(to string, code string) error
}

// Generate returns a 6-digit numeric code from crypto/rand.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// VerifyCode reports whether a presented code matches the stored one
// and has not expired at now. Stored state is nil once a code has been
// consumed, so a consumed code never verifies a second time.
func VerifyCode(stored *string, expire *time.Time, code string, now time.Time) bool {
	if stored == nil || expire == nil || code == "" {
		return false
	}
	return *stored == code && now.Before(*expire)
}

// MaskContact hides a recovery contact down to its last four characters
// for dispatch acknowledgments.
func MaskContact(contact string) string {
	if len(contact) <= 4 {
		return "****"
	}
	return "****" + contact[len(contact)-4:]
}
