package participation

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	displayIDPrefix = "AC-"
	displayIDMin    = 100000
	displayIDMax    = 999999
)

var displayIDSpan = big.NewInt(displayIDMax - displayIDMin + 1)

// DisplayIDGenerator produces the cosmetic tracking id participants paste
// into the external form. It is never validated.
type DisplayIDGenerator func() (string, error)

// RandomDisplayID returns "AC-" followed by a number in [100000, 999999].
func RandomDisplayID() (string, error) {
	n, err := rand.Int(rand.Reader, displayIDSpan)
	if err != nil {
		return "", fmt.Errorf("generate display id: %w", err)
	}
	return fmt.Sprintf("%s%d", displayIDPrefix, n.Int64()+displayIDMin), nil
}
