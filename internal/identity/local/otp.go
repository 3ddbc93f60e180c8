package local

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"poltem/internal/identity"
)

type pendingCode struct {
	hash     []byte
	expires  time.Time
	issuedAt time.Time
}

// codeBook holds at most one outstanding code per purpose and destination.
// Codes are stored as bcrypt hashes and consumed on successful check.
type codeBook struct {
	mu       sync.Mutex
	codes    map[string]pendingCode
	ttl      time.Duration
	cooldown time.Duration
}

func newCodeBook(ttl, cooldown time.Duration) *codeBook {
	return &codeBook{
		codes:    make(map[string]pendingCode),
		ttl:      ttl,
		cooldown: cooldown,
	}
}

func codeKey(purpose identity.OTPPurpose, destination string) string {
	return string(purpose) + ":" + destination
}

// issue generates a code. It returns errCooldown when a code for the same
// destination was issued less than cooldown ago.
func (b *codeBook) issue(purpose identity.OTPPurpose, destination string, now time.Time) (string, error) {
	key := codeKey(purpose, destination)
	b.mu.Lock()
	defer b.mu.Unlock()
	if prev, ok := b.codes[key]; ok && now.Sub(prev.issuedAt) < b.cooldown {
		return "", errCooldown
	}
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}
	b.codes[key] = pendingCode{hash: hash, expires: now.Add(b.ttl), issuedAt: now}
	return code, nil
}

// consume reports whether code matches the outstanding code. A match removes
// it; a miss or an expired code leaves nothing usable behind.
func (b *codeBook) consume(purpose identity.OTPPurpose, destination, code string, now time.Time) bool {
	key := codeKey(purpose, destination)
	b.mu.Lock()
	defer b.mu.Unlock()
	pending, ok := b.codes[key]
	if !ok {
		return false
	}
	if now.After(pending.expires) {
		delete(b.codes, key)
		return false
	}
	if bcrypt.CompareHashAndPassword(pending.hash, []byte(code)) != nil {
		return false
	}
	delete(b.codes, key)
	return true
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
