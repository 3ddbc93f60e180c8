package local

import (
	"context"
	"time"

	id "poltem/pkg/domain"
)

// AccountRecord is a locally held account. Phone-only accounts created by
// phone sign-in have an empty Email.
type AccountRecord struct {
	ID           id.AccountID
	Email        string
	Phone        string
	FullName     string
	PasswordHash []byte
	Confirmed    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountStore persists local accounts. Lookups return sentinel.ErrNotFound;
// Create returns sentinel.ErrConflict when the email or phone is taken.
type AccountStore interface {
	Create(ctx context.Context, rec *AccountRecord) error
	FindByID(ctx context.Context, accountID id.AccountID) (*AccountRecord, error)
	FindByEmail(ctx context.Context, email string) (*AccountRecord, error)
	FindByPhone(ctx context.Context, phone string) (*AccountRecord, error)
	UpdatePassword(ctx context.Context, accountID id.AccountID, hash []byte, at time.Time) error
}
