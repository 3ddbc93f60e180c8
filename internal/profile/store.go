package profile

import (
	"context"

	id "poltem/pkg/domain"
)

//go:generate mockgen -source=store.go -destination=mocks/store-mocks.go -package=mocks Store

// Store keeps one profile per account. Get returns sentinel.ErrNotFound for
// an account that never saved; Upsert may return sentinel.ErrPermissionDenied
// when row-level security rejects the write.
type Store interface {
	Get(ctx context.Context, accountID id.AccountID) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}
