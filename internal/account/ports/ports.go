package ports

import (
	"context"

	"poltem/internal/identity"
	"poltem/pkg/platform/audit"
	"poltem/pkg/requestcontext"
)

// AuditPublisher records audit events without failing the caller.
type AuditPublisher interface {
	Record(ctx context.Context, event audit.Event)
}

// Sessions is the slice of the session resolver the account flows need.
type Sessions interface {
	Account(ctx context.Context, p requestcontext.Principal) (*identity.Account, error)
	Invalidate(ctx context.Context, p requestcontext.Principal) error
}
