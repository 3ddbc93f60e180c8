package participation

import (
	"context"
	"time"

	id "poltem/pkg/domain"
)

// Store holds live flows for their lifetime only; flows are never written to
// the record store. Get and Update return sentinel.ErrNotFound for unknown or
// expired flows.
type Store interface {
	Create(ctx context.Context, f *Flow, ttl time.Duration) error
	Get(ctx context.Context, flowID id.ParticipationID) (*Flow, error)
	// Update loads the flow, applies fn and saves the result atomically with
	// respect to other updates of the same flow. Nothing is saved when fn
	// returns an error. The flow keeps its original expiry.
	Update(ctx context.Context, flowID id.ParticipationID, fn func(*Flow) error) (*Flow, error)
}
