package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and collaborator adapters
// return these (optionally wrapped) so services can translate them into
// domain errors:
//   - ErrNotFound: record, flow, or account does not exist
//   - ErrConflict: unique key already taken
//   - ErrExpired: OTP, token, or flow past its lifetime
//   - ErrInvalidState: entity in the wrong state for the requested operation
//   - ErrUnavailable: backend temporarily unreachable
//   - ErrPermissionDenied: row-level security rejected the call
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrExpired          = errors.New("expired")
	ErrInvalidState     = errors.New("invalid state")
	ErrUnavailable      = errors.New("unavailable")
	ErrPermissionDenied = errors.New("permission denied")
)
