package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "poltem/pkg/domain"
	audit "poltem/pkg/platform/audit"
	txcontext "poltem/pkg/platform/tx"
)

// Store implements audit.Store on the audit_events table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one event. Events without an account (failed sign-ins for
// unknown identifiers) store a NULL account_id.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, category, timestamp, account_id, subject, action,
			reason, request_id, client_ip, platform
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var accountID *uuid.UUID
	if !event.AccountID.IsNil() {
		aid := uuid.UUID(event.AccountID)
		accountID = &aid
	}

	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		uuid.New(),
		string(event.Category),
		event.Timestamp,
		accountID,
		event.Subject,
		event.Action,
		event.Reason,
		event.RequestID,
		event.ClientIP,
		event.Platform,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByAccount returns an account's events, oldest first.
func (s *Store) ListByAccount(ctx context.Context, accountID id.AccountID) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, account_id, subject, action,
			   reason, request_id, client_ip, platform
		FROM audit_events
		WHERE account_id = $1
		ORDER BY timestamp ASC
	`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(accountID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent returns the N most recent events across all accounts.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, account_id, subject, action,
			   reason, request_id, client_ip, platform
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			category  string
			event     audit.Event
			accountID *uuid.UUID
		)
		err := rows.Scan(
			&category,
			&event.Timestamp,
			&accountID,
			&event.Subject,
			&event.Action,
			&event.Reason,
			&event.RequestID,
			&event.ClientIP,
			&event.Platform,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		if accountID != nil {
			event.AccountID = id.AccountID(*accountID)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
