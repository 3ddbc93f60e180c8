package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"poltem/internal/platform/postgres"
	id "poltem/pkg/domain"
	"poltem/pkg/platform/sentinel"
)

const accountColumns = `id, email, phone, full_name, password_hash, confirmed, created_at, updated_at`

// PostgresAccountStore keeps local accounts in the accounts table.
type PostgresAccountStore struct {
	db *sql.DB
}

func NewPostgresAccountStore(db *sql.DB) *PostgresAccountStore {
	return &PostgresAccountStore{db: db}
}

func (s *PostgresAccountStore) Create(ctx context.Context, rec *AccountRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID.String(), nullable(strings.ToLower(rec.Email)), nullable(rec.Phone), rec.FullName,
		rec.PasswordHash, rec.Confirmed, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("create account: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *PostgresAccountStore) FindByID(ctx context.Context, accountID id.AccountID) (*AccountRecord, error) {
	return s.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, accountID.String())
}

func (s *PostgresAccountStore) FindByEmail(ctx context.Context, email string) (*AccountRecord, error) {
	return s.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, strings.ToLower(email))
}

func (s *PostgresAccountStore) FindByPhone(ctx context.Context, phone string) (*AccountRecord, error) {
	return s.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE phone = $1`, phone)
}

func (s *PostgresAccountStore) UpdatePassword(ctx context.Context, accountID id.AccountID, hash []byte, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		accountID.String(), hash, at)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresAccountStore) findOne(ctx context.Context, query string, arg any) (*AccountRecord, error) {
	var (
		rec       AccountRecord
		rawID     string
		email     sql.NullString
		phone     sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&rawID, &email, &phone, &rec.FullName, &rec.PasswordHash, &rec.Confirmed, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	accountID, err := id.ParseAccountID(rawID)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	rec.ID = accountID
	rec.Email = email.String
	rec.Phone = phone.String
	rec.CreatedAt = createdAt.UTC()
	rec.UpdatedAt = updatedAt.UTC()
	return &rec, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
