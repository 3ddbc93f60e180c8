package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"poltem/internal/platform/postgres"
	id "poltem/pkg/domain"
	"poltem/pkg/platform/sentinel"
)

const profileColumns = `id, full_name, phone, gender, birth_date, bank_name, iban, full_name_bank, is_researcher, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, accountID id.AccountID) (*Profile, error) {
	var (
		p     Profile
		rawID string
	)
	err := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, accountID.String()).Scan(
		&rawID, &p.FullName, &p.Phone, &p.Gender, &p.BirthDate, &p.BankName, &p.IBAN, &p.FullNameBank, &p.IsResearcher, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, translate("get profile", err)
	}
	if p.ID, err = id.ParseAccountID(rawID); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// Upsert writes every column except is_researcher, which only the
// back office changes.
func (s *PostgresStore) Upsert(ctx context.Context, p *Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			gender = EXCLUDED.gender,
			birth_date = EXCLUDED.birth_date,
			bank_name = EXCLUDED.bank_name,
			iban = EXCLUDED.iban,
			full_name_bank = EXCLUDED.full_name_bank,
			updated_at = EXCLUDED.updated_at`,
		p.ID.String(), p.FullName, p.Phone, p.Gender, p.BirthDate, p.BankName, p.IBAN, p.FullNameBank, p.IsResearcher, p.UpdatedAt,
	)
	if err != nil {
		return translate("upsert profile", err)
	}
	return nil
}

func translate(op string, err error) error {
	if postgres.IsPermissionDenied(err) {
		return fmt.Errorf("%s: %w", op, sentinel.ErrPermissionDenied)
	}
	return fmt.Errorf("%s: %w", op, err)
}
