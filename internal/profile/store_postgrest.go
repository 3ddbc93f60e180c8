package profile

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"poltem/internal/platform/postgrest"
	id "poltem/pkg/domain"
	"poltem/pkg/requestcontext"
)

const profilesTable = "profiles"

// RESTStore reads and writes profiles through the record API using the
// caller's access token, so the collaborator's row-level security decides.
type RESTStore struct {
	client *postgrest.Client
}

func NewRESTStore(client *postgrest.Client) *RESTStore {
	return &RESTStore{client: client}
}

// profileRow omits is_researcher on write so an upsert cannot change it.
type profileRow struct {
	ID           string     `json:"id"`
	FullName     string     `json:"full_name"`
	Phone        string     `json:"phone"`
	Gender       string     `json:"gender"`
	BirthDate    string     `json:"birth_date"`
	BankName     string     `json:"bank_name"`
	IBAN         string     `json:"iban"`
	FullNameBank string     `json:"full_name_bank"`
	IsResearcher *bool      `json:"is_researcher,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (s *RESTStore) Get(ctx context.Context, accountID id.AccountID) (*Profile, error) {
	var row profileRow
	q := url.Values{"id": {postgrest.Eq(accountID.String())}, "select": {"*"}}
	if err := s.client.SelectOne(ctx, requestcontext.AccessToken(ctx), profilesTable, q, &row); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return row.toProfile()
}

func (s *RESTStore) Upsert(ctx context.Context, p *Profile) error {
	updated := p.UpdatedAt
	row := profileRow{
		ID:           p.ID.String(),
		FullName:     p.FullName,
		Phone:        p.Phone,
		Gender:       p.Gender,
		BirthDate:    p.BirthDate,
		BankName:     p.BankName,
		IBAN:         p.IBAN,
		FullNameBank: p.FullNameBank,
		UpdatedAt:    &updated,
	}
	if err := s.client.Insert(ctx, requestcontext.AccessToken(ctx), profilesTable, postgrest.PreferUpsert, row, nil); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r profileRow) toProfile() (*Profile, error) {
	accountID, err := id.ParseAccountID(r.ID)
	if err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	p := &Profile{
		ID:           accountID,
		FullName:     r.FullName,
		Phone:        r.Phone,
		Gender:       r.Gender,
		BirthDate:    r.BirthDate,
		BankName:     r.BankName,
		IBAN:         r.IBAN,
		FullNameBank: r.FullNameBank,
	}
	if r.IsResearcher != nil {
		p.IsResearcher = *r.IsResearcher
	}
	if r.UpdatedAt != nil {
		p.UpdatedAt = r.UpdatedAt.UTC()
	}
	return p, nil
}
