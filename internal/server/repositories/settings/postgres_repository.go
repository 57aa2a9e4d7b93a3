package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lightbox/internal/common"
	"github.com/dmitrijs2005/lightbox/internal/dbx"
	"github.com/dmitrijs2005/lightbox/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns common.ErrorNotFound until the record has been saved once.
func (r *PostgresRepository) Get(ctx context.Context) (*models.SiteSettings, error) {
	query :=
		`SELECT brand_name, logo_url, about_title, about_content, contact_email,
		 contact_phone, instagram_url, clients_list, updated_at
		 FROM settings WHERE id = 1
		 `

	s := &models.SiteSettings{}
	err := r.db.QueryRowContext(ctx, query).Scan(&s.BrandName, &s.LogoURL, &s.AboutTitle, &s.AboutContent,
		&s.ContactEmail, &s.ContactPhone, &s.InstagramURL, &s.ClientsList, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, s *models.SiteSettings) error {
	query :=
		`INSERT INTO settings (id, brand_name, logo_url, about_title, about_content,
		 contact_email, contact_phone, instagram_url, clients_list, updated_at)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		 brand_name = EXCLUDED.brand_name, logo_url = EXCLUDED.logo_url,
		 about_title = EXCLUDED.about_title, about_content = EXCLUDED.about_content,
		 contact_email = EXCLUDED.contact_email, contact_phone = EXCLUDED.contact_phone,
		 instagram_url = EXCLUDED.instagram_url, clients_list = EXCLUDED.clients_list,
		 updated_at = EXCLUDED.updated_at
		 `

	_, err := r.db.ExecContext(ctx, query, s.BrandName, s.LogoURL, s.AboutTitle, s.AboutContent,
		s.ContactEmail, s.ContactPhone, s.InstagramURL, s.ClientsList, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
