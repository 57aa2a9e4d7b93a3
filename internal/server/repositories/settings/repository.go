package settings

import (
	"context"

	"github.com/dmitrijs2005/lightbox/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Upsert(ctx context.Context, s *models.SiteSettings) error
}
