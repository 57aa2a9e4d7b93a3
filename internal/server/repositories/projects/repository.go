package projects

import (
	"context"

	"github.com/dmitrijs2005/lightbox/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Project) error
	Get(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id string, version int64) error
	SetOrder(ctx context.Context, id string, order int) error
}
