package users

import (
	"context"

	"github.com/dmitrijs2005/lightbox/internal/server/models"
)

type Repository interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
