package services

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"

	"github.com/dmitrijs2005/lightbox/internal/server/models"
	"github.com/dmitrijs2005/lightbox/internal/server/repositories/repomanager"
)

// FeaturedService builds the highlight reel shown on the landing page.
type FeaturedService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFeaturedService(db *sql.DB, m repomanager.RepositoryManager) *FeaturedService {
	return &FeaturedService{db: db, repomanager: m}
}

// Feed collects every media item that is featured itself or belongs to a
// featured project, published or not, in random order.
func (s *FeaturedService) Feed(ctx context.Context) ([]models.FeaturedItem, error) {
	ps, err := s.repomanager.Projects(s.db).List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}

	items := []models.FeaturedItem{}
	for _, p := range ps {
		for _, m := range p.Media {
			if !m.Featured && !p.Featured {
				continue
			}
			items = append(items, models.FeaturedItem{
				Type:         m.Type,
				URL:          m.URL,
				Alt:          m.Alt,
				ProjectID:    p.ID,
				ProjectTitle: p.Title,
			})
		}
	}

	rand.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	return items, nil
}
