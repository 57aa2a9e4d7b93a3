package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/lightbox/internal/common"
	"github.com/dmitrijs2005/lightbox/internal/logging"
	"github.com/dmitrijs2005/lightbox/internal/server/models"
	"github.com/dmitrijs2005/lightbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lightbox/internal/server/uploads"
	"github.com/google/uuid"
)

// MediaService is the media ledger of a project. Every operation reads the
// project, changes its media list and writes it back guarded by the
// project version, so a concurrent change surfaces as common.ErrVersionConflict.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gateway     uploads.Gateway
	logger      logging.Logger
}

func NewMediaService(db *sql.DB, m repomanager.RepositoryManager, gw uploads.Gateway, logger logging.Logger) *MediaService {
	return &MediaService{
		db:          db,
		repomanager: m,
		gateway:     gw,
		logger:      logger.With("module", "media"),
	}
}

func (s *MediaService) load(ctx context.Context, projectID string) (*models.Project, error) {
	p, err := s.repomanager.Projects(s.db).Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("project %s: %w", projectID, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("error loading project %s: %w", projectID, err)
	}
	return p, nil
}

func (s *MediaService) save(ctx context.Context, p *models.Project) error {
	p.UpdatedAt = timeNow()
	if err := s.repomanager.Projects(s.db).Update(ctx, p); err != nil {
		return wrapWrite(p.ID, err)
	}
	return nil
}

// Add stores the upload and appends it after the last media item.
func (s *MediaService) Add(ctx context.Context, projectID string, r io.Reader, filename, alt string) (*models.Media, error) {
	p, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	url, kind, err := s.gateway.Store(ctx, r, filename)
	if err != nil {
		return nil, err
	}

	m := models.Media{
		ID:    uuid.NewString(),
		Type:  kind,
		URL:   url,
		Alt:   alt,
		Order: p.NextMediaOrder(),
	}
	p.Media = append(p.Media, m)

	if err := s.save(ctx, p); err != nil {
		if derr := s.gateway.Delete(ctx, url); derr != nil {
			s.logger.Warn(ctx, "orphaned asset", "project", projectID, "url", url, "error", derr)
		}
		return nil, err
	}
	return &m, nil
}

// Remove drops the item from the project and then deletes its asset. The
// asset is only touched once the write went through; a failed delete leaves
// an orphaned file, never a media entry without one.
func (s *MediaService) Remove(ctx context.Context, projectID, mediaID string) error {
	p, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}

	idx := p.FindMedia(mediaID)
	if idx < 0 {
		return fmt.Errorf("media %s: %w", mediaID, common.ErrorNotFound)
	}

	url := p.Media[idx].URL
	p.Media = append(p.Media[:idx], p.Media[idx+1:]...)
	if err := s.save(ctx, p); err != nil {
		return err
	}

	if err := s.gateway.Delete(ctx, url); err != nil {
		s.logger.Warn(ctx, "orphaned asset", "project", projectID, "url", url, "error", err)
	}
	return nil
}

// Reorder overwrites the order of the mentioned items and persists the list
// sorted ascending. Ids that are not in the project are ignored.
func (s *MediaService) Reorder(ctx context.Context, projectID string, items []models.OrderItem) (*models.Project, error) {
	p, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if idx := p.FindMedia(it.ID); idx >= 0 {
			p.Media[idx].Order = it.Order
		}
	}
	p.SortMedia()

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *MediaService) SetFeatured(ctx context.Context, projectID, mediaID string, featured bool) error {
	p, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}

	idx := p.FindMedia(mediaID)
	if idx < 0 {
		return fmt.Errorf("media %s: %w", mediaID, common.ErrorNotFound)
	}
	p.Media[idx].Featured = featured

	return s.save(ctx, p)
}
