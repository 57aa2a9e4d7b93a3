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
)

// SettingsService manages the site-wide branding record.
type SettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gateway     uploads.Gateway
	logger      logging.Logger
}

func NewSettingsService(db *sql.DB, m repomanager.RepositoryManager, gw uploads.Gateway, logger logging.Logger) *SettingsService {
	return &SettingsService{
		db:          db,
		repomanager: m,
		gateway:     gw,
		logger:      logger.With("module", "settings"),
	}
}

// Get returns the stored settings, or the defaults if none were saved yet.
func (s *SettingsService) Get(ctx context.Context) (*models.SiteSettings, error) {
	cur, err := s.repomanager.Settings(s.db).Get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			d := models.DefaultSiteSettings()
			return &d, nil
		}
		return nil, fmt.Errorf("error loading settings: %w", err)
	}
	return cur, nil
}

// Update merges the patch into the current settings and saves the result.
func (s *SettingsService) Update(ctx context.Context, patch models.SettingsPatch) (*models.SiteSettings, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	patch.Apply(cur)
	cur.UpdatedAt = timeNow()

	if err := s.repomanager.Settings(s.db).Upsert(ctx, cur); err != nil {
		return nil, fmt.Errorf("error saving settings: %w", err)
	}
	return cur, nil
}

// UploadLogo stores a new logo image and points the settings at it. The
// previous logo asset is removed best effort.
func (s *SettingsService) UploadLogo(ctx context.Context, r io.Reader, filename string) (string, error) {
	kind, _, err := uploads.Classify(filename)
	if err != nil {
		return "", err
	}
	if kind != models.MediaImage {
		return "", fmt.Errorf("%w: logo must be an image", common.ErrUnsupportedType)
	}

	url, _, err := s.gateway.Store(ctx, r, filename)
	if err != nil {
		return "", err
	}

	previous := ""
	if cur, err := s.Get(ctx); err == nil {
		previous = cur.LogoURL
	}

	if _, err := s.Update(ctx, models.SettingsPatch{LogoURL: &url}); err != nil {
		if derr := s.gateway.Delete(ctx, url); derr != nil {
			s.logger.Warn(ctx, "orphaned asset", "url", url, "error", derr)
		}
		return "", err
	}

	if previous != "" && previous != url {
		if err := s.gateway.Delete(ctx, previous); err != nil {
			s.logger.Warn(ctx, "old logo delete failed", "url", previous, "error", err)
		}
	}
	return url, nil
}
