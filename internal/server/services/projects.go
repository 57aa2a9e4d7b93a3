package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/lightbox/internal/common"
	"github.com/dmitrijs2005/lightbox/internal/dbx"
	"github.com/dmitrijs2005/lightbox/internal/logging"
	"github.com/dmitrijs2005/lightbox/internal/server/models"
	"github.com/dmitrijs2005/lightbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lightbox/internal/server/slug"
	"github.com/dmitrijs2005/lightbox/internal/server/uploads"
)

// maxSlugAttempts bounds the collision retries of Create.
const maxSlugAttempts = 5

var timeNow = func() time.Time { return time.Now().UTC() }

// ProjectService is the project ledger: listing, CRUD and ordering of projects.
type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gateway     uploads.Gateway
	logger      logging.Logger
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager, gw uploads.Gateway, logger logging.Logger) *ProjectService {
	return &ProjectService{
		db:          db,
		repomanager: m,
		gateway:     gw,
		logger:      logger.With("module", "projects"),
	}
}

// ListPublic returns published projects in display order.
func (s *ProjectService) ListPublic(ctx context.Context) ([]*models.Project, error) {
	return s.list(ctx, true)
}

// ListAdmin returns every project in display order.
func (s *ProjectService) ListAdmin(ctx context.Context) ([]*models.Project, error) {
	return s.list(ctx, false)
}

func (s *ProjectService) list(ctx context.Context, publishedOnly bool) ([]*models.Project, error) {
	ps, err := s.repomanager.Projects(s.db).List(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	sortProjects(ps)
	return ps, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.repomanager.Projects(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading project %s: %w", id, err)
	}
	return p, nil
}

// Create stores a new project whose id is the slug of its title. When the
// slug is taken a timestamp suffix is appended and the insert retried.
func (s *ProjectService) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}

	now := timeNow()
	p := &models.Project{
		Title:       in.Title,
		Client:      in.Client,
		Date:        in.Date,
		Location:    in.Location,
		Description: in.Description,
		Media:       []models.Media{},
		Featured:    in.Featured,
		Published:   true,
		Order:       in.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Published != nil {
		p.Published = *in.Published
	}

	repo := s.repomanager.Projects(s.db)
	base := slug.Make(in.Title)
	id := base

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		p.ID = id
		err := repo.Create(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("error creating project: %w", err)
		}
		id = slug.WithSuffix(base, now.Add(time.Duration(attempt)))
	}

	return nil, fmt.Errorf("error creating project: %w", common.ErrorAlreadyExists)
}

// Update applies a sparse patch. The write is rejected with
// common.ErrVersionConflict if the project changed since it was read.
func (s *ProjectService) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	repo := s.repomanager.Projects(s.db)

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(p)
	p.UpdatedAt = timeNow()

	if err := repo.Update(ctx, p); err != nil {
		return nil, wrapWrite(id, err)
	}
	return p, nil
}

// Delete removes the project, guarded by the version it was read at, and
// then, best effort, every asset of its media. A concurrent change to the
// project fails the delete with common.ErrVersionConflict.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repomanager.Projects(s.db).Delete(ctx, id, p.Version); err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("error deleting project %s: %w", id, err)
	}

	for _, m := range p.Media {
		if err := s.gateway.Delete(ctx, m.URL); err != nil {
			s.logger.Warn(ctx, "asset delete failed", "project", id, "url", m.URL, "error", err)
		}
	}
	return nil
}

// Reorder assigns display positions in one transaction. An unknown id aborts
// the whole batch with common.ErrorNotFound.
func (s *ProjectService) Reorder(ctx context.Context, items []models.OrderItem) ([]*models.Project, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Projects(tx)
		for _, it := range items {
			if err := repo.SetOrder(ctx, it.ID, it.Order); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("project %s: %w", it.ID, err)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error reordering projects: %w", err)
	}

	return s.ListAdmin(ctx)
}

func wrapWrite(id string, err error) error {
	if errors.Is(err, common.ErrVersionConflict) || errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return fmt.Errorf("error saving project %s: %w", id, err)
}
