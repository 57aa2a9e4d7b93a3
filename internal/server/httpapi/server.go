// Package httpapi exposes the portfolio over a JSON REST API under /api and
// serves locally stored uploads.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/lightbox/internal/common"
	"github.com/dmitrijs2005/lightbox/internal/logging"
	"github.com/dmitrijs2005/lightbox/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

const shutdownTimeout = 10 * time.Second

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Authenticate(token string) (string, error)
}

type ProjectService interface {
	ListPublic(ctx context.Context) ([]*models.Project, error)
	ListAdmin(ctx context.Context) ([]*models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, in models.ProjectInput) (*models.Project, error)
	Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, items []models.OrderItem) ([]*models.Project, error)
}

type MediaService interface {
	Add(ctx context.Context, projectID string, r io.Reader, filename, alt string) (*models.Media, error)
	Remove(ctx context.Context, projectID, mediaID string) error
	Reorder(ctx context.Context, projectID string, items []models.OrderItem) (*models.Project, error)
	SetFeatured(ctx context.Context, projectID, mediaID string, featured bool) error
}

type FeaturedService interface {
	Feed(ctx context.Context) ([]models.FeaturedItem, error)
}

type SettingsService interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Update(ctx context.Context, patch models.SettingsPatch) (*models.SiteSettings, error)
	UploadLogo(ctx context.Context, r io.Reader, filename string) (string, error)
}

// Services groups the business logic the handlers delegate to.
type Services struct {
	Users    UserService
	Projects ProjectService
	Media    MediaService
	Featured FeaturedService
	Settings SettingsService
}

// Options tune transport concerns that do not belong to the services.
type Options struct {
	// UploadDir, when set, is served as static files under UploadURLPrefix.
	UploadDir          string
	UploadURLPrefix    string
	MaxUploadSize      int64
	RateLimitPerMinute int
}

type HTTPServer struct {
	address string
	logger  logging.Logger
	svc     Services
	opts    Options
}

func NewHTTPServer(address string, l logging.Logger, svc Services, opts Options) *HTTPServer {
	return &HTTPServer{
		address: address,
		logger:  l.With("module", "http_server"),
		svc:     svc,
		opts:    opts,
	}
}

// Router builds the full route tree.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&logFormatter{logger: s.logger}))
	r.Use(middleware.Recoverer)

	r.Route(common.APIPrefix, func(r chi.Router) {
		r.Get("/health", s.health)

		r.Route("/auth", func(r chi.Router) {
			if s.opts.RateLimitPerMinute > 0 {
				r.Use(httprate.Limit(
					s.opts.RateLimitPerMinute,
					1*time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
				))
			}
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.With(s.requireAdmin).Get("/me", s.me)
		})

		r.Get("/projects", s.listPublicProjects)
		r.Get("/projects/{id}", s.getProject)
		r.Get("/featured", s.featuredFeed)
		r.Get("/settings", s.getSettings)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/admin/projects", s.listAdminProjects)
			r.Post("/projects", s.createProject)
			r.Put("/projects/reorder", s.reorderProjects)
			r.Put("/projects/{id}", s.updateProject)
			r.Delete("/projects/{id}", s.deleteProject)

			r.Post("/projects/{id}/media", s.addMedia)
			r.Put("/projects/{id}/media/reorder", s.reorderMedia)
			r.Delete("/projects/{id}/media/{mediaId}", s.removeMedia)
			r.Put("/projects/{id}/media/{mediaId}/featured", s.setMediaFeatured)

			r.Put("/settings", s.updateSettings)
			r.Post("/settings/logo", s.uploadLogo)
		})
	})

	if s.opts.UploadDir != "" {
		prefix := "/" + strings.Trim(s.opts.UploadURLPrefix, "/")
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(s.opts.UploadDir)))
		r.Handle(prefix+"/*", fs)
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
