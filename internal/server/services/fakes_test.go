package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lightbox/internal/common"
	"github.com/dmitrijs2005/lightbox/internal/dbx"
	"github.com/dmitrijs2005/lightbox/internal/server/models"
	projectsrepo "github.com/dmitrijs2005/lightbox/internal/server/repositories/projects"
	settingsrepo "github.com/dmitrijs2005/lightbox/internal/server/repositories/settings"
	usersrepo "github.com/dmitrijs2005/lightbox/internal/server/repositories/users"
	"github.com/dmitrijs2005/lightbox/internal/server/uploads"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func ptr[T any](v T) *T { return &v }

// --- projects ---

type fakeProjectsRepo struct {
	mu    sync.Mutex
	rows  map[string]models.Project
	order []string

	listErr   error
	updateErr error

	// beforeUpdate runs once, before the next Update or Delete is applied.
	beforeUpdate func()
}

func newFakeProjectsRepo() *fakeProjectsRepo {
	return &fakeProjectsRepo{rows: map[string]models.Project{}}
}

func cloneProject(p models.Project) *models.Project {
	c := p
	c.Media = append([]models.Media{}, p.Media...)
	if p.Order != nil {
		c.Order = ptr(*p.Order)
	}
	return &c
}

func (f *fakeProjectsRepo) Create(ctx context.Context, p *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[p.ID]; ok {
		return common.ErrorAlreadyExists
	}
	p.Version = 1
	f.rows[p.ID] = *cloneProject(*p)
	f.order = append(f.order, p.ID)
	return nil
}

func (f *fakeProjectsRepo) Get(ctx context.Context, id string) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneProject(p), nil
}

func (f *fakeProjectsRepo) List(ctx context.Context, publishedOnly bool) ([]*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.Project{}
	for _, id := range f.order {
		p, ok := f.rows[id]
		if !ok || (publishedOnly && !p.Published) {
			continue
		}
		out = append(out, cloneProject(p))
	}
	return out, nil
}

func (f *fakeProjectsRepo) Update(ctx context.Context, p *models.Project) error {
	if hook := f.beforeUpdate; hook != nil {
		f.beforeUpdate = nil
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	cur, ok := f.rows[p.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if cur.Version != p.Version {
		return common.ErrVersionConflict
	}
	p.Version++
	f.rows[p.ID] = *cloneProject(*p)
	return nil
}

func (f *fakeProjectsRepo) Delete(ctx context.Context, id string, version int64) error {
	if hook := f.beforeUpdate; hook != nil {
		f.beforeUpdate = nil
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	if cur.Version != version {
		return common.ErrVersionConflict
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeProjectsRepo) SetOrder(ctx context.Context, id string, order int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.Order = ptr(order)
	p.Version++
	f.rows[id] = p
	return nil
}

// --- users ---

type fakeUsersRepo struct {
	mu    sync.Mutex
	users []*models.User

	countErr error
	// createErr overrides the singleton emulation when set.
	createErr error
}

func (f *fakeUsersRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), f.countErr
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if len(f.users) > 0 {
		return nil, common.ErrRegistrationClosed
	}
	u.ID = fmt.Sprintf("u-%d", len(f.users)+1)
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.UserName == login {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

// --- settings ---

type fakeSettingsRepo struct {
	cur       *models.SiteSettings
	upsertErr error
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (*models.SiteSettings, error) {
	if f.cur == nil {
		return nil, common.ErrorNotFound
	}
	c := *f.cur
	return &c, nil
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, s *models.SiteSettings) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	c := *s
	f.cur = &c
	return nil
}

// --- repository manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProjectsRepo
	s *fakeSettingsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: &fakeUsersRepo{},
		p: newFakeProjectsRepo(),
		s: &fakeSettingsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Projects(db dbx.DBTX) projectsrepo.Repository { return m.p }
func (m *fakeRepoManager) Settings(db dbx.DBTX) settingsrepo.Repository { return m.s }

// --- upload gateway ---

type fakeGateway struct {
	mu       sync.Mutex
	stored   []string
	deleted  []string
	storeErr error
	delErr   error
}

var _ uploads.Gateway = (*fakeGateway)(nil)

func (g *fakeGateway) Store(ctx context.Context, r io.Reader, filename string) (string, models.MediaType, error) {
	kind, ext, err := uploads.Classify(filename)
	if err != nil {
		return "", "", err
	}
	if g.storeErr != nil {
		return "", "", g.storeErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	url := fmt.Sprintf("/uploads/%d%s", len(g.stored)+1, ext)
	g.stored = append(g.stored, url)
	return url, kind, nil
}

func (g *fakeGateway) Delete(ctx context.Context, url string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, url)
	return g.delErr
}
