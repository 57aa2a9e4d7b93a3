package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/lightbox/internal/common"
	"github.com/dmitrijs2005/lightbox/internal/logging"
	"github.com/dmitrijs2005/lightbox/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projectFixture struct {
	rm  *fakeRepoManager
	gw  *fakeGateway
	svc *ProjectService
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	gw := &fakeGateway{}
	return &projectFixture{rm: rm, gw: gw, svc: NewProjectService(db, rm, gw, logging.Nop{})}
}

func ids(ps []*models.Project) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestProjectCreate_SlugAndCollision(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	p1, err := f.svc.Create(ctx, models.ProjectInput{Title: "Test Photography Project", Featured: true})
	require.NoError(t, err)
	assert.Equal(t, "test-photography-project", p1.ID)
	assert.True(t, p1.Featured)
	assert.True(t, p1.Published, "published by default")
	assert.Equal(t, int64(1), p1.Version)
	assert.NotNil(t, p1.Media)
	assert.Empty(t, p1.Media)
	assert.Equal(t, p1.CreatedAt, p1.UpdatedAt)

	p2, err := f.svc.Create(ctx, models.ProjectInput{Title: "Test Photography Project"})
	require.NoError(t, err)
	assert.NotEqual(t, p1.ID, p2.ID)
	assert.True(t, strings.HasPrefix(p2.ID, "test-photography-project-"), p2.ID)
}

func TestProjectCreate_Validation(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.Create(context.Background(), models.ProjectInput{Title: "   "})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}
}

func TestProjectCreate_FallbackSlugAndUnpublished(t *testing.T) {
	f := newProjectFixture(t)

	p, err := f.svc.Create(context.Background(), models.ProjectInput{Title: "!!!", Published: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "project", p.ID)
	assert.False(t, p.Published)
}

func TestProjectList_PublicHidesDrafts(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, models.ProjectInput{Title: "Live"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, models.ProjectInput{Title: "Draft", Published: ptr(false)})
	require.NoError(t, err)

	public, err := f.svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, ids(public))

	admin, err := f.svc.ListAdmin(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"live", "draft"}, ids(admin))
}

func TestProjectList_Error(t *testing.T) {
	f := newProjectFixture(t)
	f.rm.p.listErr = errors.New("db down")

	_, err := f.svc.ListAdmin(context.Background())
	require.Error(t, err)
}

func TestSortProjects(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ps := []*models.Project{
		{ID: "legacy-old", CreatedAt: base},
		{ID: "second", Order: ptr(1), CreatedAt: base},
		{ID: "legacy-new", CreatedAt: base.Add(time.Hour)},
		{ID: "first", Order: ptr(0), CreatedAt: base},
		{ID: "second-newer", Order: ptr(1), CreatedAt: base.Add(time.Minute)},
	}

	sortProjects(ps)

	assert.Equal(t, []string{"first", "second-newer", "second", "legacy-new", "legacy-old"}, ids(ps))
}

func TestSortProjects_ExtremeOrders(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ps := []*models.Project{
		{ID: "one", Order: ptr(1), CreatedAt: base},
		{ID: "min", Order: ptr(math.MinInt), CreatedAt: base},
		{ID: "max", Order: ptr(math.MaxInt), CreatedAt: base},
	}

	sortProjects(ps)

	assert.Equal(t, []string{"min", "one", "max"}, ids(ps))
}

func TestProjectGet_NotFound(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.Get(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestProjectUpdate(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, models.ProjectInput{Title: "Summer", Client: "ACME"})
	require.NoError(t, err)

	orig := timeNow
	later := p.UpdatedAt.Add(time.Hour)
	timeNow = func() time.Time { return later }
	defer func() { timeNow = orig }()

	got, err := f.svc.Update(ctx, p.ID, models.ProjectPatch{Title: ptr("Winter"), Published: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "summer", got.ID, "rename keeps the id")
	assert.Equal(t, "Winter", got.Title)
	assert.Equal(t, "ACME", got.Client)
	assert.False(t, got.Published)
	assert.Equal(t, later, got.UpdatedAt)
	assert.Equal(t, int64(2), got.Version)

	_, err = f.svc.Update(ctx, "missing", models.ProjectPatch{})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestProjectDelete_CascadesAssets(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, models.ProjectInput{Title: "Gone"})
	require.NoError(t, err)

	stored, err := f.rm.p.Get(ctx, p.ID)
	require.NoError(t, err)
	stored.Media = []models.Media{{ID: "a", URL: "/uploads/a.png"}, {ID: "b", URL: "/uploads/b.mp4"}}
	require.NoError(t, f.rm.p.Update(ctx, stored))

	// asset failures do not block the delete
	f.gw.delErr = errors.New("disk busy")

	require.NoError(t, f.svc.Delete(ctx, p.ID))
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.mp4"}, f.gw.deleted)

	public, err := f.svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)
	admin, err := f.svc.ListAdmin(ctx)
	require.NoError(t, err)
	assert.Empty(t, admin)

	err = f.svc.Delete(ctx, p.ID)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestProjectDelete_StaleReadKeepsAssets(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	media := NewMediaService(nil, f.rm, f.gw, logging.Nop{})

	p, err := f.svc.Create(ctx, models.ProjectInput{Title: "Busy"})
	require.NoError(t, err)
	a, err := media.Add(ctx, p.ID, strings.NewReader("x"), "a.png", "")
	require.NoError(t, err)

	// an upload lands between the read and the delete
	var late *models.Media
	f.rm.p.beforeUpdate = func() {
		late, err = media.Add(ctx, p.ID, strings.NewReader("y"), "b.png", "")
		require.NoError(t, err)
	}

	err = f.svc.Delete(ctx, p.ID)
	if !errors.Is(err, common.ErrVersionConflict) {
		t.Fatalf("want ErrVersionConflict, got %v", err)
	}
	assert.Empty(t, f.gw.deleted)

	stored, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Media, 2)

	require.NoError(t, f.svc.Delete(ctx, p.ID))
	assert.ElementsMatch(t, []string{a.URL, late.URL}, f.gw.deleted)
}

func TestProjectReorder_Commits(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	svc := NewProjectService(db, rm, &fakeGateway{}, logging.Nop{})
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		_, err := svc.Create(ctx, models.ProjectInput{Title: title})
		require.NoError(t, err)
	}

	mock.ExpectBegin()
	mock.ExpectCommit()

	got, err := svc.Reorder(ctx, []models.OrderItem{{ID: "c", Order: 0}, {ID: "a", Order: 1}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectReorder_UnknownRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	svc := NewProjectService(db, rm, &fakeGateway{}, logging.Nop{})
	ctx := context.Background()

	_, err := svc.Create(ctx, models.ProjectInput{Title: "A"})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = svc.Reorder(ctx, []models.OrderItem{{ID: "a", Order: 0}, {ID: "ghost", Order: 1}})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
