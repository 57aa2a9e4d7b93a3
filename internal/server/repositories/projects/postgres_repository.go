// Package projects persists the project aggregate: one row per project with
// its media list embedded as a JSONB array.
package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lightbox/internal/common"
	"github.com/dmitrijs2005/lightbox/internal/dbx"
	"github.com/dmitrijs2005/lightbox/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const selectColumns = `id, title, client, date, location, description, media,
		 featured, published, sort_order, version, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*models.Project, error) {
	var (
		p     models.Project
		media []byte
		order sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Title, &p.Client, &p.Date, &p.Location, &p.Description, &media,
		&p.Featured, &p.Published, &order, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Media = []models.Media{}
	if len(media) > 0 {
		if err := json.Unmarshal(media, &p.Media); err != nil {
			return nil, fmt.Errorf("decode media of %s: %w", p.ID, err)
		}
	}
	if order.Valid {
		o := int(order.Int64)
		p.Order = &o
	}
	return &p, nil
}

func encodeMedia(media []models.Media) ([]byte, error) {
	if media == nil {
		media = []models.Media{}
	}
	return json.Marshal(media)
}

func nullOrder(order *int) sql.NullInt64 {
	if order == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*order), Valid: true}
}

// Create inserts p with version 1. An id collision yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, p *models.Project) error {
	media, err := encodeMedia(p.Media)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO projects (id, title, client, date, location, description, media,
		 featured, published, sort_order, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, $12)
		 `

	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Client, p.Date, p.Location, p.Description, media,
		p.Featured, p.Published, nullOrder(p.Order), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	p.Version = 1
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + selectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// List returns projects in storage order; callers apply the display ordering.
func (r *PostgresRepository) List(ctx context.Context, publishedOnly bool) ([]*models.Project, error) {
	query := `SELECT ` + selectColumns + ` FROM projects`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update writes the whole document if its stored version still equals
// p.Version, then advances p.Version. A stale version yields
// common.ErrVersionConflict, a missing row common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, p *models.Project) error {
	media, err := encodeMedia(p.Media)
	if err != nil {
		return err
	}

	query :=
		`UPDATE projects SET title = $3, client = $4, date = $5, location = $6,
		 description = $7, media = $8, featured = $9, published = $10,
		 sort_order = $11, updated_at = $12, version = version + 1
		 WHERE id = $1 AND version = $2
		 `

	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Version, p.Title, p.Client, p.Date, p.Location, p.Description, media,
		p.Featured, p.Published, nullOrder(p.Order), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		exists, err := r.exists(ctx, p.ID)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrVersionConflict
		}
		return common.ErrorNotFound
	}

	p.Version++
	return nil
}

func (r *PostgresRepository) exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, version int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1 AND version = $2`, id, version)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrVersionConflict
		}
		return common.ErrorNotFound
	}
	return nil
}

// SetOrder assigns the display position of one project. It bumps the version
// so that concurrent read-modify-write cycles notice the change.
func (r *PostgresRepository) SetOrder(ctx context.Context, id string, order int) error {
	query :=
		`UPDATE projects SET sort_order = $2, updated_at = $3, version = version + 1
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, order, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
