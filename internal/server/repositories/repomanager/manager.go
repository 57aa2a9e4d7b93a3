package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/lightbox/internal/dbx"
	"github.com/dmitrijs2005/lightbox/internal/server/repositories/projects"
	"github.com/dmitrijs2005/lightbox/internal/server/repositories/settings"
	"github.com/dmitrijs2005/lightbox/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Projects(db dbx.DBTX) projects.Repository
	Settings(db dbx.DBTX) settings.Repository
}
