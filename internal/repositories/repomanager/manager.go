package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/onboard/internal/dbx"
	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/repositories/buildings"
	"github.com/dmitrijs2005/onboard/internal/repositories/links"
	"github.com/dmitrijs2005/onboard/internal/repositories/profiles"
	"github.com/dmitrijs2005/onboard/internal/repositories/tags"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Profiles(db dbx.DBTX) profiles.Repository
	Tags(db dbx.DBTX, kind models.TagKind) (tags.Repository, error)
	Links(db dbx.DBTX, kind models.TagKind) (links.Repository, error)
	Buildings(db dbx.DBTX) buildings.Repository
}
