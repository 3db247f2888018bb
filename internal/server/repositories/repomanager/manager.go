package repomanager

import (
	"context"
	"database/sql"

	"github.com/culvertcrawlers/fieldsurvey/internal/dbx"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/repositories/surveys"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Surveys(db dbx.DBTX) surveys.Repository
}
