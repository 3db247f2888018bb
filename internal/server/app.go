// Package server wires the survey server: Postgres storage with migrations,
// S3 photo storage, the HTTP API and the gRPC health service.
package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/config"
	gs "github.com/culvertcrawlers/fieldsurvey/internal/server/grpc"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/repositories/repomanager"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/rest"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/services"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/storage"
	"golang.org/x/sync/errgroup"
)

var (
	openDB = repomanager.OpenPostgres

	newRepoManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}

	newPhotoStore = func(ctx context.Context, o storage.S3Options) (storage.PhotoStore, error) {
		return storage.NewS3Store(ctx, o)
	}
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *rest.HTTPServer
	grpc   *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newPhotoStore(ctx, storage.S3Options{
		Region:       c.S3Region,
		RootUser:     c.S3RootUser,
		RootPassword: c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("photo storage init error: %w", err)
	}

	svc := services.NewSurveyService(db, rm, store, l)
	router := rest.NewRouter(rest.NewHandler(svc, c.MaxUploadBytes(), l), c.AllowedOrigins, l.With("module", "http"))

	return &App{
		config: c,
		logger: l,
		db:     db,
		http:   rest.NewHTTPServer(c.HTTPAddr, router, l),
		grpc:   gs.NewGRPCServer(c.GRPCAddr, l, svc, c.ReadinessInterval),
	}, nil
}

// Run serves HTTP and gRPC until ctx is cancelled or one of them fails.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")
	defer app.db.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.http.Run(ctx) })
	g.Go(func() error { return app.grpc.Run(ctx) })

	err := g.Wait()
	app.logger.Info(ctx, "App stopped")
	return err
}
