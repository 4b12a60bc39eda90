package bootstrap

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/chittyos/intake/internal/bootstrap/config"
	"github.com/chittyos/intake/internal/bootstrap/database"
	"github.com/chittyos/intake/internal/bootstrap/logging"
	blobinfra "github.com/chittyos/intake/internal/infrastructure/blob"
	fetchinfra "github.com/chittyos/intake/internal/infrastructure/fetch"
	sqliterepo "github.com/chittyos/intake/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "github.com/chittyos/intake/internal/infrastructure/persistence/sqlite/uow"
	streaminfra "github.com/chittyos/intake/internal/infrastructure/stream"
	"github.com/chittyos/intake/internal/infrastructure/workflowengine"
	"github.com/chittyos/intake/internal/ports"
	usecaseintake "github.com/chittyos/intake/internal/usecase/intake"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(provideS3Client),
	fx.Provide(provideBlobStore),
	fx.Provide(provideRejectionArchive),
	fx.Provide(provideEventStream),
	fx.Provide(provideWorkflowEngine),
	fx.Provide(provideFetchRegistry),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewDocumentRepository,
			fx.As(new(ports.DocumentRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewCaseRepository,
			fx.As(new(ports.CaseReader)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewIntakeLogRepository,
			fx.As(new(ports.IntakeLogRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewRejectionRepository,
			fx.As(new(ports.RejectionRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(usecaseintake.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideS3Client(ctx context.Context, cfg config.Config) (*s3.Client, error) {
	return blobinfra.NewS3Client(ctx, cfg.Storage)
}

func provideBlobStore(client *s3.Client, cfg config.Config) ports.BlobStore {
	return blobinfra.NewS3Store(client, cfg.Storage.Bucket)
}

func provideRejectionArchive(client *s3.Client, cfg config.Config) ports.RejectionArchive {
	return blobinfra.NewS3RejectionArchive(client, cfg.Storage.ArchiveBucket)
}

// provideEventStream yields nil when no stream is configured; the service
// then runs the synchronous path.
func provideEventStream(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.EventStream, error) {
	if !cfg.Stream.Enabled {
		return nil, nil
	}

	natsStream, err := streaminfra.Connect(ctx, cfg.Stream)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			natsStream.Close()
			return nil
		},
	})

	return natsStream, nil
}

func provideWorkflowEngine(cfg config.Config) (ports.WorkflowEngine, error) {
	return workflowengine.NewClient(cfg.Workflow)
}

// provideFetchRegistry registers one fetcher per origin in dispatch order,
// staging blob last as the catch-all.
func provideFetchRegistry(cfg config.Config, client *s3.Client) (usecaseintake.FetcherRegistry, error) {
	registry := fetchinfra.NewRegistry()
	timeout := cfg.Fetch.Timeout

	fetchers := []ports.SourceFetcher{
		fetchinfra.NewCloudDriveFetcher(cfg.Fetch.CloudDriveURL, timeout),
		fetchinfra.NewEmailFetcher(cfg.Fetch.EmailStoreURL, timeout),
		fetchinfra.NewCourtGatewayFetcher(cfg.Fetch.CourtGatewayURL, cfg.Fetch.CourtGatewayKey, timeout),
		fetchinfra.NewClientPortalFetcher(cfg.Fetch.ClientPortalURL, cfg.Fetch.ClientPortalKey, timeout),
		fetchinfra.NewDirectURLFetcher(timeout),
	}
	for _, fetcher := range fetchers {
		if err := registry.Register(fetcher); err != nil {
			return nil, err
		}
	}

	stagingStore := blobinfra.NewS3Store(client, cfg.Fetch.StagingBucket)
	if err := registry.RegisterCatchAll(fetchinfra.NewStagingFetcher(stagingStore, cfg.Fetch.StagingKeyPrefix)); err != nil {
		return nil, err
	}

	return registry, nil
}
