package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vbonduro/rateboard/internal/blobstore"
	"github.com/vbonduro/rateboard/internal/blobstore/local"
	"github.com/vbonduro/rateboard/internal/blobstore/s3"
	"github.com/vbonduro/rateboard/internal/db"
	"github.com/vbonduro/rateboard/internal/metrics"
	"github.com/vbonduro/rateboard/internal/service"
	"github.com/vbonduro/rateboard/internal/store"
	"github.com/vbonduro/rateboard/internal/web"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return a.serve(c.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	database, err := a.openDB()
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			a.logger.Error("failed to close database", "error", err)
		}
	}()

	blobs, err := a.newBlobStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize upload storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := service.NewBoardService(service.Repositories{
		Rates:    store.NewRateStore(database),
		Settings: store.NewSettingsStore(database),
		Banner:   store.NewBannerStore(database),
		Media:    store.NewMediaStore(database),
		Promo:    store.NewPromoStore(database),
	}, blobs, m, a.cfg.MaxImageWidth, a.logger)

	server := web.NewServer(svc, database, web.Options{
		AllowedOrigins: a.cfg.AllowedOrigins,
		Metrics:        m,
		Gatherer:       reg,
	}, a.logger)

	if err := server.ListenAndServe(ctx, a.cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (a *app) openDB() (*sql.DB, error) {
	if a.cfg.TestMode {
		a.logger.Warn("test mode: using an in-memory database")
		return db.OpenForTesting()
	}
	return db.Open(a.cfg.DBPath)
}

func (a *app) newBlobStore(ctx context.Context) (blobstore.BlobStore, error) {
	switch a.cfg.UploadBackend {
	case "s3":
		a.logger.Info("using S3 upload storage", "bucket", a.cfg.S3.Bucket, "endpoint", a.cfg.S3.Endpoint)
		return s3.New(ctx, s3.Config{
			Bucket:    a.cfg.S3.Bucket,
			Region:    a.cfg.S3.Region,
			Endpoint:  a.cfg.S3.Endpoint,
			AccessKey: a.cfg.S3.AccessKey,
			SecretKey: a.cfg.S3.SecretKey,
		})
	default:
		a.logger.Info("using local upload storage", "path", a.cfg.UploadLocalPath)
		return local.New(a.cfg.UploadLocalPath)
	}
}
