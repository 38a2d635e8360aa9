package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/mediatracker/internal/audit"
	"github.com/mrlokans/mediatracker/internal/config"
	"github.com/mrlokans/mediatracker/internal/database"
	auditrepo "github.com/mrlokans/mediatracker/internal/database/audit"
	"github.com/mrlokans/mediatracker/internal/database/settings"
	"github.com/mrlokans/mediatracker/internal/exporters"
	http_controllers "github.com/mrlokans/mediatracker/internal/http"
	"github.com/mrlokans/mediatracker/internal/logging"
	"github.com/mrlokans/mediatracker/internal/repository"
	"github.com/mrlokans/mediatracker/internal/scheduler"
	"github.com/mrlokans/mediatracker/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("server exiting")
}

func Run(cfg *config.Config, version string) {
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)
	log.Info().Str("version", version).Msg("starting mediatracker")

	db, err := database.NewDatabase(cfg.Database.Path, database.WithLogLevel(cfg.Database.LogLevel))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()

	repo := repository.New(db)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	exporter := exporters.NewCSVExporter(repo)

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize task queue")
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error().Err(err).Msg("error closing task client")
			}
		}()

		taskClient.Register(
			tasks.NewCleanupOrphanGenresQueue(repo, auditService),
			tasks.NewExportCatalogQueue(exporter, auditService),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if _, err := taskClient.Add(tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays}).Save(); err != nil {
			log.Warn().Err(err).Msg("failed to enqueue audit cleanup")
		}
	}

	backups := scheduler.NewBackupScheduler(
		scheduler.BackupConfig{
			Enabled:  cfg.Backup.Enabled,
			Schedule: cfg.Backup.Schedule,
			Dir:      cfg.Backup.Dir,
		},
		exporter,
		settings.NewRepository(db.DB),
		auditService,
	)
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if err := backups.Start(schedulerCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to start backup scheduler")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:   db,
		Repository: repo,
		Auditor:    auditService,
		Backups:    backups,
		ExportDir:  cfg.Backup.Dir,
		Version:    version,
	}
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		backups.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		auditService.Flush()
	}

	Serve(router, cfg, onShutdown)
}
