package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/residate/internal/audit"
	"github.com/BruksfildServices01/residate/internal/calsync"
	"github.com/BruksfildServices01/residate/internal/config"
	dbpkg "github.com/BruksfildServices01/residate/internal/db"
	"github.com/BruksfildServices01/residate/internal/domain/business"
	"github.com/BruksfildServices01/residate/internal/domain/slot"
	"github.com/BruksfildServices01/residate/internal/export"
	infraRepo "github.com/BruksfildServices01/residate/internal/infra/repository"
	"github.com/BruksfildServices01/residate/internal/logging"
	"github.com/BruksfildServices01/residate/internal/mailer"
	"github.com/BruksfildServices01/residate/internal/realtime"
	"github.com/BruksfildServices01/residate/internal/routes"
	"github.com/BruksfildServices01/residate/internal/settings"
	"github.com/BruksfildServices01/residate/internal/timezone"
	ucBusiness "github.com/BruksfildServices01/residate/internal/usecase/business"
)

type storage struct {
	slots interface {
		slot.Repository
		business.Tombstones
	}
	businesses business.Repository
	settings   settings.Repository
	audit      audit.Store
}

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := timezone.Location(cfg.Timezone)

	// ======================================================
	// REALTIME
	// ======================================================
	bus := newBus(ctx, cfg)

	// ======================================================
	// STORAGE
	// ======================================================
	st, err := newStorage(cfg, bus)
	if err != nil {
		slog.Error("storage unavailable", "err", err)
		os.Exit(1)
	}

	auditLogger := audit.New(st.audit)
	auditDispatcher := audit.NewDispatcher(auditLogger)
	defer auditDispatcher.Close()

	if cfg.SeedDemoBusinesses {
		seedDemoBusinesses(ctx, st.businesses)
	}

	store := settings.NewStore(st.settings, bus)

	directory := ucBusiness.NewDirectory(st.businesses, st.slots, cfg.ExcludedBusinessNames)
	if err := directory.Watch(ctx, bus); err != nil {
		slog.Warn("directory watch failed, reading through", "err", err)
	}

	// ======================================================
	// CALENDAR SYNC
	// ======================================================
	direct := calsync.HTTPFetcher{Client: &http.Client{Timeout: 20 * time.Second}}

	var feeds calsync.Fetcher = direct
	if cfg.ICalProxyURL != "" {
		feeds = calsync.ProxyFetcher{BaseURL: cfg.ICalProxyURL, Client: direct.Client}
	}

	calendar := calsync.NewService(st.slots, store, feeds, auditDispatcher, loc)

	if cfg.SyncCron != "" {
		scheduler := calsync.NewScheduler(calendar)
		if err := scheduler.Start(ctx, cfg.SyncCron); err != nil {
			slog.Error("calendar scheduler disabled", "spec", cfg.SyncCron, "err", err)
		} else {
			defer scheduler.Stop()
		}
	}

	// ======================================================
	// EXPORTS
	// ======================================================
	var archiver export.Archiver = export.NoopArchiver{}
	if cfg.ExportBucket != "" {
		archiver = export.NewS3Archiver(export.S3Config{
			Bucket:    cfg.ExportBucket,
			Region:    cfg.AWSRegion,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	}

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.Default()

	routes.RegisterRoutes(r, routes.Deps{
		Slots:      st.slots,
		Businesses: st.businesses,
		Tombstones: st.slots,
		Settings:   store,
		Directory:  directory,
		Calendar:   calendar,
		Feeds:      direct,
		Audit:      auditDispatcher,
		AuditLog:   auditLogger,
		Bus:        bus,
		Archiver:   archiver,
		Mailer:     mailer.New(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom),
		Location:   loc,
	}, cfg)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		slog.Info("server running", "addr", cfg.Addr(), "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "err", err)
	}
}

// newBus fans changes out through Redis when configured. A Redis that
// cannot be reached falls back to in-process delivery.
func newBus(ctx context.Context, cfg *config.Config) realtime.Bus {
	if cfg.RedisURL == "" {
		return realtime.NewLocalBus()
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid REDIS_URL, using local bus", "err", err)
		return realtime.NewLocalBus()
	}

	bus := realtime.NewRedisBus(redis.NewClient(opts), cfg.RealtimeChannel)
	if err := bus.Start(ctx); err != nil {
		slog.Error("redis bus unavailable, using local bus", "err", err)
		return realtime.NewLocalBus()
	}
	return bus
}

func newStorage(cfg *config.Config, bus realtime.Bus) (storage, error) {
	if cfg.MemoryStorage() {
		return storage{
			slots:      infraRepo.NewMemorySlotRepository(bus),
			businesses: infraRepo.NewMemoryBusinessRepository(bus),
			settings:   infraRepo.NewMemorySettingsRepository(),
			audit:      infraRepo.NewMemoryAuditRepository(),
		}, nil
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return storage{}, err
	}
	return storage{
		slots:      infraRepo.NewSlotGormRepository(db, bus),
		businesses: infraRepo.NewBusinessGormRepository(db, bus),
		settings:   infraRepo.NewSettingsGormRepository(db),
		audit:      infraRepo.NewAuditGormRepository(db),
	}, nil
}

// seedDemoBusinesses installs the non-custom catalog entries that are
// missing. Existing rows are left as they are.
func seedDemoBusinesses(ctx context.Context, repo business.Repository) {
	for _, b := range business.DemoBusinesses() {
		existing, err := repo.Get(ctx, b.ID)
		if err != nil {
			slog.Warn("seed lookup failed", "business_id", b.ID, "err", err)
			continue
		}
		if existing != nil {
			continue
		}

		if err := repo.Create(ctx, &b); err != nil {
			slog.Warn("seed failed", "business_id", b.ID, "err", err)
			continue
		}
		slog.Info("seeded business", "business_id", b.ID)
	}
}
