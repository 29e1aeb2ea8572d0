package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"MiniShowcase/internal/catalog"
	"MiniShowcase/internal/config"
	"MiniShowcase/internal/session"
	"MiniShowcase/internal/storefront"
	"MiniShowcase/pkg/kit"
)

const service = "showcase"

var openPostgres = catalog.OpenPostgres

func main() {
	os.Exit(start())
}

// start returns the process exit code once every deferred cleanup has run.
func start() int {
	cfg, err := config.Load()
	if err != nil {
		log := kit.NewLogger(service, "info")
		log.Error("load config", zap.Error(err))
		_ = log.Sync()
		return 1
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("showcase stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	table, err := loadTable(ctx, cfg, log)
	if err != nil {
		return err
	}
	log.Info("catalog loaded", zap.Int("products", table.Len()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sessions := session.NewRegistry(cfg.Session.TTL, log)
	limiter := kit.NewIPRateLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)

	s := &storefront.Server{
		Table:    table,
		Loader:   catalog.NewLoader(table, catalog.WithDelay(cfg.Catalog.LoadDelay), catalog.WithLogger(log)),
		Sessions: sessions,
		Tokens:   session.NewTokenMaker(cfg.Session.Secret),
		Views: storefront.ViewOptions{
			ListingImage: cfg.Catalog.ListingImage,
			DetailImage:  cfg.Catalog.DetailImage,
			Gallery:      cfg.Catalog.GalleryImages,
			MaxWait:      cfg.Catalog.MaxWait,
		},
		Metrics: storefront.NewViewMetrics(reg),
		Limiter: limiter,
		Log:     log,
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return kit.RunHTTPServer(gctx, cfg.Addr, h, cfg.Graceful.ShutdownTimeout, log)
	})
	g.Go(func() error {
		return sessions.Run(gctx, cfg.Session.SweepInterval)
	})
	g.Go(func() error {
		t := time.NewTicker(cfg.RateLimit.Window)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-t.C:
				limiter.Cleanup()
			}
		}
	})

	return g.Wait()
}

// loadTable reads the catalog once and releases the source; nothing reads
// it again after startup.
func loadTable(ctx context.Context, cfg *config.Config, log *zap.Logger) (*catalog.Table, error) {
	src, closeSrc, err := openSource(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	table, err := catalog.LoadTable(ctx, src)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	return table, nil
}

// openSource picks PostgreSQL when a database URL is configured and the JSON
// products file (or the embedded data) otherwise.
func openSource(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalog.Source, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("using JSON catalog", zap.String("file", cfg.ProductsFile))
		return catalog.JSONSource{Path: cfg.ProductsFile}, func() {}, nil
	}

	db, err := openPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open postgres")
	}
	log.Info("using postgres catalog")
	return catalog.NewPostgresSource(db), func() { closeDB(db, log) }, nil
}

func closeDB(db *sql.DB, log *zap.Logger) {
	if err := db.Close(); err != nil {
		log.Warn("close db", zap.Error(err))
	}
}
