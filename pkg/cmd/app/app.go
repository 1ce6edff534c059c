// Package app wires the store, catalog and services for the commands.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/catalog"
	"github.com/mpapenbr/clash-manager-go/pkg/config"
	"github.com/mpapenbr/clash-manager-go/pkg/db/postgres"
	"github.com/mpapenbr/clash-manager-go/pkg/service"
	"github.com/mpapenbr/clash-manager-go/pkg/store"
	"github.com/mpapenbr/clash-manager-go/pkg/store/file"
	pgstore "github.com/mpapenbr/clash-manager-go/pkg/store/postgres"
	"github.com/mpapenbr/clash-manager-go/pkg/utils"
)

type App struct {
	Store     store.Store
	Catalog   *catalog.Provider
	Loadouts  *service.LoadoutService
	Inventory *service.InventoryService
	GrandPrix *service.GrandPrixService
	Series    *service.SeriesService
	pool      *pgxpool.Pool
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger replaces the default logger according to the log flags.
func SetupLogger() error {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	if config.LogFilter != "" {
		filtered, err := logger.WithFilter(config.LogFilter)
		if err != nil {
			return fmt.Errorf("log filter %q: %w", config.LogFilter, err)
		}
		logger = filtered
	}
	log.ResetDefault(logger)
	return nil
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Warn("Invalid duration value. Using default",
			log.String("value", s), log.Duration("default", defaultVal))
		return defaultVal
	}
	return d
}

// New creates the store configured by config.StoreKind and the services on top.
func New(ctx context.Context) (*App, error) {
	ret := &App{}
	switch config.StoreKind {
	case config.StorePostgres:
		pool, err := connect(ctx)
		if err != nil {
			return nil, err
		}
		ret.pool = pool
		ret.Store = pgstore.New(pool)
	case config.StoreFile, "":
		ret.Store = file.New(config.DataDir)
	default:
		return nil, fmt.Errorf("unknown store %q", config.StoreKind)
	}
	ret.Catalog = catalog.NewProvider(ret.Store,
		catalog.WithTTL(parseDuration(config.CatalogTTL, 0)))
	ret.Loadouts = service.InitLoadoutService(ret.Store, ret.Catalog)
	ret.Inventory = service.InitInventoryService(ret.Store, ret.Catalog)
	ret.GrandPrix = service.InitGrandPrixService(ret.Store, ret.Catalog, ret.Loadouts)
	ret.Series = service.InitSeriesService(ret.Store, ret.Catalog, ret.Loadouts)
	return ret, nil
}

// WaitForDB blocks until the database of config.DB accepts connections.
func WaitForDB(ctx context.Context) error {
	timeout := parseDuration(config.WaitForServices, 60*time.Second)
	addr := utils.ExtractFromDBURL(config.DB)
	if err := utils.WaitForTCP(ctx, addr, timeout); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	return nil
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	if err := WaitForDB(ctx); err != nil {
		return nil, err
	}
	sqlLogger := log.Default().Named("sql")
	if config.SQLLogLevel != "" {
		sqlLogger = log.New(os.Stderr, parseLogLevel(config.SQLLogLevel, log.InfoLevel)).Named("sql")
	}
	return postgres.InitWithUrl(ctx, config.DB, postgres.WithTracer(sqlLogger))
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// Table returns a writer aligning tab separated columns. Call Flush when done.
func Table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Run creates the App for the duration of fn.
func Run(cmd *cobra.Command, fn func(ctx context.Context, a *App) error) error {
	ctx := log.AddToContext(cmd.Context(), log.Default())
	a, err := New(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
