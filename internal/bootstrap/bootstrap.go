package bootstrap

import (
	"context"

	fillv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1"
	questdbFill "github.com/AarjavPatni/orderbook-proxy-api-server/internal/infrastructure/questdb/fill"
	sqliteFill "github.com/AarjavPatni/orderbook-proxy-api-server/internal/infrastructure/sqlite/fill"
	"github.com/AarjavPatni/orderbook-proxy-api-server/internal/usecase/hourcache"
	"github.com/AarjavPatni/orderbook-proxy-api-server/internal/usecase/query"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/config"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/logger"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/questdb"
)

// Bootstrap wires the fill source, hour cache and query engine for the
// proxy binary.
type Bootstrap struct {
	Logger logger.Interface
	Source fillv1.Source
	Cache  *hourcache.Cache
	Engine *query.Engine

	QuestDB questdb.QuestDBClient // nil when the sqlite driver is selected
	SQLite  *sqliteFill.Store     // nil when the questdb driver is selected
}

// BootstrapConfig is the config for the bootstrap.
type BootstrapConfig struct {
	Config *config.Config
	Logger logger.Interface
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(ctx context.Context, cfg BootstrapConfig) error {
	b.Logger = cfg.Logger

	if err := b.registerSource(ctx, cfg.Config); err != nil {
		return err
	}
	b.registerUsecase(cfg.Config)

	return nil
}

// Close releases the source backing the run.
func (b *Bootstrap) Close() {
	if b.QuestDB != nil {
		b.QuestDB.Close()
	}
	if b.SQLite != nil {
		b.SQLite.Close()
	}
}

func (b *Bootstrap) registerSource(ctx context.Context, cfg *config.Config) error {
	switch cfg.Source.Driver {
	case config.DriverSQLite:
		store, err := sqliteFill.Open(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		b.SQLite = store
		b.Source = store
	default:
		client, err := questdb.NewClient(ctx, cfg.QuestDB)
		if err != nil {
			return err
		}
		b.QuestDB = client
		b.Source = questdbFill.NewRepository(client)
	}
	return nil
}

func (b *Bootstrap) registerUsecase(cfg *config.Config) {
	b.Cache = hourcache.New(b.Source, b.Logger, cfg.Cache.Capacity)
	b.Engine = query.NewEngine(b.Cache, b.Logger)
}
