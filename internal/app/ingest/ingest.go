// Package ingest wires the Kafka fill consumer that builds the dataset a
// query run reads from. It runs offline, before the proxy.
package ingest

import (
	"context"

	"github.com/AarjavPatni/orderbook-proxy-api-server/internal/consumer"
	fillConsumerV1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill-consumer/v1"
	questdbFill "github.com/AarjavPatni/orderbook-proxy-api-server/internal/infrastructure/questdb/fill"
	sqliteFill "github.com/AarjavPatni/orderbook-proxy-api-server/internal/infrastructure/sqlite/fill"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/config"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/logger"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/questdb"
)

// FillIngest owns the consumer and the dataset store it writes to.
type FillIngest struct {
	Consumer fillConsumerV1.FillConsumer
	Config   config.Config

	logger logger.Interface
	db     questdb.QuestDBClient
	store  *sqliteFill.Store
}

// InitFillIngest creates a new FillIngest for the configured dataset driver.
func InitFillIngest(ctx context.Context, cfg config.Config, log logger.Interface) (*FillIngest, error) {
	ingest := &FillIngest{
		Config: cfg,
		logger: log,
	}

	var (
		writer fillConsumerV1.FillWriter
		dbTx   questdb.TX
	)

	switch cfg.Source.Driver {
	case config.DriverSQLite:
		store, err := sqliteFill.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		ingest.store = store
		writer = store
	default:
		client, err := questdb.NewClient(ctx, cfg.QuestDB)
		if err != nil {
			return nil, err
		}
		ingest.db = client

		repository := questdbFill.NewRepository(client)
		if err := repository.CreateTable(ctx); err != nil {
			client.Close()
			return nil, err
		}
		writer = repository
		dbTx = questdb.NewTransaction(client)
	}

	ingest.Consumer = consumer.NewFillConsumer(cfg.FillKafka, log, writer, dbTx)
	return ingest, nil
}

// Close releases the dataset store.
func (f *FillIngest) Close() {
	if f.db != nil {
		f.db.Close()
	}
	if f.store != nil {
		f.store.Close()
	}
}
