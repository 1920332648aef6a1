package v1

import (
	"context"

	fillv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1"
)

//go:generate mockgen -source=consumer.go -destination=mock/consumer_mock.go -package=mock

// FillConsumer represents a consumer that ingests fill events into the
// dataset store.
type FillConsumer interface {
	Start(ctx context.Context)
	Stop() error
	Subscribe(ctx context.Context)
}

// FillWriter persists ingested fills. Both dataset backends implement it.
type FillWriter interface {
	Store(ctx context.Context, fill *fillv1.Fill) error
	StoreBatch(ctx context.Context, fills []fillv1.Fill) error
}
