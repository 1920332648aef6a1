package fill

import (
	"context"

	fillv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// FillRepository is the interface for the QuestDB-backed fill dataset.
type FillRepository interface {
	CreateTable(ctx context.Context) error
	FetchHour(ctx context.Context, hourKey int64) ([]fillv1.Fill, error)
	Store(ctx context.Context, fill *fillv1.Fill) error
	StoreBatch(ctx context.Context, fills []fillv1.Fill) error
}
