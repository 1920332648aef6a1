// Package query implements the range-aggregate engine over hour-bucketed
// fills. Evaluation is a pure function of the query and the cache contents.
package query

import (
	"context"

	"github.com/shopspring/decimal"

	fillv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1"
	queryv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/query/v1"
	"github.com/AarjavPatni/orderbook-proxy-api-server/internal/usecase/hourcache"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/errors"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/hourly"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/logger"
)

// Engine resolves a query's time range to hour buckets, pulls them through
// the cache, and computes the requested aggregate.
type Engine struct {
	cache  *hourcache.Cache
	logger logger.Interface
}

// NewEngine creates a new Engine.
func NewEngine(cache *hourcache.Cache, log logger.Interface) *Engine {
	return &Engine{cache: cache, logger: log}
}

// Evaluate computes the aggregate for q. The matching predicate for a fill
// is q.Start < Timestamp <= q.End. A range wider than one hour or with
// End before Start is rejected before the cache is touched.
func (e *Engine) Evaluate(ctx context.Context, q queryv1.Query) (*queryv1.Result, error) {
	if q.End < q.Start || q.End-q.Start > hourly.BucketSeconds {
		return nil, errors.TracerFromError(errors.NewInvalidRange(string(q.Type), q.Start, q.End))
	}

	var fills []fillv1.Fill
	for _, hourKey := range hourly.CoveringKeys(q.Start, q.End) {
		bucket, err := e.cache.GetOrFetch(ctx, hourKey)
		if err != nil {
			e.logger.ErrorContext(ctx, err,
				logger.Field{Key: "query_type", Value: string(q.Type)},
				logger.Field{Key: "start", Value: q.Start},
				logger.Field{Key: "end", Value: q.End},
				logger.Field{Key: "hour_key", Value: hourKey},
			)
			return nil, err
		}
		fills = append(fills, bucket...)
	}

	return aggregate(q, fills), nil
}

// aggregate filters fills to the exclusive/inclusive range and folds them
// into the result. Trade counts deduplicate by sequence number: a taker
// trade counts once when any of its fills qualifies. Volume sums every
// qualifying fill without deduplication.
func aggregate(q queryv1.Query, fills []fillv1.Fill) *queryv1.Result {
	res := &queryv1.Result{Type: q.Type, Volume: decimal.Zero}

	var buys, sells int64
	seen := make(map[int64]struct{}, len(fills))

	for i := range fills {
		f := &fills[i]
		if f.Timestamp <= q.Start || f.Timestamp > q.End {
			continue
		}
		if _, ok := seen[f.SequenceNumber]; !ok {
			seen[f.SequenceNumber] = struct{}{}
			if f.Side == fillv1.SideBuy {
				buys++
			} else {
				sells++
			}
		}
		res.Volume = res.Volume.Add(f.USDVolume)
	}

	switch q.Type {
	case queryv1.TypeBuy:
		res.Count = buys
	case queryv1.TypeSell:
		res.Count = sells
	default:
		res.Count = buys + sells
	}

	return res
}
