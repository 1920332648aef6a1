// Package cli runs the line-oriented query stream: one query per input line,
// one aggregate per output line.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	queryv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/query/v1"
	"github.com/AarjavPatni/orderbook-proxy-api-server/internal/usecase/hourcache"
	"github.com/AarjavPatni/orderbook-proxy-api-server/internal/usecase/query"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/errors"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/logger"
)

// Runner reads queries from in, evaluates them strictly in order, and writes
// one result line per query to out.
type Runner struct {
	engine *query.Engine
	cache  *hourcache.Cache
	logger logger.Interface

	in  io.Reader
	out io.Writer
}

// NewRunner creates a new Runner.
func NewRunner(engine *query.Engine, cache *hourcache.Cache, log logger.Interface, in io.Reader, out io.Writer) *Runner {
	return &Runner{
		engine: engine,
		cache:  cache,
		logger: log,
		in:     in,
		out:    out,
	}
}

// Run processes the query stream until EOF. The first malformed line or
// failed query aborts the run with its error. On a clean EOF the cache
// statistics are logged.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting query processing")

	scanner := bufio.NewScanner(r.in)
	var seq int64

	for scanner.Scan() {
		seq++
		qctx := logger.ContextWithQuerySeq(ctx, seq)

		q, err := ParseQuery(scanner.Text())
		if err != nil {
			r.logger.ErrorContext(qctx, errors.TracerFromError(err))
			return err
		}

		res, err := r.engine.Evaluate(qctx, q)
		if err != nil {
			return err
		}

		fmt.Fprintln(r.out, res.Value())
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	r.logStats(ctx)
	return nil
}

// ParseQuery parses one input line "TYPE START END".
func ParseQuery(line string) (queryv1.Query, error) {
	var q queryv1.Query

	parts := strings.Fields(line)
	if len(parts) != 3 {
		return q, fmt.Errorf("invalid query format: %s", line)
	}

	queryType, err := queryv1.ParseType(parts[0])
	if err != nil {
		return q, err
	}

	start, err := parseTime(parts[1])
	if err != nil {
		return q, err
	}
	end, err := parseTime(parts[2])
	if err != nil {
		return q, err
	}

	q.Type = queryType
	q.Start = start
	q.End = end
	return q, nil
}

func parseTime(s string) (int64, error) {
	t, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if t < 0 {
		return 0, fmt.Errorf("negative time: %d", t)
	}
	return t, nil
}

func (r *Runner) logStats(ctx context.Context) {
	stats := r.cache.Stats()
	r.logger.InfoContext(ctx, "cache statistics",
		logger.Field{Key: "hours_cached", Value: stats.Hours},
		logger.Field{Key: "total_fills", Value: stats.Fills},
		logger.Field{Key: "max_hour_fills", Value: stats.MaxHourFills},
		logger.Field{Key: "approx_bytes", Value: stats.ApproxBytes},
		logger.Field{Key: "cache_hits", Value: stats.Hits},
		logger.Field{Key: "api_calls", Value: stats.Misses},
		logger.Field{Key: "hit_rate_pct", Value: fmt.Sprintf("%.2f", stats.HitRate())},
	)
}
