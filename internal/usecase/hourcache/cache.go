// Package hourcache implements the bounded hour-bucket cache that sits
// between the query engine and the fill source. Entries are immutable once
// stored; only capacity pressure removes them.
package hourcache

import (
	"container/list"
	"context"
	"fmt"

	fillv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/errors"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/hourly"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/logger"
)

// DefaultCapacity is one week of hour buckets.
const DefaultCapacity = 168

type entry struct {
	hourKey int64
	fills   []fillv1.Fill
}

// Cache maps an hour key to the ordered fills of that hour, evicting the
// least-recently-used bucket once capacity is reached. Get, insert and evict
// are all O(1): the recency list is doubly linked and the index maps hour
// keys to list elements.
//
// Cache is not safe for concurrent use; queries are evaluated one at a time.
type Cache struct {
	capacity int
	source   fillv1.Source
	logger   logger.Interface

	recency *list.List // front is most recently used
	index   map[int64]*list.Element

	hits   int64
	misses int64
}

// New creates a Cache over source. A non-positive capacity falls back to
// DefaultCapacity.
func New(source fillv1.Source, log logger.Interface, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		source:   source,
		logger:   log,
		recency:  list.New(),
		index:    make(map[int64]*list.Element, capacity),
	}
}

// GetOrFetch returns the fills of the requested hour, fetching from the fill
// source on a miss. A failed or malformed fetch leaves the hour absent so a
// later call re-attempts it.
func (c *Cache) GetOrFetch(ctx context.Context, hourKey int64) ([]fillv1.Fill, error) {
	if el, ok := c.index[hourKey]; ok {
		c.recency.MoveToFront(el)
		c.hits++
		c.logger.DebugContext(ctx, "cache hit", logger.Field{Key: "hour_key", Value: hourKey})
		return el.Value.(*entry).fills, nil
	}

	c.logger.DebugContext(ctx, "cache miss", logger.Field{Key: "hour_key", Value: hourKey})

	fills, err := c.source.FetchHour(ctx, hourKey)
	if err != nil {
		if errors.HasCode(err, errors.MalformedRecordError) {
			return nil, errors.TracerFromError(err)
		}
		return nil, errors.TracerFromError(errors.NewSourceUnavailable(hourKey, err))
	}

	if err := validateHour(hourKey, fills); err != nil {
		return nil, errors.TracerFromError(err)
	}

	c.insert(hourKey, fills)
	c.misses++
	return fills, nil
}

// Len returns the number of hours currently cached.
func (c *Cache) Len() int {
	return c.recency.Len()
}

// Contains reports whether an hour is cached without touching its recency.
func (c *Cache) Contains(hourKey int64) bool {
	_, ok := c.index[hourKey]
	return ok
}

func (c *Cache) insert(hourKey int64, fills []fillv1.Fill) {
	if c.recency.Len() >= c.capacity {
		c.evictOldest()
	}
	el := c.recency.PushFront(&entry{hourKey: hourKey, fills: fills})
	c.index[hourKey] = el
}

func (c *Cache) evictOldest() {
	el := c.recency.Back()
	if el == nil {
		return
	}
	ent := el.Value.(*entry)
	c.recency.Remove(el)
	delete(c.index, ent.hourKey)
	c.logger.Debug("evicted hour",
		logger.Field{Key: "hour_key", Value: ent.hourKey},
		logger.Field{Key: "fills", Value: len(ent.fills)},
	)
}

// validateHour rejects the whole fetch on the first record violating the
// data model; silently dropping a record would corrupt the aggregates.
func validateHour(hourKey int64, fills []fillv1.Fill) error {
	for i := range fills {
		f := &fills[i]
		if err := f.Validate(); err != nil {
			return errors.NewMalformedRecord(hourKey, err.Error())
		}
		if !hourly.Contains(hourKey, f.Timestamp) {
			return errors.NewMalformedRecord(hourKey, fmt.Sprintf("timestamp %d outside bucket", f.Timestamp))
		}
	}
	return nil
}
