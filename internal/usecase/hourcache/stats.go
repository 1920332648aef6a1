package hourcache

import (
	"unsafe"

	fillv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1"
)

// Stats is a snapshot of cache occupancy and effectiveness counters.
type Stats struct {
	Hours        int
	Fills        int
	MaxHourFills int
	ApproxBytes  int
	Hits         int64
	Misses       int64
}

// HitRate returns the percentage of accesses served from the cache.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Stats walks the cached entries and returns a snapshot. ApproxBytes is an
// estimate from static struct sizes; decimal volumes carry heap-allocated
// digits it does not see.
func (c *Cache) Stats() Stats {
	stats := Stats{
		Hours:  c.recency.Len(),
		Hits:   c.hits,
		Misses: c.misses,
	}

	fillSize := int(unsafe.Sizeof(fillv1.Fill{}))
	for el := c.recency.Front(); el != nil; el = el.Next() {
		ent := el.Value.(*entry)
		n := len(ent.fills)
		stats.Fills += n
		if n > stats.MaxHourFills {
			stats.MaxHourFills = n
		}
		stats.ApproxBytes += int(unsafe.Sizeof(*ent)) + n*fillSize
	}

	return stats
}
