package v1

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/hourly"
)

// Side represents the taker side of a trade.
type Side string

const (
	// SideBuy represents a taker buy.
	SideBuy Side = "buy"
	// SideSell represents a taker sell.
	SideSell Side = "sell"
)

// Valid reports whether the side is one of the known values.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Fill represents a single execution report. Multiple fills can share one
// sequence number; that equivalence class is the taker trade counted by the
// C/B/S aggregates. Every fill of one trade carries the same side.
type Fill struct {
	SequenceNumber int64
	Timestamp      int64 // seconds since epoch
	Side           Side
	USDVolume      decimal.Decimal
}

// HourKey returns the bucket key of the hour this fill belongs to.
func (f *Fill) HourKey() int64 {
	return hourly.BucketStart(f.Timestamp)
}

// Validate checks the fill against the data model.
func (f *Fill) Validate() error {
	if f.Timestamp < 0 {
		return fmt.Errorf("negative timestamp %d", f.Timestamp)
	}
	if !f.Side.Valid() {
		return fmt.Errorf("unknown side %q", f.Side)
	}
	if f.USDVolume.IsNegative() {
		return fmt.Errorf("negative usd volume %s", f.USDVolume)
	}
	return nil
}
