package v1

import (
	"github.com/shopspring/decimal"

	fillv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1"
)

// RawFillEvent represents a fill event from the fills topic.
type RawFillEvent struct {
	SequenceNumber int64  `json:"sequenceNumber"`
	Timestamp      int64  `json:"timestamp"`
	Side           string `json:"side"`
	USDVolume      string `json:"usdVolume"`
}

// ToFill converts the raw event to the domain fill.
func (e *RawFillEvent) ToFill() (*fillv1.Fill, error) {
	volume, err := decimal.NewFromString(e.USDVolume)
	if err != nil {
		return nil, err
	}

	return &fillv1.Fill{
		SequenceNumber: e.SequenceNumber,
		Timestamp:      e.Timestamp,
		Side:           fillv1.Side(e.Side),
		USDVolume:      volume,
	}, nil
}
