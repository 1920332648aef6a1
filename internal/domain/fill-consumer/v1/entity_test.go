package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fillv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1"
)

func TestRawFillEvent_ToFill(t *testing.T) {
	event := RawFillEvent{
		SequenceNumber: 7,
		Timestamp:      3700,
		Side:           "buy",
		USDVolume:      "12.50",
	}

	fill, err := event.ToFill()
	require.NoError(t, err)
	assert.Equal(t, int64(7), fill.SequenceNumber)
	assert.Equal(t, int64(3700), fill.Timestamp)
	assert.Equal(t, fillv1.SideBuy, fill.Side)
	assert.Equal(t, "12.5", fill.USDVolume.String())
	assert.NoError(t, fill.Validate())
}

func TestRawFillEvent_ToFillBadVolume(t *testing.T) {
	event := RawFillEvent{USDVolume: "not-a-number"}
	_, err := event.ToFill()
	assert.Error(t, err)
}
