package hourcache

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	fillv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1"
	sourcemock "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1/mock"
	pkgerrors "github.com/AarjavPatni/orderbook-proxy-api-server/pkg/errors"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	log, err := logger.NewLogger()
	require.NoError(t, err)
	return log
}

// fillsForHour builds n valid fills inside the given hour bucket.
func fillsForHour(hourKey int64, n int) []fillv1.Fill {
	fills := make([]fillv1.Fill, 0, n)
	for i := 0; i < n; i++ {
		side := fillv1.SideBuy
		if i%2 == 1 {
			side = fillv1.SideSell
		}
		fills = append(fills, fillv1.Fill{
			SequenceNumber: hourKey + int64(i),
			Timestamp:      hourKey + int64(i),
			Side:           side,
			USDVolume:      decimal.NewFromInt(1),
		})
	}
	return fills
}

func TestCache_GetOrFetch_HitAvoidsSecondFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := sourcemock.NewMockSource(ctrl)
	source.EXPECT().FetchHour(gomock.Any(), int64(3600)).Return(fillsForHour(3600, 3), nil).Times(1)

	cache := New(source, newTestLogger(t), 4)

	first, err := cache.GetOrFetch(context.Background(), 3600)
	require.NoError(t, err)
	assert.Len(t, first, 3)

	second, err := cache.GetOrFetch(context.Background(), 3600)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCache_GetOrFetch_SourceFailureNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := sourcemock.NewMockSource(ctrl)
	gomock.InOrder(
		source.EXPECT().FetchHour(gomock.Any(), int64(0)).Return(nil, errors.New("connection refused")),
		source.EXPECT().FetchHour(gomock.Any(), int64(0)).Return(fillsForHour(0, 2), nil),
	)

	cache := New(source, newTestLogger(t), 4)

	_, err := cache.GetOrFetch(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.SourceUnavailableError))
	assert.False(t, cache.Contains(0))
	assert.Equal(t, 0, cache.Len())

	// the hour stays absent, so the next access re-fetches
	fills, err := cache.GetOrFetch(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, fills, 2)
	assert.True(t, cache.Contains(0))
}

func TestCache_GetOrFetch_MalformedRecordFailsFetch(t *testing.T) {
	testCases := []struct {
		name  string
		fills []fillv1.Fill
	}{
		{
			name: "unknown side",
			fills: []fillv1.Fill{
				{SequenceNumber: 1, Timestamp: 100, Side: "hold", USDVolume: decimal.NewFromInt(1)},
			},
		},
		{
			name: "timestamp outside bucket",
			fills: []fillv1.Fill{
				{SequenceNumber: 1, Timestamp: 7200, Side: fillv1.SideBuy, USDVolume: decimal.NewFromInt(1)},
			},
		},
		{
			name: "negative usd volume",
			fills: []fillv1.Fill{
				{SequenceNumber: 1, Timestamp: 100, Side: fillv1.SideSell, USDVolume: decimal.NewFromInt(-5)},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			source := sourcemock.NewMockSource(ctrl)
			source.EXPECT().FetchHour(gomock.Any(), int64(0)).Return(tc.fills, nil)

			cache := New(source, newTestLogger(t), 4)

			_, err := cache.GetOrFetch(context.Background(), 0)
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.MalformedRecordError))
			assert.False(t, cache.Contains(0))
		})
	}
}

func TestCache_Eviction_OldestHourOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := sourcemock.NewMockSource(ctrl)
	source.EXPECT().FetchHour(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, hourKey int64) ([]fillv1.Fill, error) {
			return fillsForHour(hourKey, 1), nil
		},
	).AnyTimes()

	cache := New(source, newTestLogger(t), DefaultCapacity)

	// fill to capacity, then insert one more distinct hour
	for i := 0; i <= DefaultCapacity; i++ {
		hourKey := int64(i) * 3600
		_, err := cache.GetOrFetch(context.Background(), hourKey)
		require.NoError(t, err)
	}

	assert.Equal(t, DefaultCapacity, cache.Len())
	assert.False(t, cache.Contains(0), "least-recently-used hour should be evicted")
	for i := 1; i <= DefaultCapacity; i++ {
		hourKey := int64(i) * 3600
		assert.True(t, cache.Contains(hourKey), fmt.Sprintf("hour %d should survive", hourKey))
	}
}

func TestCache_Eviction_RespectsRecency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := sourcemock.NewMockSource(ctrl)
	source.EXPECT().FetchHour(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, hourKey int64) ([]fillv1.Fill, error) {
			return fillsForHour(hourKey, 1), nil
		},
	).AnyTimes()

	cache := New(source, newTestLogger(t), 2)

	_, err := cache.GetOrFetch(context.Background(), 0)
	require.NoError(t, err)
	_, err = cache.GetOrFetch(context.Background(), 3600)
	require.NoError(t, err)

	// touch hour 0 so hour 3600 becomes the eviction candidate
	_, err = cache.GetOrFetch(context.Background(), 0)
	require.NoError(t, err)

	_, err = cache.GetOrFetch(context.Background(), 7200)
	require.NoError(t, err)

	assert.True(t, cache.Contains(0))
	assert.False(t, cache.Contains(3600))
	assert.True(t, cache.Contains(7200))
}

func TestCache_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := sourcemock.NewMockSource(ctrl)
	source.EXPECT().FetchHour(gomock.Any(), int64(0)).Return(fillsForHour(0, 2), nil)
	source.EXPECT().FetchHour(gomock.Any(), int64(3600)).Return(fillsForHour(3600, 5), nil)

	cache := New(source, newTestLogger(t), 4)

	_, err := cache.GetOrFetch(context.Background(), 0)
	require.NoError(t, err)
	_, err = cache.GetOrFetch(context.Background(), 3600)
	require.NoError(t, err)
	_, err = cache.GetOrFetch(context.Background(), 3600)
	require.NoError(t, err)

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Hours)
	assert.Equal(t, 7, stats.Fills)
	assert.Equal(t, 5, stats.MaxHourFills)
	assert.Greater(t, stats.ApproxBytes, 0)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.InDelta(t, 33.33, stats.HitRate(), 0.01)
}
