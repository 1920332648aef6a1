package query

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	fillv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1"
	sourcemock "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1/mock"
	queryv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/query/v1"
	"github.com/AarjavPatni/orderbook-proxy-api-server/internal/usecase/hourcache"
	pkgerrors "github.com/AarjavPatni/orderbook-proxy-api-server/pkg/errors"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/logger"
)

type testFixture struct {
	ctrl   *gomock.Controller
	source *sourcemock.MockSource
	cache  *hourcache.Cache
	engine *Engine
}

func setupTestFixture(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	source := sourcemock.NewMockSource(ctrl)
	cache := hourcache.New(source, log, hourcache.DefaultCapacity)

	return &testFixture{
		ctrl:   ctrl,
		source: source,
		cache:  cache,
		engine: NewEngine(cache, log),
	}
}

func (f *testFixture) teardown() {
	f.ctrl.Finish()
}

func usd(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// Trade 1 has two buy fills, trade 2 has one sell fill, all in the first hour.
func sampleHourFills() []fillv1.Fill {
	return []fillv1.Fill{
		{SequenceNumber: 1, Timestamp: 100, Side: fillv1.SideBuy, USDVolume: usd(10)},
		{SequenceNumber: 1, Timestamp: 200, Side: fillv1.SideBuy, USDVolume: usd(5)},
		{SequenceNumber: 2, Timestamp: 300, Side: fillv1.SideSell, USDVolume: usd(20)},
	}
}

func TestEngine_Aggregates(t *testing.T) {
	testCases := []struct {
		name      string
		queryType queryv1.Type
		want      string
	}{
		{name: "distinct trade count", queryType: queryv1.TypeCount, want: "2"},
		{name: "buy trade count", queryType: queryv1.TypeBuy, want: "1"},
		{name: "sell trade count", queryType: queryv1.TypeSell, want: "1"},
		{name: "usd volume over fills", queryType: queryv1.TypeVolume, want: "35"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			defer f.teardown()

			f.source.EXPECT().FetchHour(gomock.Any(), int64(0)).Return(sampleHourFills(), nil)

			res, err := f.engine.Evaluate(context.Background(), queryv1.Query{
				Type:  tc.queryType,
				Start: 50,
				End:   300,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Value())
		})
	}
}

func TestEngine_BoundarySemantics(t *testing.T) {
	f := setupTestFixture(t)
	defer f.teardown()

	f.source.EXPECT().FetchHour(gomock.Any(), int64(0)).Return(sampleHourFills(), nil)

	// fill at Start excluded, fill at End included
	res, err := f.engine.Evaluate(context.Background(), queryv1.Query{
		Type:  queryv1.TypeVolume,
		Start: 100,
		End:   200,
	})
	require.NoError(t, err)
	assert.Equal(t, "5", res.Value())
}

// A taker trade counts once when at least one of its fills qualifies; only
// qualifying fills contribute to volume. The upstream behavior for trades
// straddling the boundary is unspecified, this pins down our choice.
func TestEngine_TradeCountedWhenAnyFillQualifies(t *testing.T) {
	f := setupTestFixture(t)
	defer f.teardown()

	f.source.EXPECT().FetchHour(gomock.Any(), int64(0)).Return(sampleHourFills(), nil).Times(1)

	count, err := f.engine.Evaluate(context.Background(), queryv1.Query{
		Type:  queryv1.TypeCount,
		Start: 150,
		End:   250,
	})
	require.NoError(t, err)
	assert.Equal(t, "1", count.Value())

	volume, err := f.engine.Evaluate(context.Background(), queryv1.Query{
		Type:  queryv1.TypeVolume,
		Start: 150,
		End:   250,
	})
	require.NoError(t, err)
	assert.Equal(t, "5", volume.Value())
}

func TestEngine_CountEqualsBuysPlusSells(t *testing.T) {
	f := setupTestFixture(t)
	defer f.teardown()

	f.source.EXPECT().FetchHour(gomock.Any(), int64(0)).Return(sampleHourFills(), nil).Times(1)

	q := queryv1.Query{Start: 0, End: 3599}

	q.Type = queryv1.TypeCount
	count, err := f.engine.Evaluate(context.Background(), q)
	require.NoError(t, err)

	q.Type = queryv1.TypeBuy
	buys, err := f.engine.Evaluate(context.Background(), q)
	require.NoError(t, err)

	q.Type = queryv1.TypeSell
	sells, err := f.engine.Evaluate(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, count.Count, buys.Count+sells.Count)
}

func TestEngine_InvalidRange(t *testing.T) {
	testCases := []struct {
		name  string
		start int64
		end   int64
	}{
		{name: "end before start", start: 500, end: 400},
		{name: "span wider than an hour", start: 0, end: 3601},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			defer f.teardown()

			// no FetchHour expectation: the cache must not be touched
			_, err := f.engine.Evaluate(context.Background(), queryv1.Query{
				Type:  queryv1.TypeCount,
				Start: tc.start,
				End:   tc.end,
			})
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.InvalidRangeError))
			assert.Equal(t, 0, f.cache.Len())
		})
	}
}

func TestEngine_TwoBucketQuery(t *testing.T) {
	f := setupTestFixture(t)
	defer f.teardown()

	firstHour := []fillv1.Fill{
		{SequenceNumber: 10, Timestamp: 3500, Side: fillv1.SideBuy, USDVolume: usd(7)},
	}
	secondHour := []fillv1.Fill{
		{SequenceNumber: 11, Timestamp: 3700, Side: fillv1.SideSell, USDVolume: usd(8)},
	}

	// each bucket fetched exactly once, both cached for the repeat query
	f.source.EXPECT().FetchHour(gomock.Any(), int64(0)).Return(firstHour, nil).Times(1)
	f.source.EXPECT().FetchHour(gomock.Any(), int64(3600)).Return(secondHour, nil).Times(1)

	q := queryv1.Query{Type: queryv1.TypeVolume, Start: 3400, End: 3800}

	res, err := f.engine.Evaluate(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "15", res.Value())

	// per-bucket evaluations combine to the same value
	left, err := f.engine.Evaluate(context.Background(), queryv1.Query{Type: queryv1.TypeVolume, Start: 3400, End: 3599})
	require.NoError(t, err)
	right, err := f.engine.Evaluate(context.Background(), queryv1.Query{Type: queryv1.TypeVolume, Start: 3599, End: 3800})
	require.NoError(t, err)
	assert.Equal(t, res.Volume.String(), left.Volume.Add(right.Volume).String())

	// identical repeat is served fully from cache
	repeat, err := f.engine.Evaluate(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, res.Value(), repeat.Value())
}

func TestEngine_SourceFailurePropagates(t *testing.T) {
	f := setupTestFixture(t)
	defer f.teardown()

	f.source.EXPECT().FetchHour(gomock.Any(), int64(0)).Return(nil, errors.New("upstream down"))

	_, err := f.engine.Evaluate(context.Background(), queryv1.Query{
		Type:  queryv1.TypeCount,
		Start: 50,
		End:   300,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.SourceUnavailableError))
}
