package fill

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	fillv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/errors"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/hourly"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/questdb"
)

// usd_volume is stored as text so the exact decimal survives the round trip.
const createTableDDL = `
	CREATE TABLE IF NOT EXISTS fills (
		sequence_number LONG,
		timestamp LONG,
		side SYMBOL,
		usd_volume STRING
	)`

// Repository reads and writes the fill dataset in QuestDB.
type Repository struct {
	client questdb.QuestDBClient
}

var _ fillv1.Source = (*Repository)(nil)
var _ FillRepository = (*Repository)(nil)

// NewRepository creates a new fill repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// CreateTable creates the fills table if it doesn't exist.
func (r *Repository) CreateTable(ctx context.Context) error {
	if err := r.client.Exec(ctx, createTableDDL); err != nil {
		return fmt.Errorf("failed to create fills table: %w", err)
	}
	return nil
}

// FetchHour returns every fill of the hour identified by hourKey, ordered by
// timestamp ascending.
func (r *Repository) FetchHour(ctx context.Context, hourKey int64) ([]fillv1.Fill, error) {
	start, end := hourly.BucketRange(hourKey)

	query := `SELECT sequence_number, timestamp, side, usd_volume
			  FROM fills
			  WHERE timestamp >= $1 AND timestamp < $2
			  ORDER BY timestamp ASC`

	rows, err := r.client.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query fills: %w", err)
	}
	defer rows.Close()

	var fills []fillv1.Fill
	for rows.Next() {
		var (
			fill   fillv1.Fill
			side   string
			volume string
		)
		if err := rows.Scan(&fill.SequenceNumber, &fill.Timestamp, &side, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan fill: %w", err)
		}
		fill.Side = fillv1.Side(side)
		fill.USDVolume, err = decimal.NewFromString(volume)
		if err != nil {
			return nil, errors.NewMalformedRecord(hourKey, fmt.Sprintf("usd_volume %q: %v", volume, err))
		}
		fills = append(fills, fill)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return fills, nil
}

// Store stores a single fill.
func (r *Repository) Store(ctx context.Context, fill *fillv1.Fill) error {
	query := `INSERT INTO fills (sequence_number, timestamp, side, usd_volume)
			  VALUES ($1, $2, $3, $4)`

	err := r.client.Exec(ctx, query,
		fill.SequenceNumber, fill.Timestamp, string(fill.Side), fill.USDVolume.String())

	if err != nil {
		return fmt.Errorf("failed to store fill: %w", err)
	}

	return nil
}

// StoreBatch stores a batch of fills.
func (r *Repository) StoreBatch(ctx context.Context, fills []fillv1.Fill) error {
	if len(fills) == 0 {
		return nil
	}

	// Use CopyFrom for better performance with large batches
	_, err := r.client.CopyFrom(
		ctx,
		pgx.Identifier{"fills"},
		[]string{"sequence_number", "timestamp", "side", "usd_volume"},
		pgx.CopyFromSlice(len(fills), func(i int) ([]any, error) {
			fill := fills[i]
			return []any{
				fill.SequenceNumber,
				fill.Timestamp,
				string(fill.Side),
				fill.USDVolume.String(),
			}, nil
		}),
	)

	if err != nil {
		return fmt.Errorf("failed to copy fills: %w", err)
	}

	return nil
}
