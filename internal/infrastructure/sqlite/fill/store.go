// Package fill provides a sqlite-backed fill dataset for runs against a
// local file instead of a QuestDB instance.
package fill

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	fillv1 "github.com/AarjavPatni/orderbook-proxy-api-server/internal/domain/fill/v1"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/errors"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/hourly"
)

// Store wraps the sqlite database holding the fill dataset.
type Store struct {
	db *sql.DB
}

var _ fillv1.Source = (*Store)(nil)

// Open opens (or creates) the dataset at path and runs the schema migration.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	// WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema migration: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FetchHour returns every fill of the hour identified by hourKey, ordered by
// timestamp ascending.
func (s *Store) FetchHour(ctx context.Context, hourKey int64) ([]fillv1.Fill, error) {
	start, end := hourly.BucketRange(hourKey)

	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence_number, timestamp, side, usd_volume
		FROM fills
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC`, start, end)
	if err != nil {
		return nil, err
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
			return nil, err
		}
		fill.Side = fillv1.Side(side)
		fill.USDVolume, err = decimal.NewFromString(volume)
		if err != nil {
			return nil, errors.NewMalformedRecord(hourKey, fmt.Sprintf("usd_volume %q: %v", volume, err))
		}
		fills = append(fills, fill)
	}
	return fills, rows.Err()
}

// Store appends one fill to the dataset.
func (s *Store) Store(ctx context.Context, fill *fillv1.Fill) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fills (sequence_number, timestamp, side, usd_volume)
		VALUES (?, ?, ?, ?)`,
		fill.SequenceNumber, fill.Timestamp, string(fill.Side), fill.USDVolume.String(),
	)
	return err
}

// StoreBatch appends a batch of fills in one transaction.
func (s *Store) StoreBatch(ctx context.Context, fills []fillv1.Fill) error {
	if len(fills) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fills (sequence_number, timestamp, side, usd_volume)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range fills {
		fill := &fills[i]
		if _, err := stmt.ExecContext(ctx,
			fill.SequenceNumber, fill.Timestamp, string(fill.Side), fill.USDVolume.String()); err != nil {
			return err
		}
	}

	return tx.Commit()
}
