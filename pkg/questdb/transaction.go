package questdb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type contextKey string

const txKey contextKey = "questdb_transaction"

// TX abstracts transaction lifecycle over a context for mocking.
type TX interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Transaction implements TX on top of a QuestDBClient.
type Transaction struct {
	client QuestDBClient
}

// NewTransaction creates a new Transaction helper bound to client.
func NewTransaction(client QuestDBClient) *Transaction {
	return &Transaction{client: client}
}

// Begin starts a transaction and returns context with embedded transaction
func (t *Transaction) Begin(ctx context.Context) (context.Context, error) {
	return Begin(ctx, t.client)
}

// Commit commits the transaction embedded in ctx
func (t *Transaction) Commit(ctx context.Context) error {
	return Commit(ctx)
}

// Rollback rolls back the transaction embedded in ctx
func (t *Transaction) Rollback(ctx context.Context) error {
	return Rollback(ctx)
}

// Begin starts a transaction and returns context with embedded transaction
func Begin(ctx context.Context, client QuestDBClient) (context.Context, error) {
	tx, err := client.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the transaction from context
func Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	if !ok {
		return fmt.Errorf("no transaction found in context")
	}
	return tx.Commit(ctx)
}

// Rollback rolls back the transaction from context
func Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	if !ok {
		return fmt.Errorf("no transaction found in context")
	}
	return tx.Rollback(ctx)
}

// GetTx extracts transaction from context (helper function)
func GetTx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}
