package logger

import "context"

type ctxKey string

const querySeqKey = ctxKey("query-seq")

// ContextWithQuerySeq returns a context tagged with the 1-based position of
// the query in the input stream. Log entries written through the *Context
// methods carry it as the `query_seq` field.
func ContextWithQuerySeq(ctx context.Context, seq int64) context.Context {
	return context.WithValue(ctx, querySeqKey, seq)
}

// QuerySeq returns the query sequence from ctx if available.
func QuerySeq(ctx context.Context) (int64, bool) {
	seq, ok := ctx.Value(querySeqKey).(int64)
	return seq, ok
}
