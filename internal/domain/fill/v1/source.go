package v1

import (
	"context"
)

//go:generate mockgen -source=source.go -destination=mock/source_mock.go -package=mock

// Source is the collaborator producing fills for a requested hour. Fetching
// is considered expensive; callers go through the hour cache instead of
// hitting a Source directly.
type Source interface {
	// FetchHour returns every fill whose timestamp falls in
	// [hourKey, hourKey+3600), ordered by timestamp ascending.
	FetchHour(ctx context.Context, hourKey int64) ([]Fill, error)
}
