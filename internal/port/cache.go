package port

import "context"

// SummaryCache stores finished document summaries by content key.
type SummaryCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, summary string) error
	Clear(ctx context.Context) error
	Len(ctx context.Context) (int, error)
	Close() error
}
