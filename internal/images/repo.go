package images

import "context"

// Repo persists upload records. Records are never updated or deleted.
type Repo interface {
	Insert(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, fileID string) (Record, error)
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > HistoryLimit {
		return HistoryLimit
	}
	return limit
}
