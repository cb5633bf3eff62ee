package health

import "context"

// RecordCounter counts stored records; a successful count proves the database is reachable.
type RecordCounter interface {
	Count(ctx context.Context) (int64, error)
}
