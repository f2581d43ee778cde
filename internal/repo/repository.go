package repo

import (
	"context"
	"time"

	"github.com/pmorin/netwatch/internal/domain"
)

// Filter narrows a sample scan. An empty Host matches all hosts; a nil Until
// leaves the range open-ended.
type Filter struct {
	Host  string
	Since time.Time
	Until *time.Time
}

// SampleStore is the port for the append-only sample table — swap in any DB
// adapter. Query returns samples ascending by timestamp, with insertion
// order breaking ties. Nothing ever updates or deletes a stored sample.
type SampleStore interface {
	Append(ctx context.Context, s *domain.Sample) error
	Query(ctx context.Context, f Filter) ([]domain.Sample, error)

	// SummarizeSince aggregates per host over samples newer than since,
	// without materializing the full row set where the backend allows it.
	SummarizeSince(ctx context.Context, since time.Time) ([]domain.Summary, error)

	Close() error
}
