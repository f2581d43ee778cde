package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pmorin/netwatch/internal/domain"
	"github.com/pmorin/netwatch/internal/repo"
)

// ErrBadRequest marks query-parameter errors so the HTTP layer can map them
// to 400 instead of 500. Invalid parameters are rejected, never defaulted.
var ErrBadRequest = errors.New("bad request")

// Aggregator answers read-only queries over the sample store. It never
// writes, so calls with the same arguments against an unchanged store are
// deterministic.
type Aggregator struct {
	store repo.SampleStore
	now   func() time.Time
}

func New(store repo.SampleStore) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// Summarize computes one rolling Summary per host with at least one sample
// in the trailing lookback window.
func (a *Aggregator) Summarize(ctx context.Context, lookbackHours int) ([]domain.Summary, error) {
	if lookbackHours <= 0 {
		return nil, fmt.Errorf("%w: lookback hours must be positive, got %d", ErrBadRequest, lookbackHours)
	}
	since := a.now().Add(-time.Duration(lookbackHours) * time.Hour)
	return a.store.SummarizeSince(ctx, since)
}

// History returns the chart series for a named period from the fixed table.
// An unrecognized key is a request error, not a fallback.
func (a *Aggregator) History(ctx context.Context, periodKey string) ([]domain.HistoryPoint, error) {
	p, ok := periods[periodKey]
	if !ok {
		return nil, fmt.Errorf("%w: unknown history period %q", ErrBadRequest, periodKey)
	}

	samples, err := a.store.Query(ctx, repo.Filter{Since: a.now().Add(-p.Lookback)})
	if err != nil {
		return nil, err
	}
	if p.BucketMinutes == 0 {
		return rawPoints(samples), nil
	}
	return bucketize(samples, p.BucketMinutes), nil
}

// HistoryRange buckets an explicit [start, end] range so that each host gets
// at most about maxPoints buckets regardless of the range length.
func (a *Aggregator) HistoryRange(ctx context.Context, start, end time.Time, maxPoints int) ([]domain.HistoryPoint, error) {
	if maxPoints <= 0 {
		return nil, fmt.Errorf("%w: max points must be positive, got %d", ErrBadRequest, maxPoints)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: range end %s is not after start %s",
			ErrBadRequest, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	samples, err := a.store.Query(ctx, repo.Filter{Since: start, Until: &end})
	if err != nil {
		return nil, err
	}

	width := int(end.Sub(start).Minutes()) / maxPoints
	if width < 1 {
		width = 1
	}
	return bucketize(samples, width), nil
}

// Outages runs the outage state machine over the trailing lookback window.
func (a *Aggregator) Outages(ctx context.Context, lookbackHours int) ([]domain.OutageInterval, error) {
	if lookbackHours <= 0 {
		return nil, fmt.Errorf("%w: lookback hours must be positive, got %d", ErrBadRequest, lookbackHours)
	}
	samples, err := a.store.Query(ctx, repo.Filter{Since: a.now().Add(-time.Duration(lookbackHours) * time.Hour)})
	if err != nil {
		return nil, err
	}
	return DetectOutages(samples), nil
}
