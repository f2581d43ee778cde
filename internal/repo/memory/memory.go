package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pmorin/netwatch/internal/domain"
	"github.com/pmorin/netwatch/internal/repo"
)

var _ repo.SampleStore = (*Store)(nil)

// Store keeps samples in memory. It backs tests and runs without any
// database configured; single writer, many readers.
type Store struct {
	mu      sync.RWMutex
	samples []domain.Sample
}

func New() *Store {
	return &Store{samples: make([]domain.Sample, 0, 128)}
}

func (m *Store) Append(ctx context.Context, s *domain.Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, *s)
	return nil
}

func (m *Store) Query(ctx context.Context, f repo.Filter) ([]domain.Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Sample, 0, len(m.samples))
	for _, s := range m.samples {
		if f.Host != "" && s.Host != f.Host {
			continue
		}
		if s.Timestamp.Before(f.Since) {
			continue
		}
		if f.Until != nil && s.Timestamp.After(*f.Until) {
			continue
		}
		out = append(out, s)
	}
	// stable keeps insertion order for equal timestamps
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (m *Store) SummarizeSince(ctx context.Context, since time.Time) ([]domain.Summary, error) {
	rows, err := m.Query(ctx, repo.Filter{Since: since})
	if err != nil {
		return nil, err
	}

	type acc struct {
		sum                    domain.Summary
		minSum, avgSum, maxSum float64
		latN                   int
		lossSum                float64
		up                     int
	}
	accs := make(map[string]*acc)
	var hosts []string

	for _, s := range rows {
		a := accs[s.Host]
		if a == nil {
			a = &acc{sum: domain.Summary{Host: s.Host}}
			accs[s.Host] = a
			hosts = append(hosts, s.Host)
		}
		a.sum.SampleCount++
		a.lossSum += s.PacketLoss
		if s.PacketLoss < 100 {
			a.up++
		} else {
			a.sum.TotalOutages++
		}
		if s.Timestamp.After(a.sum.LastSeen) {
			a.sum.LastSeen = s.Timestamp
		}
		if s.MinLatency != nil && s.AvgLatency != nil && s.MaxLatency != nil {
			a.minSum += *s.MinLatency
			a.avgSum += *s.AvgLatency
			a.maxSum += *s.MaxLatency
			a.latN++
		}
	}

	sort.Strings(hosts)
	out := make([]domain.Summary, 0, len(hosts))
	for _, h := range hosts {
		a := accs[h]
		n := float64(a.sum.SampleCount)
		a.sum.PacketLoss = a.lossSum / n
		a.sum.UptimePercent = 100 * float64(a.up) / n
		if a.latN > 0 {
			mn := a.minSum / float64(a.latN)
			av := a.avgSum / float64(a.latN)
			mx := a.maxSum / float64(a.latN)
			a.sum.MinLatency, a.sum.AvgLatency, a.sum.MaxLatency = &mn, &av, &mx
		}
		out = append(out, a.sum)
	}
	return out, nil
}

func (m *Store) Close() error { return nil }
