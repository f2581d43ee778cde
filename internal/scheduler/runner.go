package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pmorin/netwatch/internal/probe"
	"github.com/pmorin/netwatch/internal/repo"
)

// Runner executes monitoring passes: one probe and one append per configured
// host. Hosts are independent; a failure on one never blocks the others.
type Runner struct {
	Logger   *zap.Logger
	Store    repo.SampleStore
	Prober   probe.Prober
	Hosts    []string
	Interval time.Duration
}

func NewRunner(logger *zap.Logger, store repo.SampleStore, prober probe.Prober, hosts []string, interval time.Duration) *Runner {
	return &Runner{
		Logger:   logger,
		Store:    store,
		Prober:   prober,
		Hosts:    hosts,
		Interval: interval,
	}
}

// Run does an immediate pass, then one per tick until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	r.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("monitor_stopped")
			return
		case <-t.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce probes every host concurrently and joins before returning, so a
// pass never outlives its tick handler.
func (r *Runner) RunOnce(ctx context.Context) {
	var wg sync.WaitGroup
	for _, host := range r.Hosts {
		wg.Add(1)
		go func(host string) {
			defer wg.Done()
			r.probeOne(ctx, host)
		}(host)
	}
	wg.Wait()
}

func (r *Runner) probeOne(ctx context.Context, host string) {
	s, err := r.Prober.Probe(ctx, host)
	if err != nil {
		r.Logger.Warn("probe_error", zap.String("host", host), zap.Error(err))
		return
	}

	if err := r.Store.Append(ctx, &s); err != nil {
		r.Logger.Warn("sample_store_error", zap.String("host", host), zap.Error(err))
		return
	}

	fields := []zap.Field{
		zap.String("host", host),
		zap.String("status", string(s.Status)),
		zap.Float64("packet_loss", s.PacketLoss),
	}
	if s.AvgLatency != nil {
		fields = append(fields, zap.Float64("avg_latency_ms", *s.AvgLatency))
	}
	r.Logger.Info("sample_recorded", fields...)
}
