package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pmorin/netwatch/internal/domain"
	"github.com/pmorin/netwatch/internal/repo"
)

var _ repo.SampleStore = (*Store)(nil)

// Store persists samples in PostgreSQL for installs that outgrow the
// single-file SQLite store.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(ctxPing); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &Store{pool: p}
	if err := s.initSchema(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS ping_samples (
            id BIGSERIAL PRIMARY KEY,
            ts TIMESTAMPTZ NOT NULL,
            host TEXT NOT NULL,
            min_latency DOUBLE PRECISION,
            avg_latency DOUBLE PRECISION,
            max_latency DOUBLE PRECISION,
            packet_loss DOUBLE PRECISION NOT NULL,
            packets_tx INTEGER NOT NULL,
            packets_rx INTEGER NOT NULL,
            status TEXT NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_samples_ts ON ping_samples(ts);
        CREATE INDEX IF NOT EXISTS idx_samples_host_ts ON ping_samples(host, ts);`)
	if err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, smp *domain.Sample) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ping_samples
		    (ts, host, min_latency, avg_latency, max_latency, packet_loss, packets_tx, packets_rx, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		smp.Timestamp, smp.Host,
		smp.MinLatency, smp.AvgLatency, smp.MaxLatency,
		smp.PacketLoss, smp.PacketsTx, smp.PacketsRx, string(smp.Status),
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, f repo.Filter) ([]domain.Sample, error) {
	q := `SELECT ts, host, min_latency, avg_latency, max_latency, packet_loss, packets_tx, packets_rx, status
	        FROM ping_samples
	       WHERE ts >= $1`
	args := []any{f.Since}
	if f.Until != nil {
		args = append(args, *f.Until)
		q += fmt.Sprintf(` AND ts <= $%d`, len(args))
	}
	if f.Host != "" {
		args = append(args, f.Host)
		q += fmt.Sprintf(` AND host = $%d`, len(args))
	}
	q += ` ORDER BY ts ASC, id ASC`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var out []domain.Sample
	for rows.Next() {
		var (
			smp    domain.Sample
			status string
		)
		if err := rows.Scan(&smp.Timestamp, &smp.Host,
			&smp.MinLatency, &smp.AvgLatency, &smp.MaxLatency,
			&smp.PacketLoss, &smp.PacketsTx, &smp.PacketsRx, &status); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		smp.Timestamp = smp.Timestamp.UTC()
		smp.Status = domain.Status(status)
		out = append(out, smp)
	}
	return out, rows.Err()
}

func (s *Store) SummarizeSince(ctx context.Context, since time.Time) ([]domain.Summary, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT
            host,
            COUNT(*),
            AVG(min_latency),
            AVG(avg_latency),
            AVG(max_latency),
            AVG(packet_loss),
            MAX(ts),
            100.0 * SUM(CASE WHEN packet_loss < 100 THEN 1 ELSE 0 END) / COUNT(*),
            SUM(CASE WHEN packet_loss >= 100 THEN 1 ELSE 0 END)
        FROM ping_samples
        WHERE ts >= $1
        GROUP BY host
        ORDER BY host`, since)
	if err != nil {
		return nil, fmt.Errorf("summarize samples: %w", err)
	}
	defer rows.Close()

	var out []domain.Summary
	for rows.Next() {
		var sum domain.Summary
		if err := rows.Scan(&sum.Host, &sum.SampleCount,
			&sum.MinLatency, &sum.AvgLatency, &sum.MaxLatency,
			&sum.PacketLoss, &sum.LastSeen, &sum.UptimePercent, &sum.TotalOutages); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		sum.LastSeen = sum.LastSeen.UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
