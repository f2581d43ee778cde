package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pmorin/netwatch/internal/domain"
	"github.com/pmorin/netwatch/internal/repo"
)

var _ repo.SampleStore = (*Store)(nil)

// Store persists samples in a single SQLite file. Timestamps are stored as
// Unix seconds so range scans and bucket math stay timezone-free.
type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL keeps the single writer from blocking readers
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS ping_samples (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp INTEGER NOT NULL,
        host TEXT NOT NULL,
        min_latency REAL,
        avg_latency REAL,
        max_latency REAL,
        packet_loss REAL NOT NULL,
        packets_tx INTEGER NOT NULL,
        packets_rx INTEGER NOT NULL,
        status TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_samples_timestamp ON ping_samples(timestamp);
    CREATE INDEX IF NOT EXISTS idx_samples_host_timestamp ON ping_samples(host, timestamp);
    `
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, smp *domain.Sample) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO ping_samples
            (timestamp, host, min_latency, avg_latency, max_latency, packet_loss, packets_tx, packets_rx, status)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		smp.Timestamp.Unix(), smp.Host,
		smp.MinLatency, smp.AvgLatency, smp.MaxLatency,
		smp.PacketLoss, smp.PacketsTx, smp.PacketsRx, string(smp.Status),
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, f repo.Filter) ([]domain.Sample, error) {
	q := `
        SELECT timestamp, host, min_latency, avg_latency, max_latency, packet_loss, packets_tx, packets_rx, status
        FROM ping_samples
        WHERE timestamp >= ?`
	args := []any{f.Since.Unix()}
	if f.Until != nil {
		q += ` AND timestamp <= ?`
		args = append(args, f.Until.Unix())
	}
	if f.Host != "" {
		q += ` AND host = ?`
		args = append(args, f.Host)
	}
	q += ` ORDER BY timestamp ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var out []domain.Sample
	for rows.Next() {
		var (
			ts         int64
			smp        domain.Sample
			mn, av, mx sql.NullFloat64
			status     string
		)
		if err := rows.Scan(&ts, &smp.Host, &mn, &av, &mx,
			&smp.PacketLoss, &smp.PacketsTx, &smp.PacketsRx, &status); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		smp.Timestamp = time.Unix(ts, 0).UTC()
		smp.Status = domain.Status(status)
		if mn.Valid {
			smp.MinLatency = &mn.Float64
		}
		if av.Valid {
			smp.AvgLatency = &av.Float64
		}
		if mx.Valid {
			smp.MaxLatency = &mx.Float64
		}
		out = append(out, smp)
	}
	return out, rows.Err()
}

// SummarizeSince aggregates per host inside SQLite instead of pulling every
// row across the driver.
func (s *Store) SummarizeSince(ctx context.Context, since time.Time) ([]domain.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT
            host,
            COUNT(*) AS sample_count,
            AVG(min_latency) AS min_latency,
            AVG(avg_latency) AS avg_latency,
            AVG(max_latency) AS max_latency,
            AVG(packet_loss) AS packet_loss,
            MAX(timestamp) AS last_seen,
            100.0 * SUM(CASE WHEN packet_loss < 100 THEN 1 ELSE 0 END) / COUNT(*) AS uptime_percent,
            SUM(CASE WHEN packet_loss >= 100 THEN 1 ELSE 0 END) AS total_outages
        FROM ping_samples
        WHERE timestamp >= ?
        GROUP BY host
        ORDER BY host`,
		since.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("summarize samples: %w", err)
	}
	defer rows.Close()

	var out []domain.Summary
	for rows.Next() {
		var (
			sum        domain.Summary
			mn, av, mx sql.NullFloat64
			lastSeen   int64
		)
		if err := rows.Scan(&sum.Host, &sum.SampleCount, &mn, &av, &mx,
			&sum.PacketLoss, &lastSeen, &sum.UptimePercent, &sum.TotalOutages); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		sum.LastSeen = time.Unix(lastSeen, 0).UTC()
		if mn.Valid {
			sum.MinLatency = &mn.Float64
		}
		if av.Valid {
			sum.AvgLatency = &av.Float64
		}
		if mx.Valid {
			sum.MaxLatency = &mx.Float64
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) Close() error { return s.db.Close() }
