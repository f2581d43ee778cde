package domain

import "time"

// Status classifies how a probe run ended. Timeout means the ping process
// itself did not return before its deadline, which is not the same thing as
// a completed run reporting 100% loss.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

// Sample is one probe observation for one host. Samples are immutable once
// stored; the latency fields are nil when every packet was lost.
type Sample struct {
	Timestamp  time.Time `json:"timestamp"`
	Host       string    `json:"host"`
	MinLatency *float64  `json:"min_latency"` // milliseconds
	AvgLatency *float64  `json:"avg_latency"`
	MaxLatency *float64  `json:"max_latency"`
	PacketLoss float64   `json:"packet_loss"` // percent, 0..100
	PacketsTx  int       `json:"packets_transmitted"`
	PacketsRx  int       `json:"packets_received"`
	Status     Status    `json:"status"`
}

// Summary aggregates one host's samples over a lookback window.
type Summary struct {
	Host          string    `json:"host"`
	SampleCount   int       `json:"sample_count"`
	MinLatency    *float64  `json:"min_latency"`
	AvgLatency    *float64  `json:"avg_latency"`
	MaxLatency    *float64  `json:"max_latency"`
	PacketLoss    float64   `json:"packet_loss"`
	LastSeen      time.Time `json:"last_seen"`
	UptimePercent float64   `json:"uptime_percent"`
	TotalOutages  int       `json:"total_outages"`
}

// HistoryPoint is a chart-ready projection: either a raw sample or one
// fixed-width time bucket averaging several samples.
type HistoryPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Host       string    `json:"host"`
	AvgLatency *float64  `json:"avg_latency"`
	PacketLoss float64   `json:"packet_loss"`
	Status     Status    `json:"status"`
}
