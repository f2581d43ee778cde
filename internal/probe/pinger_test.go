package probe

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/pmorin/netwatch/internal/domain"
)

const linuxOutput = `PING 8.8.8.8 (8.8.8.8) 56(84) bytes of data.
64 bytes from 8.8.8.8: icmp_seq=1 ttl=118 time=11.3 ms
64 bytes from 8.8.8.8: icmp_seq=2 ttl=118 time=12.0 ms

--- 8.8.8.8 ping statistics ---
4 packets transmitted, 4 received, 0% packet loss, time 3004ms
rtt min/avg/max/mdev = 11.311/12.542/14.094/0.981 ms`

const macOutput = `PING 8.8.8.8 (8.8.8.8): 56 data bytes
64 bytes from 8.8.8.8: icmp_seq=0 ttl=118 time=44.347 ms

--- 8.8.8.8 ping statistics ---
4 packets transmitted, 4 packets received, 0.0% packet loss
round-trip min/avg/max/stddev = 44.347/45.102/46.220/0.712 ms`

const partialLossOutput = `--- 192.168.1.50 ping statistics ---
4 packets transmitted, 2 received, 50% packet loss, time 3052ms
rtt min/avg/max/mdev = 2.114/2.480/2.847/0.366 ms`

const totalLossOutput = `--- 192.168.1.99 ping statistics ---
4 packets transmitted, 0 received, 100% packet loss, time 3093ms`

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		wantTx   int
		wantRx   int
		wantLoss float64
		wantAvg  *float64
	}{
		{"linux full run", linuxOutput, 4, 4, 0, f(12.542)},
		{"macOS full run", macOutput, 4, 4, 0, f(45.102)},
		{"partial loss", partialLossOutput, 4, 2, 50, f(2.480)},
		{"total loss, no rtt line", totalLossOutput, 4, 0, 100, nil},
		{"empty output", "", 0, 0, 100, nil},
		{"garbage output", "ping: unknown host example.invalid", 0, 0, 100, nil},
		{"rtt line only", "rtt min/avg/max/mdev = 1.0/2.0/3.0/0.5 ms", 0, 0, 100, f(2.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.Sample{PacketLoss: 100}
			parseOutput(tt.output, &s)

			if s.PacketsTx != tt.wantTx || s.PacketsRx != tt.wantRx {
				t.Errorf("tx/rx = %d/%d, want %d/%d", s.PacketsTx, s.PacketsRx, tt.wantTx, tt.wantRx)
			}
			if s.PacketLoss != tt.wantLoss {
				t.Errorf("loss = %v, want %v", s.PacketLoss, tt.wantLoss)
			}
			switch {
			case tt.wantAvg == nil && s.AvgLatency != nil:
				t.Errorf("avg latency = %v, want absent", *s.AvgLatency)
			case tt.wantAvg != nil && s.AvgLatency == nil:
				t.Errorf("avg latency absent, want %v", *tt.wantAvg)
			case tt.wantAvg != nil && *s.AvgLatency != *tt.wantAvg:
				t.Errorf("avg latency = %v, want %v", *s.AvgLatency, *tt.wantAvg)
			}
		})
	}
}

func TestParseOutput_RTTFieldsComeTogether(t *testing.T) {
	s := domain.Sample{PacketLoss: 100}
	parseOutput(linuxOutput, &s)

	if s.MinLatency == nil || s.MaxLatency == nil {
		t.Fatal("expected min and max latency set for a full run")
	}
	if *s.MinLatency != 11.311 || *s.MaxLatency != 14.094 {
		t.Errorf("min/max = %v/%v, want 11.311/14.094", *s.MinLatency, *s.MaxLatency)
	}
}

func TestNewPinger_Bounds(t *testing.T) {
	p := NewPinger(0, 0)
	if p.Count != 1 {
		t.Errorf("count = %d, want 1", p.Count)
	}
	if p.Timeout != 2*time.Second {
		t.Errorf("timeout = %v, want 2s", p.Timeout)
	}
}

func TestPingerProbe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ping integration test in short mode")
	}
	if _, err := exec.LookPath("ping"); err != nil {
		t.Skip("ping binary not available on PATH")
	}

	p := NewPinger(1, 2*time.Second)
	s, err := p.Probe(context.Background(), "127.0.0.1")
	if err != nil {
		t.Skipf("skipping due to unexpected ping failure: %v", err)
	}

	if s.Host != "127.0.0.1" {
		t.Errorf("host = %q, want 127.0.0.1", s.Host)
	}
	if s.Status != domain.StatusSuccess {
		t.Errorf("status = %q, want success", s.Status)
	}
	if s.PacketsTx != 1 || s.PacketsRx != 1 {
		t.Errorf("tx/rx = %d/%d, want 1/1", s.PacketsTx, s.PacketsRx)
	}
	if s.Timestamp.IsZero() || !s.Timestamp.Equal(s.Timestamp.Truncate(time.Second)) {
		t.Errorf("timestamp not second-resolution UTC: %v", s.Timestamp)
	}
}

func f(v float64) *float64 { return &v }
