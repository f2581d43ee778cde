package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/pmorin/netwatch/internal/domain"
)

// spawnMargin bounds the whole ping invocation beyond count * per-packet timeout.
const spawnMargin = 5 * time.Second

// Prober runs a single reachability check against one host.
type Prober interface {
	Probe(ctx context.Context, host string) (domain.Sample, error)
}

// Pinger shells out to the system ping binary and parses its summary output.
// It is stateless and safe for concurrent use.
type Pinger struct {
	Count   int           // packets per probe
	Timeout time.Duration // per-packet deadline
}

func NewPinger(count int, timeout time.Duration) *Pinger {
	if count < 1 {
		count = 1
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Pinger{Count: count, Timeout: timeout}
}

var (
	// "4 packets transmitted, 4 received, 0% packet loss" (Linux)
	// "4 packets transmitted, 4 packets received, 0.0% packet loss" (macOS)
	packetsRe = regexp.MustCompile(`(\d+) packets transmitted, (\d+)(?: packets)? received, ([\d.]+)% packet loss`)
	// "rtt min/avg/max/mdev = 11.3/12.5/14.0/0.9 ms" (Linux)
	// "round-trip min/avg/max/stddev = 11.3/12.5/14.0/0.9 ms" (macOS)
	rttRe = regexp.MustCompile(`(?:rtt|round-trip) min/avg/max[^=]*= ([\d.]+)/([\d.]+)/([\d.]+)`)
)

// Probe pings host once and always produces a Sample for anything the ping
// binary itself reports: a deadline hit becomes a timeout sample, a non-zero
// exit a failed one. The returned error is non-nil only when the process
// could not be spawned at all.
func (p *Pinger) Probe(ctx context.Context, host string) (domain.Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.Count)*p.Timeout+spawnMargin)
	defer cancel()

	waitSec := int(p.Timeout.Seconds())
	if waitSec < 1 {
		waitSec = 1
	}
	cmd := exec.CommandContext(ctx, "ping",
		"-c", strconv.Itoa(p.Count),
		"-W", strconv.Itoa(waitSec),
		host,
	)
	out, err := cmd.CombinedOutput()

	s := domain.Sample{
		Timestamp:  time.Now().UTC().Truncate(time.Second),
		Host:       host,
		PacketLoss: 100,
		Status:     domain.StatusSuccess,
	}

	if ctx.Err() == context.DeadlineExceeded {
		s.Status = domain.StatusTimeout
		s.PacketsTx = p.Count
		return s, nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return domain.Sample{}, fmt.Errorf("spawn ping: %w", err)
		}
		s.Status = domain.StatusFailed
	}

	parseOutput(string(out), &s)
	return s, nil
}

// parseOutput extracts the packets line and the rtt line independently. A
// line that does not match leaves the corresponding fields at their defaults,
// so malformed output degrades a sample instead of failing the probe.
func parseOutput(out string, s *domain.Sample) {
	if m := packetsRe.FindStringSubmatch(out); m != nil {
		s.PacketsTx, _ = strconv.Atoi(m[1])
		s.PacketsRx, _ = strconv.Atoi(m[2])
		if loss, err := strconv.ParseFloat(m[3], 64); err == nil {
			s.PacketLoss = loss
		}
	}
	if m := rttRe.FindStringSubmatch(out); m != nil {
		rmin, err1 := strconv.ParseFloat(m[1], 64)
		ravg, err2 := strconv.ParseFloat(m[2], 64)
		rmax, err3 := strconv.ParseFloat(m[3], 64)
		if err1 == nil && err2 == nil && err3 == nil {
			s.MinLatency, s.AvgLatency, s.MaxLatency = &rmin, &ravg, &rmax
		}
	}
}
