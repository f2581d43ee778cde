package stats

import (
	"testing"
	"time"

	"github.com/pmorin/netwatch/internal/domain"
)

func up(host string, ts time.Time) domain.Sample {
	lat := 10.0
	return domain.Sample{
		Timestamp: ts, Host: host,
		MinLatency: &lat, AvgLatency: &lat, MaxLatency: &lat,
		PacketLoss: 0, PacketsTx: 4, PacketsRx: 4,
		Status: domain.StatusSuccess,
	}
}

func timeoutSample(host string, ts time.Time) domain.Sample {
	return domain.Sample{
		Timestamp: ts, Host: host,
		PacketLoss: 100, PacketsTx: 4,
		Status: domain.StatusTimeout,
	}
}

func TestDetectOutages_SingleResolvedInterval(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)
	t2 := t1.Add(90 * time.Second)

	got := DetectOutages([]domain.Sample{
		up("r", t0),
		timeoutSample("r", t1),
		up("r", t2),
	})

	if len(got) != 1 {
		t.Fatalf("got %d intervals, want 1", len(got))
	}
	o := got[0]
	if o.Host != "r" || !o.Start.Equal(t1) || o.End == nil || !o.End.Equal(t2) {
		t.Fatalf("interval = %+v, want start=%v end=%v", o, t1, t2)
	}
	if o.State != domain.OutageResolved {
		t.Errorf("state = %q, want resolved", o.State)
	}
	if o.DurationString() != "1m 30s" {
		t.Errorf("duration = %q, want \"1m 30s\"", o.DurationString())
	}
}

func TestDetectOutages_OngoingAtWindowEnd(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	got := DetectOutages([]domain.Sample{
		up("r", t0),
		timeoutSample("r", t0.Add(time.Minute)),
		timeoutSample("r", t0.Add(2*time.Minute)),
	})

	if len(got) != 1 {
		t.Fatalf("got %d intervals, want 1", len(got))
	}
	o := got[0]
	if o.State != domain.OutageOngoing || o.End != nil {
		t.Fatalf("interval = %+v, want ongoing with nil end", o)
	}
	if !o.Start.Equal(t0.Add(time.Minute)) {
		t.Errorf("start = %v, want first down sample; later down samples must not move it", o.Start)
	}
	if o.DurationString() != "ongoing" {
		t.Errorf("duration = %q, want ongoing", o.DurationString())
	}
}

func TestDetectOutages_TotalLossCountsAsDown(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// completed probe reporting 100% loss, not a process timeout
	down := domain.Sample{
		Timestamp: t0.Add(time.Minute), Host: "r",
		PacketLoss: 100, PacketsTx: 4,
		Status: domain.StatusFailed,
	}
	got := DetectOutages([]domain.Sample{up("r", t0), down, up("r", t0.Add(2*time.Minute))})
	if len(got) != 1 {
		t.Fatalf("got %d intervals, want 1", len(got))
	}
}

func TestDetectOutages_PartialLossStaysUp(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	lossy := up("r", t0.Add(time.Minute))
	lossy.PacketLoss = 50
	lossy.PacketsRx = 2

	got := DetectOutages([]domain.Sample{up("r", t0), lossy, up("r", t0.Add(2*time.Minute))})
	if len(got) != 0 {
		t.Fatalf("got %d intervals, want none for 50%% loss", len(got))
	}
}

func TestDetectOutages_DisjointAndOrderedPerHost(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var samples []domain.Sample
	for i, down := range []bool{false, true, false, true, true, false, true} {
		ts := t0.Add(time.Duration(i) * time.Minute)
		if down {
			samples = append(samples, timeoutSample("r", ts))
		} else {
			samples = append(samples, up("r", ts))
		}
	}

	got := DetectOutages(samples)
	if len(got) != 3 {
		t.Fatalf("got %d intervals, want 3", len(got))
	}
	for i, o := range got {
		if o.End != nil && !o.End.After(o.Start) {
			t.Errorf("interval %d: end %v not strictly after start %v", i, *o.End, o.Start)
		}
		if i > 0 && !got[i].Start.After(got[i-1].Start) {
			t.Errorf("interval %d does not start after interval %d", i, i-1)
		}
		if i > 0 && got[i-1].End != nil && got[i].Start.Before(*got[i-1].End) {
			t.Errorf("intervals %d and %d overlap", i-1, i)
		}
	}
	if got[2].State != domain.OutageOngoing {
		t.Errorf("last interval state = %q, want ongoing", got[2].State)
	}
}

func TestDetectOutages_HostsIndependent(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	got := DetectOutages([]domain.Sample{
		up("a", t0),
		timeoutSample("b", t0.Add(time.Second)),
		timeoutSample("a", t0.Add(time.Minute)),
		up("b", t0.Add(2*time.Minute)),
		up("a", t0.Add(3*time.Minute)),
	})

	byHost := map[string]int{}
	for _, o := range got {
		byHost[o.Host]++
		if o.State != domain.OutageResolved {
			t.Errorf("host %s: state = %q, want resolved", o.Host, o.State)
		}
	}
	if byHost["a"] != 1 || byHost["b"] != 1 {
		t.Fatalf("intervals per host = %v, want one each", byHost)
	}
}

func TestDetectOutages_NoDownSamplesNoIntervals(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	got := DetectOutages([]domain.Sample{up("r", t0), up("r", t0.Add(time.Minute))})
	if len(got) != 0 {
		t.Fatalf("got %d intervals, want none", len(got))
	}
}
