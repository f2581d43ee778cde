package stats

import (
	"time"

	"github.com/pmorin/netwatch/internal/domain"
)

// downLossThreshold declares a completed probe down only at total loss.
// Partial loss degrades latency but the host is still answering.
const downLossThreshold = 100.0

func isDown(s domain.Sample) bool {
	return s.Status == domain.StatusTimeout || s.PacketLoss >= downLossThreshold
}

// DetectOutages folds the time-ordered sample stream into non-overlapping
// outage intervals, one UP/DOWN state machine per host. An interval opens on
// the first down sample, stays open across consecutive down samples, and
// closes on the next up sample. A host still down when the stream ends
// yields an ongoing interval.
func DetectOutages(samples []domain.Sample) []domain.OutageInterval {
	openStart := make(map[string]time.Time)
	var openOrder []string
	var out []domain.OutageInterval

	for _, s := range samples {
		_, open := openStart[s.Host]
		switch {
		case isDown(s) && !open:
			openStart[s.Host] = s.Timestamp
			openOrder = append(openOrder, s.Host)
		case !isDown(s) && open:
			end := s.Timestamp
			out = append(out, domain.OutageInterval{
				Host:  s.Host,
				Start: openStart[s.Host],
				End:   &end,
				State: domain.OutageResolved,
			})
			delete(openStart, s.Host)
		}
	}

	// hosts still down at the window end, in the order they went down
	for _, host := range openOrder {
		start, open := openStart[host]
		if !open {
			continue
		}
		out = append(out, domain.OutageInterval{
			Host:  host,
			Start: start,
			State: domain.OutageOngoing,
		})
		delete(openStart, host) // a host may appear twice in openOrder
	}
	return out
}
