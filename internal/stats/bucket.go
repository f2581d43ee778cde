package stats

import (
	"sort"
	"time"

	"github.com/pmorin/netwatch/internal/domain"
)

// BucketStart left-aligns ts to a fixed-width bin anchored at the Unix
// epoch, not at any query boundary: floor(epoch / width) * width.
func BucketStart(ts time.Time, widthMinutes int) time.Time {
	w := int64(widthMinutes) * 60
	return time.Unix(ts.Unix()/w*w, 0).UTC()
}

// bucketize averages samples into fixed-width buckets per host. Latency is
// the arithmetic mean of the samples that carried one; a bucket whose
// samples are more than half timeouts reports status timeout.
func bucketize(samples []domain.Sample, widthMinutes int) []domain.HistoryPoint {
	type key struct {
		bucket int64
		host   string
	}
	type acc struct {
		n        int
		timeouts int
		lossSum  float64
		latSum   float64
		latN     int
	}

	accs := make(map[key]*acc)
	for _, s := range samples {
		k := key{bucket: BucketStart(s.Timestamp, widthMinutes).Unix(), host: s.Host}
		a := accs[k]
		if a == nil {
			a = &acc{}
			accs[k] = a
		}
		a.n++
		a.lossSum += s.PacketLoss
		if s.Status == domain.StatusTimeout {
			a.timeouts++
		}
		if s.AvgLatency != nil {
			a.latSum += *s.AvgLatency
			a.latN++
		}
	}

	out := make([]domain.HistoryPoint, 0, len(accs))
	for k, a := range accs {
		p := domain.HistoryPoint{
			Timestamp:  time.Unix(k.bucket, 0).UTC(),
			Host:       k.host,
			PacketLoss: a.lossSum / float64(a.n),
			Status:     domain.StatusSuccess,
		}
		if a.timeouts*2 > a.n {
			p.Status = domain.StatusTimeout
		}
		if a.latN > 0 {
			avg := a.latSum / float64(a.latN)
			p.AvgLatency = &avg
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].Host < out[j].Host
	})
	return out
}

// rawPoints projects samples one-to-one, preserving store order.
func rawPoints(samples []domain.Sample) []domain.HistoryPoint {
	out := make([]domain.HistoryPoint, 0, len(samples))
	for _, s := range samples {
		out = append(out, domain.HistoryPoint{
			Timestamp:  s.Timestamp,
			Host:       s.Host,
			AvgLatency: s.AvgLatency,
			PacketLoss: s.PacketLoss,
			Status:     s.Status,
		})
	}
	return out
}
