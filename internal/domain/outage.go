package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type OutageState string

const (
	OutageOngoing  OutageState = "ongoing"
	OutageResolved OutageState = "resolved"
)

// OutageInterval is a maximal contiguous span during which a host was
// classified down. End is nil while the outage has not been observed to end
// within the queried window.
type OutageInterval struct {
	Host  string
	Start time.Time
	End   *time.Time
	State OutageState
}

// DurationString renders the outage length as "1h 2m 3s", dropping
// zero-valued leading units; an open interval renders as "ongoing".
func (o OutageInterval) DurationString() string {
	if o.End == nil {
		return "ongoing"
	}
	return FormatDuration(o.End.Sub(o.Start))
}

func (o OutageInterval) MarshalJSON() ([]byte, error) {
	payload := struct {
		Host     string      `json:"host"`
		Start    time.Time   `json:"start"`
		End      any         `json:"end"`
		Duration string      `json:"duration"`
		State    OutageState `json:"state"`
	}{
		Host:     o.Host,
		Start:    o.Start,
		End:      "ongoing",
		Duration: o.DurationString(),
		State:    o.State,
	}
	if o.End != nil {
		payload.End = *o.End
	}
	return json.Marshal(payload)
}

// FormatDuration formats d with second precision, omitting leading units
// that are zero: 90s becomes "1m 30s", 3601s becomes "1h 0m 1s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
