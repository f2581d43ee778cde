package stats

import "time"

// period maps a named history key to its lookback window and bucket width.
// BucketMinutes 0 means raw samples, no bucketing.
type period struct {
	Lookback      time.Duration
	BucketMinutes int
}

// periods is the fixed named-period table. Dashboard clients depend on these
// exact keys and widths, so changes here break the external interface.
var periods = map[string]period{
	"1":    {Lookback: 1 * time.Hour, BucketMinutes: 0},
	"6":    {Lookback: 6 * time.Hour, BucketMinutes: 30},
	"24":   {Lookback: 24 * time.Hour, BucketMinutes: 60},
	"168":  {Lookback: 168 * time.Hour, BucketMinutes: 12 * 60},
	"720":  {Lookback: 720 * time.Hour, BucketMinutes: 24 * 60},
	"4320": {Lookback: 4320 * time.Hour, BucketMinutes: 15 * 24 * 60},
	"8760": {Lookback: 8760 * time.Hour, BucketMinutes: 30 * 24 * 60},
}
