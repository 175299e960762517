package img

import "fmt"

const (
	kb = 1 << 10
	mb = 1 << 20
	gb = 1 << 30
	tb = 1 << 40
	pb = 1 << 50
)

// unit is a data size unit with its name and threshold.
type unit struct {
	name      string
	threshold int64
}

// units in descending order
var units = []unit{
	{"PB", pb},
	{"TB", tb},
	{"GB", gb},
	{"MB", mb},
	{"KB", kb},
	{"bytes", 1},
}

func formatBytes(n int64) string {
	for _, u := range units {
		if n >= u.threshold {
			if u.threshold == 1 {
				return fmt.Sprintf("%d %s", n, u.name)
			}
			return fmt.Sprintf("%.2f %s", float64(n)/float64(u.threshold), u.name)
		}
	}
	return fmt.Sprintf("%d bytes", n)
}

func formatSpeed(bps float64) string {
	return fmt.Sprintf("%s/s", formatBytes(int64(bps)))
}
