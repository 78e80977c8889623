package probe

import (
	"strconv"
	"strings"
	"time"
)

// subMillisecond is reported when ping prints "time<1ms" instead of a value.
const subMillisecond = 500 * time.Microsecond

// ParseLatency extracts a round-trip time from ping output. Understood forms
// are "time=12.34 ms", locale variants such as "Zeit=56ms", and "time<1ms",
// which some ping builds print for sub-millisecond replies. Returns false
// when no timing value can be recovered.
func ParseLatency(output []byte) (time.Duration, bool) {
	for _, field := range strings.Fields(string(output)) {
		lower := strings.ToLower(field)

		var rest string
		switch {
		case strings.HasPrefix(lower, "time="):
			rest = strings.TrimPrefix(lower, "time=")
		case strings.HasPrefix(lower, "zeit="):
			rest = strings.TrimPrefix(lower, "zeit=")
		case strings.HasPrefix(lower, "time<"), strings.HasPrefix(lower, "zeit<"):
			return subMillisecond, true
		default:
			continue
		}

		rest = strings.TrimSuffix(rest, "ms")
		if strings.HasPrefix(rest, "<") {
			return subMillisecond, true
		}
		ms, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			continue
		}
		return time.Duration(ms * float64(time.Millisecond)), true
	}
	return 0, false
}
