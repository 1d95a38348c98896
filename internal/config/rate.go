package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rate is a request budget over a fixed window, e.g. "100/day"
type Rate struct {
	Requests int
	Period   time.Duration
}

// ParseRate parses "N/period". The period may be abbreviated to its first
// letter (s, m, h, d), so "5/min" and "5/m" are the same rate.
func ParseRate(s string) (Rate, error) {
	num, period, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Rate{}, fmt.Errorf("invalid rate %q, expected N/period", s)
	}

	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n < 1 {
		return Rate{}, fmt.Errorf("invalid request count in rate %q", s)
	}

	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		return Rate{}, fmt.Errorf("missing period in rate %q", s)
	}

	var d time.Duration
	switch period[0] {
	case 's':
		d = time.Second
	case 'm':
		d = time.Minute
	case 'h':
		d = time.Hour
	case 'd':
		d = 24 * time.Hour
	default:
		return Rate{}, fmt.Errorf("unknown period in rate %q", s)
	}

	return Rate{Requests: n, Period: d}, nil
}
