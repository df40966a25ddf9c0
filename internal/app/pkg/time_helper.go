package pkg

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// MaxRetryAfterSeconds caps any retry hint an upstream sends.
const MaxRetryAfterSeconds = 24 * 60 * 60

// ParseRetryAfter reads a Retry-After header value. It accepts delay-seconds
// ("30") and HTTP-dates, the latter measured against now. The result is whole
// seconds rounded up, within [0, MaxRetryAfterSeconds]. ok is false when the
// value is empty or unparseable.
func ParseRetryAfter(value string, now time.Time) (seconds int, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return clampRetryAfter(float64(n)), true
	}

	// also covers integers too large for int64
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return clampRetryAfter(math.Ceil(f)), true
	}

	at, err := http.ParseTime(value)
	if err != nil {
		return 0, false
	}
	wait := at.Sub(now)
	if wait <= 0 {
		return 0, true
	}
	if wait >= MaxRetryAfterSeconds*time.Second {
		return MaxRetryAfterSeconds, true
	}
	return int((wait + time.Second - 1) / time.Second), true
}

// clampRetryAfter compares as float64 so huge values never go through an
// out-of-range int conversion.
func clampRetryAfter(seconds float64) int {
	switch {
	case seconds <= 0:
		return 0
	case seconds >= MaxRetryAfterSeconds:
		return MaxRetryAfterSeconds
	default:
		return int(seconds)
	}
}
