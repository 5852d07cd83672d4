package timegap

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status values for a classified gap.
const (
	StatusOK    = "OK"
	StatusLate  = "Atrasado"
	StatusEarly = "Adiantado"
)

// ZeroTime is the sentinel used for "no time recorded".
const ZeroTime = "00:00:00"

// Gap is the classified difference between a start and an end time.
type Gap struct {
	// Seconds is end minus start.
	Seconds int `json:"seconds"`
	// Text is Seconds formatted as [-]HH:MM:SS.
	Text string `json:"text"`
	// Status is one of StatusOK, StatusLate, StatusEarly.
	Status string `json:"status"`
}

// Options controls how Compute treats a missing end time.
type Options struct {
	// Live substitutes Now for a missing end time so a departure that has not
	// left yet shows as running late.
	Live bool
	// Now is the wall-clock time used in live mode, in the operation's timezone.
	Now time.Time
}

// Neutral is the result for a comparison that cannot be made.
func Neutral() Gap {
	return Gap{Seconds: 0, Text: ZeroTime, Status: StatusOK}
}

// ToSeconds parses H:M:S text. Parts beyond the third are ignored and missing
// parts count as zero. A leading '-' negates the result. Anything else yields 0.
func ToSeconds(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	sign := 1
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		parts = parts[:3]
	}

	weights := []int{3600, 60, 1}
	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0
		}
		total += n * weights[i]
	}
	return sign * total
}

// FromSeconds formats n as zero-padded HH:MM:SS with a leading '-' when negative.
func FromSeconds(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, n/3600, (n%3600)/60, n%60)
}

// IsEmpty reports whether s is blank or the zero sentinel.
func IsEmpty(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || ToSeconds(s) == 0
}

// Compute classifies end-start against tolerance.
//
// Without Live, an empty start or end returns Neutral. With Live, an empty end
// is replaced by opts.Now before comparing.
func Compute(start, end, tolerance string, opts Options) Gap {
	if opts.Live && IsEmpty(end) && !opts.Now.IsZero() {
		end = opts.Now.Format("15:04:05")
	}
	if IsEmpty(start) || IsEmpty(end) {
		return Neutral()
	}

	diff := ToSeconds(end) - ToSeconds(start)
	gap := Gap{Seconds: diff, Text: FromSeconds(diff), Status: StatusOK}

	abs := diff
	if abs < 0 {
		abs = -abs
	}
	if abs <= ToSeconds(tolerance) {
		return gap
	}
	if diff > 0 {
		gap.Status = StatusLate
	} else {
		gap.Status = StatusEarly
	}
	return gap
}

// Normalize renders H:M[:S] as zero-padded HH:MM:SS. Empty input becomes ZeroTime.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ZeroTime
	}
	parts := strings.Split(s, ":")
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err != nil {
			return ZeroTime
		}
	}
	if len(parts) == 2 {
		s += ":00"
	}
	return FromSeconds(ToSeconds(s))
}
