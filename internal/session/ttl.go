package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTTLSeconds is the default session lifetime (1 hour).
	DefaultTTLSeconds = 3600

	// MinTTLSeconds is the shortest allowed lifetime (1 minute).
	MinTTLSeconds = 60

	// MaxTTLSeconds is the longest allowed lifetime (7 days).
	MaxTTLSeconds = 604800

	minutesPerHour = 60
	hoursPerDay    = 24
)

// ErrInvalidTTL is returned for a lifetime outside [MinTTLSeconds, MaxTTLSeconds].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// TTLConfig is a validated session lifetime.
type TTLConfig struct {
	Seconds  int
	Duration time.Duration
}

// NewTTLConfig validates seconds and returns the lifetime.
func NewTTLConfig(seconds int) (*TTLConfig, error) {
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return &TTLConfig{
		Seconds:  seconds,
		Duration: time.Duration(seconds) * time.Second,
	}, nil
}

// ParseTTL parses "90", "90s", "15m" or "2h" into a validated lifetime.
func ParseTTL(s string) (*TTLConfig, error) {
	secs, err := ParseTTLSeconds(s)
	if err != nil {
		return nil, err
	}
	return NewTTLConfig(secs)
}

// ParseTTLSeconds parses a bare number of seconds or a Go duration string
// into whole seconds without range checks.
func ParseTTLSeconds(s string) (int, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return secs, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid TTL %q: %w", s, err)
	}
	return int(d / time.Second), nil
}

// FormatDuration renders a lifetime as "45s", "12m", "3h 5m" or "2d 4h".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < hoursPerDay*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd %dh", days, hours)
}
