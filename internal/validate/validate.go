package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reUsername = regexp.MustCompile(`^[A-Za-z0-9._-]{1,30}$`)
	reQ        = regexp.MustCompile(`^[A-Za-z0-9 _'\\-]{1,50}$`)
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reUsername.MatchString(s)
}

// Password only checks presence and a sane length window; matching the
// confirmation is the signup handler's job.
func Password(s string) bool {
	return len(s) >= 1 && len(s) <= 72 // bcrypt input cap
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// ID validates a simple resource identifier (user/product ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Price parses a non-negative product price.
func Price(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Stock parses a non-negative stock count.
func Stock(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Name validates a displayable product name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}
