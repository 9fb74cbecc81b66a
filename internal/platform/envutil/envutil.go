package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Lookup returns the trimmed value of name and whether it was set non-empty.
func Lookup(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

func String(name, def string) string {
	if v, ok := Lookup(name); ok {
		return v
	}
	return def
}

func Int(name string, def int) int {
	v, ok := Lookup(name)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Bool(name string, def bool) bool {
	v, ok := Lookup(name)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Duration accepts Go duration strings ("90s", "1h") or a plain number of seconds.
func Duration(name string, def time.Duration) time.Duration {
	v, ok := Lookup(name)
	if !ok {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func Float(name string, def float64) float64 {
	v, ok := Lookup(name)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
