// Package units parses and formats the quantity strings PostgreSQL reports
// in pg_settings: byte sizes, durations, and booleans. Every parser is
// lenient by design — a value this package cannot parse is reported back to
// the caller as "unknown" rather than as an error, since an unparsable
// setting must never abort analysis.
package units

import (
	"strconv"
	"strings"
)

// DefaultBlockSize is used when pg_settings.block_size is unavailable.
const DefaultBlockSize int64 = 8192

var byteMultipliers = map[string]int64{
	"b":   1,
	"kb":  1024,
	"mb":  1024 * 1024,
	"gb":  1024 * 1024 * 1024,
	"tb":  1024 * 1024 * 1024 * 1024,
	"8kb": 8 * 1024,
}

var durationMultipliersMs = map[string]float64{
	"ms":  1,
	"s":   1000,
	"min": 60 * 1000,
	"h":   60 * 60 * 1000,
	"d":   24 * 60 * 60 * 1000,
}

// ParseBytes converts a pg_settings value + unit into a byte count. When
// unit is empty, a unit written inline in value (as in "128MB") is used,
// and a bare number is taken as a plain count; blockSize lets callers
// supply the instance's actual block_size for "8kB" block units instead of
// the 8 KiB default.
func ParseBytes(value, unit string, blockSize int64) (int64, bool) {
	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit == "" {
		v := strings.TrimSpace(value)
		if i := strings.IndexFunc(v, func(r rune) bool {
			return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		}); i > 0 {
			value, unit = v[:i], strings.ToLower(strings.TrimSpace(v[i:]))
		}
	}
	n, ok := parseNumeric(value)
	if !ok {
		return 0, false
	}
	if unit == "" {
		return int64(n), true
	}
	if unit == "8kb" {
		bs := blockSize
		if bs <= 0 {
			bs = DefaultBlockSize
		}
		return int64(n) * bs, true
	}
	mult, ok := byteMultipliers[unit]
	if !ok {
		return 0, false
	}
	return int64(n * float64(mult)), true
}

// FormatBytes renders a byte count using the largest unit that divides it
// evenly, falling back to bytes. Used for rationale text and round-trip
// tests.
func FormatBytes(n int64) string {
	switch {
	case n >= 1024*1024*1024*1024 && n%(1024*1024*1024*1024) == 0:
		return strconv.FormatInt(n/(1024*1024*1024*1024), 10) + "TB"
	case n >= 1024*1024*1024 && n%(1024*1024*1024) == 0:
		return strconv.FormatInt(n/(1024*1024*1024), 10) + "GB"
	case n >= 1024*1024 && n%(1024*1024) == 0:
		return strconv.FormatInt(n/(1024*1024), 10) + "MB"
	case n >= 1024 && n%1024 == 0:
		return strconv.FormatInt(n/1024, 10) + "kB"
	default:
		return strconv.FormatInt(n, 10) + "B"
	}
}

// ParseMillis converts a pg_settings duration value + unit into
// milliseconds.
func ParseMillis(value, unit string) (float64, bool) {
	n, ok := parseNumeric(value)
	if !ok {
		return 0, false
	}
	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit == "" {
		return n, true
	}
	mult, ok := durationMultipliersMs[unit]
	if !ok {
		return 0, false
	}
	return n * mult, true
}

// FormatMillis renders a millisecond count using the largest unit that
// divides it evenly.
func FormatMillis(ms float64) string {
	switch {
	case ms >= 86400000 && int64(ms)%86400000 == 0:
		return strconv.FormatInt(int64(ms)/86400000, 10) + "d"
	case ms >= 3600000 && int64(ms)%3600000 == 0:
		return strconv.FormatInt(int64(ms)/3600000, 10) + "h"
	case ms >= 60000 && int64(ms)%60000 == 0:
		return strconv.FormatInt(int64(ms)/60000, 10) + "min"
	case ms >= 1000 && int64(ms)%1000 == 0:
		return strconv.FormatInt(int64(ms)/1000, 10) + "s"
	default:
		return strconv.FormatInt(int64(ms), 10) + "ms"
	}
}

// ParseBool recognizes the on/off, true/false, yes/no, 1/0 spellings
// PostgreSQL accepts for boolean GUCs.
func ParseBool(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "yes", "1":
		return true, true
	case "off", "false", "no", "0":
		return false, true
	default:
		return false, false
	}
}

func parseNumeric(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
