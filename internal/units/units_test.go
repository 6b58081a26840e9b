package units

import "testing"

func TestParseBytes(t *testing.T) {
	cases := []struct {
		value, unit string
		block       int64
		want        int64
		ok          bool
	}{
		{"128", "MB", 0, 128 * 1024 * 1024, true},
		{"16384", "8kB", 0, 16384 * 8 * 1024, true},
		{"16384", "8kB", 4096, 16384 * 4096, true},
		{"4", "GB", 0, 4 * 1024 * 1024 * 1024, true},
		{"100", "", 0, 100, true},
		{"abc", "MB", 0, 0, false},
		{"100", "parsecs", 0, 0, false},
	}
	for _, c := range cases {
		got, ok := ParseBytes(c.value, c.unit, c.block)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ParseBytes(%q,%q,%d) = (%d,%v), want (%d,%v)", c.value, c.unit, c.block, got, ok, c.want, c.ok)
		}
	}
}

func TestFormatBytesRoundTrip(t *testing.T) {
	cases := []int64{1024, 1024 * 1024, 4 * 1024 * 1024 * 1024, 7}
	for _, n := range cases {
		s := FormatBytes(n)
		var value, unit string
		for i, c := range s {
			if c < '0' || c > '9' {
				value, unit = s[:i], s[i:]
				break
			}
		}
		got, ok := ParseBytes(value, unit, 0)
		if !ok || got != n {
			t.Errorf("round trip failed for %d: formatted %q, parsed back (%d,%v)", n, s, got, ok)
		}
	}
}

func TestParseMillis(t *testing.T) {
	cases := []struct {
		value, unit string
		want        float64
		ok          bool
	}{
		{"30", "s", 30000, true},
		{"5", "min", 300000, true},
		{"1", "d", 86400000, true},
		{"500", "ms", 500, true},
		{"10", "", 10, true},
		{"x", "s", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseMillis(c.value, c.unit)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ParseMillis(%q,%q) = (%v,%v), want (%v,%v)", c.value, c.unit, got, ok, c.want, c.ok)
		}
	}
}

func TestParseBool(t *testing.T) {
	truthy := []string{"on", "true", "yes", "1", "ON"}
	falsy := []string{"off", "false", "no", "0", "OFF"}
	for _, v := range truthy {
		if got, ok := ParseBool(v); !ok || !got {
			t.Errorf("ParseBool(%q) = (%v,%v), want (true,true)", v, got, ok)
		}
	}
	for _, v := range falsy {
		if got, ok := ParseBool(v); !ok || got {
			t.Errorf("ParseBool(%q) = (%v,%v), want (false,true)", v, got, ok)
		}
	}
	if _, ok := ParseBool("maybe"); ok {
		t.Errorf("ParseBool(%q) should fail", "maybe")
	}
}
