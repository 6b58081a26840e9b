package rules

import (
	"testing"

	"github.com/postgreat/postgreat/internal/profile"
	"github.com/postgreat/postgreat/internal/snapshot"
)

func settingsFromMap(m map[string]string) []snapshot.Setting {
	var out []snapshot.Setting
	for name, value := range m {
		out = append(out, snapshot.Setting{Name: name, Value: value})
	}
	return out
}

func findSuggestion(suggestions []Suggestion, id string) *Suggestion {
	for i := range suggestions {
		if suggestions[i].ID == id {
			return &suggestions[i]
		}
	}
	return nil
}

func TestMediumOLTPOnDefaultsScenario(t *testing.T) {
	p, _ := profile.Parse("medium", profile.WorkloadOLTP)
	settings := settingsFromMap(map[string]string{
		"shared_buffers":                "128MB",
		"effective_cache_size":          "4GB",
		"work_mem":                      "4MB",
		"random_page_cost":              "4.0",
		"max_wal_size":                  "1GB",
		"autovacuum_vacuum_cost_limit":  "-1",
		"max_connections":               "100",
	})
	ctx := NewContext(snapshot.Snapshot{Settings: settings, BlockSize: 8192}, p)
	suggestions := Evaluate(ctx, Info)

	want := map[string]Level{
		"planner.random_page_cost":    Critical,
		"memory.shared_buffers":       Important,
		"memory.effective_cache_size": Important,
		"wal.max_wal_size":            Important,
	}
	for id, level := range want {
		s := findSuggestion(suggestions, id)
		if s == nil {
			t.Fatalf("expected suggestion %s, not found in %+v", id, suggestions)
		}
		if s.Level != level {
			t.Errorf("%s: expected level %v, got %v", id, level, s.Level)
		}
	}
	// autovacuum_vacuum_cost_limit=-1 is numerically <= 200 so triggers Important.
	if s := findSuggestion(suggestions, "autovacuum.vacuum_cost_limit"); s == nil || s.Level != Important {
		t.Errorf("expected Important autovacuum.vacuum_cost_limit, got %+v", s)
	}
}

func TestOOMRiskScenario(t *testing.T) {
	p, _ := profile.Parse("large", profile.WorkloadOLTP)
	p.RAMBytes = 64 * gib
	settings := settingsFromMap(map[string]string{
		"work_mem":        "512MB",
		"max_connections": "200",
	})
	ctx := NewContext(snapshot.Snapshot{Settings: settings}, p)
	s := workMemRule(ctx)
	if s == nil || s.Level != Critical {
		t.Fatalf("expected Critical work_mem suggestion, got %+v", s)
	}
}

func TestWorkMemBoundaryExactlyHalfRAMDoesNotFire(t *testing.T) {
	p := profile.Profile{VCPUs: 8, RAMBytes: 64 * gib, WorkloadHint: profile.WorkloadOLTP}
	// work_mem * max_connections == 50% RAM exactly: 32GiB total, 100 conns -> 32GiB/100
	workMem := int64(32*gib) / 100
	settings := []snapshot.Setting{
		{Name: "work_mem", Value: itoa(workMem)},
		{Name: "max_connections", Value: "100"},
	}
	ctx := NewContext(snapshot.Snapshot{Settings: settings}, p)
	s := workMemRule(ctx)
	if s != nil && s.Level == Critical {
		t.Fatalf("expected no Critical at exact 50%% boundary, got %+v", s)
	}
}

func TestRandomPageCostBoundaries(t *testing.T) {
	p, _ := profile.Parse("medium", "")
	cases := []struct {
		value string
		level Level
	}{
		{"3.0", Critical},
		{"2.9", Important},
		{"1.1", Info}, // already at the expected value
	}
	for _, c := range cases {
		ctx := NewContext(snapshot.Snapshot{Settings: []snapshot.Setting{{Name: "random_page_cost", Value: c.value}}}, p)
		s := randomPageCostRule(ctx)
		if s == nil || s.Level != c.level {
			t.Errorf("value=%s: expected level %v, got %+v", c.value, c.level, s)
		}
	}
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestDeterminism(t *testing.T) {
	p, _ := profile.Parse("medium", profile.WorkloadOLTP)
	settings := settingsFromMap(map[string]string{"work_mem": "4MB", "random_page_cost": "4.0"})
	ctx := NewContext(snapshot.Snapshot{Settings: settings}, p)
	a := Evaluate(ctx, Info)
	b := Evaluate(ctx, Info)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic suggestion count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Level != b[i].Level {
			t.Errorf("non-deterministic at index %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestNoDuplicateIDs(t *testing.T) {
	p, _ := profile.Parse("medium", profile.WorkloadOLTP)
	ctx := NewContext(snapshot.Snapshot{Settings: settingsFromMap(map[string]string{"work_mem": "4MB"})}, p)
	seen := map[string]bool{}
	for _, s := range Evaluate(ctx, Info) {
		if seen[s.ID] {
			t.Errorf("duplicate suggestion id %s", s.ID)
		}
		seen[s.ID] = true
	}
}
