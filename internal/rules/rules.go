// Package rules implements the configuration rule library: pure functions
// over (Snapshot, Profile) that each emit at most one Suggestion. Rules are
// registered as values, not as a class hierarchy, per the design note that
// ~30 independent checks need no open-recursion or dynamic dispatch.
package rules

import (
	"sort"

	"github.com/postgreat/postgreat/internal/profile"
	"github.com/postgreat/postgreat/internal/snapshot"
)

// Level is a suggestion's severity, totally ordered Critical > Important >
// Recommended > Info.
type Level int

const (
	Info Level = iota
	Recommended
	Important
	Critical
)

func (l Level) String() string {
	switch l {
	case Critical:
		return "Critical"
	case Important:
		return "Important"
	case Recommended:
		return "Recommended"
	default:
		return "Info"
	}
}

// Category groups suggestions and findings for report ordering. The order
// of these constants is the report's category order.
type Category int

const (
	CategoryMemory Category = iota
	CategoryConcurrency
	CategoryWAL
	CategoryPlanner
	CategoryAutovacuum
	CategoryLogging
	CategoryTableIndexHealth
	CategoryWorkload
)

func (c Category) String() string {
	switch c {
	case CategoryMemory:
		return "Memory"
	case CategoryConcurrency:
		return "Concurrency"
	case CategoryWAL:
		return "WAL"
	case CategoryPlanner:
		return "Planner"
	case CategoryAutovacuum:
		return "Autovacuum"
	case CategoryLogging:
		return "Logging"
	case CategoryTableIndexHealth:
		return "TableIndexHealth"
	case CategoryWorkload:
		return "Workload"
	default:
		return "Unknown"
	}
}

// Suggestion is a typed, categorized, severity-ranked recommendation.
type Suggestion struct {
	ID           string
	Category     Category
	Level        Level
	Parameter    string
	Current      string
	Recommended  string
	Rationale    string
	EvidenceRefs []string
}

// Context is what every rule runs against. Settings is pre-indexed by name
// so rules do a single map lookup instead of scanning the slice.
type Context struct {
	Settings  map[string]snapshot.Setting
	Profile   profile.Profile
	BlockSize int64
}

// NewContext builds a Context from a Snapshot and Profile.
func NewContext(snap snapshot.Snapshot, p profile.Profile) Context {
	return Context{
		Settings:  snap.SettingsMap(),
		Profile:   p,
		BlockSize: snap.BlockSize,
	}
}

// Rule is a single registry entry: a stable id, its category, and a pure
// function that inspects the Context and may emit a Suggestion.
type Rule struct {
	ID       string
	Category Category
	Run      func(Context) *Suggestion
}

// Registry is the ordered list of every configuration rule. Evaluate walks
// it and collects the non-nil results.
var Registry = buildRegistry()

func buildRegistry() []Rule {
	var all []Rule
	all = append(all, memoryRules()...)
	all = append(all, concurrencyRules()...)
	all = append(all, walRules()...)
	all = append(all, plannerRules()...)
	all = append(all, autovacuumRules()...)
	all = append(all, loggingRules()...)
	return all
}

// Evaluate runs every rule in the registry against ctx and returns the
// resulting suggestions ordered by category, then level desc, then id —
// matching the Report ordering contract.
func Evaluate(ctx Context, severityFloor Level) []Suggestion {
	var out []Suggestion
	for _, r := range Registry {
		s := r.Run(ctx)
		if s == nil {
			continue
		}
		if s.Level < severityFloor {
			continue
		}
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Level != out[j].Level {
			return out[i].Level > out[j].Level
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// settingInt looks up a setting by name and parses it as a plain integer.
func settingInt(ctx Context, name string) (int64, bool) {
	s, ok := ctx.Settings[name]
	if !ok {
		return 0, false
	}
	return s.Int()
}

func settingFloat(ctx Context, name string) (float64, bool) {
	s, ok := ctx.Settings[name]
	if !ok {
		return 0, false
	}
	return s.Float()
}

func settingBytes(ctx Context, name string) (int64, bool) {
	s, ok := ctx.Settings[name]
	if !ok {
		return 0, false
	}
	return s.Bytes(ctx.BlockSize)
}

func settingMillis(ctx Context, name string) (float64, bool) {
	s, ok := ctx.Settings[name]
	if !ok {
		return 0, false
	}
	return s.Millis()
}

func settingBool(ctx Context, name string) (bool, bool) {
	s, ok := ctx.Settings[name]
	if !ok {
		return false, false
	}
	return s.Bool()
}

// skipped builds the Info suggestion emitted when a setting this rule
// depends on could not be parsed — per the error-handling design, a parse
// failure degrades the rule to a skip notice rather than aborting.
func skipped(id string, cat Category, parameter string) *Suggestion {
	return &Suggestion{
		ID:        id,
		Category:  cat,
		Level:     Info,
		Parameter: parameter,
		Rationale: "check skipped: " + parameter + " could not be parsed from pg_settings",
	}
}
