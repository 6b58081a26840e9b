// Package snapshot defines the typed, in-memory view of a PostgreSQL
// instance that the rest of the engine operates on, and the provider
// contract used to populate it. Nothing in this package talks to a
// database directly — internal/pgsnapshot does that.
package snapshot

import (
	"context"
	"errors"

	"github.com/postgreat/postgreat/internal/units"
)

// ErrNotAvailable is returned by a provider method when the underlying
// extension or statistics view is not installed. Callers treat this as a
// degraded, non-fatal condition.
var ErrNotAvailable = errors.New("snapshot: source not available")

// Setting is a row from pg_settings, carried with both its raw string form
// and typed accessors. A Setting that fails a typed parse is not an error;
// callers receive ok=false and decide whether that matters.
type Setting struct {
	Name    string
	Value   string
	Unit    string
	Context string
	VarType string
}

// Bytes interprets the setting as a byte quantity, given the instance's
// block size (0 uses the 8 KiB default).
func (s Setting) Bytes(blockSize int64) (int64, bool) {
	return units.ParseBytes(s.Value, s.Unit, blockSize)
}

// Millis interprets the setting as a duration in milliseconds.
func (s Setting) Millis() (float64, bool) {
	return units.ParseMillis(s.Value, s.Unit)
}

// Bool interprets the setting as a boolean GUC.
func (s Setting) Bool() (bool, bool) {
	return units.ParseBool(s.Value)
}

// Int interprets the setting as a plain integer (e.g. max_connections).
func (s Setting) Int() (int64, bool) {
	n, ok := units.ParseBytes(s.Value, "", 0)
	return n, ok
}

// Float interprets the setting as a plain float (e.g. random_page_cost).
func (s Setting) Float() (float64, bool) {
	return units.ParseMillis(s.Value, "")
}

// TableStat is a row from pg_stat_user_tables joined with relation size.
type TableStat struct {
	Schema          string
	Table           string
	SizeBytes       int64
	LiveTuples      int64
	DeadTuples      int64
	SeqScan         int64
	SeqTupRead      int64
	IdxScan         int64
	IdxTupFetch     int64
	LastAutovacuum  *int64 // unix seconds, nil if never
	LastVacuum      *int64
	HasSoftDelete   bool // a soft-delete column that no partial index predicate mentions
}

// DeadRatio returns dead tuples over live+dead tuples, 0 when the table has
// no tuples at all to avoid a division by zero.
func (t TableStat) DeadRatio() float64 {
	total := t.LiveTuples + t.DeadTuples
	if total <= 0 {
		return 0
	}
	return float64(t.DeadTuples) / float64(total)
}

// IndexStat is a row from pg_stat_user_indexes joined with pg_index and
// pg_class for size and uniqueness.
type IndexStat struct {
	Schema          string
	Table           string
	Index           string
	Columns         []string
	SizeBytes       int64
	IdxScan         int64
	IdxTupRead      int64
	IdxTupFetch     int64
	IsUnique        bool
	IsPrimary       bool
	IsConstraint    bool
	HeapFetches     int64 // for index-only scan effectiveness
	TupRead         int64
	Correlation     float64 // leading column's pg_stats.correlation, for BRIN candidacy
}

// Statement is a row from pg_stat_statements.
type Statement struct {
	QueryID         int64
	Query           string
	Calls           int64
	TotalExecTime   float64
	MeanExecTime    float64
	Rows            int64
	SharedBlksRead  int64
	TempBlksWritten int64
}

// Snapshot is the full point-in-time view an engine run operates on.
type Snapshot struct {
	Settings          []Setting
	ActiveConnections uint32
	Tables            []TableStat
	Indexes           []IndexStat
	Statements        []Statement
	StatementsErr     error // non-nil when the optional pg_stat_statements fetch degraded
	BlockSize         int64
}

// SettingsMap indexes Settings by name for O(1) rule lookups.
func (s Snapshot) SettingsMap() map[string]Setting {
	m := make(map[string]Setting, len(s.Settings))
	for _, st := range s.Settings {
		m[st.Name] = st
	}
	return m
}

// Provider is the external collaborator boundary: the only place a run
// suspends. Implementations live in internal/pgsnapshot.
type Provider interface {
	FetchSettings(ctx context.Context) ([]Setting, error)
	FetchActiveConnections(ctx context.Context) (uint32, error)
	FetchTableStats(ctx context.Context) ([]TableStat, error)
	FetchIndexStats(ctx context.Context) ([]IndexStat, error)
	FetchStatStatements(ctx context.Context, limit int) ([]Statement, error)
}

// Collect runs the five provider calls and assembles a Snapshot. Settings
// and active connections are required; failure there is fatal. Table
// stats, index stats, and statements degrade independently: a failure on
// any of them is recorded and the run continues.
func Collect(ctx context.Context, p Provider, statementLimit int) (Snapshot, []string, error) {
	settings, err := p.FetchSettings(ctx)
	if err != nil {
		return Snapshot{}, nil, err
	}

	var warnings []string

	conns, err := p.FetchActiveConnections(ctx)
	if err != nil {
		return Snapshot{}, nil, err
	}

	snap := Snapshot{
		Settings:          settings,
		ActiveConnections: conns,
		BlockSize:         blockSizeFrom(settings),
	}

	if tables, err := p.FetchTableStats(ctx); err != nil {
		warnings = append(warnings, "table statistics unavailable: "+err.Error())
	} else {
		snap.Tables = tables
	}

	if indexes, err := p.FetchIndexStats(ctx); err != nil {
		warnings = append(warnings, "index statistics unavailable: "+err.Error())
	} else {
		snap.Indexes = indexes
	}

	stmts, err := p.FetchStatStatements(ctx, statementLimit)
	if err != nil {
		snap.StatementsErr = err
		if errors.Is(err, ErrNotAvailable) {
			warnings = append(warnings, "pg_stat_statements is not installed; workload analysis skipped")
		} else {
			warnings = append(warnings, "pg_stat_statements query failed: "+err.Error())
		}
	} else {
		snap.Statements = stmts
	}

	return snap, warnings, nil
}

func blockSizeFrom(settings []Setting) int64 {
	for _, s := range settings {
		if s.Name == "block_size" {
			if n, ok := s.Int(); ok {
				return n
			}
		}
	}
	return units.DefaultBlockSize
}
