// Package health detects structural problems with tables and indexes:
// bloat, sequential-scan hotspots, unused indexes, low-selectivity
// indexes, and failed index-only scans, plus two findings supplemented
// from the original implementation (missing partial indexes on
// soft-delete columns, BRIN candidates).
package health

import (
	"sort"

	"github.com/postgreat/postgreat/internal/rules"
	"github.com/postgreat/postgreat/internal/snapshot"
)

// Kind tags the variant of a structural Finding.
type Kind int

const (
	KindBloatedTable Kind = iota
	KindSeqScanHotspot
	KindUnusedIndex
	KindLowSelectivityIndex
	KindFailedIndexOnlyScan
	KindMissingPartialIndex
	KindBrinCandidate
)

func (k Kind) String() string {
	switch k {
	case KindBloatedTable:
		return "BloatedTable"
	case KindSeqScanHotspot:
		return "SeqScanHotspot"
	case KindUnusedIndex:
		return "UnusedIndex"
	case KindLowSelectivityIndex:
		return "LowSelectivityIndex"
	case KindFailedIndexOnlyScan:
		return "FailedIndexOnlyScan"
	case KindMissingPartialIndex:
		return "MissingPartialIndex"
	case KindBrinCandidate:
		return "BrinCandidate"
	default:
		return "Unknown"
	}
}

// Finding is a structural observation about a table or index.
type Finding struct {
	Kind      Kind
	Level     rules.Level
	Schema    string
	Relation  string
	Index     string // empty for table-only findings
	SizeBytes int64
	Metrics   map[string]float64
	Rationale string
	Actions   []string // remedies offered when more than one applies, e.g. INCLUDE or VACUUM
	LinkedTo  string    // cross-reference to another finding's identity, set by correlation
}

const (
	tableDeadRatioAlert    = 0.2
	tableDeadRatioCritical = 0.5
	tableDeadTupMinCount   = 1000
	autovacuumStaleSeconds = 7 * 24 * 3600
	autovacuumFreshSeconds = 3600

	seqScanMinLiveTuples = 10_000
	seqScanMinSizeBytes  = 5 * 1024 * 1024
	seqScanMultiplier    = 50
	seqScanImportantSize = 100 * 1024 * 1024

	unusedIndexImportantSize = 100 * 1024 * 1024

	lowSelectivityMinScans      = 50
	lowSelectivityMinLiveTuples = 10_000
	lowSelectivityRatio         = 0.2

	failedIndexOnlyMinScans = 100
	failedIndexOnlyRatio    = 0.5

	brinMinSizeBytes    = 10 * 1024 * 1024
	brinCorrelationHigh = 0.95
)

// Analyze runs every detector over the snapshot's table and index stats
// and returns findings ordered by severity desc, size desc, schema.relation
// lex — the tie-break ordering the engine's report contract requires.
func Analyze(snap snapshot.Snapshot, nowUnix int64) []Finding {
	var findings []Finding
	findings = append(findings, bloatedTables(snap.Tables, nowUnix)...)
	findings = append(findings, seqScanHotspots(snap.Tables)...)
	findings = append(findings, unusedIndexes(snap.Indexes)...)
	findings = append(findings, lowSelectivityIndexes(snap.Indexes, snap.Tables)...)
	findings = append(findings, failedIndexOnlyScans(snap.Indexes)...)
	findings = append(findings, missingPartialIndexes(snap.Tables)...)
	findings = append(findings, brinCandidates(snap.Indexes)...)

	SortFindings(findings)
	return findings
}

// SortFindings orders findings by severity desc, size desc, schema.relation
// lex — the tie-break ordering the report contract requires. Callers that
// mutate a finding's Level after Analyze (e.g. a workload correlation pass
// upgrading a SeqScanHotspot) must call this again before rendering, since
// the mutation can move a finding across the ordering.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Level != findings[j].Level {
			return findings[i].Level > findings[j].Level
		}
		if findings[i].SizeBytes != findings[j].SizeBytes {
			return findings[i].SizeBytes > findings[j].SizeBytes
		}
		return identity(findings[i]) < identity(findings[j])
	})
}

func identity(f Finding) string {
	id := f.Schema + "." + f.Relation
	if f.Index != "" {
		id += "." + f.Index
	}
	return id
}

func liveOf(t snapshot.TableStat) int64 {
	if t.LiveTuples <= 0 {
		return 1
	}
	return t.LiveTuples
}

func bloatedTables(tables []snapshot.TableStat, nowUnix int64) []Finding {
	var out []Finding
	for _, t := range tables {
		ratio := t.DeadRatio()
		if t.DeadTuples < tableDeadTupMinCount || ratio < tableDeadRatioAlert {
			continue
		}

		var lastAutovacuumAge int64 = -1
		if t.LastAutovacuum != nil {
			lastAutovacuumAge = nowUnix - *t.LastAutovacuum
		}

		level := rules.Important
		if ratio >= tableDeadRatioCritical {
			level = rules.Critical
		}
		stale := t.LastAutovacuum == nil || lastAutovacuumAge > autovacuumStaleSeconds
		if stale {
			level = rules.Important
		}
		if t.LastAutovacuum != nil && lastAutovacuumAge >= 0 && lastAutovacuumAge < autovacuumFreshSeconds {
			level = rules.Info
		}

		out = append(out, Finding{
			Kind: KindBloatedTable, Level: level,
			Schema: t.Schema, Relation: t.Table, SizeBytes: t.SizeBytes,
			Metrics: map[string]float64{"dead_tup_ratio": ratio, "n_dead_tup": float64(t.DeadTuples)},
			Rationale: bloatRationale(t, ratio, level),
		})
	}
	return out
}

func bloatRationale(t snapshot.TableStat, ratio float64, level rules.Level) string {
	switch level {
	case rules.Info:
		return "dead tuple ratio is elevated but autovacuum ran within the last hour and is keeping up"
	case rules.Critical:
		return "dead tuple ratio is at or above 50%, indicating severe bloat that is actively wasting disk and slowing scans"
	default:
		return "dead tuple ratio is at or above 20% and autovacuum has not run recently enough to keep up"
	}
}

func seqScanHotspots(tables []snapshot.TableStat) []Finding {
	var out []Finding
	for _, t := range tables {
		if t.LiveTuples <= seqScanMinLiveTuples || t.SizeBytes <= seqScanMinSizeBytes {
			continue
		}
		if t.SeqScan*seqScanMultiplier <= t.IdxScan {
			continue
		}
		level := rules.Recommended
		if t.IdxScan == 0 && t.SizeBytes > seqScanImportantSize {
			level = rules.Important
		}
		out = append(out, Finding{
			Kind: KindSeqScanHotspot, Level: level,
			Schema: t.Schema, Relation: t.Table, SizeBytes: t.SizeBytes,
			Metrics:   map[string]float64{"seq_scan": float64(t.SeqScan), "idx_scan": float64(t.IdxScan)},
			Rationale: "sequential scans dominate index scans on a table large enough that an index should be preferred; small tables correctly favor sequential scans, this one does not qualify as small",
		})
	}
	return out
}

func unusedIndexes(indexes []snapshot.IndexStat) []Finding {
	var out []Finding
	for _, idx := range indexes {
		if idx.IdxScan != 0 || idx.IsUnique || idx.IsPrimary || idx.IsConstraint {
			continue
		}
		level := rules.Recommended
		if idx.SizeBytes >= unusedIndexImportantSize {
			level = rules.Important
		}
		out = append(out, Finding{
			Kind: KindUnusedIndex, Level: level,
			Schema: idx.Schema, Relation: idx.Table, Index: idx.Index, SizeBytes: idx.SizeBytes,
			Metrics:   map[string]float64{"idx_scan": 0},
			Rationale: "this index has never been scanned and enforces no uniqueness or constraint; it is safe to drop and is wasting write overhead and disk space",
		})
	}
	return out
}

func lowSelectivityIndexes(indexes []snapshot.IndexStat, tables []snapshot.TableStat) []Finding {
	liveByTable := map[string]int64{}
	for _, t := range tables {
		liveByTable[t.Schema+"."+t.Table] = liveOf(t)
	}
	var out []Finding
	for _, idx := range indexes {
		if idx.IsUnique || idx.IdxScan < lowSelectivityMinScans {
			continue
		}
		live, ok := liveByTable[idx.Schema+"."+idx.Table]
		if !ok || live <= lowSelectivityMinLiveTuples {
			continue
		}
		avgTupRead := float64(idx.IdxTupRead) / float64(maxInt64(idx.IdxScan, 1))
		if avgTupRead < lowSelectivityRatio*float64(live) {
			continue
		}
		out = append(out, Finding{
			Kind: KindLowSelectivityIndex, Level: rules.Important,
			Schema: idx.Schema, Relation: idx.Table, Index: idx.Index, SizeBytes: idx.SizeBytes,
			Metrics:   map[string]float64{"avg_tup_read_per_scan": avgTupRead},
			Rationale: "this index returns a large fraction of the table per scan on average, providing little selectivity benefit over a sequential scan",
		})
	}
	return out
}

func failedIndexOnlyScans(indexes []snapshot.IndexStat) []Finding {
	var out []Finding
	for _, idx := range indexes {
		if idx.IdxScan < failedIndexOnlyMinScans {
			continue
		}
		ratio := float64(idx.HeapFetches) / float64(maxInt64(idx.TupRead, 1))
		if ratio < failedIndexOnlyRatio {
			continue
		}
		out = append(out, Finding{
			Kind: KindFailedIndexOnlyScan, Level: rules.Important,
			Schema: idx.Schema, Relation: idx.Table, Index: idx.Index, SizeBytes: idx.SizeBytes,
			Metrics:   map[string]float64{"heap_fetch_ratio": ratio},
			Rationale: "index-only scans are still visiting the heap for most rows, losing their main benefit",
			Actions:   []string{"add the needed columns to an INCLUDE clause", "run VACUUM to refresh the visibility map"},
		})
	}
	return out
}

var softDeleteColumnNames = map[string]bool{
	"is_deleted": true, "deleted_at": true, "archived": true, "is_archived": true,
}

func missingPartialIndexes(tables []snapshot.TableStat) []Finding {
	var out []Finding
	for _, t := range tables {
		if !t.HasSoftDelete {
			continue
		}
		out = append(out, Finding{
			Kind: KindMissingPartialIndex, Level: rules.Recommended,
			Schema: t.Schema, Relation: t.Table, SizeBytes: t.SizeBytes,
			Rationale: "this table carries a soft-delete column but no partial index filters it out; queries scanning only live rows pay for scanning deleted ones too",
		})
	}
	return out
}

func brinCandidates(indexes []snapshot.IndexStat) []Finding {
	var out []Finding
	for _, idx := range indexes {
		if idx.SizeBytes < brinMinSizeBytes || idx.Correlation < brinCorrelationHigh {
			continue
		}
		out = append(out, Finding{
			Kind: KindBrinCandidate, Level: rules.Recommended,
			Schema: idx.Schema, Relation: idx.Table, Index: idx.Index, SizeBytes: idx.SizeBytes,
			Metrics:   map[string]float64{"correlation": idx.Correlation},
			Rationale: "the leading column is highly correlated with physical row order on a large table; a BRIN index would be far smaller than this B-tree with comparable scan performance",
		})
	}
	return out
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
