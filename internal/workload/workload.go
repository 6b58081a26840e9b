// Package workload ranks slow statements from pg_stat_statements, parses
// their SQL to extract predicate columns, and proposes index candidates,
// correlating them with table/index health findings.
package workload

import (
	"sort"
	"strings"

	"github.com/postgreat/postgreat/internal/health"
	"github.com/postgreat/postgreat/internal/rules"
	"github.com/postgreat/postgreat/internal/snapshot"
	"github.com/postgreat/postgreat/internal/workload/sqlparse"
)

// Slot labels a ranking dimension. Slots are ordered worst-to-best for the
// "retain the worst category label" dedup rule: a lower index wins.
type Slot int

const (
	SlotTotalTime Slot = iota
	SlotMeanTime
	SlotTempBlocks
	SlotSharedBlocksRead
)

func (s Slot) String() string {
	switch s {
	case SlotTotalTime:
		return "total_exec_time"
	case SlotMeanTime:
		return "mean_exec_time"
	case SlotTempBlocks:
		return "temp_blks_written"
	case SlotSharedBlocksRead:
		return "shared_blks_read"
	default:
		return "unknown"
	}
}

const (
	minCallsForMeanSlot    = 10
	minTempBlocksForSlot   = 0
	minSharedBlksReadSlot  = 1000
	defaultRankLimit       = 20
	indexCandidateMaxCols  = 3
)

// RankedStatement is a statement plus the worst (lowest-index) slot it
// qualified for.
type RankedStatement struct {
	snapshot.Statement
	Slot Slot
}

// IndexCandidate is a proposed index, deduplicated across fingerprints.
type IndexCandidate struct {
	Table              string
	Columns            []string
	Include            []string
	SourceFingerprints []int64
	EstBenefitMs       float64
	LinkedHotspot       string // set when correlated with a SeqScanHotspot finding
}

// Result is the workload analyzer's output.
type Result struct {
	Ranked          []RankedStatement
	ParseFailures   map[int64]string // fingerprint (queryid) -> error
	IndexCandidates []IndexCandidate
	Warnings        []string
}

// Analyze ranks statements, parses their SQL, proposes index candidates,
// and correlates proposals with existing SeqScanHotspot findings. When the
// snapshot recorded any pg_stat_statements error, it returns a Result that
// holds only a warning.
func Analyze(snap snapshot.Snapshot, findings []health.Finding, limit int) *Result {
	if limit <= 0 {
		limit = defaultRankLimit
	}
	if snap.StatementsErr != nil {
		return &Result{Warnings: []string{"pg_stat_statements is unavailable; workload analysis skipped"}}
	}
	if len(snap.Statements) == 0 {
		return &Result{}
	}

	res := &Result{ParseFailures: map[int64]string{}}
	res.Ranked = rankStatements(snap.Statements, limit)

	catalog := buildIndexCatalog(snap.Indexes)
	usageByTable := map[string]*aggregatedUsage{}

	for _, rs := range res.Ranked {
		usage, err := sqlparse.Parse(rs.Query)
		if err != nil {
			res.ParseFailures[rs.QueryID] = err.Error()
			continue
		}
		for table, tcu := range usage.UsageByTable {
			agg := usageByTable[table]
			if agg == nil {
				agg = &aggregatedUsage{}
				usageByTable[table] = agg
			}
			agg.filterEq = appendUniqueStr(agg.filterEq, tcu.FilterEquality...)
			agg.filterRange = appendUniqueStr(agg.filterRange, tcu.FilterRange...)
			agg.joins = appendUniqueStr(agg.joins, tcu.Joins...)
			agg.orders = appendUniqueStr(agg.orders, tcu.Orders...)
			agg.projected = appendUniqueStr(agg.projected, tcu.Projected...)
			agg.fingerprints = append(agg.fingerprints, rs.QueryID)
			agg.benefitMs += rs.TotalExecTime
		}
	}

	res.IndexCandidates = buildCandidates(usageByTable, catalog)
	correlateWithHotspots(res.IndexCandidates, findings)
	return res
}

type aggregatedUsage struct {
	filterEq, filterRange, joins, orders, projected []string
	fingerprints                                    []int64
	benefitMs                                        float64
}

func appendUniqueStr(ss []string, add ...string) []string {
	for _, a := range add {
		found := false
		for _, s := range ss {
			if strings.EqualFold(s, a) {
				found = true
				break
			}
		}
		if !found {
			ss = append(ss, a)
		}
	}
	return ss
}

// rankStatements computes the top-N by total_exec_time, then folds in the
// other three slots, keeping each fingerprint's worst (lowest-index) slot.
func rankStatements(stmts []snapshot.Statement, limit int) []RankedStatement {
	best := map[int64]Slot{}
	order := map[int64]int{}
	for i, s := range stmts {
		order[s.QueryID] = i
	}

	consider := func(ids []int64, slot Slot) {
		for _, id := range ids {
			if cur, ok := best[id]; !ok || slot < cur {
				best[id] = slot
			}
		}
	}

	consider(topNIDs(stmts, limit, func(s snapshot.Statement) float64 { return s.TotalExecTime }, nil), SlotTotalTime)
	consider(topNIDs(stmts, limit, func(s snapshot.Statement) float64 { return s.MeanExecTime }, func(s snapshot.Statement) bool { return s.Calls >= minCallsForMeanSlot }), SlotMeanTime)
	consider(topNIDs(stmts, limit, func(s snapshot.Statement) float64 { return float64(s.TempBlksWritten) }, func(s snapshot.Statement) bool { return s.TempBlksWritten > minTempBlocksForSlot }), SlotTempBlocks)
	consider(topNIDs(stmts, limit, func(s snapshot.Statement) float64 { return float64(s.SharedBlksRead) }, func(s snapshot.Statement) bool { return s.SharedBlksRead > minSharedBlksReadSlot }), SlotSharedBlocksRead)

	byID := map[int64]snapshot.Statement{}
	for _, s := range stmts {
		byID[s.QueryID] = s
	}

	var out []RankedStatement
	for id, slot := range best {
		out = append(out, RankedStatement{Statement: byID[id], Slot: slot})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Slot != out[j].Slot {
			return out[i].Slot < out[j].Slot
		}
		if out[i].TotalExecTime != out[j].TotalExecTime {
			return out[i].TotalExecTime > out[j].TotalExecTime
		}
		return out[i].QueryID < out[j].QueryID
	})
	return out
}

func topNIDs(stmts []snapshot.Statement, n int, metric func(snapshot.Statement) float64, filter func(snapshot.Statement) bool) []int64 {
	filtered := make([]snapshot.Statement, 0, len(stmts))
	for _, s := range stmts {
		if filter == nil || filter(s) {
			filtered = append(filtered, s)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return metric(filtered[i]) > metric(filtered[j]) })
	if len(filtered) > n {
		filtered = filtered[:n]
	}
	ids := make([]int64, len(filtered))
	for i, s := range filtered {
		ids[i] = s.QueryID
	}
	return ids
}

// indexCatalog maps a table name to the ordered column lists of its
// existing indexes, used to suppress candidates already covered by a
// prefix match.
type indexCatalog map[string][][]string

func buildIndexCatalog(indexes []snapshot.IndexStat) indexCatalog {
	cat := indexCatalog{}
	for _, idx := range indexes {
		key := strings.ToLower(idx.Table)
		cat[key] = append(cat[key], idx.Columns)
	}
	return cat
}

func isCovered(cat indexCatalog, table string, columns []string) bool {
	for _, existing := range cat[strings.ToLower(table)] {
		if len(existing) < len(columns) {
			continue
		}
		covered := true
		for i, c := range columns {
			if !strings.EqualFold(existing[i], c) {
				covered = false
				break
			}
		}
		if covered {
			return true
		}
	}
	return false
}

func buildCandidates(usageByTable map[string]*aggregatedUsage, cat indexCatalog) []IndexCandidate {
	var out []IndexCandidate
	seen := map[string]*IndexCandidate{}

	for table, agg := range usageByTable {
		// A composite index's key should lead with equality-predicate
		// columns, followed by join columns (equality-like by nature), then
		// range-predicate columns, then sort columns.
		var cols []string
		cols = appendUniqueStr(cols, agg.filterEq...)
		cols = appendUniqueStr(cols, agg.joins...)
		cols = appendUniqueStr(cols, agg.filterRange...)
		cols = appendUniqueStr(cols, agg.orders...)
		if len(cols) == 0 {
			continue
		}
		if len(cols) > indexCandidateMaxCols {
			cols = cols[:indexCandidateMaxCols]
		}
		if isCovered(cat, table, cols) {
			continue
		}

		// When the statement projects columns outside the predicate set and
		// at least one predicate column is an equality filter, propose an
		// INCLUDE variant listing the extra projected columns so the index
		// alone can satisfy the query. Per-column selectivity isn't
		// available from workload stats alone, so the presence of an
		// equality filter stands in for "highly selective" (an explicit
		// simplification, see DESIGN.md).
		var include []string
		if len(agg.filterEq) > 0 {
			include = projectedOnly(agg.projected, cols)
		}

		key := strings.ToLower(table) + ":" + strings.ToLower(strings.Join(cols, ","))
		if existing, ok := seen[key]; ok {
			existing.SourceFingerprints = appendUniqueInt64(existing.SourceFingerprints, agg.fingerprints...)
			existing.EstBenefitMs += agg.benefitMs
			existing.Include = appendUniqueStr(existing.Include, include...)
			continue
		}
		c := &IndexCandidate{
			Table:              table,
			Columns:            cols,
			Include:            include,
			SourceFingerprints: agg.fingerprints,
			EstBenefitMs:       agg.benefitMs,
		}
		seen[key] = c
		out = append(out, *c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EstBenefitMs != out[j].EstBenefitMs {
			return out[i].EstBenefitMs > out[j].EstBenefitMs
		}
		return out[i].Table < out[j].Table
	})
	return out
}

// projectedOnly returns the projected columns not already part of the
// index's key columns — the set an INCLUDE clause would add.
func projectedOnly(projected, keyCols []string) []string {
	var out []string
	for _, p := range projected {
		inKey := false
		for _, k := range keyCols {
			if strings.EqualFold(p, k) {
				inKey = true
				break
			}
		}
		if !inKey {
			out = appendUniqueStr(out, p)
		}
	}
	return out
}

func appendUniqueInt64(ss []int64, add ...int64) []int64 {
	for _, a := range add {
		found := false
		for _, s := range ss {
			if s == a {
				found = true
				break
			}
		}
		if !found {
			ss = append(ss, a)
		}
	}
	return ss
}

// correlateWithHotspots links each index candidate whose table matches a
// SeqScanHotspot finding, per the cross-reference design note. The caller
// is expected to upgrade the matching finding's severity separately; this
// function only records the link on the candidate side.
func correlateWithHotspots(candidates []IndexCandidate, findings []health.Finding) {
	hotspotByTable := map[string]string{}
	for _, f := range findings {
		if f.Kind == health.KindSeqScanHotspot {
			hotspotByTable[strings.ToLower(f.Schema+"."+f.Relation)] = f.Schema + "." + f.Relation
		}
	}
	for i := range candidates {
		for key, identity := range hotspotByTable {
			if strings.HasSuffix(key, "."+strings.ToLower(candidates[i].Table)) {
				candidates[i].LinkedHotspot = identity
			}
		}
	}
}

// UpgradeCorrelatedHotspots raises a SeqScanHotspot finding to Important
// and records the link when a workload index candidate targets its table.
func UpgradeCorrelatedHotspots(findings []health.Finding, candidates []IndexCandidate) {
	linked := map[string]string{}
	for _, c := range candidates {
		if c.LinkedHotspot != "" {
			linked[strings.ToLower(c.Table)] = c.LinkedHotspot
		}
	}
	for i := range findings {
		if findings[i].Kind != health.KindSeqScanHotspot {
			continue
		}
		if _, ok := linked[strings.ToLower(findings[i].Relation)]; ok {
			findings[i].Level = rules.Important
			findings[i].LinkedTo = "workload index candidate"
		}
	}
}
