package health

import (
	"testing"

	"github.com/postgreat/postgreat/internal/rules"
	"github.com/postgreat/postgreat/internal/snapshot"
)

func TestBloatWithHealthyAutovacuumIsInfo(t *testing.T) {
	tenMinAgo := int64(600)
	tables := []snapshot.TableStat{{
		Schema: "public", Table: "orders",
		LiveTuples: 10_000_000, DeadTuples: 3_000_000,
		LastAutovacuum: &tenMinAgo,
	}}
	findings := bloatedTables(tables, 1200)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Level != rules.Info {
		t.Errorf("expected Info, got %v", findings[0].Level)
	}
}

func TestBloatBoundaryExactThousandDeadTuplesNullAutovacuum(t *testing.T) {
	tables := []snapshot.TableStat{{
		Schema: "public", Table: "events",
		LiveTuples: 4000, DeadTuples: 1000, // ratio exactly 0.2
	}}
	findings := bloatedTables(tables, 1000)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Level != rules.Important {
		t.Errorf("expected Important, got %v", findings[0].Level)
	}
}

func TestSeqScanHotspotBoundaryNotFlagged(t *testing.T) {
	tables := []snapshot.TableStat{{
		Schema: "public", Table: "small_enough",
		LiveTuples: 10_000, SizeBytes: 5 * 1024 * 1024,
		SeqScan: 10, IdxScan: 500, // 10*50 == 500
	}}
	findings := seqScanHotspots(tables)
	if len(findings) != 0 {
		t.Fatalf("expected no hotspot at the boundary, got %+v", findings)
	}
}

func TestUnusedIndexExcludesPrimaryKey(t *testing.T) {
	indexes := []snapshot.IndexStat{{
		Schema: "public", Table: "orders", Index: "orders_pkey",
		IdxScan: 0, IsPrimary: true,
	}}
	if got := unusedIndexes(indexes); len(got) != 0 {
		t.Fatalf("expected primary key to be excluded, got %+v", got)
	}
}

func TestUnusedLargeIndexIsImportant(t *testing.T) {
	indexes := []snapshot.IndexStat{{
		Schema: "public", Table: "rental", Index: "idx_orders_note",
		IdxScan: 0, SizeBytes: 250 * 1024 * 1024,
	}}
	got := unusedIndexes(indexes)
	if len(got) != 1 || got[0].Level != rules.Important {
		t.Fatalf("expected Important unused index, got %+v", got)
	}
}

func TestFailedIndexOnlyScanListsBothRemedies(t *testing.T) {
	indexes := []snapshot.IndexStat{{
		Schema: "public", Table: "rental", Index: "idx_rental_return",
		IdxScan: 500, TupRead: 1_000_000, HeapFetches: 900_000,
	}}
	got := failedIndexOnlyScans(indexes)
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(got))
	}
	if len(got[0].Actions) != 2 {
		t.Errorf("expected both INCLUDE and VACUUM remedies, got %v", got[0].Actions)
	}
}

func TestAnalyzeOrdering(t *testing.T) {
	tables := []snapshot.TableStat{
		{Schema: "public", Table: "small_bloat", LiveTuples: 4000, DeadTuples: 1000, SizeBytes: 1000},
		{Schema: "public", Table: "big_bloat", LiveTuples: 4000, DeadTuples: 3000, SizeBytes: 2000},
	}
	findings := Analyze(snapshot.Snapshot{Tables: tables}, 0)
	if len(findings) < 2 {
		t.Fatalf("expected at least 2 findings, got %d", len(findings))
	}
	if findings[0].Level < findings[1].Level {
		t.Errorf("expected findings sorted by severity desc, got %+v then %+v", findings[0], findings[1])
	}
}
