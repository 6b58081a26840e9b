package snapshot

import (
	"context"
	"errors"
	"testing"
)

type fakeProvider struct {
	settings []Setting
	conns    uint32
	tables   []TableStat
	indexes  []IndexStat
	stmts    []Statement
	stmtsErr error
	settErr  error
	connErr  error
}

func (f *fakeProvider) FetchSettings(ctx context.Context) ([]Setting, error) {
	return f.settings, f.settErr
}
func (f *fakeProvider) FetchActiveConnections(ctx context.Context) (uint32, error) {
	return f.conns, f.connErr
}
func (f *fakeProvider) FetchTableStats(ctx context.Context) ([]TableStat, error) {
	return f.tables, nil
}
func (f *fakeProvider) FetchIndexStats(ctx context.Context) ([]IndexStat, error) {
	return f.indexes, nil
}
func (f *fakeProvider) FetchStatStatements(ctx context.Context, limit int) ([]Statement, error) {
	return f.stmts, f.stmtsErr
}

func TestCollectFatalOnSettings(t *testing.T) {
	p := &fakeProvider{settErr: errors.New("connection refused")}
	_, _, err := Collect(context.Background(), p, 10)
	if err == nil {
		t.Fatal("expected fatal error when settings fetch fails")
	}
}

func TestCollectDegradesOnStatements(t *testing.T) {
	p := &fakeProvider{
		settings: []Setting{{Name: "block_size", Value: "8192"}},
		stmtsErr: ErrNotAvailable,
	}
	snap, warnings, err := Collect(context.Background(), p, 10)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if snap.StatementsErr == nil {
		t.Error("expected StatementsErr to be set")
	}
}

func TestDeadRatioGuardsZeroDivision(t *testing.T) {
	ts := TableStat{LiveTuples: 0, DeadTuples: 0}
	if ts.DeadRatio() != 0 {
		t.Errorf("expected 0, got %v", ts.DeadRatio())
	}
	ts2 := TableStat{LiveTuples: 800, DeadTuples: 200}
	if got := ts2.DeadRatio(); got != 0.2 {
		t.Errorf("expected 0.2, got %v", got)
	}
}

func TestBlockSizeDefault(t *testing.T) {
	if got := blockSizeFrom(nil); got != 8192 {
		t.Errorf("expected default 8192, got %d", got)
	}
	got := blockSizeFrom([]Setting{{Name: "block_size", Value: "4096"}})
	if got != 4096 {
		t.Errorf("expected 4096, got %d", got)
	}
}
