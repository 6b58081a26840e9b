package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/postgreat/postgreat/internal/profile"
	"github.com/postgreat/postgreat/internal/snapshot"
)

type stubProvider struct {
	settings []snapshot.Setting
	settErr  error
}

func (s *stubProvider) FetchSettings(ctx context.Context) ([]snapshot.Setting, error) {
	return s.settings, s.settErr
}
func (s *stubProvider) FetchActiveConnections(ctx context.Context) (uint32, error) { return 10, nil }
func (s *stubProvider) FetchTableStats(ctx context.Context) ([]snapshot.TableStat, error) {
	return nil, nil
}
func (s *stubProvider) FetchIndexStats(ctx context.Context) ([]snapshot.IndexStat, error) {
	return nil, nil
}
func (s *stubProvider) FetchStatStatements(ctx context.Context, limit int) ([]snapshot.Statement, error) {
	return nil, snapshot.ErrNotAvailable
}

func TestAnalyzeFatalOnRequiredQueryFailure(t *testing.T) {
	p := &stubProvider{settErr: errors.New("connection refused")}
	_, err := Analyze(context.Background(), p, profile.Default, DefaultOptions())
	if !errors.Is(err, ErrFatal) {
		t.Fatalf("expected ErrFatal, got %v", err)
	}
}

func TestAnalyzeProducesReportWithWarningOnDegradedWorkload(t *testing.T) {
	p := &stubProvider{settings: []snapshot.Setting{{Name: "random_page_cost", Value: "4.0"}}}
	r, err := Analyze(context.Background(), p, profile.Default, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, w := range r.Warnings {
		if w != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected at least one warning for missing pg_stat_statements")
	}
	if len(r.Suggestions) == 0 {
		t.Error("expected at least one suggestion for the misconfigured random_page_cost")
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	p := &stubProvider{settings: []snapshot.Setting{{Name: "random_page_cost", Value: "4.0"}}}
	r1, _ := Analyze(context.Background(), p, profile.Default, DefaultOptions())
	r2, _ := Analyze(context.Background(), p, profile.Default, DefaultOptions())
	if len(r1.Suggestions) != len(r2.Suggestions) {
		t.Fatalf("non-deterministic suggestion count")
	}
	for i := range r1.Suggestions {
		if r1.Suggestions[i].ID != r2.Suggestions[i].ID {
			t.Errorf("non-deterministic ordering at %d", i)
		}
	}
}
