package report

import (
	"strings"
	"testing"
	"time"

	"github.com/postgreat/postgreat/internal/rules"
)

func sampleReport() Report {
	return Report{
		GeneratedAt: time.Unix(0, 0).UTC(),
		Suggestions: []rules.Suggestion{
			{ID: "memory.shared_buffers", Category: rules.CategoryMemory, Level: rules.Important, Parameter: "shared_buffers", Current: "128MB", Recommended: "16GB", Rationale: "too small"},
			{ID: "planner.random_page_cost", Category: rules.CategoryPlanner, Level: rules.Critical, Parameter: "random_page_cost", Current: "4.0", Recommended: "1.1", Rationale: "ssd assumption"},
		},
		Warnings: []string{"pg_stat_statements not installed"},
	}
}

func TestRenderAllFormatsContainEverySuggestion(t *testing.T) {
	r := sampleReport()
	for _, f := range []Format{FormatMarkdown, FormatJSON, FormatText} {
		out, err := Render(r, f)
		if err != nil {
			t.Fatalf("format %s: %v", f, err)
		}
		for _, s := range r.Suggestions {
			if !strings.Contains(out, s.Parameter) {
				t.Errorf("format %s missing suggestion parameter %s\n%s", f, s.Parameter, out)
			}
		}
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(sampleReport(), Format("xml"))
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestRenderYAMLContainsSuggestions(t *testing.T) {
	out, err := RenderYAML(sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "shared_buffers") {
		t.Errorf("expected shared_buffers in YAML output, got %s", out)
	}
}
