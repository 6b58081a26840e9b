package report

import (
	"fmt"
	"strings"

	"github.com/postgreat/postgreat/internal/health"
	"github.com/postgreat/postgreat/internal/rules"
)

func renderMarkdown(r Report) string {
	var b strings.Builder

	b.WriteString("# PostGreat Analysis Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))

	writeSuggestionsMarkdown(&b, r.Suggestions)
	writeFindingsMarkdown(&b, r.Findings)
	writeWorkloadMarkdown(&b, r)
	writeWarningsMarkdown(&b, r.Warnings)

	return b.String()
}

func writeSuggestionsMarkdown(b *strings.Builder, suggestions []rules.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	b.WriteString("## Configuration Suggestions\n\n")
	var currentCategory rules.Category = -1
	for _, s := range suggestions {
		if s.Category != currentCategory {
			fmt.Fprintf(b, "### %s\n\n", s.Category)
			currentCategory = s.Category
		}
		fmt.Fprintf(b, "- **%s** `%s` — %s\n", levelBadge(s.Level), s.Parameter, s.Rationale)
		if s.Current != "" || s.Recommended != "" {
			fmt.Fprintf(b, "  - current: `%s`, recommended: `%s`\n", s.Current, s.Recommended)
		}
		if len(s.EvidenceRefs) > 0 {
			fmt.Fprintf(b, "  <details><summary>evidence</summary>%s</details>\n", strings.Join(s.EvidenceRefs, ", "))
		}
	}
	b.WriteString("\n")
}

func writeFindingsMarkdown(b *strings.Builder, findings []health.Finding) {
	if len(findings) == 0 {
		return
	}
	b.WriteString("## Table & Index Health\n\n")
	b.WriteString("| Level | Kind | Object | Size | Rationale |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, f := range findings {
		object := f.Schema + "." + f.Relation
		if f.Index != "" {
			object += "." + f.Index
		}
		fmt.Fprintf(b, "| %s | %s | `%s` | %d | %s |\n", levelBadge(f.Level), f.Kind, object, f.SizeBytes, f.Rationale)
	}
	b.WriteString("\n")
}

func writeWorkloadMarkdown(b *strings.Builder, r Report) {
	if r.Workload == nil || (len(r.Workload.Ranked) == 0 && len(r.Workload.IndexCandidates) == 0) {
		return
	}
	b.WriteString("## Workload\n\n")
	if len(r.Workload.IndexCandidates) > 0 {
		b.WriteString("### Proposed Indexes\n\n")
		b.WriteString("| Table | Columns | Est. Benefit (ms) | Linked Hotspot |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, c := range r.Workload.IndexCandidates {
			fmt.Fprintf(b, "| `%s` | %s | %.1f | %s |\n", c.Table, strings.Join(c.Columns, ", "), c.EstBenefitMs, c.LinkedHotspot)
		}
		b.WriteString("\n")
	}
}

func writeWarningsMarkdown(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("## Warnings\n\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "- %s\n", w)
	}
}
