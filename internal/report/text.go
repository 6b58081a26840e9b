package report

import (
	"fmt"
	"strings"
)

func renderText(r Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "PostGreat Analysis Report\nGenerated: %s\n\n", r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))

	for _, s := range r.Suggestions {
		fmt.Fprintf(&b, "[%s] %s (%s): %s\n", s.Level, s.Category, s.Parameter, s.Rationale)
		if s.Current != "" || s.Recommended != "" {
			fmt.Fprintf(&b, "  current: %s, recommended: %s\n", s.Current, s.Recommended)
		}
		b.WriteString("\n")
	}

	for _, f := range r.Findings {
		object := f.Schema + "." + f.Relation
		if f.Index != "" {
			object += "." + f.Index
		}
		fmt.Fprintf(&b, "[%s] %s %s: %s\n\n", f.Level, f.Kind, object, f.Rationale)
	}

	if r.Workload != nil {
		for _, c := range r.Workload.IndexCandidates {
			fmt.Fprintf(&b, "candidate index: %s(%s) est_benefit_ms=%.1f\n", c.Table, strings.Join(c.Columns, ","), c.EstBenefitMs)
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
