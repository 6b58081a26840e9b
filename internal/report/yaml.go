package report

import "gopkg.in/yaml.v3"

// RenderYAML is a convenience fourth format beyond the three the engine
// contract requires, reusing the teacher's yaml.v3-backed output path for
// operators who want the same report shape as the other CLI commands.
func RenderYAML(r Report) (string, error) {
	jr := struct {
		GeneratedAt string           `yaml:"generated_at"`
		Suggestions []jsonSuggestion `yaml:"suggestions"`
		Findings    []jsonFinding    `yaml:"findings"`
		Warnings    []string         `yaml:"warnings"`
	}{
		GeneratedAt: r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Warnings:    r.Warnings,
	}
	for _, s := range r.Suggestions {
		jr.Suggestions = append(jr.Suggestions, jsonSuggestion{
			ID: s.ID, Category: s.Category.String(), Level: s.Level.String(),
			Parameter: s.Parameter, Current: s.Current, Recommended: s.Recommended,
			Rationale: s.Rationale, EvidenceRefs: s.EvidenceRefs,
		})
	}
	for _, f := range r.Findings {
		jr.Findings = append(jr.Findings, jsonFinding{
			Kind: f.Kind.String(), Level: f.Level.String(), Schema: f.Schema, Relation: f.Relation,
			Index: f.Index, SizeBytes: f.SizeBytes, Metrics: f.Metrics, Rationale: f.Rationale,
			Actions: f.Actions, LinkedTo: f.LinkedTo,
		})
	}
	b, err := yaml.Marshal(jr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
