package report

import (
	"encoding/json"

	"github.com/postgreat/postgreat/internal/rules"
)

// jsonReport mirrors Report with a stable, explicit field order and
// JSON-friendly types (category/level/kind rendered as their string form).
type jsonReport struct {
	GeneratedAt string              `json:"generated_at"`
	Suggestions []jsonSuggestion    `json:"suggestions"`
	Findings    []jsonFinding       `json:"findings"`
	Workload    *jsonWorkload       `json:"workload,omitempty"`
	Warnings    []string            `json:"warnings"`
}

type jsonSuggestion struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Level        string   `json:"level"`
	Parameter    string   `json:"parameter,omitempty"`
	Current      string   `json:"current,omitempty"`
	Recommended  string   `json:"recommended,omitempty"`
	Rationale    string   `json:"rationale"`
	EvidenceRefs []string `json:"evidence_refs,omitempty"`
}

type jsonFinding struct {
	Kind      string             `json:"kind"`
	Level     string             `json:"level"`
	Schema    string             `json:"schema"`
	Relation  string             `json:"relation"`
	Index     string             `json:"index,omitempty"`
	SizeBytes int64              `json:"size_bytes"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Rationale string             `json:"rationale"`
	Actions   []string           `json:"actions,omitempty"`
	LinkedTo  string             `json:"linked_to,omitempty"`
}

type jsonWorkload struct {
	Ranked          []jsonRankedStatement  `json:"ranked"`
	ParseFailures   map[string]string      `json:"parse_failures,omitempty"`
	IndexCandidates []jsonIndexCandidate   `json:"index_candidates,omitempty"`
}

type jsonRankedStatement struct {
	QueryID       int64   `json:"query_id"`
	Slot          string  `json:"slot"`
	Calls         int64   `json:"calls"`
	TotalExecTime float64 `json:"total_exec_time_ms"`
	MeanExecTime  float64 `json:"mean_exec_time_ms"`
}

type jsonIndexCandidate struct {
	Table              string   `json:"table"`
	Columns            []string `json:"columns"`
	Include            []string `json:"include,omitempty"`
	SourceFingerprints []int64  `json:"source_fingerprints"`
	EstBenefitMs       float64  `json:"est_benefit_ms"`
	LinkedHotspot      string   `json:"linked_hotspot,omitempty"`
}

func renderJSON(r Report) (string, error) {
	jr := jsonReport{
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
	if r.Workload != nil {
		jw := &jsonWorkload{ParseFailures: map[string]string{}}
		for _, rs := range r.Workload.Ranked {
			jw.Ranked = append(jw.Ranked, jsonRankedStatement{
				QueryID: rs.QueryID, Slot: rs.Slot.String(), Calls: rs.Calls,
				TotalExecTime: rs.TotalExecTime, MeanExecTime: rs.MeanExecTime,
			})
		}
		for id, errMsg := range r.Workload.ParseFailures {
			jw.ParseFailures[queryIDKey(id)] = errMsg
		}
		for _, c := range r.Workload.IndexCandidates {
			jw.IndexCandidates = append(jw.IndexCandidates, jsonIndexCandidate{
				Table: c.Table, Columns: c.Columns, Include: c.Include,
				SourceFingerprints: c.SourceFingerprints, EstBenefitMs: c.EstBenefitMs,
				LinkedHotspot: c.LinkedHotspot,
			})
		}
		jr.Workload = jw
	}

	b, err := json.MarshalIndent(jr, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func queryIDKey(id int64) string {
	return rules.CategoryWorkload.String() + "-" + jsonInt64(id)
}

func jsonInt64(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
