package rules

import "fmt"

func plannerRules() []Rule {
	return []Rule{
		{ID: "planner.random_page_cost", Category: CategoryPlanner, Run: randomPageCostRule},
		{ID: "planner.effective_io_concurrency", Category: CategoryPlanner, Run: effectiveIOConcurrencyRule},
		{ID: "planner.seq_page_cost", Category: CategoryPlanner, Run: seqPageCostRule},
	}
}

func randomPageCostRule(ctx Context) *Suggestion {
	const id, param = "planner.random_page_cost", "random_page_cost"
	current, ok := settingFloat(ctx, param)
	if !ok {
		return skipped(id, CategoryPlanner, param)
	}
	const expected = 1.1
	if current == expected {
		return &Suggestion{
			ID: id, Category: CategoryPlanner, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%.1f", current),
			Recommended:  fmt.Sprintf("%.1f", expected),
			Rationale:    fmt.Sprintf("random_page_cost=%.1f already matches the expected value for SSD/NVMe storage", current),
			EvidenceRefs: evidenceRefs("pg-docs-random-page-cost"),
		}
	}
	lvl := Important
	if current >= 3.0 {
		lvl = Critical
	}
	return &Suggestion{
		ID: id, Category: CategoryPlanner, Level: lvl, Parameter: param,
		Current:     fmt.Sprintf("%.1f", current),
		Recommended: fmt.Sprintf("%.1f", expected),
		Rationale: fmt.Sprintf(
			"random_page_cost=%.1f assumes spinning-disk seek latency; on SSD/NVMe storage the planner will wrongly prefer sequential scans over indexes at this cost, so it should be %.1f",
			current, expected),
		EvidenceRefs: evidenceRefs("pg-docs-random-page-cost"),
	}
}

func effectiveIOConcurrencyRule(ctx Context) *Suggestion {
	const id, param = "planner.effective_io_concurrency", "effective_io_concurrency"
	current, ok := settingInt(ctx, param)
	if !ok {
		return skipped(id, CategoryPlanner, param)
	}
	if current >= 50 {
		return &Suggestion{
			ID: id, Category: CategoryPlanner, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%d", current),
			Recommended:  fmt.Sprintf("%d", current),
			Rationale:    fmt.Sprintf("effective_io_concurrency=%d already exploits concurrent I/O available on modern SSD/NVMe storage", current),
			EvidenceRefs: evidenceRefs("pg-docs-io-concurrency"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryPlanner, Level: Recommended, Parameter: param,
		Current:      fmt.Sprintf("%d", current),
		Recommended:  "200",
		Rationale:    fmt.Sprintf("effective_io_concurrency=%d underuses concurrent I/O available on modern SSD/NVMe storage", current),
		EvidenceRefs: evidenceRefs("pg-docs-io-concurrency"),
	}
}

func seqPageCostRule(ctx Context) *Suggestion {
	const id, param = "planner.seq_page_cost", "seq_page_cost"
	randomCost, rOK := settingFloat(ctx, "random_page_cost")
	seqCost, sOK := settingFloat(ctx, param)
	if !rOK || !sOK {
		return skipped(id, CategoryPlanner, param)
	}
	if randomCost >= seqCost {
		return &Suggestion{
			ID: id, Category: CategoryPlanner, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("random_page_cost=%.2f, seq_page_cost=%.2f", randomCost, seqCost),
			Recommended:  "random_page_cost >= seq_page_cost",
			Rationale:    fmt.Sprintf("random_page_cost (%.2f) is already at least seq_page_cost (%.2f), matching the expected cost-model ordering", randomCost, seqCost),
			EvidenceRefs: evidenceRefs("pg-docs-random-page-cost"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryPlanner, Level: Important, Parameter: param,
		Current:     fmt.Sprintf("random_page_cost=%.2f, seq_page_cost=%.2f", randomCost, seqCost),
		Recommended: "random_page_cost >= seq_page_cost",
		Rationale: fmt.Sprintf(
			"random_page_cost (%.2f) is lower than seq_page_cost (%.2f); random access should never be cheaper than sequential access in the cost model",
			randomCost, seqCost),
		EvidenceRefs: evidenceRefs("pg-docs-random-page-cost"),
	}
}
