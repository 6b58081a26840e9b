package rules

import (
	"fmt"

	"github.com/postgreat/postgreat/internal/units"
)

func autovacuumRules() []Rule {
	return []Rule{
		{ID: "autovacuum.max_workers", Category: CategoryAutovacuum, Run: autovacuumMaxWorkersRule},
		{ID: "autovacuum.vacuum_cost_limit", Category: CategoryAutovacuum, Run: autovacuumVacuumCostLimitRule},
		{ID: "autovacuum.work_mem", Category: CategoryAutovacuum, Run: autovacuumWorkMemRule},
		{ID: "autovacuum.vacuum_scale_factor", Category: CategoryAutovacuum, Run: autovacuumVacuumScaleFactorRule},
		{ID: "autovacuum.naptime", Category: CategoryAutovacuum, Run: autovacuumNaptimeRule},
	}
}

func autovacuumMaxWorkersRule(ctx Context) *Suggestion {
	const id, param = "autovacuum.max_workers", "autovacuum_max_workers"
	current, ok := settingInt(ctx, param)
	if !ok {
		return skipped(id, CategoryAutovacuum, param)
	}
	if current >= 5 {
		return &Suggestion{
			ID: id, Category: CategoryAutovacuum, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%d", current),
			Recommended:  fmt.Sprintf("%d", current),
			Rationale:    fmt.Sprintf("autovacuum_max_workers=%d already meets the recommended floor of 5", current),
			EvidenceRefs: evidenceRefs("pg-docs-autovacuum"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryAutovacuum, Level: Recommended, Parameter: param,
		Current:      fmt.Sprintf("%d", current),
		Recommended:  "5",
		Rationale:    fmt.Sprintf("autovacuum_max_workers=%d is below the recommended floor of 5 for keeping up with dead tuple accumulation across many tables", current),
		EvidenceRefs: evidenceRefs("pg-docs-autovacuum"),
	}
}

func autovacuumVacuumCostLimitRule(ctx Context) *Suggestion {
	const id, param = "autovacuum.vacuum_cost_limit", "autovacuum_vacuum_cost_limit"
	current, ok := settingInt(ctx, param)
	if !ok {
		return skipped(id, CategoryAutovacuum, param)
	}
	if current <= 200 {
		return &Suggestion{
			ID: id, Category: CategoryAutovacuum, Level: Important, Parameter: param,
			Current:     fmt.Sprintf("%d", current),
			Recommended: "2000",
			Rationale:   fmt.Sprintf("autovacuum_vacuum_cost_limit=%d throttles autovacuum at the default rate, letting dead tuples accumulate faster than they are reclaimed", current),
			EvidenceRefs: evidenceRefs("pg-docs-autovacuum"),
		}
	}
	if current == 2000 {
		return &Suggestion{
			ID: id, Category: CategoryAutovacuum, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%d", current),
			Recommended:  "2000",
			Rationale:    fmt.Sprintf("autovacuum_vacuum_cost_limit=%d already matches the recommended 2000", current),
			EvidenceRefs: evidenceRefs("pg-docs-autovacuum"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryAutovacuum, Level: Recommended, Parameter: param,
		Current:      fmt.Sprintf("%d", current),
		Recommended:  "2000",
		Rationale:    fmt.Sprintf("autovacuum_vacuum_cost_limit=%d differs from the recommended 2000", current),
		EvidenceRefs: evidenceRefs("pg-docs-autovacuum"),
	}
}

func autovacuumWorkMemRule(ctx Context) *Suggestion {
	const id, param = "autovacuum.work_mem", "autovacuum_work_mem"
	s, present := ctx.Settings[param]
	if !present {
		return skipped(id, CategoryAutovacuum, param)
	}
	current, ok := s.Int()
	if !ok {
		return skipped(id, CategoryAutovacuum, param)
	}
	if current == -1 {
		maintenanceWorkMem, mwmOK := settingBytes(ctx, "maintenance_work_mem")
		if mwmOK && maintenanceWorkMem >= 1*gib {
			return &Suggestion{
				ID: id, Category: CategoryAutovacuum, Level: Critical, Parameter: param,
				Current:     "-1 (follows maintenance_work_mem)",
				Recommended: "512MB",
				Rationale: fmt.Sprintf(
					"autovacuum_work_mem=-1 makes every autovacuum worker use maintenance_work_mem (%s); with multiple workers this multiplies memory pressure well past what a single maintenance operation needs",
					"1GB+"),
				EvidenceRefs: evidenceRefs("pg-docs-autovacuum-mem"),
			}
		}
		return &Suggestion{
			ID: id, Category: CategoryAutovacuum, Level: Info, Parameter: param,
			Current:      "-1 (follows maintenance_work_mem)",
			Recommended:  "-1 (follows maintenance_work_mem)",
			Rationale:    "autovacuum_work_mem inherits maintenance_work_mem, which is small enough here to not multiply memory pressure across workers",
			EvidenceRefs: evidenceRefs("pg-docs-autovacuum-mem"),
		}
	}
	currentBytes, ok := s.Bytes(ctx.BlockSize)
	if !ok {
		return skipped(id, CategoryAutovacuum, param)
	}
	if currentBytes == 512*mib {
		return &Suggestion{
			ID: id, Category: CategoryAutovacuum, Level: Info, Parameter: param,
			Current:      units.FormatBytes(currentBytes),
			Recommended:  "512MB",
			Rationale:    "autovacuum_work_mem is already set explicitly to 512MB",
			EvidenceRefs: evidenceRefs("pg-docs-autovacuum-mem"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryAutovacuum, Level: Recommended, Parameter: param,
		Current:      units.FormatBytes(currentBytes),
		Recommended:  "512MB",
		Rationale:    fmt.Sprintf("autovacuum_work_mem is set explicitly to %s rather than the recommended 512MB", units.FormatBytes(currentBytes)),
		EvidenceRefs: evidenceRefs("pg-docs-autovacuum-mem"),
	}
}

func autovacuumVacuumScaleFactorRule(ctx Context) *Suggestion {
	const id, param = "autovacuum.vacuum_scale_factor", "autovacuum_vacuum_scale_factor"
	current, ok := settingFloat(ctx, param)
	if !ok {
		return skipped(id, CategoryAutovacuum, param)
	}
	if current <= 0.1 {
		return &Suggestion{
			ID: id, Category: CategoryAutovacuum, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%.2f", current),
			Recommended:  "0.10",
			Rationale:    fmt.Sprintf("autovacuum_vacuum_scale_factor=%.2f already meets the recommended ceiling of 0.10", current),
			EvidenceRefs: evidenceRefs("pg-docs-autovacuum"),
		}
	}
	lvl := Recommended
	if current == 0.2 {
		lvl = Important
	}
	return &Suggestion{
		ID: id, Category: CategoryAutovacuum, Level: lvl, Parameter: param,
		Current:     fmt.Sprintf("%.2f", current),
		Recommended: "0.10",
		Rationale: fmt.Sprintf(
			"autovacuum_vacuum_scale_factor=%.2f delays autovacuum on large tables; lower the global default and consider per-table overrides via ALTER TABLE for the largest tables",
			current),
		EvidenceRefs: evidenceRefs("pg-docs-autovacuum"),
	}
}

func autovacuumNaptimeRule(ctx Context) *Suggestion {
	const id, param = "autovacuum.naptime", "autovacuum_naptime"
	current, ok := settingMillis(ctx, param)
	if !ok {
		return skipped(id, CategoryAutovacuum, param)
	}
	if current <= 30000 {
		return &Suggestion{
			ID: id, Category: CategoryAutovacuum, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%.0fs", current/1000),
			Recommended:  "30s",
			Rationale:    "autovacuum_naptime is already at or below the 30s recommended ceiling",
			EvidenceRefs: evidenceRefs("pg-docs-autovacuum"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryAutovacuum, Level: Recommended, Parameter: param,
		Current:      fmt.Sprintf("%.0fs", current/1000),
		Recommended:  "30s",
		Rationale:    "autovacuum_naptime above 30s reacts too slowly to dead tuple accumulation on high-churn tables",
		EvidenceRefs: evidenceRefs("pg-docs-autovacuum"),
	}
}
