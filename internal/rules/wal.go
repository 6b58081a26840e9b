package rules

import (
	"fmt"

	"github.com/postgreat/postgreat/internal/profile"
	"github.com/postgreat/postgreat/internal/units"
)

func walRules() []Rule {
	return []Rule{
		{ID: "wal.max_wal_size", Category: CategoryWAL, Run: maxWalSizeRule},
		{ID: "wal.checkpoint_timeout", Category: CategoryWAL, Run: checkpointTimeoutRule},
		{ID: "wal.checkpoint_completion_target", Category: CategoryWAL, Run: checkpointCompletionTargetRule},
	}
}

func expectedMaxWalSize(p profile.Profile) int64 {
	switch {
	case p.RAMBytes <= 16*gib:
		return 4 * gib
	case p.RAMBytes <= 64*gib:
		return 16 * gib
	default:
		return 32 * gib
	}
}

func maxWalSizeRule(ctx Context) *Suggestion {
	const id, param = "wal.max_wal_size", "max_wal_size"
	current, ok := settingBytes(ctx, param)
	if !ok {
		return skipped(id, CategoryWAL, param)
	}
	expected := expectedMaxWalSize(ctx.Profile)
	if current <= 1*gib {
		return &Suggestion{
			ID: id, Category: CategoryWAL, Level: Important, Parameter: param,
			Current:     units.FormatBytes(current),
			Recommended: units.FormatBytes(expected),
			Rationale: fmt.Sprintf(
				"max_wal_size=%s triggers checkpoints far too often, spiking write I/O; raise it to %s for this compute tier",
				units.FormatBytes(current), units.FormatBytes(expected)),
			EvidenceRefs: evidenceRefs("pg-docs-max-wal-size"),
		}
	}
	if current == expected {
		return &Suggestion{
			ID: id, Category: CategoryWAL, Level: Info, Parameter: param,
			Current:      units.FormatBytes(current),
			Recommended:  units.FormatBytes(expected),
			Rationale:    fmt.Sprintf("max_wal_size=%s already matches the %s expected for this compute tier", units.FormatBytes(current), units.FormatBytes(expected)),
			EvidenceRefs: evidenceRefs("pg-docs-max-wal-size"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryWAL, Level: Recommended, Parameter: param,
		Current:      units.FormatBytes(current),
		Recommended:  units.FormatBytes(expected),
		Rationale:    fmt.Sprintf("max_wal_size=%s differs from the %s expected for this compute tier", units.FormatBytes(current), units.FormatBytes(expected)),
		EvidenceRefs: evidenceRefs("pg-docs-max-wal-size"),
	}
}

func checkpointTimeoutRule(ctx Context) *Suggestion {
	const id, param = "wal.checkpoint_timeout", "checkpoint_timeout"
	current, ok := settingMillis(ctx, param)
	if !ok {
		return skipped(id, CategoryWAL, param)
	}
	var lo, hi float64
	if ctx.Profile.WorkloadHint == profile.WorkloadOLAP {
		lo, hi = 15*60*1000, 30*60*1000
	} else {
		lo, hi = 5*60*1000, 5*60*1000
	}
	if current >= lo && current <= hi {
		return &Suggestion{
			ID: id, Category: CategoryWAL, Level: Info, Parameter: param,
			Current:      units.FormatMillis(current),
			Recommended:  units.FormatMillis(current),
			Rationale:    "checkpoint_timeout already sits within the band expected for this workload hint",
			EvidenceRefs: evidenceRefs("pg-docs-checkpoint"),
		}
	}
	mid := (lo + hi) / 2
	return &Suggestion{
		ID: id, Category: CategoryWAL, Level: Recommended, Parameter: param,
		Current:      units.FormatMillis(current),
		Recommended:  units.FormatMillis(mid),
		Rationale:    "checkpoint_timeout falls outside the band expected for this workload hint",
		EvidenceRefs: evidenceRefs("pg-docs-checkpoint"),
	}
}

func checkpointCompletionTargetRule(ctx Context) *Suggestion {
	const id, param = "wal.checkpoint_completion_target", "checkpoint_completion_target"
	current, ok := settingFloat(ctx, param)
	if !ok {
		return skipped(id, CategoryWAL, param)
	}
	if current == 0.9 {
		return &Suggestion{
			ID: id, Category: CategoryWAL, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%.2f", current),
			Recommended:  "0.90",
			Rationale:    "checkpoint_completion_target already matches the recommended 0.9",
			EvidenceRefs: evidenceRefs("pg-docs-checkpoint"),
		}
	}
	lvl := Recommended
	if current < 0.8 {
		lvl = Recommended
	}
	return &Suggestion{
		ID: id, Category: CategoryWAL, Level: lvl, Parameter: param,
		Current:     fmt.Sprintf("%.2f", current),
		Recommended: "0.90",
		Rationale: fmt.Sprintf(
			"checkpoint_completion_target=%.2f spreads checkpoint I/O less evenly than the recommended 0.9", current),
		EvidenceRefs: evidenceRefs("pg-docs-checkpoint"),
	}
}
