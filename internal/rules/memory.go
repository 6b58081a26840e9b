package rules

import (
	"fmt"

	"github.com/postgreat/postgreat/internal/profile"
	"github.com/postgreat/postgreat/internal/units"
)

const (
	gib = 1024 * 1024 * 1024
	mib = 1024 * 1024
)

func memoryRules() []Rule {
	return []Rule{
		{ID: "memory.shared_buffers", Category: CategoryMemory, Run: sharedBuffersRule},
		{ID: "memory.effective_cache_size", Category: CategoryMemory, Run: effectiveCacheSizeRule},
		{ID: "memory.work_mem", Category: CategoryMemory, Run: workMemRule},
		{ID: "memory.maintenance_work_mem", Category: CategoryMemory, Run: maintenanceWorkMemRule},
		{ID: "memory.wal_buffers", Category: CategoryMemory, Run: walBuffersRule},
	}
}

func expectedSharedBuffers(p profile.Profile) int64 {
	quarter := int64(p.PercentOfRAM(0.25))
	if p.RAMBytes >= 64*gib && quarter > 8*gib {
		return 8 * gib
	}
	return quarter
}

func sharedBuffersRule(ctx Context) *Suggestion {
	const id, param = "memory.shared_buffers", "shared_buffers"
	current, ok := settingBytes(ctx, param)
	if !ok {
		return skipped(id, CategoryMemory, param)
	}
	expected := expectedSharedBuffers(ctx.Profile)
	lvl := Info
	switch {
	case current < expected/2 || current > expected*3/2:
		lvl = Important
	case current != expected:
		lvl = Recommended
	}
	verb := "matches"
	if lvl != Info {
		verb = "deviates from"
	}
	return &Suggestion{
		ID: id, Category: CategoryMemory, Level: lvl, Parameter: param,
		Current:     units.FormatBytes(current),
		Recommended: units.FormatBytes(expected),
		Rationale: fmt.Sprintf(
			"shared_buffers should be about 25%% of RAM (capped at 8GB from 64GB RAM up); current %s %s the expected %s for this instance's %s of RAM",
			units.FormatBytes(current), verb, units.FormatBytes(expected), units.FormatBytes(int64(ctx.Profile.RAMBytes))),
		EvidenceRefs: evidenceRefs("pg-docs-shared-buffers", "pg-wiki-tuning"),
	}
}

func effectiveCacheSizeRule(ctx Context) *Suggestion {
	const id, param = "memory.effective_cache_size", "effective_cache_size"
	current, ok := settingBytes(ctx, param)
	if !ok {
		return skipped(id, CategoryMemory, param)
	}
	expected := int64(ctx.Profile.PercentOfRAM(0.75))
	var lvl Level
	var rationale string
	switch {
	case current < expected/2:
		lvl = Important
		rationale = fmt.Sprintf(
			"effective_cache_size should reflect the OS cache available to the planner, about 75%% of RAM; current %s is well below the expected %s, which will cause the planner to avoid index scans it should prefer",
			units.FormatBytes(current), units.FormatBytes(expected))
	case current != expected:
		lvl = Recommended
		rationale = fmt.Sprintf(
			"effective_cache_size should reflect the OS cache available to the planner, about 75%% of RAM; current %s differs from the expected %s",
			units.FormatBytes(current), units.FormatBytes(expected))
	default:
		lvl = Info
		rationale = fmt.Sprintf("effective_cache_size %s already matches the expected 75%% of RAM", units.FormatBytes(current))
	}
	return &Suggestion{
		ID: id, Category: CategoryMemory, Level: lvl, Parameter: param,
		Current:      units.FormatBytes(current),
		Recommended:  units.FormatBytes(expected),
		Rationale:    rationale,
		EvidenceRefs: evidenceRefs("pg-docs-effective-cache"),
	}
}

func workMemBand(hint profile.WorkloadHint) (lo, hi int64) {
	if hint == profile.WorkloadOLAP {
		return 128 * mib, 256 * mib
	}
	return 16 * mib, 64 * mib
}

func workMemRule(ctx Context) *Suggestion {
	const id, param = "memory.work_mem", "work_mem"
	current, ok := settingBytes(ctx, param)
	if !ok {
		return skipped(id, CategoryMemory, param)
	}
	maxConn, connOK := settingInt(ctx, "max_connections")
	if connOK {
		total := current * maxConn
		if total > int64(ctx.Profile.PercentOfRAM(0.5)) {
			return &Suggestion{
				ID: id, Category: CategoryMemory, Level: Critical, Parameter: param,
				Current:     units.FormatBytes(current),
				Recommended: units.FormatBytes(int64(ctx.Profile.PercentOfRAM(0.5) / uint64(maxConn))),
				Rationale: fmt.Sprintf(
					"work_mem x max_connections = %s x %d = %s, exceeding 50%% of RAM (%s); every backend may allocate work_mem per sort/hash node, risking OOM under load",
					units.FormatBytes(current), maxConn, units.FormatBytes(total), units.FormatBytes(int64(ctx.Profile.PercentOfRAM(0.5)))),
				EvidenceRefs: evidenceRefs("pg-docs-work-mem"),
			}
		}
	}
	lo, hi := workMemBand(ctx.Profile.WorkloadHint)
	if current >= lo && current <= hi {
		return &Suggestion{
			ID: id, Category: CategoryMemory, Level: Info, Parameter: param,
			Current:     units.FormatBytes(current),
			Recommended: units.FormatBytes(current),
			Rationale: fmt.Sprintf(
				"work_mem %s already sits within the %s band for this workload hint", units.FormatBytes(current),
				fmt.Sprintf("[%s, %s]", units.FormatBytes(lo), units.FormatBytes(hi))),
			EvidenceRefs: evidenceRefs("pg-docs-work-mem"),
		}
	}
	mid := (lo + hi) / 2
	return &Suggestion{
		ID: id, Category: CategoryMemory, Level: Recommended, Parameter: param,
		Current:     units.FormatBytes(current),
		Recommended: units.FormatBytes(mid),
		Rationale: fmt.Sprintf(
			"work_mem %s falls outside the %s band for this workload hint", units.FormatBytes(current),
			fmt.Sprintf("[%s, %s]", units.FormatBytes(lo), units.FormatBytes(hi))),
		EvidenceRefs: evidenceRefs("pg-docs-work-mem"),
	}
}

func expectedMaintenanceWorkMem(p profile.Profile) int64 {
	switch {
	case p.RAMBytes <= 16*gib:
		return 512 * mib
	case p.RAMBytes <= 64*gib:
		return 1 * gib
	default:
		return 2 * gib
	}
}

func maintenanceWorkMemRule(ctx Context) *Suggestion {
	const id, param = "memory.maintenance_work_mem", "maintenance_work_mem"
	current, ok := settingBytes(ctx, param)
	if !ok {
		return skipped(id, CategoryMemory, param)
	}
	expected := expectedMaintenanceWorkMem(ctx.Profile)
	if current == expected {
		return &Suggestion{
			ID: id, Category: CategoryMemory, Level: Info, Parameter: param,
			Current:     units.FormatBytes(current),
			Recommended: units.FormatBytes(expected),
			Rationale: fmt.Sprintf(
				"maintenance_work_mem %s already matches the %s expected for this compute tier",
				units.FormatBytes(current), units.FormatBytes(expected)),
			EvidenceRefs: evidenceRefs("pg-docs-maintenance-mem"),
		}
	}
	lvl := Recommended
	if current < expected/4 || current > expected*4 {
		lvl = Important
	}
	return &Suggestion{
		ID: id, Category: CategoryMemory, Level: lvl, Parameter: param,
		Current:     units.FormatBytes(current),
		Recommended: units.FormatBytes(expected),
		Rationale: fmt.Sprintf(
			"maintenance_work_mem %s differs from the %s expected for this compute tier; this affects VACUUM, CREATE INDEX, and ALTER TABLE speed",
			units.FormatBytes(current), units.FormatBytes(expected)),
		EvidenceRefs: evidenceRefs("pg-docs-maintenance-mem"),
	}
}

func walBuffersRule(ctx Context) *Suggestion {
	const id, param = "memory.wal_buffers", "wal_buffers"
	current, ok := settingBytes(ctx, param)
	if !ok {
		return skipped(id, CategoryMemory, param)
	}
	sharedBuffers, sbOK := settingBytes(ctx, "shared_buffers")
	writeHeavy := ctx.Profile.WorkloadHint == profile.WorkloadOLTP
	needsBump := writeHeavy || (current < 16*mib && sbOK && sharedBuffers >= 1*gib)
	if !needsBump || current >= 16*mib {
		return &Suggestion{
			ID: id, Category: CategoryMemory, Level: Info, Parameter: param,
			Current:      units.FormatBytes(current),
			Recommended:  units.FormatBytes(current),
			Rationale:    "wal_buffers is already adequate for this workload and shared_buffers size",
			EvidenceRefs: evidenceRefs("pg-docs-wal-buffers"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryMemory, Level: Recommended, Parameter: param,
		Current:      units.FormatBytes(current),
		Recommended:  units.FormatBytes(16 * mib),
		Rationale:    "wal_buffers below 16MB limits WAL write throughput on write-heavy workloads with a sizeable shared_buffers",
		EvidenceRefs: evidenceRefs("pg-docs-wal-buffers"),
	}
}
