package rules

import "fmt"

func concurrencyRules() []Rule {
	return []Rule{
		{ID: "concurrency.max_connections", Category: CategoryConcurrency, Run: maxConnectionsRule},
		{ID: "concurrency.max_worker_processes", Category: CategoryConcurrency, Run: maxWorkerProcessesRule},
		{ID: "concurrency.max_parallel_workers", Category: CategoryConcurrency, Run: maxParallelWorkersRule},
		{ID: "concurrency.max_parallel_workers_per_gather", Category: CategoryConcurrency, Run: maxParallelWorkersPerGatherRule},
		{ID: "concurrency.max_parallel_maintenance_workers", Category: CategoryConcurrency, Run: maxParallelMaintenanceWorkersRule},
	}
}

func expectedMaxConnections(vcpus uint32) int64 {
	exp := int64(vcpus) * 4
	if exp < 100 {
		exp = 100
	}
	return exp
}

func maxConnectionsRule(ctx Context) *Suggestion {
	const id, param = "concurrency.max_connections", "max_connections"
	current, ok := settingInt(ctx, param)
	if !ok {
		return skipped(id, CategoryConcurrency, param)
	}
	expected := expectedMaxConnections(ctx.Profile.VCPUs)
	if current <= expected*4 {
		return &Suggestion{
			ID: id, Category: CategoryConcurrency, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%d", current),
			Recommended:  fmt.Sprintf("%d", current),
			Rationale:    fmt.Sprintf("max_connections=%d is within a reasonable multiple of the %d expected for this vCPU count", current, expected),
			EvidenceRefs: evidenceRefs("pg-docs-max-connections"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryConcurrency, Level: Important, Parameter: param,
		Current:     fmt.Sprintf("%d", current),
		Recommended: fmt.Sprintf("%d", expected),
		Rationale: fmt.Sprintf(
			"max_connections=%d is more than 4x the expected %d for this vCPU count; put a connection pooler (pgbouncer) in front instead of raising this further",
			current, expected),
		EvidenceRefs: evidenceRefs("pg-docs-max-connections"),
	}
}

func maxWorkerProcessesRule(ctx Context) *Suggestion {
	const id, param = "concurrency.max_worker_processes", "max_worker_processes"
	current, ok := settingInt(ctx, param)
	if !ok {
		return skipped(id, CategoryConcurrency, param)
	}
	expected := int64(ctx.Profile.VCPUs)
	if current == expected {
		return &Suggestion{
			ID: id, Category: CategoryConcurrency, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%d", current),
			Recommended:  fmt.Sprintf("%d", expected),
			Rationale:    fmt.Sprintf("max_worker_processes=%d already matches the %d vCPUs available to this instance", current, expected),
			EvidenceRefs: evidenceRefs("pg-docs-parallel-workers"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryConcurrency, Level: Recommended, Parameter: param,
		Current:      fmt.Sprintf("%d", current),
		Recommended:  fmt.Sprintf("%d", expected),
		Rationale:    fmt.Sprintf("max_worker_processes=%d differs from the %d vCPUs available to this instance", current, expected),
		EvidenceRefs: evidenceRefs("pg-docs-parallel-workers"),
	}
}

func maxParallelWorkersRule(ctx Context) *Suggestion {
	const id, param = "concurrency.max_parallel_workers", "max_parallel_workers"
	current, ok := settingInt(ctx, param)
	if !ok {
		return skipped(id, CategoryConcurrency, param)
	}
	maxWorkerProcesses, mwpOK := settingInt(ctx, "max_worker_processes")
	if mwpOK && current > maxWorkerProcesses {
		return &Suggestion{
			ID: id, Category: CategoryConcurrency, Level: Important, Parameter: param,
			Current:     fmt.Sprintf("%d", current),
			Recommended: fmt.Sprintf("%d", maxWorkerProcesses),
			Rationale: fmt.Sprintf(
				"max_parallel_workers=%d exceeds max_worker_processes=%d; parallel workers can never actually reach this ceiling",
				current, maxWorkerProcesses),
			EvidenceRefs: evidenceRefs("pg-docs-parallel-workers"),
		}
	}
	expected := int64(ctx.Profile.VCPUs)
	if current == expected {
		return &Suggestion{
			ID: id, Category: CategoryConcurrency, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%d", current),
			Recommended:  fmt.Sprintf("%d", expected),
			Rationale:    fmt.Sprintf("max_parallel_workers=%d already matches the %d vCPUs available", current, expected),
			EvidenceRefs: evidenceRefs("pg-docs-parallel-workers"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryConcurrency, Level: Recommended, Parameter: param,
		Current:      fmt.Sprintf("%d", current),
		Recommended:  fmt.Sprintf("%d", expected),
		Rationale:    fmt.Sprintf("max_parallel_workers=%d differs from the %d vCPUs available", current, expected),
		EvidenceRefs: evidenceRefs("pg-docs-parallel-workers"),
	}
}

func maxParallelWorkersPerGatherRule(ctx Context) *Suggestion {
	const id, param = "concurrency.max_parallel_workers_per_gather", "max_parallel_workers_per_gather"
	current, ok := settingInt(ctx, param)
	if !ok {
		return skipped(id, CategoryConcurrency, param)
	}
	maxParallelWorkers, mpwOK := settingInt(ctx, "max_parallel_workers")
	if mpwOK && current == maxParallelWorkers && current > 0 {
		return &Suggestion{
			ID: id, Category: CategoryConcurrency, Level: Important, Parameter: param,
			Current:     fmt.Sprintf("%d", current),
			Recommended: fmt.Sprintf("%d", ctx.Profile.HalfVCPUs()),
			Rationale: fmt.Sprintf(
				"max_parallel_workers_per_gather equals max_parallel_workers (%d); a single query can consume the entire parallel worker budget",
				current),
			EvidenceRefs: evidenceRefs("pg-docs-parallel-workers"),
		}
	}
	expected := int64(ctx.Profile.HalfVCPUs())
	if current == expected {
		return &Suggestion{
			ID: id, Category: CategoryConcurrency, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%d", current),
			Recommended:  fmt.Sprintf("%d", expected),
			Rationale:    fmt.Sprintf("max_parallel_workers_per_gather=%d already matches half the vCPU count (%d)", current, expected),
			EvidenceRefs: evidenceRefs("pg-docs-parallel-workers"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryConcurrency, Level: Recommended, Parameter: param,
		Current:      fmt.Sprintf("%d", current),
		Recommended:  fmt.Sprintf("%d", expected),
		Rationale:    fmt.Sprintf("max_parallel_workers_per_gather=%d differs from half the vCPU count (%d)", current, expected),
		EvidenceRefs: evidenceRefs("pg-docs-parallel-workers"),
	}
}

func maxParallelMaintenanceWorkersRule(ctx Context) *Suggestion {
	const id, param = "concurrency.max_parallel_maintenance_workers", "max_parallel_maintenance_workers"
	current, ok := settingInt(ctx, param)
	if !ok {
		return skipped(id, CategoryConcurrency, param)
	}
	expected := int64(ctx.Profile.HalfVCPUs())
	if current == expected {
		return &Suggestion{
			ID: id, Category: CategoryConcurrency, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%d", current),
			Recommended:  fmt.Sprintf("%d", expected),
			Rationale:    fmt.Sprintf("max_parallel_maintenance_workers=%d already matches half the vCPU count (%d)", current, expected),
			EvidenceRefs: evidenceRefs("pg-docs-parallel-workers"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryConcurrency, Level: Recommended, Parameter: param,
		Current:      fmt.Sprintf("%d", current),
		Recommended:  fmt.Sprintf("%d", expected),
		Rationale:    fmt.Sprintf("max_parallel_maintenance_workers=%d differs from half the vCPU count (%d)", current, expected),
		EvidenceRefs: evidenceRefs("pg-docs-parallel-workers"),
	}
}
