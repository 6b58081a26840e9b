package rules

import "fmt"

func loggingRules() []Rule {
	return []Rule{
		{ID: "logging.log_min_duration_statement", Category: CategoryLogging, Run: logMinDurationStatementRule},
		{ID: "logging.log_lock_waits", Category: CategoryLogging, Run: logLockWaitsRule},
		{ID: "logging.deadlock_timeout", Category: CategoryLogging, Run: deadlockTimeoutRule},
	}
}

func logMinDurationStatementRule(ctx Context) *Suggestion {
	const id, param = "logging.log_min_duration_statement", "log_min_duration_statement"
	current, ok := settingMillis(ctx, param)
	if !ok {
		return skipped(id, CategoryLogging, param)
	}
	if current >= 0 && current <= 1000 {
		return &Suggestion{
			ID: id, Category: CategoryLogging, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%.0fms", current),
			Recommended:  "1000ms",
			Rationale:    "log_min_duration_statement is already at or below the 1000ms ceiling, keeping slow queries visible in the logs",
			EvidenceRefs: evidenceRefs("pg-docs-logging"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryLogging, Level: Recommended, Parameter: param,
		Current:      fmt.Sprintf("%.0fms", current),
		Recommended:  "1000ms",
		Rationale:    "log_min_duration_statement above 1000ms (or disabled) hides slow queries that should be visible in the logs",
		EvidenceRefs: evidenceRefs("pg-docs-logging"),
	}
}

func logLockWaitsRule(ctx Context) *Suggestion {
	const id, param = "logging.log_lock_waits", "log_lock_waits"
	current, ok := settingBool(ctx, param)
	if !ok {
		return skipped(id, CategoryLogging, param)
	}
	if current {
		return &Suggestion{
			ID: id, Category: CategoryLogging, Level: Info, Parameter: param,
			Current:      "on",
			Recommended:  "on",
			Rationale:    "log_lock_waits is already enabled, surfacing lock-contention diagnostics once deadlock_timeout is exceeded",
			EvidenceRefs: evidenceRefs("pg-docs-logging"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryLogging, Level: Recommended, Parameter: param,
		Current:      "off",
		Recommended:  "on",
		Rationale:    "log_lock_waits off hides lock-contention diagnostics that would otherwise show up in the log once deadlock_timeout is exceeded",
		EvidenceRefs: evidenceRefs("pg-docs-logging"),
	}
}

func deadlockTimeoutRule(ctx Context) *Suggestion {
	const id, param = "logging.deadlock_timeout", "deadlock_timeout"
	current, ok := settingMillis(ctx, param)
	if !ok {
		return skipped(id, CategoryLogging, param)
	}
	if current == 1000 {
		return &Suggestion{
			ID: id, Category: CategoryLogging, Level: Info, Parameter: param,
			Current:      fmt.Sprintf("%.0fms", current),
			Recommended:  "1000ms",
			Rationale:    "deadlock_timeout already matches the 1s default",
			EvidenceRefs: evidenceRefs("pg-docs-deadlocks"),
		}
	}
	return &Suggestion{
		ID: id, Category: CategoryLogging, Level: Info, Parameter: param,
		Current:      fmt.Sprintf("%.0fms", current),
		Recommended:  "1000ms",
		Rationale:    "deadlock_timeout differs from the 1s default; confirm this was an intentional change",
		EvidenceRefs: evidenceRefs("pg-docs-deadlocks"),
	}
}
