package rules

// evidence is the fixed, process-wide catalog of documentation citations
// rules attach to their suggestions. It is built once and never mutated —
// the only shared state the rule library carries, per the design note.
var evidence = map[string]string{
	"pg-docs-shared-buffers":    "postgresql.org/docs/current/runtime-config-resource.html#GUC-SHARED-BUFFERS",
	"pg-docs-effective-cache":   "postgresql.org/docs/current/runtime-config-query.html#GUC-EFFECTIVE-CACHE-SIZE",
	"pg-docs-work-mem":          "postgresql.org/docs/current/runtime-config-resource.html#GUC-WORK-MEM",
	"pg-docs-maintenance-mem":   "postgresql.org/docs/current/runtime-config-resource.html#GUC-MAINTENANCE-WORK-MEM",
	"pg-docs-wal-buffers":       "postgresql.org/docs/current/runtime-config-wal.html#GUC-WAL-BUFFERS",
	"pg-docs-max-connections":   "postgresql.org/docs/current/runtime-config-connection.html#GUC-MAX-CONNECTIONS",
	"pg-docs-parallel-workers":  "postgresql.org/docs/current/runtime-config-resource.html#GUC-MAX-WORKER-PROCESSES",
	"pg-docs-max-wal-size":      "postgresql.org/docs/current/runtime-config-wal.html#GUC-MAX-WAL-SIZE",
	"pg-docs-checkpoint":        "postgresql.org/docs/current/runtime-config-wal.html#GUC-CHECKPOINT-COMPLETION-TARGET",
	"pg-docs-random-page-cost":  "postgresql.org/docs/current/runtime-config-query.html#GUC-RANDOM-PAGE-COST",
	"pg-docs-io-concurrency":    "postgresql.org/docs/current/runtime-config-resource.html#GUC-EFFECTIVE-IO-CONCURRENCY",
	"pg-docs-autovacuum":        "postgresql.org/docs/current/runtime-config-autovacuum.html",
	"pg-docs-autovacuum-mem":    "postgresql.org/docs/current/runtime-config-autovacuum.html#GUC-AUTOVACUUM-WORK-MEM",
	"pg-docs-logging":           "postgresql.org/docs/current/runtime-config-logging.html",
	"pg-docs-deadlocks":         "postgresql.org/docs/current/runtime-config-locks.html#GUC-DEADLOCK-TIMEOUT",
	"pg-wiki-tuning":            "wiki.postgresql.org/wiki/Tuning_Your_PostgreSQL_Server",
}

// evidenceRefs validates and returns the requested citation keys; unknown
// keys are dropped rather than propagated, since a typo in a rule should
// never surface as a user-visible error.
func evidenceRefs(keys ...string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := evidence[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
