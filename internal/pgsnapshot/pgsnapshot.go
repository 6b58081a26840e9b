// Package pgsnapshot implements snapshot.Provider against a real pgx
// connection: the five catalog queries the engine depends on, each mapped
// onto the typed rows in internal/snapshot.
package pgsnapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postgreat/postgreat/internal/snapshot"
)

// Provider implements snapshot.Provider over a pgxpool.Pool.
type Provider struct {
	pool *pgxpool.Pool
}

// New wraps an existing pool. The caller owns the pool's lifecycle.
func New(pool *pgxpool.Pool) *Provider {
	return &Provider{pool: pool}
}

func (p *Provider) FetchSettings(ctx context.Context) ([]snapshot.Setting, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT name, setting, COALESCE(unit,''), context, COALESCE(vartype,'')
		 FROM pg_settings ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("fetch settings: %w", err)
	}
	defer rows.Close()

	var out []snapshot.Setting
	for rows.Next() {
		var s snapshot.Setting
		if err := rows.Scan(&s.Name, &s.Value, &s.Unit, &s.Context, &s.VarType); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Provider) FetchActiveConnections(ctx context.Context) (uint32, error) {
	var n uint32
	err := p.pool.QueryRow(ctx,
		`SELECT count(*) FROM pg_stat_activity WHERE pid <> pg_backend_pid()`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("fetch active connections: %w", err)
	}
	return n, nil
}

func (p *Provider) FetchTableStats(ctx context.Context) ([]snapshot.TableStat, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT s.schemaname, s.relname,
		       pg_total_relation_size(s.relid),
		       s.n_live_tup, s.n_dead_tup, s.seq_scan, s.seq_tup_read,
		       s.idx_scan, s.idx_tup_fetch,
		       EXTRACT(EPOCH FROM s.last_autovacuum)::bigint,
		       EXTRACT(EPOCH FROM s.last_vacuum)::bigint,
		       EXISTS (
		           SELECT 1 FROM pg_attribute a
		           WHERE a.attrelid = s.relid AND NOT a.attisdropped
		             AND a.attname IN ('is_deleted', 'deleted_at', 'archived', 'is_archived')
		             AND NOT EXISTS (
		                 SELECT 1 FROM pg_index pi
		                 WHERE pi.indrelid = s.relid AND pi.indpred IS NOT NULL
		                   AND pg_get_expr(pi.indpred, pi.indrelid) LIKE '%' || a.attname || '%')
		       )
		FROM pg_stat_user_tables s`)
	if err != nil {
		return nil, fmt.Errorf("fetch table stats: %w", err)
	}
	defer rows.Close()

	var out []snapshot.TableStat
	for rows.Next() {
		var t snapshot.TableStat
		var lastAutovacuum, lastVacuum *int64
		if err := rows.Scan(&t.Schema, &t.Table, &t.SizeBytes, &t.LiveTuples, &t.DeadTuples,
			&t.SeqScan, &t.SeqTupRead, &t.IdxScan, &t.IdxTupFetch,
			&lastAutovacuum, &lastVacuum, &t.HasSoftDelete); err != nil {
			return nil, fmt.Errorf("scan table stat: %w", err)
		}
		t.LastAutovacuum = lastAutovacuum
		t.LastVacuum = lastVacuum
		out = append(out, t)
	}
	return out, rows.Err()
}

func (p *Provider) FetchIndexStats(ctx context.Context) ([]snapshot.IndexStat, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT s.schemaname, s.relname, s.indexrelname,
		       pg_relation_size(s.indexrelid),
		       s.idx_scan, s.idx_tup_read, s.idx_tup_fetch,
		       ix.indisunique, ix.indisprimary,
		       EXISTS (SELECT 1 FROM pg_constraint c WHERE c.conindid = s.indexrelid),
		       COALESCE(st.correlation, 0),
		       COALESCE(ARRAY(
		           SELECT a.attname FROM unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord)
		           JOIN pg_attribute a ON a.attrelid = ix.indrelid AND a.attnum = k.attnum
		           ORDER BY k.ord
		       ), '{}')
		FROM pg_stat_user_indexes s
		JOIN pg_index ix ON ix.indexrelid = s.indexrelid
		LEFT JOIN pg_attribute leading_col
		       ON leading_col.attrelid = ix.indrelid AND leading_col.attnum = ix.indkey[0]
		LEFT JOIN pg_stats st
		       ON st.schemaname = s.schemaname AND st.tablename = s.relname
		      AND st.attname = leading_col.attname`)
	if err != nil {
		return nil, fmt.Errorf("fetch index stats: %w", err)
	}
	defer rows.Close()

	var out []snapshot.IndexStat
	for rows.Next() {
		var idx snapshot.IndexStat
		if err := rows.Scan(&idx.Schema, &idx.Table, &idx.Index, &idx.SizeBytes,
			&idx.IdxScan, &idx.TupRead, &idx.HeapFetches,
			&idx.IsUnique, &idx.IsPrimary, &idx.IsConstraint, &idx.Correlation, &idx.Columns); err != nil {
			return nil, fmt.Errorf("scan index stat: %w", err)
		}
		idx.IdxTupRead = idx.TupRead
		idx.IdxTupFetch = idx.HeapFetches
		out = append(out, idx)
	}
	return out, rows.Err()
}

func (p *Provider) FetchStatStatements(ctx context.Context, limit int) ([]snapshot.Statement, error) {
	var installed bool
	if err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'pg_stat_statements')`).Scan(&installed); err != nil {
		return nil, fmt.Errorf("check pg_stat_statements extension: %w", err)
	}
	if !installed {
		return nil, snapshot.ErrNotAvailable
	}

	fetchLimit := limit * 5
	if fetchLimit < 50 {
		fetchLimit = 50
	}

	rows, err := p.pool.Query(ctx, `
		SELECT queryid, query, calls, total_exec_time, mean_exec_time, rows,
		       shared_blks_read, temp_blks_written
		FROM pg_stat_statements
		ORDER BY total_exec_time DESC
		LIMIT $1`, fetchLimit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch pg_stat_statements: %w", err)
	}
	defer rows.Close()

	var out []snapshot.Statement
	for rows.Next() {
		var s snapshot.Statement
		if err := rows.Scan(&s.QueryID, &s.Query, &s.Calls, &s.TotalExecTime, &s.MeanExecTime,
			&s.Rows, &s.SharedBlksRead, &s.TempBlksWritten); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
