// Package engine is the top-level orchestrator: it runs the five snapshot
// queries, then the rule library, table/index health analyzer, and
// workload analyzer, and assembles the Report. It is the only package that
// calls the Provider and therefore the only place a run suspends.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/postgreat/postgreat/internal/health"
	"github.com/postgreat/postgreat/internal/profile"
	"github.com/postgreat/postgreat/internal/report"
	"github.com/postgreat/postgreat/internal/rules"
	"github.com/postgreat/postgreat/internal/snapshot"
	"github.com/postgreat/postgreat/internal/workload"
)

// ErrFatal wraps a required-query failure. A run that returns this error
// produces no Report at all, per the cancellation/partial-snapshot rule.
var ErrFatal = errors.New("engine: required snapshot query failed")

// Options is the closed set of knobs the engine accepts.
type Options struct {
	WorkloadLimit uint32
	EnableWorkload bool
	SeverityFloor rules.Level
}

// DefaultOptions mirrors the engine's declared defaults.
func DefaultOptions() Options {
	return Options{WorkloadLimit: 20, EnableWorkload: true, SeverityFloor: rules.Info}
}

// Analyze is the sole entry point: (snapshot.Provider, Profile, Options) ->
// Report. It suspends only inside snapshot.Collect.
func Analyze(ctx context.Context, provider snapshot.Provider, p profile.Profile, opts Options) (report.Report, error) {
	limit := int(opts.WorkloadLimit)
	if limit <= 0 {
		limit = 20
	}

	snap, warnings, err := snapshot.Collect(ctx, provider, limit)
	if err != nil {
		return report.Report{}, errors.Join(ErrFatal, err)
	}

	rctx := rules.NewContext(snap, p)
	suggestions := rules.Evaluate(rctx, opts.SeverityFloor)

	findings := health.Analyze(snap, time.Now().Unix())

	var wl *workload.Result
	if opts.EnableWorkload {
		wl = workload.Analyze(snap, findings, limit)
		workload.UpgradeCorrelatedHotspots(findings, wl.IndexCandidates)
		health.SortFindings(findings)
		warnings = append(warnings, wl.Warnings...)
	}

	return report.Report{
		GeneratedAt: time.Now().UTC(),
		Suggestions: suggestions,
		Findings:    findings,
		Workload:    wl,
		Warnings:    warnings,
	}, nil
}
