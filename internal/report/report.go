// Package report defines the Report data model and renders it to
// Markdown, JSON, and plain text. Rendering is a pure Report -> string
// function per format; none of it performs I/O.
package report

import (
	"time"

	"github.com/postgreat/postgreat/internal/health"
	"github.com/postgreat/postgreat/internal/rules"
	"github.com/postgreat/postgreat/internal/workload"
)

// Report is the engine's sole output: an ordered list of configuration
// suggestions, an ordered list of structural findings, an optional
// workload section, and any warnings accumulated along the way.
type Report struct {
	GeneratedAt time.Time
	Suggestions []rules.Suggestion
	Findings    []health.Finding
	Workload    *workload.Result
	Warnings    []string
}

// Format names the three rendering targets.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
)

// Render dispatches to the requested formatter.
func Render(r Report, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(r)
	case FormatText:
		return renderText(r), nil
	case FormatMarkdown, "":
		return renderMarkdown(r), nil
	default:
		return "", &UnknownFormatError{Format: format}
	}
}

// UnknownFormatError is returned by Render for an unrecognized format.
type UnknownFormatError struct{ Format Format }

func (e *UnknownFormatError) Error() string { return "report: unknown format " + string(e.Format) }

func levelBadge(l rules.Level) string {
	switch l {
	case rules.Critical:
		return "🔴 Critical"
	case rules.Important:
		return "🟠 Important"
	case rules.Recommended:
		return "🟡 Recommended"
	default:
		return "ℹ️ Info"
	}
}
