package output

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Success builds the Envelope for a command that completed, with one
// TargetRun per analyzed target. Success is true only if every run
// succeeded; a partial failure still returns Success: false so scripts
// checking the top-level field don't miss a target that errored out.
func Success(command string, runs []TargetRun) Envelope {
	return Envelope{
		Success:   allSucceeded(runs),
		Timestamp: time.Now().UTC(),
		Command:   command,
		Runs:      runs,
	}
}

// Failure builds the Envelope for a command that never reached per-target
// analysis (bad config, no targets configured, and the like).
func Failure(command string, err error) Envelope {
	msg := err.Error()
	return Envelope{
		Success:   false,
		Timestamp: time.Now().UTC(),
		Command:   command,
		Error:     &msg,
	}
}

func allSucceeded(runs []TargetRun) bool {
	if len(runs) == 0 {
		return false
	}
	for _, r := range runs {
		if r.Error != "" {
			return false
		}
	}
	return true
}

// FormatEnvelope serializes an Envelope into the requested wire format.
func FormatEnvelope(e Envelope, format Format) (string, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return "", fmt.Errorf("json marshal: %w", err)
		}
		return string(b), nil
	case FormatYAML:
		b, err := yaml.Marshal(e)
		if err != nil {
			return "", fmt.Errorf("yaml marshal: %w", err)
		}
		return string(b), nil
	case FormatTable:
		return formatTable(e), nil
	default:
		return "", fmt.Errorf("unsupported format: %q", format)
	}
}

func formatTable(e Envelope) string {
	status := "SUCCESS"
	if !e.Success {
		status = "FAILURE"
	}
	result := fmt.Sprintf("%-12s %-20s %s\n", "STATUS", "COMMAND", "TIMESTAMP")
	result += fmt.Sprintf("%-12s %-20s %s\n", status, e.Command, e.Timestamp.Format(time.RFC3339))
	if e.Error != nil {
		result += fmt.Sprintf("ERROR: %s\n", *e.Error)
		return result
	}
	result += fmt.Sprintf("%-20s %-10s %s\n", "TARGET", "RESULT", "DETAIL")
	for _, r := range e.Runs {
		if r.Error != "" {
			result += fmt.Sprintf("%-20s %-10s %s\n", r.Target, "error", r.Error)
			continue
		}
		result += fmt.Sprintf("%-20s %-10s %d bytes\n", r.Target, "ok", len(r.Report))
	}
	return result
}
