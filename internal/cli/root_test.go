package cli

import (
	"testing"

	"github.com/postgreat/postgreat/internal/config"
)

func TestFilterTargetsByName(t *testing.T) {
	targets := []config.Target{
		{Name: "primary"},
		{Name: "replica"},
	}
	got := filterTargets(targets, "replica")
	if len(got) != 1 || got[0].Name != "replica" {
		t.Fatalf("expected single replica target, got %+v", got)
	}
}

func TestFilterTargetsNoMatch(t *testing.T) {
	targets := []config.Target{{Name: "primary"}}
	got := filterTargets(targets, "missing")
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestNewRootCmdRejectsInvalidEnvelope(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"analyze", "--envelope", "xml"})
	root.SilenceUsage = true
	root.SilenceErrors = true
	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for an invalid --envelope value")
	}
}
