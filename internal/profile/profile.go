// Package profile describes the compute shape of the instance being
// analyzed: vCPU count, RAM, and workload character. Rules consult it for
// sizing recommendations that pg_settings alone cannot justify.
package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// WorkloadHint classifies the dominant access pattern of the instance.
type WorkloadHint string

const (
	WorkloadOLTP  WorkloadHint = "oltp"
	WorkloadOLAP  WorkloadHint = "olap"
	WorkloadMixed WorkloadHint = "mixed"
)

// Profile is the compute shape supplied by the operator, either as a tier
// name, a free-form "NvCPU-MGB" spec, or defaulted.
type Profile struct {
	VCPUs        uint32
	RAMBytes     uint64
	WorkloadHint WorkloadHint
}

var tiers = map[string]Profile{
	"small":  {VCPUs: 2, RAMBytes: 16 * gib},
	"medium": {VCPUs: 8, RAMBytes: 64 * gib},
	"large":  {VCPUs: 32, RAMBytes: 256 * gib},
}

const gib = 1024 * 1024 * 1024

// Default is used whenever parsing fails; callers are expected to surface
// a warning alongside it rather than treat the failure as fatal.
var Default = tiers["medium"]

// Parse accepts a tier name ("small", "medium", "large") or a free-form
// "<N>vCPU-<M>GB" spec (case-insensitive, whitespace-tolerant). An empty
// spec yields Default with ok=true (no spec is not an error). An
// unrecognized spec yields Default with ok=false so the caller can emit a
// warning.
func Parse(spec string, hint WorkloadHint) (Profile, bool) {
	p, ok := parseSpec(spec)
	if hint == "" {
		hint = WorkloadMixed
	}
	p.WorkloadHint = hint
	return p, ok
}

func parseSpec(spec string) (Profile, bool) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return Default, true
	}
	if tier, ok := tiers[s]; ok {
		return tier, true
	}
	return parseFreeForm(s)
}

// parseFreeForm handles "<N>vcpu-<M>gb", grounded on the original
// implementation's ComputeSpec::from_string, tolerating whitespace anywhere
// around the numbers and unit tokens.
func parseFreeForm(s string) (Profile, bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Default, false
	}
	vcpuPart := strings.TrimSuffix(strings.TrimSpace(stripInteriorSpace(parts[0])), "vcpu")
	ramPart := strings.TrimSuffix(strings.TrimSpace(stripInteriorSpace(parts[1])), "gb")
	vcpu, err1 := strconv.ParseUint(vcpuPart, 10, 32)
	ram, err2 := strconv.ParseUint(ramPart, 10, 64)
	if err1 != nil || err2 != nil || vcpu == 0 || ram == 0 {
		return Default, false
	}
	return Profile{VCPUs: uint32(vcpu), RAMBytes: ram * gib}, true
}

// stripInteriorSpace removes all whitespace from s, so "4 vCPU" and "4vCPU"
// trim to the same digits once the unit suffix is stripped.
func stripInteriorSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// PercentOfRAM returns the given percentage of RAM, in bytes.
func (p Profile) PercentOfRAM(pct float64) uint64 {
	return uint64(float64(p.RAMBytes) * pct)
}

// HalfVCPUs returns max(1, VCPUs/2), useful for worker-count sizing.
func (p Profile) HalfVCPUs() uint32 {
	if p.VCPUs <= 1 {
		return 1
	}
	return p.VCPUs / 2
}

func (p Profile) String() string {
	return fmt.Sprintf("%dvCPU-%dGB(%s)", p.VCPUs, p.RAMBytes/gib, p.WorkloadHint)
}
