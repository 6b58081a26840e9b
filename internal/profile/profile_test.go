package profile

import "testing"

func TestParseTiers(t *testing.T) {
	p, ok := Parse("large", WorkloadOLAP)
	if !ok {
		t.Fatal("expected large tier to parse")
	}
	if p.VCPUs != 32 || p.RAMBytes != 256*gib {
		t.Errorf("got %+v", p)
	}
	if p.WorkloadHint != WorkloadOLAP {
		t.Errorf("got hint %v", p.WorkloadHint)
	}
}

func TestParseFreeForm(t *testing.T) {
	p, ok := Parse("16vCPU-128GB", "")
	if !ok {
		t.Fatal("expected free-form spec to parse")
	}
	if p.VCPUs != 16 || p.RAMBytes != 128*gib {
		t.Errorf("got %+v", p)
	}
	if p.WorkloadHint != WorkloadMixed {
		t.Errorf("expected default mixed hint, got %v", p.WorkloadHint)
	}
}

func TestParseFreeFormToleratesWhitespace(t *testing.T) {
	p, ok := Parse("4 vCPU - 16 GB", "")
	if !ok {
		t.Fatal("expected whitespace-padded free-form spec to parse")
	}
	if p.VCPUs != 4 || p.RAMBytes != 16*gib {
		t.Errorf("got %+v", p)
	}
}

func TestParseInvalidFallsBackToDefault(t *testing.T) {
	p, ok := Parse("not-a-spec-at-all", "")
	if ok {
		t.Fatal("expected invalid spec to fail")
	}
	if p.VCPUs != Default.VCPUs || p.RAMBytes != Default.RAMBytes {
		t.Errorf("expected default fallback, got %+v", p)
	}
}

func TestParseEmptyIsDefault(t *testing.T) {
	p, ok := Parse("", "")
	if !ok {
		t.Fatal("empty spec should not be an error")
	}
	if p.VCPUs != Default.VCPUs {
		t.Errorf("got %+v", p)
	}
}
