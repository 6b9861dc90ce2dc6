package microasm

import (
	"strings"
	"testing"

	"github.com/mima-project/mima/internal/microprog"
)

func TestSimpleLoadConstantAndHalt(t *testing.T) {
	src := `
fetch: IAR -> SAR; R = 1
       IAR -> X; ONE -> Y; ALU = ADD; Z -> IAR
       R = 1; R = 1
       SDR -> IR
ldc:   IR -> ACCU; #halt
`
	mp, warnings, err := Compile(src, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, w := range warnings {
		t.Logf("warning: %s", w)
	}
	status := map[string]uint16{}
	w := mp.Get(4, status) // ldc is the 5th line -> address 4
	if w.NextAddr() != microprog.HaltAddr {
		t.Fatalf("ldc NextAddr = 0x%02X, want halt 0x%02X", w.NextAddr(), microprog.HaltAddr)
	}
	if !w.IrToBus() || !w.AccFromBus() {
		t.Fatalf("ldc word missing IR->BUS / ACCU<-BUS: %+v", w)
	}
}

func TestForwardReferenceResolves(t *testing.T) {
	src := `
start: #target
       R = 1
target: R = 0
`
	mp, _, err := Compile(src, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	w := mp.Get(0, map[string]uint16{})
	if w.NextAddr() != 2 {
		t.Fatalf("start NextAddr = %d, want 2 (target)", w.NextAddr())
	}
}

func TestUnresolvedLabelWarns(t *testing.T) {
	src := `start: #nowhere`
	_, warnings, err := Compile(src, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "nowhere") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected warning about unresolved label, got %v", warnings)
	}
}

func TestConditionalModePiecewisePatch(t *testing.T) {
	src2 := `
ldc: R=1
add: R=0
!cm(conditional, op_code, 255)
decode: [0,15] #ldc
        [16,31] #add
`
	mp2, _, err := Compile(src2, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	w := mp2.Get(2, map[string]uint16{"op_code": 5})
	if w.NextAddr() != 0 {
		t.Fatalf("op_code=5 NextAddr = %d, want 0 (ldc)", w.NextAddr())
	}
	w = mp2.Get(2, map[string]uint16{"op_code": 20})
	if w.NextAddr() != 1 {
		t.Fatalf("op_code=20 NextAddr = %d, want 1 (add)", w.NextAddr())
	}
	w = mp2.Get(2, map[string]uint16{"op_code": 200})
	if w.NextAddr() != 0 {
		t.Fatalf("op_code=200 (unpatched) NextAddr = %d, want default 0", w.NextAddr())
	}
}

func TestHaltAddressFirstWriterAuthoritative(t *testing.T) {
	var src strings.Builder
	for i := 0; i < 255; i++ {
		src.WriteString("R = 1\n")
	}
	src.WriteString("claim: IR -> ACCU\n")  // address 0xFF, first writer
	src.WriteString("!cm(default)\n")       // no-op mode switch, cursor unchanged... but we already advanced past 0xFF
	mp, warnings, err := Compile(src.String(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	w := mp.Get(microprog.HaltAddr, map[string]uint16{})
	if w.NextAddr() != microprog.HaltAddr {
		t.Fatalf("halt cell NextAddr = %d, want self-loop 0x%02X", w.NextAddr(), microprog.HaltAddr)
	}
	if !w.IrToBus() {
		t.Fatalf("expected first writer's IR->BUS to survive on halt cell")
	}
	_ = warnings
}

func TestDuplicateLabelWarns(t *testing.T) {
	src := `
a: R=1
a: R=0
`
	_, warnings, err := Compile(src, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "redefinition") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected redefinition warning, got %v", warnings)
	}
}
