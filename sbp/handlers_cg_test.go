package sbp

import (
	"strings"
	"testing"
)

// stubDriver is a minimal in-package Driver for handler tests that only
// need to observe emitted G-code, not exercise a real run loop.
type stubDriver struct{}

func (stubDriver) RunSegment(text string) error                 { return nil }
func (stubDriver) Get(key string) (string, error)               { return "0", nil }
func (stubDriver) GetMulti(keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = "0"
	}
	return out, nil
}
func (stubDriver) Set(key, value string) error { return nil }
func (stubDriver) AwaitState(state string) error { return nil }
func (stubDriver) Subscribe() (<-chan StatusEvent, func()) {
	ch := make(chan StatusEvent)
	return ch, func() {}
}

func newTestEngine() *Engine {
	prog := &Program{}
	settings := DefaultSettings()
	e := NewEngine(prog, &Analysis{Labels: map[string]int{}}, stubDriver{}, &settings)
	return e
}

func TestCutCircleSimpleUsesIJ(t *testing.T) {
	e := newTestEngine()
	stmt := &Statement{Kind: StmtCmd, Mnemonic: "CG", Args: []*Expr{
		num(5), num(0), num(2.5), num(0),
	}}
	if err := cutCircle(e, stmt); err != nil {
		t.Fatalf("cutCircle: %v", err)
	}
	line := e.chunk.Text()
	if !strings.Contains(line, "I") || !strings.Contains(line, "J") {
		t.Errorf("simple CG (option 1) should address center with I/J, got %q", line)
	}
	if strings.Contains(line, "K") {
		t.Errorf("simple CG (option 1) should not use K, got %q", line)
	}
}

func TestCutCircleSpiralUsesIK(t *testing.T) {
	e := newTestEngine()
	// option at args[10] = 3 selects spiral plunge.
	stmt := &Statement{Kind: StmtCmd, Mnemonic: "CG", Args: []*Expr{
		num(5), num(0), num(2.5), num(0), num(0), num(1), num(1), num(1), num(1), num(1), num(3),
	}}
	if err := cutCircle(e, stmt); err != nil {
		t.Fatalf("cutCircle: %v", err)
	}
	line := e.chunk.Text()
	if !strings.Contains(line, "I") || !strings.Contains(line, "K") {
		t.Errorf("spiral CG (option 3) should address center with I/K, got %q", line)
	}
}

// TestCutCircleSpiralPlungeAccumulatesAcrossReps pins the end-to-end scenario
// of a circle cut with 4 reps and a 0.25 plunge depth (spiral plunge option):
// descent accumulates reps*plungeDepth, not a single plungeDepth divided
// across reps, and the tool returns to startZ afterward absent noPullUp.
func TestCutCircleSpiralPlungeAccumulatesAcrossReps(t *testing.T) {
	e := newTestEngine()
	stmt := &Statement{Kind: StmtCmd, Mnemonic: "CG", Args: []*Expr{
		num(5), num(0), num(0), num(0), num(0), num(1), num(0.25), num(4), num(1), num(1), num(3),
	}}
	if err := cutCircle(e, stmt); err != nil {
		t.Fatalf("cutCircle: %v", err)
	}
	text := e.chunk.Text()
	for _, want := range []string{"Z-0.25", "Z-0.5", "Z-0.75", "Z-1"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected a rep descending to %s, got %q", want, text)
		}
	}
	lines := strings.Split(text, "\n")
	last := lines[len(lines)-1]
	if last != "G0 Z0" {
		t.Errorf("expected a final pull-up to startZ, got %q as last line", last)
	}
	if e.Status.PosZ != 0 {
		t.Errorf("Status.PosZ = %v, want 0 after pull-up", e.Status.PosZ)
	}
}

func TestCutCircleOptionReadFromArgsIndex10(t *testing.T) {
	e := newTestEngine()
	stmt := &Statement{Kind: StmtCmd, Mnemonic: "CG", Args: []*Expr{
		num(5), num(0), num(2.5), num(0), num(0), num(1), num(1), num(1), num(1), num(1), num(4),
	}}
	a, err := evalCGArgs(e, stmt)
	if err != nil {
		t.Fatalf("evalCGArgs: %v", err)
	}
	if a.option != 4 {
		t.Errorf("option = %v, want 4 read from args[10]", a.option)
	}
}
