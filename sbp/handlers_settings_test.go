package sbp

import "testing"

func TestUpdateCutterDia(t *testing.T) {
	e := newTestEngine()
	stmt := &Statement{Args: []*Expr{num(0.125)}}
	if err := updateCutterDia(e, stmt); err != nil {
		t.Fatalf("updateCutterDia: %v", err)
	}
	if e.Settings.CutterDia != 0.125 {
		t.Errorf("CutterDia = %v, want 0.125", e.Settings.CutterDia)
	}
}

func TestUpdateSafePullUps(t *testing.T) {
	e := newTestEngine()
	stmt := &Statement{Args: []*Expr{num(2), num(3)}}
	if err := updateSafePullUps(e, stmt); err != nil {
		t.Fatalf("updateSafePullUps: %v", err)
	}
	if e.Settings.SafeZPullUp != 2 || e.Settings.SafeAPullUp != 3 {
		t.Errorf("settings not updated: %+v", e.Settings)
	}
}

func TestProbeEmitsG382(t *testing.T) {
	e := newTestEngine()
	stmt := &Statement{Args: []*Expr{num(-0.5)}}
	if err := probe(e, stmt); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if got := e.chunk.Text(); got != "G38.2 Z-0.5" {
		t.Errorf("got %q, want G38.2 Z-0.5", got)
	}
}

func TestSpindleOnOff(t *testing.T) {
	e := newTestEngine()
	if err := spindleOn(e, &Statement{}); err != nil {
		t.Fatalf("spindleOn: %v", err)
	}
	if got := e.chunk.Text(); got != "M3\nM8" {
		t.Errorf("got %q, want M3\\nM8", got)
	}

	e2 := newTestEngine()
	if err := spindleOff(e2, &Statement{}); err != nil {
		t.Fatalf("spindleOff: %v", err)
	}
	if got := e2.chunk.Text(); got != "M5\nM9" {
		t.Errorf("got %q, want M5\\nM9", got)
	}
}

func TestCoordModeHandlers(t *testing.T) {
	cases := []struct {
		h    handlerFunc
		want string
	}{
		{coordAbsolute, "G90"},
		{coordRelative, "G91"},
		{coordTable, "G54"},
	}
	for _, c := range cases {
		e := newTestEngine()
		if err := c.h(e, &Statement{}); err != nil {
			t.Fatalf("handler: %v", err)
		}
		if got := e.chunk.Text(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestRecalcUnitsRoundTripsDriver(t *testing.T) {
	e := newTestEngine()
	e.Driver = mapDriver{values: map[string]string{"1sa": "1.8", "1mi": "10", "1tr": "20"}}
	if err := recalcUnits(e, &Statement{}); err != nil {
		t.Fatalf("recalcUnits: %v", err)
	}
}
