package driver

import "testing"

func TestParseKeyValues(t *testing.T) {
	got := parseKeyValues("x=1.0;y=2.0; line=5 ;state=running")
	want := map[string]string{"x": "1.0", "y": "2.0", "line": "5", "state": "running"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("key %q = %q, want %q", k, got[k], v)
		}
	}
}

func TestParseKeyValuesIgnoresMalformedPairs(t *testing.T) {
	got := parseKeyValues("x=1.0;garbage;y=2.0")
	if len(got) != 2 {
		t.Errorf("expected 2 valid pairs, got %v", got)
	}
}

func TestParseStatusLine(t *testing.T) {
	ev, state, ok := parseStatusLine("STATUS x=1.0;y=2.0;z=3.0;line=7;state=running")
	if !ok {
		t.Fatal("expected parseStatusLine to accept a STATUS line")
	}
	if state != "running" || ev.State != "running" {
		t.Errorf("state = %q, want running", state)
	}
	if ev.Pos["x"] != 1.0 || ev.Pos["y"] != 2.0 || ev.Pos["z"] != 3.0 {
		t.Errorf("unexpected positions: %+v", ev.Pos)
	}
	if ev.Line == nil || *ev.Line != 7 {
		t.Errorf("expected line 7, got %v", ev.Line)
	}
}

func TestParseStatusLineRejectsNonStatus(t *testing.T) {
	_, _, ok := parseStatusLine("not a status line")
	if ok {
		t.Error("expected non-STATUS lines to be rejected")
	}
}
