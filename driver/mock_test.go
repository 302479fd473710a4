package driver

import "testing"

func TestMockRunSegmentRecordsAndPublishesStop(t *testing.T) {
	m := NewMock()
	ch, unsub := m.Subscribe()
	defer unsub()

	if err := m.RunSegment("G1 X1"); err != nil {
		t.Fatalf("RunSegment: %v", err)
	}
	if len(m.Segments) != 1 || m.Segments[0] != "G1 X1" {
		t.Errorf("expected segment recorded, got %v", m.Segments)
	}

	var states []string
	for i := 0; i < 2; i++ {
		ev := <-ch
		states = append(states, ev.State)
	}
	if states[0] != "running" || states[1] != "stop" {
		t.Errorf("expected running then stop, got %v", states)
	}
}

func TestMockGetSetRoundTrip(t *testing.T) {
	m := NewMock()
	if err := m.Set("mpox", "5"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := m.Get("mpox")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "5" {
		t.Errorf("got %q, want 5", v)
	}
}

func TestMockGetMulti(t *testing.T) {
	m := NewMock()
	vals, err := m.GetMulti([]string{"mpox", "mpoy"})
	if err != nil {
		t.Fatalf("GetMulti: %v", err)
	}
	if vals["mpox"] != "0" || vals["mpoy"] != "0" {
		t.Errorf("unexpected defaults: %+v", vals)
	}
}

func TestMockUnsubscribeClosesChannel(t *testing.T) {
	m := NewMock()
	ch, unsub := m.Subscribe()
	unsub()
	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed after unsubscribe")
	}
}
