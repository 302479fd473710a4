package sbp

// Status is the locally mirrored view of machine state (§2 item 8, §4.7).
// Positions hold both the driver's reported positions, merged from status
// events, and the positions that move handlers write when they emit a move;
// there is no separate commanded-position record. Line and State reflect
// execution phase as reported by the driver's status events.
type Status struct {
	PosX, PosY, PosZ, PosA, PosB, PosC float64

	// Line is the source-program line currently executing, after the
	// engine has remapped the driver's segment-relative line number by
	// adding the chunk's starting line offset (§4.7).
	Line int

	// State mirrors the driver's reported execution state, e.g. "running",
	// "stop", "homing", "probe".
	State string
}

// StatusEvent is a partial update as reported by the driver (§6 "on
// 'status', handler"). A position is absent when its key is missing from
// Pos, Line when it is nil, and State when it is empty; absent fields are
// not merged.
type StatusEvent struct {
	Pos  map[string]float64 // keys: "x","y","z","a","b","c"
	Line *int
	State string
}

// posKeyToField maps a status payload key to the Status field it updates.
var posKeyToField = map[string]func(s *Status) *float64{
	"x": func(s *Status) *float64 { return &s.PosX },
	"y": func(s *Status) *float64 { return &s.PosY },
	"z": func(s *Status) *float64 { return &s.PosZ },
	"a": func(s *Status) *float64 { return &s.PosA },
	"b": func(s *Status) *float64 { return &s.PosB },
	"c": func(s *Status) *float64 { return &s.PosC },
}

// Merge applies an incoming status event on top of the mirror, remapping
// the driver's segment-relative line number to a source-program line number
// by adding chunkStart (§4.7). Only keys present in the event are copied;
// everything else in the mirror is left untouched.
func (s *Status) Merge(ev StatusEvent, chunkStart int) {
	for key, val := range ev.Pos {
		if setter, ok := posKeyToField[key]; ok {
			*setter(s) = val
		}
	}
	if ev.Line != nil {
		s.Line = *ev.Line + chunkStart
	}
	if ev.State != "" {
		s.State = ev.State
	}
}
