package sbp

import "fmt"

// handlerFunc implements one OpenSBP mnemonic (§4.5). It receives the
// engine (for argument evaluation, chunk emission, and driver access) and
// the Cmd statement being executed. Non-breaking handlers emit G-code and
// update e.Settings and e.Status (JS also writes driver parameters with
// e.Driver.Set); breaking handlers may also read from e.Driver — the engine has already flushed and awaited any
// previously-accumulated chunk before invoking a breaking handler, and will
// flush and await whatever the handler itself emits afterward (§4.6).
type handlerFunc func(e *Engine, stmt *Statement) error

// handlers is the mnemonic -> implementation registry (§4.5). Classification
// of breaking vs. non-breaking lives in classify.go's static tables, kept
// separate from the handler bodies themselves.
var handlers = map[string]handlerFunc{}

func register(mnemonic string, h handlerFunc) {
	handlers[mnemonic] = h
}

// axis gives the G-code letter and the Status position field for a
// single-axis move/jog mnemonic's trailing letter; feeds come from
// moveSpeed.
type axis struct {
	letter string
	pos    func(s *Status) *float64
}

var axes = map[byte]axis{
	'X': {letter: "X", pos: func(s *Status) *float64 { return &s.PosX }},
	'Y': {letter: "Y", pos: func(s *Status) *float64 { return &s.PosY }},
	'Z': {letter: "Z", pos: func(s *Status) *float64 { return &s.PosZ }},
	'A': {letter: "A", pos: func(s *Status) *float64 { return &s.PosA }},
	'B': {letter: "B", pos: func(s *Status) *float64 { return &s.PosB }},
	'C': {letter: "C", pos: func(s *Status) *float64 { return &s.PosC }},
}

// moveSpeed returns the configured feed for a single-axis move on the given
// axis letter (§4.5 "axis-appropriate feed").
func moveSpeed(settings *Settings, letter byte) float64 {
	switch letter {
	case 'X', 'Y':
		return settings.MoveXYSpeed
	case 'Z':
		return settings.MoveZSpeed
	case 'A':
		return settings.MoveASpeed
	case 'B':
		return settings.MoveBSpeed
	case 'C':
		return settings.MoveCSpeed
	default:
		return settings.MoveXYSpeed
	}
}

func jogSpeed(settings *Settings, letter byte) float64 {
	switch letter {
	case 'X', 'Y':
		return settings.JogXYSpeed
	case 'Z':
		return settings.JogZSpeed
	case 'A':
		return settings.JogASpeed
	case 'B':
		return settings.JogBSpeed
	case 'C':
		return settings.JogCSpeed
	default:
		return settings.JogXYSpeed
	}
}

// feedInPerMin converts the stored per-second speed into the per-minute
// feed a G1/G0 line expects (§4.5 "60x units").
func feedInPerMin(speedPerSec float64) float64 {
	return speedPerSec * 60
}

func fmtNum(v float64) string {
	return fmt.Sprintf("%g", v)
}
