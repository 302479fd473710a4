package sbp

import (
	"fmt"
	"strconv"
)

// VarTable holds the user-variable namespace (names beginning with &, §3).
// Created per engine instance, never shared — mirrors the instancing note
// in §9 for sbp_settings.
type VarTable struct {
	vars map[string]float64
}

// NewVarTable returns an empty user-variable table.
func NewVarTable() *VarTable {
	return &VarTable{vars: map[string]float64{}}
}

// Get returns the value bound to name and whether it was defined.
func (t *VarTable) Get(name string) (float64, bool) {
	v, ok := t.vars[name]
	return v, ok
}

// Set binds name to v, creating the binding if it does not already exist.
func (t *VarTable) Set(name string, v float64) {
	t.vars[name] = v
}

// sysvarSource describes where a system-variable selector reads from.
type sysvarSource int

const (
	sysPosX sysvarSource = iota
	sysPosY
	sysPosZ
	sysPosA
	sysPosB
	sysPosC
	sysMoveXYSpeed
	sysMoveZSpeed
	sysMoveASpeed
	sysMoveBSpeed
	sysMoveCSpeed
)

// sysvarTable maps a %(N) selector to its source (§4.1).
var sysvarTable = map[int]sysvarSource{
	1: sysPosX,
	2: sysPosY,
	3: sysPosZ,
	4: sysPosA,
	5: sysPosB,

	71: sysMoveXYSpeed,
	72: sysMoveXYSpeed,
	73: sysMoveZSpeed,
	74: sysMoveASpeed,
	75: sysMoveBSpeed,
	76: sysMoveCSpeed,

	144: sysPosC,
}

// resolveSysvar dispatches a system-variable selector to the current
// machine-status snapshot or the settings store (§4.1). Any selector not in
// sysvarTable is an unknown-sysvar EvalError (wrapped by the caller).
func resolveSysvar(selector int, status *Status, settings *Settings) (float64, error) {
	src, ok := sysvarTable[selector]
	if !ok {
		return 0, fmt.Errorf("unknown system variable %%(%d)", selector)
	}
	switch src {
	case sysPosX:
		return status.PosX, nil
	case sysPosY:
		return status.PosY, nil
	case sysPosZ:
		return status.PosZ, nil
	case sysPosA:
		return status.PosA, nil
	case sysPosB:
		return status.PosB, nil
	case sysPosC:
		return status.PosC, nil
	case sysMoveXYSpeed:
		return settings.MoveXYSpeed, nil
	case sysMoveZSpeed:
		return settings.MoveZSpeed, nil
	case sysMoveASpeed:
		return settings.MoveASpeed, nil
	case sysMoveBSpeed:
		return settings.MoveBSpeed, nil
	case sysMoveCSpeed:
		return settings.MoveCSpeed, nil
	default:
		return 0, fmt.Errorf("unknown system variable %%(%d)", selector)
	}
}

// parseRawNumber parses an ExprRaw leaf's unparsed token text as a number.
// ExprRaw leaves arise from parseLine's "&name = unquoted text" assignment
// fallback, used when the right-hand side does not parse as an expression.
func parseRawNumber(raw string, line int) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, EvalError{Line: line, Msg: fmt.Sprintf("cannot evaluate token %q as a number", raw)}
	}
	return v, nil
}
