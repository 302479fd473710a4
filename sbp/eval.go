package sbp

import "fmt"

// EvalContext is a transient evaluation environment (§4.1, §9 "surfaced as
// a flag on a transient evaluation context, not a hidden side effect on the
// runtime"). A fresh EvalContext is cheap to construct; the engine builds
// one to resolve values once any required driver round trip has completed.
// The classifier does not build one: it uses the static containsSysVar walk
// (see sbp/classify.go).
type EvalContext struct {
	Vars     *VarTable
	Status   *Status
	Settings *Settings
	Line     int

	// SysvarRead is set by Eval whenever a successful system-variable read
	// occurs anywhere in the expression tree evaluated so far.
	SysvarRead bool
}

// NewEvalContext builds an EvalContext against the given bindings.
func NewEvalContext(vars *VarTable, status *Status, settings *Settings, line int) *EvalContext {
	return &EvalContext{Vars: vars, Status: status, Settings: settings, Line: line}
}

// Eval evaluates an expression tree, eagerly and left-to-right (§4.1).
// Numeric type is float64 throughout (a strict superset of the legacy
// single-precision dialect).
func (c *EvalContext) Eval(e *Expr) (float64, error) {
	if e == nil {
		return 0, nil
	}
	switch e.Kind {
	case ExprNumber:
		return e.Number, nil
	case ExprUserVar:
		v, ok := c.Vars.Get(e.Name)
		if !ok {
			return 0, EvalError{Line: c.Line, Msg: fmt.Sprintf("undefined user variable &%s", e.Name)}
		}
		return v, nil
	case ExprSysVar:
		v, err := resolveSysvar(e.Selector, c.Status, c.Settings)
		if err != nil {
			return 0, EvalError{Line: c.Line, Msg: err.Error()}
		}
		c.SysvarRead = true
		return v, nil
	case ExprRaw:
		return parseRawNumber(e.Raw, c.Line)
	case ExprBinary:
		l, err := c.Eval(e.Left)
		if err != nil {
			return 0, err
		}
		r, err := c.Eval(e.Right)
		if err != nil {
			return 0, err
		}
		return evalBinary(e.Op, l, r, c.Line)
	default:
		return 0, EvalError{Line: c.Line, Msg: "unrecognized expression node"}
	}
}

func evalBinary(op Op, l, r float64, line int) (float64, error) {
	switch op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		if r == 0 {
			return 0, EvalError{Line: line, Msg: "division by zero"}
		}
		return l / r, nil
	case OpLT:
		return boolToF(l < r), nil
	case OpGT:
		return boolToF(l > r), nil
	case OpLE:
		return boolToF(l <= r), nil
	case OpGE:
		return boolToF(l >= r), nil
	case OpEQ:
		return boolToF(l == r), nil
	case OpNE:
		return boolToF(l != r), nil
	default:
		return 0, EvalError{Line: line, Msg: "unsupported operator"}
	}
}

func boolToF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
