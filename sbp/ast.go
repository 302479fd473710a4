// Package sbp implements the OpenSBP interpreter: the part of the ShopBot
// motion-control runtime that parses a part-program, evaluates its
// expressions against live machine state, and drives a Driver (§6) with a
// correctly ordered stream of G-code segments.
package sbp

// ExprKind tags the variant held by an Expr node.
type ExprKind int

// Expr node kinds. A single struct carries the union of all variants, the
// same shape used by the node type in a tree-walking interpreter: a kind
// discriminator plus every field any variant might need.
const (
	ExprNumber ExprKind = iota
	ExprUserVar
	ExprSysVar
	ExprRaw
	ExprBinary
)

// Op is a binary operator.
type Op int

// Supported binary operators. Eq accepts both "==" and "=" from the source.
const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpLT
	OpGT
	OpLE
	OpGE
	OpEQ
	OpNE
)

// Expr is a parsed expression node (§3). Leaves are ExprNumber, ExprUserVar,
// ExprSysVar, and ExprRaw; ExprBinary carries Left/Right/Op.
type Expr struct {
	Kind ExprKind

	// Number holds the literal value for ExprNumber.
	Number float64

	// Name holds the variable name for ExprUserVar (without the leading &).
	Name string

	// Selector holds the numeric selector for ExprSysVar, e.g. %(71).
	Selector int

	// Raw holds unparsed source text for ExprRaw leaves, used by the
	// "&name = unquoted text" assignment idiom.
	Raw string

	Op          Op
	Left, Right *Expr
}

// StmtKind tags the variant held by a Statement node.
type StmtKind int

// Statement kinds (§3).
const (
	StmtCmd StmtKind = iota
	StmtAssign
	StmtCond
	StmtGoto
	StmtGosub
	StmtReturn
	StmtEnd
	StmtLabel
	StmtComment
	StmtPause
)

// Statement is a parsed program statement (§3). Line is the 1-based source
// line, used in error messages and by the analyzer's LabelError.
type Statement struct {
	Kind StmtKind
	Line int

	// Mnemonic and Args are populated for StmtCmd.
	Mnemonic string
	Args     []*Expr // nil entries mean the argument was omitted or empty

	// Name carries the user-var name (StmtAssign), or the label name for
	// StmtGoto/StmtGosub/StmtLabel.
	Name string

	// Expr carries the assignment expression (StmtAssign), the test
	// expression (StmtCond), or the optional dwell expression (StmtPause,
	// may be nil).
	Expr *Expr

	// Then carries the single statement executed when a StmtCond's test is
	// true. It is not itself indexed in the Program; branches inside it
	// (Goto/Gosub/Return/End) still mutate the engine's PC the same way a
	// top-level statement would (§4.6).
	Then *Statement

	// Text carries the comment body for StmtComment.
	Text string
}

// Program is the finite ordered sequence of statements produced by the
// parser. It is immutable after parsing (§3).
type Program struct {
	Statements []Statement
}

// Len returns the number of statements, i.e. the bound N used throughout
// engine and analyzer invariants (0 <= PC <= N).
func (p *Program) Len() int {
	return len(p.Statements)
}

// containsSysVar walks an expression tree looking for a system-variable
// leaf. Because evaluation is eager and unconditional on both sides of a
// binary node (§4.1), this static walk and "evaluate and observe the flag"
// are equivalent for classification purposes — see sbp/classify.go.
func containsSysVar(e *Expr) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ExprSysVar:
		return true
	case ExprBinary:
		return containsSysVar(e.Left) || containsSysVar(e.Right)
	default:
		return false
	}
}
