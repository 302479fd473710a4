package sbp

// breakingMnemonics are Cmd statements that always require a driver round
// trip (flush + block) regardless of their arguments (§4.2).
var breakingMnemonics = map[string]bool{
	"ZX": true, "ZY": true, "ZZ": true, "ZA": true, "ZB": true, "ZC": true,
	"Z2": true, "Z3": true, "Z4": true, "Z5": true, "Z6": true, "ZT": true,
	"EP": true,
	"VA": true, "VU": true,
}

// IsBreaking reports whether executing stmt requires flushing the current
// chunk and blocking for the driver's acknowledgement before continuing
// (§4.2, the "stack-break classifier").
//
// Cmd statements are classified by mnemonic lookup table. Assign statements
// break only when their right-hand expression reads a system variable,
// because a system variable reflects live driver state that must be
// up to date at the moment of the read (§4.1, §9). Classification uses the
// static containsSysVar walk over the already-parsed tree and evaluates
// nothing — evaluation proper happens after any required flush+await,
// against current state.
func IsBreaking(stmt *Statement) bool {
	switch stmt.Kind {
	case StmtCmd:
		if breakingMnemonics[stmt.Mnemonic] {
			return true
		}
		for _, arg := range stmt.Args {
			if containsSysVar(arg) {
				return true
			}
		}
		// Unknown mnemonics that don't read a system variable are treated
		// as non-breaking: they are handled (or rejected) purely in-process
		// by the command handler registry and never touch the driver
		// directly.
		return false
	case StmtAssign:
		return containsSysVar(stmt.Expr)
	case StmtCond:
		if containsSysVar(stmt.Expr) {
			return true
		}
		if stmt.Then != nil {
			return IsBreaking(stmt.Then)
		}
		return false
	default:
		return false
	}
}
