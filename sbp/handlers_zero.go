package sbp

import "fmt"

func init() {
	register("ZX", singleAxisZero('X'))
	register("ZY", singleAxisZero('Y'))
	register("ZZ", singleAxisZero('Z'))
	register("ZA", singleAxisZero('A'))
	register("ZB", singleAxisZero('B'))
	register("ZC", singleAxisZero('C'))
	register("Z2", multiAxisZero("XY"))
	register("Z3", multiAxisZero("XYZ"))
	register("Z4", multiAxisZero("XYZA"))
	register("Z5", multiAxisZero("XYZAB"))
	register("Z6", multiAxisZero("XYZABC"))
	register("ZT", zeroAll)
}

// mpoKey returns the driver's machine-position parameter name for a letter.
func mpoKey(letter byte) string {
	return "mpo" + string([]byte{toLowerByte(letter)})
}

func toLowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// singleAxisZero implements ZX..ZC (§4.5): read the current machine
// coordinate for one axis and set the G55 work origin there.
func singleAxisZero(letter byte) handlerFunc {
	return func(e *Engine, stmt *Statement) error {
		v, err := e.Driver.Get(mpoKey(letter))
		if err != nil {
			return DriverError{Line: stmt.Line, Op: "Get " + mpoKey(letter), Err: err}
		}
		e.Emit(fmt.Sprintf("G10 L2 P2 %c%s", letter, v))
		return nil
	}
}

// multiAxisZero implements Z2..Z6: chain gets for each axis before emitting
// one combined G10 L2 P2 line (§4.5).
func multiAxisZero(letters string) handlerFunc {
	return func(e *Engine, stmt *Statement) error {
		keys := make([]string, len(letters))
		for i := 0; i < len(letters); i++ {
			keys[i] = mpoKey(letters[i])
		}
		vals, err := e.Driver.GetMulti(keys)
		if err != nil {
			return DriverError{Line: stmt.Line, Op: "GetMulti", Err: err}
		}
		line := "G10 L2 P2"
		for i := 0; i < len(letters); i++ {
			line += fmt.Sprintf(" %c%s", letters[i], vals[keys[i]])
		}
		e.Emit(line)
		return nil
	}
}

// zeroAll implements ZT: zero every axis.
var zeroAll = multiAxisZero("XYZABC")
