package sbp

func init() {
	register("VA", updateCutterDia)
	register("VC", updateJogDefaults)
	register("VD", noopSetting)
	register("VL", noopSetting)
	register("VN", noopSetting)
	register("VP", noopSetting)
	register("VR", noopSetting)
	register("VS", updateMoveSpeeds)
	register("VU", recalcUnits)

	register("EP", probe)
	register("C6", spindleOn)
	register("C7", spindleOff)

	register("SA", coordAbsolute)
	register("SR", coordRelative)
	register("ST", coordTable)
}

// updateCutterDia implements VA: set the cutter diameter used by CG/CR
// pocketing. VA is breaking (§4.5) because it is documented as requiring
// the driver to report fresh data before subsequent moves are queued.
func updateCutterDia(e *Engine, stmt *Statement) error {
	dia, err := e.EvalArg(stmt.Args, 0, e.Settings.CutterDia, stmt.Line)
	if err != nil {
		return err
	}
	e.Settings.CutterDia = dia
	return nil
}

// updateJogDefaults implements VC: it sets the pocket overlap percentage
// used by CG/CR pocketing from arg 0. It does not change the cutter
// diameter or the safe Z pull-up.
func updateJogDefaults(e *Engine, stmt *Statement) error {
	overlap, err := e.EvalArg(stmt.Args, 0, e.Settings.PocketOverlap, stmt.Line)
	if err != nil {
		return err
	}
	e.Settings.PocketOverlap = overlap
	return nil
}

// noopSetting implements VD, VL, VN, VP, VR: documented no-ops in this
// rewrite (§9 Open Questions) — they are recognized mnemonics that do not
// mutate any settings field.
func noopSetting(e *Engine, stmt *Statement) error {
	return nil
}

// updateSafePullUps sets the safe Z/A pull-up heights from args 0 and 1.
// No mnemonic is registered to it.
func updateSafePullUps(e *Engine, stmt *Statement) error {
	z, err := e.EvalArg(stmt.Args, 0, e.Settings.SafeZPullUp, stmt.Line)
	if err != nil {
		return err
	}
	a, err := e.EvalArg(stmt.Args, 1, e.Settings.SafeAPullUp, stmt.Line)
	if err != nil {
		return err
	}
	e.Settings.SafeZPullUp = z
	e.Settings.SafeAPullUp = a
	return nil
}

// recalcUnits implements VU: read motor 1's step angle (1sa), microstep
// (1mi), and transmission ratio (1tr) from the driver and write the
// reported 1tr back unchanged. No new ratio is computed, and motors other
// than motor 1 are not read. Breaking (§4.5).
func recalcUnits(e *Engine, stmt *Statement) error {
	vals, err := e.Driver.GetMulti([]string{"1sa", "1mi", "1tr"})
	if err != nil {
		return DriverError{Line: stmt.Line, Op: "GetMulti unit params", Err: err}
	}
	// 1sa and 1mi are read but not used; 1tr is written back as reported.
	if err := e.Driver.Set("1tr", vals["1tr"]); err != nil {
		return DriverError{Line: stmt.Line, Op: "Set 1tr", Err: err}
	}
	return nil
}

// probe implements EP: emit a Z-probe move and await it like any other
// breaking statement (§4.5).
func probe(e *Engine, stmt *Statement) error {
	depth, err := e.EvalArg(stmt.Args, 0, -1, stmt.Line)
	if err != nil {
		return err
	}
	e.Emit(fmtG382(depth))
	return nil
}

func fmtG382(depth float64) string {
	return "G38.2 Z" + fmtNum(depth)
}

// spindleOn/spindleOff implement C6/C7: predetermined M-code pairs (§4.5).
func spindleOn(e *Engine, stmt *Statement) error {
	e.Emit("M3")
	e.Emit("M8")
	return nil
}

func spindleOff(e *Engine, stmt *Statement) error {
	e.Emit("M5")
	e.Emit("M9")
	return nil
}

// coordAbsolute/coordRelative/coordTable implement SA/SR/ST (§4.5).
func coordAbsolute(e *Engine, stmt *Statement) error {
	e.Emit("G90")
	return nil
}

func coordRelative(e *Engine, stmt *Statement) error {
	e.Emit("G91")
	return nil
}

func coordTable(e *Engine, stmt *Statement) error {
	e.Emit("G54")
	return nil
}
