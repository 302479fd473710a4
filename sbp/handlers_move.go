package sbp

import "fmt"

func init() {
	for letter, ax := range axes {
		letter, ax := letter, ax // capture
		register("M"+string(letter), singleAxisMove(ax, false))
		register("J"+string(letter), singleAxisMove(ax, true))
	}

	register("M2", modalMove("XY", false))
	register("M3", modalMove("XYZ", false))
	register("M4", modalMove("XYZA", false))
	register("M5", modalMove("XYZAB", false))
	register("M6", modalMove("XYZABC", false))
	register("J2", modalMove("XY", true))
	register("J3", modalMove("XYZ", true))
	register("J4", modalMove("XYZA", true))
	register("J5", modalMove("XYZAB", true))
	register("J6", modalMove("XYZABC", true))

	register("MH", jogHome)
	register("JH", jogHome)

	register("MS", updateMoveSpeeds)
	register("JS", updateJogSpeeds)
}

// singleAxisMove implements the MX..MC / JX..JC family (§4.5): a single-axis
// G1 (move) or G0 (jog) at the axis-appropriate feed, updating cmd_pos.
func singleAxisMove(ax axis, rapid bool) handlerFunc {
	return func(e *Engine, stmt *Statement) error {
		dist, err := e.EvalArg(stmt.Args, 0, 0, stmt.Line)
		if err != nil {
			return err
		}
		var line string
		if rapid {
			line = fmt.Sprintf("G0 %s%s", ax.letter, fmtNum(dist))
		} else {
			feed := feedInPerMin(moveSpeed(e.Settings, ax.letter[0]))
			line = fmt.Sprintf("G1 %s%s F%s", ax.letter, fmtNum(dist), fmtNum(feed))
		}
		e.Emit(line)
		*ax.pos(e.Status) = dist
		return nil
	}
}

// modalMove implements M2..M6 / J2..J6 (§4.5): omitted axes emit no letter
// and do not mutate cmd_pos for that axis. When every axis is omitted the
// move still emits its line (a bare G1F<feed>, or a bare G0 for jogs, which
// carry no programmed feed), rather than being silently dropped.
func modalMove(letters string, rapid bool) handlerFunc {
	return func(e *Engine, stmt *Statement) error {
		parts := ""
		var maxFeedLetter byte = letters[0]
		for i := 0; i < len(letters); i++ {
			if i >= len(stmt.Args) || stmt.Args[i] == nil {
				continue
			}
			v, err := e.EvalArg(stmt.Args, i, 0, stmt.Line)
			if err != nil {
				return err
			}
			letter := letters[i]
			parts += fmt.Sprintf(" %c%s", letter, fmtNum(v))
			*axes[letter].pos(e.Status) = v
			maxFeedLetter = letter
		}
		if rapid {
			e.Emit("G0" + parts)
			return nil
		}
		feed := feedInPerMin(moveSpeed(e.Settings, maxFeedLetter))
		if parts == "" {
			e.Emit(fmt.Sprintf("G1F%s", fmtNum(feed)))
		} else {
			e.Emit(fmt.Sprintf("G1%s F%s", parts, fmtNum(feed)))
		}
		return nil
	}
}

// jogHome implements MH/JH: jog to (0,0) (§4.5).
func jogHome(e *Engine, stmt *Statement) error {
	e.Emit("G0 X0 Y0")
	e.Status.PosX = 0
	e.Status.PosY = 0
	return nil
}

// updateMoveSpeeds implements MS and VS: set the XY and Z move speeds from
// args 0 and 1, non-breaking (§4.5).
func updateMoveSpeeds(e *Engine, stmt *Statement) error {
	xy, err := e.EvalArg(stmt.Args, 0, e.Settings.MoveXYSpeed, stmt.Line)
	if err != nil {
		return err
	}
	z, err := e.EvalArg(stmt.Args, 1, e.Settings.MoveZSpeed, stmt.Line)
	if err != nil {
		return err
	}
	e.Settings.MoveXYSpeed = xy
	e.Settings.MoveZSpeed = z
	return nil
}

// updateJogSpeeds implements JS: update jog speeds locally and push the
// corresponding velocity maxima to the driver. The driver writes are
// fire-and-forget, so JS stays non-breaking even though it talks to the
// driver (§4.5).
func updateJogSpeeds(e *Engine, stmt *Statement) error {
	xy, err := e.EvalArg(stmt.Args, 0, e.Settings.JogXYSpeed, stmt.Line)
	if err != nil {
		return err
	}
	z, err := e.EvalArg(stmt.Args, 1, e.Settings.JogZSpeed, stmt.Line)
	if err != nil {
		return err
	}
	e.Settings.JogXYSpeed = xy
	e.Settings.JogZSpeed = z
	if err := e.Driver.Set("xvm", fmtNum(xy)); err != nil {
		return DriverError{Line: stmt.Line, Op: "Set xvm", Err: err}
	}
	if err := e.Driver.Set("yvm", fmtNum(xy)); err != nil {
		return DriverError{Line: stmt.Line, Op: "Set yvm", Err: err}
	}
	if err := e.Driver.Set("zvm", fmtNum(z)); err != nil {
		return DriverError{Line: stmt.Line, Op: "Set zvm", Err: err}
	}
	return nil
}
