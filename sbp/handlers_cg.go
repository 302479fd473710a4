package sbp

import (
	"fmt"
	"math"
)

func init() {
	register("CG", cutCircle)
}

// cgArgs is the evaluated, defaulted argument set for CG (§4.5: 13
// positional args).
type cgArgs struct {
	endX, endY         float64
	centerXOff         float64
	centerYOff         float64
	cutterComp         float64 // 0 = none, 1 = inside, 2 = outside (I/O/T)
	direction          float64 // 1 = CW (G2), else CCW (G3)
	plungeDepth        float64
	reps               float64
	propX, propY       float64
	option             float64 // 1 simple, 2 pocket, 3 spiral plunge, 4 spiral + finish
	noPullUp           float64
	plungeFromZero     float64
}

func evalCGArgs(e *Engine, stmt *Statement) (cgArgs, error) {
	var a cgArgs
	var err error
	line := stmt.Line
	args := stmt.Args
	if a.endX, err = e.EvalArg(args, 0, e.Status.PosX, line); err != nil {
		return a, err
	}
	if a.endY, err = e.EvalArg(args, 1, e.Status.PosY, line); err != nil {
		return a, err
	}
	if a.centerXOff, err = e.EvalArg(args, 2, 0, line); err != nil {
		return a, err
	}
	if a.centerYOff, err = e.EvalArg(args, 3, 0, line); err != nil {
		return a, err
	}
	if a.cutterComp, err = e.EvalArg(args, 4, 0, line); err != nil {
		return a, err
	}
	if a.direction, err = e.EvalArg(args, 5, 1, line); err != nil {
		return a, err
	}
	if a.plungeDepth, err = e.EvalArg(args, 6, e.Status.PosZ, line); err != nil {
		return a, err
	}
	if a.reps, err = e.EvalArg(args, 7, 1, line); err != nil {
		return a, err
	}
	if a.propX, err = e.EvalArg(args, 8, 1, line); err != nil {
		return a, err
	}
	if a.propY, err = e.EvalArg(args, 9, 1, line); err != nil {
		return a, err
	}
	if a.option, err = e.EvalArg(args, 10, 1, line); err != nil {
		return a, err
	}
	if a.noPullUp, err = e.EvalArg(args, 11, 0, line); err != nil {
		return a, err
	}
	if a.plungeFromZero, err = e.EvalArg(args, 12, 0, line); err != nil {
		return a, err
	}
	return a, nil
}

// cutCircle implements CG (§4.5). Option selects among simple arc, pocket,
// spiral plunge, and spiral-plus-finish. Direction 1 emits G2 (CW),
// anything else emits G3 (CCW). The pocket variant (option 2) addresses its
// arc center with I/J; the spiral variant (option 3, 4) addresses it with
// I/K, preserving the source dialect's quirk of reusing the Z letter as a
// second center coordinate rather than switching to a true helical form.
func cutCircle(e *Engine, stmt *Statement) error {
	a, err := evalCGArgs(e, stmt)
	if err != nil {
		return err
	}

	gdir := "G2"
	if a.direction != 1 {
		gdir = "G3"
	}

	startX, startY, startZ := e.Status.PosX, e.Status.PosY, e.Status.PosZ
	reps := int(a.reps)
	if reps < 1 {
		reps = 1
	}

	lastZ := startZ

	switch int(a.option) {
	case 2: // pocket: concentric passes from outside inward
		stepOver := e.Settings.CutterDia * (1 - e.Settings.PocketOverlap/100)
		if stepOver <= 0 {
			stepOver = e.Settings.CutterDia
		}
		radius := math.Hypot(a.endX-startX-a.centerXOff, a.endY-startY-a.centerYOff)
		for pass := 0; pass*int(stepOver*1000) < int(radius*1000); pass++ {
			r := radius - float64(pass)*stepOver
			if r < stepOver {
				r = stepOver
			}
			cx := startX + a.centerXOff*r/radius
			cy := startY + a.centerYOff*r/radius
			for rep := 0; rep < reps; rep++ {
				e.Emit(fmt.Sprintf("%s X%s Y%s I%s J%s", gdir, fmtNum(startX+r*a.propX), fmtNum(startY+r*a.propY), fmtNum(cx-startX), fmtNum(cy-startY)))
			}
			if pass+1 < int(radius/stepOver)+1 {
				e.Emit(fmt.Sprintf("G0 Z%s", fmtNum(startZ+e.Settings.SafeZPullUp)))
				e.Emit(fmt.Sprintf("G0 X%s Y%s", fmtNum(startX), fmtNum(startY)))
				e.Emit(fmt.Sprintf("G1 Z%s", fmtNum(startZ)))
			}
		}
	case 3, 4: // spiral plunge, optionally finished by a flat pass
		for rep := 0; rep < reps; rep++ {
			z := startZ - a.plungeDepth*float64(rep+1)
			e.Emit(fmt.Sprintf("%s X%s Y%s I%s K%s Z%s", gdir, fmtNum(a.endX), fmtNum(a.endY), fmtNum(a.centerXOff), fmtNum(a.centerYOff), fmtNum(z)))
			lastZ = z
		}
		if int(a.option) == 4 {
			e.Emit(fmt.Sprintf("%s X%s Y%s I%s J%s", gdir, fmtNum(a.endX), fmtNum(a.endY), fmtNum(a.centerXOff), fmtNum(a.centerYOff)))
		}
	default: // 1: simple arc/circle, optional multi-pass plunge
		for rep := 0; rep < reps; rep++ {
			z := startZ
			if a.plungeDepth != 0 {
				z = startZ - a.plungeDepth*float64(rep+1)/float64(reps)
				e.Emit(fmt.Sprintf("G1 Z%s", fmtNum(z)))
			}
			e.Emit(fmt.Sprintf("%s X%s Y%s I%s J%s", gdir, fmtNum(a.endX), fmtNum(a.endY), fmtNum(a.centerXOff), fmtNum(a.centerYOff)))
			lastZ = z
		}
	}

	e.Status.PosX = a.endX
	e.Status.PosY = a.endY
	e.Status.PosZ = lastZ
	if a.noPullUp == 0 && e.Status.PosZ != startZ {
		e.Emit(fmt.Sprintf("G0 Z%s", fmtNum(startZ)))
		e.Status.PosZ = startZ
	}
	return nil
}
