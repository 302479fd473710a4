package sbp

import "fmt"

func init() {
	register("CR", cutRectangle)
}

// crArgs is the evaluated, defaulted argument set for CR (§4.5: 12
// positional args).
type crArgs struct {
	lenX, lenY     float64
	cutterComp     float64 // 0 none, 1 inside, 2 outside (I/O/T)
	direction      float64 // 1 CW, else CCW
	startCorner    float64 // 0 center, 1..4 corner
	plunge         float64
	reps           float64
	option         float64 // 1 normal, 2 pocket out->in, 3 pocket in->out
	plungeFromZero float64
	rotationAngle  float64
	plungeAxis     float64
	spiralPlunge   float64
}

func evalCRArgs(e *Engine, stmt *Statement) (crArgs, error) {
	var a crArgs
	var err error
	line := stmt.Line
	args := stmt.Args
	if a.lenX, err = e.EvalArg(args, 0, 0, line); err != nil {
		return a, err
	}
	if a.lenY, err = e.EvalArg(args, 1, 0, line); err != nil {
		return a, err
	}
	if a.cutterComp, err = e.EvalArg(args, 2, 0, line); err != nil {
		return a, err
	}
	if a.direction, err = e.EvalArg(args, 3, 1, line); err != nil {
		return a, err
	}
	if a.startCorner, err = e.EvalArg(args, 4, 1, line); err != nil {
		return a, err
	}
	if a.plunge, err = e.EvalArg(args, 5, 0, line); err != nil {
		return a, err
	}
	if a.reps, err = e.EvalArg(args, 6, 1, line); err != nil {
		return a, err
	}
	if a.option, err = e.EvalArg(args, 7, 1, line); err != nil {
		return a, err
	}
	if a.plungeFromZero, err = e.EvalArg(args, 8, 0, line); err != nil {
		return a, err
	}
	if a.rotationAngle, err = e.EvalArg(args, 9, 0, line); err != nil {
		return a, err
	}
	if a.plungeAxis, err = e.EvalArg(args, 10, 0, line); err != nil {
		return a, err
	}
	if a.spiralPlunge, err = e.EvalArg(args, 11, 0, line); err != nil {
		return a, err
	}
	return a, nil
}

// rectCorners returns the 4 corners of a lenX x lenY rectangle, relative to
// the current tool position, ordered so that walking them in sequence traces
// the rectangle in the requested direction starting from startCorner (§4.5
// "vertex visit order is permuted so that direction is respected"). corner 0
// centers the rectangle on the start point, so its corners are symmetric
// about (0,0) rather than anchored at one of them; corners 1..4 anchor the
// named literal corner (bottom-left, bottom-right, top-right, top-left) at
// the start point instead.
func rectCorners(lenX, lenY, direction, startCorner float64) []Point {
	base := []Point{
		{X: 0, Y: 0},
		{X: lenX, Y: 0},
		{X: lenX, Y: lenY},
		{X: 0, Y: lenY},
	}

	corner := int(startCorner)
	var anchor Point
	if corner >= 1 && corner <= 4 {
		anchor = base[corner-1]
	} else {
		// centered: rectangle spans symmetrically about the start point.
		anchor = Point{X: lenX / 2, Y: lenY / 2}
	}
	for i := range base {
		base[i] = Point{X: base[i].X - anchor.X, Y: base[i].Y - anchor.Y}
	}

	// base is listed counterclockwise (X right, Y up).
	if direction == 1 {
		// CW: reverse the visit order, keeping vertex 0 fixed.
		base = []Point{base[0], base[3], base[2], base[1]}
	}

	start := 0
	for i, p := range base {
		if p.X == 0 && p.Y == 0 {
			start = i
			break
		}
	}
	out := make([]Point, 4)
	for i := range out {
		out[i] = base[(i+start)%4]
	}
	return out
}

// cutRectangle implements CR (§4.5).
func cutRectangle(e *Engine, stmt *Statement) error {
	a, err := evalCRArgs(e, stmt)
	if err != nil {
		return err
	}

	lenX, lenY := a.lenX, a.lenY
	switch a.cutterComp {
	case 1: // inside
		lenX -= e.Settings.CutterDia
		lenY -= e.Settings.CutterDia
	case 2: // outside
		lenX += e.Settings.CutterDia
		lenY += e.Settings.CutterDia
	}

	startX, startY, startZ := e.Status.PosX, e.Status.PosY, e.Status.PosZ
	reps := int(a.reps)
	if reps < 1 {
		reps = 1
	}

	var passSizes []struct{ x, y, dx, dy float64 }
	switch int(a.option) {
	case 2, 3: // pocket, outside-in (2) or inside-out (3)
		stepOver := e.Settings.CutterDia * (1 - e.Settings.PocketOverlap/100)
		if stepOver <= 0 {
			stepOver = e.Settings.CutterDia
		}
		minSide := lenX
		if lenY < minSide {
			minSide = lenY
		}
		steps := int(minSide/2/stepOver) + 1
		for s := 0; s < steps; s++ {
			shrink := float64(s) * stepOver * 2
			x, y := lenX-shrink, lenY-shrink
			if x < stepOver {
				x = stepOver
			}
			if y < stepOver {
				y = stepOver
			}
			passSizes = append(passSizes, struct{ x, y, dx, dy float64 }{x, y, (lenX - x) / 2, (lenY - y) / 2})
		}
		if int(a.option) == 3 {
			for i, j := 0, len(passSizes)-1; i < j; i, j = i+1, j-1 {
				passSizes[i], passSizes[j] = passSizes[j], passSizes[i]
			}
		}
	default:
		passSizes = append(passSizes, struct{ x, y, dx, dy float64 }{lenX, lenY, 0, 0})
	}

	for _, pass := range passSizes {
		corners := rectCorners(pass.x, pass.y, a.direction, a.startCorner)
		passStart := Point{X: startX + pass.dx, Y: startY + pass.dy}
		for rep := 0; rep < reps; rep++ {
			for vi, c := range corners {
				p := Translate(c, passStart.X, passStart.Y)
				if a.rotationAngle != 0 {
					p = Translate(Rotate(Translate(p, -passStart.X, -passStart.Y), -a.rotationAngle), passStart.X, passStart.Y)
				}
				line := fmt.Sprintf("G1 X%s Y%s", fmtNum(p.X), fmtNum(p.Y))
				if a.spiralPlunge != 0 && rep == 0 {
					z := startZ - a.plunge*float64(vi+1)/4
					line += fmt.Sprintf(" Z%s", fmtNum(z))
				}
				e.Emit(line)
			}
			// close the loop back to the first corner of this pass.
			first := Translate(corners[0], passStart.X, passStart.Y)
			e.Emit(fmt.Sprintf("G1 X%s Y%s", fmtNum(first.X), fmtNum(first.Y)))
		}
		if reps > 1 || len(passSizes) > 1 {
			e.Emit(fmt.Sprintf("G0 Z%s", fmtNum(startZ+e.Settings.SafeZPullUp)))
			e.Emit(fmt.Sprintf("G0 X%s Y%s", fmtNum(passStart.X), fmtNum(passStart.Y)))
			if a.spiralPlunge == 0 {
				e.Emit(fmt.Sprintf("G1 Z%s", fmtNum(startZ-a.plunge)))
			}
		}
	}

	e.Status.PosX = startX
	e.Status.PosY = startY
	return nil
}
