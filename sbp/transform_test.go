package sbp

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRotate90(t *testing.T) {
	got := Rotate(Point{X: 1, Y: 0}, 90)
	if !approxEqual(got.X, 0) || !approxEqual(got.Y, 1) {
		t.Errorf("Rotate(1,0,90) = %+v, want (0,1)", got)
	}
}

func TestShearX(t *testing.T) {
	got := ShearX(Point{X: 1, Y: 2}, 0.5)
	if !approxEqual(got.X, 2) || !approxEqual(got.Y, 2) {
		t.Errorf("ShearX = %+v, want (2,2)", got)
	}
}

func TestShearY(t *testing.T) {
	got := ShearY(Point{X: 2, Y: 1}, 0.5)
	if !approxEqual(got.X, 2) || !approxEqual(got.Y, 2) {
		t.Errorf("ShearY = %+v, want (2,2)", got)
	}
}

func TestScale(t *testing.T) {
	got := Scale(Point{X: 2, Y: 3}, 2, 3)
	if !approxEqual(got.X, 4) || !approxEqual(got.Y, 9) {
		t.Errorf("Scale = %+v, want (4,9)", got)
	}
}

func TestTranslate(t *testing.T) {
	got := Translate(Point{X: 1, Y: 1}, 3, -2)
	if !approxEqual(got.X, 4) || !approxEqual(got.Y, -1) {
		t.Errorf("Translate = %+v, want (4,-1)", got)
	}
}
