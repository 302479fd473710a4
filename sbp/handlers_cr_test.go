package sbp

import (
	"strings"
	"testing"
)

func TestRectCornersCWOrder(t *testing.T) {
	corners := rectCorners(10, 5, 1, 1)
	want := []Point{{0, 0}, {0, 5}, {10, 5}, {10, 0}}
	for i, c := range corners {
		if c != want[i] {
			t.Errorf("corner %d = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestRectCornersCCWReversesOrder(t *testing.T) {
	cw := rectCorners(10, 5, 1, 1)
	ccw := rectCorners(10, 5, 2, 1)
	if ccw[0] != cw[0] {
		t.Errorf("CCW should keep the same first vertex, got %+v vs %+v", ccw[0], cw[0])
	}
	if ccw[1] == cw[1] {
		t.Error("CCW should traverse the remaining vertices in reverse order")
	}
}

func TestRectCornersFourthCornerIsDistinctFromFirst(t *testing.T) {
	c1 := rectCorners(10, 5, 1, 1)
	c4 := rectCorners(10, 5, 1, 4)
	if c1[0] != (Point{X: 0, Y: 0}) || c4[0] != (Point{X: 0, Y: 0}) {
		t.Fatalf("the selected start corner must always sit at the local origin, got c1[0]=%+v c4[0]=%+v", c1[0], c4[0])
	}
	if c1[2] == c4[2] {
		t.Errorf("corner 4 should anchor a different vertex than corner 1, both diagonals = %+v", c1[2])
	}
}

func TestRectCornersCenteredSymmetricAboutStart(t *testing.T) {
	corners := rectCorners(10, 6, 1, 0)
	for _, c := range corners {
		opposite := Point{X: -c.X, Y: -c.Y}
		found := false
		for _, other := range corners {
			if other == opposite {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("corner %+v has no symmetric counterpart %+v about the start", c, opposite)
		}
	}
}

func TestCutRectangleSimpleClosesLoop(t *testing.T) {
	e := newTestEngine()
	stmt := &Statement{Args: []*Expr{num(10), num(5)}}
	if err := cutRectangle(e, stmt); err != nil {
		t.Fatalf("cutRectangle: %v", err)
	}
	lines := strings.Split(e.chunk.Text(), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 4 corner moves + closing move, got %d lines: %v", len(lines), lines)
	}
	if lines[0] != lines[len(lines)-1] {
		t.Errorf("first and closing move should return to the same corner, got %q vs %q", lines[0], lines[len(lines)-1])
	}
}

func TestCutRectangleRestoresStartPosition(t *testing.T) {
	e := newTestEngine()
	e.Status.PosX, e.Status.PosY = 1, 2
	stmt := &Statement{Args: []*Expr{num(10), num(5)}}
	if err := cutRectangle(e, stmt); err != nil {
		t.Fatalf("cutRectangle: %v", err)
	}
	if e.Status.PosX != 1 || e.Status.PosY != 2 {
		t.Errorf("expected position restored to (1,2), got (%v,%v)", e.Status.PosX, e.Status.PosY)
	}
}
