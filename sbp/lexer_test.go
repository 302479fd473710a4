package sbp

import "testing"

func TestFastParseLine(t *testing.T) {
	cases := []struct {
		line string
		want []float64
		ok   bool
	}{
		{"MX,1.5", []float64{1.5}, true},
		{"M2,1,2", []float64{1, 2}, true},
		{"M2,,2", []float64{0, 2}, true}, // omitted first arg
		{"IF &x > 1 THEN GOTO foo", nil, false},
	}
	for _, c := range cases {
		stmt, ok := fastParseLine(c.line, 1)
		if ok != c.ok {
			t.Fatalf("fastParseLine(%q) ok = %v, want %v", c.line, ok, c.ok)
		}
		if !ok {
			continue
		}
		if len(stmt.Args) != len(c.want) {
			t.Fatalf("fastParseLine(%q): got %d args, want %d", c.line, len(stmt.Args), len(c.want))
		}
		for i, arg := range stmt.Args {
			if c.want[i] == 0 && arg == nil {
				continue
			}
			if arg == nil || arg.Number != c.want[i] {
				t.Errorf("fastParseLine(%q): arg %d = %v, want %v", c.line, i, arg, c.want[i])
			}
		}
	}
}

func TestNormalizeMnemonicSeparator(t *testing.T) {
	if got := normalizeMnemonicSeparator("MX  1.5"); got != "MX,1.5" {
		t.Errorf("got %q, want MX,1.5", got)
	}
	if got := normalizeMnemonicSeparator("IF &x > 1 THEN GOTO foo"); got != "IF &x > 1 THEN GOTO foo" {
		t.Errorf("IF line should not be rewritten, got %q", got)
	}
}

func TestStripComment(t *testing.T) {
	code, comment, has := stripComment("MX,1 'move over")
	if !has || code != "MX,1 " || comment != "move over" {
		t.Errorf("stripComment mismatch: code=%q comment=%q has=%v", code, comment, has)
	}
	code, _, has = stripComment("MX,1")
	if has || code != "MX,1" {
		t.Errorf("expected no comment, got code=%q has=%v", code, has)
	}
}
