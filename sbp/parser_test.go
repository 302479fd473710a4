package sbp

import "testing"

func TestParseProgramBasic(t *testing.T) {
	src := "MX,1\n&x = 2 + 3\nIF &x > 4 THEN GOTO skip\nMY,9\nskip:\nEND\n"
	prog, err := ParseProgram(src)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if prog.Len() != 6 {
		t.Fatalf("expected 6 statements, got %d", prog.Len())
	}
	if prog.Statements[0].Kind != StmtCmd || prog.Statements[0].Mnemonic != "MX" {
		t.Errorf("statement 0 = %+v", prog.Statements[0])
	}
	if prog.Statements[1].Kind != StmtAssign || prog.Statements[1].Name != "x" {
		t.Errorf("statement 1 = %+v", prog.Statements[1])
	}
	if prog.Statements[2].Kind != StmtCond {
		t.Errorf("statement 2 = %+v", prog.Statements[2])
	}
	if prog.Statements[4].Kind != StmtLabel || prog.Statements[4].Name != "skip" {
		t.Errorf("statement 4 = %+v", prog.Statements[4])
	}
}

func TestParseRawAssignment(t *testing.T) {
	prog, err := ParseProgram("&msg = hello there\n")
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	stmt := prog.Statements[0]
	if stmt.Kind != StmtAssign || stmt.Expr.Kind != ExprRaw || stmt.Expr.Raw != "hello there" {
		t.Errorf("expected raw assignment, got %+v", stmt)
	}
}

func TestParseExprPrecedence(t *testing.T) {
	e, err := parseExpr("1 + 2 * 3", 1)
	if err != nil {
		t.Fatalf("parseExpr: %v", err)
	}
	ctx := NewEvalContext(NewVarTable(), &Status{}, &Settings{}, 1)
	v, err := ctx.Eval(e)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v != 7 {
		t.Errorf("got %v, want 7", v)
	}
}

func TestParseExprSysVarAndUserVar(t *testing.T) {
	e, err := parseExpr("%(1) + &offset", 1)
	if err != nil {
		t.Fatalf("parseExpr: %v", err)
	}
	vars := NewVarTable()
	vars.Set("offset", 5)
	status := &Status{PosX: 10}
	ctx := NewEvalContext(vars, status, &Settings{}, 1)
	v, err := ctx.Eval(e)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if v != 15 {
		t.Errorf("got %v, want 15", v)
	}
	if !ctx.SysvarRead {
		t.Error("expected SysvarRead to be set")
	}
}

func TestParseGosubReturn(t *testing.T) {
	src := "GOSUB sub\nEND\nsub:\nMX,1\nRETURN\n"
	prog, err := ParseProgram(src)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if prog.Statements[0].Kind != StmtGosub || prog.Statements[0].Name != "sub" {
		t.Errorf("statement 0 = %+v", prog.Statements[0])
	}
	if prog.Statements[4].Kind != StmtReturn {
		t.Errorf("statement 4 = %+v", prog.Statements[4])
	}
}

func TestParseUnrecognizedStatement(t *testing.T) {
	_, err := ParseProgram("not a valid statement @@@\n")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if _, ok := err.(ParseError); !ok {
		t.Errorf("expected ParseError, got %T", err)
	}
}
