package sbp

import (
	"regexp"
	"strconv"
	"strings"
)

// fastPathRe is the regex fast path of §6: a 2-letter mnemonic followed by
// one or more comma-separated optional signed decimal numbers. It is tried
// before the full grammar parser and must be semantically equivalent to it
// on the subset it matches (§9 "Fast-parse vs grammar parse").
var fastPathRe = regexp.MustCompile(`^\s*(\w\w)(((\s*,\s*)([+-]?[0-9]+(\.[0-9]+)?)?)+)\s*$`)

// mnemonicSeparatorRe finds a 2-letter mnemonic immediately followed by a
// run of tab/space (not already a comma). The quirk (§6): this run is
// converted to a single comma, except on IF lines.
var mnemonicSeparatorRe = regexp.MustCompile(`^(\s*)(\w\w)([ \t]+)(\S.*)$`)

// stripComment removes a trailing '-prefixed line comment (§6 quirk c).
// The OpenSBP dialect has no string-quoting rule that would let a ' appear
// inside a statement, so a plain first-index split is sufficient.
func stripComment(line string) (code string, comment string, hasComment bool) {
	idx := strings.IndexByte(line, '\'')
	if idx < 0 {
		return line, "", false
	}
	return line[:idx], line[idx+1:], true
}

// normalizeMnemonicSeparator applies quirk (a) from §6: a tab/space run
// right after a 2-letter mnemonic becomes a comma, unless the mnemonic is
// IF (which takes a keyword grammar, not comma-separated args).
func normalizeMnemonicSeparator(line string) string {
	m := mnemonicSeparatorRe.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	mnemonic := m[2]
	if strings.EqualFold(mnemonic, "IF") {
		return line
	}
	return m[1] + mnemonic + "," + m[4]
}

// fastParseLine attempts the §6 regex fast path. It returns ok=false if the
// line does not match (including when the mnemonic is IF, which is always
// excluded from the fast path).
func fastParseLine(line string, lineNo int) (Statement, bool) {
	norm := normalizeMnemonicSeparator(line)
	m := fastPathRe.FindStringSubmatch(norm)
	if m == nil {
		return Statement{}, false
	}
	mnemonic := strings.ToUpper(m[1])
	if mnemonic == "IF" {
		return Statement{}, false
	}
	rest := strings.TrimSpace(m[2])
	// rest begins with a comma (the regex guarantees at least one
	// "," group); split on commas to get each argument slot.
	rest = strings.TrimPrefix(rest, ",")
	pieces := strings.Split(rest, ",")
	args := make([]*Expr, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			args = append(args, nil)
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			// the outer regex already constrained this to a valid signed
			// decimal, so this should be unreachable; fall back to full
			// parse rather than panic.
			return Statement{}, false
		}
		args = append(args, &Expr{Kind: ExprNumber, Number: f})
	}
	return Statement{Kind: StmtCmd, Mnemonic: mnemonic, Args: args, Line: lineNo}, true
}
