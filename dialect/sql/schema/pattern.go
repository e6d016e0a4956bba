package schema

import "github.com/syssam/qgen/dialect"

// Like reports whether s matches the SQL LIKE pattern. '%' matches any
// sequence, '_' matches one character and '\' escapes the next one.
// Matching is case-sensitive as in PostgreSQL, and an empty pattern
// matches everything.
func Like(pattern, s string) bool {
	return like(pattern, s, false)
}

// LikeFold is like Like, but folds ASCII letters the way SQLite and the
// default MySQL collations do.
func LikeFold(pattern, s string) bool {
	return like(pattern, s, true)
}

// Matcher returns the LIKE semantics of the given dialect, so patterns
// applied to snapshots and inspected realms select the same tables as the
// live database. Unknown dialects match case-sensitively.
func Matcher(name string) func(pattern, s string) bool {
	switch name {
	case dialect.SQLite, dialect.MySQL:
		return LikeFold
	default:
		return Like
	}
}

type tokenKind uint8

const (
	literal tokenKind = iota
	anyOne
	anySeq
)

type patternToken struct {
	kind tokenKind
	r    rune
}

// compile splits a LIKE pattern into tokens. Runs of '%' collapse into one
// and a trailing '\' is a literal.
func compile(pattern string) []patternToken {
	rs := []rune(pattern)
	ts := make([]patternToken, 0, len(rs))
	for i := 0; i < len(rs); i++ {
		switch r := rs[i]; {
		case r == '%':
			if n := len(ts); n == 0 || ts[n-1].kind != anySeq {
				ts = append(ts, patternToken{kind: anySeq})
			}
		case r == '_':
			ts = append(ts, patternToken{kind: anyOne})
		case r == '\\' && i+1 < len(rs):
			i++
			ts = append(ts, patternToken{r: rs[i]})
		default:
			ts = append(ts, patternToken{r: r})
		}
	}
	return ts
}

// like matches with two pointers, restarting after the last '%' on a
// mismatch, so it runs in O(len(pattern) * len(s)).
func like(pattern, s string, fold bool) bool {
	if pattern == "" {
		return true
	}
	p, rs := compile(pattern), []rune(s)
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(rs) {
		switch {
		case pi < len(p) && p[pi].kind == anySeq:
			star, mark = pi, si
			pi++
		case pi < len(p) && (p[pi].kind == anyOne || equal(p[pi].r, rs[si], fold)):
			pi++
			si++
		case star >= 0:
			mark++
			pi, si = star+1, mark
		default:
			return false
		}
	}
	for pi < len(p) && p[pi].kind == anySeq {
		pi++
	}
	return pi == len(p)
}

func equal(a, b rune, fold bool) bool {
	if a == b {
		return true
	}
	return fold && lowerASCII(a) == lowerASCII(b)
}

func lowerASCII(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}

// orAll returns the pattern to bind in a LIKE clause.
func orAll(pattern string) string {
	if pattern == "" {
		return "%"
	}
	return pattern
}
