package format

import "strings"

// AppendPattern compiles a pattern string into components, appending them to
// the chain. The pattern is read once, left to right:
//
//   - a recognized letter appends its field component; the lower-case letter
//     is the strict form, the upper-case one the lenient form:
//     k/K kind as integer, n/N kind as name (symbolic-first strict vs
//     literal-first lenient), t/T text (escaped vs raw), i/I sequence index,
//     a/A start offset, o/O stop offset, c/C channel, u/U column, l/L line
//   - a run of whitespace collapses into one whitespace component that
//     prefers exactly that run
//   - '...' forces the quoted run to be literal, letters included
//   - \x escapes exactly one character as literal
//   - [...] brackets an optional section
//   - any other run of characters accumulates into a single literal
func (b *Builder) AppendPattern(pattern string) *Builder {
	if b.err != nil || b.done {
		return b
	}

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			b.AppendLiteral(lit.String())
			lit.Reset()
		}
	}

	i := 0
	for i < len(pattern) {
		c := pattern[i]
		switch {
		case c == '\\':
			if i+1 >= len(pattern) {
				b.setErr(errIncompleteEscape)
				return b
			}
			lit.WriteByte(pattern[i+1])
			i += 2
		case c == '\'':
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				b.setErr(errUnclosedQuote)
				return b
			}
			lit.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
		case c == '[':
			flush()
			b.StartOptional()
			i++
		case c == ']':
			flush()
			b.EndOptional()
			i++
		case isSpaceByte(c):
			flush()
			j := i
			for j < len(pattern) && isSpaceByte(pattern[j]) {
				j++
			}
			b.AppendWhitespace(pattern[i:j])
			i = j
		default:
			if apply, ok := patternLetter(c); ok {
				flush()
				apply(b)
			} else {
				lit.WriteByte(c)
			}
			i++
		}
		if b.err != nil {
			return b
		}
	}
	flush()
	return b
}

// patternLetter looks up the component construction of one pattern letter.
func patternLetter(c byte) (func(*Builder), bool) {
	switch c {
	case 'k':
		return func(b *Builder) { b.AppendInteger(FieldKind, true) }, true
	case 'K':
		return func(b *Builder) { b.AppendInteger(FieldKind, false) }, true
	case 'n':
		return func(b *Builder) { b.AppendKindAlternatives(false) }, true
	case 'N':
		return func(b *Builder) { b.AppendKindAlternatives(true) }, true
	case 't':
		return func(b *Builder) { b.AppendText(true, true) }, true
	case 'T':
		return func(b *Builder) { b.AppendText(false, false) }, true
	case 'i':
		return func(b *Builder) { b.AppendInteger(FieldIndex, true) }, true
	case 'I':
		return func(b *Builder) { b.AppendInteger(FieldIndex, false) }, true
	case 'a':
		return func(b *Builder) { b.AppendInteger(FieldStart, true) }, true
	case 'A':
		return func(b *Builder) { b.AppendInteger(FieldStart, false) }, true
	case 'o':
		return func(b *Builder) { b.AppendInteger(FieldStop, true) }, true
	case 'O':
		return func(b *Builder) { b.AppendInteger(FieldStop, false) }, true
	case 'c':
		return func(b *Builder) { b.AppendInteger(FieldChannel, true) }, true
	case 'C':
		return func(b *Builder) { b.AppendInteger(FieldChannel, false) }, true
	case 'u':
		return func(b *Builder) { b.AppendInteger(FieldColumn, true) }, true
	case 'U':
		return func(b *Builder) { b.AppendInteger(FieldColumn, false) }, true
	case 'l':
		return func(b *Builder) { b.AppendInteger(FieldLine, true) }, true
	case 'L':
		return func(b *Builder) { b.AppendInteger(FieldLine, false) }, true
	}
	return nil, false
}
