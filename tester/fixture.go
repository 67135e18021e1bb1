package tester

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	verr "github.com/nokaze/tokfmt/error"
	"github.com/nokaze/tokfmt/format"
	"github.com/nokaze/tokfmt/token"
)

// A fixture file consists of four parts separated by `---` lines:
// a description, a lexical specification, the source text, and the expected
// token list written in the token notation.
//
// Each lexical specification line defines one kind, in kind order:
//
//	name: "regexp"
//	name: 'literal'
//	name: "regexp" skip
//	name: 'literal' hidden
//
// A 'literal' entry matches its lexeme verbatim and gives the kind a literal
// vocabulary name. A skip kind is dropped from the token stream; a hidden
// kind is routed to the hidden channel.
type Fixture struct {
	Description string
	Entries     []*LexEntry
	Source      []byte
	Expected    []*token.Token
	Vocabulary  token.Vocabulary
	Format      *format.Formatter
}

type LexEntry struct {
	Name    string
	Pattern string
	Literal bool
	Skip    bool
	Hidden  bool
}

// DefaultFormat returns the token notation used in fixture files: the
// end-of-stream marker, or a kind name with an optional parenthesized text
// and an optional channel marker, e.g. ID, INT(42), '+', ws( )@1, EOF.
func DefaultFormat() *format.Formatter {
	eof, err := format.NewBuilder().AppendEOF().ToFormatter()
	if err != nil {
		panic(err)
	}
	base, err := format.NewBuilder().AppendPattern("N[(t)][@c]").ToFormatter()
	if err != nil {
		panic(err)
	}
	return eof.WithAlternative(base)
}

var (
	errPartCount    = errors.New("a fixture consists of just four parts: description, lexical specification, source, and expected tokens")
	errNoLexEntry   = errors.New("a fixture needs at least one lexical specification entry")
	errEntryFormat  = errors.New("a lexical specification entry must look like `name: \"pattern\"` or `name: 'literal'`")
	errDupEntryName = errors.New("lexical specification entry names must be unique")
)

// ParseFixture reads one fixture. Errors carry the 1-based row within the
// fixture where possible.
func ParseFixture(r io.Reader) (*Fixture, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: %v parts found", errPartCount, len(parts))
	}

	lexRowOffset := parts[0].lineCount + 1
	entries, err := parseLexEntries(parts[1].buf, lexRowOffset)
	if err != nil {
		return nil, err
	}

	vocab := newFixtureVocabulary(entries)
	f := DefaultFormat().WithVocabulary(vocab)

	expected, err := f.ParseList(string(parts[3].buf), true)
	if err != nil {
		expRowOffset := parts[0].lineCount + parts[1].lineCount + parts[2].lineCount + 3
		var perr *format.ParseError
		if errors.As(err, &perr) {
			line, _ := perr.Position()
			return nil, &verr.FixtureError{
				Cause: err,
				Row:   expRowOffset + line,
			}
		}
		return nil, err
	}

	return &Fixture{
		Description: string(parts[0].buf),
		Entries:     entries,
		Source:      parts[2].buf,
		Expected:    expected,
		Vocabulary:  vocab,
		Format:      f,
	}, nil
}

func parseLexEntries(buf []byte, rowOffset int) ([]*LexEntry, error) {
	var entries []*LexEntry
	names := map[string]struct{}{}
	s := bufio.NewScanner(bytes.NewReader(buf))
	row := rowOffset
	for s.Scan() {
		row++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		e, err := parseLexEntry(line)
		if err != nil {
			return nil, &verr.FixtureError{
				Cause: err,
				Row:   row,
			}
		}
		if _, dup := names[e.Name]; dup {
			return nil, &verr.FixtureError{
				Cause: fmt.Errorf("%w: %v", errDupEntryName, e.Name),
				Row:   row,
			}
		}
		names[e.Name] = struct{}{}
		entries = append(entries, e)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errNoLexEntry
	}
	return entries, nil
}

func parseLexEntry(line string) (*LexEntry, error) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return nil, errEntryFormat
	}
	name := strings.TrimSpace(line[:colon])
	if name == "" || !isEntryName(name) {
		return nil, errEntryFormat
	}

	rest := strings.TrimSpace(line[colon+1:])
	if rest == "" {
		return nil, errEntryFormat
	}
	delim := rest[0]
	if delim != '"' && delim != '\'' {
		return nil, errEntryFormat
	}
	pattern, tail, err := scanQuoted(rest)
	if err != nil {
		return nil, err
	}

	e := &LexEntry{
		Name:    name,
		Pattern: pattern,
		Literal: delim == '\'',
	}
	switch strings.TrimSpace(tail) {
	case "":
	case "skip":
		e.Skip = true
	case "hidden":
		e.Hidden = true
	default:
		return nil, fmt.Errorf("unknown directive: %v", strings.TrimSpace(tail))
	}
	if e.Pattern == "" {
		return nil, fmt.Errorf("entry %v has an empty pattern", name)
	}
	return e, nil
}

// scanQuoted reads a quoted run starting at s[0]. The escape pairs \<delim>
// and \\ are decoded; any other backslash pair is kept verbatim for the
// pattern language to interpret.
func scanQuoted(s string) (string, string, error) {
	delim := s[0]
	var b strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			if s[i+1] == delim || s[i+1] == '\\' {
				b.WriteByte(s[i+1])
			} else {
				b.WriteByte('\\')
				b.WriteByte(s[i+1])
			}
			i += 2
			continue
		}
		if c == delim {
			return b.String(), s[i+1:], nil
		}
		b.WriteByte(c)
		i++
	}
	return "", "", fmt.Errorf("an unclosed %v quote", string(delim))
}

func isEntryName(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

// newFixtureVocabulary derives the vocabulary from the entry list: the entry
// order defines the kinds, every entry contributes its symbolic name, and
// literal entries additionally contribute a quoted literal name.
func newFixtureVocabulary(entries []*LexEntry) token.Vocabulary {
	symbolic := make([]string, len(entries))
	literal := make([]string, len(entries))
	for i, e := range entries {
		symbolic[i] = e.Name
		if e.Literal {
			literal[i] = quoteLiteralName(e.Pattern)
		}
	}
	return token.NewVocabulary(symbolic, literal)
}

func quoteLiteralName(lexeme string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(lexeme); i++ {
		if lexeme[i] == '\'' || lexeme[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(lexeme[i])
	}
	b.WriteByte('\'')
	return b.String()
}

type fixturePart struct {
	buf       []byte
	lineCount int
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func splitIntoParts(r io.Reader) ([]*fixturePart, error) {
	var parts []*fixturePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		parts = append(parts, &fixturePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// An immediate delimiter means an empty part. The slice must be
		// non-nil, since the caller takes nil as the end of the input.
		return []byte{}, 0, nil
	}
	if _, err := buf.Write(line); err != nil {
		return nil, 0, err
	}
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		if _, err := buf.Write([]byte("\n")); err != nil {
			return nil, 0, err
		}
		if _, err := buf.Write(line); err != nil {
			return nil, 0, err
		}
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}
