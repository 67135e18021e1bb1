package tester

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"

	verr "github.com/nokaze/tokfmt/error"
	"github.com/nokaze/tokfmt/format"
	"github.com/nokaze/tokfmt/token"
)

// TokenDiff is one field-wise mismatch between an expected and an actual
// token.
type TokenDiff struct {
	Index    int
	Field    string
	Expected string
	Actual   string
}

// DiffTokens compares two token lists positionally, restricted to the given
// fields. A length mismatch is reported as a single diff entry.
func DiffTokens(expected, actual []*token.Token, fields []*format.Field) []*TokenDiff {
	var diffs []*TokenDiff
	if len(expected) != len(actual) {
		diffs = append(diffs, &TokenDiff{
			Index:    min(len(expected), len(actual)),
			Field:    "count",
			Expected: fmt.Sprintf("%v tokens", len(expected)),
			Actual:   fmt.Sprintf("%v tokens", len(actual)),
		})
	}
	n := min(len(expected), len(actual))
	for i := 0; i < n; i++ {
		for _, f := range fields {
			want := f.Value(expected[i])
			got := f.Value(actual[i])
			if want == got {
				continue
			}
			diffs = append(diffs, &TokenDiff{
				Index:    i,
				Field:    f.Name(),
				Expected: want,
				Actual:   got,
			})
		}
	}
	return diffs
}

type TestResult struct {
	FixturePath string
	Error       error
	Diffs       []*TokenDiff
}

func (r *TestResult) String() string {
	if r.Error == nil && len(r.Diffs) == 0 {
		return fmt.Sprintf("Passed %v", r.FixturePath)
	}

	const indent = "    "
	var b strings.Builder
	fmt.Fprintf(&b, "Failed %v:", r.FixturePath)
	if r.Error != nil {
		msgLines := strings.Split(r.Error.Error(), "\n")
		fmt.Fprintf(&b, "\n%v%v", indent, strings.Join(msgLines, "\n"+indent))
	}
	if len(r.Diffs) > 0 {
		b.WriteString("\n")
		w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "%v#\tfield\texpected\tactual\n", indent)
		for _, d := range r.Diffs {
			fmt.Fprintf(w, "%v%v\t%v\t%v\t%v\n", indent, d.Index, d.Field, d.Expected, d.Actual)
		}
		w.Flush()
	}
	return strings.TrimRight(b.String(), "\n")
}

type TestCaseWithMetadata struct {
	Fixture  *Fixture
	FilePath string
	Error    error
}

// ListTestCases collects the fixture at testPath, or every fixture under it
// when testPath is a directory. Read errors are attached per entry so that a
// caller can report all of them at once.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseFixtureFile(testPath)
		return []*TestCaseWithMetadata{
			{
				Fixture:  c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseFixtureFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fx, err := ParseFixture(f)
	if err != nil {
		if ferr, ok := err.(*verr.FixtureError); ok {
			ferr.FilePath = path
			return nil, ferr
		}
		return nil, &verr.FixtureError{
			Cause:    err,
			FilePath: path,
		}
	}
	return fx, nil
}

type Tester struct {
	Cases []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTest(c))
	}
	return rs
}

func runTest(c *TestCaseWithMetadata) *TestResult {
	actual, err := LexFixture(c.Fixture)
	if err != nil {
		return &TestResult{
			FixturePath: c.FilePath,
			Error:       err,
		}
	}

	diffs := DiffTokens(c.Fixture.Expected, actual, c.Fixture.Format.Fields())
	if len(diffs) > 0 {
		return &TestResult{
			FixturePath: c.FilePath,
			Error:       fmt.Errorf("token mismatch"),
			Diffs:       diffs,
		}
	}
	return &TestResult{
		FixturePath: c.FilePath,
	}
}

// LexFixture compiles the fixture's lexical specification, runs the lexer
// over the source part, and materializes the actual token list: skip kinds
// are dropped, hidden kinds go to the hidden channel, and the list ends with
// the EOF token.
func LexFixture(fx *Fixture) ([]*token.Token, error) {
	clexspec, err := compileLexSpec(fx.Entries)
	if err != nil {
		return nil, err
	}

	// maleeni numbers kinds in entry order with a reserved nil kind, so a
	// name lookup keeps the mapping robust.
	kindOf := map[string]int{}
	for i, e := range fx.Entries {
		kindOf[e.Name] = i
	}
	kindTable := make([]int, len(clexspec.KindNames))
	for id, name := range clexspec.KindNames {
		if name == mlspec.LexKindNameNil {
			continue
		}
		kind, ok := kindOf[name.String()]
		if !ok {
			return nil, fmt.Errorf("kind %v was not found in the fixture vocabulary", name)
		}
		kindTable[id] = kind
	}

	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(clexspec), bytes.NewReader(fx.Source))
	if err != nil {
		return nil, err
	}

	var toks []*token.Token
	index := 0
	offset := 0
	for {
		mlTok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		if mlTok.Invalid {
			return nil, fmt.Errorf("invalid token at %v:%v: %#v", mlTok.Row+1, mlTok.Col+1, string(mlTok.Lexeme))
		}
		if mlTok.EOF {
			toks = append(toks, token.NewBuilder().
				SetKind(token.EOF).
				SetText(token.EOFText).
				SetIndex(index).
				SetStart(offset).
				SetStop(offset-1).
				Build())
			return toks, nil
		}

		entry := fx.Entries[kindTable[mlTok.KindID]]
		start := offset
		offset += len(mlTok.Lexeme)
		if entry.Skip {
			continue
		}
		channel := token.DefaultChannel
		if entry.Hidden {
			channel = token.HiddenChannel
		}
		toks = append(toks, token.NewBuilder().
			SetKind(kindTable[mlTok.KindID]).
			SetText(string(mlTok.Lexeme)).
			SetIndex(index).
			SetLine(mlTok.Row+1).
			SetColumn(mlTok.Col).
			SetChannel(channel).
			SetStart(start).
			SetStop(offset-1).
			Build())
		index++
	}
}

func compileLexSpec(entries []*LexEntry) (*mlspec.CompiledLexSpec, error) {
	mlEntries := make([]*mlspec.LexEntry, len(entries))
	for i, e := range entries {
		pattern := e.Pattern
		if e.Literal {
			pattern = mlspec.EscapePattern(e.Pattern)
		}
		mlEntries[i] = &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(e.Name),
			Pattern: mlspec.LexPattern(pattern),
		}
	}
	clexspec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    "fixture",
		Entries: mlEntries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cErr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cErr)
			}
			return nil, fmt.Errorf("%v", b.String())
		}
		return nil, err
	}
	return clexspec, nil
}

func writeCompileError(w *strings.Builder, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
}
