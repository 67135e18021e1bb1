package format

import (
	"strings"
	"testing"

	"github.com/nokaze/tokfmt/token"
)

func testVocabulary() token.Vocabulary {
	return token.NewVocabulary(
		[]string{"ID", "INT", "PLUS"},
		[]string{"", "", "'+'"},
	)
}

func TestFormatter_Format(t *testing.T) {
	vocab := testVocabulary()

	tok := func(build func(b *token.Builder)) *token.Token {
		b := token.NewBuilder()
		build(b)
		return b.Build()
	}

	tests := []struct {
		caption string
		pattern string
		tok     *token.Token
		out     string
		failed  bool
	}{
		{
			caption: "a symbolic kind renders its vocabulary name",
			pattern: "n",
			tok:     tok(func(b *token.Builder) { b.SetKind(1) }),
			out:     "INT",
		},
		{
			caption: "an optional section with a non-default strict field renders",
			pattern: "n[:c]",
			tok:     tok(func(b *token.Builder) { b.SetKind(0).SetChannel(5) }),
			out:     "ID:5",
		},
		{
			caption: "an optional section with a default strict field is skipped",
			pattern: "n[:c]",
			tok:     tok(func(b *token.Builder) { b.SetKind(0) }),
			out:     "ID",
		},
		{
			caption: "a strict integer at its default fails the chain",
			pattern: "c",
			tok:     tok(func(b *token.Builder) { b.SetKind(0) }),
			failed:  true,
		},
		{
			caption: "a lenient integer prints the default verbatim",
			pattern: "C",
			tok:     tok(func(b *token.Builder) { b.SetKind(0) }),
			out:     "0",
		},
		{
			caption: "escaped text substitutes under the escape map",
			pattern: "t",
			tok:     tok(func(b *token.Builder) { b.SetText("can't") }),
			out:     `can\'t`,
		},
		{
			caption: "raw lenient text renders empty text as the placeholder",
			pattern: "T",
			tok:     tok(func(b *token.Builder) { b.SetKind(0) }),
			out:     "<empty>",
		},
		{
			caption: "strict text refuses empty text",
			pattern: "t",
			tok:     tok(func(b *token.Builder) { b.SetKind(0) }),
			failed:  true,
		},
		{
			caption: "a whitespace run renders its preferred form",
			pattern: "k  K",
			tok:     tok(func(b *token.Builder) { b.SetKind(2) }),
			out:     "2  2",
		},
		{
			caption: "a quoted run keeps pattern letters literal",
			pattern: "'kind='k",
			tok:     tok(func(b *token.Builder) { b.SetKind(7) }),
			out:     "kind=7",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			f, err := Compile(tt.pattern, vocab)
			if err != nil {
				t.Fatal(err)
			}
			out, err := f.Format(tt.tok)
			if tt.failed {
				if err == nil {
					t.Fatalf("expected a format failure; got %#v", out)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if out != tt.out {
				t.Fatalf("unexpected output: want: %#v, got: %#v", tt.out, out)
			}
		})
	}
}

func TestFormatter_Format_EOF(t *testing.T) {
	f, err := NewBuilder().AppendEOF().ToFormatter()
	if err != nil {
		t.Fatal(err)
	}

	out, err := f.Format(token.NewBuilder().SetKind(token.EOF).Build())
	if err != nil {
		t.Fatal(err)
	}
	if out != "EOF" {
		t.Fatalf("unexpected output: want: %#v, got: %#v", "EOF", out)
	}

	if _, err := f.Format(token.NewBuilder().SetKind(1).Build()); err == nil {
		t.Fatal("expected a format failure for a non-EOF kind")
	}
}

func TestFormatter_Format_NoVocabulary(t *testing.T) {
	f, err := NewBuilder().AppendSymbolicKind().ToFormatter()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Format(token.NewBuilder().SetKind(0).Build()); err == nil {
		t.Fatal("expected a format failure without a vocabulary")
	}
}

func TestFormatter_Parse(t *testing.T) {
	vocab := testVocabulary()

	tests := []struct {
		caption string
		pattern string
		src     string
		kind    int
		text    string
		channel int
		failed  bool
	}{
		{
			caption: "a symbolic name binds its kind",
			pattern: "n",
			src:     "INT",
			kind:    1,
		},
		{
			caption: "a literal name binds the kind and the unquoted text",
			pattern: "N",
			src:     "'+'",
			kind:    2,
			text:    "+",
		},
		{
			caption: "an optional section present in the input binds its fields",
			pattern: "n[:c]",
			src:     "ID:5",
			kind:    0,
			channel: 5,
		},
		{
			caption: "an optional section absent from the input is skipped",
			pattern: "n[:c]",
			src:     "ID",
			kind:    0,
		},
		{
			caption: "escaped text decodes escape pairs",
			pattern: "t",
			src:     `can\'t`,
			text:    "can't",
		},
		{
			caption: "an unterminated escape sequence fails",
			pattern: "t",
			src:     `oops\`,
			failed:  true,
		},
		{
			caption: "an unknown escape code fails",
			pattern: "t",
			src:     `oops\q`,
			failed:  true,
		},
		{
			caption: "the placeholder parses back to empty text",
			pattern: "T",
			src:     "<empty>",
			text:    "",
		},
		{
			caption: "text capture stops where the successor matches",
			pattern: "t@c",
			src:     "hi@5",
			text:    "hi",
			channel: 5,
		},
		{
			caption: "text capture stops where a trailing optional group's content matches",
			pattern: "t[@c]",
			src:     "hi@5",
			text:    "hi",
			channel: 5,
		},
		{
			caption: "text capture runs to the end when a trailing optional group is absent",
			pattern: "t[@c]",
			src:     "hi",
			text:    "hi",
		},
		{
			caption: "text capture skips past an unmatchable optional group to the next successor",
			pattern: "t[@c]x",
			src:     "hix",
			text:    "hi",
		},
		{
			caption: "a present optional group between text and a literal binds its field",
			pattern: "t[@c]x",
			src:     "hi@5x",
			text:    "hi",
			channel: 5,
		},
		{
			caption: "text capture reaches across a trailing optional group",
			pattern: "n[:t]@c",
			src:     "ID:hi@5",
			kind:    0,
			text:    "hi",
			channel: 5,
		},
		{
			caption: "an escaped delimiter does not terminate the capture",
			pattern: "t@c",
			src:     `a\@b@5`,
			text:    "a@b",
			channel: 5,
		},
		{
			caption: "a negative integer parses",
			pattern: "C",
			src:     "-1",
			channel: -1,
		},
		{
			caption: "a missing integer fails",
			pattern: "c",
			src:     "x",
			failed:  true,
		},
		{
			caption: "an integer overflow fails",
			pattern: "c",
			src:     "99999999999999999999",
			failed:  true,
		},
		{
			caption: "trailing unparsed text fails",
			pattern: "n",
			src:     "ID!",
			kind:    0,
			failed:  true,
		},
		{
			caption: "equal re-binding of a field is permitted",
			pattern: "c=c",
			src:     "5=5",
			channel: 5,
		},
		{
			caption: "conflicting re-binding of a field fails",
			pattern: "c=c",
			src:     "5=6",
			failed:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			f, err := Compile(tt.pattern, vocab)
			if err != nil {
				t.Fatal(err)
			}
			tok, err := f.Parse(tt.src)
			if tt.failed {
				if err == nil {
					t.Fatalf("expected a parse failure; got %v", describeToken(tok))
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tok.Kind() != tt.kind {
				t.Errorf("unexpected kind: want: %v, got: %v", tt.kind, tok.Kind())
			}
			if tok.Text() != tt.text {
				t.Errorf("unexpected text: want: %#v, got: %#v", tt.text, tok.Text())
			}
			if tok.Channel() != tt.channel {
				t.Errorf("unexpected channel: want: %v, got: %v", tt.channel, tok.Channel())
			}
		})
	}
}

func TestFormatter_Parse_LongestMatch(t *testing.T) {
	vocab := token.NewVocabulary([]string{"ID", "IDENTIFIER"}, nil)
	f, err := NewBuilder().AppendSymbolicKind().ToFormatter()
	if err != nil {
		t.Fatal(err)
	}
	tok, err := f.WithVocabulary(vocab).Parse("IDENTIFIER")
	if err != nil {
		t.Fatal(err)
	}
	if tok.Kind() != 1 {
		t.Fatalf("the longest name must win: want kind 1, got %v", tok.Kind())
	}
}

func TestFormatter_Parse_EOF(t *testing.T) {
	f, err := NewBuilder().AppendEOF().ToFormatter()
	if err != nil {
		t.Fatal(err)
	}
	tok, err := f.Parse("EOF")
	if err != nil {
		t.Fatal(err)
	}
	if tok.Kind() != token.EOF {
		t.Errorf("unexpected kind: want: %v, got: %v", token.EOF, tok.Kind())
	}
	if tok.Text() != token.EOFText {
		t.Errorf("unexpected text: want: %#v, got: %#v", token.EOFText, tok.Text())
	}
}

func TestFormatter_RoundTrip(t *testing.T) {
	vocab := testVocabulary()

	tests := []struct {
		caption string
		pattern string
		tok     *token.Token
	}{
		{
			caption: "kind with text and channel",
			pattern: "N[(t)][@c]",
			tok:     token.NewBuilder().SetKind(1).SetText("42").SetChannel(2).Build(),
		},
		{
			caption: "kind only",
			pattern: "N[(t)][@c]",
			tok:     token.NewBuilder().SetKind(0).Build(),
		},
		{
			caption: "literal kind",
			pattern: "N[(t)][@c]",
			tok:     token.NewBuilder().SetKind(2).SetText("+").Build(),
		},
		{
			caption: "text with escapes",
			pattern: "n(t)",
			tok:     token.NewBuilder().SetKind(0).SetText("a(b)\nc").Build(),
		},
		{
			caption: "positions",
			pattern: "k@l:u",
			tok:     token.NewBuilder().SetKind(1).SetLine(3).SetColumn(7).Build(),
		},
		{
			caption: "text followed by an optional channel marker",
			pattern: "t[@c]",
			tok:     token.NewBuilder().SetText("hi").SetChannel(2).Build(),
		},
		{
			caption: "text followed by a skipped optional channel marker",
			pattern: "t[@c]",
			tok:     token.NewBuilder().SetText("hi").Build(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			f, err := Compile(tt.pattern, vocab)
			if err != nil {
				t.Fatal(err)
			}
			out, err := f.Format(tt.tok)
			if err != nil {
				t.Fatal(err)
			}
			parsed, err := f.Parse(out)
			if err != nil {
				t.Fatalf("cannot parse %#v back: %v", out, err)
			}
			for _, fld := range f.Fields() {
				want := fld.access(tt.tok)
				got := fld.access(parsed)
				if !want.equal(got) {
					t.Errorf("field %v does not round-trip via %#v: want: %v, got: %v", fld.Name(), out, want, got)
				}
			}
		})
	}
}

func TestFormatter_Alternatives(t *testing.T) {
	newChain := func(lits ...string) *Formatter {
		b := NewBuilder()
		for _, l := range lits {
			b.AppendLiteral(l)
		}
		f, err := b.ToFormatter()
		if err != nil {
			t.Fatal(err)
		}
		return f
	}

	// A fails at index 2, B fails at index 5: the reported failure must carry
	// B's position and message only.
	a := newChain("ab", "CD")
	b := newChain("ab:xy", "!")
	f := a.WithAlternative(b)

	_, err := f.Parse("ab:xy")
	if err == nil {
		t.Fatal("expected a parse failure")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("unexpected error type: %T", err)
	}
	if perr.Index != 5 {
		t.Errorf("unexpected failure index: want: 5, got: %v", perr.Index)
	}
	if len(perr.Messages) != 1 || !strings.Contains(perr.Messages[0], "!") {
		t.Errorf("only the deepest message must survive: got: %v", perr.Messages)
	}
}

func TestFormatter_Alternatives_FirstWins(t *testing.T) {
	vocab := testVocabulary()
	symbolic, err := NewBuilder().AppendSymbolicKind().ToFormatter()
	if err != nil {
		t.Fatal(err)
	}
	integer, err := NewBuilder().AppendInteger(FieldKind, false).ToFormatter()
	if err != nil {
		t.Fatal(err)
	}

	f := symbolic.WithAlternative(integer).WithVocabulary(vocab)
	out, err := f.Format(token.NewBuilder().SetKind(1).Build())
	if err != nil {
		t.Fatal(err)
	}
	if out != "INT" {
		t.Fatalf("the first chain must win: want: %#v, got: %#v", "INT", out)
	}

	f = integer.WithAlternative(symbolic).WithVocabulary(vocab)
	out, err = f.Format(token.NewBuilder().SetKind(1).Build())
	if err != nil {
		t.Fatal(err)
	}
	if out != "1" {
		t.Fatalf("the first chain must win: want: %#v, got: %#v", "1", out)
	}
}

func TestFormatter_WithVocabulary_Idempotent(t *testing.T) {
	vocab := testVocabulary()
	f, err := NewBuilder().AppendSymbolicKind().ToFormatter()
	if err != nil {
		t.Fatal(err)
	}
	f2 := f.WithVocabulary(vocab)
	if f2 == f {
		t.Fatal("installing a new vocabulary must produce a new formatter")
	}
	if f3 := f2.WithVocabulary(vocab); f3 != f2 {
		t.Fatal("rebinding the same vocabulary must be an identity no-op")
	}
}

func TestFormatter_ParseAt(t *testing.T) {
	vocab := testVocabulary()
	f, err := Compile("n", vocab)
	if err != nil {
		t.Fatal(err)
	}

	pos := NewParsePosition()
	tok := f.ParseAt("INT!", pos)
	if tok == nil {
		t.Fatal("expected a token")
	}
	if pos.Index() != 3 {
		t.Fatalf("unexpected cursor: want: 3, got: %v", pos.Index())
	}

	// A failed attempt must leave the cursor untouched and record the error.
	if tok := f.ParseAt("INT!", pos); tok != nil {
		t.Fatalf("expected a failure; got %v", describeToken(tok))
	}
	if pos.Index() != 3 {
		t.Fatalf("a failed attempt must not move the cursor: got: %v", pos.Index())
	}
	if pos.ErrorIndex() < 0 {
		t.Fatal("a failed attempt must record its error")
	}
}

func TestFormatter_ParseList(t *testing.T) {
	vocab := testVocabulary()

	base, err := Compile("N[(t)][@c]", vocab)
	if err != nil {
		t.Fatal(err)
	}
	eof, err := NewBuilder().AppendEOF().ToFormatter()
	if err != nil {
		t.Fatal(err)
	}
	f := base.WithAlternative(eof)

	tests := []struct {
		caption string
		src     string
		skipWS  bool
		kinds   []int
		failed  bool
	}{
		{
			caption: "an empty input yields an empty list",
			src:     "",
			kinds:   nil,
		},
		{
			caption: "tokens separated by whitespace",
			src:     "ID INT(42)\n'+' EOF",
			skipWS:  true,
			kinds:   []int{0, 1, 2, token.EOF},
		},
		{
			caption: "trailing whitespace is tolerated",
			src:     "ID INT(42)\n",
			skipWS:  true,
			kinds:   []int{0, 1},
		},
		{
			caption: "without the whitespace skip a separated list fails",
			src:     "ID INT(42)",
			skipWS:  false,
			failed:  true,
		},
		{
			caption: "garbage between tokens fails",
			src:     "ID ! INT(42)",
			skipWS:  true,
			failed:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			toks, err := f.ParseList(tt.src, tt.skipWS)
			if tt.failed {
				if err == nil {
					t.Fatal("expected a parse failure")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(toks) != len(tt.kinds) {
				t.Fatalf("unexpected token count: want: %v, got: %v", len(tt.kinds), len(toks))
			}
			for i, tok := range toks {
				if tok.Kind() != tt.kinds[i] {
					t.Errorf("unexpected kind at %v: want: %v, got: %v", i, tt.kinds[i], tok.Kind())
				}
				// The notation carries no index field, so indices are
				// synthesized sequentially.
				if tok.Index() != i {
					t.Errorf("unexpected synthesized index at %v: got: %v", i, tok.Index())
				}
			}
		})
	}
}

func TestParseError_Error(t *testing.T) {
	vocab := testVocabulary()
	f, err := Compile("n", vocab)
	if err != nil {
		t.Fatal(err)
	}
	_, err = f.Parse("??")
	if err == nil {
		t.Fatal("expected a parse failure")
	}
	msg := err.Error()
	if !strings.Contains(msg, "??") || !strings.Contains(msg, "^") {
		t.Fatalf("the message must echo the input with the failure marked: got:\n%v", msg)
	}
}
