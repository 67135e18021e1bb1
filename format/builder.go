package format

import (
	"errors"

	"github.com/nokaze/tokfmt/token"
)

var (
	errNestedOptional       = errors.New("optional sections cannot nest")
	errDanglingOptionalEnd  = errors.New("an optional section is not started")
	errUnterminatedOptional = errors.New("an optional section is not terminated")
	errEmptyOptional        = errors.New("an optional section needs at least one component")
	errEmptyChain           = errors.New("a formatter needs at least one component")
	errBuilderConsumed      = errors.New("the builder is already consumed")
	errIncompleteEscape     = errors.New("a pattern cannot end with an escape character")
	errUnclosedQuote        = errors.New("a quoted run is not closed")
	errNonNumericField      = errors.New("an integer component needs a numeric field")
)

// Builder accumulates one chain of components and compiles it into a
// Formatter. It is a mutable, single-owner, single-use object: ToFormatter
// consumes it, and a consumed builder rejects further use.
type Builder struct {
	chain []printerParser
	opt   []printerParser
	inOpt bool
	done  bool
	err   error
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) add(pp printerParser) *Builder {
	if b.done {
		b.setErr(errBuilderConsumed)
		return b
	}
	if b.inOpt {
		b.opt = append(b.opt, pp)
		return b
	}
	b.chain = append(b.chain, pp)
	return b
}

// AppendLiteral appends a component matching the fixed string s.
func (b *Builder) AppendLiteral(s string) *Builder {
	return b.add(&literalPP{text: s})
}

// AppendInteger appends a decimal rendition of a numeric field. In strict
// mode, formatting fails while the field holds its default value.
func (b *Builder) AppendInteger(f *Field, strict bool) *Builder {
	if f == FieldText {
		b.setErr(errNonNumericField)
		return b
	}
	return b.add(&integerPP{field: f, strict: strict})
}

// AppendText appends the free-text capture of the token text. escaped selects
// the escape-map encoding; strict makes formatting fail on empty text instead
// of rendering a placeholder.
func (b *Builder) AppendText(escaped bool, strict bool) *Builder {
	return b.add(&textPP{escaped: escaped, strict: strict})
}

// AppendSymbolicKind appends the kind resolved through the vocabulary's
// symbolic names.
func (b *Builder) AppendSymbolicKind() *Builder {
	return b.add(&kindNamePP{literal: false})
}

// AppendLiteralKind appends the kind resolved through the vocabulary's
// literal names. On parse it also binds the token text to the unquoted name.
func (b *Builder) AppendLiteralKind() *Builder {
	return b.add(&kindNamePP{literal: true})
}

// AppendKindAlternatives appends the ordered symbolic/literal/integer kind
// notation; see the pattern letters n and N.
func (b *Builder) AppendKindAlternatives(lenient bool) *Builder {
	return b.add(newKindAlternatives(lenient))
}

// AppendEOF appends the end-of-stream marker component.
func (b *Builder) AppendEOF() *Builder {
	return b.add(&eofPP{})
}

// AppendWhitespace appends a component that renders preferred and consumes
// any whitespace run, possibly empty, on parse.
func (b *Builder) AppendWhitespace(preferred string) *Builder {
	return b.add(&whitespacePP{preferred: preferred})
}

// StartOptional opens an optional section. Optional sections do not nest.
func (b *Builder) StartOptional() *Builder {
	if b.done {
		b.setErr(errBuilderConsumed)
		return b
	}
	if b.inOpt {
		b.setErr(errNestedOptional)
		return b
	}
	b.inOpt = true
	b.opt = nil
	return b
}

// EndOptional closes the open optional section.
func (b *Builder) EndOptional() *Builder {
	if b.done {
		b.setErr(errBuilderConsumed)
		return b
	}
	if !b.inOpt {
		b.setErr(errDanglingOptionalEnd)
		return b
	}
	if len(b.opt) == 0 {
		b.setErr(errEmptyOptional)
		return b
	}
	b.inOpt = false
	b.chain = append(b.chain, &compositePP{children: b.opt, optional: true})
	b.opt = nil
	return b
}

// ToFormatter consumes the builder and returns the formatter for its chain.
func (b *Builder) ToFormatter() (*Formatter, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.done {
		return nil, errBuilderConsumed
	}
	if b.inOpt {
		return nil, errUnterminatedOptional
	}
	if len(b.chain) == 0 {
		return nil, errEmptyChain
	}
	b.done = true
	chain := &compositePP{children: b.chain}
	return &Formatter{
		chains: []*compositePP{chain},
		flds:   chain.fields(),
	}, nil
}

// Compile builds a formatter from a pattern string; see AppendPattern for the
// pattern mini-language.
func Compile(pattern string, vocab token.Vocabulary) (*Formatter, error) {
	f, err := NewBuilder().AppendPattern(pattern).ToFormatter()
	if err != nil {
		return nil, err
	}
	return f.WithVocabulary(vocab), nil
}
