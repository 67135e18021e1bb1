package format

import (
	"bytes"
	"fmt"

	"github.com/nokaze/tokfmt/token"
)

// Formatter formats token records into the compact notation and parses the
// notation back into records. It holds an ordered list of alternative
// component chains; the first chain that succeeds wins, for both directions.
//
// A Formatter is immutable and safe for concurrent use; all per-call state is
// allocated fresh per call.
type Formatter struct {
	chains []*compositePP
	flds   []*Field
	vocab  token.Vocabulary
}

// Fields returns the union of fields referenced by any chain.
func (f *Formatter) Fields() []*Field {
	flds := make([]*Field, len(f.flds))
	copy(flds, f.flds)
	return flds
}

// Vocabulary returns the bound vocabulary, or nil.
func (f *Formatter) Vocabulary() token.Vocabulary {
	return f.vocab
}

// HasField reports whether the formatter's chains reference fld.
func (f *Formatter) HasField(fld *Field) bool {
	for _, known := range f.flds {
		if known == fld {
			return true
		}
	}
	return false
}

// WithAlternative returns a formatter whose chains are the receiver's chains
// followed by other's. The field set is the union; the vocabulary is the
// receiver's unless it has none.
func (f *Formatter) WithAlternative(other *Formatter) *Formatter {
	chains := make([]*compositePP, 0, len(f.chains)+len(other.chains))
	chains = append(chains, f.chains...)
	chains = append(chains, other.chains...)
	vocab := f.vocab
	if vocab == nil {
		vocab = other.vocab
	}
	return &Formatter{
		chains: chains,
		flds:   unionFields(f.flds, other.flds),
		vocab:  vocab,
	}
}

// WithVocabulary returns a formatter with v installed. Rebinding the
// vocabulary already held is a no-op returning the receiver itself.
func (f *Formatter) WithVocabulary(v token.Vocabulary) *Formatter {
	if v == f.vocab {
		return f
	}
	return &Formatter{
		chains: f.chains,
		flds:   f.flds,
		vocab:  v,
	}
}

// Format renders tok. Chains are tried in order; the first that fully
// succeeds wins.
func (f *Formatter) Format(tok *token.Token) (string, error) {
	var buf bytes.Buffer
	for _, chain := range f.chains {
		buf.Reset()
		if err := chain.format(&buf, tok, f.vocab); err == nil {
			return buf.String(), nil
		}
	}
	return "", formatErrorf("no alternative can render the token %v", describeToken(tok))
}

// describeToken is a fallback, vocabulary-free rendition used in failure
// messages, so that describing an unrenderable token cannot itself fail.
func describeToken(tok *token.Token) string {
	return fmt.Sprintf("{kind:%v text:%#v index:%v line:%v column:%v channel:%v start:%v stop:%v}",
		tok.Kind(), tok.Text(), tok.Index(), tok.Line(), tok.Column(), tok.Channel(), tok.Start(), tok.Stop())
}

// Parse parses exactly one token out of input and requires the entire input
// to be consumed.
func (f *Formatter) Parse(input string) (*token.Token, error) {
	pos := NewParsePosition()
	tok := f.ParseAt(input, pos)
	if tok == nil {
		return nil, errorAt(input, pos)
	}
	if pos.Index() != len(input) {
		return nil, parseErrorf(input, pos.Index(), "trailing unparsed text")
	}
	return tok, nil
}

// ParseAt attempts the alternative chains at the position's cursor. On
// success it advances the cursor, clears the recorded error, and returns the
// token. On failure it returns nil, leaves the cursor untouched, and records
// the diagnostics of the deepest failing chain into the position.
func (f *Formatter) ParseAt(input string, pos *ParsePosition) *token.Token {
	for _, chain := range f.chains {
		ctx := newParseContext()
		newPos, err := chain.parse(ctx, input, pos.Index(), nil, f.vocab)
		if err != nil {
			if perr, ok := err.(*ParseError); ok {
				pos.recordError(perr.Index, perr.Messages)
			} else {
				pos.recordError(pos.Index(), []string{err.Error()})
			}
			continue
		}
		pos.SetIndex(newPos)
		pos.clearError()
		return ctx.buildToken()
	}
	return nil
}

// ParseList parses successive tokens until the input is exhausted. When
// skipWhitespace is set, a failed attempt is retried once after advancing
// past a whitespace run. When the sequence-index field does not participate
// in the formatter's field set, each token receives a synthesized sequential
// index.
func (f *Formatter) ParseList(input string, skipWhitespace bool) ([]*token.Token, error) {
	hasIndex := f.HasField(FieldIndex)
	pos := NewParsePosition()
	var toks []*token.Token
	for pos.Index() < len(input) {
		tok := f.ParseAt(input, pos)
		if tok == nil && skipWhitespace {
			i := pos.Index()
			for i < len(input) && isSpaceByte(input[i]) {
				i++
			}
			if i > pos.Index() {
				pos.SetIndex(i)
				if i == len(input) {
					break
				}
				tok = f.ParseAt(input, pos)
			}
		}
		if tok == nil {
			return nil, errorAt(input, pos)
		}
		if !hasIndex {
			tok = tok.WithIndex(pos.nextSeq())
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

func errorAt(input string, pos *ParsePosition) *ParseError {
	index := pos.ErrorIndex()
	if index < 0 {
		index = pos.Index()
	}
	msgs := pos.Messages()
	if len(msgs) == 0 {
		msgs = []string{"no alternative matches"}
	}
	return &ParseError{
		Input:    input,
		Index:    index,
		Messages: msgs,
	}
}
