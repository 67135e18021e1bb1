package format

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/nokaze/tokfmt/token"
)

const (
	eofMarker            = "EOF"
	emptyTextPlaceholder = "<empty>"
)

// printerParser is one node of a format/parse behavior tree. Implementations
// are stateless with respect to a single invocation; all per-call state lives
// in the output buffer, the parse context, and the cursor.
//
// succ holds the components that follow the receiver in the enclosing chain,
// innermost first. It is what a text component consults to bound its
// non-greedy capture; every other variant ignores it.
type printerParser interface {
	format(buf *bytes.Buffer, tok *token.Token, vocab token.Vocabulary) error
	parse(ctx *parseContext, input string, pos int, succ []printerParser, vocab token.Vocabulary) (int, error)
	fields() []*Field
}

// peekOne reports whether pp can match at pos without consuming input or
// touching any caller-visible state.
func peekOne(pp printerParser, input string, pos int, succ []printerParser, vocab token.Vocabulary) bool {
	_, err := pp.parse(newParseContext(), input, pos, succ, vocab)
	return err == nil
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func unionFields(fss ...[]*Field) []*Field {
	var union []*Field
	for _, fs := range fss {
		for _, f := range fs {
			known := false
			for _, u := range union {
				if u == f {
					known = true
					break
				}
			}
			if !known {
				union = append(union, f)
			}
		}
	}
	return union
}

type literalPP struct {
	text string
}

func (p *literalPP) format(buf *bytes.Buffer, tok *token.Token, vocab token.Vocabulary) error {
	buf.WriteString(p.text)
	return nil
}

func (p *literalPP) parse(ctx *parseContext, input string, pos int, succ []printerParser, vocab token.Vocabulary) (int, error) {
	if !strings.HasPrefix(input[min(pos, len(input)):], p.text) {
		return pos, parseErrorf(input, pos, "expected %#v", p.text)
	}
	return pos + len(p.text), nil
}

func (p *literalPP) fields() []*Field {
	return nil
}

type integerPP struct {
	field  *Field
	strict bool
}

func (p *integerPP) format(buf *bytes.Buffer, tok *token.Token, vocab token.Vocabulary) error {
	v := p.field.access(tok)
	if p.strict && v.equal(p.field.defaultValue()) {
		return formatErrorf("field %v holds its default value", p.field.Name())
	}
	buf.WriteString(strconv.Itoa(v.num))
	return nil
}

func (p *integerPP) parse(ctx *parseContext, input string, pos int, succ []printerParser, vocab token.Vocabulary) (int, error) {
	i := pos
	if i < len(input) && input[i] == '-' {
		i++
	}
	start := i
	for i < len(input) && input[i] >= '0' && input[i] <= '9' {
		i++
	}
	if i == start {
		return pos, parseErrorf(input, pos, "expected an integer for field %v", p.field.Name())
	}
	n, err := strconv.Atoi(input[pos:i])
	if err != nil {
		return pos, parseErrorf(input, pos, "integer for field %v is out of range", p.field.Name())
	}
	if err := ctx.bind(input, pos, p.field, numValue(n)); err != nil {
		return pos, err
	}
	return i, nil
}

func (p *integerPP) fields() []*Field {
	return []*Field{p.field}
}

type textPP struct {
	escaped bool
	strict  bool
}

func (p *textPP) format(buf *bytes.Buffer, tok *token.Token, vocab token.Vocabulary) error {
	text := tok.Text()
	if text == "" {
		if p.strict {
			return formatErrorf("field text holds its default value")
		}
		buf.WriteString(emptyTextPlaceholder)
		return nil
	}
	if p.escaped {
		encodeText(buf, text)
	} else {
		buf.WriteString(text)
	}
	return nil
}

// parse captures input non-greedily: it stops at the first position where any
// component of the successor set can match. The successor set is the next
// component plus any directly following optional composites, since an
// optional successor may or may not consume anything.
func (p *textPP) parse(ctx *parseContext, input string, pos int, succ []printerParser, vocab token.Vocabulary) (int, error) {
	set := successorSet(succ)
	var b strings.Builder
	i := pos
scan:
	for i < len(input) {
		for _, s := range set {
			if peekOne(s.pp, input, i, s.rest, vocab) {
				break scan
			}
		}
		if p.escaped && input[i] == '\\' {
			if i+1 >= len(input) {
				return pos, parseErrorf(input, i, "unterminated escape sequence")
			}
			dec, ok := escapeDecode[input[i+1]]
			if !ok {
				return pos, parseErrorf(input, i, "invalid escape sequence \\%v", string(input[i+1]))
			}
			b.WriteByte(dec)
			i += 2
			continue
		}
		b.WriteByte(input[i])
		i++
	}
	text := b.String()
	if !p.strict && text == emptyTextPlaceholder {
		text = ""
	}
	if err := ctx.bind(input, pos, FieldText, strValue(text)); err != nil {
		return pos, err
	}
	return i, nil
}

func (p *textPP) fields() []*Field {
	return []*Field{FieldText}
}

type successor struct {
	pp   printerParser
	rest []printerParser
}

// successorSet collects the components a text capture must be willing to stop
// at: the immediate successor and, as long as successors are optional
// composites, the components after them as well. An optional composite itself
// matches vacuously at any position, so its entry probes the sub-chain
// content instead of the wrapper. Because a composite passes its own
// successors through to its children, the set reaches across an enclosing
// optional group to the chain that follows it.
func successorSet(succ []printerParser) []successor {
	var set []successor
	for i, s := range succ {
		c, ok := s.(*compositePP)
		if !ok || !c.optional {
			set = append(set, successor{pp: s, rest: succ[i+1:]})
			break
		}
		set = append(set, successor{pp: &compositePP{children: c.children}, rest: succ[i+1:]})
	}
	return set
}

type kindNamePP struct {
	literal bool
}

func (p *kindNamePP) name(vocab token.Vocabulary, kind int) string {
	if p.literal {
		return vocab.LiteralName(kind)
	}
	return vocab.SymbolicName(kind)
}

func (p *kindNamePP) kindName() string {
	if p.literal {
		return "literal"
	}
	return "symbolic"
}

func (p *kindNamePP) format(buf *bytes.Buffer, tok *token.Token, vocab token.Vocabulary) error {
	if vocab == nil {
		return formatErrorf("no vocabulary to resolve a %v name", p.kindName())
	}
	name := p.name(vocab, tok.Kind())
	if name == "" {
		return formatErrorf("kind %v has no %v name", tok.Kind(), p.kindName())
	}
	buf.WriteString(name)
	return nil
}

// parse resolves the longest vocabulary name that prefixes the input. The
// symbolic scan includes the EOF sentinel kind; a literal match additionally
// binds the text field to the unquoted content of the name.
func (p *kindNamePP) parse(ctx *parseContext, input string, pos int, succ []printerParser, vocab token.Vocabulary) (int, error) {
	if vocab == nil {
		return pos, parseErrorf(input, pos, "no vocabulary to resolve a %v name", p.kindName())
	}
	lo := 0
	if !p.literal {
		lo = token.EOF
	}
	bestKind := 0
	bestName := ""
	found := false
	for k := lo; k <= vocab.MaxKind(); k++ {
		name := p.name(vocab, k)
		if name == "" || len(name) <= len(bestName) && found {
			continue
		}
		if strings.HasPrefix(input[min(pos, len(input)):], name) {
			bestKind = k
			bestName = name
			found = true
		}
	}
	if !found {
		return pos, parseErrorf(input, pos, "no %v name matches", p.kindName())
	}
	if err := ctx.bind(input, pos, FieldKind, numValue(bestKind)); err != nil {
		return pos, err
	}
	if p.literal {
		if err := ctx.bind(input, pos, FieldText, strValue(unquoteLiteralName(bestName))); err != nil {
			return pos, err
		}
	}
	return pos + len(bestName), nil
}

func (p *kindNamePP) fields() []*Field {
	if p.literal {
		return []*Field{FieldKind, FieldText}
	}
	return []*Field{FieldKind}
}

// unquoteLiteralName strips the surrounding quotes of a literal vocabulary
// name and decodes its escape pairs.
func unquoteLiteralName(name string) string {
	if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
		name = name[1 : len(name)-1]
	}
	if !strings.ContainsRune(name, '\\') {
		return name
	}
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		if name[i] == '\\' && i+1 < len(name) {
			if dec, ok := escapeDecode[name[i+1]]; ok {
				b.WriteByte(dec)
				i++
				continue
			}
		}
		b.WriteByte(name[i])
	}
	return b.String()
}

type kindAlternativesPP struct {
	alts []printerParser
}

// newKindAlternatives builds the fixed ordered alternative list of the kind
// notation. The lenient form prefers literal names and accepts the default
// kind as a plain integer.
func newKindAlternatives(lenient bool) *kindAlternativesPP {
	if lenient {
		return &kindAlternativesPP{
			alts: []printerParser{
				&kindNamePP{literal: true},
				&kindNamePP{literal: false},
				&integerPP{field: FieldKind, strict: false},
			},
		}
	}
	return &kindAlternativesPP{
		alts: []printerParser{
			&kindNamePP{literal: false},
			&kindNamePP{literal: true},
			&integerPP{field: FieldKind, strict: true},
		},
	}
}

func (p *kindAlternativesPP) format(buf *bytes.Buffer, tok *token.Token, vocab token.Vocabulary) error {
	mark := buf.Len()
	var lastErr error
	for _, alt := range p.alts {
		err := alt.format(buf, tok, vocab)
		if err == nil {
			return nil
		}
		buf.Truncate(mark)
		lastErr = err
	}
	return lastErr
}

func (p *kindAlternativesPP) parse(ctx *parseContext, input string, pos int, succ []printerParser, vocab token.Vocabulary) (int, error) {
	for _, alt := range p.alts {
		probe := ctx.fork()
		newPos, err := alt.parse(probe, input, pos, succ, vocab)
		if err != nil {
			continue
		}
		ctx.adopt(probe)
		return newPos, nil
	}
	return pos, parseErrorf(input, pos, "no kind notation matches")
}

func (p *kindAlternativesPP) fields() []*Field {
	fss := make([][]*Field, len(p.alts))
	for i, alt := range p.alts {
		fss[i] = alt.fields()
	}
	return unionFields(fss...)
}

type eofPP struct{}

func (p *eofPP) format(buf *bytes.Buffer, tok *token.Token, vocab token.Vocabulary) error {
	if tok.Kind() != token.EOF {
		return formatErrorf("kind %v is not the end-of-stream sentinel", tok.Kind())
	}
	buf.WriteString(eofMarker)
	return nil
}

func (p *eofPP) parse(ctx *parseContext, input string, pos int, succ []printerParser, vocab token.Vocabulary) (int, error) {
	if !strings.HasPrefix(input[min(pos, len(input)):], eofMarker) {
		return pos, parseErrorf(input, pos, "expected %#v", eofMarker)
	}
	if err := ctx.bind(input, pos, FieldKind, numValue(token.EOF)); err != nil {
		return pos, err
	}
	if err := ctx.bind(input, pos, FieldText, strValue(token.EOFText)); err != nil {
		return pos, err
	}
	return pos + len(eofMarker), nil
}

func (p *eofPP) fields() []*Field {
	return []*Field{FieldKind, FieldText}
}

type whitespacePP struct {
	preferred string
}

func (p *whitespacePP) format(buf *bytes.Buffer, tok *token.Token, vocab token.Vocabulary) error {
	buf.WriteString(p.preferred)
	return nil
}

func (p *whitespacePP) parse(ctx *parseContext, input string, pos int, succ []printerParser, vocab token.Vocabulary) (int, error) {
	for pos < len(input) && isSpaceByte(input[pos]) {
		pos++
	}
	return pos, nil
}

func (p *whitespacePP) fields() []*Field {
	return nil
}

type compositePP struct {
	children []printerParser
	optional bool
}

func (p *compositePP) format(buf *bytes.Buffer, tok *token.Token, vocab token.Vocabulary) error {
	if !p.optional {
		return p.formatChildren(buf, tok, vocab)
	}
	mark := buf.Len()
	if err := p.formatChildren(buf, tok, vocab); err != nil {
		// An optional section that cannot render is skipped; the buffer is
		// restored to its length before the attempt.
		buf.Truncate(mark)
	}
	return nil
}

func (p *compositePP) formatChildren(buf *bytes.Buffer, tok *token.Token, vocab token.Vocabulary) error {
	for _, ch := range p.children {
		if err := ch.format(buf, tok, vocab); err != nil {
			return err
		}
	}
	return nil
}

func (p *compositePP) parse(ctx *parseContext, input string, pos int, succ []printerParser, vocab token.Vocabulary) (int, error) {
	if !p.optional {
		return p.parseChildren(ctx, input, pos, succ, vocab)
	}
	// Attempt the whole sub-chain on a forked context so that a failed
	// optional leaves the real context untouched.
	probe := ctx.fork()
	newPos, err := p.parseChildren(probe, input, pos, succ, vocab)
	if err != nil {
		return pos, nil
	}
	ctx.adopt(probe)
	return newPos, nil
}

func (p *compositePP) parseChildren(ctx *parseContext, input string, pos int, succ []printerParser, vocab token.Vocabulary) (int, error) {
	for i, ch := range p.children {
		rest := make([]printerParser, 0, len(p.children)-i-1+len(succ))
		rest = append(rest, p.children[i+1:]...)
		rest = append(rest, succ...)
		var err error
		pos, err = ch.parse(ctx, input, pos, rest, vocab)
		if err != nil {
			return pos, err
		}
	}
	return pos, nil
}

func (p *compositePP) fields() []*Field {
	fss := make([][]*Field, len(p.children))
	for i, ch := range p.children {
		fss[i] = ch.fields()
	}
	return unionFields(fss...)
}
