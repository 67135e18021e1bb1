package token

const (
	// EOF is the reserved kind of the end-of-stream token.
	EOF = -1

	// EOFText is the text every EOF token carries.
	EOFText = "<EOF>"

	// DefaultChannel is the channel ordinary tokens belong to.
	DefaultChannel = 0

	// HiddenChannel receives tokens a lexical specification marks as hidden.
	HiddenChannel = 1
)

// Default (unset) values per field. A formatter component in strict mode
// refuses to render a field still holding its default.
const (
	DefaultKind    = 0
	DefaultText    = ""
	DefaultIndex   = -1
	DefaultLine    = -1
	DefaultColumn  = -1
	DefaultStart   = -1
	DefaultStop    = -1
	defaultChannel = DefaultChannel
)

// Token is an immutable token record. It is constructed via a Builder and
// never mutated afterwards.
type Token struct {
	kind    int
	text    string
	index   int
	line    int
	column  int
	channel int
	start   int
	stop    int
}

func (t *Token) Kind() int    { return t.kind }
func (t *Token) Text() string { return t.text }
func (t *Token) Index() int   { return t.index }
func (t *Token) Line() int    { return t.line }
func (t *Token) Column() int  { return t.column }
func (t *Token) Channel() int { return t.channel }
func (t *Token) Start() int   { return t.start }
func (t *Token) Stop() int    { return t.stop }

// WithIndex returns a copy of t carrying the given sequence index. It exists
// for list parsing, which synthesizes indices when a notation omits them.
func (t *Token) WithIndex(index int) *Token {
	c := *t
	c.index = index
	return &c
}

// Builder accumulates field values and materializes a Token. A Builder is a
// single-use object; Build must be called at most once.
type Builder struct {
	tok Token
}

func NewBuilder() *Builder {
	return &Builder{
		tok: Token{
			kind:    DefaultKind,
			text:    DefaultText,
			index:   DefaultIndex,
			line:    DefaultLine,
			column:  DefaultColumn,
			channel: defaultChannel,
			start:   DefaultStart,
			stop:    DefaultStop,
		},
	}
}

func (b *Builder) SetKind(kind int) *Builder {
	b.tok.kind = kind
	return b
}

func (b *Builder) SetText(text string) *Builder {
	b.tok.text = text
	return b
}

func (b *Builder) SetIndex(index int) *Builder {
	b.tok.index = index
	return b
}

func (b *Builder) SetLine(line int) *Builder {
	b.tok.line = line
	return b
}

func (b *Builder) SetColumn(column int) *Builder {
	b.tok.column = column
	return b
}

func (b *Builder) SetChannel(channel int) *Builder {
	b.tok.channel = channel
	return b
}

func (b *Builder) SetStart(start int) *Builder {
	b.tok.start = start
	return b
}

func (b *Builder) SetStop(stop int) *Builder {
	b.tok.stop = stop
	return b
}

func (b *Builder) Build() *Token {
	tok := b.tok
	return &tok
}
