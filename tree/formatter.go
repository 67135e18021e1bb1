package tree

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/nokaze/tokfmt/format"
	"github.com/nokaze/tokfmt/token"
)

// Formatter formats tree nodes into the tree notation and parses the
// notation back. It is the tree-level peer of format.Formatter: rule nodes
// render as parenthesized lists, terminal nodes delegate to a token
// formatter, capture nodes render as <label:pattern>.
//
// Like its token-level peer, a Formatter is immutable and safe for
// concurrent use.
type Formatter struct {
	tokenFmt *format.Formatter
}

func NewFormatter(tokenFmt *format.Formatter) *Formatter {
	return &Formatter{
		tokenFmt: tokenFmt,
	}
}

// WithVocabulary rebinds the vocabulary of the underlying token formatter.
// Rebinding the vocabulary already held is a no-op returning the receiver.
func (f *Formatter) WithVocabulary(v token.Vocabulary) *Formatter {
	tf := f.tokenFmt.WithVocabulary(v)
	if tf == f.tokenFmt {
		return f
	}
	return &Formatter{tokenFmt: tf}
}

// Format renders the tree with one node per line, children indented under
// their parent.
func (f *Formatter) Format(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := f.formatNode(&buf, n, 0); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (f *Formatter) formatNode(buf *bytes.Buffer, n *Node, depth int) error {
	for i := 0; i < depth; i++ {
		buf.WriteString("    ")
	}
	switch n.Kind {
	case KindRule:
		buf.WriteString("(")
		if n.Name == "" {
			buf.WriteString("<anonymous>")
		} else {
			buf.WriteString(n.Name)
		}
		for _, c := range n.Children {
			buf.WriteString("\n")
			if err := f.formatNode(buf, c, depth+1); err != nil {
				return err
			}
		}
		buf.WriteString(")")
		return nil
	case KindTerminal:
		out, err := f.tokenFmt.Format(n.Token)
		if err != nil {
			return err
		}
		buf.WriteString(out)
		return nil
	case KindCapture:
		buf.WriteString("<")
		buf.WriteString(n.Name)
		buf.WriteString(":")
		buf.WriteString(escapePattern(n.Pattern))
		buf.WriteString(">")
		return nil
	}
	return fmt.Errorf("unknown node kind: %v", n.Kind)
}

func escapePattern(pattern string) string {
	if !strings.ContainsAny(pattern, `>\`) {
		return pattern
	}
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '>' || pattern[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(pattern[i])
	}
	return b.String()
}

// Parse parses one tree out of input and requires the entire input to be
// consumed.
func (f *Formatter) Parse(input string) (*Node, error) {
	p := &treeParser{
		tokenFmt: f.tokenFmt,
		input:    input,
	}
	n, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos != len(input) {
		return nil, p.errorf(p.pos, "trailing unparsed text")
	}
	return n.Fill(), nil
}

type treeParser struct {
	tokenFmt *format.Formatter
	input    string
	pos      int
}

func (p *treeParser) errorf(index int, msg string, args ...interface{}) error {
	return &format.ParseError{
		Input:    p.input,
		Index:    index,
		Messages: []string{fmt.Sprintf(msg, args...)},
	}
}

func (p *treeParser) skipSpaces() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *treeParser) parseNode() (*Node, error) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return nil, p.errorf(p.pos, "expected a node")
	}
	switch p.input[p.pos] {
	case '(':
		return p.parseRule()
	case '<':
		return p.parseCapture()
	}
	return p.parseTerminal()
}

func (p *treeParser) parseRule() (*Node, error) {
	p.pos++
	name := p.readName()
	if name == "" {
		return nil, p.errorf(p.pos, "expected a rule name")
	}
	var children []*Node
	for {
		p.skipSpaces()
		if p.pos >= len(p.input) {
			return nil, p.errorf(p.pos, "unclosed rule node %v", name)
		}
		if p.input[p.pos] == ')' {
			p.pos++
			return NewRuleNode(name, children...), nil
		}
		c, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
}

func (p *treeParser) readName() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

func (p *treeParser) parseCapture() (*Node, error) {
	start := p.pos
	p.pos++
	label := p.readName()
	if label == "" {
		return nil, p.errorf(p.pos, "expected a capture label")
	}
	if p.pos >= len(p.input) || p.input[p.pos] != ':' {
		return nil, p.errorf(p.pos, "expected ':' after capture label %v", label)
	}
	p.pos++
	var pattern strings.Builder
	for {
		if p.pos >= len(p.input) {
			return nil, p.errorf(start, "unclosed capture node %v", label)
		}
		c := p.input[p.pos]
		if c == '\\' && p.pos+1 < len(p.input) {
			pattern.WriteByte(p.input[p.pos+1])
			p.pos += 2
			continue
		}
		if c == '>' {
			p.pos++
			return NewCaptureNode(label, pattern.String()), nil
		}
		pattern.WriteByte(c)
		p.pos++
	}
}

func (p *treeParser) parseTerminal() (*Node, error) {
	pos := format.NewParsePosition()
	pos.SetIndex(p.pos)
	tok := p.tokenFmt.ParseAt(p.input, pos)
	if tok == nil {
		index := pos.ErrorIndex()
		if index < 0 {
			index = p.pos
		}
		msgs := pos.Messages()
		if len(msgs) == 0 {
			msgs = []string{"expected a terminal"}
		}
		return nil, &format.ParseError{
			Input:    p.input,
			Index:    index,
			Messages: msgs,
		}
	}
	p.pos = pos.Index()
	return NewTerminalNode(tok), nil
}
