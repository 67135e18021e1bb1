package tree

import (
	"fmt"

	"github.com/nokaze/tokfmt/token"
)

// NodeKind discriminates the three node variants of a parse-tree notation:
// a rule invocation with children, a terminal token, and a pattern capture.
type NodeKind int

const (
	KindRule NodeKind = iota
	KindTerminal
	KindCapture
)

type Node struct {
	Kind     NodeKind
	Parent   *Node
	Offset   int
	Children []*Node

	// Name is the rule name of a rule node or the label of a capture node.
	Name string

	// Token is the payload of a terminal node.
	Token *token.Token

	// Pattern is the expression of a capture node.
	Pattern string
}

func NewRuleNode(name string, children ...*Node) *Node {
	return &Node{
		Kind:     KindRule,
		Name:     name,
		Children: children,
	}
}

func NewTerminalNode(tok *token.Token) *Node {
	return &Node{
		Kind:  KindTerminal,
		Token: tok,
	}
}

func NewCaptureNode(label string, pattern string) *Node {
	return &Node{
		Kind:    KindCapture,
		Name:    label,
		Pattern: pattern,
	}
}

// Fill hooks up the parent pointers and sibling offsets of the whole tree.
func (n *Node) Fill() *Node {
	for i, c := range n.Children {
		c.Parent = n
		c.Offset = i
		c.Fill()
	}
	return n
}

func (n *Node) path() string {
	if n.Parent == nil {
		return n.label()
	}
	return fmt.Sprintf("%v.[%v]%v", n.Parent.path(), n.Offset, n.label())
}

func (n *Node) label() string {
	switch n.Kind {
	case KindTerminal:
		if n.Token != nil {
			return fmt.Sprintf("kind %v", n.Token.Kind())
		}
		return "<terminal>"
	case KindCapture:
		return "<" + n.Name + ">"
	}
	if n.Name == "" {
		return "<anonymous>"
	}
	return n.Name
}
