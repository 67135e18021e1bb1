package tree

import "fmt"

// WildcardRuleName matches any rule name on the expected side of a diff.
const WildcardRuleName = "_"

type NodeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newNodeDiff(expected, actual *Node, message string) *NodeDiff {
	return &NodeDiff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

// Diff compares two trees structurally and returns one entry per mismatching
// node pair. Both trees must have been filled.
func Diff(expected, actual *Node) []*NodeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	if expected.Kind != actual.Kind {
		msg := fmt.Sprintf("unexpected node variant: expected %v but got %v", expected.label(), actual.label())
		return []*NodeDiff{
			newNodeDiff(expected, actual, msg),
		}
	}
	switch expected.Kind {
	case KindTerminal:
		if expected.Token.Kind() != actual.Token.Kind() {
			msg := fmt.Sprintf("unexpected kind: expected %v but got %v", expected.Token.Kind(), actual.Token.Kind())
			return []*NodeDiff{
				newNodeDiff(expected, actual, msg),
			}
		}
		if expected.Token.Text() != actual.Token.Text() {
			msg := fmt.Sprintf("unexpected lexeme: expected '%v' but got '%v'", expected.Token.Text(), actual.Token.Text())
			return []*NodeDiff{
				newNodeDiff(expected, actual, msg),
			}
		}
		return nil
	case KindCapture:
		if expected.Name != actual.Name || expected.Pattern != actual.Pattern {
			msg := fmt.Sprintf("unexpected capture: expected <%v:%v> but got <%v:%v>",
				expected.Name, expected.Pattern, actual.Name, actual.Pattern)
			return []*NodeDiff{
				newNodeDiff(expected, actual, msg),
			}
		}
		return nil
	}

	// The wildcard name matches any rule.
	if expected.Name != WildcardRuleName && actual.Name != expected.Name {
		msg := fmt.Sprintf("unexpected rule: expected '%v' but got '%v'", expected.Name, actual.Name)
		return []*NodeDiff{
			newNodeDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*NodeDiff{
			newNodeDiff(expected, actual, msg),
		}
	}
	var diffs []*NodeDiff
	for i, exp := range expected.Children {
		if ds := Diff(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}
