package format

import (
	"fmt"
	"strings"
)

// FormatError reports that a component could not render a token: a strict
// field at its default, a kind with no vocabulary entry, or the like. A
// formatter treats it as control flow while alternative chains remain.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return e.Msg
}

func formatErrorf(format string, args ...interface{}) *FormatError {
	return &FormatError{
		Msg: fmt.Sprintf(format, args...),
	}
}

// ParseError reports that an input does not match. Index is the 0-based
// position of the deepest failure; Messages holds the diagnostics collected
// at that depth in natural order.
type ParseError struct {
	Input    string
	Index    int
	Messages []string
}

func parseErrorf(input string, index int, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Input:    input,
		Index:    index,
		Messages: []string{fmt.Sprintf(format, args...)},
	}
}

// Position returns the 1-based line and column of the failure within Input.
func (e *ParseError) Position() (int, int) {
	line := 1
	col := 1
	for i := 0; i < e.Index && i < len(e.Input); i++ {
		if e.Input[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

func (e *ParseError) Error() string {
	var b strings.Builder
	line, col := e.Position()
	fmt.Fprintf(&b, "%v:%v: parse error at index %v", line, col, e.Index)
	for _, msg := range e.Messages {
		fmt.Fprintf(&b, ": %v", msg)
	}

	// Echo the offending line with the failure position marked.
	start := strings.LastIndexByte(e.Input[:min(e.Index, len(e.Input))], '\n') + 1
	end := strings.IndexByte(e.Input[start:], '\n')
	if end < 0 {
		end = len(e.Input)
	} else {
		end += start
	}
	fmt.Fprintf(&b, "\n    %v\n    %v^", e.Input[start:end], strings.Repeat(" ", e.Index-start))

	return b.String()
}
