package format

import "sort"

// ParsePosition spans a parse session that may cover multiple successive
// tokens. It carries the cursor, a per-session sequence counter for
// synthesized token indices, and the diagnostics of the deepest failure seen
// so far.
type ParsePosition struct {
	index    int
	seq      int
	errIndex int
	messages []string
}

func NewParsePosition() *ParsePosition {
	return &ParsePosition{
		errIndex: -1,
	}
}

// Index returns the cursor.
func (p *ParsePosition) Index() int {
	return p.index
}

// SetIndex moves the cursor.
func (p *ParsePosition) SetIndex(index int) {
	p.index = index
}

// ErrorIndex returns the deepest failure index recorded, or -1 when no
// failure is recorded.
func (p *ParsePosition) ErrorIndex() int {
	return p.errIndex
}

// Messages returns the diagnostics recorded at the deepest failure index, in
// natural order without duplicates.
func (p *ParsePosition) Messages() []string {
	return p.messages
}

// nextSeq returns the next synthesized sequence index.
func (p *ParsePosition) nextSeq() int {
	seq := p.seq
	p.seq++
	return seq
}

// recordError keeps only diagnostics of the maximal failure index: a deeper
// failure replaces everything recorded so far, a tie is merged in sorted
// order, a shallower failure is discarded.
func (p *ParsePosition) recordError(index int, msgs []string) {
	if index < p.errIndex {
		return
	}
	if index > p.errIndex {
		p.errIndex = index
		p.messages = nil
	}
	for _, msg := range msgs {
		i := sort.SearchStrings(p.messages, msg)
		if i < len(p.messages) && p.messages[i] == msg {
			continue
		}
		p.messages = append(p.messages, "")
		copy(p.messages[i+1:], p.messages[i:])
		p.messages[i] = msg
	}
}

func (p *ParsePosition) clearError() {
	p.errIndex = -1
	p.messages = nil
}
