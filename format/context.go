package format

import "github.com/nokaze/tokfmt/token"

type binding struct {
	field *Field
	val   fieldValue
}

// parseContext accumulates field bindings over one parse attempt of one
// chain. It is discarded after the attempt resolves to a token or fails.
type parseContext struct {
	bindings []binding
}

func newParseContext() *parseContext {
	return &parseContext{}
}

// bind records a field value. Re-binding a field is permitted only when the
// new value equals the bound one; anything else is a conflict.
func (c *parseContext) bind(input string, pos int, f *Field, v fieldValue) error {
	for _, b := range c.bindings {
		if b.field != f {
			continue
		}
		if b.val.equal(v) {
			return nil
		}
		return parseErrorf(input, pos, "conflicting values for field %v: %v vs %v", f.Name(), b.val, v)
	}
	c.bindings = append(c.bindings, binding{field: f, val: v})
	return nil
}

// fork returns an independent copy used to peek an optional sub-chain
// without mutating the real context.
func (c *parseContext) fork() *parseContext {
	bs := make([]binding, len(c.bindings))
	copy(bs, c.bindings)
	return &parseContext{bindings: bs}
}

// adopt replaces the receiver's bindings with those of a successfully peeked
// fork.
func (c *parseContext) adopt(f *parseContext) {
	c.bindings = f.bindings
}

func (c *parseContext) buildToken() *token.Token {
	b := token.NewBuilder()
	for _, bd := range c.bindings {
		bd.field.resolve(b, bd.val)
	}
	return b.Build()
}
