package token

// Vocabulary maps a token kind to its display names. A kind may have a
// symbolic name (an identifier like ID), a literal name (a quoted lexeme like
// '+'), both, or neither. Lookups outside [0, MaxKind] return "", except that
// SymbolicName(EOF) is always "EOF".
type Vocabulary interface {
	MaxKind() int
	SymbolicName(kind int) string
	LiteralName(kind int) string
}

type vocabulary struct {
	symbolic []string
	literal  []string
}

// NewVocabulary builds a vocabulary over kinds [0, len(symbolic)-1]. The
// literal slice may be shorter than the symbolic one; missing entries mean
// the kind has no literal name.
func NewVocabulary(symbolic []string, literal []string) Vocabulary {
	return &vocabulary{
		symbolic: symbolic,
		literal:  literal,
	}
}

func (v *vocabulary) MaxKind() int {
	return len(v.symbolic) - 1
}

func (v *vocabulary) SymbolicName(kind int) string {
	if kind == EOF {
		return "EOF"
	}
	if kind < 0 || kind >= len(v.symbolic) {
		return ""
	}
	return v.symbolic[kind]
}

func (v *vocabulary) LiteralName(kind int) string {
	if kind < 0 || kind >= len(v.literal) {
		return ""
	}
	return v.literal[kind]
}
