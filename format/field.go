package format

import (
	"strconv"

	"github.com/nokaze/tokfmt/token"
)

type fieldID int

const (
	fieldKind fieldID = iota
	fieldText
	fieldIndex
	fieldLine
	fieldColumn
	fieldChannel
	fieldStart
	fieldStop
)

// fieldValue is the value of one field binding. Only the text field carries a
// string; every other field is numeric. isStr keeps "" distinguishable from
// an absent string.
type fieldValue struct {
	num   int
	str   string
	isStr bool
}

func numValue(n int) fieldValue {
	return fieldValue{num: n}
}

func strValue(s string) fieldValue {
	return fieldValue{str: s, isStr: true}
}

func (v fieldValue) equal(o fieldValue) bool {
	return v == o
}

func (v fieldValue) String() string {
	if v.isStr {
		return v.str
	}
	return strconv.Itoa(v.num)
}

// Field is a named accessor/resolver pair bound to one attribute of a token
// record. The set of fields is closed; all instances are the package-level
// singletons below.
type Field struct {
	id   fieldID
	name string
}

var (
	FieldKind    = &Field{id: fieldKind, name: "kind"}
	FieldText    = &Field{id: fieldText, name: "text"}
	FieldIndex   = &Field{id: fieldIndex, name: "index"}
	FieldLine    = &Field{id: fieldLine, name: "line"}
	FieldColumn  = &Field{id: fieldColumn, name: "column"}
	FieldChannel = &Field{id: fieldChannel, name: "channel"}
	FieldStart   = &Field{id: fieldStart, name: "start"}
	FieldStop    = &Field{id: fieldStop, name: "stop"}
)

func (f *Field) Name() string {
	return f.name
}

// Value returns the field's value in tok rendered as a string. It exists for
// field-wise comparison and diagnostics outside this package.
func (f *Field) Value(tok *token.Token) string {
	return f.access(tok).String()
}

func (f *Field) access(tok *token.Token) fieldValue {
	switch f.id {
	case fieldKind:
		return numValue(tok.Kind())
	case fieldText:
		return strValue(tok.Text())
	case fieldIndex:
		return numValue(tok.Index())
	case fieldLine:
		return numValue(tok.Line())
	case fieldColumn:
		return numValue(tok.Column())
	case fieldChannel:
		return numValue(tok.Channel())
	case fieldStart:
		return numValue(tok.Start())
	case fieldStop:
		return numValue(tok.Stop())
	}
	return fieldValue{}
}

func (f *Field) resolve(b *token.Builder, v fieldValue) {
	switch f.id {
	case fieldKind:
		b.SetKind(v.num)
	case fieldText:
		b.SetText(v.str)
	case fieldIndex:
		b.SetIndex(v.num)
	case fieldLine:
		b.SetLine(v.num)
	case fieldColumn:
		b.SetColumn(v.num)
	case fieldChannel:
		b.SetChannel(v.num)
	case fieldStart:
		b.SetStart(v.num)
	case fieldStop:
		b.SetStop(v.num)
	}
}

func (f *Field) defaultValue() fieldValue {
	switch f.id {
	case fieldKind:
		return numValue(token.DefaultKind)
	case fieldText:
		return strValue(token.DefaultText)
	case fieldIndex:
		return numValue(token.DefaultIndex)
	case fieldLine:
		return numValue(token.DefaultLine)
	case fieldColumn:
		return numValue(token.DefaultColumn)
	case fieldChannel:
		return numValue(token.DefaultChannel)
	case fieldStart:
		return numValue(token.DefaultStart)
	case fieldStop:
		return numValue(token.DefaultStop)
	}
	return fieldValue{}
}
