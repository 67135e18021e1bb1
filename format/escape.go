package format

import "bytes"

// The escape map of the text notation. Encoding substitutes the raw character
// with a backslash pair; decoding accepts exactly the codes listed here.
// The punctuation entries exist so that a lexeme containing a delimiter of
// the surrounding notation does not terminate a text capture early.
var escapeDecode = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'\'': '\'',
	'(':  '(',
	')':  ')',
	'@':  '@',
	':':  ':',
}

var escapeEncode = map[byte]byte{
	'\n': 'n',
	'\t': 't',
	'\r': 'r',
	'\\': '\\',
	'\'': '\'',
	'(':  '(',
	')':  ')',
	'@':  '@',
	':':  ':',
}

func encodeText(buf *bytes.Buffer, text string) {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if code, ok := escapeEncode[c]; ok {
			buf.WriteByte('\\')
			buf.WriteByte(code)
			continue
		}
		buf.WriteByte(c)
	}
}
