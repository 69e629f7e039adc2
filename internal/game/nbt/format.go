package nbt

import (
	"strconv"
	"strings"
)

func (v Byte) writeSNBT(b *strings.Builder) {
	b.WriteString(strconv.FormatInt(int64(v), 10))
	b.WriteByte('b')
}

func (v Short) writeSNBT(b *strings.Builder) {
	b.WriteString(strconv.FormatInt(int64(v), 10))
	b.WriteByte('s')
}

func (v Int) writeSNBT(b *strings.Builder) {
	b.WriteString(strconv.FormatInt(int64(v), 10))
}

func (v Long) writeSNBT(b *strings.Builder) {
	b.WriteString(strconv.FormatInt(int64(v), 10))
	b.WriteByte('L')
}

func (v Float) writeSNBT(b *strings.Builder) {
	b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	b.WriteByte('f')
}

func (v Double) writeSNBT(b *strings.Builder) {
	b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 64))
	b.WriteByte('d')
}

func (v String) writeSNBT(b *strings.Builder) {
	b.WriteString(Quote(string(v)))
}

func (v ByteArray) writeSNBT(b *strings.Builder) {
	b.WriteString("[B;")
	for i, e := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(e), 10))
		b.WriteByte('B')
	}
	b.WriteByte(']')
}

func (v IntArray) writeSNBT(b *strings.Builder) {
	b.WriteString("[I;")
	for i, e := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(e), 10))
	}
	b.WriteByte(']')
}

func (v LongArray) writeSNBT(b *strings.Builder) {
	b.WriteString("[L;")
	for i, e := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(e, 10))
		b.WriteByte('L')
	}
	b.WriteByte(']')
}

func (v List) writeSNBT(b *strings.Builder) {
	b.WriteByte('[')
	for i, e := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		e.writeSNBT(b)
	}
	b.WriteByte(']')
}

func (v Compound) writeSNBT(b *strings.Builder) {
	b.WriteByte('{')
	for i, k := range v.Keys() {
		if i > 0 {
			b.WriteByte(',')
		}
		if isSimpleKey(k) {
			b.WriteString(k)
		} else {
			b.WriteString(Quote(k))
		}
		b.WriteByte(':')
		v[k].writeSNBT(b)
	}
	b.WriteByte('}')
}

// Quote wraps s in double quotes, or in single quotes when s contains a
// double quote before any single quote. Backslashes and the chosen quote are
// escaped.
func Quote(s string) string {
	var quote byte
	var body strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			body.WriteByte('\\')
		case '"', '\'':
			if quote == 0 {
				if c == '"' {
					quote = '\''
				} else {
					quote = '"'
				}
			}
			if c == quote {
				body.WriteByte('\\')
			}
		}
		body.WriteByte(c)
	}
	if quote == 0 {
		quote = '"'
	}
	return string(quote) + body.String() + string(quote)
}

func isSimpleKey(k string) bool {
	if k == "" {
		return false
	}
	for i := 0; i < len(k); i++ {
		if !isUnquotedChar(k[i]) {
			return false
		}
	}
	return true
}

func isUnquotedChar(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
		c == '_' || c == '-' || c == '.' || c == '+'
}
