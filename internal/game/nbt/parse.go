package nbt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	doubleNoSuffix = regexp.MustCompile(`(?i)^[-+]?(?:[0-9]+[.]|[0-9]*[.][0-9]+)(?:e[-+]?[0-9]+)?$`)
	doubleSuffix   = regexp.MustCompile(`(?i)^[-+]?(?:[0-9]+[.]?|[0-9]*[.][0-9]+)(?:e[-+]?[0-9]+)?d$`)
	floatSuffix    = regexp.MustCompile(`(?i)^[-+]?(?:[0-9]+[.]?|[0-9]*[.][0-9]+)(?:e[-+]?[0-9]+)?f$`)
	byteSuffix     = regexp.MustCompile(`(?i)^[-+]?(?:0|[1-9][0-9]*)b$`)
	longSuffix     = regexp.MustCompile(`(?i)^[-+]?(?:0|[1-9][0-9]*)l$`)
	shortSuffix    = regexp.MustCompile(`(?i)^[-+]?(?:0|[1-9][0-9]*)s$`)
	intNoSuffix    = regexp.MustCompile(`^[-+]?(?:0|[1-9][0-9]*)$`)
)

// SyntaxError describes malformed SNBT.
type SyntaxError struct {
	Msg    string
	Offset int
	Input  string
}

func (e *SyntaxError) Error() string {
	start := e.Offset - 10
	if start < 0 {
		start = 0
	}
	end := e.Offset
	if end > len(e.Input) {
		end = len(e.Input)
	}
	return fmt.Sprintf("nbt: %s at position %d: ...%s<--[HERE]", e.Msg, e.Offset, e.Input[start:end])
}

// Parse reads one tag of any type from SNBT text. Surrounding whitespace is
// allowed; any other trailing data is an error.
func Parse(s string) (Tag, error) {
	r := &reader{input: s}
	r.skipWhitespace()
	tag, err := r.readValue()
	if err != nil {
		return nil, err
	}
	r.skipWhitespace()
	if r.canRead() {
		return nil, r.errorf("unexpected trailing data")
	}
	return tag, nil
}

// ParseCompound reads SNBT text that must hold a compound.
func ParseCompound(s string) (Compound, error) {
	r := &reader{input: s}
	r.skipWhitespace()
	if !r.canRead() || r.peek() != '{' {
		return nil, r.errorf("expected '{'")
	}
	c, err := r.readCompound()
	if err != nil {
		return nil, err
	}
	r.skipWhitespace()
	if r.canRead() {
		return nil, r.errorf("unexpected trailing data")
	}
	return c, nil
}

type reader struct {
	input string
	pos   int
}

func (r *reader) canRead() bool { return r.pos < len(r.input) }

func (r *reader) peek() byte { return r.input[r.pos] }

func (r *reader) peekAt(offset int) (byte, bool) {
	if r.pos+offset >= len(r.input) {
		return 0, false
	}
	return r.input[r.pos+offset], true
}

func (r *reader) skipWhitespace() {
	for r.canRead() {
		switch r.peek() {
		case ' ', '\t', '\n', '\r':
			r.pos++
		default:
			return
		}
	}
}

func (r *reader) errorf(format string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Offset: r.pos, Input: r.input}
}

func (r *reader) expect(c byte) error {
	r.skipWhitespace()
	if !r.canRead() || r.peek() != c {
		return r.errorf("expected '%c'", c)
	}
	r.pos++
	return nil
}

func (r *reader) readValue() (Tag, error) {
	r.skipWhitespace()
	if !r.canRead() {
		return nil, r.errorf("expected value")
	}
	switch r.peek() {
	case '{':
		return r.readCompound()
	case '[':
		if kind, ok := r.peekAt(1); ok {
			if sep, ok := r.peekAt(2); ok && sep == ';' && (kind == 'B' || kind == 'I' || kind == 'L') {
				return r.readArray(kind)
			}
		}
		return r.readList()
	default:
		return r.readPrimitive()
	}
}

func (r *reader) readCompound() (Compound, error) {
	if err := r.expect('{'); err != nil {
		return nil, err
	}
	c := Compound{}
	r.skipWhitespace()
	for r.canRead() && r.peek() != '}' {
		start := r.pos
		key, err := r.readKey()
		if err != nil {
			return nil, err
		}
		if key == "" {
			r.pos = start
			return nil, r.errorf("expected non-empty key")
		}
		if err := r.expect(':'); err != nil {
			return nil, err
		}
		value, err := r.readValue()
		if err != nil {
			return nil, err
		}
		c[key] = value
		if !r.readSeparator() {
			break
		}
		if !r.canRead() {
			return nil, r.errorf("expected key")
		}
	}
	if err := r.expect('}'); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *reader) readList() (List, error) {
	if err := r.expect('['); err != nil {
		return nil, err
	}
	r.skipWhitespace()
	if !r.canRead() {
		return nil, r.errorf("expected value")
	}
	list := List{}
	for r.peek() != ']' {
		start := r.pos
		value, err := r.readValue()
		if err != nil {
			return nil, err
		}
		if len(list) > 0 && value.Type() != list.ElementType() {
			r.pos = start
			return nil, r.errorf("can't insert %s into list of %s", value.Type(), list.ElementType())
		}
		list = append(list, value)
		if !r.readSeparator() {
			break
		}
		if !r.canRead() {
			return nil, r.errorf("expected value")
		}
	}
	if err := r.expect(']'); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *reader) readArray(kind byte) (Tag, error) {
	r.pos += 3 // "[X;"
	r.skipWhitespace()
	var (
		bytes []int8
		ints  []int32
		longs []int64
	)
	for r.canRead() && r.peek() != ']' {
		start := r.pos
		value, err := r.readValue()
		if err != nil {
			return nil, err
		}
		switch v := value.(type) {
		case Byte:
			if kind != 'B' {
				r.pos = start
				return nil, r.errorf("can't insert %s into %s", v.Type(), arrayType(kind))
			}
			bytes = append(bytes, int8(v))
		case Int:
			if kind != 'I' {
				r.pos = start
				return nil, r.errorf("can't insert %s into %s", v.Type(), arrayType(kind))
			}
			ints = append(ints, int32(v))
		case Long:
			if kind != 'L' {
				r.pos = start
				return nil, r.errorf("can't insert %s into %s", v.Type(), arrayType(kind))
			}
			longs = append(longs, int64(v))
		default:
			r.pos = start
			return nil, r.errorf("can't insert %s into %s", value.Type(), arrayType(kind))
		}
		if !r.readSeparator() {
			break
		}
		if !r.canRead() {
			return nil, r.errorf("expected value")
		}
	}
	if err := r.expect(']'); err != nil {
		return nil, err
	}
	switch kind {
	case 'B':
		return ByteArray(nonNil(bytes)), nil
	case 'I':
		return IntArray(nonNil(ints)), nil
	default:
		return LongArray(nonNil(longs)), nil
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func arrayType(kind byte) Type {
	switch kind {
	case 'B':
		return TypeByteArray
	case 'I':
		return TypeIntArray
	default:
		return TypeLongArray
	}
}

func (r *reader) readSeparator() bool {
	r.skipWhitespace()
	if r.canRead() && r.peek() == ',' {
		r.pos++
		r.skipWhitespace()
		return true
	}
	return false
}

func (r *reader) readKey() (string, error) {
	r.skipWhitespace()
	if !r.canRead() {
		return "", r.errorf("expected key")
	}
	if c := r.peek(); c == '"' || c == '\'' {
		return r.readQuoted()
	}
	return r.readUnquoted(), nil
}

func (r *reader) readPrimitive() (Tag, error) {
	r.skipWhitespace()
	if c := r.peek(); c == '"' || c == '\'' {
		s, err := r.readQuoted()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	}
	start := r.pos
	token := r.readUnquoted()
	if token == "" {
		r.pos = start
		return nil, r.errorf("expected value")
	}
	return typedPrimitive(token), nil
}

func (r *reader) readUnquoted() string {
	start := r.pos
	for r.canRead() && isUnquotedChar(r.peek()) {
		r.pos++
	}
	return r.input[start:r.pos]
}

func (r *reader) readQuoted() (string, error) {
	quote := r.peek()
	r.pos++
	var b strings.Builder
	escaped := false
	for r.canRead() {
		c := r.peek()
		r.pos++
		switch {
		case escaped:
			if c != quote && c != '\\' {
				r.pos--
				return "", r.errorf("invalid escape sequence '\\%c' in quoted string", c)
			}
			b.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == quote:
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
	}
	return "", r.errorf("unclosed quoted string")
}

// typedPrimitive decides the tag type of an unquoted token by its shape.
// Numbers that overflow their type fall back to strings.
func typedPrimitive(token string) Tag {
	body := token[:len(token)-1]
	switch {
	case floatSuffix.MatchString(token):
		if v, err := strconv.ParseFloat(body, 32); err == nil {
			return Float(v)
		}
	case byteSuffix.MatchString(token):
		if v, err := strconv.ParseInt(body, 10, 8); err == nil {
			return Byte(v)
		}
	case longSuffix.MatchString(token):
		if v, err := strconv.ParseInt(body, 10, 64); err == nil {
			return Long(v)
		}
	case shortSuffix.MatchString(token):
		if v, err := strconv.ParseInt(body, 10, 16); err == nil {
			return Short(v)
		}
	case intNoSuffix.MatchString(token):
		if v, err := strconv.ParseInt(token, 10, 32); err == nil {
			return Int(v)
		}
	case doubleSuffix.MatchString(token):
		if v, err := strconv.ParseFloat(body, 64); err == nil {
			return Double(v)
		}
	case doubleNoSuffix.MatchString(token):
		if v, err := strconv.ParseFloat(token, 64); err == nil {
			return Double(v)
		}
	case strings.EqualFold(token, "true"):
		return Byte(1)
	case strings.EqualFold(token, "false"):
		return Byte(0)
	}
	return String(token)
}
