// Package nbt implements the named binary tag tree used for item and entity
// data, in its stringified (SNBT) text form.
//
// Tags are plain Go values: numeric tags are named integer and float types,
// Compound is a map and List is a slice, so trees can be built with literals
// and compared with reflect.DeepEqual.
package nbt

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Type identifies a tag kind; values match the binary tag ids.
type Type byte

const (
	TypeEnd Type = iota
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeByteArray
	TypeString
	TypeList
	TypeCompound
	TypeIntArray
	TypeLongArray
)

var typeNames = [...]string{
	TypeEnd:       "TAG_End",
	TypeByte:      "TAG_Byte",
	TypeShort:     "TAG_Short",
	TypeInt:       "TAG_Int",
	TypeLong:      "TAG_Long",
	TypeFloat:     "TAG_Float",
	TypeDouble:    "TAG_Double",
	TypeByteArray: "TAG_Byte_Array",
	TypeString:    "TAG_String",
	TypeList:      "TAG_List",
	TypeCompound:  "TAG_Compound",
	TypeIntArray:  "TAG_Int_Array",
	TypeLongArray: "TAG_Long_Array",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "UNKNOWN_" + strconv.Itoa(int(t))
}

// Tag is one node of a tree.
type Tag interface {
	Type() Type
	writeSNBT(b *strings.Builder)
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	String    string
	ByteArray []int8
	IntArray  []int32
	LongArray []int64
	// List holds tags of a single type.
	List []Tag
	// Compound maps names to tags.
	Compound map[string]Tag
)

func (Byte) Type() Type      { return TypeByte }
func (Short) Type() Type     { return TypeShort }
func (Int) Type() Type       { return TypeInt }
func (Long) Type() Type      { return TypeLong }
func (Float) Type() Type     { return TypeFloat }
func (Double) Type() Type    { return TypeDouble }
func (String) Type() Type    { return TypeString }
func (ByteArray) Type() Type { return TypeByteArray }
func (IntArray) Type() Type  { return TypeIntArray }
func (LongArray) Type() Type { return TypeLongArray }
func (List) Type() Type      { return TypeList }
func (Compound) Type() Type  { return TypeCompound }

// ElementType returns the type shared by the list's elements, or TypeEnd
// for an empty list.
func (l List) ElementType() Type {
	if len(l) == 0 {
		return TypeEnd
	}
	return l[0].Type()
}

// Keys returns the compound's names in sorted order.
func (c Compound) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bool reads a byte flag; missing or non-byte entries are false.
func (c Compound) Bool(key string) bool {
	b, ok := c[key].(Byte)
	return ok && b != 0
}

// Format returns tag in SNBT form. Compound keys are written in sorted order
// so equal trees always format identically.
func Format(tag Tag) string {
	var b strings.Builder
	tag.writeSNBT(&b)
	return b.String()
}

func (v Byte) String() string      { return Format(v) }
func (v Short) String() string     { return Format(v) }
func (v Int) String() string       { return Format(v) }
func (v Long) String() string      { return Format(v) }
func (v Float) String() string     { return Format(v) }
func (v Double) String() string    { return Format(v) }
func (v ByteArray) String() string { return Format(v) }
func (v IntArray) String() string  { return Format(v) }
func (v LongArray) String() string { return Format(v) }
func (v List) String() string      { return Format(v) }
func (v Compound) String() string  { return Format(v) }

// Validate reports trees that Format can write but Parse would not read back:
// lists mixing element types, empty compound keys, nil tags and non-finite
// floats.
func Validate(tag Tag) error {
	return validate(tag, "")
}

func validate(tag Tag, path string) error {
	switch v := tag.(type) {
	case nil:
		return fmt.Errorf("nbt: nil tag at %q", path)
	case Float:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("nbt: non-finite float at %q", path)
		}
	case Double:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("nbt: non-finite double at %q", path)
		}
	case List:
		for i, e := range v {
			elemPath := fmt.Sprintf("%s[%d]", path, i)
			if e == nil {
				return fmt.Errorf("nbt: nil tag at %q", elemPath)
			}
			if e.Type() != v.ElementType() {
				return fmt.Errorf("nbt: can't insert %s into list of %s at %q", e.Type(), v.ElementType(), elemPath)
			}
			if err := validate(e, elemPath); err != nil {
				return err
			}
		}
	case Compound:
		for _, k := range v.Keys() {
			if k == "" {
				return fmt.Errorf("nbt: empty key in compound at %q", path)
			}
			if err := validate(v[k], path+"."+k); err != nil {
				return err
			}
		}
	}
	return nil
}
