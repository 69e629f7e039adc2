package nbt

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		want string
	}{
		{"byte", Byte(-3), "-3b"},
		{"short", Short(300), "300s"},
		{"int", Int(42), "42"},
		{"long", Long(-9000000000), "-9000000000L"},
		{"float", Float(1.5), "1.5f"},
		{"whole float", Float(2), "2f"},
		{"double", Double(0.25), "0.25d"},
		{"string", String("hello"), `"hello"`},
		{"string with double quote", String(`say "hi"`), `'say "hi"'`},
		{"string with both quotes", String(`it's "x"`), `"it's \"x\""`},
		{"string with backslash", String(`a\b`), `"a\\b"`},
		{"byte array", ByteArray{1, -2}, "[B;1B,-2B]"},
		{"int array", IntArray{1, 2, 3}, "[I;1,2,3]"},
		{"long array", LongArray{7}, "[L;7L]"},
		{"empty list", List{}, "[]"},
		{"list", List{Int(1), Int(2)}, "[1,2]"},
		{"compound sorted keys", Compound{"b": Int(2), "a": Byte(1)}, "{a:1b,b:2}"},
		{"compound quoted key", Compound{"display name": String("x")}, `{"display name":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.tag); got != tt.want {
				t.Fatalf("Format() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParsePrimitives(t *testing.T) {
	tests := []struct {
		in   string
		want Tag
	}{
		{"1b", Byte(1)},
		{"-128B", Byte(-128)},
		{"12s", Short(12)},
		{"42", Int(42)},
		{"+7", Int(7)},
		{"9000000000l", Long(9000000000)},
		{"1.5f", Float(1.5)},
		{"3F", Float(3)},
		{"2.5", Double(2.5)},
		{".5", Double(0.5)},
		{"4d", Double(4)},
		{"1.0e3d", Double(1000)},
		{"true", Byte(1)},
		{"FALSE", Byte(0)},
		{"stone", String("stone")},
		{"minecraft.stone", String("minecraft.stone")},
		{"1e3", String("1e3")},
		{"300b", String("300b")},
		{"99999999999", String("99999999999")},
		{`"quoted \"value\""`, String(`quoted "value"`)},
		{`'single "quoted"'`, String(`single "quoted"`)},
		{`'it\'s'`, String("it's")},
		{`"back\\slash"`, String(`back\slash`)},
		{"  42  ", Int(42)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseStructures(t *testing.T) {
	in := `{
		id: "minecraft:diamond_sword",
		Count: 1b,
		tag: {
			Damage: 12,
			Enchantments: [{id: "minecraft:sharpness", lvl: 5s}, {id: "minecraft:unbreaking", lvl: 3s}],
			"display name": 'Blade of "Doom"',
			Uses: [L; 1L, 2L],
			Seeds: [I;],
			Flags: [B; 1b, 0b],
		},
		Pos: [1.5d, 64.0d, -3.25d],
	}`
	want := Compound{
		"id":    String("minecraft:diamond_sword"),
		"Count": Byte(1),
		"tag": Compound{
			"Damage": Int(12),
			"Enchantments": List{
				Compound{"id": String("minecraft:sharpness"), "lvl": Short(5)},
				Compound{"id": String("minecraft:unbreaking"), "lvl": Short(3)},
			},
			"display name": String(`Blade of "Doom"`),
			"Uses":         LongArray{1, 2},
			"Seeds":        IntArray{},
			"Flags":        ByteArray{1, 0},
		},
		"Pos": List{Double(1.5), Double(64), Double(-3.25)},
	}

	got, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse() = %v, want %v", got, want)
	}

	compound, err := ParseCompound(in)
	if err != nil {
		t.Fatalf("ParseCompound: %v", err)
	}
	if !compound.Bool("Count") {
		t.Fatal("expected Count flag to read as true")
	}
	if compound.Bool("missing") {
		t.Fatal("expected missing flag to read as false")
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	trees := []Tag{
		Byte(0),
		Short(-32768),
		Int(-2147483648),
		Long(9223372036854775807),
		Float(0.1),
		Float(3.4e38),
		Double(-1e-300),
		Double(1e21),
		String(""),
		String(`mixed 'single' and "double" \ quotes`),
		ByteArray{},
		IntArray{-1, 0, 1},
		LongArray{-9223372036854775808},
		List{},
		List{String("a"), String("b")},
		List{List{Int(1)}, List{}},
		Compound{},
		Compound{
			"nested": Compound{"deep": Compound{"value": Double(2.5)}},
			"list":   List{Compound{"k": Byte(1)}},
			"+weird-key.ok_": Long(1),
			"needs quoting!": String("yes"),
		},
	}
	for _, tree := range trees {
		text := Format(tree)
		t.Run(text, func(t *testing.T) {
			got, err := Parse(text)
			if err != nil {
				t.Fatalf("Parse(%s): %v", text, err)
			}
			if !reflect.DeepEqual(got, tree) {
				t.Fatalf("round trip = %#v, want %#v", got, tree)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"{",
		"{a:1",
		"{a 1}",
		"{:1}",
		`{"":1}`,
		"[1,2b]",
		"[1,",
		"[B;1,2]",
		"[I;1b]",
		"[L;1]",
		`"unterminated`,
		`"bad \n escape"`,
		"{a:1} trailing",
		"1 2",
		"[",
		"{a:}",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Parse(%q) error = %v, want *SyntaxError", in, err)
			}
			if syntaxErr.Error() == "" {
				t.Fatal("expected error message")
			}
		})
	}
}

func TestParseCompoundRejectsOtherTypes(t *testing.T) {
	for _, in := range []string{"1", "[1]", `"text"`, "{a:1}x"} {
		if _, err := ParseCompound(in); err == nil {
			t.Fatalf("ParseCompound(%q) expected error", in)
		}
	}
}

func TestTrailingCommaAllowed(t *testing.T) {
	got, err := Parse("{a:[1,2,],}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Compound{"a": List{Int(1), Int(2)}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse() = %v, want %v", got, want)
	}
}

func TestTypeString(t *testing.T) {
	if got := TypeCompound.String(); got != "TAG_Compound" {
		t.Fatalf("String() = %q", got)
	}
	if got := Type(99).String(); got != "UNKNOWN_99" {
		t.Fatalf("String() = %q", got)
	}
	if got := (List{}).ElementType(); got != TypeEnd {
		t.Fatalf("ElementType() = %v, want %v", got, TypeEnd)
	}
}

func TestValidate(t *testing.T) {
	valid := []Tag{
		Int(1),
		List{},
		List{Int(1), Int(2)},
		Compound{"a": List{Compound{"b": String("x")}, Compound{}}},
	}
	for _, tag := range valid {
		if err := Validate(tag); err != nil {
			t.Fatalf("Validate(%v) = %v, want nil", tag, err)
		}
	}

	invalid := []struct {
		name string
		tag  Tag
	}{
		{"nil", nil},
		{"mixed list", List{Int(1), String("a")}},
		{"nested mixed list", Compound{"a": List{List{Int(1)}, Int(2)}}},
		{"nil list element", List{nil}},
		{"nil compound value", Compound{"a": nil}},
		{"empty key", Compound{"": Int(1)}},
		{"nan float", Float(float32(math.NaN()))},
		{"infinite double", Compound{"d": Double(math.Inf(1))}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.tag); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidTreesParseBack(t *testing.T) {
	tag := Compound{"items": List{Compound{"id": String("minecraft:stone"), "n": Byte(3)}}}
	if err := Validate(tag); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	got, err := Parse(Format(tag))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(got, tag) {
		t.Fatalf("Parse(Format()) = %v, want %v", got, tag)
	}
}
