package identifier

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Identifier
	}{
		{"minecraft:stone", Identifier{"minecraft", "stone"}},
		{"stone", Identifier{"minecraft", "stone"}},
		{":stone", Identifier{"minecraft", "stone"}},
		{"mymod:textures/gui/menu.png", Identifier{"mymod", "textures/gui/menu.png"}},
		{"my-mod.v2:a_b-c", Identifier{"my-mod.v2", "a_b-c"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"minecraft:",
		"Minecraft:stone",
		"minecraft:Stone",
		"mine/craft:stone",
		"minecraft:stone block",
		"a:b:c",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Parse(%q) error = %v, want ErrInvalid", in, err)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	id := MustParse("sqlib:homes/spawn")
	if id.String() != "sqlib:homes/spawn" {
		t.Fatalf("String() = %q", id.String())
	}
	again, err := Parse(id.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if again != id {
		t.Fatalf("round trip = %v, want %v", again, id)
	}
}

func TestIsZero(t *testing.T) {
	if !(Identifier{}).IsZero() {
		t.Fatal("expected zero identifier")
	}
	if MustParse("stone").IsZero() {
		t.Fatal("expected non-zero identifier")
	}
}

func TestMustParsePanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustParse("BAD")
}
