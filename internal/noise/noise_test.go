package noise

import (
	"errors"
	"math"
	"testing"

	"github.com/Faultbox/meshgen/internal/errdefs"
)

func defaultParams(kind Kind) Params {
	return Params{
		Kind:        kind,
		Width:       32,
		Height:      24,
		Scale:       10,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
		Seed:        42,
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			a, err := Generate(defaultParams(kind))
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			b, err := Generate(defaultParams(kind))
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			for i := range a.Data {
				if math.Float64bits(a.Data[i]) != math.Float64bits(b.Data[i]) {
					t.Fatalf("sample %d differs: %v != %v", i, a.Data[i], b.Data[i])
				}
			}
		})
	}
}

func TestGenerateRangeAndVariation(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			f, err := Generate(defaultParams(kind))
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if len(f.Data) != 32*24 {
				t.Fatalf("expected %d samples, got %d", 32*24, len(f.Data))
			}
			lo, hi := f.MinMax()
			if lo < -1.0001 || hi > 1.0001 {
				t.Errorf("field range [%v, %v] outside [-1, 1]", lo, hi)
			}
			if lo == hi {
				t.Error("field is constant")
			}
			for i, v := range f.Data {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("sample %d is %v", i, v)
				}
			}
		})
	}
}

func TestGenerateSeedChangesField(t *testing.T) {
	p := defaultParams(Simplex)
	a, _ := Generate(p)
	p.Seed++
	b, _ := Generate(p)

	same := true
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical fields")
	}
}

func TestGenerateScenarioGrid(t *testing.T) {
	p := Params{
		Kind:        Perlin,
		Width:       15,
		Height:      15,
		Scale:       100,
		Octaves:     5,
		Persistence: 5,
		Lacunarity:  5,
		Seed:        42,
	}
	a, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate(p)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if a.Width != 15 || a.Height != 15 {
		t.Fatalf("expected 15x15, got %dx%d", a.Width, a.Height)
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("scenario grid not deterministic at %d", i)
		}
	}
}

func TestGenerateInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"zero scale", func(p *Params) { p.Scale = 0 }},
		{"negative scale", func(p *Params) { p.Scale = -3 }},
		{"NaN scale", func(p *Params) { p.Scale = math.NaN() }},
		{"zero octaves", func(p *Params) { p.Octaves = 0 }},
		{"negative octaves", func(p *Params) { p.Octaves = -1 }},
		{"zero width", func(p *Params) { p.Width = 0 }},
		{"zero persistence", func(p *Params) { p.Persistence = 0 }},
		{"zero lacunarity", func(p *Params) { p.Lacunarity = 0 }},
		{"unknown kind", func(p *Params) { p.Kind = Kind(9) }},
		{"oversized field", func(p *Params) { p.Width, p.Height = 1<<20, 1<<20 }},
		{"overflowing field size", func(p *Params) { p.Width, p.Height = math.MaxInt/2, 3 }},
		{"lacunarity overflows frequency", func(p *Params) { p.Octaves, p.Lacunarity = 3, 1e200 }},
		{"tiny scale overflows frequency", func(p *Params) { p.Scale = 1e-320 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultParams(Perlin)
			tt.modify(&p)
			f, err := Generate(p)
			if !errors.Is(err, errdefs.ErrInvalidParameter) {
				t.Fatalf("expected ErrInvalidParameter, got %v", err)
			}
			if f != nil {
				t.Error("expected nil field on error")
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"Perlin", Perlin},
		{"simplex", Simplex},
		{" VALUE ", Value},
		{"Cellular", Cellular},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Errorf("ParseKind(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseKind("Worley"); !errors.Is(err, errdefs.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestKindText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("cellular")); err != nil {
		t.Fatal(err)
	}
	text, err := k.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "Cellular" {
		t.Errorf("MarshalText = %q, want Cellular", text)
	}
}

func TestCellularSourceRange(t *testing.T) {
	src := NewSource(Cellular, 7)
	for i := 0; i < 5000; i++ {
		x := float64(i)*0.37 - 500
		y := float64(i)*0.53 - 500
		v := src.Eval2(x, y)
		if v < -1 || v > 1 {
			t.Fatalf("Cellular(%f, %f) = %f, out of [-1,1]", x, y, v)
		}
	}
}

func TestValueSourceMatchesLattice(t *testing.T) {
	src := NewSource(Value, 3)
	for _, p := range [][2]int64{{0, 0}, {4, -2}, {-7, 9}} {
		got := src.Eval2(float64(p[0]), float64(p[1]))
		want := lattice(p[0], p[1], 3)
		if got != want {
			t.Errorf("Value(%d, %d) = %v, want lattice value %v", p[0], p[1], got, want)
		}
	}
}
