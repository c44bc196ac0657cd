package config

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/gogpu/gg"

	"primal/internal/compose"
	"primal/internal/spiral"
)

func TestBind(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("primal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.Bind(fs)
	err := fs.Parse([]string{
		"-n", "500", "-variant", "polar", "-palette", "DARK",
		"-layers", "grid,primes,labels", "-zoom", "3", "-export", "out.png",
		"-color", "primes=#ff0000, grid=333",
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Bound != 500 || c.Variant != spiral.Polar || c.Palette != "dark" || c.Zoom != 3 || c.Export != "out.png" {
		t.Errorf("parsed %+v", c)
	}
	want := [compose.NumLayers]bool{compose.Grid: true, compose.Primes: true, compose.Labels: true}
	if c.Layers != want {
		t.Errorf("layers = %v, want %v", c.Layers, want)
	}
	if got := FormatColors(c.Colors); got != "grid=#333,primes=#FF0000" {
		t.Errorf("colors = %q", got)
	}
}

func TestBindRejects(t *testing.T) {
	for _, args := range [][]string{
		{"-variant", "hex"},
		{"-palette", "neon"},
		{"-layers", "primes,stars"},
		{"-color", "primes=red"},
		{"-color", "stars=#FFF"},
		{"-color", "primes"},
		{"-color", "grid=#12345"},
	} {
		c := Default()
		fs := flag.NewFlagSet("primal", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		c.Bind(fs)
		if err := fs.Parse(args); err == nil {
			t.Errorf("Parse(%q) succeeded", args)
		}
	}
}

func TestAutoUnit(t *testing.T) {
	tests := []struct {
		layers string
		want   float64
	}{
		{"primes", UnitPrimes},
		{"background,primes", UnitPrimes},
		{"none", UnitPrimes},
		{"grid", UnitLines},
		{"path,primes", UnitLines},
		{"labels", UnitLabels},
		{"all", UnitLabels},
	}
	for _, tt := range tests {
		layers, err := ParseLayers(tt.layers)
		if err != nil {
			t.Fatal(err)
		}
		if got := AutoUnit(layers); got != tt.want {
			t.Errorf("AutoUnit(%s) = %v, want %v", tt.layers, got, tt.want)
		}
	}
}

func TestResolvedUnitFits(t *testing.T) {
	for _, v := range []spiral.Variant{spiral.Square, spiral.Polar} {
		for _, n := range []int{0, 1, 10, 10000, 1_000_000, 50_000_000} {
			c := Default()
			c.Variant = v
			c.Bound = n
			c.Layers, _ = ParseLayers("all")
			rc := c.Snapshot()
			if err := rc.Validate(); err != nil {
				t.Errorf("%v n=%d unit=%v: %v", v, n, rc.Unit, err)
			}
			if rc.Unit > UnitLabels {
				t.Errorf("%v n=%d: unit %v above the auto size", v, n, rc.Unit)
			}
		}
	}
}

func TestBoundAboveCapRejected(t *testing.T) {
	for _, v := range []spiral.Variant{spiral.Square, spiral.Polar} {
		for _, n := range []int{compose.MaxBound + 1, 999_999_999_999} {
			c := Default()
			c.Variant = v
			c.Bound = n
			if err := c.Snapshot().Validate(); !errors.Is(err, compose.ErrTooLarge) {
				t.Errorf("%v n=%d: Validate() = %v, want ErrTooLarge", v, n, err)
			}
		}
		c := Default()
		c.Variant = v
		c.Bound = compose.MaxBound
		if err := c.Snapshot().Validate(); err != nil {
			t.Errorf("%v n=%d: %v", v, c.Bound, err)
		}
	}
}

func TestExplicitUnitWins(t *testing.T) {
	c := Default()
	c.Unit = 3.5
	c.Layers, _ = ParseLayers("labels")
	if got := c.Snapshot().Unit; got != 3.5 {
		t.Fatalf("unit = %v, want 3.5", got)
	}
}

func TestSnapshot(t *testing.T) {
	c := Default()
	c.Palette = "mono"
	c.Toggle(compose.Grid)
	rc := c.Snapshot()
	if rc.Bound != DefaultBound || rc.Unit != UnitLines {
		t.Fatalf("snapshot %+v", rc)
	}
	if !rc.Enabled(compose.Grid) || !rc.Enabled(compose.Primes) || rc.Enabled(compose.Labels) {
		t.Errorf("layers not copied: %+v", rc.Styles)
	}
	if rc.Styles[compose.Background].Color != gg.Hex("#FFFFFF") {
		t.Errorf("background = %v", rc.Styles[compose.Background].Color)
	}
	if w := rc.Styles[compose.Grid].Width; w != UnitLines/10.0 {
		t.Errorf("grid width = %v", w)
	}
}

func TestSnapshotUnknownPalette(t *testing.T) {
	c := Default()
	c.Palette = "nope"
	if got := c.Snapshot().Styles[compose.Path].Color; got != Palettes[0].Colors[compose.Path] {
		t.Errorf("path color = %v, want the default palette's", got)
	}
}

func TestColorOverrides(t *testing.T) {
	c := Default()
	if err := c.SetColor(compose.Primes, "#f00"); err != nil {
		t.Fatal(err)
	}
	if err := c.SetColor(compose.Grid, "0000FF80"); err != nil {
		t.Fatal(err)
	}
	if err := c.SetColor(compose.Path, "green"); err == nil {
		t.Error("SetColor accepted a color name")
	}
	for _, name := range PaletteNames() {
		c.Palette = name
		p, _ := PaletteByName(name)
		rc := c.Snapshot()
		if got := rc.Styles[compose.Primes].Color; got != gg.Hex("#FF0000") {
			t.Errorf("%s: primes = %v", name, got)
		}
		if got := rc.Styles[compose.Grid].Color; got != gg.Hex("#0000FF80") {
			t.Errorf("%s: grid = %v", name, got)
		}
		if got := rc.Styles[compose.Path].Color; got != p.Colors[compose.Path] {
			t.Errorf("%s: path = %v, want the palette's", name, got)
		}
	}
	if err := c.SetColor(compose.Primes, ""); err != nil {
		t.Fatal(err)
	}
	if got := c.Snapshot().Styles[compose.Primes].Color; got != Palettes[len(Palettes)-1].Colors[compose.Primes] {
		t.Errorf("reset primes = %v", got)
	}
}

func TestParseColors(t *testing.T) {
	colors, err := ParseColors("bg=#fff0, labels=#00cc00,,")
	if err != nil {
		t.Fatal(err)
	}
	if colors[compose.Background] != "#FFF0" || colors[compose.Labels] != "#00CC00" || colors[compose.Primes] != "" {
		t.Errorf("ParseColors = %q", colors)
	}
	back, err := ParseColors(FormatColors(colors))
	if err != nil || back != colors {
		t.Errorf("round trip = %q, %v", back, err)
	}
}

func TestFormatLayers(t *testing.T) {
	for _, s := range []string{"none", "primes", "background,primes", "grid,path,labels"} {
		l, err := ParseLayers(s)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatLayers(l); got != s {
			t.Errorf("FormatLayers(ParseLayers(%q)) = %q", s, got)
		}
	}
}

func TestNextPalette(t *testing.T) {
	name := DefaultPalette
	seen := map[string]bool{}
	for range Palettes {
		name = NextPalette(name).Name
		seen[name] = true
	}
	if len(seen) != len(Palettes) || name != DefaultPalette {
		t.Errorf("cycle visited %v and ended at %s", seen, name)
	}
}
