// Package config holds the explorer's defaults and the user-facing settings
// that turn into a compose.RenderConfig.
package config

import (
	"flag"
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/gogpu/gg"

	"primal/internal/compose"
	"primal/internal/spiral"
)

const (
	DefaultBound   = 10000
	DefaultZoom    = 10
	DefaultPalette = "light"
	DefaultExport  = "ulamSpiral.png"

	// Zoom factors for one wheel notch or key press.
	ZoomIn  = 1.2
	ZoomOut = 0.8

	// PanStep is the arrow-key pan distance in terminal cells.
	PanStep = 4

	// Unit sizes picked by AutoUnit.
	UnitPrimes = 1
	UnitLines  = 10
	UnitLabels = 100
)

// DefaultLayers is the layer set drawn when none is given.
var DefaultLayers = [compose.NumLayers]bool{
	compose.Background: true,
	compose.Primes:     true,
}

// Config is the complete set of user settings.
type Config struct {
	Bound   int
	Variant spiral.Variant
	Unit    float64 // cell size in pixels; 0 picks one from the layers
	Palette string
	Colors  [compose.NumLayers]string // per-layer hex overrides of the palette; "" keeps it
	Layers  [compose.NumLayers]bool
	Workers int
	Zoom    float64
	LogFile string
	Export  string // write a PNG and exit instead of starting the viewer
}

// Default returns the stock settings.
func Default() Config {
	return Config{
		Bound:   DefaultBound,
		Variant: spiral.Square,
		Palette: DefaultPalette,
		Layers:  DefaultLayers,
		Workers: runtime.GOMAXPROCS(0),
		Zoom:    DefaultZoom,
	}
}

// Bind registers c's fields as flags on fs. The current values of c are the
// flag defaults.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Bound, "n", c.Bound, "highest `number` on the spiral")
	fs.Func("variant", "spiral `layout`: square or polar (default "+c.Variant.String()+")", func(s string) error {
		v, err := spiral.ParseVariant(s)
		if err != nil {
			return err
		}
		c.Variant = v
		return nil
	})
	fs.Float64Var(&c.Unit, "unit", c.Unit, "cell size in `pixels` (0 picks one from the layers)")
	fs.Func("palette", "color `palette`: "+strings.Join(PaletteNames(), ", ")+" (default "+c.Palette+")", func(s string) error {
		p, err := PaletteByName(s)
		if err != nil {
			return err
		}
		c.Palette = p.Name
		return nil
	})
	fs.Func("color", "per-layer `colors` over the palette, e.g. primes=#FF0000,grid=#333", func(s string) error {
		colors, err := ParseColors(s)
		if err != nil {
			return err
		}
		for l, hex := range colors {
			if hex != "" {
				c.Colors[l] = hex
			}
		}
		return nil
	})
	fs.Func("layers", "comma-separated `layers` to draw (default "+FormatLayers(c.Layers)+")", func(s string) error {
		l, err := ParseLayers(s)
		if err != nil {
			return err
		}
		c.Layers = l
		return nil
	})
	fs.IntVar(&c.Workers, "workers", c.Workers, "render bands drawn in parallel")
	fs.Float64Var(&c.Zoom, "zoom", c.Zoom, "initial zoom")
	fs.StringVar(&c.LogFile, "log", c.LogFile, "write debug logs to `file`")
	fs.StringVar(&c.Export, "export", c.Export, "render to a PNG `file` and exit")
}

// Toggle flips layer l.
func (c *Config) Toggle(l compose.Layer) {
	c.Layers[l] = !c.Layers[l]
}

// SetColor overrides the color of layer l with a hex color. An empty hex
// restores the palette color.
func (c *Config) SetColor(l compose.Layer, hex string) error {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		c.Colors[l] = ""
		return nil
	}
	norm, err := normalizeHex(hex)
	if err != nil {
		return err
	}
	c.Colors[l] = norm
	return nil
}

// AutoUnit picks a cell size that leaves room for the enabled layers:
// labels need large cells, grid lines and the path medium ones, and prime
// markers alone a single pixel.
func AutoUnit(layers [compose.NumLayers]bool) float64 {
	switch {
	case layers[compose.Labels]:
		return UnitLabels
	case layers[compose.Grid] || layers[compose.Path]:
		return UnitLines
	default:
		return UnitPrimes
	}
}

// MaxUnit returns the largest cell size whose bitmap for bound n still fits
// in compose.MaxSide.
func MaxUnit(v spiral.Variant, n int) float64 {
	var span float64
	switch v {
	case spiral.Polar:
		span = 2*math.Sqrt(float64(max(n, 1))) + 1
	default:
		span = float64(2*spiral.Ring(max(n, 1)) + 1)
	}
	return math.Floor(compose.MaxSide/span*1000) / 1000
}

// ResolvedUnit returns the cell size to render with. An explicit Unit is
// used as is; otherwise AutoUnit is capped by MaxUnit.
func (c Config) ResolvedUnit() float64 {
	if c.Unit != 0 {
		return c.Unit
	}
	return min(AutoUnit(c.Layers), MaxUnit(c.Variant, c.Bound))
}

// Snapshot returns the render request described by c. Unknown palettes fall
// back to the default one; color overrides win over the palette.
func (c Config) Snapshot() compose.RenderConfig {
	unit := c.ResolvedUnit()
	p, err := PaletteByName(c.Palette)
	if err != nil {
		p = Palettes[0]
	}
	styles := compose.DefaultStyles(unit)
	for l := range styles {
		styles[l].Enabled = c.Layers[l]
		styles[l].Color = p.Colors[l]
		if c.Colors[l] != "" {
			styles[l].Color = gg.Hex(c.Colors[l])
		}
	}
	return compose.RenderConfig{
		Bound:   c.Bound,
		Variant: c.Variant,
		Unit:    unit,
		Styles:  styles,
	}
}

// ParseLayers parses a comma-separated list of layer names. "all" enables
// every layer and "none" or an empty string disables them all.
func ParseLayers(s string) ([compose.NumLayers]bool, error) {
	var out [compose.NumLayers]bool
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case "", "none":
			continue
		case "all":
			for l := range out {
				out[l] = true
			}
			continue
		}
		l, ok := parseLayer(f)
		if !ok {
			return out, fmt.Errorf("config: unknown layer %q", f)
		}
		out[l] = true
	}
	return out, nil
}

// FormatLayers is the inverse of ParseLayers.
func FormatLayers(layers [compose.NumLayers]bool) string {
	var names []string
	for l, on := range layers {
		if on {
			names = append(names, compose.Layer(l).String())
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

func parseLayer(s string) (compose.Layer, bool) {
	for l := range compose.NumLayers {
		if compose.Layer(l).String() == s {
			return compose.Layer(l), true
		}
	}
	switch s {
	case "bg":
		return compose.Background, true
	case "prime":
		return compose.Primes, true
	case "label", "numbers":
		return compose.Labels, true
	}
	return 0, false
}

// ParseColors parses a comma-separated list of layer=color pairs. Colors
// are hex in the forms RGB, RGBA, RRGGBB or RRGGBBAA with an optional '#'.
func ParseColors(s string) ([compose.NumLayers]string, error) {
	var out [compose.NumLayers]string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		name, hex, ok := strings.Cut(f, "=")
		if !ok {
			return out, fmt.Errorf("config: color %q is not layer=color", f)
		}
		l, ok := parseLayer(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return out, fmt.Errorf("config: unknown layer %q", name)
		}
		norm, err := normalizeHex(hex)
		if err != nil {
			return out, err
		}
		out[l] = norm
	}
	return out, nil
}

// FormatColors is the inverse of ParseColors.
func FormatColors(colors [compose.NumLayers]string) string {
	var pairs []string
	for l, hex := range colors {
		if hex != "" {
			pairs = append(pairs, compose.Layer(l).String()+"="+hex)
		}
	}
	return strings.Join(pairs, ",")
}

// normalizeHex validates a hex color and returns it with a leading '#'.
func normalizeHex(s string) (string, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3, 4, 6, 8:
	default:
		return "", fmt.Errorf("config: bad color %q", s)
	}
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", fmt.Errorf("config: bad color %q", s)
		}
	}
	return "#" + strings.ToUpper(h), nil
}
