package config

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"

	"primal/internal/compose"
)

// Palette assigns a color to every layer.
type Palette struct {
	Name   string
	Dark   bool
	Colors [compose.NumLayers]gg.RGBA
}

// Palettes lists the built-in palettes; the first is the default.
var Palettes = []Palette{
	{
		Name: "light",
		Colors: [compose.NumLayers]gg.RGBA{
			compose.Background: gg.Hex("#FFFFFF00"),
			compose.Grid:       gg.Hex("#000000"),
			compose.Path:       gg.Hex("#00FF00"),
			compose.Primes:     gg.Hex("#000000"),
			compose.Labels:     gg.Hex("#00CC00"),
		},
	},
	{
		Name: "dark",
		Dark: true,
		Colors: [compose.NumLayers]gg.RGBA{
			compose.Background: gg.Hex("#121212"),
			compose.Grid:       gg.Hex("#3A3A3A"),
			compose.Path:       gg.Hex("#00C853"),
			compose.Primes:     gg.Hex("#F5F5F5"),
			compose.Labels:     gg.Hex("#69F0AE"),
		},
	},
	{
		Name: "mono",
		Colors: [compose.NumLayers]gg.RGBA{
			compose.Background: gg.Hex("#FFFFFF"),
			compose.Grid:       gg.Hex("#C0C0C0"),
			compose.Path:       gg.Hex("#808080"),
			compose.Primes:     gg.Hex("#000000"),
			compose.Labels:     gg.Hex("#404040"),
		},
	},
}

// PaletteNames returns the names of the built-in palettes.
func PaletteNames() []string {
	names := make([]string, len(Palettes))
	for i, p := range Palettes {
		names[i] = p.Name
	}
	return names
}

// PaletteByName looks up a built-in palette, ignoring case.
func PaletteByName(name string) (Palette, error) {
	for _, p := range Palettes {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return Palette{}, fmt.Errorf("config: unknown palette %q", name)
}

// NextPalette returns the palette after name, wrapping around.
func NextPalette(name string) Palette {
	for i, p := range Palettes {
		if p.Name == name {
			return Palettes[(i+1)%len(Palettes)]
		}
	}
	return Palettes[0]
}
