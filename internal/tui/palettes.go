package tui

import (
	list "github.com/charmbracelet/bubbles/list"

	"primal/internal/config"
)

type paletteItem struct {
	title, desc string
	name        string
}

func (p paletteItem) Title() string       { return p.title }
func (p paletteItem) Description() string { return p.desc }
func (p paletteItem) FilterValue() string { return p.name }

// refreshPalettes lists the built-in palettes and selects the current one.
func (m *Model) refreshPalettes() {
	var items []list.Item
	sel := 0
	for i, p := range config.Palettes {
		title := p.Name
		if p.Name == m.cfg.Palette {
			title = "● " + title
			sel = i
		}
		desc := "light background"
		if p.Dark {
			desc = "dark background"
		}
		items = append(items, paletteItem{title: title, desc: desc, name: p.Name})
	}
	m.l.SetItems(items)
	m.l.Select(sel)
}
