package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"primal/internal/compose"
)

// refreshStyles rebuilds the layer table from the settings that the next
// request would use. Colors set over the palette are marked with '*'.
func (m *Model) refreshStyles() {
	rc := m.cfg.Snapshot()
	cols := []table.Column{
		{Title: "#", Width: 2},
		{Title: "layer", Width: 11},
		{Title: "on", Width: 4},
		{Title: "color", Width: 13},
		{Title: "width", Width: 7},
	}
	rows := make([]table.Row, 0, compose.NumLayers)
	for l := range compose.NumLayers {
		s := rc.Styles[l]
		on := "off"
		if s.Enabled {
			on = "on"
		}
		rgba := rgba8(s.Color)
		c := hexColor(rgba)
		if rgba.A < 0xFF {
			c += fmt.Sprintf("/%d%%", int(rgba.A)*100/0xFF)
		}
		if m.cfg.Colors[l] != "" {
			c += "*"
		}
		width := "-"
		switch compose.Layer(l) {
		case compose.Grid, compose.Path, compose.Labels:
			width = fmt.Sprintf("%.3g", s.Width)
		}
		rows = append(rows, table.Row{fmt.Sprintf("%d", l+1), compose.Layer(l).String(), on, c, width})
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}
