package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"primal/internal/compose"
	"primal/internal/config"
)

// Layout sizes in terminal cells.
const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// mapArea returns the origin and size of the map canvas in terminal cells.
// Every braille cell holds 2x4 viewport pixels.
func (m Model) mapArea() (x, y, w, h int) {
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	if m.showSidebar {
		x = sidebarWidth + 1
	}
	return x, headerHeight, max(10, contentWidth-x), contentHeight
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth := max(10, m.width)
	_, _, mapWidth, mapHeight := m.mapArea()

	// Header
	header := m.theme.title.Render(" primal ─ ulam spiral explorer ")
	header = lipgloss.NewStyle().Width(contentWidth).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	// Map viewport
	var mapView string
	switch {
	case m.inputMode:
		m.ti.Width = min(mapWidth-8, 40)
		box := boxStyle.Render(m.ti.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	case m.showStyles:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, compose.NumLayers+1))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	case !m.hasReady:
		msg := m.spin.View() + " generating…"
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, msg)
	default:
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.renderSpiral(mapWidth, mapHeight))
	}

	// Inspect popup over the map
	if m.inspectPopup != "" && !m.showStyles && !m.inputMode {
		box := boxStyle.MaxWidth(min(48, mapWidth)).Render(m.inspectPopup)
		mapView = overlay(mapView, box, 1, 0)
	}
	if m.debug {
		pan := m.xf.Pan()
		dbg := dimStyle.Render(fmt.Sprintf("Pan: %.1f, %.1f  Zoom: %.4g", pan.X, pan.Y, m.xf.Scale()))
		mapView = overlay(mapView, dbg, 0, mapHeight-1)
	}

	// Body row
	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	footer := lipgloss.JoinVertical(lipgloss.Left, m.renderStatus(contentWidth), m.renderHelp(contentWidth))
	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

// renderStatus is the first footer line: status on the left, progress or
// hover details on the right.
func (m Model) renderStatus(width int) string {
	var right string
	switch {
	case m.busy:
		right = m.spin.View() + " " + m.bar.ViewAs(m.frac) + fmt.Sprintf(" %3.0f%% ", m.frac*100)
	case m.hovering:
		kind := ""
		if m.ready.Primes.Contains(m.hoverIdx) {
			kind = " prime"
		}
		right = m.theme.accent.Render(fmt.Sprintf(" #%d%s ", m.hoverIdx, kind))
	}
	left := dimStyle.MaxWidth(max(0, width-lipgloss.Width(right))).Render(" " + m.status + " ")
	spacer := strings.Repeat(" ", max(0, width-lipgloss.Width(left)-lipgloss.Width(right)))
	return left + spacer + right
}

func (m Model) renderHelp(width int) string {
	if !m.helpVisible {
		return dimStyle.Render(" h help")
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"1-5 layers",
		"v variant",
		"n number",
		"t theme",
		"Tab palettes",
		"s styles (Enter color)",
		"i inspect",
		"c center",
		"0 fit",
		"e export",
		"d debug",
		"q quit",
	}
	return dimStyle.MaxWidth(width).Render("  " + strings.Join(keys, "  "))
}

// overlay draws box over the top-left corner (x, y) of base, line by line.
func overlay(base, box string, x, y int) string {
	lines := strings.Split(base, "\n")
	for i, bl := range strings.Split(box, "\n") {
		row := y + i
		if row < 0 || row >= len(lines) {
			continue
		}
		w := lipgloss.Width(bl)
		left := truncate(lines[row], x)
		right := skip(lines[row], x+w)
		lines[row] = left + bl + right
	}
	return strings.Join(lines, "\n")
}

// describe summarizes a render request for the status line.
func describe(rc compose.RenderConfig) string {
	var on [compose.NumLayers]bool
	for l := range on {
		on[l] = rc.Enabled(compose.Layer(l))
	}
	return fmt.Sprintf("n=%d %s unit=%g layers=%s", rc.Bound, rc.Variant, rc.Unit, config.FormatLayers(on))
}
