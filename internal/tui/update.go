package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	spinner "github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"primal/internal/compose"
	"primal/internal/config"
	"primal/internal/export"
	"primal/internal/pipeline"
	"primal/internal/spiral"
)

// exportedMsg reports the end of a PNG export.
type exportedMsg struct {
	path string
	err  error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutChanged()
		return m, nil
	case pipeline.ReadyMsg:
		m.ready, m.hasReady = msg, true
		if msg.ID == m.jobID {
			m.busy = false
			m.frac = 1
		}
		if m.recenter && msg.ID == m.jobID && m.width > 0 {
			m.centerBitmap()
			m.recenter = false
		}
		m.status = fmt.Sprintf("rendered %s  primes=%d  %dx%d px  in %s",
			describe(msg.Config), msg.Primes.Len(), msg.Bitmap.Width(), msg.Bitmap.Height(), msg.Elapsed.Round(time.Millisecond))
		if m.showStyles {
			m.refreshStyles()
		}
		return m, pipeline.WaitForMsg(m.pipe.Messages())
	case pipeline.ProgressMsg:
		if msg.ID == m.jobID && m.busy {
			m.frac = msg.Fraction
		}
		return m, pipeline.WaitForMsg(m.pipe.Messages())
	case pipeline.FailedMsg:
		if msg.ID == m.jobID {
			m.busy = false
		}
		m.status = "render error: " + msg.Err.Error()
		return m, pipeline.WaitForMsg(m.pipe.Messages())
	case exportedMsg:
		if msg.err != nil {
			m.status = "export error: " + msg.err.Error()
		} else {
			m.status = "exported: " + msg.path
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if m.inputMode {
			return m.updateInput(msg)
		}
		if m.showStyles {
			switch msg.String() {
			case "s", "esc", "q", "ctrl+c":
			case "enter":
				cmd := m.editLayerColor()
				return m, cmd
			default:
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.pipe.Cancel()
			return m, tea.Quit
		case "1", "2", "3", "4", "5":
			l := compose.Layer(msg.String()[0] - '1')
			m.cfg.Toggle(l)
			m.regenerate()
			m.status = fmt.Sprintf("%s: %v  %s", l, m.cfg.Layers[l], m.status)
		case "l":
			// toggle all layers
			all := true
			for _, on := range m.cfg.Layers {
				all = all && on
			}
			for l := range m.cfg.Layers {
				m.cfg.Layers[l] = !all
			}
			m.regenerate()
		case "v":
			if m.cfg.Variant == spiral.Square {
				m.cfg.Variant = spiral.Polar
			} else {
				m.cfg.Variant = spiral.Square
			}
			m.regenerate()
		case "n":
			cmd := m.editBound()
			return m, cmd
		case "+", "=":
			m.xf.ZoomBy(config.ZoomIn)
			m.status = fmt.Sprintf("zoom: %.3gx", m.xf.Scale())
		case "-", "_":
			m.xf.ZoomBy(config.ZoomOut)
			m.status = fmt.Sprintf("zoom: %.3gx", m.xf.Scale())
		case "c":
			m.centerBitmap()
			m.status = "centered"
		case "0":
			m.fitBitmap()
			m.status = fmt.Sprintf("fit: %.3gx", m.xf.Scale())
		case "d":
			m.debug = !m.debug
		case "x":
			if m.busy {
				m.pipe.Cancel()
				m.busy = false
				m.status = "generation cancelled"
			}
		case "e":
			if !m.hasReady {
				m.status = "export error: " + export.ErrNoBitmap.Error()
				return m, nil
			}
			m.status = "exporting " + config.DefaultExport
			return m, exportCmd(m.ready.Bitmap, config.DefaultExport)
		case "t":
			m.cfg.Palette = config.NextPalette(m.cfg.Palette).Name
			m.regenerate()
			m.status = "palette: " + m.cfg.Palette + "  " + m.status
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshPalettes()
			}
			m.layoutChanged()
		case "s":
			m.showStyles = !m.showStyles
			if m.showStyles {
				m.refreshStyles()
			}
		case "esc":
			m.showStyles = false
			m.inspectPopup = ""
		case "h":
			m.helpVisible = !m.helpVisible
		case "i":
			if m.inspectPopup != "" {
				m.inspectPopup = ""
				break
			}
			_, _, w, h := m.mapArea()
			idx, ok := m.locate(float64(w*2)/2, float64(h*4)/2)
			if ok {
				m.inspectPopup = m.describeIndex(idx)
				m.status = "inspect popup"
			} else {
				m.inspectPopup = "no number under the center"
				m.status = m.inspectPopup
			}
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(paletteItem); ok && it.name != m.cfg.Palette {
					m.cfg.Palette = it.name
					m.regenerate()
				}
			}
		case "up":
			if !m.showSidebar {
				m.xf.PanBy(0, -config.PanStep*4)
			}
		case "down":
			if !m.showSidebar {
				m.xf.PanBy(0, config.PanStep*4)
			}
		case "left":
			m.xf.PanBy(-config.PanStep*2, 0)
		case "right":
			m.xf.PanBy(config.PanStep*2, 0)
		}
	case tea.MouseMsg:
		m.updateMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputMode, m.editColor = false, false
		m.ti.Blur()
		m.status = "view mode"
		return m, nil
	case "enter":
		if m.editColor {
			return m.applyColor()
		}
		s := strings.TrimSpace(m.ti.Value())
		n, err := strconv.Atoi(strings.ReplaceAll(s, "_", ""))
		if err != nil {
			m.status = "input error: not a number: " + s
			return m, nil
		}
		prev := m.cfg.Bound
		m.cfg.Bound = n
		if err := m.regenerate(); err != nil {
			m.cfg.Bound = prev
			return m, nil
		}
		m.inputMode = false
		m.ti.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// applyColor sets the edited layer color and regenerates. Invalid colors
// keep the input open.
func (m Model) applyColor() (tea.Model, tea.Cmd) {
	prev := m.cfg.Colors
	if err := m.cfg.SetColor(m.editLayer, m.ti.Value()); err != nil {
		m.status = "input error: " + err.Error()
		return m, nil
	}
	if err := m.regenerate(); err != nil {
		m.cfg.Colors = prev
		return m, nil
	}
	m.inputMode, m.editColor = false, false
	m.ti.Blur()
	if m.showStyles {
		m.refreshStyles()
	}
	return m, nil
}

func (m *Model) updateMouse(msg tea.MouseMsg) {
	ox, oy, w, h := m.mapArea()
	cx, cy := msg.X-ox, msg.Y-oy
	inside := cx >= 0 && cx < w && cy >= 0 && cy < h

	switch {
	case msg.Button == tea.MouseButtonWheelUp && inside:
		m.xf.ZoomBy(config.ZoomIn)
	case msg.Button == tea.MouseButtonWheelDown && inside:
		m.xf.ZoomBy(config.ZoomOut)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inside:
		m.dragging = true
		m.dragX, m.dragY = msg.X, msg.Y
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.xf.PanBy(float64((msg.X-m.dragX)*2), float64((msg.Y-m.dragY)*4))
		m.dragX, m.dragY = msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	}

	m.hovering = false
	if inside && !m.dragging {
		m.hoverIdx, m.hovering = m.locate(float64(cx*2)+1, float64(cy*4)+2)
	}
}

// layoutChanged keeps the transform's viewport in step with the map area.
func (m *Model) layoutChanged() {
	_, _, w, h := m.mapArea()
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, h-2)
	}
	m.bar.Width = max(10, min(40, m.width/3))
	m.xf.Resize(float64(w*2), float64(h*4))
	if m.recenter && m.hasReady && m.ready.ID == m.jobID {
		m.centerBitmap()
		m.recenter = false
	}
}

// centerBitmap pans so the published bitmap sits in the middle of the map.
func (m *Model) centerBitmap() {
	if !m.hasReady {
		return
	}
	_, _, w, h := m.mapArea()
	b := m.ready.Bitmap
	m.xf.Recenter(float64(b.Width()), float64(b.Height()), float64(w*2), float64(h*4))
}

// fitBitmap scales the published bitmap to fill the map and centers it.
func (m *Model) fitBitmap() {
	if !m.hasReady {
		return
	}
	_, _, w, h := m.mapArea()
	b := m.ready.Bitmap
	m.xf.SetScale(min(float64(w*2)/float64(b.Width()), float64(h*4)/float64(b.Height())))
	m.centerBitmap()
}

// locate returns the number drawn at viewport point (x, y), if any.
func (m Model) locate(x, y float64) (int, bool) {
	if !m.hasReady {
		return 0, false
	}
	p := m.xf.ToBitmap(x, y)
	return m.ready.Config.Layout().Locate(spiral.Point{X: p.X, Y: p.Y})
}

func (m Model) describeIndex(i int) string {
	set := m.ready.Primes
	kind := "composite"
	switch {
	case i == 1:
		kind = "unit"
	case set.Contains(i):
		kind = "prime"
	}
	lines := []string{
		fmt.Sprintf("number: %d", i),
		"kind: " + kind,
		fmt.Sprintf("ring: %d", spiral.Ring(i)),
	}
	if m.ready.Config.Variant == spiral.Square {
		x, y := spiral.SquareCoord(i)
		lines = append(lines, fmt.Sprintf("lattice: (%d, %d)", x, y))
	}
	lines = append(lines, fmt.Sprintf("primes ≤ %d: %d (%.2f%%)", set.Bound(), set.Len(), set.Ratio()*100))
	return strings.Join(lines, "\n")
}

func exportCmd(b *compose.Bitmap, path string) tea.Cmd {
	return func() tea.Msg {
		return exportedMsg{path: path, err: export.SavePNG(b, path)}
	}
}
