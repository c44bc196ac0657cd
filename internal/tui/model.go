package tui

import (
	"strconv"

	list "github.com/charmbracelet/bubbles/list"
	progress "github.com/charmbracelet/bubbles/progress"
	spinner "github.com/charmbracelet/bubbles/spinner"
	table "github.com/charmbracelet/bubbles/table"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"primal/internal/compose"
	"primal/internal/config"
	"primal/internal/pipeline"
	"primal/internal/view"
)

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool
	debug       bool

	status string

	cfg   config.Config
	pipe  *pipeline.Pipeline
	xf    *view.Transform
	theme theme

	// generation
	jobID    uint64
	busy     bool
	frac     float64
	recenter bool
	bar      progress.Model
	spin     spinner.Model

	// published result
	ready    pipeline.ReadyMsg
	hasReady bool

	// palette sidebar
	l list.Model

	// input mode: the bound, or the color of editLayer
	inputMode bool
	editColor bool
	editLayer compose.Layer
	ti        textinput.Model

	// inspect popup
	inspectPopup string

	// mouse state
	dragging bool
	dragX    int
	dragY    int
	hovering bool
	hoverIdx int

	// layer style table
	showStyles bool
	tbl        table.Model
}

// New returns a viewer for cfg and requests the first spiral from pipe.
func New(cfg config.Config, pipe *pipeline.Pipeline) Model {
	m := Model{
		helpVisible: true,
		status:      "primal ready",
		cfg:         cfg,
		pipe:        pipe,
		xf:          view.New(cfg.Zoom),
	}
	// palette list setup
	d := list.NewDefaultDelegate()
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Palettes"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(false)
	m.refreshPalettes()
	m.ti = textinput.New()
	// progress and spinner
	m.bar = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	// layer style table (rows are filled when shown)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(8)
	_ = m.regenerate()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(pipeline.WaitForMsg(m.pipe.Messages()), m.spin.Tick)
}

// Config returns the current settings.
func (m Model) Config() config.Config { return m.cfg }

// regenerate requests a new spiral for the current settings. The view is
// re-centered once it is published.
func (m *Model) regenerate() error {
	rc := m.cfg.Snapshot()
	m.applyTheme(rc)
	id, err := m.pipe.Request(rc)
	if err != nil {
		m.status = "config error: " + err.Error()
		return err
	}
	m.jobID = id
	m.busy = true
	m.frac = 0
	m.recenter = true
	m.status = "generating " + describe(rc)
	return nil
}

// applyTheme restyles the chrome for the palette of rc.
func (m *Model) applyTheme(rc compose.RenderConfig) {
	m.theme = themeFor(rc)
	m.spin.Style = m.theme.accent
	m.tbl.SetStyles(m.theme.table)
}

// editBound opens the input on the highest number.
func (m *Model) editBound() tea.Cmd {
	m.inputMode, m.editColor = true, false
	m.ti.Prompt = "n = "
	m.ti.Placeholder = "highest number, Enter to generate, Esc to cancel"
	m.ti.CharLimit = 12
	m.ti.SetValue(strconv.Itoa(m.cfg.Bound))
	m.ti.CursorEnd()
	m.status = "input mode"
	return m.ti.Focus()
}

// editLayerColor opens the input on the color of the selected style row.
func (m *Model) editLayerColor() tea.Cmd {
	l := compose.Layer(m.tbl.Cursor())
	m.inputMode, m.editColor, m.editLayer = true, true, l
	m.ti.Prompt = l.String() + " color = "
	m.ti.Placeholder = "#RRGGBB, empty for the palette color"
	m.ti.CharLimit = 9
	m.ti.SetValue(m.cfg.Colors[l])
	m.ti.CursorEnd()
	m.status = "edit " + l.String() + " color"
	return m.ti.Focus()
}
