package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/qsnake/internal/storage"
	"github.com/vovakirdan/qsnake/internal/train"
)

// maxRuns is the number of runs loaded into the browser.
const maxRuns = 100

// RunsModel is the Bubble Tea model for browsing stored runs.
// Selecting a run replaces the table with its learning curve.
type RunsModel struct {
	store    *storage.Store
	runs     []storage.RunEntry
	table    table.Model
	help     help.Model
	keys     RunsKeyMap
	width    int
	height   int
	curve    []train.EpochRecord // History of the selected run, nil while browsing
	curveRun storage.RunEntry
	err      error
	quitting bool
}

// NewRunsModel creates a run browser.
func NewRunsModel(store *storage.Store, width, height int) RunsModel {
	h := help.New()
	h.ShowAll = false

	m := RunsModel{
		store:  store,
		keys:   DefaultRunsKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

// createTable creates a new table sized to the window.
func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Run", Width: 6},
		{Title: "Epochs", Width: 8},
		{Title: "Best", Width: 6},
		{Title: "Mean", Width: 8},
		{Title: "Steps", Width: 10},
		{Title: "Preset", Width: 9},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-6)), // Leave room for title and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns reads recent runs from the store into the table.
func (m *RunsModel) loadRuns() {
	if m.store == nil {
		m.runs = nil
	} else if runs, err := m.store.RecentRuns(maxRuns); err != nil {
		m.err = err
		m.runs = nil
	} else {
		m.runs = runs
	}
	m.updateTableRows()
}

// updateTableRows fills the table from m.runs.
func (m *RunsModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		preset := r.Preset
		if preset == "" {
			preset = "-"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", r.ID),
			fmt.Sprintf("%d", r.Epochs),
			fmt.Sprintf("%d", r.BestScore),
			fmt.Sprintf("%.2f", r.MeanScore),
			fmt.Sprintf("%d", r.TotalSteps),
			preset,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the run browser.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.curve != nil {
				m.curve = nil
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			m.openSelected()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	if m.curve == nil {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// openSelected loads the history of the highlighted run.
func (m *RunsModel) openSelected() {
	if m.store == nil || len(m.runs) == 0 {
		return
	}
	run := m.runs[m.table.Cursor()]
	hist, err := m.store.RunHistory(run.ID)
	if err != nil {
		m.err = err
		return
	}
	m.curveRun = run
	m.curve = hist
	if m.curve == nil {
		m.curve = []train.EpochRecord{}
	}
}

// View renders the run browser.
func (m RunsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := "TRAINING RUNS"
	if m.curve != nil {
		title = fmt.Sprintf("RUN #%d  best %d  mean %.2f  seed %d",
			m.curveRun.ID, m.curveRun.BestScore, m.curveRun.MeanScore, m.curveRun.Seed)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	switch {
	case m.curve != nil:
		b.WriteString(RenderCurve(train.Scores(m.curve), m.width, max(3, m.height-5)))
	case len(m.runs) == 0:
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(emptyStyle.Render("No runs recorded yet.\nRun `qsnake train` to record one."))
	default:
		tableStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Selected returns the run whose curve is shown, if any.
func (m RunsModel) Selected() (storage.RunEntry, bool) {
	return m.curveRun, m.curve != nil
}

// RunRuns runs the run browser until the user quits.
func RunRuns(store *storage.Store, width, height int) error {
	p := tea.NewProgram(NewRunsModel(store, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
