package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/qsnake/internal/core"
	"github.com/vovakirdan/qsnake/internal/storage"
	"github.com/vovakirdan/qsnake/internal/train"
)

// Speed limits for steps per tick.
const (
	minStepsPerTick = 1
	maxStepsPerTick = 1024
	footerHeight    = 2 // Progress bar plus help line
)

// WatchModel is the Bubble Tea model that paces a training run for display.
// Each tick advances the controller by stepsPerTick steps.
type WatchModel struct {
	ctrl         *train.Controller
	screen       *core.Screen
	store        *storage.Store
	meta         storage.RunMeta
	config       core.RuntimeConfig
	keys         WatchKeyMap
	help         help.Model
	progress     progress.Model
	stepsPerTick int
	paused       bool
	quitting     bool
	saved        bool // Whether the finished run has been stored
	runID        int64
	saveErr      error
}

// NewWatchModel creates a training view. store may be nil to skip persistence.
func NewWatchModel(ctrl *train.Controller, store *storage.Store, meta storage.RunMeta, cfg core.RuntimeConfig) WatchModel {
	cfg = cfg.Normalize()

	h := help.New()
	h.ShowAll = false

	p := progress.New(progress.WithDefaultGradient())
	p.Width = max(10, cfg.ScreenW-4)

	return WatchModel{
		ctrl:         ctrl,
		screen:       core.NewScreen(cfg.ScreenW, max(0, cfg.ScreenH-footerHeight)),
		store:        store,
		meta:         meta,
		config:       cfg,
		keys:         DefaultWatchKeyMap(),
		help:         h,
		progress:     p,
		stepsPerTick: minStepsPerTick,
	}
}

// Init starts the tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(0, msg.Height-footerHeight))
		m.progress.Width = max(10, msg.Width-4)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Faster):
		m.stepsPerTick = core.Clamp(m.stepsPerTick*2, minStepsPerTick, maxStepsPerTick)
	case key.Matches(msg, m.keys.Slower):
		m.stepsPerTick = core.Clamp(m.stepsPerTick/2, minStepsPerTick, maxStepsPerTick)
	case key.Matches(msg, m.keys.Stop):
		m.ctrl.RequestStop()
		m.saveOnce()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleTick advances training and keeps ticking until it completes.
func (m WatchModel) handleTick() (tea.Model, tea.Cmd) {
	if !m.paused {
		for i := 0; i < m.stepsPerTick && !m.ctrl.Done(); i++ {
			m.ctrl.Step()
		}
	}

	if m.ctrl.Done() {
		m.saveOnce()
		return m, nil
	}
	return m, tickCmd(m.config.TickRate)
}

// saveOnce stores the finished run a single time.
func (m *WatchModel) saveOnce() {
	if !m.ctrl.Done() || m.saved {
		return
	}
	m.saved = true
	if m.store == nil {
		return
	}
	m.runID, m.saveErr = m.store.SaveRun(context.Background(), m.meta, m.ctrl.Summary(), m.ctrl.History())
}

// View renders the current state to a string for display.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}
	if m.ctrl.Done() {
		return m.summaryView()
	}

	DrawBoard(m.screen, m.ctrl.Snapshot())

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.progressLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// progressLine shows the epoch progress bar with speed and pause state.
func (m WatchModel) progressLine() string {
	snap := m.ctrl.Snapshot()
	pct := core.ClampF(float64(snap.Epoch)/float64(max(1, snap.TotalEpochs)), 0, 1)
	status := fmt.Sprintf(" x%d", m.stepsPerTick)
	if m.paused {
		status += " paused"
	}
	return m.progress.ViewAs(pct) + helpStyle.Render(status)
}

// summaryView shows the final statistics and learning curve.
func (m WatchModel) summaryView() string {
	s := m.ctrl.Summary()

	var b strings.Builder
	b.WriteString(titleStyle.Render("TRAINING COMPLETE"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Epochs: %d  Best: %d (epoch %d)  Mean: %.2f  Last %d: %.2f\n",
		s.Epochs, s.BestScore, s.BestEpoch+1, s.MeanScore, train.RecentWindow, s.RecentMean)
	fmt.Fprintf(&b, "Steps: %d  ε: %.4f  States visited: %d\n",
		s.TotalSteps, s.FinalEpsilon, s.Visited)

	switch {
	case m.saveErr != nil:
		b.WriteString(errStyle.Render("could not save run: " + m.saveErr.Error()))
		b.WriteString("\n")
	case m.runID != 0:
		fmt.Fprintf(&b, "Saved as run #%d\n", m.runID)
	}
	b.WriteString("\n")

	curveH := max(3, m.config.ScreenH-9)
	b.WriteString(RenderCurve(train.Scores(m.ctrl.History()), m.config.ScreenW, curveH))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// StepsPerTick returns the current speed multiplier.
func (m WatchModel) StepsPerTick() int {
	return m.stepsPerTick
}

// Paused reports whether stepping is suspended.
func (m WatchModel) Paused() bool {
	return m.paused
}

// RunID returns the stored run ID, or 0 if the run was not saved.
func (m WatchModel) RunID() int64 {
	return m.runID
}

// SaveErr returns the error from storing the run, if any.
func (m WatchModel) SaveErr() error {
	return m.saveErr
}

// Run starts the Bubble Tea program and returns the final model.
func Run(ctrl *train.Controller, store *storage.Store, meta storage.RunMeta, cfg core.RuntimeConfig) (WatchModel, error) {
	model := NewWatchModel(ctrl, store, meta, cfg)

	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return model, err
	}
	if wm, ok := final.(WatchModel); ok {
		return wm, nil
	}
	return model, nil
}
