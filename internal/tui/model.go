package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"preap/internal/config"
	"preap/internal/proc"
)

// Controller defines the subset of app.App behaviour the TUI needs.
type Controller interface {
	Config() config.Config
	Refresh(context.Context) error
	Search(string) []proc.Match
	Kill(int, proc.SignalKind) proc.Outcome
	Parent(int) (proc.Process, bool)
	Siblings(int) []proc.Process
}

// Model represents the Bubble Tea state.
type Model struct {
	controller Controller

	input   textinput.Model
	table   table.Model
	matches []proc.Match

	statusMsg string
	err       error
	loading   bool

	width  int
	height int

	refreshEvery time.Duration
	lastUpdated  time.Time
}

// New constructs a TUI model with default styles and an optional initial
// query.
func New(ctrl Controller, initialQuery string) *Model {
	input := textinput.New()
	input.Placeholder = "name, /path, -args, :port, ~everywhere, !pid, @family"
	input.Prompt = "search: "
	input.SetValue(initialQuery)
	input.Focus()

	tbl := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
	)
	if h := ctrl.Config().Height; h > 7 {
		// Inline viewport: leave room for the search bar, status, detail
		// pane and help line.
		tbl.SetHeight(h - 7)
	}
	styles := table.DefaultStyles()
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	tbl.SetStyles(styles)

	return &Model{
		controller:   ctrl,
		input:        input,
		table:        tbl,
		statusMsg:    "Loading processes…",
		loading:      true,
		refreshEvery: ctrl.Config().RefreshInterval,
	}
}

// Run spins up the Bubble Tea program with sensible defaults.
func Run(ctrl Controller, initialQuery string) error {
	m := New(ctrl, initialQuery)
	var opts []tea.ProgramOption
	if ctrl.Config().Fullscreen {
		opts = append(opts, tea.WithAltScreen())
	}
	prog := tea.NewProgram(m, opts...)
	_, err := prog.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, refreshCmd(m.controller)}
	if m.refreshEvery > 0 {
		cmds = append(cmds, scheduleRefresh(m.refreshEvery))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width))
		if msg.Height > 7 {
			m.table.SetHeight(msg.Height - 7)
		}

	case refreshedMsg:
		m.loading = false
		m.err = nil
		m.lastUpdated = time.Now()
		m.requery()

	case refreshTickMsg:
		cmds := []tea.Cmd{refreshCmd(m.controller)}
		if m.refreshEvery > 0 {
			cmds = append(cmds, scheduleRefresh(m.refreshEvery))
		}
		return m, tea.Batch(cmds...)

	case killedMsg:
		switch msg.outcome.Status {
		case proc.Killed:
			m.statusMsg = fmt.Sprintf("Killed pid %d (%s)", msg.pid, msg.outcome.Requested)
		case proc.AlreadyGone:
			m.statusMsg = fmt.Sprintf("Pid %d is already gone", msg.pid)
		default:
			m.statusMsg = fmt.Sprintf("Kill pid %d failed: %s", msg.pid, msg.outcome.Status)
		}
		m.requery()

	case errMsg:
		m.loading = false
		m.err = msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			m.loading = true
			m.statusMsg = "Refreshing…"
			return m, refreshCmd(m.controller)
		case "ctrl+x":
			if p, ok := m.selected(); ok {
				return m, killCmd(m.controller, p.PID, proc.Terminate)
			}
		case "ctrl+k":
			if p, ok := m.selected(); ok {
				return m, killCmd(m.controller, p.PID, proc.ForceKill)
			}
		case "ctrl+f":
			if p, ok := m.selected(); ok {
				m.input.SetValue("@" + strconv.Itoa(p.PID))
				m.requery()
			}
		case "ctrl+p":
			if p, ok := m.selected(); ok {
				if parent, found := m.controller.Parent(p.PID); found {
					m.input.SetValue("!" + strconv.Itoa(parent.PID))
					m.requery()
					m.statusMsg = fmt.Sprintf("Parent of %d", p.PID)
				} else {
					m.statusMsg = fmt.Sprintf("Pid %d has no parent in view", p.PID)
				}
			}
		case "ctrl+s":
			if p, ok := m.selected(); ok {
				m.showSiblings(p.PID)
			}
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			m.requery()
			return m, cmd
		}

	default:
		// Cursor blink and other component messages.
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteByte('\n')

	statusStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	switch {
	case m.err != nil:
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.loading:
		b.WriteString("Loading processes…")
	default:
		b.WriteString(statusStyle.Render(m.statusMsg))
	}
	b.WriteByte('\n')

	if len(m.matches) == 0 && !m.loading && m.err == nil {
		b.WriteString("No matching processes.\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteByte('\n')
	}

	if p, ok := m.selected(); ok {
		detail := fmt.Sprintf(
			"pid=%d ppid=%d user=%s started=%s\npath=%s\ncmd=%s",
			p.PID,
			p.ParentPID,
			valueOrDash(p.Owner),
			startedAt(p.StartTime),
			valueOrDash(p.Path),
			valueOrDash(p.CommandLine()),
		)
		detailStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
		b.WriteString(detailStyle.Render(detail))
		b.WriteByte('\n')
	}

	help := "esc quit • ctrl+r refresh • ctrl+x kill • ctrl+k force kill • ctrl+f family • ctrl+p parent • ctrl+s siblings"
	if !m.lastUpdated.IsZero() {
		help += fmt.Sprintf(" • last update %s", m.lastUpdated.Format(time.Kitchen))
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// requery re-evaluates the current query against the live index and keeps
// the selection on the same pid when it survives.
func (m *Model) requery() {
	var keep int
	if p, ok := m.selected(); ok {
		keep = p.PID
	}
	m.matches = m.controller.Search(m.input.Value())
	m.setRows()
	if keep > 0 {
		for i, match := range m.matches {
			if match.Process.PID == keep {
				m.table.SetCursor(i)
				break
			}
		}
	}
	if !m.loading && m.err == nil {
		m.statusMsg = fmt.Sprintf("%d processes", len(m.matches))
	}
}

func (m *Model) showSiblings(pid int) {
	sibs := m.controller.Siblings(pid)
	m.matches = make([]proc.Match, 0, len(sibs))
	for _, p := range sibs {
		m.matches = append(m.matches, proc.Match{Process: p})
	}
	m.setRows()
	m.statusMsg = fmt.Sprintf("%d siblings of %d", len(sibs), pid)
}

func (m *Model) setRows() {
	rows := make([]table.Row, 0, len(m.matches))
	for _, match := range m.matches {
		p := match.Process
		rows = append(rows, table.Row{
			strconv.Itoa(p.PID),
			p.Name,
			p.Owner,
			p.PortList(),
			runTime(p.StartTime, time.Now()),
			p.CommandLine(),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

func (m *Model) selected() (proc.Process, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.matches) {
		return proc.Process{}, false
	}
	return m.matches[idx].Process, true
}

func columns(width int) []table.Column {
	cmdWidth := width - 46
	if cmdWidth < 10 {
		cmdWidth = 10
	}
	return []table.Column{
		{Title: "PID", Width: 7},
		{Title: "NAME", Width: 16},
		{Title: "USER", Width: 8},
		{Title: "PORTS", Width: 11},
		{Title: "RUN TIME", Width: 9},
		{Title: "COMMAND", Width: cmdWidth},
	}
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

type refreshedMsg struct{}

type refreshTickMsg time.Time

type killedMsg struct {
	pid     int
	outcome proc.Outcome
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func refreshCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ctrl.Refresh(ctx); err != nil {
			return errMsg{err}
		}
		return refreshedMsg{}
	}
}

func scheduleRefresh(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func killCmd(ctrl Controller, pid int, kind proc.SignalKind) tea.Cmd {
	return func() tea.Msg {
		return killedMsg{pid: pid, outcome: ctrl.Kill(pid, kind)}
	}
}
