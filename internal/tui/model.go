package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codewarden/internal/app"
)

// refreshEvery drives the automatic rescan tick.
const refreshEvery = 5 * time.Second

// Controller defines the subset of app.App behaviour the TUI needs.
type Controller interface {
	Scan(context.Context) ([]app.Row, error)
	KillRow(app.Row) error
	Clean(context.Context) (app.CleanResult, error)
	Status() (app.WatcherStatus, error)
}

// Model represents the Bubble Tea state.
type Model struct {
	controller Controller

	list list.Model
	rows []app.Row

	watcher   app.WatcherStatus
	statusMsg string

	err     error
	loading bool

	width  int
	height int

	lastUpdated time.Time
}

// New constructs a TUI model with default styles.
func New(ctrl Controller) *Model {
	delegate := list.NewDefaultDelegate()
	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "Processes"
	lst.SetShowHelp(false)
	lst.SetFilteringEnabled(false)
	lst.DisableQuitKeybindings()

	return &Model{
		controller: ctrl,
		list:       lst,
		statusMsg:  "Checking watcher status…",
		loading:    true,
	}
}

// Run spins up the Bubble Tea program with sensible defaults.
func Run(ctrl Controller) error {
	m := New(ctrl)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(checkWatcherCmd(m.controller), scanCmd(m.controller), tickCmd())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.height > 4 {
			m.list.SetSize(msg.Width, msg.Height-4)
		}

	case watcherStatusMsg:
		m.watcher = msg.status
		if msg.status.Running {
			if msg.status.PID > 0 {
				m.statusMsg = fmt.Sprintf("Watcher running (pid %d). Press r to rescan, q to quit.", msg.status.PID)
			} else {
				m.statusMsg = "Watcher running. Press r to rescan, q to quit."
			}
		} else {
			m.statusMsg = "No detached watcher. Press r to rescan, q to quit."
		}

	case scannedMsg:
		m.loading = false
		m.err = nil
		m.rows = msg.rows
		items := make([]list.Item, 0, len(msg.rows))
		for _, row := range msg.rows {
			items = append(items, rowItem{Row: row})
		}
		m.list.SetItems(items)
		m.lastUpdated = time.Now()

	case killedMsg:
		m.statusMsg = fmt.Sprintf("Signalled pid %d.", msg.pid)
		m.loading = true
		return m, scanCmd(m.controller)

	case cleanedMsg:
		m.statusMsg = fmt.Sprintf("Cleared %d cache dirs.", msg.cleared)

	case tickMsg:
		if !m.loading {
			m.loading = true
			return m, tea.Batch(scanCmd(m.controller), checkWatcherCmd(m.controller), tickCmd())
		}
		return m, tickCmd()

	case errMsg:
		m.loading = false
		m.err = msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, scanCmd(m.controller)
		case "k":
			if row := m.currentRow(); row != nil {
				return m, killCmd(m.controller, *row)
			}
		case "c":
			m.statusMsg = "Reclaiming caches…"
			return m, cleanCmd(m.controller)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	statusStyle := lipgloss.NewStyle().Bold(true)
	if m.watcher.Running {
		statusStyle = statusStyle.Foreground(lipgloss.Color("42"))
	} else {
		statusStyle = statusStyle.Foreground(lipgloss.Color("203"))
	}
	b.WriteString(statusStyle.Render(m.statusMsg))
	b.WriteByte('\n')

	if m.loading {
		b.WriteString("Scanning processes…\n")
	} else if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteByte('\n')
	}

	if len(m.list.Items()) == 0 && !m.loading && m.err == nil {
		b.WriteString("No matching processes found.\n")
	} else {
		b.WriteString(m.list.View())
		b.WriteByte('\n')
	}

	if current := m.currentRow(); current != nil {
		protected := "killable"
		if current.Protected {
			protected = "protected"
		}
		detail := fmt.Sprintf(
			"pid=%d role=%s (%s)\ncpu=%.1f%% mem=%.1f%%\ncmd=%s",
			current.Sample.PID,
			current.Role,
			protected,
			current.Sample.CPUPercent,
			current.Sample.MemPercent,
			current.Sample.Command,
		)
		detailStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginBottom(1)
		b.WriteString(detailStyle.Render(detail))
		b.WriteByte('\n')
	}

	help := "Commands: q quit • r rescan • k kill selected • c clean caches"
	if !m.lastUpdated.IsZero() {
		help += fmt.Sprintf(" • last scan %s", m.lastUpdated.Format(time.Kitchen))
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// rowItem adapts app.Row to the bubbles list item interface.
type rowItem struct {
	Row app.Row
}

func (r rowItem) Title() string {
	mark := " "
	if r.Row.Protected {
		mark = "●"
	}
	return fmt.Sprintf("[%s] pid=%d %-16s cpu=%.1f%%", mark, r.Row.Sample.PID, r.Row.Role, r.Row.Sample.CPUPercent)
}

func (r rowItem) Description() string {
	return r.Row.Sample.Command
}

func (r rowItem) FilterValue() string {
	return fmt.Sprintf("%d %s %s", r.Row.Sample.PID, r.Row.Role, r.Row.Sample.Command)
}

func (m *Model) currentRow() *app.Row {
	if len(m.rows) == 0 {
		return nil
	}
	idx := m.list.Index()
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}
	return &m.rows[idx]
}

type watcherStatusMsg struct {
	status app.WatcherStatus
}

type scannedMsg struct {
	rows []app.Row
}

type killedMsg struct{ pid int }

type cleanedMsg struct{ cleared int }

type tickMsg time.Time

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func tickCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func checkWatcherCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		status, err := ctrl.Status()
		if err != nil {
			return errMsg{err}
		}
		return watcherStatusMsg{status: status}
	}
}

func scanCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		rows, err := ctrl.Scan(ctx)
		if err != nil {
			return errMsg{err}
		}
		return scannedMsg{rows: rows}
	}
}

func killCmd(ctrl Controller, row app.Row) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.KillRow(row); err != nil {
			return errMsg{err}
		}
		return killedMsg{pid: row.Sample.PID}
	}
}

func cleanCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		res, err := ctrl.Clean(ctx)
		if err != nil {
			return errMsg{err}
		}
		return cleanedMsg{cleared: res.Cleared}
	}
}
