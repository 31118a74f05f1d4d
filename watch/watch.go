// Package watch displays a live timer of an employee's open session
package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/attend/attendance"
	"github.com/ayoisaiah/attend/internal/clock"
	"github.com/ayoisaiah/attend/internal/status"
	"github.com/ayoisaiah/attend/internal/timeutil"
)

const refreshInterval = time.Second

// Tracker is the part of the attendance machine the timer relies on.
type Tracker interface {
	Snapshot(employeeID string) (attendance.Session, bool)
	CheckIn(ctx context.Context, employeeID string) (attendance.Session, error)
	CheckOut(ctx context.Context, employeeID string) (attendance.Session, error)
}

type keymap struct {
	toggle  key.Binding
	confirm key.Binding
	cancel  key.Binding
	quit    key.Binding
}

var defaultKeymap = keymap{
	toggle: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "check in/out"),
	),
	confirm: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y", "confirm"),
	),
	cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "cancel"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type (
	tickMsg time.Time

	transitionMsg struct {
		err     error
		session attendance.Session
	}
)

// Options configures the timer.
type Options struct {
	Clock          clock.Clock
	Location       *time.Location
	Palette        status.Palette
	EmployeeID     string
	TwentyFourHour bool
}

type styles struct {
	base      lipgloss.Style
	main      lipgloss.Style
	secondary lipgloss.Style
	hint      lipgloss.Style
	errText   lipgloss.Style
}

// Model is the bubbletea model of the live timer.
type Model struct {
	ctx        context.Context
	tracker    Tracker
	clock      clock.Clock
	loc        *time.Location
	err        error
	now        time.Time
	palette    status.Palette
	styles     styles
	employee   string
	timeFormat string
	session    attendance.Session
	help       help.Model
	confirming bool
	busy       bool
}

// New returns a timer for the employee in opts. The session is read from
// tracker, which must already be reconciled.
func New(ctx context.Context, tracker Tracker, opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}

	if opts.Location == nil {
		opts.Location = time.Local
	}

	timeFormat := "03:04 PM"
	if opts.TwentyFourHour {
		timeFormat = "15:04"
	}

	m := &Model{
		ctx:        ctx,
		tracker:    tracker,
		clock:      opts.Clock,
		loc:        opts.Location,
		palette:    opts.Palette,
		employee:   opts.EmployeeID,
		timeFormat: timeFormat,
		help:       help.New(),
		styles: styles{
			base:      lipgloss.NewStyle().Padding(1, 1, 1, 2),
			main:      lipgloss.NewStyle().Bold(true),
			secondary: lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
			hint:      lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
			errText:   lipgloss.NewStyle().Foreground(lipgloss.Color(status.ColorLeave)),
		},
	}

	m.refresh()

	return m
}

// Run displays the timer until the user quits or ctx is cancelled.
func Run(ctx context.Context, tracker Tracker, opts Options) error {
	p := tea.NewProgram(New(ctx, tracker, opts), tea.WithContext(ctx))

	_, err := p.Run()

	return err
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) refresh() {
	m.session, _ = m.tracker.Snapshot(m.employee)
	m.now = m.clock.Now()
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

// transition checks the employee in or out depending on the current state.
func (m *Model) transition() tea.Cmd {
	checkedIn := m.session.State == attendance.CheckedIn

	return func() tea.Msg {
		var (
			s   attendance.Session
			err error
		)

		if checkedIn {
			s, err = m.tracker.CheckOut(m.ctx, m.employee)
		} else {
			s, err = m.tracker.CheckIn(m.ctx, m.employee)
		}

		return transitionMsg{session: s, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()

		return m, tick()

	case transitionMsg:
		m.busy = false
		m.err = msg.err

		m.refresh()

		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeymap.quit):
			return m, tea.Quit

		case m.confirming && key.Matches(msg, defaultKeymap.confirm):
			m.confirming = false
			m.busy = true

			return m, m.transition()

		case m.confirming && key.Matches(msg, defaultKeymap.cancel):
			m.confirming = false

			return m, nil

		case !m.busy && key.Matches(msg, defaultKeymap.toggle):
			m.err = nil

			if m.session.State == attendance.CheckedIn {
				m.confirming = true
				return m, nil
			}

			m.busy = true

			return m, m.transition()
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

		return m, nil
	}

	return m, nil
}

func (m *Model) statusLine() string {
	if m.session.State != attendance.CheckedIn {
		return m.styles.secondary.Render("Not checked in")
	}

	since := m.session.CheckInAt.In(m.loc).Format(m.timeFormat)

	line := "Checked in since " + since
	if !m.session.Verified {
		line += " [offline]"
	}

	return m.styles.secondary.Render(line)
}

func (m *Model) timerView() string {
	var s strings.Builder

	elapsed := m.session.Elapsed(m.now)
	projected := status.Classify(elapsed)

	s.WriteString(m.styles.main.Render(m.employee))
	s.WriteString("  " + m.statusLine())
	s.WriteString("\n\n")

	s.WriteString(
		m.styles.main.
			Foreground(lipgloss.Color(m.palette.Color(projected))).
			Render(timeutil.FormatElapsed(elapsed)),
	)

	if m.session.State == attendance.CheckedIn {
		s.WriteString("  " + m.styles.hint.Render(string(projected)))
	}

	total := m.session.TotalOn(m.now, m.loc) + elapsed

	s.WriteString("\n\n")
	s.WriteString(m.styles.hint.Render(
		fmt.Sprintf("Today: %s", timeutil.FormatTotal(total)),
	))

	if m.err != nil {
		s.WriteString("\n\n" + m.styles.errText.Render(m.err.Error()))
	}

	return s.String()
}

func (m *Model) helpView() string {
	if m.confirming {
		return m.styles.main.Render("Check out now?") + "  " +
			m.help.ShortHelpView([]key.Binding{
				defaultKeymap.confirm,
				defaultKeymap.cancel,
			})
	}

	return m.help.ShortHelpView([]key.Binding{
		defaultKeymap.toggle,
		defaultKeymap.quit,
	})
}

func (m *Model) View() string {
	return m.styles.base.Render(m.timerView() + "\n\n" + m.helpView())
}
