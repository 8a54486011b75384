package tui

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vk/sweepview/internal/archive"
	"github.com/vk/sweepview/internal/config"
	"github.com/vk/sweepview/internal/control"
	"github.com/vk/sweepview/internal/session"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// chrome is the number of lines used by everything but the frame.
	chrome = 4
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	disabledStyle = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// eventMsg carries a session event into the program.
type eventMsg session.Event

// loadedMsg reports the end of a load started with enter.
type loadedMsg struct {
	name string
	err  error
}

// row is one selectable parameter line.
type row struct {
	control control.Description
	param   control.ParameterState
}

// Model is the bubbletea model of the terminal view.
type Model struct {
	ctx      context.Context
	sess     *session.Session
	names    []string
	current  int
	selected int

	snap  session.Snapshot
	frame *session.Frame

	status string
	width  int
	height int
}

// New returns a model showing the first animation of sess.
func New(ctx context.Context, sess *session.Session) Model {
	m := Model{
		ctx:    ctx,
		sess:   sess,
		names:  sess.Names(),
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m.key(msg)
	case eventMsg:
		if msg.Animation == m.name() {
			if msg.Kind == session.EventError && msg.Err != nil {
				m.status = msg.Err.Error()
			}
			m.refresh()
		}
	case loadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("load %s: %v", msg.name, msg.err)
		} else {
			m.status = fmt.Sprintf("loaded %s", msg.name)
		}
		m.refresh()
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.rows())-1 {
			m.selected++
		}
	case "left", "h":
		err = m.nudge(-1)
	case "right", "l":
		err = m.nudge(1)
	case " ":
		if r, ok := m.row(); ok && r.control.Kind == config.KindCheckbox {
			err = m.sess.Toggle(m.name(), r.control.Name)
		}
	case "enter":
		name := m.name()
		m.status = fmt.Sprintf("loading %s", name)
		return m, m.load(name)
	case "tab":
		m.switchTo(m.current + 1)
	case "shift+tab":
		m.switchTo(m.current - 1)
	default:
		return m, nil
	}
	if err != nil {
		m.status = err.Error()
	}
	m.refresh()
	return m, nil
}

func (m Model) load(name string) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{name: name, err: m.sess.Load(m.ctx, name)}
	}
}

func (m *Model) nudge(steps int) error {
	r, ok := m.row()
	if !ok {
		return nil
	}
	return m.sess.Nudge(m.name(), r.param.Name, steps)
}

func (m *Model) switchTo(i int) {
	if len(m.names) == 0 {
		return
	}
	m.current = (i + len(m.names)) % len(m.names)
	m.selected = 0
	m.status = ""
}

func (m *Model) refresh() {
	name := m.name()
	if name == "" {
		return
	}
	m.snap, _ = m.sess.Snapshot(name)
	m.frame, _ = m.sess.Frame(name)
	if n := len(m.rows()); m.selected >= n {
		m.selected = max(0, n-1)
	}
}

func (m Model) name() string {
	if len(m.names) == 0 {
		return ""
	}
	return m.names[m.current]
}

func (m Model) rows() []row {
	var rows []row
	for _, c := range m.snap.Controls {
		for _, p := range c.Parameters {
			rows = append(rows, row{control: c, param: p})
		}
	}
	return rows
}

func (m Model) row() (row, bool) {
	rows := m.rows()
	if m.selected >= len(rows) {
		return row{}, false
	}
	return rows[m.selected], true
}

// View implements tea.Model.
func (m Model) View() string {
	if len(m.names) == 0 {
		return "no animations\n"
	}
	var b strings.Builder

	header := fmt.Sprintf("[%d/%d] %s  %s %d/%d", m.current+1, len(m.names), m.snap.Name, m.snap.State, m.snap.Loaded, m.snap.Total)
	if m.snap.Key != "" {
		header += "  " + m.snap.Key
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteByte('\n')

	rows := m.rows()
	for i, r := range rows {
		line := fmt.Sprintf("  %-10s %-9s %s", r.param.Name, r.control.Kind, formatParam(r.param))
		switch {
		case i == m.selected:
			line = selectedStyle.Render(">" + line[1:])
		case !r.control.Enabled:
			line = disabledStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	frameRows := m.height - chrome - len(rows)
	if f := m.renderFrame(frameRows); f != "" {
		b.WriteString(f)
		b.WriteByte('\n')
	}

	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteByte('\n')
	}
	b.WriteString(helpStyle.Render("↑/↓ select  ←/→ nudge  space toggle  enter load  tab next  q quit"))
	return b.String()
}

func (m Model) renderFrame(rows int) string {
	if m.frame == nil || rows <= 0 {
		return ""
	}
	e := m.frame.Entry
	switch e.Kind {
	case archive.KindImage:
		img, _, err := image.Decode(bytes.NewReader(e.Data))
		if err != nil {
			return errorStyle.Render(fmt.Sprintf("%s: %v", e.Name, err))
		}
		return renderImage(img, m.width, rows)
	case archive.KindData:
		return renderText(e.Data, m.width, rows)
	default:
		return e.Name
	}
}

func formatParam(p control.ParameterState) string {
	cur := "-"
	if p.Current != nil {
		cur = strconv.FormatFloat(*p.Current, 'g', -1, 64)
	}
	return fmt.Sprintf("%-8s [%g .. %g step %g]", cur, p.Min, p.Max, p.Step)
}
