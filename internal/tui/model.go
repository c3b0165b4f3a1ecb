package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"impulsetrim/internal/pcm"
	"impulsetrim/internal/session"
	"impulsetrim/internal/trim"
)

// Controller is the session surface the model drives. *session.Session
// satisfies it.
type Controller interface {
	Toggle(ctx context.Context, target trim.Target) session.Feedback
	Click(ctx context.Context, t float64) session.Feedback
	Drag(ctx context.Context, a, b float64) session.Feedback
	Save(ctx context.Context) session.Feedback
	Status() session.Feedback
	Labels() (string, string)
	Duration() float64
}

// EnvelopeFunc folds the signal into display columns.
type EnvelopeFunc func(columns int) ([]pcm.Span, error)

const (
	defaultWidth = 80
	waveRows     = 9
)

// Model is the root bubbletea model for a trim session.
type Model struct {
	ctx      context.Context
	ctrl     Controller
	envelope EnvelopeFunc
	title    string

	width  int
	height int
	spans  []pcm.Span
	peak   int32

	cursor   float64
	dragging bool
	dragFrom float64

	feedback session.Feedback
	saved    bool
}

// New builds a model for ctrl. title is shown in the header, usually the
// recording directory.
func New(ctx context.Context, ctrl Controller, envelope EnvelopeFunc, title string) Model {
	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		envelope: envelope,
		title:    title,
		feedback: ctrl.Status(),
	}
	m.resize(defaultWidth, 0)
	return m
}

// Saved reports whether the session was saved before the program exited.
func (m Model) Saved() bool { return m.saved }

// Feedback returns the last feedback shown.
func (m Model) Feedback() session.Feedback { return m.feedback }

// Cursor returns the cursor position in seconds.
func (m Model) Cursor() float64 { return m.cursor }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	m.width, m.height = width, height
	m.spans = nil
	m.peak = 1
	if m.envelope == nil {
		return
	}
	spans, err := m.envelope(width)
	if err != nil {
		m.feedback.Message = err.Error()
		return
	}
	m.spans = spans
	for _, s := range spans {
		m.peak = max(m.peak, abs32(s.Min), abs32(s.Max))
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyCtrlC:
		return m, tea.Quit
	case KeyLeft:
		m.moveCursor(-1)
	case KeyRight:
		m.moveCursor(1)
	case KeyShiftLeft:
		m.moveCursor(-bigStep)
	case KeyShiftRight:
		m.moveCursor(bigStep)
	case KeyHome:
		m.cursor = 0
	case KeyEnd:
		m.cursor = m.ctrl.Duration()
	case KeyStart:
		m.dragging = false
		m.feedback = m.ctrl.Toggle(m.ctx, trim.TargetStart)
	case KeyEndTarget:
		m.dragging = false
		m.feedback = m.ctrl.Toggle(m.ctx, trim.TargetEnd)
	case KeyClick:
		m.feedback = m.ctrl.Click(m.ctx, m.cursor)
	case KeyRange:
		if !m.dragging {
			m.dragging = true
			m.dragFrom = m.cursor
			m.feedback.Message = fmt.Sprintf("Range from %.3f; move and press v again.", m.cursor)
			m.feedback.Err = nil
			return m, nil
		}
		m.dragging = false
		m.feedback = m.ctrl.Drag(m.ctx, m.dragFrom, m.cursor)
	case KeyCancel:
		m.dragging = false
	case KeySave:
		m.feedback = m.ctrl.Save(m.ctx)
		if m.feedback.Err == nil {
			m.saved = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) moveCursor(columns int) {
	dur := m.ctrl.Duration()
	step := dur / float64(m.width)
	m.cursor = min(max(m.cursor+float64(columns)*step, 0), dur)
}

func (m Model) View() string {
	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, dividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderWave()...)
	sections = append(sections, m.renderMarkers())
	sections = append(sections, dividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderStatus())
	sections = append(sections, m.renderFooter())
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	start, end := m.ctrl.Labels()
	startStyle, endStyle := activeLabelStyle, inactiveLabelStyle
	if m.feedback.State.Target == trim.TargetEnd {
		startStyle, endStyle = inactiveLabelStyle, activeLabelStyle
	}
	title := titleStyle.Render("IMPULSETRIM")
	if m.title != "" {
		title += dimStyle.Render(" " + filepath.Base(m.title))
	}
	return title + "  " + startStyle.Render("["+start+"]") + " " + endStyle.Render("["+end+"]") +
		dimStyle.Render(fmt.Sprintf("  %.3f / %.3f s", m.cursor, m.ctrl.Duration()))
}

func (m Model) renderWave() []string {
	half := waveRows / 2
	cursorCol := m.column(m.cursor)
	lo, hi := -1, -1
	if m.dragging {
		lo, hi = m.column(m.dragFrom), cursorCol
		if lo > hi {
			lo, hi = hi, lo
		}
	}

	rows := make([]string, waveRows)
	for r := range waveRows {
		bandHi := (float64(half-r) + 0.5) / float64(half)
		bandLo := (float64(half-r) - 0.5) / float64(half)
		var b strings.Builder
		for c := range m.width {
			cell := " "
			if c < len(m.spans) {
				span := m.spans[c]
				top := float64(span.Max) / float64(m.peak)
				bottom := float64(span.Min) / float64(m.peak)
				if top >= bandLo && bottom <= bandHi {
					cell = "█"
				}
			}
			switch {
			case c == cursorCol:
				if cell == " " {
					cell = "│"
				}
				b.WriteString(cursorStyle.Render(cell))
			case c >= lo && c <= hi:
				b.WriteString(rangeStyle.Render(cell))
			default:
				b.WriteString(waveStyle.Render(cell))
			}
		}
		rows[r] = b.String()
	}
	return rows
}

func (m Model) renderMarkers() string {
	cells := make([]string, m.width)
	for i := range cells {
		cells[i] = " "
	}
	sel := m.feedback.Selection
	if sel.HasStart {
		cells[m.column(sel.Start)] = startMarkStyle.Render("S")
	}
	if sel.HasEnd {
		cells[m.column(sel.End)] = endMarkStyle.Render("E")
	}
	cells[m.column(m.cursor)] = cursorStyle.Render("^")
	return strings.Join(cells, "")
}

func (m Model) renderStatus() string {
	if m.feedback.Err != nil {
		return errorStyle.Render(m.feedback.Message)
	}
	msg := m.feedback.Message
	if m.feedback.HasPreview {
		msg += dimStyle.Render(fmt.Sprintf("  preview %.3f-%.3f", m.feedback.Preview.Start, m.feedback.Preview.End))
	}
	return messageStyle.Render(msg)
}

func (m Model) renderFooter() string {
	parts := []string{
		footerKeyStyle.Render("←→") + footerDescStyle.Render(" Move"),
		footerKeyStyle.Render("s/e") + footerDescStyle.Render(" Start/End"),
		footerKeyStyle.Render("Space") + footerDescStyle.Render(" Point"),
		footerKeyStyle.Render("v") + footerDescStyle.Render(" Range"),
		footerKeyStyle.Render("Enter") + footerDescStyle.Render(" Save"),
		footerKeyStyle.Render("q") + footerDescStyle.Render(" Quit"),
	}
	return strings.Join(parts, "  ")
}

// column maps seconds to a display column.
func (m Model) column(t float64) int {
	dur := m.ctrl.Duration()
	if dur <= 0 {
		return 0
	}
	c := int(t / dur * float64(m.width))
	return min(max(c, 0), m.width-1)
}

func abs32(v int16) int32 {
	if v < 0 {
		return -int32(v)
	}
	return int32(v)
}

// Run shows the model full screen until the user saves or quits and returns
// the final model.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) (Model, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return m, err
	}
	return final.(Model), nil
}
