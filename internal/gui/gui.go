// Package gui renders the live process table with Bubble Tea.
package gui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/7c/procmon/internal/collector"
	"github.com/7c/procmon/internal/control"
	"github.com/7c/procmon/internal/model"
	"github.com/7c/procmon/internal/sampler"
	"github.com/7c/procmon/internal/view"
)

// ErrNotTerminal is returned when stdin or stdout is not a terminal.
var ErrNotTerminal = errors.New("procmon top requires an interactive terminal (use 'procmon list' for one-shot output)")

// chromeRows is the number of screen rows not used by process rows.
const chromeRows = 10

const statusTTL = 3 * time.Second

// Options configures Run.
type Options struct {
	Engine     *sampler.Engine
	Controller *control.Controller
	Host       collector.HostInfo
	Refresh    time.Duration
	Logger     *slog.Logger
}

// monitor is the Bubble Tea model for the process table.
type monitor struct {
	engine  *sampler.Engine
	ctl     *control.Controller
	cycle   model.CycleState
	host    collector.HostInfo
	refresh time.Duration
	logger  *slog.Logger
	input   textinput.Model

	// sampleErr is set while the status line shows a sampling failure.
	sampleErr bool

	width  int
	height int
}

// tickMsg fires on every refresh interval.
type tickMsg time.Time

// statusClearMsg clears the status line.
type statusClearMsg struct{}

// Run checks the terminal, primes the engine and runs the TUI until the user
// quits.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}
	cycle, err := opts.Engine.Prime()
	if err != nil {
		return fmt.Errorf("initial sample: %w", err)
	}
	m := newMonitor(opts, cycle)
	m.logger.Info("monitor started", "refresh", m.refresh.String(), "sort", m.ctl.View().Mode.String())

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	m.logger.Info("monitor stopped")
	return err
}

func newMonitor(opts Options, cycle model.CycleState) monitor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ti := textinput.New()
	ti.CharLimit = 10
	ti.Placeholder = "pid, or b to go back"
	return monitor{
		engine:  opts.Engine,
		ctl:     opts.Controller,
		cycle:   cycle,
		host:    opts.Host,
		refresh: opts.Refresh,
		logger:  logger,
		input:   ti,
	}
}

func (m monitor) Init() tea.Cmd {
	return tickCmd(m.refresh)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

func (m monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m.handleTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ctl.View().SetVisibleRows(msg.Height - chromeRows)
		return m, nil

	case statusClearMsg:
		m.ctl.ClearStatus()
		return m, nil
	}

	if m.ctl.State() == control.AwaitingTarget {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m monitor) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.ctl.State() == control.AwaitingTarget {
		return m.handlePromptKey(msg)
	}

	m.ctl.HandleKey(keyFor(msg))
	switch m.ctl.State() {
	case control.Quit:
		return m, tea.Quit
	case control.AwaitingTarget:
		m.input.Reset()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m monitor) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		value := m.input.Value()
		if msg.Type == tea.KeyEsc {
			value = ""
		}
		m.input.Reset()
		m.input.Blur()
		if err := m.ctl.SubmitTarget(value); err != nil {
			m.logger.Debug("prompt rejected", "input", value, "error", err)
			return m, clearStatusCmd()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// keyFor decodes a key press. Letter keys are case-insensitive.
func keyFor(msg tea.KeyMsg) control.Key {
	switch msg.Type {
	case tea.KeyUp:
		return control.KeyUp
	case tea.KeyDown:
		return control.KeyDown
	case tea.KeyPgUp:
		return control.KeyPageUp
	case tea.KeyPgDown:
		return control.KeyPageDown
	case tea.KeyHome:
		return control.KeyHome
	case tea.KeyEnd:
		return control.KeyEnd
	}
	switch strings.ToLower(msg.String()) {
	case "q":
		return control.KeyQuit
	case "o":
		return control.KeySortCPU
	case "m":
		return control.KeySortMemory
	case "p":
		return control.KeySortPID
	case "k":
		return control.KeyKill
	case "s":
		return control.KeySuspend
	case "r":
		return control.KeyResume
	case "d":
		return control.KeyDetails
	}
	return control.KeyOther
}

// handleTick runs one sampling cycle when the controller allows it. A failed
// cycle keeps the previous snapshot on screen; the next good one clears the
// failure note.
func (m monitor) handleTick() (tea.Model, tea.Cmd) {
	if m.ctl.Sampling() {
		views, next, err := m.engine.Sample(m.cycle)
		if err != nil {
			m.logger.Warn("sampling cycle failed", "error", err)
			m.ctl.SetStatus(fmt.Sprintf("Sampling failed: %v", err))
			m.sampleErr = true
		} else {
			m.cycle = next
			m.ctl.ApplySnapshot(views)
			if m.sampleErr {
				m.ctl.ClearStatus()
				m.sampleErr = false
			}
		}
	}
	return m, tickCmd(m.refresh)
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m monitor) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.ctl.State() == control.ShowingDetails {
		return m.renderDetails()
	}

	var b strings.Builder
	st := m.ctl.View()

	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n")
	s := view.Summarize(st.Views)
	b.WriteString(summaryStyle.Render(fmt.Sprintf("CPU: %.1f%%   Memory: %.1f MB   Processes: %d",
		s.TotalCPU, s.TotalMB, s.Count)))
	b.WriteString("\n\n")

	b.WriteString(m.renderTable(st))
	b.WriteString("\n")

	if status := m.ctl.Status(); status != "" {
		b.WriteString(statusStyle.Render(status))
	}
	b.WriteString("\n")

	if m.ctl.State() == control.AwaitingTarget {
		label := fmt.Sprintf("Enter PID to %s: ", m.ctl.Action())
		b.WriteString(promptStyle.Render(label) + m.input.View())
	} else {
		b.WriteString(helpStyle.Render(
			"[q] quit  [↑↓] scroll  [o] cpu  [m] memory  [p] pid  [k]ill  [s]uspend  [r]esume  [d]etails",
		))
	}

	if m.ctl.State() == control.ShowingMessage {
		overlay := m.ctl.Message() + "\n\n" + helpStyle.Render("Press any key to continue")
		return m.overlayCenter(b.String(), overlay)
	}
	return b.String()
}

func (m monitor) title() string {
	t := fmt.Sprintf("procmon - sort: %s - refresh: %s", m.ctl.View().Mode, m.refresh)
	if m.host.CPUs > 0 {
		t += fmt.Sprintf(" - %d cores", m.host.CPUs)
	}
	if m.host.TotalMemory > 0 {
		t += fmt.Sprintf(" - %s RAM", model.FormatBytes(m.host.TotalMemory))
	}
	return t
}

const rowFormat = "%-7s %-12s %7s %11s  %s"

// renderTable renders the rows inside the scroll window.
func (m monitor) renderTable(st *view.State) string {
	var sb strings.Builder
	header := fmt.Sprintf(rowFormat, "PID", "USER", "CPU(%)", "MEMORY(MB)", "NAME")
	sb.WriteString(headerStyle.Render(header) + "\n")
	sb.WriteString(separatorStyle.Render(strings.Repeat("─", max(len(header)+model.NameWidth-4, 20))) + "\n")

	rows := st.VisibleSlice()
	if len(rows) == 0 {
		sb.WriteString(helpStyle.Render("  Collecting process data...") + "\n")
		return sb.String()
	}
	for _, v := range rows {
		sb.WriteString(formatRow(v) + "\n")
	}
	return sb.String()
}

func formatRow(v model.ProcessView) string {
	cpu := fmt.Sprintf("%7.1f", v.CPUPercent)
	switch {
	case v.CPUPercent >= 80:
		cpu = cpuHot.Render(cpu)
	case v.CPUPercent >= 30:
		cpu = cpuWarm.Render(cpu)
	}
	return fmt.Sprintf("%-7d %-12s %s %11.1f  %s",
		v.PID,
		model.Truncate(v.Owner, 12),
		cpu,
		v.MemoryMB,
		model.Truncate(v.Name, model.NameWidth),
	)
}

// renderDetails shows the metadata lines full screen, cut to the terminal.
func (m monitor) renderDetails() string {
	lines := m.ctl.Details()
	room := m.height - 1
	if room < 1 {
		room = 1
	}
	if len(lines) > room {
		lines = lines[:room]
	}
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(truncateVisual(l, m.width) + "\n")
	}
	sb.WriteString(helpStyle.Render("Press any key to return"))
	return sb.String()
}

// overlayCenter places an overlay panel in the center of the base view.
func (m monitor) overlayCenter(base, overlay string) string {
	overlayWidth := 0
	for _, l := range strings.Split(overlay, "\n") {
		if w := lipgloss.Width(l); w > overlayWidth {
			overlayWidth = w
		}
	}

	box := overlayStyle.Width(overlayWidth + 4).Render(overlay)
	boxLines := strings.Split(box, "\n")
	boxWidth := lipgloss.Width(box)

	baseLines := strings.Split(base, "\n")
	startY := max((m.height-len(boxLines))/2, 0)
	startX := max((m.width-boxWidth)/2, 0)

	for len(baseLines) < startY+len(boxLines) {
		baseLines = append(baseLines, "")
	}

	for i, boxLine := range boxLines {
		y := startY + i
		baseLine := baseLines[y]
		var result strings.Builder
		if startX > 0 {
			if w := lipgloss.Width(baseLine); w >= startX {
				result.WriteString(truncateVisual(baseLine, startX))
			} else {
				result.WriteString(baseLine)
				result.WriteString(strings.Repeat(" ", startX-w))
			}
		}
		result.WriteString(boxLine)
		baseLines[y] = result.String()
	}

	if m.height > 0 && len(baseLines) > m.height {
		baseLines = baseLines[:m.height]
	}
	return strings.Join(baseLines, "\n")
}

// truncateVisual truncates a string to n runes (best effort; ignores ANSI).
func truncateVisual(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
