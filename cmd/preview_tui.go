// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Thermoquad/moonlight/pkg/moonboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Event log entry
type eventEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// TUI model
type previewModel struct {
	connInfo   string
	palette    moonboard.Palette
	holds      *moonboard.HoldMap
	inject     func([]byte) bool
	started    time.Time
	frame      []moonboard.Color
	frames     uint64
	status     statusMsg
	events     []eventEntry
	maxEvents  int
	eventLog   viewport.Model
	input      textinput.Model
	additional bool
	width      int
	height     int
	quitting   bool
}

// Messages
type tickMsg time.Time
type frameMsg struct {
	seq   uint64
	frame []moonboard.Color
}
type eventMsg struct {
	message string
	isError bool
}
type statusMsg struct {
	stats     moonboard.Statistics
	loaded    time.Time
	hasLoaded bool
	autoOff   time.Duration
}

// formatElapsed formats a duration in milliseconds to a human-friendly string
func formatElapsed(ms uint64) string {
	if ms == 0 {
		return "0 seconds"
	}

	seconds := ms / 1000
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	seconds %= 60
	minutes %= 60
	hours %= 24

	parts := []string{}
	for _, unit := range []struct {
		n    uint64
		name string
	}{
		{days, "day"},
		{hours, "hour"},
		{minutes, "minute"},
	} {
		switch {
		case unit.n == 1:
			parts = append(parts, "1 "+unit.name)
		case unit.n > 1:
			parts = append(parts, fmt.Sprintf("%d %ss", unit.n, unit.name))
		}
	}
	if seconds > 0 || len(parts) == 0 {
		if seconds == 1 {
			parts = append(parts, "1 second")
		} else {
			parts = append(parts, fmt.Sprintf("%d seconds", seconds))
		}
	}

	// Join with commas and "and" for last item
	if len(parts) == 1 {
		return parts[0]
	}
	if len(parts) == 2 {
		return parts[0] + " and " + parts[1]
	}
	last := parts[len(parts)-1]
	rest := strings.Join(parts[:len(parts)-1], ", ")
	return rest + ", and " + last
}

// splitHoldInput splits "S12 R5,E20" into hold tokens
func splitHoldInput(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
}

func newPreviewModel(connInfo string, palette moonboard.Palette, holds *moonboard.HoldMap, inject func([]byte) bool) previewModel {
	ti := textinput.New()
	ti.Placeholder = "S12 R40 L75 E197"
	ti.Prompt = "> "
	ti.CharLimit = moonboard.MaxPayloadSize
	ti.Focus()

	return previewModel{
		connInfo:  connInfo,
		palette:   palette,
		holds:     holds,
		inject:    inject,
		started:   time.Now(),
		maxEvents: 100,
		eventLog:  viewport.New(76, 8),
		input:     ti,
		width:     80,
		height:    24,
	}
}

func (m previewModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		textinput.Blink,
		tea.EnterAltScreen,
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.additional = !m.additional
			return m, nil
		case "enter":
			m.submit()
			return m, nil
		case "pgup", "pgdown":
			m.eventLog, cmd = m.eventLog.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLog()

	case tickMsg:
		return m, tickCmd()

	case frameMsg:
		m.frame = msg.frame
		m.frames = msg.seq

	case statusMsg:
		m.status = msg

	case eventMsg:
		m.addEvent(msg.message, msg.isError)
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit encodes the input line as a problem and queues it for rendering
func (m *previewModel) submit() {
	holds, err := moonboard.ParseHoldList(splitHoldInput(m.input.Value()))
	if err != nil {
		m.addEvent(err.Error(), true)
		return
	}

	data, err := moonboard.EncodeProblem(holds, m.additional)
	if err != nil {
		m.addEvent(err.Error(), true)
		return
	}

	if !m.inject(data) {
		m.addEvent("input buffer full, problem dropped", true)
		return
	}
	m.addEvent(fmt.Sprintf("Sent %s", data), false)
	m.input.Reset()
}

func (m *previewModel) addEvent(message string, isError bool) {
	entry := eventEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.events = append(m.events, entry)

	// Keep only last N entries
	if len(m.events) > m.maxEvents {
		m.events = m.events[len(m.events)-m.maxEvents:]
	}

	m.eventLog.SetContent(m.renderEvents())
	m.eventLog.GotoBottom()
}

func (m *previewModel) resizeLog() {
	// Board grid, header, stats and input take about 34 lines
	m.eventLog.Width = max(m.width-4, 20)
	m.eventLog.Height = max(m.height-34, 5)
	m.eventLog.SetContent(m.renderEvents())
	m.eventLog.GotoBottom()
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statsLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// terminalColor scales a strip color to full brightness for display
func terminalColor(c moonboard.Color) lipgloss.Color {
	peak := max(c.R, c.G, c.B)
	if peak == 0 {
		return lipgloss.Color("#000000")
	}
	scale := func(v uint8) uint8 {
		return uint8(uint16(v) * 255 / uint16(peak))
	}
	return lipgloss.Color(moonboard.Color{R: scale(c.R), G: scale(c.G), B: scale(c.B)}.Hex())
}

// pixel returns the committed color of a strip pixel
func (m previewModel) pixel(index int) moonboard.Color {
	if index < 0 || index >= len(m.frame) {
		return moonboard.Color{}
	}
	return m.frame[index]
}

// renderBoard draws the board with row 18 at the top
func (m previewModel) renderBoard() string {
	var s strings.Builder

	s.WriteString("    ")
	for col := 0; col < moonboard.DefaultColumns; col++ {
		s.WriteString(headerStyle.Render(fmt.Sprintf(" %c", 'A'+col)))
	}
	s.WriteString("\n")

	for row := moonboard.DefaultRows - 1; row >= 0; row-- {
		s.WriteString(headerStyle.Render(fmt.Sprintf("%3d ", row+1)))
		for col := 0; col < moonboard.DefaultColumns; col++ {
			s.WriteString(" ")
			s.WriteString(m.renderCell(moonboard.Position{Column: col, Row: row}))
		}
		s.WriteString("\n")
	}

	return strings.TrimSuffix(s.String(), "\n")
}

func (m previewModel) renderCell(pos moonboard.Position) string {
	index, _ := moonboard.HoldIndex(pos)
	entry, ok := m.holds.Lookup(index)
	if !ok {
		return headerStyle.Render(" ")
	}

	style := lipgloss.NewStyle()
	if entry.HasAdditional() {
		if marker := m.pixel(entry.AdditionalPixel()); !marker.IsOff() {
			style = style.Underline(true)
		}
	}

	c := m.pixel(entry.Pixel)
	if c.IsOff() {
		return style.Foreground(lipgloss.Color("238")).Render("·")
	}
	return style.Foreground(terminalColor(c)).Bold(true).Render("●")
}

func (m previewModel) renderEvents() string {
	if len(m.events) == 0 {
		return headerStyle.Render("  (no events yet)")
	}

	var s strings.Builder
	for _, entry := range m.events {
		timestamp := entry.timestamp.Format("15:04:05.000")
		if entry.isError {
			fmt.Fprintf(&s, "%s %s\n", headerStyle.Render(timestamp), errorStyle.Render("✗ "+entry.message))
		} else {
			fmt.Fprintf(&s, "%s %s\n", headerStyle.Render(timestamp), warningStyle.Render("ℹ "+entry.message))
		}
	}
	return strings.TrimSuffix(s.String(), "\n")
}

func (m previewModel) renderStats() string {
	stats := m.status.stats

	var s strings.Builder
	fmt.Fprintf(&s, "%s %s   %s %s   %s %s\n",
		statsLabelStyle.Render("Problems:"), statsValueStyle.Render(fmt.Sprintf("%d", stats.Problems)),
		statsLabelStyle.Render("Holds:"), statsValueStyle.Render(fmt.Sprintf("%d", stats.PrimaryWrites)),
		statsLabelStyle.Render("Markers:"), statsValueStyle.Render(fmt.Sprintf("%d", stats.AdditionalWrites)),
	)

	discarded := statsValueStyle.Render("0")
	if stats.DiscardedHolds > 0 {
		discarded = errorStyle.Render(fmt.Sprintf("%d", stats.DiscardedHolds))
	}
	fmt.Fprintf(&s, "%s %s", statsLabelStyle.Render("Discarded:"), discarded)
	if stats.DiscardedHolds > 0 {
		fmt.Fprintf(&s, " (%s: %d, %s: %d, %s: %d, %s: %d)",
			headerStyle.Render("empty"), stats.EmptyTokens,
			headerStyle.Render("unknown kind"), stats.UnknownKinds,
			headerStyle.Render("bad index"), stats.InvalidIndexes,
			headerStyle.Render("out of range"), stats.OutOfRange,
		)
	}
	fmt.Fprintf(&s, "   %s %d   %s %d\n",
		statsLabelStyle.Render("Overflows:"), stats.Overflows,
		statsLabelStyle.Render("Auto-offs:"), stats.AutoOffs,
	)

	last := headerStyle.Render("none")
	if m.status.hasLoaded {
		elapsed := time.Since(m.status.loaded)
		last = statsValueStyle.Render(formatElapsed(uint64(elapsed.Milliseconds())) + " ago")
	}
	autoOff := headerStyle.Render("disabled")
	if m.status.autoOff > 0 {
		autoOff = statsValueStyle.Render(formatElapsed(uint64(m.status.autoOff.Milliseconds())))
	}
	fmt.Fprintf(&s, "%s %s   %s %s\n",
		statsLabelStyle.Render("Last problem:"), last,
		statsLabelStyle.Render("Auto-off:"), autoOff,
	)

	fmt.Fprintf(&s, "%s %s   %s %s",
		statsLabelStyle.Render("Frames:"), statsValueStyle.Render(fmt.Sprintf("%d", m.frames)),
		statsLabelStyle.Render("Uptime:"), statsValueStyle.Render(formatElapsed(uint64(time.Since(m.started).Milliseconds()))),
	)

	return s.String()
}

func (m previewModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("MOONLIGHT - BOARD PREVIEW"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Press 'esc' to quit", m.connInfo)))
	s.WriteString("\n\n")

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(m.renderBoard()),
		" ",
		boxStyle.Render(m.renderStats()),
	))
	s.WriteString("\n")

	mode := "off"
	if m.additional {
		mode = "on"
	}
	s.WriteString(statsLabelStyle.Render("Load problem"))
	s.WriteString(headerStyle.Render(fmt.Sprintf(" (enter to send, tab toggles additional LEDs: %s)", mode)))
	s.WriteString("\n")
	s.WriteString(m.input.View())
	s.WriteString("\n\n")

	s.WriteString(statsLabelStyle.Render("Recent Events:"))
	s.WriteString("\n")
	s.WriteString(boxStyle.Width(m.width - 4).Render(m.eventLog.View()))

	return s.String()
}
