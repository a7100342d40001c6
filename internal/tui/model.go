// Package tui provides a terminal viewer for reviewing rejected lines.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/thirteenf/internal/tui/themes"
)

// headerHeight and footerHeight are the rows around the viewport.
const (
	headerHeight = 2
	footerHeight = 2
)

// Model is the review viewer state.
type Model struct {
	viewport    viewport.Model
	help        help.Model
	theme       themes.Theme
	path        string
	lines       []string
	keymap      KeyMap
	width       int
	height      int
	showNumbers bool
	quitting    bool
}

// NewModel creates a viewer over lines read from path.
func NewModel(path string, lines []string, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := Model{
		path:        path,
		lines:       lines,
		theme:       cfg.Theme,
		keymap:      DefaultKeyMap(),
		help:        help.New(),
		showNumbers: cfg.ShowLineNumbers,
		viewport:    viewport.New(cfg.Width, max(cfg.Height-headerHeight-footerHeight, 1)),
	}
	m.viewport.MouseWheelEnabled = cfg.MouseSupport
	m.width = cfg.Width
	m.height = cfg.Height
	m.viewport.SetContent(m.renderContent())
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
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.ToggleNumbers):
			m.showNumbers = !m.showNumbers
			m.viewport.SetContent(m.renderContent())
			return m, nil
		case key.Matches(msg, m.keymap.ToggleHelp):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		case key.Matches(msg, m.keymap.Home):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keymap.End):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.viewport.View(),
		m.footerView(),
	)
}

// resize fits the viewport between the header and the help footer.
func (m *Model) resize() {
	footer := footerHeight
	if m.help.ShowAll {
		footer += len(m.keymap.FullHelp()[0]) - 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-headerHeight-footer, 1)
}

func (m Model) headerView() string {
	title := m.theme.Title.Render(fmt.Sprintf("%d rejected lines", len(m.lines)))
	path := m.theme.Subtitle.Render(m.path)
	return title + "  " + path + "\n"
}

func (m Model) footerView() string {
	status := m.theme.StatusBar.Render(fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100))
	return "\n" + status + "  " + m.help.View(m.keymap)
}

// renderContent renders every line, with a gutter when line numbers are on.
func (m Model) renderContent() string {
	if len(m.lines) == 0 {
		return m.theme.Help.Render("No rejected lines.")
	}

	digits := len(fmt.Sprint(len(m.lines)))
	var b strings.Builder
	for i, line := range m.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if m.showNumbers {
			b.WriteString(m.theme.LineNumber.Render(fmt.Sprintf("%*d", digits, i+1)))
			b.WriteString("  ")
		}
		b.WriteString(line)
	}
	return b.String()
}
