package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mclellan/stocktalk/internal/chat"
	"github.com/mclellan/stocktalk/internal/domain"
	"github.com/mclellan/stocktalk/internal/logging"
)

const sidebarWidth = 34

// Submitter accepts user input for asynchronous processing.
type Submitter interface {
	Submit(sessionID, text string)
}

// ThemeStore persists the theme preference.
type ThemeStore interface {
	SetTheme(dark bool) error
}

// refreshMsg signals that session state changed outside the update loop.
type refreshMsg struct{}

// Model is the bubbletea model for the chat interface.
type Model struct {
	store   *chat.Store
	submit  Submitter
	prefs   ThemeStore
	updates chan struct{}
	log     *logging.Logger

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	styles   Styles
	dark     bool

	width  int
	height int
	ready  bool
}

// New builds the chat model. dark selects the initial theme.
func New(store *chat.Store, submit Submitter, prefs ThemeStore, dark bool, log *logging.Logger) Model {
	theme := LightTheme()
	if dark {
		theme = DarkTheme()
	}
	styles := NewStyles(theme)

	input := textinput.New()
	input.Placeholder = "Ask about your inventory..."
	input.Prompt = "› "
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Prompt

	return Model{
		store:   store,
		submit:  submit,
		prefs:   prefs,
		updates: make(chan struct{}, 1),
		log:     log.Sub("ui"),
		input:   input,
		spin:    spin,
		styles:  styles,
		dark:    dark,
	}
}

// Notify wakes the update loop after a background state change. Safe to
// call from any goroutine; wire it to the dispatcher's notify hook.
func (m Model) Notify() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}

func (m Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		<-m.updates
		return refreshMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.waitForUpdate())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chatWidth := m.width - sidebarWidth - 2
		if chatWidth < 20 {
			chatWidth = 20
		}
		bodyHeight := m.height - 4
		if bodyHeight < 3 {
			bodyHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(chatWidth, bodyHeight)
			m.ready = true
		} else {
			m.viewport.Width = chatWidth
			m.viewport.Height = bodyHeight
		}
		m.input.Width = m.width - 4
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case refreshMsg:
		m.refresh()
		return m, m.waitForUpdate()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.store.Loading(m.store.Active()) {
			m.refresh()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		active := m.store.Active()
		// Input is disabled while a request for the session is in flight.
		if m.store.Loading(active) {
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		if text != "" {
			m.submit.Submit(active, text)
			m.input.Reset()
			m.refresh()
		}
		return m, nil

	case "ctrl+n":
		id := m.store.NewSession()
		if err := m.store.SetActive(id); err != nil {
			m.log.Warn().Err(err).Msg("activating new session")
		}
		m.refresh()
		return m, nil

	case "ctrl+x":
		m.store.Delete(m.store.Active())
		m.refresh()
		return m, nil

	case "ctrl+t":
		m.toggleTheme()
		m.refresh()
		return m, nil

	case "tab":
		m.cycleActive(1)
		m.refresh()
		return m, nil

	case "shift+tab":
		m.cycleActive(-1)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) toggleTheme() {
	m.dark = !m.dark
	theme := LightTheme()
	if m.dark {
		theme = DarkTheme()
	}
	m.styles = NewStyles(theme)
	m.spin.Style = m.styles.Prompt
	if err := m.prefs.SetTheme(m.dark); err != nil {
		m.log.Warn().Err(err).Msg("saving theme preference")
	}
}

func (m *Model) cycleActive(delta int) {
	sessions := m.store.Sessions()
	if len(sessions) < 2 {
		return
	}
	active := m.store.Active()
	idx := 0
	for i, s := range sessions {
		if s.ID == active {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(sessions)) % len(sessions)
	if err := m.store.SetActive(sessions[idx].ID); err != nil {
		m.log.Warn().Err(err).Msg("switching session")
	}
}

// refresh rebuilds the viewport from the active session transcript.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	active := m.store.Active()
	session, found := m.store.Get(active)
	if !found {
		m.viewport.SetContent("")
		return
	}

	var sb strings.Builder
	for _, msg := range session.Messages {
		sb.WriteString(m.renderMessage(msg))
		sb.WriteString("\n")
	}
	if m.store.Loading(active) {
		sb.WriteString(m.spin.View())
		sb.WriteString(m.styles.Muted.Render(" thinking"))
		sb.WriteString("\n")
	}

	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(sb.String()))
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg domain.Message) string {
	switch {
	case msg.Role == domain.RoleUser:
		return m.styles.Prompt.Render("you ") + m.styles.UserText.Render(msg.Content)

	case msg.Kind == domain.KindImage:
		return m.styles.Muted.Render("chart: ") + m.styles.Body.Render(msg.Content)

	default:
		if table, ok := RenderTable([]byte(msg.Content), m.styles); ok {
			return table
		}
		if msg.Content == "An error occurred. Please try again." {
			return m.styles.ErrorText.Render(msg.Content)
		}
		return m.styles.BotText.Render(msg.Content)
	}
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.styles.Header.Render("stocktalk")

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.styles.Sidebar.Height(m.viewport.Height).Render(m.renderSidebar()),
		m.viewport.View(),
	)

	footer := m.styles.Footer.Render(
		"enter send · ctrl+n new · ctrl+x delete · tab switch · ctrl+t theme · ctrl+c quit")

	return strings.Join([]string{header, body, m.input.View(), footer}, "\n")
}

func (m Model) renderSidebar() string {
	sessions := m.store.Sessions()
	active := m.store.Active()

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(fmt.Sprintf("Sessions (%d)", len(sessions))))
	sb.WriteString("\n")
	for _, s := range sessions {
		title := s.Title()
		if m.store.Loading(s.ID) {
			title += " " + m.spin.View()
		}
		if s.ID == active {
			sb.WriteString(m.styles.ActiveItem.Render("▸ " + title))
		} else {
			sb.WriteString(m.styles.SidebarItem.Render("  " + title))
		}
		sb.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(sidebarWidth).Render(sb.String())
}
