package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/encounter-engine/pkg/combatant"
	"github.com/jwebster45206/encounter-engine/pkg/encounter"
	"github.com/muesli/reflow/wordwrap"
)

const (
	AgentName       = "Referee"
	PlaceHolderText = "Describe your action..."
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	session      *encounter.Session
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Scenario setup state
	showSetupModal bool

	// Quit confirmation state
	showQuitModal bool

	// Concluded state
	summary string

	// Progress bar state
	progressTick int

	// Transient status line (copy confirmations etc.)
	notice string
}

type actionResultMsg struct {
	entry *encounter.LogEntry
	err   error
}

type sessionMsg struct {
	session *encounter.Session
	err     error
}

type commandResultMsg struct {
	session *encounter.Session
	err     error
}

type concludeResultMsg struct {
	summary string
	err     error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	refereeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	swipeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")) // violet

	protectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")). // gold
			Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // orange

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, session *encounter.Session) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:         cfg,
		client:         client,
		session:        session,
		textarea:       ta,
		chatViewport:   chatVp,
		metaViewport:   metaVp,
		ready:          false,
		showSetupModal: session.Status == encounter.StatusConfiguring,
	}
}

// writeChatContent builds the log content from the session for the current
// viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("ENCOUNTER ENGINE") + "\n\n")
	content.WriteString("Describe your actions below. The referee narrates the outcome.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 10))) + "\n\n")

	if m.session != nil {
		actionIdx := 0
		for _, entry := range m.session.Log.Entries {
			// Interleave the player action that produced this entry
			if entry.Kind == encounter.EntryNarrative && actionIdx < len(m.session.ActionHistory) {
				for actionIdx < len(m.session.ActionHistory) {
					msg := m.session.ActionHistory[actionIdx]
					actionIdx++
					if msg.Role == "user" {
						content.WriteString(userStyle.Render("You: ") + wordwrap.String(msg.Content, chatWidth-6) + "\n\n")
						break
					}
				}
			}

			switch entry.Kind {
			case encounter.EntryNarrative:
				text := wordwrap.String(entry.ActiveText(), chatWidth-6)
				content.WriteString(refereeStyle.Render(AgentName+": ") + text)
				if len(entry.Swipes) > 1 {
					content.WriteString(" " + swipeStyle.Render(fmt.Sprintf("(%d/%d)", entry.ActiveSwipe+1, len(entry.Swipes))))
				}
				content.WriteString("\n\n")
			case encounter.EntrySystem:
				content.WriteString(loadingStyle.Render(wordwrap.String(entry.ActiveText(), chatWidth-6)) + "\n\n")
			case encounter.EntryError:
				content.WriteString(errorStyle.Render(wordwrap.String(entry.ActiveText(), chatWidth-6)) + "\n\n")
			}
		}
	}

	if m.notice != "" {
		content.WriteString(promptStyle.Render(m.notice) + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func writeMetadata(s *encounter.Session) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("ENCOUNTER") + "\n\n")

	content.WriteString(fmt.Sprintf("Turn %d  [%s]\n\n", s.Turn, s.Status))

	content.WriteString(titleStyle.Render("Party") + "\n")
	writeRoster(&content, s.Party)

	content.WriteString("\n" + titleStyle.Render("Opposition") + "\n")
	writeRoster(&content, s.Opposition)

	if len(s.PendingParty) > 0 || len(s.PendingOpposition) > 0 {
		content.WriteString("\n" + pendingStyle.Render("Pending approval:") + "\n")
		for _, c := range s.PendingParty {
			content.WriteString(pendingStyle.Render(fmt.Sprintf("? %s (party)", c.Name)) + "\n")
		}
		for _, c := range s.PendingOpposition {
			content.WriteString(pendingStyle.Render(fmt.Sprintf("? %s (opposition)", c.Name)) + "\n")
		}
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Enter: Act\n")
	content.WriteString("• Ctrl+Y: Copy last\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• /help: More\n")

	return content.String()
}

func writeRoster(content *strings.Builder, roster combatant.Roster) {
	if len(roster) == 0 {
		content.WriteString(promptStyle.Render("(empty)") + "\n")
		return
	}
	for i := range roster {
		c := &roster[i]
		name := c.Name
		if c.IsProtected {
			name = protectedStyle.Render("★ " + name)
		}
		content.WriteString(fmt.Sprintf("%s\n", name))
		content.WriteString(fmt.Sprintf("  %s %d/%d\n", renderHPBar(c.HP, c.MaxHP, 10), c.HP, c.MaxHP))
		for _, bar := range c.CustomBars {
			content.WriteString(fmt.Sprintf("  %s: %d/%d\n", bar.Name, bar.Current, bar.Max))
		}
		if len(c.Statuses) > 0 {
			var markers []string
			for _, st := range c.Statuses {
				markers = append(markers, fmt.Sprintf("%s %s(%d)", st.Marker, st.Name, st.RemainingTurns))
			}
			content.WriteString("  " + strings.Join(markers, " ") + "\n")
		}
	}
}

func renderHPBar(hp, maxHP, width int) string {
	if maxHP <= 0 {
		return strings.Repeat("░", width)
	}
	filled := (hp * width) / maxHP
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showSetupModal {
		return m.updateSetupModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.writeChatContent()
		if m.session != nil {
			m.metaViewport.SetContent(writeMetadata(m.session))
		}
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			m.copyLastNarrative()
			m.writeChatContent()
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.notice = ""
			m.loading = true
			m.progressTick = 0
			m.writeChatContent()

			return m, tea.Batch(m.submitAction(input), progressTick())
		}

	case actionResultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.notice = ""
			m.writeChatContent()
			currentContent := m.chatViewport.View()
			errorMsg := errorStyle.Render("Error: "+msg.err.Error()) + "\n\n"
			m.chatViewport.SetContent(currentContent + errorMsg)
		}
		m.chatViewport.GotoBottom()
		return m, m.refreshSession()

	case commandResultMsg:
		m.loading = false
		if msg.err != nil {
			m.notice = "Error: " + msg.err.Error()
		} else if msg.session != nil {
			m.session = msg.session
			m.metaViewport.SetContent(writeMetadata(m.session))
		}
		m.writeChatContent()
		return m, nil

	case concludeResultMsg:
		m.loading = false
		if msg.err != nil {
			m.notice = "Error: " + msg.err.Error()
			m.writeChatContent()
			return m, nil
		}
		m.summary = msg.summary
		return m, nil

	case sessionMsg:
		if msg.err == nil && msg.session != nil {
			m.session = msg.session
			m.metaViewport.SetContent(writeMetadata(m.session))
			m.writeChatContent()
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resize() {
	chatWidth := int(float64(m.width)*0.70) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m *ConsoleUI) copyLastNarrative() {
	entry := m.lastNarrative()
	if entry == nil {
		m.notice = "Nothing to copy"
		return
	}
	if err := clipboard.WriteAll(entry.ActiveText()); err != nil {
		m.notice = "Copy failed: " + err.Error()
		return
	}
	m.notice = "Copied narrative to clipboard"
}

func (m *ConsoleUI) lastNarrative() *encounter.LogEntry {
	if m.session == nil {
		return nil
	}
	for i := len(m.session.Log.Entries) - 1; i >= 0; i-- {
		if m.session.Log.Entries[i].Kind == encounter.EntryNarrative {
			return &m.session.Log.Entries[i]
		}
	}
	return nil
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.TrimSpace(input))
	cmd := strings.ToLower(fields[0])
	m.textarea.Reset()
	m.notice = ""

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /swipe prev|next - Browse alternate takes of the last narrative
• /regen - Regenerate the last narrative (narrative only)
• /regen! - Regenerate and re-apply its outcome
• /approve <name> [opp] - Approve a pending entity
• /reject <name> [opp] - Reject a pending entity
• /conclude [victory|defeat|flee|manual] - End the encounter
• Ctrl+Y - Copy last narrative to clipboard
• Ctrl+C - Quit
`
		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + titleStyle.Render("Help:") + helpText + "\n")
		m.chatViewport.GotoBottom()
		return m, nil

	case "/swipe":
		entry := m.lastNarrative()
		if entry == nil || len(fields) < 2 {
			m.notice = "Usage: /swipe prev|next"
			m.writeChatContent()
			return m, nil
		}
		index := entry.ActiveSwipe
		switch strings.ToLower(fields[1]) {
		case "prev":
			index--
		case "next":
			index++
		default:
			m.notice = "Usage: /swipe prev|next"
			m.writeChatContent()
			return m, nil
		}
		if index < 0 || index >= len(entry.Swipes) {
			m.notice = "No more takes in that direction"
			m.writeChatContent()
			return m, nil
		}
		return m, m.postCommandCmd("swipe", map[string]interface{}{
			"entry_id": entry.ID,
			"index":    index,
		})

	case "/regen", "/regen!":
		entry := m.lastNarrative()
		if entry == nil {
			m.notice = "Nothing to regenerate"
			m.writeChatContent()
			return m, nil
		}
		m.loading = true
		m.progressTick = 0
		m.writeChatContent()
		return m, tea.Batch(m.postCommandCmd("regenerate", map[string]interface{}{
			"entry_id":       entry.ID,
			"also_reconcile": cmd == "/regen!",
		}), progressTick())

	case "/approve", "/reject":
		if len(fields) < 2 {
			m.notice = "Usage: " + cmd + " <name> [opp]"
			m.writeChatContent()
			return m, nil
		}
		opposition := len(fields) > 2 && strings.HasPrefix(strings.ToLower(fields[len(fields)-1]), "opp")
		name := strings.Join(fields[1:], " ")
		if opposition {
			name = strings.Join(fields[1:len(fields)-1], " ")
		}
		return m, m.postCommandCmd(strings.TrimPrefix(cmd, "/"), map[string]interface{}{
			"name":       name,
			"opposition": opposition,
		})

	case "/conclude":
		reason := "manual"
		if len(fields) > 1 {
			reason = strings.ToLower(fields[1])
		}
		m.loading = true
		m.progressTick = 0
		m.writeChatContent()
		return m, tea.Batch(m.concludeCmd(reason), progressTick())

	default:
		m.notice = "Unknown command. Try /help"
		m.writeChatContent()
		return m, nil
	}
}

func (m ConsoleUI) submitAction(action string) tea.Cmd {
	return func() tea.Msg {
		entry, err := sendAction(m.client, m.config.APIBaseURL, action)
		return actionResultMsg{entry, err}
	}
}

func (m ConsoleUI) refreshSession() tea.Cmd {
	return func() tea.Msg {
		session, err := getSession(m.client, m.config.APIBaseURL)
		return sessionMsg{session, err}
	}
}

func (m ConsoleUI) postCommandCmd(path string, body interface{}) tea.Cmd {
	return func() tea.Msg {
		session, err := postCommand(m.client, m.config.APIBaseURL, path, body)
		return commandResultMsg{session, err}
	}
}

func (m ConsoleUI) concludeCmd(reason string) tea.Cmd {
	return func() tea.Msg {
		summary, err := concludeSession(m.client, m.config.APIBaseURL, reason)
		return concludeResultMsg{summary, err}
	}
}

func (m ConsoleUI) beginEncounter(scenario string) tea.Cmd {
	return func() tea.Msg {
		session, err := postCommand(m.client, m.config.APIBaseURL, "begin", map[string]string{
			"scenario": scenario,
		})
		return commandResultMsg{session, err}
	}
}

func (m ConsoleUI) updateSetupModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(56)

	case commandResultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.showSetupModal = false
		m.err = nil
		m.resize()
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.session))
		m.textarea.Reset()
		m.textarea.Placeholder = PlaceHolderText
		m.textarea.Focus()
		m.ready = true
		return m, textarea.Blink

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			return m, progressTick()
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			scenario := strings.TrimSpace(m.textarea.Value())
			if scenario == "" {
				return m, nil
			}
			m.loading = true
			m.progressTick = 0
			return m, tea.Batch(m.beginEncounter(scenario), progressTick())
		}
	}

	var tiCmd tea.Cmd
	m.textarea, tiCmd = m.textarea.Update(msg)
	return m, tiCmd
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if !m.showSetupModal {
					m.textarea.Focus()
					return m, textarea.Blink
				}
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Your encounter is saved and can be resumed later.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderSetupModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loading {
		content.WriteString(modalTitleStyle.Render("Setting the Scene..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("The referee is preparing your encounter..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Describe Your Encounter"))
		content.WriteString("\n\n")
		content.WriteString("Who is fighting whom, and where?\n\n")
		content.WriteString(m.textarea.View())
		content.WriteString("\n")
		if m.err != nil {
			content.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
		}
		content.WriteString(promptStyle.Render("Press Enter to begin, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(64).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderSummary() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Encounter Concluded"))
	content.WriteString("\n\n")
	content.WriteString(wordwrap.String(m.summary, 56))
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Ctrl+C to exit"))

	modal := modalStyle.Width(64).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.summary != "" {
		return m.renderSummary()
	}

	if m.showSetupModal {
		return m.renderSetupModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.70) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 10))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
