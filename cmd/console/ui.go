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
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"

	"github.com/sagaforge/adventure-engine/internal/handlers"
	"github.com/sagaforge/adventure-engine/pkg/adventure"
	"github.com/sagaforge/adventure-engine/pkg/character"
	"github.com/sagaforge/adventure-engine/pkg/chat"
	"github.com/sagaforge/adventure-engine/pkg/settings"
)

const (
	AgentName       = "Narrator"
	PlaceHolderText = "What do you do next?"
	NewAdventure    = "New adventure"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	gameState    *adventure.GameState
	transcript   []chat.ChatMessage
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Adventure selection state
	showAdventureModal bool
	saves              []adventure.SavedAdventure
	selectedEntry      int
	loadingAdventures  bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type turnResponseMsg struct {
	response *handlers.TurnResponse
	err      error
}

type craftResponseMsg struct {
	response *handlers.CraftResponse
	err      error
}

type adventuresLoadedMsg struct {
	saves []adventure.SavedAdventure
	err   error
}

type skillTreeMsg struct {
	tree *character.SkillTree
	err  error
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

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

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

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = chat.MaxActionLength
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:             cfg,
		client:             client,
		textarea:           ta,
		chatViewport:       chatVp,
		metaViewport:       metaVp,
		ready:              false,
		showAdventureModal: true,
		loadingAdventures:  true,
		selectedEntry:      0,
	}
}

func writeMetadata(gs *adventure.GameState) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("ADVENTURE") + "\n\n")

	if gs.CurrentAdventureID != uuid.Nil {
		content.WriteString("Adventure ID:\n")
		content.WriteString(gs.CurrentAdventureID.String()[:8] + "...\n\n")
	}

	if gs.GameStateString != "" {
		content.WriteString(gs.GameStateString + "\n")
	} else if gs.Character != nil {
		content.WriteString(fmt.Sprintf("%s, Level %d %s\n", gs.Character.Name, gs.Character.Level, gs.Character.Class))
	}

	if gs.IsGeneratingSkillTree {
		content.WriteString("\n")
		content.WriteString(loadingStyle.Render("Generating skill tree...") + "\n")
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Ctrl+Y: Copy narration\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /craft: Craft an item\n")

	return content.String()
}

// writeChatContent builds the chat content from the transcript for the
// current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("ADVENTURE ENGINE") + "\n\n")
	content.WriteString("Type your actions below to shape the story.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth-6)) + "\n\n")

	for _, msg := range m.transcript {
		switch msg.Role {
		case chat.ChatRoleAgent, chat.ChatRoleSystem:
			formattedMsg := formatNarratorResponse(msg.Content, chatWidth)
			content.WriteString(formattedMsg + "\n\n")
		case chat.ChatRoleUser:
			userMsg := userStyle.Render("You: ") + wordwrap.String(msg.Content, chatWidth-6) + "\n\n"
			content.WriteString(userMsg)
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showAdventureModal {
		return m.loadAdventures()
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showAdventureModal {
		return m.updateAdventureModal(msg)
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
		m.resizePanels()
		m.writeChatContent()
		if m.gameState != nil {
			m.metaViewport.SetContent(writeMetadata(m.gameState))
		}
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			if m.gameState != nil && m.gameState.CurrentNarration != "" {
				_ = clipboard.WriteAll(m.gameState.CurrentNarration)
			}
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
			m.loading = true
			m.progressTick = 0

			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleUser,
				Content: input,
			})
			m.writeChatContent()

			return m, tea.Batch(m.sendTurn(input), progressTick())
		}

	case turnResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
			currentContent := m.chatViewport.View()
			errorMsg := errorStyle.Render("Error: "+msg.err.Error()) + "\n\n"
			m.chatViewport.SetContent(currentContent + errorMsg)
		} else {
			m.gameState = msg.response.GameState
			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleAgent,
				Content: msg.response.Narration,
			})
			if msg.response.Defeated {
				m.transcript = append(m.transcript, m.defeatNotice())
			}
			m.writeChatContent()
			m.metaViewport.SetContent(writeMetadata(m.gameState))
		}
		m.chatViewport.GotoBottom()
		return m, nil

	case craftResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
			currentContent := m.chatViewport.View()
			errorMsg := errorStyle.Render("Error: "+msg.err.Error()) + "\n\n"
			m.chatViewport.SetContent(currentContent + errorMsg)
		} else {
			m.gameState = msg.response.GameState
			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleAgent,
				Content: msg.response.Message,
			})
			m.writeChatContent()
			m.metaViewport.SetContent(writeMetadata(m.gameState))
		}
		m.chatViewport.GotoBottom()
		return m, nil

	case skillTreeMsg:
		if msg.err == nil && msg.tree != nil && m.gameState != nil && m.gameState.Character != nil {
			gs := m.gameState.Clone()
			gs.Character = gs.Character.SetSkillTree(gs.Character.Class, msg.tree, nil)
			gs.IsGeneratingSkillTree = false
			m.gameState = gs
			m.metaViewport.SetContent(writeMetadata(m.gameState))
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

func (m *ConsoleUI) resizePanels() {
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m ConsoleUI) defeatNotice() chat.ChatMessage {
	if m.gameState != nil && m.gameState.Settings.PermanentDeath {
		return chat.ChatMessage{
			Role:    chat.ChatRoleSystem,
			Content: "Your adventure has ended. " + m.gameState.AdventureSummary,
		}
	}
	return chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: "You have fallen. Type /respawn to continue the adventure.",
	}
}

func formatNarratorResponse(response string, width int) string {
	// Check if response already has a speaker prefix
	hasPrefix := false
	if idx := strings.Index(response, ":"); idx > 0 && idx <= 20 {
		speaker := response[:idx]
		if len(strings.Fields(speaker)) <= 2 {
			hasPrefix = true
		}
	}

	// If no prefix, we'll add "Narrator: " so reduce available width
	wrapWidth := width
	if !hasPrefix {
		narratorPrefix := AgentName + ": "
		wrapWidth = width - len(narratorPrefix)
	}

	wrappedResponse := wordwrap.String(response, wrapWidth)
	lines := strings.Split(wrappedResponse, "\n")
	var formattedLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			formattedLines = append(formattedLines, "")
			continue
		}

		if idx := strings.Index(trimmed, ":"); idx > 0 && idx <= 20 {
			speaker := trimmed[:idx]
			rest := trimmed[idx+1:]
			if len(strings.Fields(speaker)) <= 2 {
				formattedLines = append(formattedLines, speakerStyle.Render(speaker+":")+rest)
				continue
			}
		}

		formattedLines = append(formattedLines, line)
	}

	result := strings.Join(formattedLines, "\n")
	if !hasPrefix && !strings.HasPrefix(strings.TrimSpace(result), speakerStyle.Render("")) {
		result = narratorStyle.Render(AgentName+": ") + result
	}

	return result
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	trimmed := strings.TrimSpace(input)
	cmd := strings.ToLower(trimmed)

	switch {
	case cmd == "/help":
		helpText := `
Commands:
• /help - Show this help
• /craft <item>: <ingredient>, <ingredient> - Attempt to craft an item
• /respawn - Recover after defeat (unless permadeath)
• Ctrl+Y - Copy the last narration
• Ctrl+C - Quit game

How to play:
• Type your actions and press Enter
• The narrator will respond to guide the story
• Be descriptive for better responses
`
		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + titleStyle.Render("Help:") + helpText + "\n")
		m.chatViewport.GotoBottom()

	case cmd == "/respawn":
		if m.gameState == nil || m.gameState.Character == nil {
			break
		}
		if m.gameState.Settings.PermanentDeath {
			currentContent := m.chatViewport.View()
			m.chatViewport.SetContent(currentContent + errorStyle.Render("Permadeath is on. The fallen stay fallen.") + "\n\n")
			m.chatViewport.GotoBottom()
			break
		}
		m.gameState = m.gameState.Respawn("", time.Now())
		m.transcript = append(m.transcript, chat.ChatMessage{
			Role:    chat.ChatRoleAgent,
			Content: m.gameState.CurrentNarration,
		})
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.gameState))

	case strings.HasPrefix(cmd, "/craft"):
		desired, ingredients, err := parseCraftCommand(trimmed)
		if err != nil {
			currentContent := m.chatViewport.View()
			m.chatViewport.SetContent(currentContent + errorStyle.Render(err.Error()) + "\n\n")
			m.chatViewport.GotoBottom()
			break
		}
		m.textarea.Reset()
		m.loading = true
		m.progressTick = 0
		m.transcript = append(m.transcript, chat.ChatMessage{
			Role:    chat.ChatRoleUser,
			Content: fmt.Sprintf("Attempts to craft %s from %s.", desired, strings.Join(ingredients, ", ")),
		})
		m.writeChatContent()
		return m, tea.Batch(m.sendCraft(desired, ingredients), progressTick())
	}

	m.textarea.Reset()
	return m, nil
}

// parseCraftCommand splits "/craft Rope Ladder: Rope, Plank" into the desired
// item and its ingredient list.
func parseCraftCommand(input string) (string, []string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(input, "/craft"))
	desired, ingredientPart, found := strings.Cut(rest, ":")
	desired = strings.TrimSpace(desired)
	if !found || desired == "" {
		return "", nil, fmt.Errorf("usage: /craft <item>: <ingredient>, <ingredient>")
	}

	var ingredients []string
	for _, ing := range strings.Split(ingredientPart, ",") {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	if len(ingredients) == 0 {
		return "", nil, fmt.Errorf("usage: /craft <item>: <ingredient>, <ingredient>")
	}
	return desired, ingredients, nil
}

func (m ConsoleUI) sendTurn(action string) tea.Cmd {
	gs := m.gameState
	return func() tea.Msg {
		resp, err := postTurn(m.client, m.config.APIBaseURL, gs, action)
		return turnResponseMsg{resp, err}
	}
}

func (m ConsoleUI) sendCraft(desired string, ingredients []string) tea.Cmd {
	gs := m.gameState
	return func() tea.Msg {
		resp, err := postCraft(m.client, m.config.APIBaseURL, gs, desired, ingredients)
		return craftResponseMsg{resp, err}
	}
}

func (m ConsoleUI) loadAdventures() tea.Cmd {
	return func() tea.Msg {
		saves, err := listAdventures(m.client, m.config.APIBaseURL)
		return adventuresLoadedMsg{saves, err}
	}
}

func (m ConsoleUI) generateSkillTree() tea.Cmd {
	class := m.config.CharacterClass
	return func() tea.Msg {
		tree, err := fetchSkillTree(m.client, m.config.APIBaseURL, class, "")
		return skillTreeMsg{tree, err}
	}
}

// startNewAdventure builds a fresh gameplay state client-side.
func (m *ConsoleUI) startNewAdventure() {
	gs := adventure.NewGameState()
	gs.Character = character.New(character.CreatePayload{
		Name:  m.config.CharacterName,
		Class: m.config.CharacterClass,
	})
	gs.Settings = gs.Settings.SetType(settings.TypeClassic)
	m.gameState = gs.StartGameplay(nil)
	m.transcript = []chat.ChatMessage{{
		Role:    chat.ChatRoleAgent,
		Content: fmt.Sprintf("A new adventure begins for %s the %s. What do you do first?", m.gameState.Character.Name, m.gameState.Character.Class),
	}}
}

// resumeAdventure restores a saved playthrough into the session.
func (m *ConsoleUI) resumeAdventure(sa adventure.SavedAdventure) {
	base := adventure.NewGameState()
	base.SavedAdventures[sa.ID] = sa
	m.gameState = base.LoadAdventure(sa.ID, nil)

	m.transcript = nil
	for _, entry := range m.gameState.StoryLog {
		m.transcript = append(m.transcript, chat.ChatMessage{
			Role:    chat.ChatRoleAgent,
			Content: entry.Narration,
		})
	}
	if len(m.transcript) == 0 {
		m.transcript = []chat.ChatMessage{{
			Role:    chat.ChatRoleAgent,
			Content: fmt.Sprintf("Welcome back, %s. The story awaits.", sa.CharacterName),
		}}
	}
}

func (m ConsoleUI) updateAdventureModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case adventuresLoadedMsg:
		m.loadingAdventures = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.saves = msg.saves
		}

	case tea.KeyMsg:
		if m.loadingAdventures {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		if m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				m.showQuitModal = true
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedEntry > 0 {
				m.selectedEntry--
			}
		case tea.KeyDown:
			if m.selectedEntry < len(m.saves) {
				m.selectedEntry++
			}
		case tea.KeyDelete, tea.KeyBackspace:
			// Delete the highlighted save
			if m.selectedEntry > 0 && m.selectedEntry <= len(m.saves) {
				sa := m.saves[m.selectedEntry-1]
				if err := deleteAdventure(m.client, m.config.APIBaseURL, sa.ID); err == nil {
					m.saves = append(m.saves[:m.selectedEntry-1], m.saves[m.selectedEntry:]...)
					if m.selectedEntry > len(m.saves) {
						m.selectedEntry = len(m.saves)
					}
				}
			}
		case tea.KeyEnter:
			var cmds []tea.Cmd
			if m.selectedEntry == 0 {
				m.startNewAdventure()
				if m.gameState.IsGeneratingSkillTree {
					cmds = append(cmds, m.generateSkillTree())
				}
			} else if m.selectedEntry <= len(m.saves) {
				m.resumeAdventure(m.saves[m.selectedEntry-1])
			}
			m.showAdventureModal = false
			if m.width > 0 && m.height > 0 {
				m.resizePanels()
			}
			m.writeChatContent()
			m.metaViewport.SetContent(writeMetadata(m.gameState))
			m.textarea.Focus()
			m.ready = true
			cmds = append(cmds, textarea.Blink)
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.showAdventureModal {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
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
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit your adventure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderAdventureModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingAdventures {
		content.WriteString(modalTitleStyle.Render("Loading Adventures..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch your saved adventures..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load adventures: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else {
		content.WriteString(modalTitleStyle.Render("Choose Your Adventure"))
		content.WriteString("\n\n")

		entries := []string{NewAdventure}
		for _, sa := range m.saves {
			label := fmt.Sprintf("%s (turn %d)", sa.CharacterName, sa.TurnCount)
			if sa.Finished {
				label += " - finished"
			}
			entries = append(entries, label)
		}

		for i, entry := range entries {
			if i == m.selectedEntry {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", entry)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", entry)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Del to delete, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showAdventureModal {
		return m.renderAdventureModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"", // Add empty line for spacing
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
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
			bar.WriteString("▓") // Blinking effect at the progress point
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
