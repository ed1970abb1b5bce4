package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"menurag/internal/domain"
)

// ChatPort is the TUI-facing subset of the chatbot.
type ChatPort interface {
	Answer(ctx context.Context, query string) (string, error)
	History() []domain.Message
	ClearHistory()
}

// answerMsg carries the outcome of an asynchronous chat turn.
type answerMsg struct {
	err error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	chat     ChatPort
	input    textinput.Model
	viewport viewport.Model
	status   string
	waiting  bool
	ready    bool
}

// New creates a new chat TUI model.
func New(chat ChatPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the restaurants and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{chat: chat, input: ti, viewport: vp, status: "Knowledge base loaded. Ask away."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ch)
		m.viewport.SetContent(m.renderConversation())
		m.viewport.GotoBottom()
		return m, nil

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = "Ready."
		}
		m.viewport.SetContent(m.renderConversation())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.input.Reset()
				m.waiting = true
				m.status = "Thinking..."
				chat := m.chat
				return m, func() tea.Msg {
					_, err := chat.Answer(context.Background(), q)
					return answerMsg{err: err}
				}
			}
		case "ctrl+l":
			// Clearing mid-turn would drop the user message of the
			// running turn and strand its answer.
			if m.waiting {
				return m, nil
			}
			m.chat.ClearHistory()
			m.status = "History cleared."
			m.viewport.SetContent(m.renderConversation())
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current conversation.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Restaurant Chat")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) renderConversation() string {
	history := m.chat.History()
	if len(history) == 0 {
		return "No conversation yet. Type a question below."
	}
	var b strings.Builder
	for i, msg := range history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case domain.RoleUser:
			b.WriteString(userStyle.Render("You: ") + msg.Content)
		default:
			b.WriteString(assistantStyle.Render("Bot: ") + msg.Content)
		}
	}
	if m.waiting {
		b.WriteString("\n\n" + assistantStyle.Render("Bot: ") + "...")
	}
	return b.String()
}

var (
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
)
