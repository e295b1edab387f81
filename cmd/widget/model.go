package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethanbaker/chatwidget/pkg/widget"
)

type replyMsg struct {
	reply *widget.Reply
	err   error
}

type replayTickMsg struct{}

type resetMsg struct{ err error }

type theme struct {
	root      lipgloss.Style
	header    lipgloss.Style
	hint      lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	pending   lipgloss.Style
	input     lipgloss.Style
	status    lipgloss.Style
}

func newTheme() theme {
	accent := lipgloss.Color("#f97316")
	muted := lipgloss.Color("#9ca3af")
	text := lipgloss.Color("#f3f4f6")

	return theme{
		root: lipgloss.NewStyle().Padding(0, 1),
		header: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		hint:      lipgloss.NewStyle().Foreground(muted),
		user:      lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true),
		assistant: lipgloss.NewStyle().Foreground(accent).Bold(true),
		pending:   lipgloss.NewStyle().Foreground(muted).Italic(true),
		input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Foreground(text).
			Padding(0, 1),
		status: lipgloss.NewStyle().Foreground(muted),
	}
}

// model is the bubbletea model of the chat widget
type model struct {
	conv  *widget.Conversation
	theme theme

	input    textinput.Model
	timeline viewport.Model
	spinner  spinner.Model

	width  int
	height int

	// notice is a one-line status shown under the timeline
	notice string

	// replay holds the chunks of the latest reply and how many are shown
	replay      []string
	replayed    int
	replayDelay time.Duration
}

func newModel(conv *widget.Conversation, replayDelay time.Duration) model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 4000
	input.Placeholder = conv.Persona().Placeholder
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#f97316"))

	timeline := viewport.New(0, 0)
	timeline.MouseWheelEnabled = true

	m := model{
		conv:        conv,
		theme:       newTheme(),
		input:       input,
		timeline:    timeline,
		spinner:     sp,
		replayDelay: replayDelay,
	}
	m.renderTimeline()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderTimeline()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case replyMsg:
		cmds = append(cmds, m.input.Focus())
		if msg.err == nil && len(msg.reply.Chunks) > 1 && m.replayDelay > 0 {
			m.replay = msg.reply.Chunks
			m.replayed = 1
			cmds = append(cmds, m.replayTick())
		}
		m.renderTimeline()

	case replayTickMsg:
		if m.replaying() {
			m.replayed++
			if m.replaying() {
				cmds = append(cmds, m.replayTick())
			}
		}
		m.renderTimeline()

	case resetMsg:
		m.replay = nil
		m.notice = ""
		if msg.err != nil {
			m.notice = "Could not clear the saved history"
		}
		m.renderTimeline()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+r":
			if m.conv.Busy() {
				break
			}
			return m, m.resetCmd()

		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.conv.Busy() {
				break
			}
			m.input.SetValue("")
			m.input.Blur()
			m.replay = nil
			cmd := m.sendCmd(text)
			m.renderTimeline()
			return m, cmd

		default:
			if m.conv.Busy() {
				break
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.timeline, cmd = m.timeline.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	header := m.theme.header.Width(max(20, m.width-4)).Render(
		m.conv.Persona().Name + "  " + m.theme.hint.Render("ctrl+r clear · esc quit"),
	)

	status := m.theme.status.Render(m.notice)
	if m.conv.Busy() {
		status = m.spinner.View() + " " + m.theme.status.Render("Thinking...")
	}

	input := m.theme.input.Width(max(20, m.width-4)).Render(m.input.View())
	return m.theme.root.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.timeline.View(), status, input))
}

// sendCmd starts the send and waits for its outcome off the update loop
func (m model) sendCmd(text string) tea.Cmd {
	done, err := m.conv.Start(context.Background(), text)
	if err != nil {
		return func() tea.Msg { return replyMsg{err: err} }
	}
	return func() tea.Msg {
		outcome := <-done
		return replyMsg{reply: outcome.Reply, err: outcome.Err}
	}
}

func (m model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.conv.Reset(context.Background())
		if err != nil && !errors.Is(err, widget.ErrBusy) {
			return resetMsg{err: err}
		}
		return resetMsg{}
	}
}

func (m model) replayTick() tea.Cmd {
	return tea.Tick(m.replayDelay, func(time.Time) tea.Msg { return replayTickMsg{} })
}

func (m model) replaying() bool {
	return m.replay != nil && m.replayed < len(m.replay)
}

func (m *model) resize() {
	// header (3) + status (1) + input (3)
	m.timeline.Width = max(20, m.width-2)
	m.timeline.Height = max(3, m.height-7)
	m.input.Width = max(10, m.width-10)
}

func (m *model) renderTimeline() {
	m.timeline.SetContent(m.renderMessages(m.visibleMessages()))
	m.timeline.GotoBottom()
}

// visibleMessages returns the conversation messages, truncating the latest reply while its
// chunks are being replayed
func (m model) visibleMessages() []widget.Message {
	messages := m.conv.Messages()
	if !m.replaying() || len(messages) == 0 {
		return messages
	}

	last := &messages[len(messages)-1]
	if !last.FromUser() {
		last.Text = strings.Join(m.replay[:m.replayed], "")
	}
	return messages
}

func (m model) renderMessages(messages []widget.Message) string {
	width := max(20, m.timeline.Width-2)
	wrap := lipgloss.NewStyle().Width(width)

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		var label string
		switch {
		case msg.Pending:
			label = m.theme.pending.Render("You")
		case msg.FromUser():
			label = m.theme.user.Render("You")
		default:
			label = m.theme.assistant.Render(m.conv.Persona().Name)
		}
		lines = append(lines, label+"\n"+wrap.Render(msg.Text))
	}
	return strings.Join(lines, "\n\n")
}
