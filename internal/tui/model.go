// Package tui is the terminal chat shell. It owns rendering and the
// session loop; all retrieval and generation happens in the session layer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/session"
)

// Model is the Bubble Tea model for the chat application.
type Model struct {
	session  *session.Session
	input    textinput.Model
	viewport viewport.Model
	status   string
	ready    bool

	answer    *session.Answer
	partial   string
	citations map[int]string // transcript index -> reference block
}

// New creates a new chat model over the given session.
func New(s *session.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your question here… (/upload <file> to add documents)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		session:   s,
		input:     ti,
		viewport:  vp,
		status:    "Ready.",
		citations: map[int]string{},
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

type tokenMsg struct {
	token string
	done  bool
}

type uploadDoneMsg struct {
	summary string
	errs    []error
}

// Update handles key, window and streaming events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.refreshTranscript()
		return m, nil

	case tokenMsg:
		if m.answer == nil {
			return m, nil
		}
		if msg.done {
			if c := m.answer.Citations(); c != "" {
				m.citations[len(m.session.Turns())-1] = c
			}
			m.answer = nil
			m.partial = ""
			m.status = "Ready."
			m.refreshTranscript()
			return m, nil
		}
		m.partial += msg.token
		m.refreshTranscript()
		return m, m.nextToken()

	case uploadDoneMsg:
		if msg.summary != "" {
			m.status = msg.summary
		}
		if len(msg.errs) > 0 {
			m.status = fmt.Sprintf("%s (%d file(s) failed: %v)", m.status, len(msg.errs), errors.Join(msg.errs...))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				break
			}
			m.input.SetValue("")
			if strings.HasPrefix(line, "/upload ") {
				return m, m.upload(strings.Fields(strings.TrimPrefix(line, "/upload ")))
			}
			return m.ask(line)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(question string) (tea.Model, tea.Cmd) {
	answer, err := m.session.Ask(context.Background(), question)
	if err != nil {
		m.status = "Error: " + err.Error()
		return m, nil
	}
	m.answer = answer
	m.partial = ""
	m.status = "Thinking…"
	m.refreshTranscript()
	return m, m.nextToken()
}

// nextToken pulls one fragment from the in-flight answer. Each fragment is
// rendered before the next blocking read, so partial progress shows up
// token by token.
func (m Model) nextToken() tea.Cmd {
	answer := m.answer
	return func() tea.Msg {
		tok, err := answer.Recv()
		if errors.Is(err, io.EOF) {
			return tokenMsg{done: true}
		}
		if err != nil {
			return tokenMsg{token: "\n⚠️ " + err.Error()}
		}
		return tokenMsg{token: tok}
	}
}

// upload reads the named files and hands them to the session as raw
// uploads.
func (m Model) upload(paths []string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		var files []domain.RawFile
		var errs []error
		for _, p := range paths {
			data, err := os.ReadFile(p)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			files = append(files, domain.RawFile{
				Name: filepath.Base(p),
				MIME: mime.TypeByExtension(filepath.Ext(p)),
				Data: data,
			})
		}
		summary, uploadErrs := s.Upload(files)
		return uploadDoneMsg{summary: summary, errs: append(errs, uploadErrs...)}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("🧬 UA-LLM for bioinformatics research")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refreshTranscript() {
	var b strings.Builder
	for i, t := range m.session.Turns() {
		b.WriteString(roleLabel(t.Role))
		b.WriteString("\n")
		b.WriteString(t.Content)
		if refs, ok := m.citations[i]; ok {
			b.WriteString("\n\n")
			b.WriteString(referenceStyle.Render("References:\n" + refs))
		}
		b.WriteString("\n\n")
	}
	if m.answer != nil {
		b.WriteString(roleLabel(domain.RoleAssistant))
		b.WriteString("\n")
		b.WriteString(m.partial)
		b.WriteString("▌")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func roleLabel(r domain.Role) string {
	switch r {
	case domain.RoleUser:
		return userStyle.Render("You")
	default:
		return assistantStyle.Render("Assistant")
	}
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	referenceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
