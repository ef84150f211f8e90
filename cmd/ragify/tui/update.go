package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"ragify/internal/gateway"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case userMsg:
		if msg.err != nil {
			return m.handleRemoteErr(msg.err, "Failed to fetch user")
		}
		m.user = msg.user
		return m, nil

	case sessionsMsg:
		if msg.err != nil {
			return m.handleRemoteErr(msg.err, "Failed to fetch chat sessions")
		}
		items := make([]list.Item, 0, len(msg.sessions))
		for _, s := range msg.sessions {
			items = append(items, sessionItem{
				id:   s.ID,
				name: s.DisplayName(),
				date: s.CreatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		m.sessions.SetItems(items)
		return m, nil

	case createdMsg:
		if msg.err != nil {
			return m.handleRemoteErr(msg.err, "Failed to start new chat")
		}
		m.setNotice("New chat started!", true)
		forID := m.orch.BeginSelect(msg.id)
		m.viewMode = ChatView
		m.refreshTranscript()
		// Refresh the directory so the new session is selectable before it
		// is ever re-selected by hand.
		return m, tea.Batch(m.fetchHistoryCmd(forID), m.fetchSessionsCmd())

	case historyMsg:
		if msg.err != nil {
			if errors.Is(msg.err, gateway.ErrUnauthenticated) {
				m.authErr = msg.err
				return m, tea.Quit
			}
			// Only the fetch we are still waiting on gets to surface a
			// notice; failures from abandoned fetches die quietly.
			if m.orch.FailLoad(msg.forID) {
				m.setNotice("Failed to load chat messages", false)
				m.log.Warn("history fetch failed", zap.Int64("session", msg.forID), zap.Error(msg.err))
			}
			return m, nil
		}
		if m.orch.ApplyHistory(msg.forID, msg.msgs) {
			m.refreshTranscript()
		}
		return m, nil

	case answerMsg:
		if msg.err != nil {
			if errors.Is(msg.err, gateway.ErrUnauthenticated) {
				m.authErr = msg.err
				return m, tea.Quit
			}
			if m.orch.FailSend(msg.forID) {
				m.setNotice("Failed to send message", false)
				m.log.Warn("send failed", zap.Int64("session", msg.forID), zap.Error(msg.err))
			}
			return m, nil
		}
		adopted, ok := m.orch.ApplyAnswer(msg.forID, msg.res.Answer, msg.res.SessionID)
		if !ok {
			return m, nil
		}
		m.refreshTranscript()
		if adopted > 0 {
			// The backend opened a session for us; pull the directory so it
			// shows up without a manual reload.
			return m, m.fetchSessionsCmd()
		}
		return m, nil

	case docsMsg:
		if msg.err != nil {
			return m.handleRemoteErr(msg.err, "Failed to fetch documents")
		}
		m.docs = msg.docs
		if m.docCursor >= len(m.docs) {
			m.docCursor = len(m.docs) - 1
		}
		if m.docCursor < 0 {
			m.docCursor = 0
		}
		return m, nil

	case docDeletedMsg:
		if msg.err != nil {
			return m.handleRemoteErr(msg.err, "Failed to delete document")
		}
		m.setNotice("Document deleted successfully", true)
		return m, m.fetchDocsCmd()

	case uploadedMsg:
		if msg.err != nil {
			return m.handleRemoteErr(msg.err, "Upload failed")
		}
		m.setNotice(fmt.Sprintf("Uploaded %s", msg.doc.FileName), true)
		return m, m.fetchDocsCmd()
	}

	return m.forward(msg)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 2
	footerHeight := 4
	if !m.ready {
		m.viewport = newViewport(msg.Width, msg.Height-headerHeight-footerHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight
	}
	m.textarea.SetWidth(msg.Width - 4)
	m.sessions.SetSize(msg.Width, msg.Height-headerHeight)

	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(msg.Width-6),
	); err == nil {
		m.renderer = r
	}
	m.refreshTranscript()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.viewMode {
	case SessionView:
		return m.handleSessionKey(msg)
	case DocView:
		return m.handleDocKey(msg)
	case PickerView:
		return m.handlePickerKey(msg)
	}

	// Chat view
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyCtrlS:
		m.viewMode = SessionView
		return m, m.fetchSessionsCmd()

	case tea.KeyCtrlD:
		m.viewMode = DocView
		return m, m.fetchDocsCmd()

	case tea.KeyCtrlN:
		return m, m.createSessionCmd()

	case tea.KeyEnter:
		if msg.Alt || msg.Paste {
			break
		}
		return m.handleSubmit()
	}

	return m.forward(msg)
}

func (m Model) handleSessionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.viewMode = ChatView
		return m, nil
	case tea.KeyEnter:
		if item, ok := m.sessions.SelectedItem().(sessionItem); ok {
			return m.selectSession(item.id)
		}
	}
	var cmd tea.Cmd
	m.sessions, cmd = m.sessions.Update(msg)
	return m, cmd
}

func (m Model) handleDocKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.viewMode = ChatView
		return m, nil
	case "up", "k":
		if m.docCursor > 0 {
			m.docCursor--
		}
		return m, nil
	case "down", "j":
		if m.docCursor < len(m.docs)-1 {
			m.docCursor++
		}
		return m, nil
	case "r":
		return m, m.fetchDocsCmd()
	case "u":
		m.viewMode = PickerView
		return m, m.filepicker.Init()
	case "d":
		if m.docCursor < len(m.docs) {
			// The row stays visible until the backend confirms; deletion is
			// never shown optimistically.
			return m, m.deleteDocCmd(m.docs[m.docCursor].ID)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.viewMode = DocView
		return m, nil
	}
	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
		m.viewMode = DocView
		m.setNotice("Uploading...", true)
		return m, tea.Batch(cmd, m.uploadDocCmd(path))
	}
	if didSelect, path := m.filepicker.DidSelectDisabledFile(msg); didSelect {
		m.setNotice(fmt.Sprintf("%s is not an accepted file type", path), false)
		return m, cmd
	}
	return m, cmd
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.textarea.Value())
	if text == "" {
		return m, nil
	}
	if strings.HasPrefix(text, "/") {
		return m.handleCommand(text)
	}
	if m.orch.Busy() {
		return m, nil
	}

	m.notice = ""
	m.textarea.Reset()
	issuedFor := m.orch.BeginSend(text)
	m.refreshTranscript()
	return m, m.sendCmd(text, issuedFor)
}

// handleCommand processes slash commands.
func (m Model) handleCommand(cmd string) (tea.Model, tea.Cmd) {
	m.textarea.Reset()
	switch cmd {
	case "/quit", "/exit", "/q":
		return m, tea.Quit
	case "/new":
		return m, m.createSessionCmd()
	case "/sessions":
		m.viewMode = SessionView
		return m, m.fetchSessionsCmd()
	case "/docs":
		m.viewMode = DocView
		return m, m.fetchDocsCmd()
	default:
		m.setNotice(fmt.Sprintf("Unknown command %s", cmd), false)
		return m, nil
	}
}

func (m Model) selectSession(id int64) (tea.Model, tea.Cmd) {
	m.notice = ""
	forID := m.orch.BeginSelect(id)
	m.viewMode = ChatView
	m.refreshTranscript()
	return m, m.fetchHistoryCmd(forID)
}

// handleRemoteErr turns a failed call into a notice, or quits on 401.
func (m Model) handleRemoteErr(err error, notice string) (tea.Model, tea.Cmd) {
	if errors.Is(err, gateway.ErrUnauthenticated) {
		m.authErr = err
		return m, tea.Quit
	}
	m.setNotice(notice, false)
	m.log.Warn(notice, zap.Error(err))
	return m, nil
}

func (m *Model) setNotice(text string, ok bool) {
	m.notice = text
	m.noticeIsOK = ok
}

func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var taCmd, vpCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}
