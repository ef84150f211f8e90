package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"ragify/internal/auth"
	"ragify/internal/chat"
	"ragify/internal/documents"
)

// Messages for tea updates. Result messages carry the session id the request
// was issued for, so Update can let the orchestrator judge staleness.
type (
	userMsg struct {
		user *auth.User
		err  error
	}

	sessionsMsg struct {
		sessions []chat.Session
		err      error
	}

	createdMsg struct {
		id  int64
		err error
	}

	historyMsg struct {
		forID int64
		msgs  []chat.Message
		err   error
	}

	answerMsg struct {
		forID int64
		res   *chat.QueryResult
		err   error
	}

	docsMsg struct {
		docs []documents.Document
		err  error
	}

	docDeletedMsg struct {
		id  int64
		err error
	}

	uploadedMsg struct {
		doc *documents.Document
		err error
	}
)

// No context deadlines anywhere: a hung request keeps its spinner until it
// resolves or fails, and switching sessions sidelines it via the stale guard
// rather than cancellation.

func (m Model) fetchUserCmd() tea.Cmd {
	return func() tea.Msg {
		user, err := m.auth.CurrentUser(context.Background())
		return userMsg{user: user, err: err}
	}
}

func (m Model) fetchSessionsCmd() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.dir.List(context.Background())
		return sessionsMsg{sessions: sessions, err: err}
	}
}

func (m Model) createSessionCmd() tea.Cmd {
	return func() tea.Msg {
		id, err := m.dir.Create(context.Background())
		return createdMsg{id: id, err: err}
	}
}

func (m Model) fetchHistoryCmd(sessionID int64) tea.Cmd {
	return func() tea.Msg {
		msgs, err := m.conv.History(context.Background(), sessionID)
		return historyMsg{forID: sessionID, msgs: msgs, err: err}
	}
}

// sendCmd dispatches a query. Inside a session it is a chat turn; with no
// session it goes through /search/, which creates one as a side effect.
func (m Model) sendCmd(text string, issuedFor int64) tea.Cmd {
	return func() tea.Msg {
		if issuedFor > 0 {
			res, err := m.conv.Post(context.Background(), text, issuedFor)
			return answerMsg{forID: issuedFor, res: res, err: err}
		}
		res, err := m.conv.Search(context.Background(), text, "")
		return answerMsg{forID: 0, res: res, err: err}
	}
}

func (m Model) fetchDocsCmd() tea.Cmd {
	return func() tea.Msg {
		docs, err := m.panel.List(context.Background())
		return docsMsg{docs: docs, err: err}
	}
}

func (m Model) deleteDocCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		err := m.panel.Delete(context.Background(), id)
		return docDeletedMsg{id: id, err: err}
	}
}

func (m Model) uploadDocCmd(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := m.panel.Upload(context.Background(), path)
		return uploadedMsg{doc: doc, err: err}
	}
}
