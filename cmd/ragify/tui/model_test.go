package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragify/cmd/ragify/ui"
	"ragify/internal/chat"
	"ragify/internal/documents"
	"ragify/internal/gateway"
)

// newTestModel builds a model with a live orchestrator and no backends. The
// tests below never execute network commands, only the Update transitions
// they produce.
func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(Deps{
		Orchestrator: chat.NewOrchestrator(),
		Styles:       ui.DefaultStyles(),
	})
	// Size the model so refreshTranscript has a viewport to write into.
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func botAnswer(text string) chat.Message {
	return chat.Message{Role: chat.RoleAssistant, Content: text}
}

func TestSubmitAppendsOptimistically(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	m.textarea.SetValue("what does the policy say?")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	require.NotNil(t, cmd, "a query command should have been issued")
	transcript := m.orch.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, chat.RoleUser, transcript[0].Role)
	assert.Equal(t, "what does the policy say?", transcript[0].Content)
	assert.Equal(t, chat.PhaseAwaiting, m.orch.Phase())
	assert.Empty(t, m.textarea.Value(), "input should reset on submit")
}

func TestSubmitBlockedWhileBusy(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.orch.BeginSend("first question")

	m.textarea.SetValue("second question")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Len(t, m.orch.Transcript(), 1, "second question must not be queued")
}

func TestEmptySubmitIgnored(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	m.textarea.SetValue("   ")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Empty(t, m.orch.Transcript())
}

func TestAnswerAdoptsImplicitSession(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	issuedFor := m.orch.BeginSend("hello")
	require.Equal(t, int64(0), issuedFor)

	next, cmd := m.Update(answerMsg{
		forID: issuedFor,
		res:   &chat.QueryResult{Answer: botAnswer("hi"), SessionID: 77},
	})
	m = next.(Model)

	assert.Equal(t, int64(77), m.orch.Active())
	assert.NotNil(t, cmd, "adoption should trigger a session directory refresh")
	require.Len(t, m.orch.Transcript(), 2)
	assert.Equal(t, "hi", m.orch.Transcript()[1].Content)
}

func TestStaleAnswerDroppedAfterSwitch(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	m.orch.BeginSelect(1)
	require.True(t, m.orch.ApplyHistory(1, nil))
	issuedFor := m.orch.BeginSend("slow question")

	// User switches away while the query is in flight.
	next, _ := m.selectSession(2)
	m = next.(Model)
	require.True(t, m.orch.ApplyHistory(2, nil))

	next, cmd := m.Update(answerMsg{
		forID: issuedFor,
		res:   &chat.QueryResult{Answer: botAnswer("late"), SessionID: 1},
	})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Empty(t, m.orch.Transcript(), "a late answer must never land in the new session")
	assert.Equal(t, int64(2), m.orch.Active())
}

func TestStaleHistoryFailureStaysSilent(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	m.orch.BeginSelect(1)
	next, _ := m.selectSession(2)
	m = next.(Model)

	next, _ = m.Update(historyMsg{forID: 1, err: errors.New("boom")})
	m = next.(Model)

	assert.Empty(t, m.notice, "abandoned fetches do not get to surface notices")
	assert.Equal(t, chat.PhaseLoading, m.orch.Phase(), "the live fetch for session 2 is still pending")
}

func TestSendFailureKeepsOptimisticMessage(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	issuedFor := m.orch.BeginSend("hello")
	next, _ := m.Update(answerMsg{forID: issuedFor, err: errors.New("connection refused")})
	m = next.(Model)

	require.Len(t, m.orch.Transcript(), 1)
	assert.Equal(t, "hello", m.orch.Transcript()[0].Content)
	assert.NotEmpty(t, m.notice)
	assert.False(t, m.noticeIsOK)
}

func TestUnauthenticatedQuitsWithAuthErr(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	issuedFor := m.orch.BeginSend("hello")
	next, cmd := m.Update(answerMsg{forID: issuedFor, err: gateway.ErrUnauthenticated})
	m = next.(Model)

	require.Error(t, m.AuthErr())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd(), "401 should quit the program")
}

func TestCreatedSessionEntersLoadingChatView(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.viewMode = SessionView

	next, cmd := m.Update(createdMsg{id: 9})
	m = next.(Model)

	assert.Equal(t, ChatView, m.viewMode)
	assert.Equal(t, int64(9), m.orch.Active())
	assert.Equal(t, chat.PhaseLoading, m.orch.Phase())
	assert.NotNil(t, cmd)
}

func TestSlashCommands(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	m.textarea.SetValue("/sessions")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Equal(t, SessionView, m.viewMode)
	assert.NotNil(t, cmd)

	m.viewMode = ChatView
	m.textarea.SetValue("/bogus")
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "Unknown command /bogus", m.notice)

	m.textarea.SetValue("/quit")
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_ = next
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestDocListClampsCursor(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.docCursor = 5

	next, _ := m.Update(docsMsg{docs: []documents.Document{
		{ID: 1, FileName: "a.pdf"},
		{ID: 2, FileName: "b.pdf"},
	}})
	m = next.(Model)

	assert.Equal(t, 1, m.docCursor)

	next, _ = m.Update(docsMsg{docs: nil})
	m = next.(Model)
	assert.Equal(t, 0, m.docCursor)
}

func TestDocDeleteFailureShowsNotice(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	next, cmd := m.Update(docDeletedMsg{id: 3, err: errors.New("Document not found")})
	m = next.(Model)

	assert.Nil(t, cmd, "a failed delete must not refetch as if it worked")
	assert.Equal(t, "Failed to delete document", m.notice)
	assert.False(t, m.noticeIsOK)
}

func TestDocDeleteSuccessRefetches(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	next, cmd := m.Update(docDeletedMsg{id: 3})
	m = next.(Model)

	assert.NotNil(t, cmd)
	assert.Equal(t, "Document deleted successfully", m.notice)
	assert.True(t, m.noticeIsOK)
}

func TestViewShowsSpinnerWhileBusy(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)

	m.orch.BeginSend("hello")
	out := m.View()
	assert.Contains(t, out, "Searching...")

	m.orch.BeginSelect(4)
	out = m.View()
	assert.Contains(t, out, "Loading messages...")
}
