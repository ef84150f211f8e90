// Package tui is the interactive surface: a chat transcript, a session
// sidebar list, and a document panel, all driven by one bubbletea model.
// Every network call runs as a tea.Cmd that captures the session id it was
// issued for; Update feeds the results through the orchestrator, which is
// where staleness is decided.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"ragify/cmd/ragify/ui"
	"ragify/internal/auth"
	"ragify/internal/chat"
	"ragify/internal/documents"
)

// ViewMode determines which component is focused.
type ViewMode int

const (
	ChatView ViewMode = iota
	SessionView
	DocView
	PickerView
)

// sessionItem is a list item for the session sidebar.
type sessionItem struct {
	id    int64
	name  string
	date  string
}

func (i sessionItem) Title() string       { return i.name }
func (i sessionItem) Description() string { return i.date }
func (i sessionItem) FilterValue() string { return fmt.Sprintf("%d %s", i.id, i.name) }

// Deps are the services the model drives. Everything is injected so tests
// can point the model at httptest servers.
type Deps struct {
	Orchestrator *chat.Orchestrator
	Directory    *chat.Directory
	Conversation *chat.Client
	Panel        *documents.Panel
	Auth         *auth.Service
	Styles       ui.Styles
	Logger       *zap.Logger
}

// Model is the bubbletea model for the interactive client.
type Model struct {
	// UI components
	textarea   textarea.Model
	viewport   viewport.Model
	spinner    spinner.Model
	sessions   list.Model
	filepicker filepicker.Model
	styles     ui.Styles
	renderer   *glamour.TermRenderer

	viewMode ViewMode

	// Backend
	orch  *chat.Orchestrator
	dir   *chat.Directory
	conv  *chat.Client
	panel *documents.Panel
	auth  *auth.Service
	log   *zap.Logger

	// State
	user       *auth.User
	docs       []documents.Document
	docCursor  int
	notice     string // transient, non-blocking; cleared on the next action
	noticeIsOK bool
	width      int
	height     int
	ready      bool

	// Set when the backend said 401; the program quits and main explains.
	authErr error
}

// New builds the model. The conversation starts with no active session; the
// first query creates one on the backend.
func New(deps Deps) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about your documents..."
	ta.CharLimit = 4000
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = deps.Styles.Spinner

	delegate := list.NewDefaultDelegate()
	sessions := list.New(nil, delegate, 0, 0)
	sessions.Title = "Chat Sessions"
	sessions.SetShowStatusBar(false)

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf", ".doc", ".docx", ".txt"}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return Model{
		textarea:   ta,
		spinner:    sp,
		sessions:   sessions,
		filepicker: fp,
		styles:     deps.Styles,
		orch:       deps.Orchestrator,
		dir:        deps.Directory,
		conv:       deps.Conversation,
		panel:      deps.Panel,
		auth:       deps.Auth,
		log:        log,
	}
}

// AuthErr reports the authentication failure that ended the program, if any.
// main prints the login hint when this is non-nil.
func (m Model) AuthErr() error { return m.authErr }

// Init starts the spinner and kicks off the identity and session fetches.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.fetchUserCmd(),
		m.fetchSessionsCmd(),
	)
}
