package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"ragify/internal/chat"
)

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return vp
}

func (m Model) View() string {
	if !m.ready {
		return "Starting ragify..."
	}

	switch m.viewMode {
	case SessionView:
		return m.sessions.View()
	case DocView:
		return m.docView()
	case PickerView:
		return m.pickerView()
	}
	return m.chatView()
}

func (m Model) chatView() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.styles.RenderDivider(m.width))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.notice != "" {
		style := m.styles.Error
		if m.noticeIsOK {
			style = m.styles.Success
		}
		b.WriteString(style.Render(m.notice))
	}
	b.WriteString("\n")

	if m.orch.Busy() {
		label := "Searching..."
		if m.orch.Phase() == chat.PhaseLoading {
			label = "Loading messages..."
		}
		b.WriteString(m.spinner.View() + " " + m.styles.Muted.Render(label))
	} else {
		b.WriteString(m.textarea.View())
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("enter send · ctrl+n new chat · ctrl+s sessions · ctrl+d documents · ctrl+c quit"))
	return b.String()
}

func (m Model) header() string {
	title := m.styles.Title.Render("ragify")
	who := ""
	if m.user != nil {
		who = m.styles.Subtitle.Render(fmt.Sprintf("  %s (%s)", m.user.Username, m.user.Role))
	}
	where := ""
	if id := m.orch.Active(); id > 0 {
		where = "  " + m.styles.Badge.Render(fmt.Sprintf("session %d", id))
	} else {
		where = "  " + m.styles.Muted.Render("no session — first question starts one")
	}
	return title + who + where
}

func (m Model) docView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Your Documents"))
	b.WriteString("\n\n")

	if len(m.docs) == 0 {
		b.WriteString(m.styles.Muted.Render("No documents uploaded yet."))
	}
	for i, d := range m.docs {
		cursor := "  "
		line := fmt.Sprintf("%s (%s)", d.FileName, d.URL)
		if i == m.docCursor {
			cursor = m.styles.Prompt.Render("> ")
			line = m.styles.UserMsg.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n")
	if m.notice != "" {
		style := m.styles.Error
		if m.noticeIsOK {
			style = m.styles.Success
		}
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render("u upload · d delete · r refresh · esc back"))
	return b.String()
}

func (m Model) pickerView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Upload Document"))
	b.WriteString("\n\n")
	b.WriteString(m.filepicker.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("accepted: .pdf .doc .docx .txt · esc cancel"))
	return b.String()
}

// refreshTranscript re-renders the transcript into the viewport and pins the
// view to the latest exchange.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	transcript := m.orch.Transcript()
	if len(transcript) == 0 {
		if m.orch.Phase() == chat.PhaseLoading {
			return ""
		}
		return m.styles.Muted.Render("Ask a question to get started.")
	}

	var b strings.Builder
	for _, msg := range transcript {
		switch msg.Role {
		case chat.RoleUser:
			b.WriteString(m.styles.Prompt.Render("you ") + m.styles.UserMsg.Render(msg.Content))
			b.WriteString("\n\n")
		default:
			b.WriteString(m.styles.BotMsg.Render(m.renderAnswer(msg.Content)))
			b.WriteString("\n")
			if p := msg.Provenance; p != nil {
				b.WriteString(m.styles.Provenance.Render(
					fmt.Sprintf("%s · page %d · score %.3f", p.FileName, p.PageNumber, p.Score)))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderAnswer runs assistant markdown through glamour, falling back to the
// raw text when no renderer is available yet.
func (m Model) renderAnswer(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
