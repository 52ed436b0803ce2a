// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"context"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/havenlabs/haven-tui/internal/annotation"
	"github.com/havenlabs/haven-tui/internal/api"
	"github.com/havenlabs/haven-tui/internal/ui/components"
	"github.com/havenlabs/haven-tui/internal/util"
)

// Update handles one message for the editor pane.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	// The coordinator may have dismissed an overlay since the last pass.
	m.syncOverlayState()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return tea.Batch(cmd, m.takeCmds())

	case resolveDoneMsg:
		if msg.Err != nil {
			m.status = "sync failed: " + msg.Err.Error()
		}
		return nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return cmd
}

// ClickAt routes a mouse press to whichever overlay contains it. The
// returned command carries any messages the click raised; consumed is
// true when an overlay took the click.
func (m *Model) ClickAt(x, y int) (consumed bool, cmd tea.Cmd) {
	m.syncOverlayState()
	defer func() { cmd = m.takeCmds() }()

	if m.slash.IsOpen() {
		if _, ok := m.slash.ClickAt(x, y); ok {
			m.mode = modeNone
			m.query = ""
			return true, nil
		}
		if m.slash.Region().Contains(x, y) {
			return true, nil
		}
	}
	if m.mention.IsOpen() {
		if m.mention.ClickAt(x, y) {
			return true, nil
		}
		if m.mention.Region().Contains(x, y) {
			return true, nil
		}
	}
	if m.selbar.IsOpen() {
		if _, ok := m.selbar.ClickAt(x, y); ok {
			return true, nil
		}
		if m.selbar.Region().Contains(x, y) {
			return true, nil
		}
	}
	if m.tablebar.IsOpen() {
		if _, ok := m.tablebar.ClickAt(x, y); ok {
			return true, nil
		}
		if m.tablebar.Region().Contains(x, y) {
			return true, nil
		}
	}
	if m.link.IsOpen() && m.link.Region().Contains(x, y) {
		return true, nil
	}
	return false, nil
}

// syncOverlayState clears the query mode when the tracked overlay was
// closed from outside (escape or click-outside dismissal).
func (m *Model) syncOverlayState() {
	switch m.mode {
	case modeSlash:
		if !m.slash.IsOpen() {
			m.mode = modeNone
			m.query = ""
		}
	case modeMention:
		if !m.mention.IsOpen() {
			m.mode = modeNone
			m.query = ""
		}
	}
}

// =============================================================================
// KEY ROUTING
// =============================================================================

// handleKey dispatches a key press by overlay state: the link popover and
// query overlays swallow keys while open; toolbars take the arrows and
// enter; everything else edits the page.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.link.IsOpen() {
		return m.link.Update(msg)
	}
	if m.mode != modeNone {
		m.handleQueryOverlayKey(msg)
		return nil
	}
	if m.selbar.IsOpen() || m.tablebar.IsOpen() {
		m.handleToolbarKey(msg)
		return nil
	}
	return m.handleEditKey(msg)
}

// handleQueryOverlayKey drives the slash menu or mention picker.
func (m *Model) handleQueryOverlayKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyUp:
		m.overlayMoveUp()
	case tea.KeyDown:
		m.overlayMoveDown()
	case tea.KeyEnter, tea.KeyTab:
		m.overlayCommit()
	case tea.KeySpace:
		if m.mode == modeMention {
			m.mention.ToggleSelected()
			return
		}
		// No slash command contains a space: close and keep the text.
		m.textarea.InsertString("/" + m.query + " ")
		m.dirty = true
		m.slash.Close()
		m.mode = modeNone
		m.query = ""
	case tea.KeyBackspace:
		if m.query == "" {
			m.closeQueryOverlay()
			return
		}
		runes := []rune(m.query)
		m.setQuery(string(runes[:len(runes)-1]))
	case tea.KeyRunes:
		m.setQuery(m.query + string(msg.Runes))
	}
}

// handleToolbarKey drives whichever anchored toolbar is open.
func (m *Model) handleToolbarKey(msg tea.KeyMsg) {
	bar := m.selbar
	if m.tablebar.IsOpen() {
		bar = m.tablebar
	}
	switch msg.Type {
	case tea.KeyLeft:
		bar.MoveLeft()
	case tea.KeyRight:
		bar.MoveRight()
	case tea.KeyEnter, tea.KeyTab:
		bar.Commit()
	}
}

// handleEditKey handles a key press with no overlay open.
func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlS:
		m.save()
		return nil
	case tea.KeyCtrlK:
		m.openLinkPopover()
		return nil
	case tea.KeyCtrlT:
		m.openToolbar()
		return nil
	case tea.KeyCtrlY:
		return m.resolveFirstPending(true)
	case tea.KeyCtrlR:
		return m.resolveFirstPending(false)
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && m.atTriggerPoint() {
			switch msg.Runes[0] {
			case '/':
				m.openSlashMenu()
				return nil
			case '@':
				m.openMentionPicker()
				return nil
			}
		}
	}

	var cmd tea.Cmd
	before := m.textarea.Value()
	m.textarea, cmd = m.textarea.Update(msg)
	if m.textarea.Value() != before {
		m.dirty = true
		m.status = ""
	}
	return cmd
}

// atTriggerPoint reports whether "/" or "@" at the caret should open an
// overlay: at the start of a line or after a space.
func (m *Model) atTriggerPoint() bool {
	line, _, col := m.currentLine()
	if col == 0 {
		return true
	}
	runes := []rune(line)
	if col > len(runes) {
		col = len(runes)
	}
	return runes[col-1] == ' '
}

// =============================================================================
// OVERLAY LIFECYCLE
// =============================================================================

func (m *Model) openSlashMenu() {
	req := m.cfg.PlacementRequest(m.caretAnchor())
	if err := m.slash.Open(req, m.viewport); err != nil {
		m.status = err.Error()
		return
	}
	m.mode = modeSlash
	m.query = ""
}

func (m *Model) openMentionPicker() {
	m.refreshCandidates("")
	req := m.cfg.PlacementRequest(m.caretAnchor())
	if err := m.mention.Open(req, m.viewport); err != nil {
		m.status = err.Error()
		return
	}
	m.mode = modeMention
	m.query = ""
}

// openToolbar opens the table toolbar when the caret sits in a table,
// the selection toolbar otherwise. Both hover above the caret's line.
func (m *Model) openToolbar() {
	line, _, _ := m.currentLine()
	req := m.cfg.PlacementRequest(m.lineAnchor())
	req.Preferred = req.Preferred.Opposite()

	if isTableLine(line) {
		if err := m.tablebar.Open(req, m.viewport); err != nil {
			m.status = err.Error()
		}
		return
	}
	if err := m.selbar.Open(req, m.viewport); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) openLinkPopover() {
	line, _, _ := m.currentLine()
	_, url, _ := parseLink(line)
	req := m.cfg.PlacementRequest(m.caretAnchor())
	if err := m.link.Open(req, m.viewport, url); err != nil {
		m.status = err.Error()
	}
}

// setQuery pushes the typed query into the open overlay.
func (m *Model) setQuery(q string) {
	m.query = q
	switch m.mode {
	case modeSlash:
		m.slash.SetQuery(q)
	case modeMention:
		m.refreshCandidates(q)
		m.mention.SetQuery(q)
	}
}

func (m *Model) overlayMoveUp() {
	switch m.mode {
	case modeSlash:
		m.slash.MoveUp()
	case modeMention:
		m.mention.MoveUp()
	}
}

func (m *Model) overlayMoveDown() {
	switch m.mode {
	case modeSlash:
		m.slash.MoveDown()
	case modeMention:
		m.mention.MoveDown()
	}
}

func (m *Model) overlayCommit() {
	switch m.mode {
	case modeSlash:
		m.slash.Commit()
	case modeMention:
		m.mention.Confirm()
	}
	m.mode = modeNone
	m.query = ""
}

func (m *Model) closeQueryOverlay() {
	switch m.mode {
	case modeSlash:
		m.slash.Close()
	case modeMention:
		m.mention.Close()
	}
	m.mode = modeNone
	m.query = ""
}

// refreshCandidates rebuilds the mention candidate set for a query.
func (m *Model) refreshCandidates(q string) {
	if m.candidates == nil {
		return
	}
	m.mention.SetCandidates(m.candidates(q))
}

// =============================================================================
// ACTIONS
// =============================================================================

// runSlashCommand executes a committed slash command.
func (m *Model) runSlashCommand(c components.SlashCommand) {
	m.mode = modeNone
	m.query = ""

	switch c.ID {
	case "heading1":
		m.textarea.InsertString("# ")
	case "heading2":
		m.textarea.InsertString("## ")
	case "bullet-list":
		m.textarea.InsertString("- ")
	case "table":
		m.textarea.InsertString(tableSkeleton)
	case "divider":
		m.textarea.InsertString("---\n")
	case "export":
		m.exportPage()
		return
	case "ask":
		m.emit(AssistMsg{})
		return
	case "summarize":
		m.emit(AssistMsg{Prompt: "Summarize this page."})
		return
	case "improve":
		m.emit(AssistMsg{Prompt: "Improve the writing on this page."})
		return
	}
	m.dirty = true
}

// insertMentions inserts the confirmed mention set at the caret.
func (m *Model) insertMentions(refs []components.MentionRef) {
	m.mode = modeNone
	m.query = ""
	if len(refs) == 0 {
		return
	}

	var b strings.Builder
	for i, r := range refs {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString("@[" + r.Title + "](" + string(r.Kind) + ":" + r.ID + ")")
	}
	b.WriteString(" ")
	m.textarea.InsertString(b.String())
	m.dirty = true
}

// runSelectionAction applies a formatting action to the caret's line.
func (m *Model) runSelectionAction(a components.ToolbarAction) {
	line, row, _ := m.currentLine()
	text := strings.TrimSpace(line)

	switch a.ID {
	case "bold":
		m.setLine(row, wrapLine(line, "**"))
	case "italic":
		m.setLine(row, wrapLine(line, "*"))
	case "code":
		m.setLine(row, wrapLine(line, "`"))
	case "link":
		m.openLinkPopover()
	case "ask":
		if text == "" {
			m.emit(AssistMsg{})
			return
		}
		m.emit(AssistMsg{Prompt: "Help me improve this: " + text})
	}
}

// wrapLine wraps a line's content in a marker, preserving indentation.
func wrapLine(line, marker string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]
	if trimmed == "" {
		return line
	}
	return indent + marker + trimmed + marker
}

// runTableAction applies a row or column operation at the caret.
func (m *Model) runTableAction(a components.ToolbarAction) {
	line, row, col := m.currentLine()
	lines := strings.Split(m.textarea.Value(), "\n")
	cell := columnAt(line, col)

	var out []string
	switch a.ID {
	case "row-above":
		out = insertTableRow(lines, row, true)
	case "row-below":
		out = insertTableRow(lines, row, false)
	case "col-left":
		out = insertTableCol(lines, row, cell, true)
	case "col-right":
		out = insertTableCol(lines, row, cell, false)
	case "delete-row":
		out = deleteTableRow(lines, row)
	case "delete-col":
		out = deleteTableCol(lines, row, cell)
	default:
		return
	}

	m.textarea.SetValue(strings.Join(out, "\n"))
	m.dirty = true
}

// insertLink saves the popover URL: an existing link on the line is
// rewritten in place, otherwise a new link token is inserted.
func (m *Model) insertLink(url string) {
	line, row, _ := m.currentLine()
	if text, _, ok := parseLink(line); ok {
		m.setLine(row, replaceLink(line, text, url))
		return
	}
	m.textarea.InsertString("[link](" + url + ")")
	m.dirty = true
}

// removeLink unwraps the first link on the caret's line, keeping its
// text.
func (m *Model) removeLink() {
	line, row, _ := m.currentLine()
	if _, _, ok := parseLink(line); !ok {
		return
	}
	m.setLine(row, stripLink(line))
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// save writes the buffer back to the page store.
func (m *Model) save() {
	if m.page == nil {
		return
	}
	body := m.textarea.Value()
	if err := m.store.UpdatePage(context.Background(), m.page.ID, m.page.Title, body); err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.page.Body = body
	m.dirty = false
	m.status = "saved"
}

// exportPage writes the buffer into the notes directory as a markdown
// file named after the page title. The write is atomic so the files
// watcher never sees a partial note.
func (m *Model) exportPage() {
	if m.page == nil {
		return
	}
	if m.notesDir == "" {
		m.status = "no notes directory configured"
		return
	}

	name := exportFileName(m.page.Title)
	path := filepath.Join(m.notesDir, name)
	if err := util.AtomicWriteFile(path, []byte(m.textarea.Value()), 0644); err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	m.status = "exported " + util.TruncateRunes(name, 48)
}

// exportFileName slugs a page title into a markdown file name.
func exportFileName(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "untitled"
	}
	return slug + ".md"
}

// resolveFirstPending accepts or rejects the oldest pending edit on the
// page. Acceptance inserts the proposed text at the caret; both outcomes
// clear the highlight and report the decision to the service.
func (m *Model) resolveFirstPending(accepted bool) tea.Cmd {
	if m.page == nil {
		return nil
	}
	pend := m.tracker.PendingFor(m.page.ID)
	if len(pend) == 0 {
		m.status = "no pending edits"
		return nil
	}
	p := pend[0]

	if err := m.store.ResolveEdit(context.Background(), p.EditID, accepted); err != nil {
		m.status = "resolve failed: " + err.Error()
		return nil
	}

	kind := annotation.KindReject
	if accepted {
		kind = annotation.KindAccept
		m.textarea.InsertString(p.Text)
		m.dirty = true
	}
	m.bus.Publish(annotation.Event{Kind: kind, PageID: p.PageID, EditID: p.EditID})

	client := m.client
	req := api.ResolveRequest{PageID: p.PageID, EditID: p.EditID, Accepted: accepted}
	return func() tea.Msg {
		err := client.Resolve(context.Background(), req)
		return resolveDoneMsg{EditID: p.EditID, Err: err}
	}
}

// =============================================================================
// LINK PARSING
// =============================================================================

// parseLink finds the first markdown link on a line.
func parseLink(line string) (text, url string, ok bool) {
	open := strings.Index(line, "[")
	if open < 0 {
		return "", "", false
	}
	mid := strings.Index(line[open:], "](")
	if mid < 0 {
		return "", "", false
	}
	mid += open
	end := strings.Index(line[mid:], ")")
	if end < 0 {
		return "", "", false
	}
	end += mid
	return line[open+1 : mid], line[mid+2 : end], true
}

// replaceLink rewrites the first link's URL, keeping its text.
func replaceLink(line, text, url string) string {
	_, old, ok := parseLink(line)
	if !ok {
		return line
	}
	target := "[" + text + "](" + old + ")"
	return strings.Replace(line, target, "["+text+"]("+url+")", 1)
}

// stripLink unwraps the first link, keeping its text.
func stripLink(line string) string {
	text, url, ok := parseLink(line)
	if !ok {
		return line
	}
	return strings.Replace(line, "["+text+"]("+url+")", text, 1)
}
