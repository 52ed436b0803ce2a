// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor provides the page editor pane: a markdown textarea with
// cursor-anchored floating surfaces (slash menu, mention picker, toolbars,
// link popover) and pending-edit resolution.
package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/havenlabs/haven-tui/internal/annotation"
	"github.com/havenlabs/haven-tui/internal/api"
	"github.com/havenlabs/haven-tui/internal/config"
	"github.com/havenlabs/haven-tui/internal/overlay"
	"github.com/havenlabs/haven-tui/internal/pages"
	"github.com/havenlabs/haven-tui/internal/ui/components"
	"github.com/havenlabs/haven-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// AssistMsg asks the app to hand a prompt to the chat pane. An empty
// prompt just moves focus to chat.
type AssistMsg struct {
	Prompt string
}

// resolveDoneMsg reports the service's answer to an edit resolution.
type resolveDoneMsg struct {
	EditID string
	Err    error
}

// =============================================================================
// MODEL
// =============================================================================

// overlayMode tracks which query-driven overlay owns typed characters.
type overlayMode int

const (
	modeNone overlayMode = iota
	modeSlash
	modeMention
)

// editorHeaderRows is the rows above the textarea inside the pane: the
// page title line and its underline gap.
const editorHeaderRows = 2

// Model is the editor pane. It is used through a pointer: the floating
// components hold callbacks into it, so the struct must not be copied.
type Model struct {
	theme  *styles.Theme
	cfg    config.OverlayConfig
	coord  *overlay.Coordinator
	mgr    *overlay.Manager
	store  *pages.Store
	client *api.Client
	bus    *annotation.Bus

	tracker  *annotation.Tracker
	textarea textarea.Model

	page     *pages.Page
	dirty    bool
	status   string
	notesDir string

	slash    *components.SlashMenu
	mention  *components.MentionPicker
	selbar   *components.Toolbar
	tablebar *components.Toolbar
	link     *components.LinkPopover

	// mode routes typed characters into the open overlay's query.
	mode  overlayMode
	query string

	// candidates supplies mention targets for the current query.
	candidates func(query string) []components.MentionRef

	offsetX, offsetY int
	width, height    int
	viewport         overlay.Size

	// emitted collects messages raised from component callbacks; Update
	// drains them into commands.
	emitted []tea.Msg
}

// NewModel creates the editor pane and mounts its floating components on
// the shared coordinator and manager.
func NewModel(
	theme *styles.Theme,
	cfg config.OverlayConfig,
	coord *overlay.Coordinator,
	mgr *overlay.Manager,
	store *pages.Store,
	client *api.Client,
	bus *annotation.Bus,
) *Model {
	ta := textarea.New()
	ta.Placeholder = "Start writing. / for commands, @ to mention."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	m := &Model{
		theme:    theme,
		cfg:      cfg,
		coord:    coord,
		mgr:      mgr,
		store:    store,
		client:   client,
		bus:      bus,
		tracker:  annotation.NewTracker(bus),
		textarea: ta,
	}

	m.slash = components.NewSlashMenu(theme, coord, mgr, components.DefaultSlashCommands(), m.runSlashCommand)
	m.mention = components.NewMentionPicker(theme, coord, mgr, m.insertMentions)
	m.selbar = components.NewSelectionToolbar(theme, coord, mgr, m.runSelectionAction)
	m.tablebar = components.NewTableToolbar(theme, coord, mgr, m.runTableAction)
	m.link = components.NewLinkPopover(theme, coord, mgr, m.insertLink, m.removeLink)

	return m
}

// SetCandidateSource installs the mention candidate provider.
func (m *Model) SetCandidateSource(fn func(query string) []components.MentionRef) {
	m.candidates = fn
}

// SetNotesDir sets the directory the export command writes into. Empty
// disables export.
func (m *Model) SetNotesDir(dir string) {
	m.notesDir = dir
}

// SetSize updates the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.textarea.SetWidth(width - 2)
	m.textarea.SetHeight(height - editorHeaderRows - 3)
}

// SetOffset records the pane's origin in viewport cells, used to place
// cursor-anchored overlays.
func (m *Model) SetOffset(x, y int) {
	m.offsetX = x
	m.offsetY = y
}

// SetViewport updates the screen size overlays solve against and
// repositions anything open.
func (m *Model) SetViewport(width, height int) {
	m.viewport = overlay.Size{Width: width, Height: height}
	m.slash.Resize(m.viewport)
	m.mention.Resize(m.viewport)
	m.selbar.Resize(m.viewport)
	m.tablebar.Resize(m.viewport)
	m.link.Resize(m.viewport)
}

// SetPage loads a page into the editor.
func (m *Model) SetPage(p *pages.Page) {
	m.page = p
	m.textarea.SetValue(p.Body)
	m.dirty = false
	m.status = ""
}

// Page returns the loaded page, nil before the first SetPage.
func (m *Model) Page() *pages.Page { return m.page }

// Body returns the current editor contents.
func (m *Model) Body() string { return m.textarea.Value() }

// Dirty reports whether the buffer has unsaved changes.
func (m *Model) Dirty() bool { return m.dirty }

// Status returns the transient status line.
func (m *Model) Status() string { return m.status }

// Tracker returns the pending-edit tracker.
func (m *Model) Tracker() *annotation.Tracker { return m.tracker }

// Focus gives the textarea keyboard focus.
func (m *Model) Focus() tea.Cmd { return m.textarea.Focus() }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.textarea.Blur() }

// Focused reports whether the textarea has focus.
func (m *Model) Focused() bool { return m.textarea.Focused() }

// OverlayOpen reports whether any of the pane's floating surfaces is
// showing.
func (m *Model) OverlayOpen() bool {
	return m.slash.IsOpen() || m.mention.IsOpen() ||
		m.selbar.IsOpen() || m.tablebar.IsOpen() || m.link.IsOpen()
}

// =============================================================================
// GEOMETRY
// =============================================================================

// caretAnchor returns the zero-area anchor at the text cursor, in
// viewport cells.
func (m *Model) caretAnchor() overlay.Anchor {
	info := m.textarea.LineInfo()
	x := m.offsetX + 1 + info.ColumnOffset
	y := m.offsetY + editorHeaderRows + m.textarea.Line() + info.RowOffset
	return overlay.AnchorPoint(clamp(x, 0, m.viewport.Width-1), clamp(y, 0, m.viewport.Height-1))
}

// lineAnchor returns the anchor covering the caret's whole line, used by
// the selection and table toolbars.
func (m *Model) lineAnchor() overlay.Anchor {
	line, row, _ := m.currentLine()
	y := m.offsetY + editorHeaderRows + row
	width := len(line)
	if width < 1 {
		width = 1
	}
	if width > m.width-2 {
		width = m.width - 2
	}
	return overlay.AnchorRegion(overlay.Region{
		X:      m.offsetX + 1,
		Y:      clamp(y, 0, m.viewport.Height-1),
		Width:  width,
		Height: 1,
	})
}

// currentLine returns the caret's logical line, its row index, and the
// caret column within it.
func (m *Model) currentLine() (line string, row, col int) {
	lines := strings.Split(m.textarea.Value(), "\n")
	row = m.textarea.Line()
	if row < 0 || row >= len(lines) {
		return "", row, 0
	}
	info := m.textarea.LineInfo()
	return lines[row], row, info.StartColumn + info.ColumnOffset
}

// setLine replaces one logical line of the buffer. The cursor moves to
// the end of the buffer as a side effect of SetValue.
func (m *Model) setLine(row int, s string) {
	lines := strings.Split(m.textarea.Value(), "\n")
	if row < 0 || row >= len(lines) {
		return
	}
	lines[row] = s
	m.textarea.SetValue(strings.Join(lines, "\n"))
	m.dirty = true
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// =============================================================================
// EMITTED MESSAGES
// =============================================================================

// emit queues a message for the app; Update drains the queue.
func (m *Model) emit(msg tea.Msg) {
	m.emitted = append(m.emitted, msg)
}

// takeCmds converts queued messages into a batch command.
func (m *Model) takeCmds() tea.Cmd {
	if len(m.emitted) == 0 {
		return nil
	}
	msgs := m.emitted
	m.emitted = nil
	cmds := make([]tea.Cmd, len(msgs))
	for i, msg := range msgs {
		queued := msg
		cmds[i] = func() tea.Msg { return queued }
	}
	return tea.Batch(cmds...)
}
