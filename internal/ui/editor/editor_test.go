// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

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
// TEST SETUP
// =============================================================================

func newTestEditor(t *testing.T) (*Model, *pages.Store, *annotation.Bus) {
	t.Helper()

	store, err := pages.Open(filepath.Join(t.TempDir(), "haven.db"))
	if err != nil {
		t.Fatalf("pages.Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	bus := annotation.NewBus()
	coord := overlay.NewCoordinator()
	mgr := overlay.NewManager()
	client := api.NewClient(&api.ClientConfig{BaseURL: "http://127.0.0.1:1"})

	m := NewModel(styles.NewTheme(), config.Default().Overlay, coord, mgr, store, client, bus)
	m.SetViewport(120, 40)
	m.SetOffset(60, 1)
	m.SetSize(58, 36)
	m.Focus()

	page, err := store.CreatePage(context.Background(), "Plans", "")
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	m.SetPage(page)
	return m, store, bus
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeString(m *Model, s string) {
	for _, r := range s {
		m.Update(runeKey(r))
	}
}

// =============================================================================
// TABLE HELPERS
// =============================================================================

func TestTableExtent(t *testing.T) {
	lines := []string{
		"intro",
		"| a | b |",
		"| --- | --- |",
		"| 1 | 2 |",
		"outro",
	}

	start, end, ok := tableExtent(lines, 2)
	if !ok || start != 1 || end != 3 {
		t.Errorf("tableExtent = (%d, %d, %v), want (1, 3, true)", start, end, ok)
	}
	if _, _, ok := tableExtent(lines, 0); ok {
		t.Error("non-table row must not have an extent")
	}
}

func TestInsertTableRowKeepsSeparatorUnderHeader(t *testing.T) {
	lines := []string{
		"| a | b |",
		"| --- | --- |",
		"| 1 | 2 |",
	}

	out := insertTableRow(lines, 0, false)
	want := []string{
		"| a | b |",
		"| --- | --- |",
		"|   |   |",
		"| 1 | 2 |",
	}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("insertTableRow below header:\ngot  %q\nwant %q", out, want)
	}
}

func TestInsertTableColAddsSeparatorCell(t *testing.T) {
	lines := []string{
		"| a | b |",
		"| --- | --- |",
		"| 1 | 2 |",
	}

	out := insertTableCol(lines, 0, 0, false)
	if got := splitRow(out[1]); len(got) != 3 || got[1] != "---" {
		t.Errorf("separator row after col insert = %q", out[1])
	}
	if got := splitRow(out[0]); len(got) != 3 {
		t.Errorf("header row after col insert = %q", out[0])
	}
}

func TestDeleteTableColRefusesLastColumn(t *testing.T) {
	lines := []string{"| only |", "| --- |", "| x |"}
	out := deleteTableCol(lines, 0, 0)
	if !reflect.DeepEqual(out, lines) {
		t.Errorf("last column deleted: %q", out)
	}
}

func TestDeleteTableRowSkipsSeparator(t *testing.T) {
	lines := []string{"| a |", "| --- |", "| 1 |"}
	out := deleteTableRow(lines, 1)
	if !reflect.DeepEqual(out, lines) {
		t.Errorf("separator row deleted: %q", out)
	}
	out = deleteTableRow(lines, 2)
	if len(out) != 2 {
		t.Errorf("data row not deleted: %q", out)
	}
}

func TestColumnAt(t *testing.T) {
	line := "| alpha | beta | gamma |"
	tests := []struct {
		caret int
		want  int
	}{
		{0, 0},
		{3, 0},
		{10, 1},
		{17, 2},
		{len(line), 2},
	}
	for _, tc := range tests {
		if got := columnAt(line, tc.caret); got != tc.want {
			t.Errorf("columnAt(%d) = %d, want %d", tc.caret, got, tc.want)
		}
	}
}

// =============================================================================
// LINK HELPERS
// =============================================================================

func TestParseLink(t *testing.T) {
	text, url, ok := parseLink("see [docs](https://example.com) here")
	if !ok || text != "docs" || url != "https://example.com" {
		t.Errorf("parseLink = (%q, %q, %v)", text, url, ok)
	}
	if _, _, ok := parseLink("no link here"); ok {
		t.Error("parseLink must fail without a link")
	}
}

func TestReplaceAndStripLink(t *testing.T) {
	line := "see [docs](https://old) here"
	if got := replaceLink(line, "docs", "https://new"); got != "see [docs](https://new) here" {
		t.Errorf("replaceLink = %q", got)
	}
	if got := stripLink(line); got != "see docs here" {
		t.Errorf("stripLink = %q", got)
	}
}

func TestWrapLinePreservesIndent(t *testing.T) {
	if got := wrapLine("  note", "**"); got != "  **note**" {
		t.Errorf("wrapLine = %q", got)
	}
	if got := wrapLine("   ", "*"); got != "   " {
		t.Errorf("blank line must stay unwrapped, got %q", got)
	}
}

// =============================================================================
// SLASH MENU FLOW
// =============================================================================

func TestSlashOpensAtLineStart(t *testing.T) {
	m, _, _ := newTestEditor(t)

	m.Update(runeKey('/'))
	if !m.slash.IsOpen() {
		t.Fatal("slash menu must open on / at line start")
	}
	if m.Body() != "" {
		t.Errorf("trigger character leaked into buffer: %q", m.Body())
	}
}

func TestSlashDoesNotOpenMidWord(t *testing.T) {
	m, _, _ := newTestEditor(t)

	typeString(m, "a")
	m.Update(runeKey('/'))
	if m.slash.IsOpen() {
		t.Error("slash menu must not open mid-word")
	}
	if m.Body() != "a/" {
		t.Errorf("body = %q, want %q", m.Body(), "a/")
	}
}

func TestSlashCommitInsertsHeading(t *testing.T) {
	m, _, _ := newTestEditor(t)

	m.Update(runeKey('/'))
	typeString(m, "heading")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.slash.IsOpen() {
		t.Error("menu must close on commit")
	}
	if m.Body() != "# " {
		t.Errorf("body = %q, want %q", m.Body(), "# ")
	}
	if !m.Dirty() {
		t.Error("commit must mark the buffer dirty")
	}
}

func TestSlashTabCommitsSelection(t *testing.T) {
	m, _, _ := newTestEditor(t)

	m.Update(runeKey('/'))
	typeString(m, "heading")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	if m.slash.IsOpen() {
		t.Error("menu must close on tab")
	}
	if m.Body() != "# " {
		t.Errorf("body = %q, want %q", m.Body(), "# ")
	}
}

func TestSlashBackspacePastStartCloses(t *testing.T) {
	m, _, _ := newTestEditor(t)

	m.Update(runeKey('/'))
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.slash.IsOpen() {
		t.Error("backspace on empty query must close the menu")
	}
	if m.mode != modeNone {
		t.Error("mode must reset")
	}
}

func TestSlashSpaceKeepsLiteralText(t *testing.T) {
	m, _, _ := newTestEditor(t)

	m.Update(runeKey('/'))
	typeString(m, "todo")
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if m.slash.IsOpen() {
		t.Error("space must close the menu")
	}
	if m.Body() != "/todo " {
		t.Errorf("body = %q, want %q", m.Body(), "/todo ")
	}
}

func TestSlashAssistCommandEmitsPrompt(t *testing.T) {
	m, _, _ := newTestEditor(t)

	m.Update(runeKey('/'))
	typeString(m, "summarize")
	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("assist command must produce a command")
	}

	found := false
	collectMsgs(cmd, func(msg tea.Msg) {
		if am, ok := msg.(AssistMsg); ok && strings.Contains(am.Prompt, "Summarize") {
			found = true
		}
	})
	if !found {
		t.Error("no AssistMsg with a summarize prompt")
	}
}

// collectMsgs runs a command tree and visits every produced message.
func collectMsgs(cmd tea.Cmd, visit func(tea.Msg)) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			collectMsgs(c, visit)
		}
		return
	}
	visit(msg)
}

// =============================================================================
// MENTION FLOW
// =============================================================================

func TestMentionInsertsTokens(t *testing.T) {
	m, _, _ := newTestEditor(t)
	m.SetCandidateSource(func(string) []components.MentionRef {
		return []components.MentionRef{
			{Kind: components.MentionPerson, ID: "u1", Title: "Priya"},
			{Kind: components.MentionSource, ID: "notion", Title: "Notion"},
		}
	})

	m.Update(runeKey('@'))
	if !m.mention.IsOpen() {
		t.Fatal("mention picker must open on @")
	}

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}) // toggle Priya
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.mention.IsOpen() {
		t.Error("picker must close on confirm")
	}
	want := "@[Priya](person:u1) "
	if m.Body() != want {
		t.Errorf("body = %q, want %q", m.Body(), want)
	}
}

func TestMentionTabConfirmsSelection(t *testing.T) {
	m, _, _ := newTestEditor(t)
	m.SetCandidateSource(func(string) []components.MentionRef {
		return []components.MentionRef{{Kind: components.MentionPerson, ID: "u1", Title: "Priya"}}
	})

	m.Update(runeKey('@'))
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}) // toggle Priya
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	if m.mention.IsOpen() {
		t.Error("picker must close on tab")
	}
	want := "@[Priya](person:u1) "
	if m.Body() != want {
		t.Errorf("body = %q, want %q", m.Body(), want)
	}
}

func TestMentionConfirmEmptySetInsertsNothing(t *testing.T) {
	m, _, _ := newTestEditor(t)
	m.SetCandidateSource(func(string) []components.MentionRef {
		return []components.MentionRef{{Kind: components.MentionPage, ID: "p1", Title: "Roadmap"}}
	})

	m.Update(runeKey('@'))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Body() != "" {
		t.Errorf("empty confirm inserted %q", m.Body())
	}
}

// =============================================================================
// TOOLBARS
// =============================================================================

func TestToolbarPicksTableVariantInsideTable(t *testing.T) {
	m, _, _ := newTestEditor(t)
	m.textarea.SetValue("| a | b |\n| --- | --- |\n| 1 | 2 |")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if !m.tablebar.IsOpen() {
		t.Error("table toolbar must open inside a table")
	}
	if m.selbar.IsOpen() {
		t.Error("selection toolbar must stay closed")
	}
}

func TestSelectionToolbarBoldsLine(t *testing.T) {
	m, _, _ := newTestEditor(t)
	typeString(m, "note")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if !m.selbar.IsOpen() {
		t.Fatal("selection toolbar must open")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter}) // first action is Bold

	if m.selbar.IsOpen() {
		t.Error("toolbar must close on commit")
	}
	if got := m.Body(); got != "**note**" {
		t.Errorf("body = %q, want %q", got, "**note**")
	}
}

func TestToolbarTabCommits(t *testing.T) {
	m, _, _ := newTestEditor(t)
	typeString(m, "note")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if !m.selbar.IsOpen() {
		t.Fatal("selection toolbar must open")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab}) // first action is Bold

	if m.selbar.IsOpen() {
		t.Error("toolbar must close on tab")
	}
	if got := m.Body(); got != "**note**" {
		t.Errorf("body = %q, want %q", got, "**note**")
	}
}

// =============================================================================
// PENDING EDIT RESOLUTION
// =============================================================================

func TestAcceptPendingInsertsAndResolves(t *testing.T) {
	m, store, bus := newTestEditor(t)
	page := m.Page()

	if _, err := store.RecordEdit(context.Background(), "e1", page.ID, "new text"); err != nil {
		t.Fatalf("RecordEdit: %v", err)
	}
	bus.Publish(annotation.Event{Kind: annotation.KindHighlight, PageID: page.ID, EditID: "e1", Text: "new text"})

	cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if cmd == nil {
		t.Fatal("accept must produce a sync command")
	}

	if m.Tracker().IsPending(page.ID, "e1") {
		t.Error("accepted edit must leave the pending set")
	}
	if m.Body() != "new text" {
		t.Errorf("body = %q, want the accepted text", m.Body())
	}
	edit, err := store.GetEdit(context.Background(), "e1")
	if err != nil {
		t.Fatalf("GetEdit: %v", err)
	}
	if edit.Status != pages.EditAccepted {
		t.Errorf("edit status = %q, want accepted", edit.Status)
	}
}

func TestRejectPendingKeepsBody(t *testing.T) {
	m, store, bus := newTestEditor(t)
	page := m.Page()

	if _, err := store.RecordEdit(context.Background(), "e1", page.ID, "unwanted"); err != nil {
		t.Fatalf("RecordEdit: %v", err)
	}
	bus.Publish(annotation.Event{Kind: annotation.KindHighlight, PageID: page.ID, EditID: "e1", Text: "unwanted"})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})

	if m.Body() != "" {
		t.Errorf("reject must not change the body, got %q", m.Body())
	}
	edit, err := store.GetEdit(context.Background(), "e1")
	if err != nil {
		t.Fatalf("GetEdit: %v", err)
	}
	if edit.Status != pages.EditRejected {
		t.Errorf("edit status = %q, want rejected", edit.Status)
	}
}

func TestResolveWithNothingPending(t *testing.T) {
	m, _, _ := newTestEditor(t)

	if cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY}); cmd != nil {
		t.Error("nothing pending must not produce a command")
	}
	if m.Status() != "no pending edits" {
		t.Errorf("status = %q", m.Status())
	}
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func TestSavePersistsBody(t *testing.T) {
	m, store, _ := newTestEditor(t)
	typeString(m, "hello")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Dirty() {
		t.Error("save must clear the dirty flag")
	}

	got, err := store.GetPage(context.Background(), m.Page().ID)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if got.Body != "hello" {
		t.Errorf("stored body = %q, want %q", got.Body, "hello")
	}
}

func TestExportWritesNoteFile(t *testing.T) {
	m, _, _ := newTestEditor(t)
	dir := t.TempDir()
	m.SetNotesDir(dir)

	typeString(m, "hello ")
	m.Update(runeKey('/'))
	typeString(m, "export")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	data, err := os.ReadFile(filepath.Join(dir, "plans.md"))
	if err != nil {
		t.Fatalf("exported file: %v", err)
	}
	if string(data) != "hello " {
		t.Errorf("exported body = %q, want %q", data, "hello ")
	}
	if !strings.Contains(m.Status(), "exported") {
		t.Errorf("status = %q", m.Status())
	}
}

func TestExportWithoutNotesDirSetsStatus(t *testing.T) {
	m, _, _ := newTestEditor(t)

	m.Update(runeKey('/'))
	typeString(m, "export")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !strings.Contains(m.Status(), "notes directory") {
		t.Errorf("status = %q", m.Status())
	}
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Plans", "plans.md"},
		{"Q3 Roadmap!", "q3-roadmap.md"},
		{"  Weekly Notes  ", "weekly-notes.md"},
		{"///", "untitled.md"},
		{"", "untitled.md"},
	}
	for _, tt := range tests {
		if got := exportFileName(tt.title); got != tt.want {
			t.Errorf("exportFileName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
