// Copyright (c) 2025 Haven Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style

	// ==========================================================================
	// EDITOR STYLES
	// ==========================================================================

	EditorPane      lipgloss.Style
	EditorTitle     lipgloss.Style
	SelectionMark   lipgloss.Style
	PendingProposal lipgloss.Style
	AcceptedText    lipgloss.Style
	RejectedText    lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// FLOATING SURFACE STYLES (slash menu, pickers, toolbars, popovers)
	// ==========================================================================

	SurfaceBox          lipgloss.Style
	SurfaceItem         lipgloss.Style
	SurfaceItemSelected lipgloss.Style
	SurfaceItemChosen   lipgloss.Style
	SurfaceGroupLabel   lipgloss.Style
	SurfaceQuery        lipgloss.Style
	SurfaceHint         lipgloss.Style
	SurfaceEmpty        lipgloss.Style

	// ==========================================================================
	// TOOLBAR STYLES
	// ==========================================================================

	ToolbarBox          lipgloss.Style
	ToolbarButton       lipgloss.Style
	ToolbarButtonActive lipgloss.Style

	// ==========================================================================
	// LINK POPOVER STYLES
	// ==========================================================================

	PopoverBox   lipgloss.Style
	PopoverLabel lipgloss.Style
	LinkStyle    lipgloss.Style

	// ==========================================================================
	// MENTION STYLES
	// ==========================================================================

	MentionText lipgloss.Style

	// ==========================================================================
	// ACCESSIBILITY: Status indicator styles with shapes and high contrast
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	// Detect terminal capabilities
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 2).
		MarginRight(4)

	// Editor
	t.EditorPane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.EditorTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.SelectionMark = lipgloss.NewStyle().
		Background(SelectionBg)

	t.PendingProposal = lipgloss.NewStyle().
		Foreground(ProposalFg).
		Background(ProposalBg)

	t.AcceptedText = lipgloss.NewStyle().
		Foreground(Emerald)

	t.RejectedText = lipgloss.NewStyle().
		Foreground(Rose).
		Strikethrough(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Floating surfaces
	t.SurfaceBox = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.SurfaceItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.SurfaceItemSelected = lipgloss.NewStyle().
		Background(Purple).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	t.SurfaceItemChosen = lipgloss.NewStyle().
		Foreground(Emerald).
		Padding(0, 1)

	t.SurfaceGroupLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Bold(true).
		Padding(0, 1)

	t.SurfaceQuery = lipgloss.NewStyle().
		Foreground(Cyan)

	t.SurfaceHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.SurfaceEmpty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Padding(0, 1)

	// Toolbars
	t.ToolbarBox = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.ToolbarButton = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.ToolbarButtonActive = lipgloss.NewStyle().
		Background(Purple).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	// Link popover
	t.PopoverBox = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.PopoverLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.LinkStyle = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)

	// Mentions
	t.MentionText = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Status indicators. High contrast plus shape symbols from
	// StatusIndicators for colorblind users.
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}
