package main

import "github.com/charmbracelet/lipgloss"

var palette = struct {
	text      lipgloss.AdaptiveColor
	textMuted lipgloss.AdaptiveColor
	accent    lipgloss.AdaptiveColor
	border    lipgloss.AdaptiveColor
	selection lipgloss.AdaptiveColor
	success   lipgloss.AdaptiveColor
	danger    lipgloss.AdaptiveColor
}{
	text:      lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#E6EDF3"},
	textMuted: lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#7D8590"},
	accent:    lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#00BFFF"},
	border:    lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#3D444D"},
	selection: lipgloss.AdaptiveColor{Light: "#DDF4FF", Dark: "#1F3A5F"},
	success:   lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"},
	danger:    lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF5C7A"},
}

type styles struct {
	app, topBar, topTitle, topMeta   lipgloss.Style
	columnTitle                      lipgloss.Style
	panel, panelFocused              lipgloss.Style
	tabActive, tabInactive           lipgloss.Style
	tabsRow                          lipgloss.Style
	statusBar, statusSeg, statusHint lipgloss.Style
	statusError, statusOK            lipgloss.Style
	listItem, listSel                lipgloss.Style
	overlay, overlayTitle, hint      lipgloss.Style
	placeholder                      lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	panelBorder := lipgloss.NormalBorder()
	focusedBorder := lipgloss.DoubleBorder()

	return styles{
		app:          base,
		topBar:       base.Copy().Padding(0, 1),
		topTitle:     base.Copy().Bold(true).Foreground(palette.accent),
		topMeta:      base.Copy().Foreground(palette.textMuted),
		columnTitle:  base.Copy().Bold(true).Padding(0, 1),
		panel:        base.Copy().BorderStyle(panelBorder).BorderForeground(palette.border),
		panelFocused: base.Copy().BorderStyle(focusedBorder).BorderForeground(palette.accent),
		tabActive: base.Copy().
			Bold(true).
			Padding(0, 1).
			Foreground(palette.accent).
			Border(lipgloss.RoundedBorder(), true, true, false, true).
			BorderForeground(palette.accent),
		tabInactive: base.Copy().
			Padding(0, 1).
			Foreground(palette.textMuted).
			Border(lipgloss.RoundedBorder(), true, true, false, true).
			BorderForeground(palette.border),
		tabsRow:      base.Copy().Padding(0, 1),
		statusBar:    base.Copy().Padding(0, 1),
		statusSeg:    base.Copy().Padding(0, 1).MarginRight(1),
		statusHint:   base.Copy().Foreground(palette.textMuted),
		statusError:  base.Copy().Padding(0, 1).MarginRight(1).Foreground(palette.danger),
		statusOK:     base.Copy().Padding(0, 1).MarginRight(1).Foreground(palette.success),
		listItem:     base.Copy().Padding(0, 1),
		listSel:      base.Copy().Padding(0, 1).Bold(true).Foreground(palette.text).Background(palette.selection),
		overlay:      base.Copy().Border(lipgloss.RoundedBorder()).BorderForeground(palette.accent).Padding(1, 2),
		overlayTitle: base.Copy().Bold(true),
		hint:         base.Copy().Faint(true),
		placeholder:  base.Copy().Foreground(palette.textMuted).Padding(1, 2),
	}
}
