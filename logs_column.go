package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	logsPanelHeight = 8
	maxLogLines     = 400
)

type logsColumn struct {
	model *model
	title string

	width  int
	height int

	scrollTrackStyle lipgloss.Style
	scrollThumbStyle lipgloss.Style

	barWidth      int
	contentWidth  int
	contentHeight int
}

func newLogsColumn(m *model) *logsColumn {
	return &logsColumn{
		model:            m,
		title:            "Activity",
		barWidth:         1,
		scrollTrackStyle: lipgloss.NewStyle().Foreground(palette.border),
		scrollThumbStyle: lipgloss.NewStyle().Foreground(palette.accent),
	}
}

func (c *logsColumn) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 3 {
		height = 3
	}
	c.width = width
	c.height = height
	c.recalcMetrics()
}

func (c *logsColumn) recalcMetrics() {
	if c.model == nil {
		return
	}
	// border (2) plus title (1)
	c.contentWidth = c.width - c.barWidth
	if c.contentWidth < 1 {
		c.contentWidth = 1
	}
	c.contentHeight = c.height - 3
	if c.contentHeight < 1 {
		c.contentHeight = 1
	}
	c.model.logs.Width = c.contentWidth
	c.model.logs.Height = c.contentHeight

	maxOffset := len(c.model.logLines) - c.model.logs.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if c.model.logs.YOffset > maxOffset {
		c.model.logs.SetYOffset(maxOffset)
	}
}

func (c *logsColumn) View(s styles, focused bool) string {
	title := s.columnTitle.Render(c.title)
	if value := c.FocusValue(); value != "" {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, s.hint.Render(value))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, title, c.renderContent())
	return panelStyle(s, focused).Width(c.width).Render(body)
}

func (c *logsColumn) renderContent() string {
	if c.model == nil {
		return ""
	}
	lines := strings.Split(c.model.logs.View(), "\n")
	height := c.contentHeight
	if height < 1 {
		height = len(lines)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	bar := c.renderScrollBar(height)
	for i := 0; i < height; i++ {
		lines[i] = bar[i] + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (c *logsColumn) renderScrollBar(height int) []string {
	lines := make([]string, height)
	track := c.scrollTrackStyle.Render("│")
	thumb := c.scrollThumbStyle.Render("│")

	total := c.model.logs.TotalLineCount()
	visible := c.model.logs.Height
	if visible <= 0 {
		visible = height
	}
	if total <= visible {
		for i := range lines {
			lines[i] = track
		}
		return lines
	}

	thumbHeight := int(math.Round(float64(visible) / float64(total) * float64(height)))
	if thumbHeight < 1 {
		thumbHeight = 1
	}
	maxOffset := total - visible
	offset := c.model.logs.YOffset
	if offset < 0 {
		offset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	ratio := float64(offset) / float64(maxOffset)
	thumbStart := int(math.Round(ratio * float64(height-thumbHeight)))
	if thumbStart < 0 {
		thumbStart = 0
	}
	if thumbStart+thumbHeight > height {
		thumbStart = height - thumbHeight
	}
	for i := 0; i < height; i++ {
		if i >= thumbStart && i < thumbStart+thumbHeight {
			lines[i] = thumb
		} else {
			lines[i] = track
		}
	}
	return lines
}

func (c *logsColumn) FocusValue() string {
	if c.model == nil {
		return ""
	}
	total := len(c.model.logLines)
	if total == 0 {
		return "Idle"
	}
	start := c.model.logs.YOffset + 1
	end := start + c.model.logs.Height - 1
	if end > total {
		end = total
	}
	if start < 1 {
		start = 1
	}
	return fmt.Sprintf("%d-%d/%d", start, end, total)
}
