package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/diagview/internal/render"
)

type column interface {
	SetSize(width, height int)
	Update(msg tea.Msg) (column, tea.Cmd)
	View(styles styles, focused bool) string
	Title() string
	FocusValue() string
}

type selectableColumn struct {
	title    string
	empty    string
	model    list.Model
	width    int
	height   int
	onSelect func(entry listEntry) tea.Cmd
}

type listEntry struct {
	title   string
	desc    string
	payload any
}

func (e listEntry) Title() string       { return e.title }
func (e listEntry) Description() string { return e.desc }
func (e listEntry) FilterValue() string { return e.title }

func newSelectableColumn(title string, items []list.Item, width int, onSelect func(listEntry) tea.Cmd, s styles) *selectableColumn {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = s.listSel
	delegate.Styles.SelectedDesc = s.listSel
	delegate.Styles.NormalTitle = s.listItem
	delegate.Styles.NormalDesc = s.listItem.Copy().Foreground(palette.textMuted)

	m := list.New(items, delegate, width, 20)
	m.Title = title
	m.SetShowTitle(false)
	m.SetShowStatusBar(false)
	m.SetFilteringEnabled(false)
	m.SetShowHelp(false)
	m.SetShowPagination(false)
	// Quit and help are global bindings.
	m.KeyMap.Quit.SetEnabled(false)
	m.KeyMap.ForceQuit.SetEnabled(false)
	m.KeyMap.ShowFullHelp.SetEnabled(false)
	m.KeyMap.CloseFullHelp.SetEnabled(false)

	return &selectableColumn{
		title:    title,
		model:    m,
		width:    width,
		onSelect: onSelect,
	}
}

func (c *selectableColumn) SetItems(items []list.Item) {
	c.model.SetItems(items)
	if len(items) > 0 {
		c.model.Select(0)
	}
}

// SetEmptyText is shown instead of the list when it has no items.
func (c *selectableColumn) SetEmptyText(text string) {
	c.empty = text
}

func (c *selectableColumn) Len() int {
	return len(c.model.Items())
}

func (c *selectableColumn) SetSize(width, height int) {
	c.width = width
	if height < 3 {
		height = 3
	}
	c.height = height
	c.model.SetSize(width, height-3)
}

func (c *selectableColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if m.String() == "enter" && c.onSelect != nil {
			if item, ok := c.model.SelectedItem().(listEntry); ok {
				return c, c.onSelect(item)
			}
			return c, nil
		}
	}
	var cmd tea.Cmd
	c.model, cmd = c.model.Update(msg)
	return c, cmd
}

func (c *selectableColumn) View(s styles, focused bool) string {
	content := c.model.View()
	if c.Len() == 0 && c.empty != "" {
		content = s.placeholder.Render(c.empty)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, s.columnTitle.Render(c.title), content)
	return panelStyle(s, focused).Width(c.width).Height(c.height - 2).Render(body)
}

func (c *selectableColumn) Title() string {
	return c.title
}

func (c *selectableColumn) FocusValue() string {
	total := c.Len()
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", c.model.Index()+1, total)
}

func (c *selectableColumn) SelectedEntry() (listEntry, bool) {
	if entry, ok := c.model.SelectedItem().(listEntry); ok {
		return entry, true
	}
	return listEntry{}, false
}

// rowsTableColumn shows name/value rows, one table per information tab.
type rowsTableColumn struct {
	title      string
	nameHeader string
	empty      string
	table      table.Model
	rows       []render.Row
	width      int
	height     int
}

func newRowsTableColumn(title, nameHeader string, s styles) *rowsTableColumn {
	columns := []table.Column{
		{Title: nameHeader, Width: 28},
		{Title: "Value", Width: 44},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	tStyles := table.DefaultStyles()
	tStyles.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.textMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(palette.border).
		BorderBottom(true).
		Padding(0, 1)
	tStyles.Cell = lipgloss.NewStyle().Padding(0, 1)
	tStyles.Selected = lipgloss.NewStyle().
		Foreground(palette.text).
		Background(palette.selection)
	t.SetStyles(tStyles)

	return &rowsTableColumn{
		title:      title,
		nameHeader: nameHeader,
		table:      t,
		empty:      "Loading…",
	}
}

func (c *rowsTableColumn) SetEmptyText(text string) {
	c.empty = text
}

func (c *rowsTableColumn) SetRows(rows []render.Row) {
	cursor := c.table.Cursor()
	c.rows = append([]render.Row(nil), rows...)
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row{row.Name, row.Value}
	}
	c.table.SetRows(tableRows)
	if len(tableRows) == 0 {
		return
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(tableRows) {
		cursor = len(tableRows) - 1
	}
	c.table.SetCursor(cursor)
}

func (c *rowsTableColumn) Rows() []render.Row {
	return append([]render.Row(nil), c.rows...)
}

func (c *rowsTableColumn) SetSize(width, height int) {
	c.width = width
	if height < 5 {
		height = 5
	}
	c.height = height
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	nameWidth := inner / 3
	if nameWidth > 32 {
		nameWidth = 32
	}
	c.table.SetColumns([]table.Column{
		{Title: c.nameHeader, Width: nameWidth},
		{Title: "Value", Width: inner - nameWidth - 4},
	})
	c.table.SetWidth(inner)
	c.table.SetHeight(height - 5)
}

func (c *rowsTableColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

func (c *rowsTableColumn) View(s styles, focused bool) string {
	content := c.table.View()
	if len(c.rows) == 0 {
		content = s.placeholder.Render(c.empty)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, s.columnTitle.Render(c.title), content)
	return panelStyle(s, focused).Width(c.width).Height(c.height - 2).Render(body)
}

func (c *rowsTableColumn) Title() string {
	return c.title
}

func (c *rowsTableColumn) FocusValue() string {
	cursor := c.table.Cursor()
	if cursor < 0 || cursor >= len(c.rows) {
		return ""
	}
	return c.rows[cursor].Name
}

type previewColumn struct {
	title   string
	width   int
	height  int
	content string
	view    viewport.Model
}

func newPreviewColumn(title string, width int) *previewColumn {
	vp := viewport.New(width, 20)
	return &previewColumn{
		title: title,
		view:  vp,
	}
}

func (p *previewColumn) SetSize(width, height int) {
	p.width = width
	if height < 4 {
		height = 4
	}
	p.height = height
	p.view.Width = width - 2
	p.view.Height = height - 3
}

// ContentWidth is the width markdown should wrap at.
func (p *previewColumn) ContentWidth() int {
	return p.view.Width
}

func (p *previewColumn) SetContent(content string) {
	if content == p.content {
		return
	}
	p.content = content
	p.view.SetContent(content)
	p.view.GotoTop()
}

func (p *previewColumn) Content() string {
	return p.content
}

func (p *previewColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	var cmd tea.Cmd
	p.view, cmd = p.view.Update(msg)
	return p, cmd
}

func (p *previewColumn) View(s styles, focused bool) string {
	header := s.columnTitle.Render(p.title)
	body := header + "\n" + p.view.View()
	return panelStyle(s, focused).Width(p.width).Height(p.height - 2).Render(body)
}

func (p *previewColumn) Title() string {
	return p.title
}

func (p *previewColumn) FocusValue() string {
	total := p.view.TotalLineCount()
	if total <= p.view.Height {
		return ""
	}
	return fmt.Sprintf("%3.f%%", p.view.ScrollPercent()*100)
}

func panelStyle(s styles, focused bool) lipgloss.Style {
	if focused {
		return s.panelFocused
	}
	return s.panel
}
