package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"go.uber.org/zap"

	"github.com/bekirdag/diagview/internal/diagnostics"
	"github.com/bekirdag/diagview/internal/journal"
	"github.com/bekirdag/diagview/internal/render"
)

type keyMap struct {
	quit       key.Binding
	nextTab    key.Binding
	prevTab    key.Binding
	tabExt     key.Binding
	tabBuild   key.Binding
	tabServer  key.Binding
	focusLeft  key.Binding
	focusRight key.Binding
	pickEnv    key.Binding
	closePick  key.Binding
	selectLink key.Binding
	refresh    key.Binding
	websites   key.Binding
	paas       key.Binding
	copyURL    key.Binding
	copyDetail key.Binding
	cycleTheme key.Binding
	toggleLogs key.Binding
	toggleHelp key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		nextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		prevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		tabExt: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "extensions"),
		),
		tabBuild: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "build"),
		),
		tabServer: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "server"),
		),
		focusLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "links"),
		),
		focusRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "detail"),
		),
		pickEnv: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "environment"),
		),
		closePick: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		selectLink: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open extension"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refetch"),
		),
		websites: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "websites"),
		),
		paas: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "paasserverless"),
			key.WithDisabled(),
		),
		copyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy endpoint"),
		),
		copyDetail: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy extension"),
		),
		cycleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		toggleLogs: key.NewBinding(
			key.WithKeys("f6"),
			key.WithHelp("f6", "toggle logs"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.nextTab,
		k.pickEnv,
		k.selectLink,
		k.websites,
		k.paas,
		k.toggleHelp,
		k.quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nextTab, k.prevTab, k.tabExt, k.tabBuild, k.tabServer},
		{k.focusLeft, k.focusRight, k.selectLink, k.websites, k.paas},
		{k.pickEnv, k.closePick, k.refresh},
		{k.copyURL, k.copyDetail, k.cycleTheme},
		{k.toggleLogs, k.toggleHelp, k.quit},
	}
}

type focusArea int

const (
	focusLinks focusArea = iota
	focusDetail
)

type fetchResultMsg struct {
	result  diagnostics.FetchResult
	started time.Time
	elapsed time.Duration
}

type linkSelectedMsg struct {
	link diagnostics.NavigableLink
}

type environmentChosenMsg struct {
	env diagnostics.Environment
}

type journalUpdatedMsg struct {
	latest map[string]journal.Entry
	err    error
}

type modelOptions struct {
	environment diagnostics.Environment
	theme       render.Theme
	fetcher     diagnostics.Fetcher
	logger      *zap.Logger
	telemetry   *telemetryLogger
	journal     *journal.Store
	config      *uiConfig
	configPath  string
	showLogs    bool
}

type model struct {
	width  int
	height int

	styles styles
	keys   keyMap
	help   help.Model

	state      diagnostics.State
	initialReq diagnostics.FetchRequest
	fetcher    diagnostics.Fetcher
	renderer   *render.Renderer

	logger    *zap.Logger
	telemetry *telemetryLogger
	journal   *journal.Store
	latest    map[string]journal.Entry

	uiConfig     *uiConfig
	uiConfigPath string

	links  *selectableColumn
	detail *previewColumn
	build  *rowsTableColumn
	server *rowsTableColumn
	focus  focusArea

	picker     *selectableColumn
	pickerOpen bool

	showLogs bool
	logs     viewport.Model
	logLines []string
	logsCol  *logsColumn

	spinner spinner.Model

	toastMessage string
	toastExpires time.Time

	copyText func(string) error
}

func initialModel(opts modelOptions) *model {
	s := newStyles()
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(palette.accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(palette.textMuted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(palette.border)
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	h.Styles.FullSeparator = h.Styles.ShortSeparator

	logger := opts.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fetcher := opts.fetcher
	if fetcher == nil {
		fetcher = diagnostics.NewClient(diagnostics.WithLogger(logger))
	}
	cfg := opts.config
	if cfg == nil {
		cfg = &uiConfig{}
	}

	m := &model{
		styles:       s,
		keys:         newKeyMap(),
		help:         h,
		fetcher:      fetcher,
		renderer:     render.NewRenderer(opts.theme, 80),
		logger:       logger,
		telemetry:    opts.telemetry,
		journal:      opts.journal,
		latest:       map[string]journal.Entry{},
		uiConfig:     cfg,
		uiConfigPath: opts.configPath,
		showLogs:     opts.showLogs,
		copyText:     clipboard.WriteAll,
	}
	m.state, m.initialReq = diagnostics.Start(opts.environment)
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.spinner.Style = lipgloss.NewStyle().Foreground(palette.accent)

	m.links = newSelectableColumn("Extensions", nil, 32, func(entry listEntry) tea.Cmd {
		link, ok := entry.payload.(diagnostics.NavigableLink)
		if !ok {
			return nil
		}
		return func() tea.Msg { return linkSelectedMsg{link: link} }
	}, s)
	m.detail = newPreviewColumn("Extension", 48)
	m.build = newRowsTableColumn(diagnostics.TabBuild.Label(), "Name", s)
	m.server = newRowsTableColumn(diagnostics.TabServer.Label(), "Name", s)
	m.picker = newSelectableColumn("Environment", nil, 56, func(entry listEntry) tea.Cmd {
		env, ok := entry.payload.(diagnostics.Environment)
		if !ok {
			return nil
		}
		return func() tea.Msg { return environmentChosenMsg{env: env} }
	}, s)

	m.logs = viewport.New(80, logsPanelHeight)
	m.logsCol = newLogsColumn(m)

	m.appendLog(fmt.Sprintf("Fetching %s diagnostics from %s", m.initialReq.Environment.Label(), m.initialReq.URL))
	m.refreshViews()
	return m
}

func (m *model) Init() tea.Cmd {
	m.emitTelemetry(eventSessionStarted, map[string]string{"theme": string(m.renderer.Theme())})
	return tea.Batch(
		m.spinner.Tick,
		m.fetchCmd(m.initialReq),
		m.loadJournalCmd(),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		return m, nil
	case tea.KeyMsg:
		if m.pickerOpen {
			return m, m.updatePicker(msg)
		}
		if handled, cmd := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
		if col := m.focusedColumn(); col != nil {
			_, cmd := col.Update(msg)
			cmds = append(cmds, cmd)
		}
	case tea.MouseMsg:
		if m.pickerOpen {
			break
		}
		if col := m.focusedColumn(); col != nil {
			_, cmd := col.Update(msg)
			cmds = append(cmds, cmd)
		}
	case fetchResultMsg:
		cmds = append(cmds, m.handleFetchResult(msg))
	case linkSelectedMsg:
		m.selectLink(msg.link)
	case environmentChosenMsg:
		m.closePicker()
		cmds = append(cmds, m.changeEnvironment(msg.env))
	case journalUpdatedMsg:
		if msg.err != nil {
			m.logger.Warn("fetch journal unavailable", zap.Error(msg.err))
			break
		}
		m.latest = msg.latest
		if m.pickerOpen {
			m.refreshPicker()
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return true, tea.Quit
	case key.Matches(msg, m.keys.nextTab):
		m.cycleTab(1)
	case key.Matches(msg, m.keys.prevTab):
		m.cycleTab(-1)
	case key.Matches(msg, m.keys.tabExt):
		m.setTab(diagnostics.TabExtensions)
	case key.Matches(msg, m.keys.tabBuild):
		m.setTab(diagnostics.TabBuild)
	case key.Matches(msg, m.keys.tabServer):
		m.setTab(diagnostics.TabServer)
	case key.Matches(msg, m.keys.focusLeft):
		if m.state.ActiveTab() != diagnostics.TabExtensions {
			return false, nil
		}
		m.focus = focusLinks
	case key.Matches(msg, m.keys.focusRight):
		if m.state.ActiveTab() != diagnostics.TabExtensions {
			return false, nil
		}
		m.focus = focusDetail
	case key.Matches(msg, m.keys.pickEnv):
		m.openPicker()
	case key.Matches(msg, m.keys.refresh):
		return true, m.changeEnvironment(m.state.Environment())
	case key.Matches(msg, m.keys.websites):
		m.selectShortcut(diagnostics.ShortcutWebsites)
	case key.Matches(msg, m.keys.paas):
		m.selectShortcut(diagnostics.ShortcutPaasServerless)
	case key.Matches(msg, m.keys.copyURL):
		m.copyToClipboard(m.state.Environment().URL(), "Endpoint URL copied to clipboard")
	case key.Matches(msg, m.keys.copyDetail):
		info, ok := m.state.Selected()
		if !ok {
			m.setToast("No extension selected", 3*time.Second)
			return true, nil
		}
		m.copyToClipboard(render.ExtensionMarkdown(info), "Extension details copied to clipboard")
	case key.Matches(msg, m.keys.cycleTheme):
		m.cycleTheme()
	case key.Matches(msg, m.keys.toggleLogs):
		m.showLogs = !m.showLogs
		m.uiConfig.ShowLogs = boolPtr(m.showLogs)
		m.persistConfig()
		m.applyLayout()
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.applyLayout()
	default:
		return false, nil
	}
	return true, nil
}

func (m *model) focusedColumn() column {
	switch m.state.ActiveTab() {
	case diagnostics.TabBuild:
		return m.build
	case diagnostics.TabServer:
		return m.server
	}
	if m.focus == focusDetail {
		return m.detail
	}
	return m.links
}

func (m *model) fetchCmd(req diagnostics.FetchRequest) tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		started := time.Now()
		doc, err := fetcher.Fetch(context.Background(), req.URL)
		return fetchResultMsg{
			result: diagnostics.FetchResult{
				Request:  req,
				Document: doc,
				Err:      err,
			},
			started: started,
			elapsed: time.Since(started),
		}
	}
}

func (m *model) handleFetchResult(msg fetchResultMsg) tea.Cmd {
	result := msg.result
	env := result.Request.Environment
	stale := result.Stale(m.state)
	m.state = m.state.ApplyFetchResult(result)

	fields := []zap.Field{
		zap.String("environment", env.Key()),
		zap.Uint64("seq", result.Request.Seq),
		zap.Duration("elapsed", msg.elapsed),
	}
	if stale {
		m.logger.Warn("applying diagnostics from an earlier request", append(fields, zap.Uint64("current_seq", m.state.Seq()))...)
		m.appendLog(fmt.Sprintf("Late response from %s applied", env.Label()))
	}

	extra := map[string]string{
		"request_environment": env.Key(),
		"duration_ms":         fmt.Sprintf("%d", msg.elapsed.Milliseconds()),
	}
	if result.Err != nil {
		m.logger.Warn("diagnostics fetch failed", append(fields, zap.Error(result.Err))...)
		m.appendLog(fmt.Sprintf("%s fetch failed: %v", env.Label(), result.Err))
		m.setToast("Fetch failed for "+env.Label(), 5*time.Second)
		extra["error"] = result.Err.Error()
		m.emitTelemetry(eventFetchFailed, extra)
	} else {
		loaded, failed := result.Document.Counts()
		if result.Document == nil {
			m.appendLog(fmt.Sprintf("%s returned an empty document", env.Label()))
		} else {
			m.appendLog(fmt.Sprintf("%s: %d extensions loaded, %d failed (%s)", env.Label(), loaded, failed, msg.elapsed.Round(time.Millisecond)))
		}
		m.logger.Info("diagnostics applied", append(fields, zap.Int("loaded", loaded), zap.Int("failed", failed))...)
		extra["loaded"] = fmt.Sprintf("%d", loaded)
		extra["failed"] = fmt.Sprintf("%d", failed)
		m.emitTelemetry(eventFetchCompleted, extra)
	}

	m.refreshViews()
	return m.recordFetchCmd(journal.EntryFromResult(result, msg.started, msg.elapsed))
}

func (m *model) recordFetchCmd(entry journal.Entry) tea.Cmd {
	if m.journal == nil {
		return nil
	}
	store := m.journal
	return func() tea.Msg {
		if _, err := store.Record(entry); err != nil {
			return journalUpdatedMsg{err: err}
		}
		latest, err := store.Latest()
		return journalUpdatedMsg{latest: latest, err: err}
	}
}

func (m *model) loadJournalCmd() tea.Cmd {
	if m.journal == nil {
		return nil
	}
	store := m.journal
	return func() tea.Msg {
		latest, err := store.Latest()
		return journalUpdatedMsg{latest: latest, err: err}
	}
}

func (m *model) changeEnvironment(env diagnostics.Environment) tea.Cmd {
	prev := m.state.Environment()
	var req diagnostics.FetchRequest
	m.state, req = m.state.SetEnvironment(env)
	m.logger.Info("environment changed",
		zap.String("from", prev.Key()),
		zap.String("to", env.Key()),
		zap.Uint64("seq", req.Seq),
	)
	m.appendLog(fmt.Sprintf("Fetching %s diagnostics from %s", env.Label(), req.URL))
	m.emitTelemetry(eventEnvironmentChanged, map[string]string{"from": prev.Key()})
	m.uiConfig.Environment = env.Key()
	m.persistConfig()
	m.refreshViews()
	return m.fetchCmd(req)
}

func (m *model) cycleTab(delta int) {
	tabs := diagnostics.Tabs()
	current := 0
	for i, tab := range tabs {
		if tab == m.state.ActiveTab() {
			current = i
			break
		}
	}
	next := (current + delta + len(tabs)) % len(tabs)
	m.setTab(tabs[next])
}

func (m *model) setTab(tab diagnostics.Tab) {
	if m.state.ActiveTab() == tab {
		return
	}
	m.state = m.state.SetActiveTab(string(tab))
	m.focus = focusLinks
	m.emitTelemetry(eventTabChanged, nil)
}

func (m *model) selectLink(link diagnostics.NavigableLink) {
	next := m.state.SelectLink(link)
	m.afterSelection(next, link.Key)
}

func (m *model) selectShortcut(shortcut diagnostics.Shortcut) {
	if shortcut == diagnostics.ShortcutPaasServerless && !m.state.PaasServerlessAvailable() {
		m.logger.Debug("shortcut unavailable", zap.String("key", string(shortcut)), zap.String("environment", m.state.Environment().Key()))
		return
	}
	next := m.state.SelectShortcut(shortcut)
	if !m.afterSelection(next, string(shortcut)) {
		return
	}
	m.setTab(diagnostics.TabExtensions)
	m.highlightLink(string(shortcut))
}

// afterSelection applies next when it holds a selection. Keys that are
// missing or did not load leave the state untouched.
func (m *model) afterSelection(next diagnostics.State, extKey string) bool {
	if _, ok := next.Selected(); !ok {
		m.logger.Debug("selection ignored", zap.String("key", extKey))
		return false
	}
	m.state = next
	m.logger.Debug("extension selected", zap.String("key", extKey))
	m.emitTelemetry(eventExtensionSelected, map[string]string{"key": extKey})
	m.refreshDetail()
	return true
}

func (m *model) highlightLink(extKey string) {
	for i, item := range m.links.model.Items() {
		entry, ok := item.(listEntry)
		if !ok {
			continue
		}
		if link, ok := entry.payload.(diagnostics.NavigableLink); ok && link.Key == extKey {
			m.links.model.Select(i)
			return
		}
	}
}

func (m *model) cycleTheme() {
	theme := m.renderer.Theme().Next()
	m.renderer.SetTheme(theme)
	m.uiConfig.Theme = string(theme)
	m.persistConfig()
	m.refreshDetail()
	m.setToast("Theme: "+theme.Label(), 2*time.Second)
}

func (m *model) openPicker() {
	m.refreshPicker()
	m.pickerOpen = true
}

func (m *model) closePicker() {
	m.pickerOpen = false
}

func (m *model) refreshPicker() {
	envs := diagnostics.Environments()
	items := make([]list.Item, 0, len(envs))
	current := 0
	for i, env := range envs {
		desc := env.URL()
		if entry, ok := m.latest[env.Key()]; ok {
			desc = entry.Summary()
		}
		items = append(items, listEntry{title: env.Label(), desc: desc, payload: env})
		if env == m.state.Environment() {
			current = i
		}
	}
	m.picker.SetItems(items)
	m.picker.model.Select(current)
}

func (m *model) updatePicker(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.closePick):
		m.closePicker()
		return nil
	case msg.String() == "ctrl+c":
		return tea.Quit
	}
	_, cmd := m.picker.Update(msg)
	return cmd
}

func (m *model) refreshViews() {
	links := m.state.Links()
	highlighted := ""
	if entry, ok := m.links.SelectedEntry(); ok {
		if link, ok := entry.payload.(diagnostics.NavigableLink); ok {
			highlighted = link.Key
		}
	}
	items := make([]list.Item, len(links))
	for i, link := range links {
		title := link.Name
		if strings.TrimSpace(title) == "" {
			title = link.Key
		}
		items[i] = listEntry{title: title, desc: link.Key, payload: link}
	}
	m.links.SetItems(items)
	if highlighted != "" {
		m.highlightLink(highlighted)
	}

	empty := "No extensions loaded."
	if !m.state.Loaded() {
		empty = "Waiting for diagnostics…"
	}
	m.links.SetEmptyText(empty)
	m.build.SetEmptyText(empty)
	m.server.SetEmptyText(empty)

	if doc := m.state.Document(); doc != nil {
		m.build.SetRows(render.BuildInfoRows(doc.BuildInfo))
		m.server.SetRows(render.ServerInfoRows(doc.ServerInfo))
	} else {
		m.build.SetRows(nil)
		m.server.SetRows(nil)
	}

	m.keys.paas.SetEnabled(m.state.PaasServerlessAvailable())
	m.refreshDetail()
}

func (m *model) refreshDetail() {
	info, ok := m.state.Selected()
	switch {
	case ok:
		m.detail.SetContent(m.renderer.Render(render.ExtensionMarkdown(info)))
	case !m.state.Loaded():
		m.detail.SetContent("")
	default:
		m.detail.SetContent(m.styles.placeholder.Render("Press enter on an extension, or w / p for a shortcut."))
	}
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.help.Width = maxInt(m.width-4, 0)

	reserved := lipgloss.Height(m.renderTopBar()) +
		lipgloss.Height(m.renderTabs()) +
		lipgloss.Height(m.help.View(m.keys)) +
		1
	if m.showLogs {
		reserved += logsPanelHeight
		m.logsCol.SetSize(m.width-2, logsPanelHeight)
	}
	bodyHeight := maxInt(m.height-reserved, 6)

	linksWidth := maxInt(m.width/3-2, 20)
	detailWidth := maxInt(m.width-linksWidth-4, 20)
	m.links.SetSize(linksWidth, bodyHeight)
	m.detail.SetSize(detailWidth, bodyHeight)
	m.build.SetSize(maxInt(m.width-2, 20), bodyHeight)
	m.server.SetSize(maxInt(m.width-2, 20), bodyHeight)
	m.picker.SetSize(minInt(64, maxInt(m.width-8, 24)), len(diagnostics.Environments())*3+3)

	m.renderer.SetWordWrap(m.detail.ContentWidth())
	m.refreshDetail()
}

func (m *model) View() string {
	var builder strings.Builder

	builder.WriteString(m.renderTopBar())
	builder.WriteRune('\n')
	builder.WriteString(m.renderTabs())
	builder.WriteRune('\n')

	if m.pickerOpen {
		builder.WriteString(m.renderPicker())
	} else {
		builder.WriteString(m.renderBody())
	}
	builder.WriteRune('\n')

	if m.showLogs {
		builder.WriteString(m.logsCol.View(m.styles, false))
		builder.WriteRune('\n')
	}

	if helpView := m.help.View(m.keys); helpView != "" {
		builder.WriteString(helpView)
		if !strings.HasSuffix(helpView, "\n") {
			builder.WriteRune('\n')
		}
	}

	builder.WriteString(m.renderStatus())
	return m.styles.app.Render(builder.String())
}

func (m *model) renderTopBar() string {
	env := m.state.Environment()
	title := m.styles.topTitle.Render("diagview")
	meta := m.styles.topMeta.Render(" • " + env.Label() + " • " + env.URL())

	var shortcuts []string
	for _, shortcut := range m.state.AvailableShortcuts() {
		binding := m.keys.websites
		if shortcut == diagnostics.ShortcutPaasServerless {
			binding = m.keys.paas
		}
		shortcuts = append(shortcuts, m.styles.topMeta.Render(fmt.Sprintf("  [%s] %s", binding.Help().Key, shortcut)))
	}
	bar := title + meta + strings.Join(shortcuts, "")
	if m.width > 0 {
		bar = truncate.StringWithTail(bar, uint(maxInt(m.width-2, 1)), "…")
	}
	return m.styles.topBar.Render(bar)
}

func (m *model) renderTabs() string {
	var tabs []string
	for i, tab := range diagnostics.Tabs() {
		label := fmt.Sprintf("%d %s", i+1, tab.Label())
		if tab == m.state.ActiveTab() {
			tabs = append(tabs, m.styles.tabActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.tabInactive.Render(label))
		}
	}
	return m.styles.tabsRow.Render(lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...))
}

func (m *model) renderBody() string {
	if !m.state.Loaded() {
		msg := fmt.Sprintf("%s Loading diagnostics from %s…", m.spinner.View(), m.state.Environment().Label())
		if err := m.state.LastError(); err != nil && !m.state.Fetching() {
			msg = fmt.Sprintf("Could not load %s diagnostics: %v\nPress r to retry or e to pick another environment.", m.state.Environment().Label(), err)
		}
		return m.styles.placeholder.Render(msg)
	}
	switch m.state.ActiveTab() {
	case diagnostics.TabBuild:
		return m.build.View(m.styles, true)
	case diagnostics.TabServer:
		return m.server.View(m.styles, true)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.links.View(m.styles, m.focus == focusLinks),
		m.detail.View(m.styles, m.focus == focusDetail),
	)
}

func (m *model) renderPicker() string {
	var content strings.Builder
	content.WriteString(m.styles.overlayTitle.Render("Select environment"))
	content.WriteRune('\n')
	content.WriteString(m.picker.model.View())
	content.WriteRune('\n')
	content.WriteString(m.styles.hint.Render("enter apply • esc close"))
	overlay := m.styles.overlay.Render(content.String())
	height := maxInt(m.height/2, lipgloss.Height(overlay))
	return lipgloss.Place(maxInt(m.width, lipgloss.Width(overlay)), height, lipgloss.Center, lipgloss.Center, overlay)
}

func (m *model) renderStatus() string {
	segments := []string{
		m.styles.statusSeg.Render("Env: " + m.state.Environment().Label()),
	}
	if col := m.focusedColumn(); col != nil && m.state.Loaded() {
		value := strings.TrimSpace(col.FocusValue())
		if value == "" {
			value = "—"
		}
		segments = append(segments, m.styles.statusSeg.Render(fmt.Sprintf("%s: %s", col.Title(), value)))
	}
	if m.state.Fetching() {
		segments = append(segments, m.styles.statusSeg.Render(m.spinner.View()+" fetching"))
	}
	if err := m.state.LastError(); err != nil {
		msg := err.Error()
		if m.width > 0 {
			msg = truncate.StringWithTail(msg, uint(maxInt(m.width/2, 16)), "…")
		}
		segments = append(segments, m.styles.statusError.Render(msg))
	} else if m.state.Loaded() {
		loaded, failed := m.state.Document().Counts()
		segments = append(segments, m.styles.statusOK.Render(fmt.Sprintf("%d ok / %d failed", loaded, failed)))
	}
	segments = append(segments, m.styles.statusSeg.Render("Theme: "+m.renderer.Theme().Label()))
	if m.toastMessage != "" {
		if time.Now().After(m.toastExpires) {
			m.toastMessage = ""
		} else {
			segments = append(segments, m.styles.statusSeg.Render(m.toastMessage))
		}
	}
	content := strings.Join(segments, m.styles.statusHint.Render("│"))
	return m.styles.statusBar.Render(content)
}

func (m *model) appendLog(line string) {
	if line == "" {
		return
	}
	m.logLines = append(m.logLines, time.Now().Format("15:04:05")+" "+line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
	m.refreshLogs()
}

func (m *model) refreshLogs() {
	m.logs.SetContent(strings.Join(m.logLines, "\n"))
	m.logs.GotoBottom()
}

func (m *model) copyToClipboard(text, done string) {
	if err := m.copyText(text); err != nil {
		m.logger.Warn("clipboard write failed", zap.Error(err))
		m.setToast("Clipboard unavailable", 4*time.Second)
		return
	}
	m.setToast(done, 3*time.Second)
}

func (m *model) persistConfig() {
	if strings.TrimSpace(m.uiConfigPath) == "" {
		return
	}
	if err := saveUIConfig(m.uiConfig, m.uiConfigPath); err != nil {
		m.logger.Warn("saving ui config failed", zap.String("path", m.uiConfigPath), zap.Error(err))
	}
}

func (m *model) emitTelemetry(name telemetryEventName, fields map[string]string) {
	m.telemetry.Record(name, m.state, fields)
}

func (m *model) setToast(msg string, duration time.Duration) {
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		m.toastMessage = ""
		m.toastExpires = time.Time{}
		return
	}
	if duration <= 0 {
		duration = 5 * time.Second
	}
	m.toastMessage = trimmed
	m.toastExpires = time.Now().Add(duration)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
