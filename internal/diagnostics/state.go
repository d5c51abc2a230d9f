package diagnostics

import "strings"

// Tab is one of the views a session can show.
type Tab string

const (
	TabExtensions Tab = "extensions"
	TabBuild      Tab = "build"
	TabServer     Tab = "server"
)

// Tabs lists the tabs in display order.
func Tabs() []Tab {
	return []Tab{TabExtensions, TabBuild, TabServer}
}

func (t Tab) Label() string {
	switch t {
	case TabBuild:
		return "Build Information"
	case TabServer:
		return "Server Information"
	default:
		return "Extensions"
	}
}

// ParseTab maps unknown values to TabExtensions.
func ParseTab(value string) Tab {
	switch Tab(strings.TrimSpace(value)) {
	case TabBuild:
		return TabBuild
	case TabServer:
		return TabServer
	default:
		return TabExtensions
	}
}

// Shortcut names an extension key offered as a quick-access action.
type Shortcut string

const (
	ShortcutWebsites       Shortcut = "websites"
	ShortcutPaasServerless Shortcut = "paasserverless"
)

// FetchRequest is emitted by an environment change. Seq increases with every
// request a State issues.
type FetchRequest struct {
	Seq         uint64
	Environment Environment
	URL         string
}

type FetchResult struct {
	Request  FetchRequest
	Document *Document
	Err      error
}

// Stale reports whether a newer request was issued after r's.
func (r FetchResult) Stale(s State) bool {
	return r.Request.Seq != s.seq
}

// State is the selection state of a viewer session. It is a value: every
// transition returns the next State and leaves the receiver untouched.
type State struct {
	environment Environment
	document    *Document
	selected    *ExtensionInfo
	tab         Tab

	seq     uint64
	pending int
	lastErr error
}

// NewState returns the initial state: default environment, nothing loaded,
// nothing selected, extensions tab.
func NewState() State {
	return State{
		environment: DefaultEnvironment,
		tab:         TabExtensions,
	}
}

// Start builds the initial state for env together with its first fetch.
func Start(env Environment) (State, FetchRequest) {
	return NewState().SetEnvironment(env)
}

// SetEnvironment switches region, drops the selected extension and asks for
// a fetch. The tab and the current document are kept until the fetch lands.
func (s State) SetEnvironment(env Environment) (State, FetchRequest) {
	s.environment = env
	s.selected = nil
	s.seq++
	s.pending++
	return s, FetchRequest{
		Seq:         s.seq,
		Environment: env,
		URL:         env.URL(),
	}
}

func (s State) SetActiveTab(tab string) State {
	s.tab = ParseTab(tab)
	return s
}

// SelectExtensionByKey selects the extension stored under key when it loaded
// successfully. Missing keys and error records leave the state unchanged.
func (s State) SelectExtensionByKey(key string) State {
	ext, ok := s.document.Extension(key)
	if !ok {
		return s
	}
	info, ok := ext.Info()
	if !ok {
		return s
	}
	s.selected = &info
	return s
}

func (s State) SelectShortcut(shortcut Shortcut) State {
	return s.SelectExtensionByKey(string(shortcut))
}

// SelectLink selects the extension a link points at.
func (s State) SelectLink(link NavigableLink) State {
	return s.SelectExtensionByKey(link.Key)
}

// ApplyFetchResult stores a fetched document. Results are applied in arrival
// order whatever their sequence number. A failed fetch keeps the previous
// document and records the error.
func (s State) ApplyFetchResult(result FetchResult) State {
	if s.pending > 0 {
		s.pending--
	}
	if result.Err != nil {
		s.lastErr = result.Err
		return s
	}
	s.document = result.Document
	s.lastErr = nil
	return s
}

func (s State) Environment() Environment { return s.environment }

func (s State) Document() *Document { return s.document }

func (s State) Loaded() bool { return s.document != nil }

func (s State) ActiveTab() Tab { return s.tab }

func (s State) LastError() error { return s.lastErr }

// Fetching reports whether any issued request has not resolved yet.
func (s State) Fetching() bool { return s.pending > 0 }

func (s State) Seq() uint64 { return s.seq }

func (s State) Selected() (ExtensionInfo, bool) {
	if s.selected == nil {
		return ExtensionInfo{}, false
	}
	return *s.selected, true
}

func (s State) Links() []NavigableLink {
	return Links(s.document)
}

// PaasServerlessAvailable gates the paasserverless shortcut.
func (s State) PaasServerlessAvailable() bool {
	ext, _ := s.document.Extension(string(ShortcutPaasServerless))
	return IsInfo(ext)
}

// AvailableShortcuts lists the shortcuts to offer: websites always,
// paasserverless only when it loaded.
func (s State) AvailableShortcuts() []Shortcut {
	shortcuts := []Shortcut{ShortcutWebsites}
	if s.PaasServerlessAvailable() {
		shortcuts = append([]Shortcut{ShortcutPaasServerless}, shortcuts...)
	}
	return shortcuts
}
