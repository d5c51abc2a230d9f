package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/bekirdag/diagview/internal/diagnostics"
)

func TestBuildInfoRows(t *testing.T) {
	rows := BuildInfoRows(diagnostics.BuildInfo{BuildVersion: "1.0.0"})
	assert.Equal(t, []Row{{Name: "Build Version", Value: "1.0.0"}}, rows)
}

func TestServerInfoRows(t *testing.T) {
	rows := ServerInfoRows(diagnostics.ServerInfo{
		DeploymentID:  "123",
		ExtensionSync: diagnostics.ExtensionSync{TotalSyncAllCount: 5},
		Hostname:      "test-server",
		NodeVersions:  "18.0.0",
		ServerID:      "server-1",
		Uptime:        3600,
	})
	want := []Row{
		{Name: "Hostname", Value: "test-server"},
		{Name: "Uptime", Value: "3600"},
		{Name: "Server ID", Value: "server-1"},
		{Name: "Deployment ID", Value: "123"},
		{Name: "Node Versions", Value: "18.0.0"},
		{Name: "Extension Sync | Total Sync All Count", Value: "5"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("server rows mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigAndStageRowsAreSorted(t *testing.T) {
	cfg := ConfigRows(map[string]string{"key2": "value2", "key1": "value1"})
	assert.Equal(t, []Row{{Name: "key1", Value: "value1"}, {Name: "key2", Value: "value2"}}, cfg)

	stages := StageRows(map[string][]string{"stage1": {"step1", "step2"}, "a": nil})
	assert.Equal(t, []Row{{Name: "a", Value: ""}, {Name: "stage1", Value: "step1, step2"}}, stages)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "3600", FormatNumber(3600))
	assert.Equal(t, "12.5", FormatNumber(12.5))
}

func TestExtensionMarkdown(t *testing.T) {
	md := ExtensionMarkdown(diagnostics.ExtensionInfo{
		ExtensionName:   "TestExtension",
		Config:          map[string]string{"ckey": "cvalue"},
		StageDefinition: map[string][]string{"stage1": {"step1", "step2"}},
	})
	assert.True(t, strings.HasPrefix(md, "# TestExtension\n"))
	assert.Contains(t, md, "## Configuration")
	assert.Contains(t, md, "| ckey | `cvalue` |")
	assert.Contains(t, md, "## Stage Definitions")
	assert.Contains(t, md, "| stage1 | `step1, step2` |")
}

func TestExtensionMarkdownOmitsEmptySections(t *testing.T) {
	md := ExtensionMarkdown(diagnostics.ExtensionInfo{ExtensionName: "bare"})
	assert.Equal(t, "# bare\n", md)
}

func TestTableMarkdownEscapesPipes(t *testing.T) {
	md := TableMarkdown("Name", "Value", []Row{{Name: "a|b", Value: "line\nbreak"}})
	assert.Contains(t, md, "| a\\|b | `line break` |")
}

func TestTableMarkdownCodeCells(t *testing.T) {
	md := TableMarkdown("Key", "Value", []Row{
		{Name: "empty", Value: ""},
		{Name: "tick", Value: "a`b"},
		{Name: "edge", Value: "`x`"},
	})
	assert.Contains(t, md, "| empty |   |")
	assert.Contains(t, md, "| tick | ``a`b`` |")
	assert.Contains(t, md, "| edge | `` `x` `` |")
}

var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func TestRenderedTablesKeepURLValues(t *testing.T) {
	md := ExtensionMarkdown(diagnostics.ExtensionInfo{
		ExtensionName:   "websites",
		Config:          map[string]string{"endpoint": "https://websites.example", "name": "plainvalue"},
		StageDefinition: map[string][]string{"prod": {"https://stage.example/a"}},
	})
	for _, theme := range []Theme{ThemePlain, ThemeDark} {
		out := ansiSequence.ReplaceAllString(NewRenderer(theme, 100).Render(md), "")
		assert.Contains(t, out, "https://websites.example", "theme %s", theme)
		assert.Contains(t, out, "https://stage.example/a", "theme %s", theme)
		assert.Contains(t, out, "plainvalue", "theme %s", theme)
		assert.NotContains(t, out, "`", "theme %s", theme)
	}
}

func TestLinksMarkdown(t *testing.T) {
	md := LinksMarkdown([]diagnostics.NavigableLink{{Key: "a_b", Name: "a_b"}})
	assert.Contains(t, md, `- a\_b`)
	assert.Contains(t, LinksMarkdown(nil), "No extensions loaded")
}

func TestRendererPlainThemeKeepsText(t *testing.T) {
	r := NewRenderer(ThemePlain, 80)
	out := r.Render(BuildInfoMarkdown(diagnostics.BuildInfo{BuildVersion: "9.9.9"}))
	assert.Contains(t, out, "9.9.9")
	assert.Contains(t, out, "Build Version")
}

func TestThemeCycle(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeAuto.Next())
	assert.Equal(t, ThemeLight, ThemeDark.Next())
	assert.Equal(t, ThemeAuto, ThemeLight.Next())
	assert.Equal(t, ThemePlain, ThemeFromString("plain"))
	assert.Equal(t, ThemeAuto, ThemeFromString("sepia"))

	r := NewRenderer("", -1)
	assert.Equal(t, ThemeAuto, r.Theme())
	r.SetTheme(ThemeDark)
	assert.Equal(t, ThemeDark, r.Theme())
}
