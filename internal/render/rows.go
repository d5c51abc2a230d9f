// Package render shapes diagnostics data for display: two-column rows for the
// tables and markdown for the extension detail and text dumps.
package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bekirdag/diagview/internal/diagnostics"
)

// Row is one line of a two-column table.
type Row struct {
	Name  string
	Value string
}

func BuildInfoRows(info diagnostics.BuildInfo) []Row {
	return []Row{
		{Name: "Build Version", Value: info.BuildVersion},
	}
}

func ServerInfoRows(info diagnostics.ServerInfo) []Row {
	return []Row{
		{Name: "Hostname", Value: info.Hostname},
		{Name: "Uptime", Value: FormatNumber(info.Uptime)},
		{Name: "Server ID", Value: info.ServerID},
		{Name: "Deployment ID", Value: info.DeploymentID},
		{Name: "Node Versions", Value: info.NodeVersions},
		{Name: "Extension Sync | Total Sync All Count", Value: strconv.FormatInt(info.ExtensionSync.TotalSyncAllCount, 10)},
	}
}

// ConfigRows lists configuration entries ordered by key.
func ConfigRows(config map[string]string) []Row {
	rows := make([]Row, 0, len(config))
	for _, key := range sortedKeys(config) {
		rows = append(rows, Row{Name: key, Value: config[key]})
	}
	return rows
}

// StageRows lists stage definitions ordered by stage, steps joined by ", ".
func StageRows(stages map[string][]string) []Row {
	rows := make([]Row, 0, len(stages))
	for _, key := range sortedKeys(stages) {
		rows = append(rows, Row{Name: key, Value: strings.Join(stages[key], ", ")})
	}
	return rows
}

// FormatNumber prints a JSON number without a trailing ".0".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
