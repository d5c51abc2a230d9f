package render

import (
	"fmt"
	"strings"

	"github.com/bekirdag/diagview/internal/diagnostics"
)

// ExtensionMarkdown describes a loaded extension: its name, then the
// configuration and stage definition tables when present.
func ExtensionMarkdown(info diagnostics.ExtensionInfo) string {
	var b strings.Builder
	name := info.ExtensionName
	if strings.TrimSpace(name) == "" {
		name = "(unnamed extension)"
	}
	fmt.Fprintf(&b, "# %s\n", escapeInline(name))
	if len(info.Config) > 0 {
		b.WriteString("\n## Configuration\n\n")
		b.WriteString(TableMarkdown("Key", "Value", ConfigRows(info.Config)))
	}
	if len(info.StageDefinition) > 0 {
		b.WriteString("\n## Stage Definitions\n\n")
		b.WriteString(TableMarkdown("Key", "Value", StageRows(info.StageDefinition)))
	}
	return b.String()
}

func BuildInfoMarkdown(info diagnostics.BuildInfo) string {
	return "# Build Information\n\n" + TableMarkdown("Name", "Value", BuildInfoRows(info))
}

func ServerInfoMarkdown(info diagnostics.ServerInfo) string {
	return "# Server Information\n\n" + TableMarkdown("Name", "Value", ServerInfoRows(info))
}

// LinksMarkdown lists extension links as bullets.
func LinksMarkdown(links []diagnostics.NavigableLink) string {
	var b strings.Builder
	b.WriteString("# Extensions\n\n")
	if len(links) == 0 {
		b.WriteString("_No extensions loaded._\n")
		return b.String()
	}
	for _, link := range links {
		fmt.Fprintf(&b, "- %s\n", escapeInline(link.Name))
	}
	return b.String()
}

// TableMarkdown renders rows as a two-column GitHub table. Values are
// written as code spans: glamour only keeps the plain text of table cells,
// so an autolinked URL would otherwise render as an empty cell.
func TableMarkdown(nameHeader, valueHeader string, rows []Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, "| %s | %s |\n", nameHeader, valueHeader)
	b.WriteString("| --- | --- |\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(row.Name), codeCell(row.Value))
	}
	return b.String()
}

func codeCell(value string) string {
	value = escapeCell(value)
	if strings.TrimSpace(value) == "" {
		return value
	}
	fence := strings.Repeat("`", longestRun(value, '`')+1)
	if strings.HasPrefix(value, "`") || strings.HasSuffix(value, "`") {
		return fence + " " + value + " " + fence
	}
	return fence + value + fence
}

func longestRun(value string, r rune) int {
	longest, current := 0, 0
	for _, c := range value {
		if c != r {
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	return longest
}

func escapeCell(value string) string {
	value = strings.ReplaceAll(value, "|", `\|`)
	value = strings.ReplaceAll(value, "\r\n", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	if strings.TrimSpace(value) == "" {
		return " "
	}
	return value
}

func escapeInline(value string) string {
	replacer := strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`)
	return replacer.Replace(value)
}
