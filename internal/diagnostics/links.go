package diagnostics

import (
	"sort"
	"strings"
)

// NavigableLink lets a user pick an extension for the detail view. Key is the
// extension's own name, not its key in the document, so two entries sharing a
// name produce the same link key.
type NavigableLink struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

func ToLink(info ExtensionInfo) NavigableLink {
	return NavigableLink{
		Key:  info.ExtensionName,
		Name: info.ExtensionName,
		URL:  "",
	}
}

// CompareByKey orders links lexicographically by key.
func CompareByKey(a, b NavigableLink) int {
	return strings.Compare(a.Key, b.Key)
}

// SortLinks sorts links in place by key. Equal keys keep their relative order.
func SortLinks(links []NavigableLink) {
	sort.SliceStable(links, func(i, j int) bool {
		return CompareByKey(links[i], links[j]) < 0
	})
}

// Links projects every loaded extension of doc into a link list sorted by key.
// Error records are left out.
func Links(doc *Document) []NavigableLink {
	if doc == nil {
		return nil
	}
	links := make([]NavigableLink, 0, len(doc.Extensions))
	for _, key := range doc.ExtensionKeys() {
		ext := doc.Extensions[key]
		info, ok := ext.Info()
		if !ok {
			continue
		}
		links = append(links, ToLink(info))
	}
	SortLinks(links)
	return links
}
