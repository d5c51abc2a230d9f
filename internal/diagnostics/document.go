package diagnostics

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Document is the body served by a diagnostics endpoint.
type Document struct {
	BuildInfo  BuildInfo            `json:"buildInfo"`
	Extensions map[string]Extension `json:"extensions"`
	ServerInfo ServerInfo           `json:"serverInfo"`
}

type BuildInfo struct {
	BuildVersion string `json:"buildVersion"`
}

type ServerInfo struct {
	DeploymentID  string        `json:"deploymentId"`
	ExtensionSync ExtensionSync `json:"extensionSync"`
	Hostname      string        `json:"hostname"`
	NodeVersions  string        `json:"nodeVersions"`
	ServerID      string        `json:"serverId"`
	Uptime        float64       `json:"uptime"`
}

type ExtensionSync struct {
	TotalSyncAllCount int64 `json:"totalSyncAllCount"`
}

// Extension returns the record stored under key. A nil document has no
// extensions.
func (d *Document) Extension(key string) (*Extension, bool) {
	if d == nil || d.Extensions == nil {
		return nil, false
	}
	ext, ok := d.Extensions[key]
	if !ok {
		return nil, false
	}
	return &ext, true
}

// ExtensionKeys returns the extension map keys in ascending order.
func (d *Document) ExtensionKeys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.Extensions))
	for key := range d.Extensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Counts reports how many extensions loaded and how many carry an error.
func (d *Document) Counts() (loaded, failed int) {
	if d == nil {
		return 0, 0
	}
	for _, ext := range d.Extensions {
		ext := ext
		if IsInfo(&ext) {
			loaded++
		} else {
			failed++
		}
	}
	return loaded, failed
}

// UnmarshalJSON reads the known sections of an object and skips the rest.
// Sections of the wrong type decode as their zero value.
func (d *Document) UnmarshalJSON(data []byte) error {
	*d = Document{}
	decodeFields(data, map[string]any{
		"buildInfo":  &d.BuildInfo,
		"extensions": &d.Extensions,
		"serverInfo": &d.ServerInfo,
	})
	return nil
}

func (b *BuildInfo) UnmarshalJSON(data []byte) error {
	*b = BuildInfo{}
	decodeFields(data, map[string]any{"buildVersion": &b.BuildVersion})
	return nil
}

func (s *ServerInfo) UnmarshalJSON(data []byte) error {
	*s = ServerInfo{}
	decodeFields(data, map[string]any{
		"deploymentId":  &s.DeploymentID,
		"extensionSync": &s.ExtensionSync,
		"hostname":      &s.Hostname,
		"nodeVersions":  &s.NodeVersions,
		"serverId":      &s.ServerID,
		"uptime":        &s.Uptime,
	})
	return nil
}

func (e *ExtensionSync) UnmarshalJSON(data []byte) error {
	*e = ExtensionSync{}
	decodeFields(data, map[string]any{"totalSyncAllCount": &e.TotalSyncAllCount})
	return nil
}

// decodeFields unmarshals each present key of a JSON object into its target.
// Type mismatches leave the target untouched.
func decodeFields(data []byte, targets map[string]any) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return
	}
	for name, target := range targets {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		_ = json.Unmarshal(raw, target)
	}
}

// DecodeDocument parses a diagnostics body. A JSON null yields a nil document
// without error. Any other JSON value is accepted; only the known fields of
// the expected types are read from it.
func DecodeDocument(data []byte) (*Document, error) {
	if isJSONNull(data) {
		return nil, nil
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func isJSONNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
