package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/diagview/internal/diagnostics"
	"github.com/bekirdag/diagview/internal/journal"
)

func sampleDocument() *diagnostics.Document {
	return &diagnostics.Document{
		BuildInfo: diagnostics.BuildInfo{BuildVersion: "2.4.6"},
		Extensions: map[string]diagnostics.Extension{
			"websites": diagnostics.NewInfoExtension(diagnostics.ExtensionInfo{
				ExtensionName:   "websites",
				Config:          map[string]string{"region": "westus"},
				StageDefinition: map[string][]string{"prod": {"a", "b"}},
			}),
			"functions": diagnostics.NewInfoExtension(diagnostics.ExtensionInfo{ExtensionName: "functions"}),
			"broken": diagnostics.NewErrorExtension(diagnostics.ExtensionError{
				LastError: diagnostics.LastError{ErrorMessage: "boom"},
			}),
		},
		ServerInfo: diagnostics.ServerInfo{Hostname: "portal-host", Uptime: 42},
	}
}

type recordingFetcher struct {
	doc  *diagnostics.Document
	err  error
	urls []string
}

func (r *recordingFetcher) Fetch(_ context.Context, url string) (*diagnostics.Document, error) {
	r.urls = append(r.urls, url)
	return r.doc, r.err
}

func execute(t *testing.T, fetcher diagnostics.Fetcher, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(fetcher, &out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestDumpExtensionsTab(t *testing.T) {
	fetcher := &recordingFetcher{doc: sampleDocument()}
	journalPath := filepath.Join(t.TempDir(), "journal.sqlite")

	out, err := execute(t, fetcher, "--env", "fairfax", "--journal", journalPath)
	require.NoError(t, err)

	assert.Equal(t, []string{diagnostics.Fairfax.URL()}, fetcher.urls)
	assert.Contains(t, out, "functions")
	assert.Contains(t, out, "websites")
	assert.NotContains(t, out, "broken")
	assert.Less(t, bytes.Index([]byte(out), []byte("functions")), bytes.Index([]byte(out), []byte("websites")))
}

func TestDumpJSONViews(t *testing.T) {
	fetcher := &recordingFetcher{doc: sampleDocument()}

	out, err := execute(t, fetcher, "--json", "--no-journal")
	require.NoError(t, err)
	var links []diagnostics.NavigableLink
	require.NoError(t, json.Unmarshal([]byte(out), &links))
	assert.Equal(t, []diagnostics.NavigableLink{
		{Key: "functions", Name: "functions"},
		{Key: "websites", Name: "websites"},
	}, links)

	out, err = execute(t, fetcher, "--json", "--no-journal", "--tab", "build")
	require.NoError(t, err)
	var build diagnostics.BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &build))
	assert.Equal(t, "2.4.6", build.BuildVersion)

	out, err = execute(t, fetcher, "--json", "--no-journal", "--extension", "websites")
	require.NoError(t, err)
	var info diagnostics.ExtensionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, []string{"a", "b"}, info.StageDefinition["prod"])
}

func TestDumpServerTabMarkdown(t *testing.T) {
	out, err := execute(t, &recordingFetcher{doc: sampleDocument()}, "--tab", "server", "--no-journal")
	require.NoError(t, err)
	assert.Contains(t, out, "Server Information")
	assert.Contains(t, out, "portal-host")
	assert.Contains(t, out, "42")
}

func TestDumpUnknownTabFallsBackToExtensions(t *testing.T) {
	out, err := execute(t, &recordingFetcher{doc: sampleDocument()}, "--tab", "bogus", "--no-journal")
	require.NoError(t, err)
	assert.Contains(t, out, "Extensions")
}

func TestDumpErrors(t *testing.T) {
	_, err := execute(t, &recordingFetcher{doc: sampleDocument()}, "--env", "mars", "--no-journal")
	assert.Error(t, err)

	_, err = execute(t, &recordingFetcher{doc: sampleDocument()}, "--extension", "broken", "--no-journal")
	assert.ErrorContains(t, err, `"broken" is not loaded`)

	netErr := errors.New("connection reset")
	_, err = execute(t, &recordingFetcher{err: netErr}, "--no-journal")
	assert.ErrorIs(t, err, netErr)

	_, err = execute(t, &recordingFetcher{}, "--no-journal")
	assert.ErrorContains(t, err, "empty diagnostics document")
}

func TestHistory(t *testing.T) {
	journalPath := filepath.Join(t.TempDir(), "journal.sqlite")

	out, err := execute(t, nil, "--history", "--journal", journalPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No fetches recorded.")

	_, err = execute(t, &recordingFetcher{doc: sampleDocument()}, "--env", "mooncake", "--journal", journalPath)
	require.NoError(t, err)
	_, err = execute(t, &recordingFetcher{err: errors.New("timeout")}, "--journal", journalPath)
	require.Error(t, err)

	out, err = execute(t, nil, "--history", "--journal", journalPath)
	require.NoError(t, err)
	assert.Contains(t, out, "public")
	assert.Contains(t, out, "failed: timeout")
	assert.Contains(t, out, "mooncake")
	assert.Contains(t, out, "2 loaded / 1 failed")

	out, err = execute(t, nil, "--history", "--json", "--limit", "1", "--journal", journalPath)
	require.NoError(t, err)
	var entries []journal.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "public", entries[0].Environment)
	assert.False(t, entries[0].OK)
}
