package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bekirdag/diagview/internal/diagnostics"
)

func readTelemetry(t *testing.T, path string) []telemetryEvent {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var events []telemetryEvent
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var ev telemetryEvent
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		events = append(events, ev)
	}
	return events
}

func TestTelemetryEmitAppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "telemetry.jsonl")
	logger := newTelemetryLogger(telemetryOptions{Path: path, SessionID: " abc ", UserID: "user"})
	t.Cleanup(func() { _ = logger.Close() })

	logger.Emit(telemetryEvent{Event: "environment_changed", Environment: "fairfax", ExtraJSON: map[string]string{}})
	logger.Emit(telemetryEvent{Event: "  "})
	logger.Emit(telemetryEvent{Event: "tab_changed", Tab: "server", UserID: "other"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "extra_json")

	events := readTelemetry(t, path)
	require.Len(t, events, 2)
	assert.Equal(t, "abc", events[0].SessionID)
	assert.Equal(t, "user", events[0].UserID)
	assert.Equal(t, "fairfax", events[0].Environment)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, "other", events[1].UserID)
	assert.Equal(t, "server", events[1].Tab)
}

func TestTelemetryRecordUsesState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.jsonl")
	logger := newTelemetryLogger(telemetryOptions{Path: path, SessionID: "s"})
	t.Cleanup(func() { _ = logger.Close() })

	state, req := diagnostics.Start(diagnostics.Mooncake)
	doc := &diagnostics.Document{Extensions: map[string]diagnostics.Extension{
		"websites": diagnostics.NewInfoExtension(diagnostics.ExtensionInfo{ExtensionName: "websites"}),
	}}
	state = state.ApplyFetchResult(diagnostics.FetchResult{Request: req, Document: doc}).
		SetActiveTab(string(diagnostics.TabBuild)).
		SelectExtensionByKey("websites")

	logger.Record(eventExtensionSelected, state, map[string]string{"key": "websites"})

	events := readTelemetry(t, path)
	require.Len(t, events, 1)
	assert.Equal(t, "extension_selected", events[0].Event)
	assert.Equal(t, "mooncake", events[0].Environment)
	assert.Equal(t, "build", events[0].Tab)
	assert.Equal(t, "websites", events[0].Extension)
	assert.Equal(t, map[string]string{"key": "websites"}, events[0].ExtraJSON)
}

func TestTelemetryWriteFailureIsLogged(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	logger := newTelemetryLogger(telemetryOptions{
		Path:   filepath.Join(blocker, "telemetry.jsonl"),
		Logger: zap.New(core),
	})

	logger.Emit(telemetryEvent{Event: "session_started"})

	entries := logs.FilterMessage("telemetry event not written").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "session_started", entries[0].ContextMap()["event"])
	assert.NoError(t, logger.Close())
}

func TestTelemetryNilLogger(t *testing.T) {
	var logger *telemetryLogger
	logger.Emit(telemetryEvent{Event: "session_started"})
	logger.Record(eventSessionStarted, diagnostics.NewState(), nil)
	assert.NoError(t, logger.Close())
}

func TestTelemetrySessionIDIsUUID(t *testing.T) {
	id := newTelemetrySessionID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, newTelemetrySessionID())
}
