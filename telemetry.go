package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bekirdag/diagview/internal/diagnostics"
)

type telemetryEventName string

const (
	eventSessionStarted     telemetryEventName = "session_started"
	eventFetchCompleted     telemetryEventName = "fetch_completed"
	eventFetchFailed        telemetryEventName = "fetch_failed"
	eventEnvironmentChanged telemetryEventName = "environment_changed"
	eventTabChanged         telemetryEventName = "tab_changed"
	eventExtensionSelected  telemetryEventName = "extension_selected"
)

// telemetryEvent is one line of telemetry.jsonl.
type telemetryEvent struct {
	SessionID   string            `json:"session_id"`
	UserID      string            `json:"user_id,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Event       string            `json:"event"`
	Environment string            `json:"environment,omitempty"`
	Tab         string            `json:"tab,omitempty"`
	Extension   string            `json:"extension,omitempty"`
	ExtraJSON   map[string]string `json:"extra_json,omitempty"`
}

type telemetryOptions struct {
	Path      string
	SessionID string
	UserID    string
	Logger    *zap.Logger
}

// telemetryLogger appends product events to a local JSON lines file. Write
// failures are reported through zap and never reach the UI.
type telemetryLogger struct {
	mu        sync.Mutex
	path      string
	sessionID string
	userID    string
	logger    *zap.Logger
	file      *os.File
}

func newTelemetryLogger(opts telemetryOptions) *telemetryLogger {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &telemetryLogger{
		path:      opts.Path,
		sessionID: strings.TrimSpace(opts.SessionID),
		userID:    strings.TrimSpace(opts.UserID),
		logger:    logger,
	}
}

// Record emits name with the environment, tab and selection held by state.
func (t *telemetryLogger) Record(name telemetryEventName, state diagnostics.State, extra map[string]string) {
	if t == nil {
		return
	}
	event := telemetryEvent{
		Event:       string(name),
		Environment: state.Environment().Key(),
		Tab:         string(state.ActiveTab()),
		ExtraJSON:   extra,
	}
	if info, ok := state.Selected(); ok {
		event.Extension = info.ExtensionName
	}
	t.Emit(event)
}

func (t *telemetryLogger) Emit(event telemetryEvent) {
	if t == nil || strings.TrimSpace(event.Event) == "" {
		return
	}
	if event.SessionID == "" {
		event.SessionID = t.sessionID
	}
	if event.UserID = strings.TrimSpace(event.UserID); event.UserID == "" {
		event.UserID = t.userID
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if len(event.ExtraJSON) == 0 {
		event.ExtraJSON = nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.logger.Warn("telemetry event not encoded", zap.String("event", event.Event), zap.Error(err))
		return
	}
	if err := t.append(append(data, '\n')); err != nil {
		t.logger.Warn("telemetry event not written",
			zap.String("event", event.Event),
			zap.String("path", t.path),
			zap.Error(err))
	}
}

func (t *telemetryLogger) append(line []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		t.file = f
	}
	if _, err := t.file.Write(line); err != nil {
		return fmt.Errorf("append %s: %w", t.path, err)
	}
	return nil
}

func (t *telemetryLogger) Close() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}

func newTelemetrySessionID() string {
	return uuid.NewString()
}

// resolveTelemetryUserID prefers DIAGVIEW_USER_ID, then the login name.
func resolveTelemetryUserID() string {
	for _, name := range []string{"DIAGVIEW_USER_ID", "USER", "USERNAME"} {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}
	return ""
}
