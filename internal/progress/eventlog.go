package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// EventLog appends newline-delimited JSON progress frames to a single
// append-only file, one frame per line, no rotation.
type EventLog struct {
	mu   sync.Mutex
	file *os.File
}

// NewEventLog opens (creating if needed) the NDJSON log for a session at
// ${artifactsDir}/events_<session>_<epoch>.ndjson.
func NewEventLog(artifactsDir, session string, epoch int64) (*EventLog, error) {
	if artifactsDir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifacts dir: %w", err)
	}
	path := filepath.Join(artifactsDir, fmt.Sprintf("events_%s_%d.ndjson", session, epoch))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &EventLog{file: f}, nil
}

// Append writes one event as a single JSON line. A nil EventLog is a valid
// no-op receiver so callers can skip wiring this without branching.
func (l *EventLog) Append(event Event) error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	data = append(data, '\n')
	_, err = l.file.Write(data)
	return err
}

func (l *EventLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
