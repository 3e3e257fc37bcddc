// Package journal appends one action record per evaluated sample to a
// JSON-lines file. The file is append-only; nothing in this program reads
// it back, it exists for operators and external tooling.
package journal

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Entry is one observability record. Action values mirror the watchdog's
// verdict actions.
type Entry struct {
	Timestamp  time.Time `json:"ts"`
	RunID      string    `json:"run_id"`
	PID        int       `json:"pid"`
	Role       string    `json:"role"`
	CPUPercent float64   `json:"cpu_percent"`
	Action     string    `json:"action"`
	Detail     string    `json:"detail,omitempty"`
}

// Writer appends entries for a single watchdog session. It must only be
// used from the loop goroutine; cycles are serialized so no locking is
// needed here.
type Writer struct {
	f     *os.File
	enc   *json.Encoder
	runID string
	echo  bool
}

// Open creates (or appends to) the journal file and mints a fresh run id
// for this session. When echo is true every entry is also written to the
// standard logger, so destructive actions are never silent.
func Open(path string, echo bool) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &Writer{
		f:     f,
		enc:   json.NewEncoder(f),
		runID: uuid.NewString(),
		echo:  echo,
	}, nil
}

// RunID identifies this watchdog session in entries and history records.
func (w *Writer) RunID() string { return w.runID }

// Record stamps and appends one entry.
func (w *Writer) Record(e Entry) error {
	e.Timestamp = time.Now()
	e.RunID = w.runID
	if w.echo {
		if e.Detail != "" {
			log.Printf("pid=%d role=%s cpu=%.1f%% action=%s (%s)", e.PID, e.Role, e.CPUPercent, e.Action, e.Detail)
		} else {
			log.Printf("pid=%d role=%s cpu=%.1f%% action=%s", e.PID, e.Role, e.CPUPercent, e.Action)
		}
	}
	return w.enc.Encode(e)
}

// Close flushes the underlying file.
func (w *Writer) Close() error {
	if w == nil || w.f == nil {
		return nil
	}
	return w.f.Close()
}
