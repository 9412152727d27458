// Package tracelog writes a per-tick decision diagnostic trace as
// hour-rotated, zstd-compressed JSONL, mirroring the teacher's
// internal/persistence/log package (JSONLZstdWriter + a thin typed
// wrapper per log kind).
package tracelog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Entry is one tick's decision trace record: the inputs that mattered
// and the outcome, sufficient to reconstruct why next_move returned
// what it did without replaying the full registries.
type Entry struct {
	Tick   uint64 `json:"tick"`
	State  string `json:"state"`
	Action string `json:"action"`

	SelfX      int    `json:"self_x"`
	SelfY      int    `json:"self_y"`
	SelfFacing string `json:"self_facing"`

	HasTarget   bool    `json:"has_target,omitempty"`
	TargetX     int     `json:"target_x,omitempty"`
	TargetY     int     `json:"target_y,omitempty"`
	TargetLabel string  `json:"target_label,omitempty"`
	Utility     float64 `json:"utility,omitempty"`
	Phase       int     `json:"phase,omitempty"`

	Expansions     int  `json:"expansions,omitempty"`
	BudgetExceeded bool `json:"budget_exceeded,omitempty"`
}

// jsonlZstdWriter appends one JSON value per call as a line of a
// zstd-compressed JSONL file, rotating to a new file every UTC hour.
type jsonlZstdWriter struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func newJSONLZstdWriter(baseDir, prefix string) *jsonlZstdWriter {
	return &jsonlZstdWriter{baseDir: baseDir, prefix: prefix}
}

func (w *jsonlZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *jsonlZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *jsonlZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	dir := filepath.Dir(w.pathForHour(hour))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curHour = hour
	return nil
}

func (w *jsonlZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

func (w *jsonlZstdWriter) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// DecisionLogger writes one Entry per tick, compressed and rotated by
// hour. A nil *DecisionLogger is valid and silently drops every write,
// so callers that did not configure a trace directory need no branch.
type DecisionLogger struct {
	w *jsonlZstdWriter
}

// NewDecisionLogger returns a logger writing decisions-*.jsonl.zst
// files under filepath.Join(dir, "decisions").
func NewDecisionLogger(dir string) *DecisionLogger {
	return &DecisionLogger{w: newJSONLZstdWriter(filepath.Join(dir, "decisions"), "decisions")}
}

// WriteEntry appends one decision trace entry.
func (l *DecisionLogger) WriteEntry(e Entry) error {
	if l == nil {
		return nil
	}
	return l.w.Write(e)
}

// Close flushes and closes the current file, if any.
func (l *DecisionLogger) Close() error {
	if l == nil {
		return nil
	}
	return l.w.Close()
}
