package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// output is shared by a logger and its children so that lines written by
// different workers never interleave.
type output struct {
	mu sync.Mutex
	w  io.Writer
}

func (o *output) writeLine(data []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = o.w.Write(data)
}

// JSONLogger writes one JSON object per line:
//
//	{"time":"...","level":"info","msg":"tile type processed","tile_type":"CLB","pairs":312}
//
// Field keys sit next to time, level and msg; a field named like one of
// those is written with a "field." prefix.
type JSONLogger struct {
	out    *output
	level  Level
	fields []Field
	now    func() time.Time
}

// NewJSONLogger creates a logger writing entries at level and above to w.
func NewJSONLogger(w io.Writer, level Level) *JSONLogger {
	return &JSONLogger{out: &output{w: w}, level: level, now: time.Now}
}

func (l *JSONLogger) Enabled(level Level) bool { return level >= l.level }

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// With returns a child sharing l's output and level.
func (l *JSONLogger) With(fields ...Field) Logger {
	child := *l
	child.fields = append(append(make([]Field, 0, len(l.fields)+len(fields)), l.fields...), fields...)
	return &child
}

func (l *JSONLogger) log(level Level, msg string, fields []Field) {
	if !l.Enabled(level) {
		return
	}

	entry := make(map[string]any, 3+len(l.fields)+len(fields))
	for _, group := range [][]Field{l.fields, fields} {
		for _, f := range group {
			key := f.Key
			switch key {
			case "time", "level", "msg":
				key = "field." + key
			}
			entry[key] = f.Value
		}
	}
	entry["time"] = l.now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		data, _ = json.Marshal(map[string]string{
			"level": ErrorLevel.String(),
			"msg":   fmt.Sprintf("unencodable log entry %q: %v", msg, err),
		})
	}
	l.out.writeLine(append(data, '\n'))
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// DefaultLogger returns the process-wide logger. Until SetDefaultLogger is
// called it writes to stderr at the level named by LOG_LEVEL.
func DefaultLogger() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		level, _ := ParseLevel(os.Getenv("LOG_LEVEL"))
		defaultLogger = NewJSONLogger(os.Stderr, level)
	}
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger.
func SetDefaultLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
