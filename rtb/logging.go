package rtb

import (
	"encoding/json"
	"io"
	"log"
)

// Logger provides the structured logging hooks the manager uses to
// report tenant registration collisions and other conditions that
// are handled by skipping rather than failing.
type Logger interface {
	Info(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// StdLogger is a Logger backed by the standard library's log package,
// writing one JSON object per line.
type StdLogger struct {
	l *log.Logger
}

// NewStdLogger constructs a StdLogger writing to w.
func NewStdLogger(w io.Writer) *StdLogger {
	return &StdLogger{l: log.New(w, "", log.LstdFlags)}
}

func (s *StdLogger) Info(msg string, fields map[string]any) {
	s.log("info", msg, fields)
}

func (s *StdLogger) Error(msg string, fields map[string]any) {
	s.log("error", msg, fields)
}

func (s *StdLogger) log(level string, msg string, fields map[string]any) {
	if s == nil || s.l == nil {
		return
	}
	payload := map[string]any{
		"level": level,
		"msg":   msg,
	}
	for key, value := range fields {
		payload[key] = value
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.l.Println(msg)
		return
	}
	s.l.Println(string(data))
}
