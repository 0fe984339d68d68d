package console

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger writes human readable log lines with charmbracelet/log.
type Logger struct {
	l *log.Logger
}

type Params struct {
	Debug  bool
	Prefix string
	Output io.Writer // defaults to stderr
}

func New(p Params) *Logger {
	level := log.InfoLevel
	if p.Debug {
		level = log.DebugLevel
	}
	out := p.Output
	if out == nil {
		out = os.Stderr
	}
	return &Logger{l: log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          p.Prefix,
	})}
}

func (c *Logger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *Logger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *Logger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *Logger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }
func (c *Logger) Fatal(msg string, keyvals ...any) { c.l.Fatal(msg, keyvals...) }
