// Package logger dispatches leveled, key-value log calls to every configured
// backend. Until Init is called all calls are no-ops.
package logger

import (
	"os"
	"sync"
)

// Backend is a logging sink.
type Backend interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	Fatal(msg string, keyvals ...any)
}

var (
	mu       sync.RWMutex
	backends []Backend

	exit = os.Exit
)

// Init replaces the configured backends.
func Init(bs ...Backend) {
	mu.Lock()
	defer mu.Unlock()
	backends = bs
}

func each(fn func(Backend)) {
	mu.RLock()
	defer mu.RUnlock()
	for _, b := range backends {
		fn(b)
	}
}

func Debug(msg string, keyvals ...any) { each(func(b Backend) { b.Debug(msg, keyvals...) }) }

func Info(msg string, keyvals ...any) { each(func(b Backend) { b.Info(msg, keyvals...) }) }

func Warn(msg string, keyvals ...any) { each(func(b Backend) { b.Warn(msg, keyvals...) }) }

func Error(msg string, keyvals ...any) { each(func(b Backend) { b.Error(msg, keyvals...) }) }

// Fatal logs through the backends and exits with status 1, also when no
// backend is configured or none of them exits.
func Fatal(msg string, keyvals ...any) {
	each(func(b Backend) { b.Fatal(msg, keyvals...) })
	exit(1)
}
