package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/agenthands/biokag/internal/logger/console"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	lines []string
}

func (r *recorder) Debug(msg string, _ ...any) { r.lines = append(r.lines, "DEBUG "+msg) }
func (r *recorder) Info(msg string, _ ...any)  { r.lines = append(r.lines, "INFO "+msg) }
func (r *recorder) Warn(msg string, _ ...any)  { r.lines = append(r.lines, "WARN "+msg) }
func (r *recorder) Error(msg string, _ ...any) { r.lines = append(r.lines, "ERROR "+msg) }
func (r *recorder) Fatal(msg string, _ ...any) { r.lines = append(r.lines, "FATAL "+msg) }

func TestFanOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Init(a, b)
	defer Init()

	Info("loaded", "nodes", 3)
	Warn("dropped relation")

	assert.Equal(t, []string{"INFO loaded", "WARN dropped relation"}, a.lines)
	assert.Equal(t, a.lines, b.lines)
}

func TestNoBackendsIsNoop(t *testing.T) {
	Init()
	assert.NotPanics(t, func() { Error("nobody listens") })
}

func TestConsoleLevels(t *testing.T) {
	var buf bytes.Buffer
	Init(console.New(console.Params{Output: &buf}))
	defer Init()

	Debug("hidden")
	Info("shown", "documents", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "documents=2")
}

func TestFatalExits(t *testing.T) {
	var code []int
	exit = func(c int) { code = append(code, c) }
	defer func() { exit = os.Exit }()

	Init()
	Fatal("no backends")
	assert.Equal(t, []int{1}, code)

	r := &recorder{}
	Init(r)
	defer Init()
	Fatal("recorded")
	assert.Equal(t, []string{"FATAL recorded"}, r.lines)
	assert.Equal(t, []int{1, 1}, code)
}
