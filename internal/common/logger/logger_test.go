package logger

import "testing"

func TestNewNop_DoesNotPanic(t *testing.T) {
	l := NewNop()
	l.Debug("debug", "k", "v")
	l.Info("info", "k", 1)
	l.Warn("warn")
	l.Error("error", "err", "boom")
}
