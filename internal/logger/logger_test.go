package logger

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestInit(t *testing.T) {
	// Test non-verbose (default)
	Init(false)
	if GetLevel() != LevelWarn {
		t.Errorf("Init(false) should set level to LevelWarn, got %v", GetLevel())
	}

	// Test verbose
	Init(true)
	if GetLevel() != LevelDebug {
		t.Errorf("Init(true) should set level to LevelDebug, got %v", GetLevel())
	}

	// Reset
	Init(false)
}

func TestSetLevel(t *testing.T) {
	tests := []Level{LevelDebug, LevelInfo, LevelWarn, LevelError}

	for _, level := range tests {
		t.Run(level.String(), func(t *testing.T) {
			SetLevel(level)
			if GetLevel() != level {
				t.Errorf("SetLevel(%v) failed, got %v", level, GetLevel())
			}
		})
	}

	// Reset
	SetLevel(LevelWarn)
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.level.String() != tt.expected {
				t.Errorf("Level(%d).String() = %v, want %v", tt.level, tt.level.String(), tt.expected)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil) // Reset to default

	tests := []struct {
		name       string
		level      Level
		logFunc    func(string, ...interface{})
		shouldShow bool
	}{
		{"debug at debug level", LevelDebug, Debug, true},
		{"info at debug level", LevelDebug, Info, true},
		{"warn at debug level", LevelDebug, Warn, true},
		{"error at debug level", LevelDebug, Error, true},
		{"debug at info level", LevelInfo, Debug, false},
		{"info at info level", LevelInfo, Info, true},
		{"debug at warn level", LevelWarn, Debug, false},
		{"info at warn level", LevelWarn, Info, false},
		{"warn at warn level", LevelWarn, Warn, true},
		{"error at warn level", LevelWarn, Error, true},
		{"debug at error level", LevelError, Debug, false},
		{"warn at error level", LevelError, Warn, false},
		{"error at error level", LevelError, Error, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			SetLevel(tt.level)

			tt.logFunc("test message")

			hasOutput := buf.Len() > 0
			if hasOutput != tt.shouldShow {
				t.Errorf("got output=%v, want output=%v", hasOutput, tt.shouldShow)
			}
		})
	}

	// Reset
	SetLevel(LevelWarn)
}

func TestLogFormatting(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelDebug)
	defer func() {
		SetOutput(nil)
		SetLevel(LevelWarn)
	}()

	Debug("planned %s %d", "steps", 42)
	output := buf.String()

	// Check format: [LEVEL] timestamp message
	if !strings.HasPrefix(output, "[DEBUG]") {
		t.Errorf("Missing [DEBUG] prefix: %s", output)
	}

	if !strings.Contains(output, "planned steps 42") {
		t.Errorf("Missing formatted message: %s", output)
	}

	if !strings.HasSuffix(strings.TrimSpace(output), "planned steps 42") {
		t.Errorf("Message not at end: %s", output)
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelError)
	defer func() {
		SetOutput(nil)
		SetLevel(LevelWarn)
	}()

	// Test with nil error
	buf.Reset()
	LogError(nil, "should not log")
	if buf.Len() > 0 {
		t.Error("LogError with nil should not produce output")
	}

	// Test with actual error
	buf.Reset()
	testErr := fmt.Errorf("scp exited 1")
	LogError(testErr, "delivery failed")
	output := buf.String()
	if !strings.Contains(output, "[ERROR]") {
		t.Errorf("LogError should produce ERROR level: %s", output)
	}
	if !strings.Contains(output, "delivery failed") {
		t.Errorf("LogError should contain message: %s", output)
	}
	if !strings.Contains(output, "scp exited 1") {
		t.Errorf("LogError should contain error: %s", output)
	}
}

func TestConcurrentLogging(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelDebug)
	defer func() {
		SetOutput(nil)
		SetLevel(LevelWarn)
	}()

	// Run multiple goroutines logging concurrently
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Debug("worker %d", n)
			Info("domain %d done", n)
		}(i)
	}
	wg.Wait()

	// Count log lines
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	expected := 200 // 100 goroutines * 2 log calls each

	if len(lines) != expected {
		t.Errorf("Expected %d log lines, got %d", expected, len(lines))
	}

	// Check for corrupted lines (each line should have a level prefix)
	for i, line := range lines {
		if !strings.HasPrefix(line, "[DEBUG]") && !strings.HasPrefix(line, "[INFO]") {
			t.Errorf("Line %d may be corrupted: %s", i, line)
		}
	}
}

func TestAllLogFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelDebug)
	defer func() {
		SetOutput(nil)
		SetLevel(LevelWarn)
	}()

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")

	output := buf.String()
	if !strings.Contains(output, "[DEBUG]") {
		t.Error("Missing DEBUG output")
	}
	if !strings.Contains(output, "[INFO]") {
		t.Error("Missing INFO output")
	}
	if !strings.Contains(output, "[WARN]") {
		t.Error("Missing WARN output")
	}
	if !strings.Contains(output, "[ERROR]") {
		t.Error("Missing ERROR output")
	}
}
