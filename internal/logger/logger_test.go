package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewHonoursDebug(t *testing.T) {
	log, err := New(Options{Debug: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected debug level to be enabled")
	}

	log, err = New(Options{JSON: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected debug level to be disabled by default")
	}
}

func TestInitialFields(t *testing.T) {
	if fields := initialFields(Options{}); fields != nil {
		t.Fatalf("expected no fields, got %v", fields)
	}

	fields := initialFields(Options{App: "recruiter-assistant", Version: "1.2.3"})
	if fields["app"] != "recruiter-assistant" || fields["version"] != "1.2.3" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}
