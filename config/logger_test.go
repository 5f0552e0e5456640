package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLoggingPrepare_FileLog(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { debug.SetCrashOutput(nil, debug.CrashOptions{}) })

	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "debug", Destination: filepath.Join(dir, "stylo.log"), Mode: "overwrite"},
	}
	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("Scope realized", zap.String("scope", "default"))
	_ = log.Sync()

	data, err := os.ReadFile(conf.FileLogger.Destination)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	for _, want := range []string{"Scope realized", "stylo", `"scope": "default"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file missing %q:\n%s", want, data)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "stylo-panic.log")); err != nil {
		t.Errorf("panic log not created: %v", err)
	}
}

func TestLoggingPrepare_ReportForcesDebug(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { debug.SetCrashOutput(nil, debug.CrashOptions{}) })

	rpt := &Report{entries: make(map[string]entry)}
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "none", Destination: filepath.Join(dir, "stylo.log")},
	}
	log, err := conf.Prepare(rpt)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("Layer raised")
	_ = log.Sync()

	if _, ok := rpt.entries["final.log"]; !ok {
		t.Error("file log not stored in report")
	}
	if _, ok := rpt.entries["panic.log"]; !ok {
		t.Error("panic log not stored in report")
	}
	data, _ := os.ReadFile(conf.FileLogger.Destination)
	if !strings.Contains(string(data), "Layer raised") {
		t.Errorf("debug entry missing from report log:\n%s", data)
	}
}

func TestConsoleEncoder_PlainErrors(t *testing.T) {
	enc := newEncoder(zapcore.EncoderConfig{MessageKey: "msg"})
	err := multierr.Combine(errors.New("first"), errors.New("second"))

	buf, encErr := enc.EncodeEntry(zapcore.Entry{Message: "failed", Time: time.Now()}, []zapcore.Field{zap.Error(err)})
	if encErr != nil {
		t.Fatalf("EncodeEntry() error = %v", encErr)
	}
	out := buf.String()
	if !strings.Contains(out, "first; second") {
		t.Errorf("expected flat error text, got %q", out)
	}
	if strings.Contains(out, "errorVerbose") || strings.Contains(out, "errorCauses") {
		t.Errorf("verbose error fields leaked: %q", out)
	}
}
