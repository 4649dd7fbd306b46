package logger_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	mkcontext "github.com/modkeeper/modkeeper/pkg/context"
	"github.com/modkeeper/modkeeper/pkg/logger"
)

func TestCreateLogger(t *testing.T) {
	log := logger.CreateLogger("", "info")
	if log == nil {
		t.Fatal("expected logger to be created")
	}
}

func TestLogger_WithPackage(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.WithPackage("hota").Info("installing package")

	output := buf.String()
	if !strings.Contains(output, "[hota]") {
		t.Errorf("expected package prefix in output, got %q", output)
	}
	if strings.Contains(output, "package=") {
		t.Error("package field should not be repeated in the field list")
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.Warn("flush failed",
		logger.WithField("path", "/tmp/modSettings.json"),
		logger.WithError(errors.New("disk full")),
	)

	output := buf.String()
	if !strings.Contains(output, "{error=disk full, path=/tmp/modSettings.json}") {
		t.Errorf("expected sorted fields, got %q", output)
	}
}

func TestLogger_Success(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.Success("package installed")

	if !strings.Contains(buf.String(), "package installed") {
		t.Error("expected success message in log output")
	}
}

func TestLogger_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("error", &buf)

	log.Debug("should not appear")
	log.Info("should not appear")
	log.Warn("should not appear")
	log.Error("should appear")

	output := buf.String()
	if strings.Contains(output, "should not appear") {
		t.Error("lower level logs should not appear with error level")
	}
	if !strings.Contains(output, "should appear") {
		t.Error("error level log should appear")
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	base := logger.CreateLoggerWithOutput("debug", &buf)

	ctx := mkcontext.ForOperation(context.Background(), "enable")
	log := logger.WithContext(ctx, base).WithPackage("wog")
	log.Info("enabling")

	output := buf.String()
	if !strings.Contains(output, "operation=enable") {
		t.Errorf("expected operation field, got %q", output)
	}
	if !strings.Contains(output, "request_id=req_") {
		t.Errorf("expected request id field, got %q", output)
	}
	if !strings.Contains(output, "[wog]") {
		t.Errorf("expected package prefix, got %q", output)
	}
}
