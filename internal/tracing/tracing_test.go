package tracing

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInit_ExportsCommandSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Init(Config{Enabled: true, ServiceName: "ftwire-test", Writer: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := StartCommand(context.Background(), "FT.SEARCH", 4)
	EndCommand(span, errors.New("boom"))

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "FT.SEARCH") {
		t.Errorf("expected span name in export, got %q", out)
	}
	if !strings.Contains(out, "ftwire.nargs") {
		t.Errorf("expected nargs attribute in export, got %q", out)
	}
}
