package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromContextCarriesRequestID(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup("debug", "json", &buf)

	ctx := WithRequestID(context.Background(), "req-42")
	FromContext(ctx).Debug("hello")
	WithComponent("session").Info("loaded")

	dec := json.NewDecoder(&buf)
	var first, second map[string]any
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("decoding first line: %v", err)
	}
	if err := dec.Decode(&second); err != nil {
		t.Fatalf("decoding second line: %v", err)
	}
	if first["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want req-42", first["request_id"])
	}
	if second["component"] != "session" {
		t.Errorf("component = %v, want session", second["component"])
	}
	if RequestIDFrom(context.Background()) != "" {
		t.Error("empty context should carry no request id")
	}
}
