package mobius

import (
	"testing"

	"go.uber.org/zap"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg := parseConfig(nil)
	if cfg.buffer != 0 {
		t.Errorf("expected unbuffered default, got %d", cfg.buffer)
	}
	if cfg.logger == nil {
		t.Error("expected a non-nil default logger")
	}
}

func TestParseConfig_Options(t *testing.T) {
	logger := zap.NewExample()
	cfg := parseConfig([]Option{WithBuffer(16), WithLogger(logger)})
	if cfg.buffer != 16 {
		t.Errorf("expected buffer 16, got %d", cfg.buffer)
	}
	if cfg.logger != logger {
		t.Error("expected the injected logger")
	}
}

func TestParseConfig_IgnoresInvalid(t *testing.T) {
	cfg := parseConfig([]Option{WithBuffer(-1), WithLogger(nil)})
	if cfg.buffer != 0 {
		t.Errorf("negative buffer must keep the default, got %d", cfg.buffer)
	}
	if cfg.logger == nil {
		t.Error("nil logger must keep the default")
	}
}
