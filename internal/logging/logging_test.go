package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	cases := []struct {
		name      string
		cfg       Config
		wantDebug bool
		wantInfo  bool
	}{
		{"default", Config{}, false, true},
		{"verbose", Config{Verbose: true}, true, true},
		{"quiet", Config{Quiet: true}, false, false},
		{"verbose wins over quiet", Config{Verbose: true, Quiet: true}, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			tc.cfg.Writer = &buf
			logger := New(tc.cfg)

			logger.Debug("debug marker")
			logger.Info("info marker")
			logger.Warn("warn marker")

			out := buf.String()
			if got := strings.Contains(out, "debug marker"); got != tc.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tc.wantDebug)
			}
			if got := strings.Contains(out, "info marker"); got != tc.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tc.wantInfo)
			}
			if !strings.Contains(out, "warn marker") {
				t.Error("warnings must always be logged")
			}
		})
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{JSON: true, Writer: &buf})
	logger.Info("structured", "path", "/tmp/x", "attempt", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "structured" || entry["path"] != "/tmp/x" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestDiscard(t *testing.T) {
	// must not panic and must not write anywhere
	Discard().Info("dropped")
}
