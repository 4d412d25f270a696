package elevate

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/domsleee/forceops/internal/logging"
)

func newTestCoordinator() (*Coordinator, *bytes.Buffer) {
	var stderr bytes.Buffer
	c := NewCoordinator(logging.Discard())
	c.stderr = &stderr
	c.isElevated = func() bool { return false }
	c.relaunch = func(args []string, outputFile string) (uint32, error) {
		return 0, errors.New("relaunch not stubbed")
	}
	return c, &stderr
}

func TestRunSuccessSkipsRelaunch(t *testing.T) {
	c, _ := newTestCoordinator()
	relaunched := false
	c.relaunch = func([]string, string) (uint32, error) {
		relaunched = true
		return 0, nil
	}
	if err := c.Run(func() error { return nil }, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if relaunched {
		t.Error("successful action must not relaunch")
	}
}

func TestRunNonPermissionErrorPropagates(t *testing.T) {
	c, _ := newTestCoordinator()
	want := errors.New("disk I/O error")
	err := c.Run(func() error { return want }, nil)
	if !errors.Is(err, want) {
		t.Fatalf("expected the action error unchanged, got %v", err)
	}
}

func TestRunAlreadyElevatedPropagates(t *testing.T) {
	c, _ := newTestCoordinator()
	c.isElevated = func() bool { return true }
	want := errors.New("access is denied")
	err := c.Run(func() error { return want }, nil)
	if !errors.Is(err, want) {
		t.Fatalf("elevated process must not relaunch, got %v", err)
	}
}

func TestRunRelaunchesOnPermissionError(t *testing.T) {
	c, _ := newTestCoordinator()
	var gotArgs []string
	hookFired := false
	c.OnRelaunch = func() { hookFired = true }
	c.relaunch = func(args []string, outputFile string) (uint32, error) {
		gotArgs = args
		return 0, nil
	}

	err := c.Run(
		func() error { return errors.New("permission denied") },
		func() []string { return []string{"forceops", "delete", "-f", "x"} },
	)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(gotArgs) != 4 || gotArgs[2] != "-f" {
		t.Errorf("relaunch args = %v", gotArgs)
	}
	if !hookFired {
		t.Error("OnRelaunch hook not invoked")
	}
}

func TestRunRelaysChildOutputOnFailure(t *testing.T) {
	c, stderr := newTestCoordinator()
	c.relaunch = func(args []string, outputFile string) (uint32, error) {
		if err := os.WriteFile(outputFile, []byte("child says no\nsecond line\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		return 2, nil
	}

	var capturedOutput string
	c.relaunch = wrapRelaunch(c.relaunch, &capturedOutput)

	err := c.Run(
		func() error { return errors.New("access denied") },
		func() []string { return []string{"forceops"} },
	)
	if err == nil || !strings.Contains(err.Error(), "exited with code 2") {
		t.Fatalf("expected exit-code error, got %v", err)
	}
	if !strings.Contains(stderr.String(), "child says no") || !strings.Contains(stderr.String(), "second line") {
		t.Errorf("child output not relayed, stderr:\n%s", stderr.String())
	}
	if _, statErr := os.Stat(capturedOutput); !os.IsNotExist(statErr) {
		t.Errorf("temp output file %s should be removed", capturedOutput)
	}
}

func wrapRelaunch(inner func([]string, string) (uint32, error), capture *string) func([]string, string) (uint32, error) {
	return func(args []string, outputFile string) (uint32, error) {
		*capture = outputFile
		return inner(args, outputFile)
	}
}

func TestRunRelaunchFailurePropagates(t *testing.T) {
	c, _ := newTestCoordinator()
	c.relaunch = func([]string, string) (uint32, error) {
		return 0, errors.New("UAC refused")
	}
	err := c.Run(
		func() error { return errors.New("permission denied") },
		func() []string { return []string{"forceops"} },
	)
	if err == nil || !strings.Contains(err.Error(), "UAC refused") {
		t.Fatalf("expected relaunch failure, got %v", err)
	}
}

func TestIsPermissionError(t *testing.T) {
	cases := []struct {
		err  string
		want bool
	}{
		{"Access is denied. (os error 5)", true},
		{"permission denied", true},
		{"operation not permitted: access refused", true},
		{"file is locked by another process", false},
		{"no such file or directory", false},
	}
	for _, tc := range cases {
		if got := isPermissionError(errors.New(tc.err)); got != tc.want {
			t.Errorf("isPermissionError(%q) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
