package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePactlScript(t *testing.T, logPath string, state string) string {
	t.Helper()
	return writeScript(t, "pactl.sh", fmt.Sprintf(`#!/usr/bin/env bash
echo "$@" >> %q
case "$1" in
  get-default-source) echo "mic0" ;;
  list) printf '42\tmic0\tmodule-alsa-card.c\ts16le 2ch 44100Hz\t%s\n' ;;
esac
`, logPath, state))
}

func pactlCalls(t *testing.T, logPath string) []string {
	t.Helper()
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log unreadable: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func TestPulseRoutingLeavesActiveSourceRunning(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "pactl.log")
	routing := NewPulseRouting(writePactlScript(t, logPath, "RUNNING"))

	if err := routing.EnterRecordingMode(context.Background()); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if err := routing.ExitRecordingMode(context.Background()); err != nil {
		t.Fatalf("exit failed: %v", err)
	}

	calls := pactlCalls(t, logPath)
	var woke, unmuted bool
	for _, call := range calls {
		switch call {
		case "suspend-source @DEFAULT_SOURCE@ 0":
			woke = true
		case "set-source-mute @DEFAULT_SOURCE@ 0":
			unmuted = true
		case "suspend-source @DEFAULT_SOURCE@ 1":
			t.Fatalf("a source that was running on entry must stay running on exit: %v", calls)
		}
	}
	if !woke || !unmuted {
		t.Fatalf("expected wake and unmute on entry, got %v", calls)
	}
}

func TestPulseRoutingRestoresSuspendedSource(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "pactl.log")
	routing := NewPulseRouting(writePactlScript(t, logPath, "SUSPENDED"))

	if err := routing.EnterRecordingMode(context.Background()); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if err := routing.ExitRecordingMode(context.Background()); err != nil {
		t.Fatalf("exit failed: %v", err)
	}

	var suspended bool
	for _, call := range pactlCalls(t, logPath) {
		if call == "suspend-source @DEFAULT_SOURCE@ 1" {
			suspended = true
		}
	}
	if !suspended {
		t.Fatalf("expected exit to re-suspend a source that was suspended on entry")
	}
}

func TestPulseRoutingSuspendsWhenStateIsUnknown(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "pactl.log")
	// No query handling: state cannot be determined, so exit releases the
	// source instead of pinning it awake.
	script := writeScript(t, "pactl.sh", fmt.Sprintf("#!/usr/bin/env bash\necho \"$@\" >> %q\n", logPath))
	routing := NewPulseRouting(script)

	if err := routing.EnterRecordingMode(context.Background()); err != nil {
		t.Fatalf("enter failed: %v", err)
	}
	if err := routing.ExitRecordingMode(context.Background()); err != nil {
		t.Fatalf("exit failed: %v", err)
	}

	var suspended bool
	for _, call := range pactlCalls(t, logPath) {
		if call == "suspend-source @DEFAULT_SOURCE@ 1" {
			suspended = true
		}
	}
	if !suspended {
		t.Fatalf("expected exit to suspend when the prior state is unknown")
	}
}
