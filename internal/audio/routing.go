package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// PulseRouting toggles the device-global recording mode through pactl. While
// recording mode is active the default source is kept awake and unmuted so
// capture keeps flowing even if the desktop would otherwise suspend or mute
// the microphone. Exit restores the suspend state observed on entry, so a
// source another client was already capturing from stays running.
type PulseRouting struct {
	command string

	mu           sync.Mutex
	wasSuspended bool
}

func NewPulseRouting(command string) *PulseRouting {
	if command == "" {
		command = "pactl"
	}
	return &PulseRouting{command: command}
}

func (r *PulseRouting) EnterRecordingMode(ctx context.Context) error {
	suspended := r.sourceSuspended(ctx)
	r.mu.Lock()
	r.wasSuspended = suspended
	r.mu.Unlock()

	if err := r.run(ctx, "suspend-source", "@DEFAULT_SOURCE@", "0"); err != nil {
		return fmt.Errorf("failed to wake default source: %w", err)
	}
	if err := r.run(ctx, "set-source-mute", "@DEFAULT_SOURCE@", "0"); err != nil {
		return fmt.Errorf("failed to unmute default source: %w", err)
	}
	return nil
}

func (r *PulseRouting) ExitRecordingMode(ctx context.Context) error {
	r.mu.Lock()
	wasSuspended := r.wasSuspended
	r.mu.Unlock()

	if !wasSuspended {
		return nil
	}
	if err := r.run(ctx, "suspend-source", "@DEFAULT_SOURCE@", "1"); err != nil {
		return fmt.Errorf("failed to release default source: %w", err)
	}
	return nil
}

// sourceSuspended reports whether the default source is currently suspended.
// Query failures count as suspended, so exit falls back to releasing the
// source rather than pinning it awake.
func (r *PulseRouting) sourceSuspended(ctx context.Context) bool {
	name, err := r.output(ctx, "get-default-source")
	if err != nil || name == "" {
		return true
	}
	listing, err := r.output(ctx, "list", "short", "sources")
	if err != nil {
		return true
	}
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) >= 5 && fields[1] == name {
			return strings.TrimSpace(fields[4]) == "SUSPENDED"
		}
	}
	return true
}

func (r *PulseRouting) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, r.command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s %v: %w: %s", r.command, args, err, trimSpaceSafe(string(out)))
	}
	return nil
}

func (r *PulseRouting) output(ctx context.Context, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, r.command, args...).Output()
	return strings.TrimSpace(string(out)), err
}
