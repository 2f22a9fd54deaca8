package audio

import (
	"context"
	"os/exec"
	"strings"
)

// PulsePermission probes microphone availability through pactl. Desktop
// Linux has no runtime permission prompt; a missing or unreachable default
// source is the equivalent of a denied request.
type PulsePermission struct {
	command string
}

func NewPulsePermission(command string) *PulsePermission {
	if command == "" {
		command = "pactl"
	}
	return &PulsePermission{command: command}
}

func (p *PulsePermission) Request(ctx context.Context) (bool, error) {
	cmd := exec.CommandContext(ctx, p.command, "get-default-source")
	out, err := cmd.Output()
	if err != nil {
		return false, nil
	}
	return strings.TrimSpace(string(out)) != "", nil
}
