package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"patientscribe/internal/domain"
	"patientscribe/internal/ports"
)

// FFMPEGCapture records microphone audio into an m4a file using ffmpeg.
type FFMPEGCapture struct {
	command string
}

func NewFFMPEGCapture(command string) *FFMPEGCapture {
	if command == "" {
		command = "ffmpeg"
	}
	return &FFMPEGCapture{command: command}
}

func (c *FFMPEGCapture) Start(ctx context.Context, cfg ports.AudioConfig) (ports.CaptureSession, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 2
	}
	if cfg.BitRate == "" {
		cfg.BitRate = "128k"
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = "pulse"
	}
	if cfg.InputDevice == "" {
		cfg.InputDevice = "default"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = os.TempDir()
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}
	output := filepath.Join(cfg.OutputDir, "recording-"+uuid.NewString()+"."+domain.DefaultFormat)

	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", cfg.InputFormat,
		"-i", cfg.InputDevice,
		"-ac", strconv.Itoa(cfg.Channels),
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-c:a", "aac",
		"-b:a", cfg.BitRate,
		"-y",
		output,
	}

	cmd := exec.CommandContext(ctx, c.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	select {
	case err := <-waitErr:
		if err != nil {
			return nil, fmt.Errorf("ffmpeg exited before capture started: %w: %s", err, trimSpaceSafe(stderr.String()))
		}
		return nil, errors.New("ffmpeg exited before capture started")
	case <-time.After(250 * time.Millisecond):
	}

	return &ffmpegSession{
		output:  output,
		stderr:  &stderr,
		process: cmd.Process,
		waitErr: waitErr,
	}, nil
}

type ffmpegSession struct {
	output string
	stderr *bytes.Buffer

	process *os.Process
	waitErr <-chan error

	doneOnce sync.Once
	doneErr  error
}

func (s *ffmpegSession) Pause() error {
	if s.process == nil {
		return errors.New("capture process is not running")
	}
	if err := s.process.Signal(syscall.SIGSTOP); err != nil {
		return fmt.Errorf("failed to pause capture: %w", err)
	}
	return nil
}

func (s *ffmpegSession) Resume() error {
	if s.process == nil {
		return errors.New("capture process is not running")
	}
	if err := s.process.Signal(syscall.SIGCONT); err != nil {
		return fmt.Errorf("failed to resume capture: %w", err)
	}
	return nil
}

func (s *ffmpegSession) Stop() (string, error) {
	s.doneOnce.Do(func() {
		s.doneErr = s.shutdown()
		if s.doneErr == nil {
			if _, statErr := os.Stat(s.output); statErr != nil {
				s.doneErr = fmt.Errorf("capture produced no output: %w", statErr)
			}
		}
	})

	if s.doneErr != nil {
		return "", s.doneErr
	}
	return s.output, nil
}

func (s *ffmpegSession) Discard() error {
	s.doneOnce.Do(func() {
		if s.process != nil {
			// A stopped process ignores the kill until it is continued.
			_ = s.process.Signal(syscall.SIGCONT)
			_ = s.process.Kill()
		}
		<-s.waitErr
		if err := os.Remove(s.output); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.doneErr = fmt.Errorf("failed to remove discarded capture: %w", err)
		}
	})
	return s.doneErr
}

func (s *ffmpegSession) shutdown() error {
	if s.process != nil {
		// ffmpeg finalizes the container on SIGINT; continue first in case
		// the capture is paused.
		_ = s.process.Signal(syscall.SIGCONT)
		_ = s.process.Signal(os.Interrupt)
	}

	var stopErr error
	select {
	case err, ok := <-s.waitErr:
		if ok {
			stopErr = normalizeStopErr(err)
		}
	case <-time.After(1200 * time.Millisecond):
		if s.process != nil {
			_ = s.process.Kill()
		}
		err, ok := <-s.waitErr
		if ok {
			stopErr = normalizeStopErr(err)
		}
	}

	if stopErr != nil && s.stderr != nil && s.stderr.Len() > 0 {
		stopErr = fmt.Errorf("%w: %s", stopErr, trimSpaceSafe(s.stderr.String()))
	}
	return stopErr
}

func normalizeStopErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func trimSpaceSafe(input string) string {
	if input == "" {
		return input
	}
	return string(bytes.TrimSpace([]byte(input)))
}
