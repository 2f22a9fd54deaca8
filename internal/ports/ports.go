package ports

import (
	"context"
	"io"
	"time"

	"patientscribe/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	BitRate     string
	InputFormat string
	InputDevice string
	OutputDir   string
}

// CaptureSession is a live capture writing to a media file.
type CaptureSession interface {
	// Pause suspends capture without finalizing the output.
	Pause() error
	// Resume continues a paused capture.
	Resume() error
	// Stop finalizes the capture and returns the media location.
	Stop() (string, error)
	// Discard releases the capture without reading its output.
	Discard() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (CaptureSession, error)
}

// AudioRouting toggles the device-global recording mode. Enter and Exit must
// be called symmetrically; Exit is best-effort on teardown.
type AudioRouting interface {
	EnterRecordingMode(ctx context.Context) error
	ExitRecordingMode(ctx context.Context) error
}

// MicrophonePermission asks the platform for microphone access.
type MicrophonePermission interface {
	Request(ctx context.Context) (bool, error)
}

// Ticker delivers periodic ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers, so elapsed-time logic is testable without real time.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// ArtifactSource opens the bytes behind an artifact location regardless of
// whether it is a local path or a network-style resource.
type ArtifactSource interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// SettingsStore persists the small set of durable user preferences.
type SettingsStore interface {
	LastEmail(ctx context.Context) (string, error)
	SaveLastEmail(ctx context.Context, email string) error
	Close() error
}

// EventSink emits backend state/events to the UI.
type EventSink interface {
	SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason)
	ElapsedChanged(seconds int)
	SessionError(code domain.ErrorCode, detail string)
}
