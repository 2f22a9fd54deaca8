package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"patientscribe/internal/domain"
	"patientscribe/internal/ports"
)

var (
	ErrNoActiveSession  = errors.New("no active recording session")
	ErrSessionActive    = errors.New("a recording session is already active")
	ErrPermissionDenied = errors.New("microphone permission denied")
)

// Config controls recording session behavior.
type Config struct {
	Audio        ports.AudioConfig
	TickInterval time.Duration
}

// SessionController owns the single recording session: the capture handle,
// the device recording mode, and the elapsed-seconds clock. Calls are
// serialized; at most one session exists at a time.
type SessionController struct {
	capture    ports.AudioCapture
	routing    ports.AudioRouting
	permission ports.MicrophonePermission
	clock      ports.Clock
	results    *ResultStore
	events     ports.EventSink
	cfg        Config

	mu      sync.Mutex
	state   domain.SessionState
	current *activeSession
}

func NewSessionController(
	capture ports.AudioCapture,
	routing ports.AudioRouting,
	permission ports.MicrophonePermission,
	clock ports.Clock,
	results *ResultStore,
	events ports.EventSink,
	cfg Config,
) *SessionController {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return &SessionController{
		capture:    capture,
		routing:    routing,
		permission: permission,
		clock:      clock,
		results:    results,
		events:     events,
		cfg:        cfg,
		state:      domain.SessionStateIdle,
	}
}

// Start begins a new capture session. A second Start while one is active
// fails fast instead of opening a second capture handle.
func (c *SessionController) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		return ErrSessionActive
	}

	granted, err := c.permission.Request(ctx)
	if err != nil {
		return fmt.Errorf("microphone permission check failed: %w", err)
	}
	if !granted {
		return ErrPermissionDenied
	}

	if err := c.routing.EnterRecordingMode(ctx); err != nil {
		return fmt.Errorf("failed to enter recording mode: %w", err)
	}

	capture, err := c.capture.Start(ctx, c.cfg.Audio)
	if err != nil {
		if exitErr := c.routing.ExitRecordingMode(ctx); exitErr != nil {
			c.events.SessionError(domain.ErrorCodeDevice, exitErr.Error())
		}
		return fmt.Errorf("failed to start capture: %w", err)
	}

	active := newActiveSession(capture, c.clock.NewTicker(c.cfg.TickInterval))
	c.current = active
	c.state = domain.SessionStateRecording

	go runElapsedClock(active, c.events)

	c.results.SetFlags(true, false)
	c.events.SessionStateChanged(domain.SessionStateRecording, domain.SessionReasonRecordingStarted)
	return nil
}

// Pause freezes the elapsed clock and suspends capture. Calling it outside
// the recording state is a no-op.
func (c *SessionController) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil || c.state != domain.SessionStateRecording {
		return nil
	}

	if err := c.current.capture.Pause(); err != nil {
		return fmt.Errorf("failed to pause capture: %w", err)
	}

	c.current.setPaused(true)
	c.state = domain.SessionStatePaused
	c.results.SetFlags(true, true)
	c.events.SessionStateChanged(domain.SessionStatePaused, domain.SessionReasonRecordingPaused)
	return nil
}

// Resume restarts the elapsed clock at its current count. Calling it outside
// the paused state is a no-op.
func (c *SessionController) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil || c.state != domain.SessionStatePaused {
		return nil
	}

	if err := c.current.capture.Resume(); err != nil {
		return fmt.Errorf("failed to resume capture: %w", err)
	}

	c.current.setPaused(false)
	c.state = domain.SessionStateRecording
	c.results.SetFlags(true, false)
	c.events.SessionStateChanged(domain.SessionStateRecording, domain.SessionReasonRecordingResumed)
	return nil
}

// Stop finalizes the capture, publishes the artifact, and returns the media
// location. Stopping with no active session is a no-op returning "".
func (c *SessionController) Stop(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return "", nil
	}
	active := c.current

	c.state = domain.SessionStateStopping
	c.events.SessionStateChanged(domain.SessionStateStopping, domain.SessionReasonFinalizing)

	active.stopClock()
	location, stopErr := active.capture.Stop()

	if exitErr := c.routing.ExitRecordingMode(ctx); exitErr != nil {
		c.events.SessionError(domain.ErrorCodeDevice, exitErr.Error())
	}

	c.current = nil
	c.state = domain.SessionStateIdle

	if stopErr != nil {
		c.results.SetFlags(false, false)
		c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonReady)
		return "", fmt.Errorf("failed to stop capture: %w", stopErr)
	}

	c.results.Set(domain.RecordingArtifact{
		Location:        location,
		DurationSeconds: active.elapsedSeconds(),
		Format:          domain.DefaultFormat,
	})
	c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonRecordingStopped)
	return location, nil
}

// Cancel discards the capture without reading its output and returns the
// session to idle. A previously published artifact is left untouched.
func (c *SessionController) Cancel(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return ErrNoActiveSession
	}
	active := c.current

	active.stopClock()
	if err := active.capture.Discard(); err != nil {
		c.events.SessionError(domain.ErrorCodeDevice, err.Error())
	}
	if exitErr := c.routing.ExitRecordingMode(ctx); exitErr != nil {
		c.events.SessionError(domain.ErrorCodeDevice, exitErr.Error())
	}

	c.current = nil
	c.state = domain.SessionStateIdle
	c.results.SetFlags(false, false)
	c.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonRecordingDiscarded)
	return nil
}

// Status returns the current session state and elapsed seconds.
func (c *SessionController) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := domain.Status{State: c.state, Active: c.state != domain.SessionStateIdle}
	if c.current != nil {
		status.Elapsed = c.current.elapsedSeconds()
	}
	return status
}

// Close releases any open capture handle and restores the device routing.
// Teardown is best-effort and never returns an error; a dangling handle
// would keep the microphone live after the screen is gone.
func (c *SessionController) Close(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return
	}

	c.current.stopClock()
	_ = c.current.capture.Discard()
	_ = c.routing.ExitRecordingMode(ctx)

	c.current = nil
	c.state = domain.SessionStateIdle
	c.results.SetFlags(false, false)
}
