package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"patientscribe/internal/bootstrap"
	"patientscribe/internal/domain"
	"patientscribe/internal/usecase"
)

const (
	eventSession = "patientscribe:session"
	eventElapsed = "patientscribe:elapsed"
	eventError   = "patientscribe:error"
)

// App is the Wails application root.
type App struct {
	ctx context.Context

	services bootstrap.Services
	bootErr  error
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(ctx, a)
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.services = services
	a.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonReady)
}

func (a *App) shutdown(ctx context.Context) {
	if a.bootErr != nil {
		return
	}
	_ = a.services.Close(ctx)
}

// StartRecording begins a new capture session.
func (a *App) StartRecording() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.services.Controller.Start(a.ctx); err != nil {
		a.SessionError(recordingErrorCode(err), err.Error())
		return domain.Status{}, err
	}
	return a.services.Controller.Status(), nil
}

// PauseRecording freezes the elapsed clock and suspends capture.
func (a *App) PauseRecording() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.services.Controller.Pause(); err != nil {
		a.SessionError(domain.ErrorCodeDevice, err.Error())
		return domain.Status{}, err
	}
	return a.services.Controller.Status(), nil
}

// ResumeRecording restarts the elapsed clock at its current count.
func (a *App) ResumeRecording() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.services.Controller.Resume(); err != nil {
		a.SessionError(domain.ErrorCodeDevice, err.Error())
		return domain.Status{}, err
	}
	return a.services.Controller.Status(), nil
}

// StopRecording finalizes the capture and returns the media location.
func (a *App) StopRecording() (string, error) {
	if err := a.requireReady(); err != nil {
		return "", err
	}
	location, err := a.services.Controller.Stop(a.ctx)
	if err != nil {
		a.SessionError(domain.ErrorCodeDevice, err.Error())
		return "", err
	}
	return location, nil
}

// CancelRecording discards an in-progress capture.
func (a *App) CancelRecording() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if err := a.services.Controller.Cancel(a.ctx); err != nil {
		if errors.Is(err, usecase.ErrNoActiveSession) {
			return nil
		}
		a.SessionError(domain.ErrorCodeDevice, err.Error())
		return err
	}
	return nil
}

// ImportFile brings an existing audio or transcript file in as the artifact.
func (a *App) ImportFile(path string) (domain.RecordingArtifact, error) {
	if err := a.requireReady(); err != nil {
		return domain.RecordingArtifact{}, err
	}
	artifact, err := a.services.Importer.Import(path)
	if err != nil {
		a.SessionError(domain.ErrorCodeImport, err.Error())
		return domain.RecordingArtifact{}, err
	}
	a.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonFileImported)
	return artifact, nil
}

// SubmitRecording sends the current artifact and appointment details.
func (a *App) SubmitRecording() (domain.SubmissionReceipt, error) {
	if err := a.requireReady(); err != nil {
		return domain.SubmissionReceipt{}, err
	}
	receipt, err := a.services.Submitter.Submit(a.ctx)
	if err != nil {
		a.SessionError(submissionErrorCode(err), err.Error())
		return domain.SubmissionReceipt{}, err
	}
	return receipt, nil
}

// GetStatus returns the current session status.
func (a *App) GetStatus() domain.Status {
	if a.bootErr != nil {
		return domain.Status{State: domain.SessionStateError, Active: false, Message: a.bootErr.Error()}
	}
	if a.services.Controller == nil {
		return domain.Status{State: domain.SessionStateIdle, Active: false}
	}
	return a.services.Controller.Status()
}

// GetRecording returns the current artifact, or nil when none exists.
func (a *App) GetRecording() *domain.RecordingArtifact {
	if a.services.Results == nil {
		return nil
	}
	artifact, ok := a.services.Results.Artifact()
	if !ok {
		return nil
	}
	return &artifact
}

// GetRecordingFlags returns the live recording/paused flags.
func (a *App) GetRecordingFlags() domain.RecordingFlags {
	if a.services.Results == nil {
		return domain.RecordingFlags{}
	}
	return a.services.Results.Flags()
}

// SetAppointmentDate accepts a YYYY-MM-DD calendar date.
func (a *App) SetAppointmentDate(date string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return fmt.Errorf("invalid appointment date %q: %w", date, err)
	}
	a.services.Appointments.SetAppointmentDate(parsed)
	return nil
}

func (a *App) SetProviderName(name string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.services.Appointments.SetProviderName(name)
	return nil
}

func (a *App) SetSpecialty(specialty string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.services.Appointments.SetSpecialty(domain.Specialty(specialty))
}

func (a *App) SetRecipientEmail(email string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.services.Appointments.SetRecipientEmail(email)
	return nil
}

// GetLastEmail returns the last-used recipient email, or "" when none was
// saved. The form re-reads it whenever the details screen is entered, since a
// successful submission resets the appointment store.
func (a *App) GetLastEmail() (string, error) {
	if err := a.requireReady(); err != nil {
		return "", err
	}
	return a.services.Settings.LastEmail(a.ctx)
}

// GetAppointment returns the current appointment form state.
func (a *App) GetAppointment() (domain.AppointmentDetails, error) {
	if err := a.requireReady(); err != nil {
		return domain.AppointmentDetails{}, err
	}
	return a.services.Appointments.Snapshot(), nil
}

// GetSpecialties returns the selectable specialties in display order.
func (a *App) GetSpecialties() []string {
	out := make([]string, 0, len(domain.Specialties))
	for _, specialty := range domain.Specialties {
		out = append(out, string(specialty))
	}
	return out
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}

	cfg := a.services.Config
	return map[string]string{
		"endpoint":        cfg.Webhook.URL,
		"uploadTimeoutMs": strconv.FormatInt(cfg.Webhook.Timeout.Milliseconds(), 10),
		"audioInput":      cfg.Audio.InputDevice,
		"audioFormat":     domain.DefaultFormat,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.services.Controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// SessionStateChanged emits session lifecycle updates to the frontend.
func (a *App) SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSession, map[string]string{
		"state":   string(state),
		"reason":  string(reason),
		"message": sessionReasonMessage(reason),
	})
}

// ElapsedChanged emits the running elapsed-seconds counter.
func (a *App) ElapsedChanged(seconds int) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventElapsed, map[string]int{"seconds": seconds})
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func recordingErrorCode(err error) domain.ErrorCode {
	if errors.Is(err, usecase.ErrPermissionDenied) {
		return domain.ErrorCodePermission
	}
	return domain.ErrorCodeDevice
}

func submissionErrorCode(err error) domain.ErrorCode {
	if errors.Is(err, usecase.ErrInvalidEmail) || errors.Is(err, usecase.ErrNoRecording) {
		return domain.ErrorCodeValidation
	}
	return domain.ErrorCodeSubmission
}

func sessionReasonMessage(reason domain.SessionStateReason) string {
	switch reason {
	case domain.SessionReasonReady:
		return "Ready to record"
	case domain.SessionReasonRecordingStarted:
		return "Recording started"
	case domain.SessionReasonRecordingPaused:
		return "Recording paused"
	case domain.SessionReasonRecordingResumed:
		return "Recording resumed"
	case domain.SessionReasonFinalizing:
		return "Finishing recording..."
	case domain.SessionReasonRecordingStopped:
		return "Recording saved"
	case domain.SessionReasonRecordingDiscarded:
		return "Recording discarded"
	case domain.SessionReasonFileImported:
		return "File ready to submit"
	case domain.SessionReasonSubmissionAccepted:
		return "Submitted for processing"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodePermission:
		return "Microphone access was denied. Enable it in your system settings."
	case domain.ErrorCodeDevice:
		return "The recording device reported a problem. Please try again."
	case domain.ErrorCodeImport:
		return "That file can't be used"
	case domain.ErrorCodeValidation:
		return "Please check the form and try again"
	case domain.ErrorCodeSubmission:
		return "Submission failed"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}
