package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"patientscribe/internal/domain"
	"patientscribe/internal/ports"
)

var (
	ErrNoRecording  = errors.New("no recording or imported file to submit")
	ErrInvalidEmail = errors.New("recipient email is invalid")
)

// SubmissionGateway transmits one artifact + metadata bundle.
type SubmissionGateway interface {
	Submit(ctx context.Context, artifact domain.RecordingArtifact, details domain.AppointmentDetails) (domain.SubmissionReceipt, error)
}

// Submitter orchestrates one submission: validate, send, then reset local
// state on acceptance. Failed submissions leave both stores untouched so
// the user can retry with the same inputs.
type Submitter struct {
	gateway      SubmissionGateway
	settings     ports.SettingsStore
	results      *ResultStore
	appointments *AppointmentStore
	events       ports.EventSink
}

func NewSubmitter(
	gateway SubmissionGateway,
	settings ports.SettingsStore,
	results *ResultStore,
	appointments *AppointmentStore,
	events ports.EventSink,
) *Submitter {
	return &Submitter{
		gateway:      gateway,
		settings:     settings,
		results:      results,
		appointments: appointments,
		events:       events,
	}
}

func (s *Submitter) Submit(ctx context.Context) (domain.SubmissionReceipt, error) {
	artifact, ok := s.results.Artifact()
	if !ok {
		return domain.SubmissionReceipt{}, ErrNoRecording
	}

	details := s.appointments.Snapshot()
	details.RecipientEmail = strings.TrimSpace(details.RecipientEmail)
	if !domain.ValidEmail(details.RecipientEmail) {
		return domain.SubmissionReceipt{}, fmt.Errorf("%w: %q", ErrInvalidEmail, details.RecipientEmail)
	}

	receipt, err := s.gateway.Submit(ctx, artifact, details)
	if err != nil {
		return domain.SubmissionReceipt{}, err
	}

	if err := s.settings.SaveLastEmail(ctx, details.RecipientEmail); err != nil {
		s.events.SessionError(domain.ErrorCodeSubmission, "submission accepted but saving the email failed")
	}

	s.results.Clear()
	s.appointments.Reset()
	s.events.SessionStateChanged(domain.SessionStateIdle, domain.SessionReasonSubmissionAccepted)
	return receipt, nil
}
