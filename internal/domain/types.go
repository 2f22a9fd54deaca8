package domain

import "time"

// SessionState models the recording lifecycle.
type SessionState string

const (
	SessionStateIdle      SessionState = "idle"
	SessionStateRecording SessionState = "recording"
	SessionStatePaused    SessionState = "paused"
	SessionStateStopping  SessionState = "stopping"
	SessionStateError     SessionState = "error"
)

// SessionStateReason provides a structured reason for state transitions.
type SessionStateReason string

const (
	SessionReasonReady              SessionStateReason = "ready"
	SessionReasonRecordingStarted   SessionStateReason = "recording_started"
	SessionReasonRecordingPaused    SessionStateReason = "recording_paused"
	SessionReasonRecordingResumed   SessionStateReason = "recording_resumed"
	SessionReasonFinalizing         SessionStateReason = "finalizing"
	SessionReasonRecordingStopped   SessionStateReason = "recording_stopped"
	SessionReasonRecordingDiscarded SessionStateReason = "recording_discarded"
	SessionReasonFileImported       SessionStateReason = "file_imported"
	SessionReasonSubmissionAccepted SessionStateReason = "submission_accepted"
)

// ErrorCode identifies non-fatal and fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup    ErrorCode = "startup"
	ErrorCodePermission ErrorCode = "permission"
	ErrorCodeDevice     ErrorCode = "device"
	ErrorCodeImport     ErrorCode = "import"
	ErrorCodeValidation ErrorCode = "validation"
	ErrorCodeSubmission ErrorCode = "submission"
)

// RecordingArtifact is the captured or imported file handed to submission.
type RecordingArtifact struct {
	Location        string `json:"location"`
	DurationSeconds int    `json:"durationSeconds"`
	Format          string `json:"format"`
}

// RecordingFlags mirrors the live capture status shown by the UI.
type RecordingFlags struct {
	IsRecording bool `json:"isRecording"`
	IsPaused    bool `json:"isPaused"`
}

// Specialty is one of the fixed appointment specialty options.
// The empty string is the "unspecified" sentinel.
type Specialty string

const (
	SpecialtyUnspecified     Specialty = ""
	SpecialtyPrimaryCare     Specialty = "Primary Care"
	SpecialtyCardiology      Specialty = "Cardiology"
	SpecialtyDental          Specialty = "Dental"
	SpecialtyPhysicalTherapy Specialty = "Physical Therapy"
	SpecialtyMentalHealth    Specialty = "Mental Health"
	SpecialtyUrology         Specialty = "Urology"
	SpecialtyOncology        Specialty = "Oncology"
	SpecialtyEndocrinology   Specialty = "Endocrinology"
	SpecialtyDermatology     Specialty = "Dermatology"
	SpecialtyOrthopedics     Specialty = "Orthopedics"
	SpecialtyOther           Specialty = "Other"
)

// Specialties lists every selectable specialty in display order.
var Specialties = []Specialty{
	SpecialtyUnspecified,
	SpecialtyPrimaryCare,
	SpecialtyCardiology,
	SpecialtyDental,
	SpecialtyPhysicalTherapy,
	SpecialtyMentalHealth,
	SpecialtyUrology,
	SpecialtyOncology,
	SpecialtyEndocrinology,
	SpecialtyDermatology,
	SpecialtyOrthopedics,
	SpecialtyOther,
}

// Valid reports whether the specialty is one of the fixed options.
func (s Specialty) Valid() bool {
	for _, option := range Specialties {
		if s == option {
			return true
		}
	}
	return false
}

// AppointmentDetails holds the user-entered appointment form fields.
type AppointmentDetails struct {
	AppointmentDate time.Time `json:"appointmentDate"`
	ProviderName    string    `json:"providerName"`
	Specialty       Specialty `json:"specialty"`
	RecipientEmail  string    `json:"recipientEmail"`
}

// Status summarizes the current session for the UI.
type Status struct {
	State   SessionState `json:"state"`
	Elapsed int          `json:"elapsed"`
	Active  bool         `json:"active"`
	Message string       `json:"message,omitempty"`
}
