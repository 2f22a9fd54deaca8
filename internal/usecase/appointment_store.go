package usecase

import (
	"fmt"
	"sync"
	"time"

	"patientscribe/internal/domain"
)

// AppointmentStore is the single-slot holder for the user-entered
// appointment fields, mutated field-by-field by the details form.
type AppointmentStore struct {
	mu      sync.Mutex
	details domain.AppointmentDetails
}

func NewAppointmentStore() *AppointmentStore {
	store := &AppointmentStore{}
	store.Reset()
	return store
}

func (s *AppointmentStore) SetAppointmentDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details.AppointmentDate = date
}

func (s *AppointmentStore) SetProviderName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details.ProviderName = name
}

func (s *AppointmentStore) SetSpecialty(specialty domain.Specialty) error {
	if !specialty.Valid() {
		return fmt.Errorf("unknown specialty %q", specialty)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details.Specialty = specialty
	return nil
}

func (s *AppointmentStore) SetRecipientEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details.RecipientEmail = email
}

// Snapshot returns a copy of the current form state.
func (s *AppointmentStore) Snapshot() domain.AppointmentDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.details
}

// Reset restores defaults: today's date, everything else empty.
func (s *AppointmentStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details = domain.AppointmentDetails{
		AppointmentDate: time.Now(),
		Specialty:       domain.SpecialtyUnspecified,
	}
}
