package bootstrap

import (
	"context"

	"patientscribe/internal/audio"
	"patientscribe/internal/config"
	"patientscribe/internal/ports"
	"patientscribe/internal/providers/webhook"
	"patientscribe/internal/storage"
	"patientscribe/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller   *usecase.SessionController
	Importer     *usecase.Importer
	Submitter    *usecase.Submitter
	Results      *usecase.ResultStore
	Appointments *usecase.AppointmentStore
	Settings     ports.SettingsStore
	Config       config.Config
}

// Build wires all backend dependencies for the current runtime.
func Build(ctx context.Context, events ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	settings, err := storage.OpenSettings(cfg.Storage.DataDir)
	if err != nil {
		return Services{}, err
	}

	results := usecase.NewResultStore()
	appointments := usecase.NewAppointmentStore()

	// Pre-load the last-used recipient email so the form starts filled in.
	if email, err := settings.LastEmail(ctx); err == nil && email != "" {
		appointments.SetRecipientEmail(email)
	}

	controller := usecase.NewSessionController(
		audio.NewFFMPEGCapture(cfg.Audio.RecorderCommand),
		audio.NewPulseRouting(""),
		audio.NewPulsePermission(""),
		audio.SystemClock{},
		results,
		events,
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				BitRate:     cfg.Audio.BitRate,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
				OutputDir:   cfg.Storage.CacheDir,
			},
		},
	)

	client := webhook.NewClient(
		webhook.Config{URL: cfg.Webhook.URL, Timeout: cfg.Webhook.Timeout},
		webhook.NewFileSource(),
	)

	return Services{
		Controller:   controller,
		Importer:     usecase.NewImporter(results, cfg.Storage.CacheDir),
		Submitter:    usecase.NewSubmitter(client, settings, results, appointments, events),
		Results:      results,
		Appointments: appointments,
		Settings:     settings,
		Config:       cfg,
	}, nil
}

// Close releases resources held by the service graph.
func (s Services) Close(ctx context.Context) error {
	if s.Controller != nil {
		s.Controller.Close(ctx)
	}
	if s.Settings != nil {
		return s.Settings.Close()
	}
	return nil
}
