package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"patientscribe/internal/domain"
)

func testArtifact(t *testing.T, content string) domain.RecordingArtifact {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recording.m4a")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return domain.RecordingArtifact{Location: path, DurationSeconds: 5, Format: "m4a"}
}

func testDetails() domain.AppointmentDetails {
	return domain.AppointmentDetails{
		AppointmentDate: time.Date(2024, 6, 30, 10, 0, 0, 0, time.Local),
		ProviderName:    "Dr. Osei",
		Specialty:       domain.SpecialtyCardiology,
		RecipientEmail:  "a@b.co",
	}
}

func TestClientSubmitSendsAllFields(t *testing.T) {
	t.Parallel()

	var (
		gotFields   map[string]string
		gotFileName string
		gotFileType string
		gotFileBody string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart failed: %v", err)
			return
		}
		gotFields = map[string]string{}
		for name := range r.MultipartForm.Value {
			gotFields[name] = r.FormValue(name)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		gotFileName = header.Filename
		gotFileType = header.Header.Get("Content-Type")
		gotFileBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL}, NewFileSource())

	receipt, err := client.Submit(context.Background(), testArtifact(t, "audio-bytes"), testDetails())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if receipt.Message != AcceptedMessage {
		t.Fatalf("unexpected receipt message: %q", receipt.Message)
	}

	want := map[string]string{
		"appointmentDate": "2024-06-30",
		"providerName":    "Dr. Osei",
		"specialty":       "Cardiology",
		"recipientEmail":  "a@b.co",
		"fileFormat":      "m4a",
	}
	for name, value := range want {
		if gotFields[name] != value {
			t.Fatalf("field %q = %q, want %q", name, gotFields[name], value)
		}
	}
	if gotFileName != "recording.m4a" {
		t.Fatalf("unexpected file name: %q", gotFileName)
	}
	if gotFileType != "audio/m4a" {
		t.Fatalf("unexpected file content type: %q", gotFileType)
	}
	if gotFileBody != "audio-bytes" {
		t.Fatalf("unexpected file body: %q", gotFileBody)
	}
}

func TestClientSubmitServerErrorIncludesStatusAndBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("db error"))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL}, NewFileSource())

	_, err := client.Submit(context.Background(), testArtifact(t, "x"), testDetails())
	var submissionErr *domain.SubmissionError
	if !errors.As(err, &submissionErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if submissionErr.Kind != domain.FailureServerError {
		t.Fatalf("expected server_error, got %s", submissionErr.Kind)
	}
	if !strings.Contains(submissionErr.Detail, "500") || !strings.Contains(submissionErr.Detail, "db error") {
		t.Fatalf("detail missing status or body: %q", submissionErr.Detail)
	}
}

func TestClientSubmitServerErrorNotesBodyReadFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Errorf("hijacking unsupported")
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Errorf("hijack failed: %v", err)
			return
		}
		// Declares more body than it delivers, so the client's read of the
		// error body fails mid-way.
		_, _ = conn.Write([]byte("HTTP/1.1 500 Internal Server Error\r\nContent-Length: 64\r\n\r\npartial"))
		_ = conn.Close()
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL}, NewFileSource())

	_, err := client.Submit(context.Background(), testArtifact(t, "x"), testDetails())
	var submissionErr *domain.SubmissionError
	if !errors.As(err, &submissionErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if submissionErr.Kind != domain.FailureServerError {
		t.Fatalf("expected server_error, got %s", submissionErr.Kind)
	}
	if !strings.Contains(submissionErr.Detail, "500") || !strings.Contains(submissionErr.Detail, "partial") {
		t.Fatalf("detail missing status or partial body: %q", submissionErr.Detail)
	}
	if !strings.Contains(submissionErr.Detail, "reading error body failed") {
		t.Fatalf("detail missing read-failure note: %q", submissionErr.Detail)
	}
}

func TestClientSubmitTimeoutAbortsTransfer(t *testing.T) {
	t.Parallel()

	aborted := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			close(aborted)
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Timeout: 50 * time.Millisecond}, NewFileSource())

	_, err := client.Submit(context.Background(), testArtifact(t, "x"), testDetails())
	var submissionErr *domain.SubmissionError
	if !errors.As(err, &submissionErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if submissionErr.Kind != domain.FailureTimeout {
		t.Fatalf("expected timeout, got %s", submissionErr.Kind)
	}

	select {
	case <-aborted:
	case <-time.After(time.Second):
		t.Fatalf("expected in-flight transfer to be aborted")
	}
}

func TestClientSubmitNetworkUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close()

	client := NewClient(Config{URL: server.URL}, NewFileSource())

	_, err := client.Submit(context.Background(), testArtifact(t, "x"), testDetails())
	var submissionErr *domain.SubmissionError
	if !errors.As(err, &submissionErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if submissionErr.Kind != domain.FailureNetworkUnavailable {
		t.Fatalf("expected network_unavailable, got %s", submissionErr.Kind)
	}
}

func TestClientSubmitUnreadableArtifact(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL}, NewFileSource())
	missing := domain.RecordingArtifact{Location: filepath.Join(t.TempDir(), "gone.m4a"), Format: "m4a"}

	_, err := client.Submit(context.Background(), missing, testDetails())
	var submissionErr *domain.SubmissionError
	if !errors.As(err, &submissionErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if submissionErr.Kind != domain.FailureUnknown {
		t.Fatalf("expected unknown, got %s", submissionErr.Kind)
	}
}

func TestFileSourceFetchesNetworkLocations(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("remote-bytes"))
	}))
	defer server.Close()

	source := NewFileSource()
	reader, err := source.Open(context.Background(), server.URL+"/clip.ogg")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(body) != "remote-bytes" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestFileSourceOpensLocalPaths(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "local.wav")
	if err := os.WriteFile(path, []byte("local-bytes"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	source := NewFileSource()
	reader, err := source.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer reader.Close()

	body, _ := io.ReadAll(reader)
	if string(body) != "local-bytes" {
		t.Fatalf("unexpected body: %q", body)
	}
}
