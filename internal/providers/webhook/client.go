package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"patientscribe/internal/domain"
	"patientscribe/internal/ports"
)

// AcceptedMessage is the confirmation shown after the webhook accepts a
// bundle; the response body itself is not machine-parsed.
const AcceptedMessage = "Recording submitted successfully. You will receive an email with your summary."

const maxErrorBody = 8 << 10

// Config controls webhook submission settings.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Client submits one artifact + metadata bundle per call as multipart
// form data. It is stateless; callers own store mutation on success.
type Client struct {
	cfg    Config
	http   *http.Client
	source ports.ArtifactSource
}

func NewClient(cfg Config, source ports.ArtifactSource) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{}, source: source}
}

// Submit posts the bundle to the webhook and classifies the outcome. The
// transfer is aborted, not just abandoned, once the deadline passes.
func (c *Client) Submit(ctx context.Context, artifact domain.RecordingArtifact, details domain.AppointmentDetails) (domain.SubmissionReceipt, error) {
	body, contentType, err := c.buildBody(ctx, artifact, details)
	if err != nil {
		return domain.SubmissionReceipt{}, &domain.SubmissionError{Kind: domain.FailureUnknown, Detail: err.Error()}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.cfg.URL, body)
	if err != nil {
		return domain.SubmissionReceipt{}, &domain.SubmissionError{Kind: domain.FailureUnknown, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.SubmissionReceipt{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := fmt.Sprintf("%d - %s", resp.StatusCode, strings.TrimSpace(string(text)))
		if readErr != nil {
			detail = fmt.Sprintf("%s (reading error body failed: %v)", detail, readErr)
		}
		return domain.SubmissionReceipt{}, &domain.SubmissionError{
			Kind:   domain.FailureServerError,
			Detail: detail,
		}
	}

	return domain.SubmissionReceipt{Message: AcceptedMessage}, nil
}

func (c *Client) buildBody(ctx context.Context, artifact domain.RecordingArtifact, details domain.AppointmentDetails) (*bytes.Buffer, string, error) {
	format := strings.ToLower(artifact.Format)
	if format == "" {
		format = domain.DefaultFormat
	}

	content, err := c.source.Open(ctx, artifact.Location)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open artifact %q: %w", artifact.Location, err)
	}
	defer content.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="recording.%s"`, format))
	header.Set("Content-Type", domain.MIMEType(format))
	filePart, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(filePart, content); err != nil {
		return nil, "", fmt.Errorf("failed to read artifact bytes: %w", err)
	}

	fields := map[string]string{
		"appointmentDate": domain.FormatDateISO(details.AppointmentDate),
		"providerName":    details.ProviderName,
		"specialty":       string(details.Specialty),
		"recipientEmail":  details.RecipientEmail,
		"fileFormat":      format,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %q: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return &body, writer.FormDataContentType(), nil
}

func classifyTransportError(err error) *domain.SubmissionError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.SubmissionError{
			Kind:   domain.FailureTimeout,
			Detail: "Upload timed out. Please check your connection and try again.",
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &domain.SubmissionError{
			Kind:   domain.FailureNetworkUnavailable,
			Detail: "Unable to connect to server. Please check your internet connection.",
		}
	}

	return &domain.SubmissionError{Kind: domain.FailureUnknown, Detail: err.Error()}
}
