package domain

import "fmt"

// FailureKind classifies why a submission did not succeed.
type FailureKind string

const (
	FailureTimeout            FailureKind = "timeout"
	FailureNetworkUnavailable FailureKind = "network_unavailable"
	FailureServerError        FailureKind = "server_error"
	FailureUnknown            FailureKind = "unknown"
)

// SubmissionReceipt is returned once the remote service accepts a bundle.
type SubmissionReceipt struct {
	Message string `json:"message"`
}

// SubmissionError is a classified submission failure.
type SubmissionError struct {
	Kind   FailureKind
	Detail string
}

func (e *SubmissionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("submission failed: %s", e.Kind)
	}
	return fmt.Sprintf("submission failed: %s: %s", e.Kind, e.Detail)
}
