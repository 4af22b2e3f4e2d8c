package outbound

import "context"

type ProcessingStatus string

const (
	ProcessingStatusProcessing ProcessingStatus = "processing"
	ProcessingStatusCompleted  ProcessingStatus = "completed"
	ProcessingStatusFailed     ProcessingStatus = "failed"
)

// ProcessingLedgerPort records who is working on an input. Claim fails with
// domain.ErrAlreadyProcessing while another invocation holds an unexpired claim.
type ProcessingLedgerPort interface {
	Claim(ctx context.Context, location string, inputKey string) error
	Release(ctx context.Context, location string, inputKey string, status ProcessingStatus) error
}
