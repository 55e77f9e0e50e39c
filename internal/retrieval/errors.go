package retrieval

import (
	"fmt"
	"time"
)

// SubmissionError means the async backend accepted the trigger request
// but returned no job handle.
type SubmissionError struct {
	Backend string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("Failed to start the job. (backend %s returned no snapshot_id)", e.Backend)
}

// PollTimeoutError means the job did not reach the ready state within
// the polling budget.
type PollTimeoutError struct {
	Backend    string
	SnapshotID string
	Waited     time.Duration
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("job %s not ready after %s", e.SnapshotID, e.Waited.Round(time.Second))
}

// MalformedResultError means the fetched snapshot payload is missing
// the expected result records.
type MalformedResultError struct {
	Backend string
	Detail  string
}

func (e *MalformedResultError) Error() string {
	return fmt.Sprintf("malformed result from %s: %s", e.Backend, e.Detail)
}
