package retrieval

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/amityadav/smartsearch/internal/brightdata"
	"github.com/cenkalti/backoff/v4"
)

const (
	statusReady = "ready"

	defaultPollInterval = 2 * time.Second
	defaultPollTimeout  = 2 * time.Minute
)

// errNotReady drives the poll loop: the job exists but has not
// produced a snapshot yet.
var errNotReady = errors.New("job not ready")

// DatasetAdapter retrieves evidence from an asynchronous research
// backend via Bright Data dataset jobs: trigger a job, poll its
// progress until ready, fetch the snapshot.
type DatasetAdapter struct {
	backend      Backend
	client       *brightdata.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// DatasetOption configures a DatasetAdapter.
type DatasetOption func(*DatasetAdapter)

// WithPollInterval sets the initial wait between progress checks.
func WithPollInterval(d time.Duration) DatasetOption {
	return func(a *DatasetAdapter) { a.pollInterval = d }
}

// WithPollTimeout bounds the total time spent waiting for a job.
func WithPollTimeout(d time.Duration) DatasetOption {
	return func(a *DatasetAdapter) { a.pollTimeout = d }
}

// NewDatasetAdapter creates an asynchronous job adapter for the given backend
func NewDatasetAdapter(client *brightdata.Client, backend Backend, opts ...DatasetOption) *DatasetAdapter {
	backend.Mode = ModeAsync
	a := &DatasetAdapter{
		backend:      backend,
		client:       client,
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *DatasetAdapter) Backend() Backend {
	return a.backend
}

type datasetTrigger struct {
	URL    string `json:"url"`
	Prompt string `json:"prompt"`
}

type triggerResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

type progressResponse struct {
	Status string `json:"status"`
}

type answerRecord struct {
	AnswerText string   `json:"answer_text_markdown"`
	Sources    []string `json:"sources"`
}

// Retrieve runs the full submit/poll/fetch cycle and always returns a
// usable string: the normalized answer, or a failure description.
func (a *DatasetAdapter) Retrieve(ctx context.Context, query string) string {
	record, err := a.run(ctx, query)
	if err != nil {
		log.Printf("[Dataset] %s: job failed: %v", a.backend.Name, err)
		var subErr *SubmissionError
		if errors.As(err, &subErr) {
			return "Error: " + subErr.Error()
		}
		return "Dataset Job Failed: " + err.Error()
	}
	return a.format(record)
}

func (a *DatasetAdapter) run(ctx context.Context, query string) (*answerRecord, error) {
	snapshotID, err := a.submit(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := a.waitReady(ctx, snapshotID); err != nil {
		return nil, err
	}
	return a.fetch(ctx, snapshotID)
}

func (a *DatasetAdapter) submit(ctx context.Context, query string) (string, error) {
	fields := "answer_text_markdown"
	if a.backend.Citations {
		fields += "|sources"
	}

	q := url.Values{
		"dataset_id":           {a.backend.DatasetID},
		"format":               {"json"},
		"custom_output_fields": {fields},
	}
	body := []datasetTrigger{{URL: a.backend.Target, Prompt: query}}

	log.Printf("[Dataset] %s: triggering job (dataset %s)", a.backend.Name, a.backend.DatasetID)

	var resp triggerResponse
	if err := a.client.PostJSON(ctx, "trigger job", "/datasets/v3/trigger", q, body, &resp); err != nil {
		return "", err
	}
	if resp.SnapshotID == "" {
		return "", &SubmissionError{Backend: a.backend.Name}
	}

	log.Printf("[Dataset] %s: job submitted, snapshot %s", a.backend.Name, resp.SnapshotID)
	return resp.SnapshotID, nil
}

// waitReady polls the progress endpoint until the job reports ready.
// Any status other than ready, including values we have never seen,
// means keep waiting; only the elapsed-time budget terminates the loop.
func (a *DatasetAdapter) waitReady(ctx context.Context, snapshotID string) error {
	waitCtx, cancel := context.WithTimeout(ctx, a.pollTimeout)
	defer cancel()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = a.pollInterval
	bo.RandomizationFactor = 0
	bo.Multiplier = 1.5
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = a.pollTimeout

	start := time.Now()
	poll := func() error {
		var prog progressResponse
		if err := a.client.GetJSON(waitCtx, "poll job", "/datasets/v3/progress/"+snapshotID, &prog); err != nil {
			return backoff.Permanent(err)
		}
		if prog.Status != statusReady {
			log.Printf("[Dataset] %s: snapshot %s status %q, waiting...", a.backend.Name, snapshotID, prog.Status)
			return errNotReady
		}
		return nil
	}

	err := backoff.Retry(poll, backoff.WithContext(bo, waitCtx))
	if err == nil {
		return nil
	}
	if errors.Is(err, errNotReady) || errors.Is(err, context.DeadlineExceeded) {
		return &PollTimeoutError{
			Backend:    a.backend.Name,
			SnapshotID: snapshotID,
			Waited:     time.Since(start),
		}
	}
	return err
}

func (a *DatasetAdapter) fetch(ctx context.Context, snapshotID string) (*answerRecord, error) {
	var records []answerRecord
	if err := a.client.GetJSON(ctx, "fetch job", "/datasets/v3/snapshot/"+snapshotID+"?format=json", &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &MalformedResultError{Backend: a.backend.Name, Detail: "snapshot contains no records"}
	}
	return &records[0], nil
}

func (a *DatasetAdapter) format(record *answerRecord) string {
	answer := record.AnswerText
	if answer == "" {
		answer = "No answer generated."
	}
	if a.backend.Citations && len(record.Sources) > 0 {
		answer += "\n\n**Sources:** " + strings.Join(record.Sources, ", ")
	}
	return answer
}
