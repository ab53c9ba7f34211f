package speechcortex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// JobStatus is the lifecycle status of a batch transcription job.
type JobStatus string

const (
	JobStatusPending     JobStatus = "pending"
	JobStatusDownloading JobStatus = "downloading"
	JobStatusUploading   JobStatus = "uploading"
	JobStatusQueued      JobStatus = "queued"
	JobStatusProcessing  JobStatus = "processing"
	JobStatusCompleted   JobStatus = "completed"
	JobStatusFailed      JobStatus = "failed"
)

// JobDetails describes a submitted transcription job.
type JobDetails struct {
	JobID        uuid.UUID  `json:"job_id"`
	Status       JobStatus  `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// TranscriptionResult is the result of a completed job. Transcription is
// the raw result document; its shape depends on the requested model.
type TranscriptionResult struct {
	JobID         uuid.UUID       `json:"job_id"`
	Status        JobStatus       `json:"status"`
	Transcription json.RawMessage `json:"transcription,omitempty"`
	Message       string          `json:"message,omitempty"`
}

// BatchClient submits audio for asynchronous transcription and polls for
// the result over HTTP.
type BatchClient struct {
	config  ClientOptions
	logger  *log.Logger
	baseURL string
	httpc   *http.Client
}

// NewBatchClient creates a batch transcription client. The REST base URL
// is derived from the configured WebSocket host.
func NewBatchClient(config ClientOptions) (*BatchClient, error) {
	config.applyDefaults()
	if config.APIKey == "" {
		return nil, ErrAPIKeyMissing
	}
	return &BatchClient{
		config:  config,
		logger:  config.Logger,
		baseURL: config.restBaseURL(),
		httpc: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}, nil
}

// SubmitURL submits a job for audio reachable through a presigned URL.
func (b *BatchClient) SubmitURL(ctx context.Context, presignedURL string, config *TranscriptionConfig) (*JobDetails, error) {
	body, err := json.Marshal(map[string]string{"presigned_url": presignedURL})
	if err != nil {
		return nil, NewErrorWithCause(ErrorStatusAPIError, "failed to encode request", err)
	}

	endpoint := b.baseURL + b.config.BatchPath + "/transcribe"
	data, _, err := b.do(ctx, http.MethodPost, endpoint, batchQuery(config), bytes.NewReader(body), "application/json", false)
	if err != nil {
		return nil, err
	}
	return decodeJobDetails(data)
}

// SubmitFile submits a job by uploading audio as a multipart form. The
// filename is used for the form part only.
func (b *BatchClient) SubmitFile(ctx context.Context, filename string, audio io.Reader, config *TranscriptionConfig) (*JobDetails, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("audio_file", filename)
	if err != nil {
		return nil, NewErrorWithCause(ErrorStatusAPIError, "failed to build upload form", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, NewErrorWithCause(ErrorStatusAPIError, "failed to read audio", err)
	}
	if err := form.Close(); err != nil {
		return nil, NewErrorWithCause(ErrorStatusAPIError, "failed to finalize upload form", err)
	}

	endpoint := b.baseURL + b.config.BatchPath + "/transcribe/upload"
	data, _, err := b.do(ctx, http.MethodPost, endpoint, batchQuery(config), &body, form.FormDataContentType(), false)
	if err != nil {
		return nil, err
	}
	return decodeJobDetails(data)
}

// GetStatus returns the current status of a job.
func (b *BatchClient) GetStatus(ctx context.Context, jobID uuid.UUID) (*JobDetails, error) {
	endpoint := fmt.Sprintf("%s%s/status/%s", b.baseURL, b.config.BatchPath, jobID)
	data, _, err := b.do(ctx, http.MethodGet, endpoint, nil, nil, "", false)
	if err != nil {
		return nil, err
	}
	return decodeJobDetails(data)
}

// GetTranscription fetches the result of a completed job. It fails with
// a not_ready error while the job is still running and a job_failed
// error when the job failed.
func (b *BatchClient) GetTranscription(ctx context.Context, jobID uuid.UUID) (*TranscriptionResult, error) {
	endpoint := fmt.Sprintf("%s%s/get_transcription/%s", b.baseURL, b.config.BatchPath, jobID)
	data, status, err := b.do(ctx, http.MethodGet, endpoint, nil, nil, "", true)
	if err != nil {
		return nil, err
	}

	var result TranscriptionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, NewErrorWithCause(ErrorStatusAPIError, "failed to decode transcription", err)
	}
	result.Status = JobStatus(strings.ToLower(string(result.Status)))

	if status == http.StatusAccepted {
		return nil, NewError(ErrorStatusNotReady,
			fmt.Sprintf("transcription not ready for job %s (status: %s)", jobID, result.Status))
	}
	if result.Status == JobStatusFailed {
		message := result.Message
		if message == "" {
			message = "transcription failed"
		}
		return nil, NewError(ErrorStatusJobFailed, fmt.Sprintf("job %s failed: %s", jobID, message))
	}
	return &result, nil
}

// WaitForCompletion polls the job until it completes, fails, or the wait
// times out, then fetches the transcription.
func (b *BatchClient) WaitForCompletion(ctx context.Context, jobID uuid.UUID, options *BatchOptions) (*TranscriptionResult, error) {
	opts := BatchOptions{}
	if options != nil {
		opts = *options
	}
	opts.applyDefaults()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	b.logger.Debug("waiting for job", "job_id", jobID, "poll_interval", opts.PollInterval)

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		details, err := b.GetStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}
		switch details.Status {
		case JobStatusCompleted:
			return b.GetTranscription(ctx, jobID)
		case JobStatusFailed:
			message := details.ErrorMessage
			if message == "" {
				message = "job failed"
			}
			return nil, NewError(ErrorStatusJobFailed, fmt.Sprintf("job %s failed: %s", jobID, message))
		}

		select {
		case <-ctx.Done():
			return nil, NewError(ErrorStatusTimeout,
				fmt.Sprintf("job %s did not complete in time", jobID))
		case <-ticker.C:
		}
	}
}

// Transcribe submits a presigned URL and waits for the result.
func (b *BatchClient) Transcribe(ctx context.Context, presignedURL string, config *TranscriptionConfig, options *BatchOptions) (*TranscriptionResult, error) {
	job, err := b.SubmitURL(ctx, presignedURL, config)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("job submitted", "job_id", job.JobID)
	return b.WaitForCompletion(ctx, job.JobID, options)
}

func (b *BatchClient) do(ctx context.Context, method, endpoint string, query url.Values, body io.Reader, contentType string, allow202 bool) ([]byte, int, error) {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, 0, NewErrorWithCause(ErrorStatusAPIError, "failed to build request", err)
	}
	req.Header.Set("X-API-Key", b.config.APIKey)
	req.Header.Set("User-Agent", userAgent())
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	b.logger.Debug("http request", "method", method, "url", endpoint)

	resp, err := b.httpc.Do(req)
	if err != nil {
		return nil, 0, NewErrorWithCause(ErrorStatusAPIError, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, NewErrorWithCause(ErrorStatusAPIError, "failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusAccepted && allow202:
		return data, resp.StatusCode, nil
	case resp.StatusCode >= 400:
		b.logger.Error("http error", "status", resp.StatusCode, "body", string(data))
		return nil, resp.StatusCode, mapHTTPError(strings.TrimSpace(string(data)), resp.StatusCode)
	}
	return data, resp.StatusCode, nil
}

func batchQuery(config *TranscriptionConfig) url.Values {
	cfg := TranscriptionConfig{}
	if config != nil {
		cfg = *config
	}
	cfg.applyDefaults()
	return cfg.queryParams()
}

func decodeJobDetails(data []byte) (*JobDetails, error) {
	var details JobDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, NewErrorWithCause(ErrorStatusAPIError, "failed to decode job details", err)
	}
	details.Status = JobStatus(strings.ToLower(string(details.Status)))
	return &details, nil
}
