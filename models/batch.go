package models

import "sync"

// BatchRequest is the payload for POST /api/v1/batch/vehicle-media.
type BatchRequest struct {
	// Items are the vehicles to resolve. Required.
	Items []LocatorRequest `json:"items" binding:"required,min=1"`

	// WebhookURL receives a batch.completed event when the job finishes.
	WebhookURL string `json:"webhookUrl,omitempty" binding:"omitempty,url"`

	// WebhookSecret signs the webhook body with HMAC-SHA256.
	WebhookSecret string `json:"webhookSecret,omitempty"`
}

// BatchResponse is the immediate response for POST /api/v1/batch/vehicle-media.
type BatchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// BatchItemResult is the outcome of one item in a batch.
type BatchItemResult struct {
	Request LocatorRequest `json:"request"`
	Result  *MediaResult   `json:"result,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

// BatchStatusResponse is the response for GET /api/v1/batch/:id.
type BatchStatusResponse struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"`
	Completed int                `json:"completed"`
	Total     int                `json:"total"`
	Results   []*BatchItemResult `json:"results,omitempty"`
}

// BatchJob tracks an in-progress batch resolution. It is safe for
// concurrent use through its methods.
type BatchJob struct {
	ID        string
	Total     int
	CreatedAt int64 // unix timestamp

	mu        sync.Mutex
	status    string // "processing", "completed", "failed", "partial"
	completed int
	failed    int
	results   []*BatchItemResult
}

// NewBatchJob creates a job in the "processing" state.
func NewBatchJob(id string, total int, createdAt int64) *BatchJob {
	return &BatchJob{
		ID:        id,
		Total:     total,
		CreatedAt: createdAt,
		status:    "processing",
		results:   make([]*BatchItemResult, total),
	}
}

// Record stores the result for item idx.
func (j *BatchJob) Record(idx int, res *BatchItemResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results[idx] = res
	if res.Error != nil {
		j.failed++
	} else {
		j.completed++
	}
}

// Finish moves the job to its terminal status and returns it.
func (j *BatchJob) Finish() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch {
	case j.failed == j.Total:
		j.status = "failed"
	case j.failed > 0:
		j.status = "partial"
	default:
		j.status = "completed"
	}
	return j.status
}

// Snapshot returns the job state as an API response.
func (j *BatchJob) Snapshot() BatchStatusResponse {
	j.mu.Lock()
	defer j.mu.Unlock()
	results := make([]*BatchItemResult, len(j.results))
	copy(results, j.results)
	return BatchStatusResponse{
		ID:        j.ID,
		Status:    j.status,
		Completed: j.completed + j.failed,
		Total:     j.Total,
		Results:   results,
	}
}
