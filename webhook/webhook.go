package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/use-agent/dealermedia/models"
)

// EventBatchCompleted is sent when every item of a batch has resolved.
const EventBatchCompleted = "batch.completed"

// SignatureHeader carries the HMAC-SHA256 of the request body.
const SignatureHeader = "X-Dealermedia-Signature"

// Event is the payload sent to webhook endpoints.
type Event struct {
	Type      string          `json:"type"`
	JobID     string          `json:"job_id"`
	Timestamp int64           `json:"timestamp"`
	Data      *BatchCompleted `json:"data"`
}

// BatchCompleted summarises a finished batch job. Results keep the order
// of the submitted items.
type BatchCompleted struct {
	Status   string                    `json:"status"`
	Total    int                       `json:"total"`
	Resolved int                       `json:"resolved"`
	Failed   int                       `json:"failed"`
	Results  []*models.BatchItemResult `json:"results"`
}

// NewBatchCompleted builds the batch.completed event for a finished job.
func NewBatchCompleted(snap models.BatchStatusResponse, at time.Time) *Event {
	data := &BatchCompleted{
		Status:  snap.Status,
		Total:   snap.Total,
		Results: snap.Results,
	}
	for _, r := range snap.Results {
		switch {
		case r == nil:
		case r.Error != nil:
			data.Failed++
		default:
			data.Resolved++
		}
	}
	return &Event{
		Type:      EventBatchCompleted,
		JobID:     snap.ID,
		Timestamp: at.Unix(),
		Data:      data,
	}
}

// retryDelays are the waits before each delivery attempt.
var retryDelays = []time.Duration{0, 1 * time.Second, 5 * time.Second, 30 * time.Second}

// Sign returns the signature header value for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Deliver sends a webhook event synchronously.
// The request body is signed with HMAC-SHA256 if secret is non-empty.
// Header: X-Dealermedia-Signature: sha256=<hex>
func Deliver(ctx context.Context, url, secret string, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Dealermedia-Webhook/1.0")

	if secret != "" {
		req.Header.Set(SignatureHeader, Sign(secret, body))
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// DeliverAsync sends a webhook event asynchronously with up to 3 retries.
// Retry intervals: 1s, 5s, 30s.
func DeliverAsync(url, secret string, event *Event) {
	go func() {
		for attempt, delay := range retryDelays {
			if delay > 0 {
				time.Sleep(delay)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := Deliver(ctx, url, secret, event)
			cancel()
			if err == nil {
				slog.Info("webhook delivered",
					"url", url,
					"event", event.Type,
					"job_id", event.JobID,
					"attempt", attempt+1,
				)
				return
			}
			slog.Warn("webhook delivery failed",
				"url", url,
				"event", event.Type,
				"job_id", event.JobID,
				"attempt", attempt+1,
				"error", err,
			)
		}
		slog.Error("webhook delivery exhausted all retries",
			"url", url,
			"event", event.Type,
			"job_id", event.JobID,
		)
	}()
}
