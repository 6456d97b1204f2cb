package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/dealermedia/config"
	"github.com/use-agent/dealermedia/models"
	"github.com/use-agent/dealermedia/webhook"
	"golang.org/x/sync/errgroup"
)

// batchStore holds all in-flight and completed batch jobs.
var batchStore sync.Map

func init() {
	// Background goroutine to expire batch jobs older than 1 hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour).Unix()
			batchStore.Range(func(key, value any) bool {
				job := value.(*models.BatchJob)
				if job.CreatedAt < cutoff {
					batchStore.Delete(key)
				}
				return true
			})
		}
	}()
}

// PostBatch returns a handler for POST /api/v1/batch/vehicle-media.
// It validates the request, creates a batch job and resolves the items in
// the background, at most cfg.Concurrency at a time.
func PostBatch(rv MediaResolver, cfg config.BatchConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request: "+err.Error())
			return
		}

		if cfg.MaxItems > 0 && len(req.Items) > cfg.MaxItems {
			badRequest(c, fmt.Sprintf("maximum %d items per batch", cfg.MaxItems))
			return
		}

		jobID := "batch-" + randomID()
		job := models.NewBatchJob(jobID, len(req.Items), time.Now().Unix())
		batchStore.Store(jobID, job)

		go runBatch(rv, job, req, cfg.Concurrency)

		c.JSON(http.StatusOK, models.BatchResponse{
			ID:     jobID,
			Status: "processing",
			Total:  len(req.Items),
		})
	}
}

// GetBatch returns a handler for GET /api/v1/batch/:id.
func GetBatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := batchStore.Load(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "batch job not found",
				Code:  models.ErrCodeBatchNotFound,
			})
			return
		}
		c.JSON(http.StatusOK, val.(*models.BatchJob).Snapshot())
	}
}

// runBatch resolves every item of a job with bounded concurrency, then
// notifies the webhook if one was given.
func runBatch(rv MediaResolver, job *models.BatchJob, req models.BatchRequest, concurrency int) {
	if concurrency <= 0 {
		concurrency = 2
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, item := range req.Items {
		g.Go(func() error {
			job.Record(i, resolveOne(rv, item))
			return nil
		})
	}
	_ = g.Wait()

	status := job.Finish()
	snap := job.Snapshot()
	slog.Info("batch job finished",
		"id", job.ID,
		"status", status,
		"completed", snap.Completed,
		"total", job.Total,
	)

	if req.WebhookURL != "" {
		webhook.DeliverAsync(req.WebhookURL, req.WebhookSecret, webhook.NewBatchCompleted(snap, time.Now()))
	}
}

// resolveOne resolves a single batch item. Failures are recorded on the
// item instead of failing the batch.
func resolveOne(rv MediaResolver, item models.LocatorRequest) *models.BatchItemResult {
	item.Normalize()
	out := &models.BatchItemResult{Request: item}
	if item.Empty() {
		out.Error = &models.ErrorResponse{Error: models.MsgMissingLocator, Code: models.ErrCodeInvalidInput}
		return out
	}

	res, err := rv.Resolve(context.Background(), item)
	if err != nil {
		var re *models.ResolveError
		if !errors.As(err, &re) {
			re = models.NewResolveError(models.ErrCodeInternal, err.Error(), err)
		}
		out.Error = &models.ErrorResponse{Error: re.Message, Code: re.Code, Debug: re.Debug}
		return out
	}
	out.Result = res
	return out
}

// randomID generates a short random hex string for job IDs.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
