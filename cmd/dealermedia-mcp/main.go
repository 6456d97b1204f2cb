package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// mediaResult mirrors the vehicle-media API success body.
type mediaResult struct {
	Meta struct {
		URL      string `json:"url"`
		Title    string `json:"title"`
		VIN      string `json:"vin"`
		VinLast8 string `json:"vinLast8"`
		Stock    string `json:"stock"`
	} `json:"meta"`
	Images []string `json:"images"`
	Debug  struct {
		Route string `json:"route"`
	} `json:"debug"`
}

// errorBody mirrors the vehicle-media API error body.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// batchResponse mirrors the batch API creation response.
type batchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// batchStatusResponse mirrors the batch status API response.
type batchStatusResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Results   []struct {
		Request struct {
			Stock string `json:"stock"`
		} `json:"request"`
		Result *mediaResult `json:"result"`
		Error  *errorBody   `json:"error"`
	} `json:"results"`
}

func main() {
	apiURL := os.Getenv("DEALERMEDIA_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("DEALERMEDIA_API_KEY")

	s := server.NewMCPServer(
		"dealermedia",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	fetchTool := mcp.NewTool("fetch_vehicle_media",
		mcp.WithDescription("Find the photos of a dealer vehicle. Provide at least one of vinLast8, stock or url. Returns the vehicle title, page URL and photo URLs."),
		mcp.WithString("vinLast8",
			mcp.Description("Last 8 characters of the VIN (case-insensitive)"),
		),
		mcp.WithString("stock",
			mcp.Description("Dealer stock number"),
		),
		mcp.WithString("url",
			mcp.Description("Vehicle detail page URL, if known"),
		),
	)
	s.AddTool(fetchTool, handleFetchVehicleMedia(apiURL, apiKey))

	batchTool := mcp.NewTool("batch_vehicle_media",
		mcp.WithDescription("Find the photos of several dealer vehicles by stock number."),
		mcp.WithArray("stocks",
			mcp.Required(),
			mcp.Description("Dealer stock numbers"),
		),
	)
	s.AddTool(batchTool, handleBatchVehicleMedia(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiDo sends a request to the dealermedia API and returns the status and body.
func apiDo(ctx context.Context, client *http.Client, method, apiURL, apiKey, path string, payload any) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

// pollJobCompletion polls a job endpoint until status is no longer "processing" or context is cancelled.
func pollJobCompletion(ctx context.Context, client *http.Client, apiURL, apiKey, endpoint string) ([]byte, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			_, body, err := apiDo(ctx, client, http.MethodGet, apiURL, apiKey, endpoint, nil)
			if err != nil {
				return nil, fmt.Errorf("poll request failed: %w", err)
			}

			var status struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(body, &status); err != nil {
				return nil, fmt.Errorf("parse poll status: %w", err)
			}
			if status.Status != "processing" {
				return body, nil
			}
		}
	}
}

func handleFetchVehicleMedia(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		payload := map[string]string{
			"vinLast8": strings.TrimSpace(request.GetString("vinLast8", "")),
			"stock":    strings.TrimSpace(request.GetString("stock", "")),
			"url":      strings.TrimSpace(request.GetString("url", "")),
		}
		if payload["vinLast8"] == "" && payload["stock"] == "" && payload["url"] == "" {
			return mcp.NewToolResultError("Provide vinLast8, stock, or url"), nil
		}

		status, body, err := apiDo(ctx, client, http.MethodPost, apiURL, apiKey, "/api/v1/vehicle-media", payload)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if status != http.StatusOK {
			return mcp.NewToolResultError(formatError(status, body)), nil
		}

		var res mediaResult
		if err := json.Unmarshal(body, &res); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		return mcp.NewToolResultText(formatMedia(&res)), nil
	}
}

func handleBatchVehicleMedia(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stocks, err := request.RequireStringSlice("stocks")
		if err != nil || len(stocks) == 0 {
			return mcp.NewToolResultError("stocks is required and must be an array of strings"), nil
		}

		items := make([]map[string]string, len(stocks))
		for i, s := range stocks {
			items[i] = map[string]string{"stock": s}
		}

		_, respBody, err := apiDo(ctx, client, http.MethodPost, apiURL, apiKey, "/api/v1/batch/vehicle-media", map[string]any{"items": items})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("batch request failed: %v", err)), nil
		}

		var batchResp batchResponse
		if err := json.Unmarshal(respBody, &batchResp); err != nil || batchResp.ID == "" {
			return mcp.NewToolResultError("batch job creation failed"), nil
		}

		resultBody, err := pollJobCompletion(ctx, client, apiURL, apiKey, "/api/v1/batch/"+batchResp.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("polling batch job failed: %v", err)), nil
		}

		var statusResp batchStatusResponse
		if err := json.Unmarshal(resultBody, &statusResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse batch status: %v", err)), nil
		}
		return mcp.NewToolResultText(formatBatch(&statusResp)), nil
	}
}
