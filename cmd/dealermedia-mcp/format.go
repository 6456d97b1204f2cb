package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

func formatMedia(res *mediaResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", res.Meta.Title)
	if res.Meta.URL != "" {
		fmt.Fprintf(&sb, "Page: %s\n", res.Meta.URL)
	}
	if res.Meta.VIN != "" {
		fmt.Fprintf(&sb, "VIN: %s\n", res.Meta.VIN)
	}
	if res.Meta.Stock != "" {
		fmt.Fprintf(&sb, "Stock: %s\n", res.Meta.Stock)
	}
	fmt.Fprintf(&sb, "Found via: %s\n\n", res.Debug.Route)
	fmt.Fprintf(&sb, "Photos (%d):\n", len(res.Images))
	for _, img := range res.Images {
		sb.WriteString(img)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatError(status int, body []byte) string {
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		return fmt.Sprintf("API returned status %d", status)
	}
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Error)
	}
	return e.Error
}

func formatBatch(resp *batchStatusResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Batch %s: %s (%d/%d completed)\n\n", resp.ID, resp.Status, resp.Completed, resp.Total)
	for i, r := range resp.Results {
		switch {
		case r.Result != nil:
			fmt.Fprintf(&sb, "--- [%d] %s ---\n%s\n", i+1, r.Request.Stock, formatMedia(r.Result))
		case r.Error != nil:
			fmt.Fprintf(&sb, "--- [%d] %s FAILED: %s ---\n\n", i+1, r.Request.Stock, r.Error.Error)
		default:
			fmt.Fprintf(&sb, "--- [%d] %s pending ---\n\n", i+1, r.Request.Stock)
		}
	}
	return sb.String()
}
