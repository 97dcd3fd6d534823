// Package pdfgw is the HTTP client for the external PDF import/export
// service. Importing a PDF produces a new schedule version with its items on
// the service side; exporting renders an existing schedule back to PDF.
package pdfgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// MaxFileSize is the upload limit enforced before any network call.
const MaxFileSize = 10 << 20 // 10 MiB

// ImportResult describes the schedule created from an uploaded PDF.
type ImportResult struct {
	ScheduleID  string `json:"schedule_id"`
	Version     int    `json:"version"`
	ItemCount   int    `json:"items_count"`
	ProjectName string `json:"project_name"`
}

// Client talks to the PDF service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Import uploads a PDF for projectID and returns the created schedule.
// contentType and size are validated locally before the upload starts.
// onProgress, when non-nil, receives 0-100 as request bytes are consumed by
// the transport; it is best-effort and may not reach 100 before completion.
func (c *Client) Import(ctx context.Context, file io.Reader, size int64, contentType, projectID string, onProgress func(int)) (*ImportResult, error) {
	if !strings.Contains(contentType, "application/pdf") {
		return nil, fmt.Errorf("pdfgw: %w: content type %q", ErrInvalidFile, contentType)
	}
	if size <= 0 {
		return nil, fmt.Errorf("pdfgw: %w: empty file", ErrInvalidFile)
	}
	if size > MaxFileSize {
		return nil, fmt.Errorf("pdfgw: %w: %d bytes (limit %d)", ErrTooLarge, size, MaxFileSize)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("pdf", "schedule.pdf")
	if err != nil {
		return nil, fmt.Errorf("pdfgw: build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("pdfgw: read file: %w", err)
	}
	if err := mw.WriteField("project_id", projectID); err != nil {
		return nil, fmt.Errorf("pdfgw: build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("pdfgw: build upload: %w", err)
	}

	var reqBody io.Reader = &body
	total := int64(body.Len())
	if onProgress != nil {
		reqBody = &progressReader{r: &body, total: total, report: onProgress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/pdf/upload-pdf", reqBody)
	if err != nil {
		return nil, fmt.Errorf("pdfgw: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = total

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pdfgw: %w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapStatus(resp.StatusCode, readDetail(resp.Body))
	}

	var result ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("pdfgw: decode response: %w", err)
	}
	return &result, nil
}

// Export renders scheduleID to PDF and returns the payload.
func (c *Client) Export(ctx context.Context, scheduleID string) ([]byte, error) {
	url := fmt.Sprintf("%s/api/v1/pdf/export-pdf/%s", c.baseURL, scheduleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("pdfgw: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pdfgw: %w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapStatus(resp.StatusCode, readDetail(resp.Body))
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/pdf") {
		return nil, fmt.Errorf("pdfgw: %w: unexpected content type %q", ErrServerFailure, ct)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pdfgw: read payload: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("pdfgw: %w: empty payload", ErrServerFailure)
	}
	return payload, nil
}

// Health reports whether the service answers its health endpoint.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/pdf/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// readDetail extracts the "detail" field of an error response, if any.
func readDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 1<<16)).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}

// progressReader reports cumulative read percentage to a callback.
type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	last   int
	report func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.sent += int64(n)
		pct := int(p.sent * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct != p.last {
			p.last = pct
			p.report(pct)
		}
	}
	return n, err
}
