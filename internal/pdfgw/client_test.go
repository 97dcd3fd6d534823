package pdfgw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport_Success(t *testing.T) {
	var gotProjectID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/pdf/upload-pdf", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(MaxFileSize))
		gotProjectID = r.FormValue("project_id")
		f, hdr, err := r.FormFile("pdf")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "schedule.pdf", hdr.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"schedule_id":"sched-1","version":3,"items_count":12,"project_name":"Bridge"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	payload := strings.NewReader("%PDF-1.7 fake")
	result, err := c.Import(context.Background(), payload, payload.Size(), "application/pdf", "proj-1", nil)
	require.NoError(t, err)

	assert.Equal(t, "proj-1", gotProjectID)
	assert.Equal(t, "sched-1", result.ScheduleID)
	assert.Equal(t, 3, result.Version)
	assert.Equal(t, 12, result.ItemCount)
	assert.Equal(t, "Bridge", result.ProjectName)
}

func TestImport_LocalValidation(t *testing.T) {
	// Any network call is a test failure: validation happens first.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request to server")
	}))
	defer srv.Close()
	c := New(srv.URL, 5*time.Second)

	tests := []struct {
		name        string
		size        int64
		contentType string
		wantErr     error
	}{
		{"wrong content type", 100, "image/png", ErrInvalidFile},
		{"empty file", 0, "application/pdf", ErrInvalidFile},
		{"over size limit", MaxFileSize + 1, "application/pdf", ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Import(context.Background(), strings.NewReader("x"), tt.size, tt.contentType, "proj-1", nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestImport_StatusMapping(t *testing.T) {
	tests := []struct {
		status  int
		wantErr error
	}{
		{400, ErrInvalidFile},
		{404, ErrNotFound},
		{413, ErrTooLarge},
		{500, ErrServerFailure},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"detail":"boom"}`))
		}))
		c := New(srv.URL, 5*time.Second)
		_, err := c.Import(context.Background(), strings.NewReader("pdf"), 3, "application/pdf", "proj-1", nil)
		assert.ErrorIs(t, err, tt.wantErr, "status %d", tt.status)
		srv.Close()
	}
}

func TestImport_UnexpectedStatusKeepsDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"detail":"no tea"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Import(context.Background(), strings.NewReader("pdf"), 3, "application/pdf", "proj-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "418")
	assert.Contains(t, err.Error(), "no tea")
}

func TestImport_Unreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := c.Import(context.Background(), strings.NewReader("pdf"), 3, "application/pdf", "proj-1", nil)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestImport_ReportsProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"schedule_id":"s","version":1,"items_count":0,"project_name":"p"}`))
	}))
	defer srv.Close()

	var reports []int
	c := New(srv.URL, 5*time.Second)
	payload := strings.NewReader(strings.Repeat("x", 4096))
	_, err := c.Import(context.Background(), payload, payload.Size(), "application/pdf", "proj-1",
		func(pct int) { reports = append(reports, pct) })
	require.NoError(t, err)

	require.NotEmpty(t, reports)
	assert.Equal(t, 100, reports[len(reports)-1])
	for i := 1; i < len(reports); i++ {
		assert.Greater(t, reports[i], reports[i-1], "progress must be strictly increasing")
	}
}

func TestExport_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/pdf/export-pdf/sched-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.7 payload"))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	payload, err := c.Export(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 payload"), payload)
}

func TestExport_WrongContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Export(context.Background(), "sched-1")
	assert.ErrorIs(t, err, ErrServerFailure)
}

func TestExport_EmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Export(context.Background(), "sched-1")
	assert.ErrorIs(t, err, ErrServerFailure)
}

func TestExport_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"unknown schedule"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Export(context.Background(), "sched-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/pdf/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	assert.True(t, c.Health(context.Background()))

	down := New("http://127.0.0.1:1", 500*time.Millisecond)
	assert.False(t, down.Health(context.Background()))
}

func TestHealth_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	assert.False(t, c.Health(context.Background()))
}
