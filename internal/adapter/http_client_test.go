// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-draft-sync/internal/config"
	"github.com/MKhiriev/go-draft-sync/internal/logger"
	"github.com/MKhiriev/go-draft-sync/models"
)

// fakeDocumentServer is an in-process stand-in for the remote document
// service with the same optimistic-lock semantics: a save with an
// ExpectedVersion outside the tolerance window is rejected with 409.
type fakeDocumentServer struct {
	content   string
	updatedAt time.Time
	saves     atomic.Int64

	failWith int // when non-zero, every save responds with this status
}

const versionTolerance = time.Second

func (s *fakeDocumentServer) router() http.Handler {
	r := chi.NewRouter()
	r.Head("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Put("/documents/{documentID}", s.handleSave)
	r.Post("/documents/{documentID}/snapshots", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	return r
}

func (s *fakeDocumentServer) handleSave(w http.ResponseWriter, r *http.Request) {
	s.saves.Add(1)

	if s.failWith != 0 {
		w.WriteHeader(s.failWith)
		return
	}

	var req models.SaveDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if req.ExpectedVersion != nil {
		skew := s.updatedAt.Sub(*req.ExpectedVersion)
		if skew < 0 {
			skew = -skew
		}
		if skew > versionTolerance {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(models.ConflictResponse{
				ServerContent:   s.content,
				ServerUpdatedAt: s.updatedAt,
			})
			return
		}
	}

	s.content = req.Content
	s.updatedAt = time.Now().UTC()
	_ = json.NewEncoder(w).Encode(models.SaveDocumentResponse{UpdatedAt: s.updatedAt})
}

func newTestService(t *testing.T, srv *fakeDocumentServer) (DocumentService, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(srv.router())
	t.Cleanup(ts.Close)

	svc, err := NewHTTPDocumentService(config.ClientAdapter{
		BaseURL:        ts.URL,
		RequestTimeout: 2 * time.Second,
		FlushTimeout:   time.Second,
	}, logger.Nop())
	require.NoError(t, err)
	return svc, ts
}

// ── SaveDocument ─────────────────────────────────────────────────────────────

func TestSaveDocument_AcceptedReturnsNewVersion(t *testing.T) {
	srv := &fakeDocumentServer{content: "old", updatedAt: time.Now().UTC()}
	svc, _ := newTestService(t, srv)

	version := srv.updatedAt
	resp, err := svc.SaveDocument(context.Background(), "doc-1", models.SaveDocumentRequest{
		Content:         "new content",
		Title:           "Draft",
		ExpectedVersion: &version,
	})

	require.NoError(t, err)
	assert.False(t, resp.UpdatedAt.IsZero())
	assert.Equal(t, "new content", srv.content)
}

func TestSaveDocument_VersionMismatchReturnsConflict(t *testing.T) {
	srv := &fakeDocumentServer{
		content:   "second writer content",
		updatedAt: time.Now().UTC(),
	}
	svc, _ := newTestService(t, srv)

	stale := srv.updatedAt.Add(-time.Hour)
	_, err := svc.SaveDocument(context.Background(), "doc-1", models.SaveDocumentRequest{
		Content:         "my content",
		ExpectedVersion: &stale,
	})

	require.ErrorIs(t, err, ErrConflict)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "doc-1", conflict.DocumentID)
	assert.Equal(t, "second writer content", conflict.Response.ServerContent)
	assert.True(t, conflict.Response.ServerUpdatedAt.Equal(srv.updatedAt))
}

func TestSaveDocument_NoExpectedVersionOverwrites(t *testing.T) {
	// a divergent server version must not matter without a lock token
	srv := &fakeDocumentServer{content: "server", updatedAt: time.Now().Add(-time.Hour)}
	svc, _ := newTestService(t, srv)

	_, err := svc.SaveDocument(context.Background(), "doc-1", models.SaveDocumentRequest{
		Content: "forced",
	})

	require.NoError(t, err)
	assert.Equal(t, "forced", srv.content)
}

func TestSaveDocument_ServerErrorIsTransient(t *testing.T) {
	srv := &fakeDocumentServer{failWith: http.StatusInternalServerError}
	svc, _ := newTestService(t, srv)

	_, err := svc.SaveDocument(context.Background(), "doc-1", models.SaveDocumentRequest{Content: "x"})

	require.ErrorIs(t, err, ErrTransient)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestSaveDocument_ConnectionRefusedIsTransient(t *testing.T) {
	svc, err := NewHTTPDocumentService(config.ClientAdapter{
		BaseURL:        "http://127.0.0.1:1", // nothing listens here
		RequestTimeout: 200 * time.Millisecond,
	}, logger.Nop())
	require.NoError(t, err)

	_, err = svc.SaveDocument(context.Background(), "doc-1", models.SaveDocumentRequest{Content: "x"})
	require.ErrorIs(t, err, ErrTransient)
}

// ── CreateSnapshot / Ping / Flush ────────────────────────────────────────────

func TestCreateSnapshot_Success(t *testing.T) {
	srv := &fakeDocumentServer{}
	svc, _ := newTestService(t, srv)

	err := svc.CreateSnapshot(context.Background(), "doc-1", models.CreateSnapshotRequest{
		Content: "content",
		Reason:  "before-restore",
	})
	require.NoError(t, err)
}

func TestPing_OnlineAndOffline(t *testing.T) {
	srv := &fakeDocumentServer{}
	svc, ts := newTestService(t, srv)

	require.NoError(t, svc.Ping(context.Background()))

	ts.Close()
	require.Error(t, svc.Ping(context.Background()))
}

func TestFlush_DeliversSaveWithoutError(t *testing.T) {
	srv := &fakeDocumentServer{}
	svc, _ := newTestService(t, srv)

	svc.Flush("doc-1", models.SaveDocumentRequest{Content: "final"})

	assert.Equal(t, int64(1), srv.saves.Load())
	assert.Equal(t, "final", srv.content)
}

func TestFlush_SwallowsFailure(t *testing.T) {
	srv := &fakeDocumentServer{failWith: http.StatusServiceUnavailable}
	svc, _ := newTestService(t, srv)

	// must not panic or block past the flush timeout
	svc.Flush("doc-1", models.SaveDocumentRequest{Content: "final"})
	assert.Equal(t, int64(1), srv.saves.Load())
}

// ── NewHTTPDocumentService ───────────────────────────────────────────────────

func TestNewHTTPDocumentService_InvalidBaseURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "spaces only", url: "   "},
		{name: "scheme only", url: "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHTTPDocumentService(config.ClientAdapter{BaseURL: tt.url}, logger.Nop())
			require.Error(t, err)
		})
	}
}

func TestNewHTTPDocumentService_SchemeDefaulted(t *testing.T) {
	svc, err := NewHTTPDocumentService(config.ClientAdapter{BaseURL: "localhost:8080"}, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, svc)
}
