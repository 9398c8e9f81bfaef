package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-draft-sync/internal/config"
	"github.com/MKhiriev/go-draft-sync/internal/logger"
	"github.com/MKhiriev/go-draft-sync/models"
)

type httpDocumentService struct {
	client       *resty.Client
	flushTimeout time.Duration

	logger *logger.Logger
}

// NewHTTPDocumentService constructs an HTTP/REST implementation of
// [DocumentService]. It normalises and validates the base URL from
// cfg.BaseURL and configures the underlying resty client with the resolved
// base URL and request timeout.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid
// URL.
func NewHTTPDocumentService(cfg config.ClientAdapter, log *logger.Logger) (DocumentService, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote base url: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	flushTimeout := cfg.FlushTimeout
	if flushTimeout <= 0 {
		flushTimeout = 2 * time.Second
	}

	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &httpDocumentService{client: cli, flushTimeout: flushTimeout, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SaveDocument implements [DocumentService]. It PUTs the draft content to
// PUT /documents/{id} with the optimistic-lock token in the body. A 409 is
// decoded into a [*ConflictError]; any other failure is wrapped around
// [ErrTransient].
func (h *httpDocumentService) SaveDocument(ctx context.Context, documentID string, req models.SaveDocumentRequest) (models.SaveDocumentResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Put("/documents/" + url.PathEscape(documentID))
	if err != nil {
		return models.SaveDocumentResponse{}, fmt.Errorf("%w: save document request: %w", ErrTransient, err)
	}
	if err = h.mapSaveError(documentID, resp); err != nil {
		return models.SaveDocumentResponse{}, err
	}

	var saved models.SaveDocumentResponse
	if err = json.Unmarshal(resp.Body(), &saved); err != nil {
		return models.SaveDocumentResponse{}, fmt.Errorf("%w: decode save response: %w", ErrTransient, err)
	}

	return saved, nil
}

// CreateSnapshot implements [DocumentService]. It POSTs the snapshot
// payload to POST /documents/{id}/snapshots.
func (h *httpDocumentService) CreateSnapshot(ctx context.Context, documentID string, req models.CreateSnapshotRequest) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/documents/" + url.PathEscape(documentID) + "/snapshots")
	if err != nil {
		return fmt.Errorf("%w: create snapshot request: %w", ErrTransient, err)
	}

	return mapHTTPError(resp)
}

// Ping implements [DocumentService]. It HEADs the service root; the result
// is advisory only and network calls must still handle their own failures.
func (h *httpDocumentService) Ping(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Head("/")
	if err != nil {
		return fmt.Errorf("%w: ping request: %w", ErrTransient, err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("%w: ping http %d", ErrTransient, resp.StatusCode())
	}

	return nil
}

// Flush implements [DocumentService]. The save is issued with a detached
// short-lived context and the outcome is only logged: shutdown must not
// block on the network, and a lost flush leaves the draft pending for the
// next run.
func (h *httpDocumentService) Flush(documentID string, req models.SaveDocumentRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), h.flushTimeout)
	defer cancel()

	_, err := h.SaveDocument(ctx, documentID, req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("func", "httpDocumentService.Flush").
			Str("document_id", documentID).
			Msg("best-effort final flush failed")
		return
	}

	h.logger.Debug().
		Str("func", "httpDocumentService.Flush").
		Str("document_id", documentID).
		Msg("best-effort final flush delivered")
}

// mapSaveError maps a save response to the package sentinels. 409 decodes
// the server's conflict payload; everything else non-2xx is transient.
func (h *httpDocumentService) mapSaveError(documentID string, resp *resty.Response) error {
	if resp.StatusCode() == http.StatusConflict {
		var conflict models.ConflictResponse
		if err := json.Unmarshal(resp.Body(), &conflict); err != nil {
			h.logger.Err(err).
				Str("func", "httpDocumentService.mapSaveError").
				Str("document_id", documentID).
				Msg("failed to decode conflict response body")
			return fmt.Errorf("%w: decode conflict response: %w", ErrTransient, err)
		}
		return &ConflictError{DocumentID: documentID, Response: conflict}
	}

	return mapHTTPError(resp)
}
