// Package rag is the thin client for the retrieval backend that answers
// building-regulation questions. The backend owns retrieval, ranking and
// answer generation; this package only ships questions out and maps answers
// and failures back into application types.
package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/go-reg-assist/internal/config"
	"github.com/MKhiriev/go-reg-assist/models"
	"github.com/go-resty/resty/v2"
)

var (
	// ErrBackendUnavailable is returned when the retrieval backend cannot be
	// reached, times out, or answers with an unexpected status. Nothing is
	// persisted on this error; the caller reports a 503.
	ErrBackendUnavailable = errors.New("retrieval backend unavailable")

	// ErrReferenceNotFound is returned when a document reference lookup
	// targets a document the backend does not know.
	ErrReferenceNotFound = errors.New("document reference not found")
)

// QueryRequest is a regulation question forwarded to the retrieval backend.
type QueryRequest struct {
	// Question is the user's regulation question.
	Question string `json:"question"`

	// CodeType selects the jurisdiction corpus to query.
	CodeType models.Region `json:"code_type"`

	// History carries prior conversation turns so the backend can resolve
	// follow-up questions. Optional.
	History []models.Message `json:"history,omitempty"`
}

// QueryAnswer is the retrieval backend's answer to a regulation question.
type QueryAnswer struct {
	// Answer is the generated answer text.
	Answer string `json:"answer"`

	// Confidence is the backend's confidence score in [0, 1].
	Confidence float64 `json:"confidence"`

	// ProcessingTimeMS is the backend-reported processing time.
	ProcessingTimeMS int `json:"processing_time_ms"`

	// References are the regulation documents the answer cites.
	References []models.DocumentReference `json:"references"`
}

// ReferenceRequest identifies a single regulation document to resolve.
type ReferenceRequest struct {
	// DocumentID identifies the document on the retrieval backend.
	DocumentID string `json:"document_id"`

	// CodeType selects the jurisdiction corpus. Optional.
	CodeType models.Region `json:"code_type,omitempty"`

	// Page is the 1-based page of interest. Optional.
	Page int `json:"page,omitempty"`
}

// Client talks to the retrieval backend.
type Client interface {
	// Query forwards a regulation question and returns the generated answer.
	Query(ctx context.Context, req QueryRequest) (*QueryAnswer, error)

	// LookupReference resolves a document reference to its display metadata.
	LookupReference(ctx context.Context, req ReferenceRequest) (*models.DocumentReference, error)
}

// httpClient is the resty-backed [Client] implementation. Queries and
// lookups carry separate timeouts: answer generation is slow, metadata
// lookups are not.
type httpClient struct {
	client        *resty.Client
	queryTimeout  time.Duration
	lookupTimeout time.Duration
}

// NewClient constructs a [Client] for the configured retrieval backend.
func NewClient(cfg config.RAG) Client {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))

	return &httpClient{
		client:        cli,
		queryTimeout:  cfg.QueryTimeout,
		lookupTimeout: cfg.LookupTimeout,
	}
}

// Query implements [Client]. Transport failures and non-2xx statuses map to
// [ErrBackendUnavailable]; the request is never retried.
func (h *httpClient) Query(ctx context.Context, req QueryRequest) (*QueryAnswer, error) {
	ctx, cancel := context.WithTimeout(ctx, h.queryTimeout)
	defer cancel()

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/query")
	if err != nil {
		return nil, fmt.Errorf("%w: query request: %w", ErrBackendUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var answer QueryAnswer
	if err = json.Unmarshal(resp.Body(), &answer); err != nil {
		return nil, fmt.Errorf("%w: decode query response: %w", ErrBackendUnavailable, err)
	}

	return &answer, nil
}

// LookupReference implements [Client]. A 404 from the backend maps to
// [ErrReferenceNotFound]; every other failure to [ErrBackendUnavailable].
func (h *httpClient) LookupReference(ctx context.Context, req ReferenceRequest) (*models.DocumentReference, error) {
	ctx, cancel := context.WithTimeout(ctx, h.lookupTimeout)
	defer cancel()

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/lookup-reference")
	if err != nil {
		return nil, fmt.Errorf("%w: lookup request: %w", ErrBackendUnavailable, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrReferenceNotFound
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var reference models.DocumentReference
	if err = json.Unmarshal(resp.Body(), &reference); err != nil {
		return nil, fmt.Errorf("%w: decode lookup response: %w", ErrBackendUnavailable, err)
	}

	return &reference, nil
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%w: http %d: %s", ErrBackendUnavailable, resp.StatusCode(), body)
}
