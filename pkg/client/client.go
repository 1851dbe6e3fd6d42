// Package client provides a Go client library for the Citelink citation
// extraction API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/citelink/citelink/internal/annotate"
	"github.com/citelink/citelink/pkg/models"
)

// Client represents a Citelink API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	userAgent  string
}

// Config holds client configuration.
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	UserAgent string
}

// NewClient creates a new Citelink API client with default settings.
func NewClient(baseURL, apiKey string) *Client {
	return NewClientWithConfig(Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 30 * time.Second,
	})
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "citelink-go-client/1.0.0"
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ExtractParams holds parameters for POST /v1/extract and /v1/extract/async.
type ExtractParams struct {
	Text       string
	CleanSteps []string
	Resolve    bool
	Scope      string
}

type extractRequestBody struct {
	Text       string   `json:"text"`
	CleanSteps []string `json:"cleanSteps,omitempty"`
	Resolve    bool     `json:"resolve,omitempty"`
	Scope      string   `json:"scope,omitempty"`
}

// ExtractResult is the decoded response of POST /v1/extract.
type ExtractResult struct {
	Citations   []models.Citation `json:"citations"`
	Diagnostics []string          `json:"diagnostics"`
}

// Extract runs synchronous citation extraction via POST /v1/extract.
func (c *Client) Extract(ctx context.Context, params ExtractParams) (*ExtractResult, error) {
	body, err := json.Marshal(extractRequestBody{
		Text: params.Text, CleanSteps: params.CleanSteps, Resolve: params.Resolve, Scope: params.Scope,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/extract", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result ExtractResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// AsyncJob is the decoded response of POST /v1/extract/async and
// GET /v1/jobs/:id.
type AsyncJob struct {
	JobID       string            `json:"jobId"`
	Status      string            `json:"status"`
	Citations   []models.Citation `json:"citations,omitempty"`
	Diagnostics []string          `json:"diagnostics,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// ExtractAsync submits an extraction job via POST /v1/extract/async
// and returns its id/initial status.
func (c *Client) ExtractAsync(ctx context.Context, params ExtractParams) (*AsyncJob, error) {
	body, err := json.Marshal(extractRequestBody{
		Text: params.Text, CleanSteps: params.CleanSteps, Resolve: params.Resolve, Scope: params.Scope,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/extract/async", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var job AsyncJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &job, nil
}

// GetJob polls GET /v1/jobs/:id for a previously submitted job's
// status and, once completed, its result.
func (c *Client) GetJob(ctx context.Context, jobID string) (*AsyncJob, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/jobs/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var job AsyncJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &job, nil
}

// AnnotateParams holds parameters for POST /v1/annotate.
type AnnotateParams struct {
	Text         string
	Citations    []models.Citation
	UseCleanText bool
	Before       string
	After        string
}

type annotateRequestBody struct {
	Text         string            `json:"text"`
	Citations    []models.Citation `json:"citations"`
	UseCleanText bool              `json:"useCleanText,omitempty"`
	Before       string            `json:"before,omitempty"`
	After        string            `json:"after,omitempty"`
}

// Annotate wraps citation spans in text via POST /v1/annotate.
func (c *Client) Annotate(ctx context.Context, params AnnotateParams) (*annotate.Result, error) {
	body, err := json.Marshal(annotateRequestBody{
		Text: params.Text, Citations: params.Citations, UseCleanText: params.UseCleanText,
		Before: params.Before, After: params.After,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/annotate", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result annotate.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// CreateDocumentParams holds parameters for POST /v1/documents.
type CreateDocumentParams struct {
	Text    string
	Extract bool
	Resolve bool
}

// Document mirrors internal/corpus.Document without importing the
// server-side package directly.
type Document struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateDocument persists a document via POST /v1/documents.
func (c *Client) CreateDocument(ctx context.Context, params CreateDocumentParams) (*Document, []models.Citation, error) {
	body, err := json.Marshal(map[string]interface{}{
		"text": params.Text, "extract": params.Extract, "resolve": params.Resolve,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/documents", body)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var result struct {
		Document  Document          `json:"document"`
		Citations []models.Citation `json:"citations,omitempty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, nil, fmt.Errorf("decode response: %w", err)
	}
	return &result.Document, result.Citations, nil
}

// GetDocument retrieves a document by id via GET /v1/documents/:id.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &doc, nil
}

// GraphNode mirrors internal/graph.Node without importing the
// server-side package directly.
type GraphNode struct {
	DocumentID        string  `json:"DocumentID"`
	InboundCitations  int     `json:"InboundCitations"`
	OutboundCitations int     `json:"OutboundCitations"`
	InfluenceScore    float64 `json:"InfluenceScore"`
}

// GraphAuthority retrieves the most-cited documents via
// GET /v1/graph/authority.
func (c *Client) GraphAuthority(ctx context.Context, limit int) ([]GraphNode, error) {
	endpoint := "/v1/graph/authority"
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result struct {
		Nodes []GraphNode `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result.Nodes, nil
}

// GraphChain retrieves the shortest citation chain between two
// documents via GET /v1/graph/chain.
func (c *Client) GraphChain(ctx context.Context, from, to string) ([]string, error) {
	endpoint := fmt.Sprintf("/v1/graph/chain?from=%s&to=%s", url.QueryEscape(from), url.QueryEscape(to))

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result struct {
		Path []string `json:"path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result.Path, nil
}

// HealthCheck checks whether the API is healthy via GET /health.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, c.handleErrorResponse(resp)
	}
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) handleErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if errResp.Message != "" {
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Message)
	}
	if errResp.Error != "" {
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}
