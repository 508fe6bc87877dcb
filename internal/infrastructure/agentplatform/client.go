// Package agentplatform wraps the hosted agent platform API used by the
// console: agents, datastores, datasources, agent queries, and chat
// session exports.
package agentplatform

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/metrics"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/apperrors"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/httpclients"
)

// Client calls the agent platform with the org-level API key. Every
// method fails fast with a configuration error when the key is absent
// so a misconfigured deployment never issues anonymous upstream calls.
type Client struct {
	baseURL string
	apiKey  string
	rest    *resty.Client
	logger  zerolog.Logger
}

// Response carries the upstream status and raw body for pass-through.
type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// IsSuccess reports whether the upstream answered with a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NewClient constructs an agent platform client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) *Client {
	rest := httpclients.NewClient("agentplatform")
	rest.SetTimeout(timeout)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		rest:    rest,
		logger:  logger,
	}
}

func (c *Client) ensureConfigured(ctx context.Context) error {
	if c.apiKey == "" {
		return apperrors.New(
			ctx,
			apperrors.LayerClient,
			apperrors.ErrorTypeConfiguration,
			"agent platform API key is not configured",
			nil,
			"f8a2c4e6-1b3d-4f5a-9c7e-0d2f4b6a8c0e",
		)
	}
	return nil
}

// operationLabel keeps the upstream metric low-cardinality: the first
// path segment identifies the platform surface being called.
func operationLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		return trimmed[:i]
	}
	return trimmed
}

// do issues the request and returns the upstream response verbatim.
// Non-2xx statuses are returned, not mapped to errors, so handlers can
// pass the upstream body through.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	if err := c.ensureConfigured(ctx); err != nil {
		return nil, err
	}

	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetHeader("Content-Type", "application/json")
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, c.baseURL+path)
	if err != nil {
		metrics.RecordUpstream(operationLabel(path), "error", time.Since(start).Seconds())
		return nil, apperrors.New(
			ctx,
			apperrors.LayerClient,
			apperrors.ErrorTypeUpstream,
			fmt.Sprintf("agent platform request failed: %s %s", method, path),
			err,
			"2c4e6a8b-0d2f-4a6c-8e0b-3f5a7c9e1b3d",
		)
	}
	metrics.RecordUpstream(operationLabel(path), strconv.Itoa(resp.StatusCode()), time.Since(start).Seconds())

	return &Response{
		StatusCode:  resp.StatusCode(),
		Body:        resp.Bytes(),
		ContentType: resp.Header().Get("Content-Type"),
	}, nil
}

// forward relays a raw body with its original content type. Used for
// multipart uploads where re-encoding the body would corrupt it.
func (c *Client) forward(ctx context.Context, method, path, contentType string, body []byte) (*Response, error) {
	if err := c.ensureConfigured(ctx); err != nil {
		return nil, err
	}

	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetHeader("Content-Type", contentType).
		SetBody(body)

	start := time.Now()
	resp, err := req.Execute(method, c.baseURL+path)
	if err != nil {
		metrics.RecordUpstream(operationLabel(path), "error", time.Since(start).Seconds())
		return nil, apperrors.New(
			ctx,
			apperrors.LayerClient,
			apperrors.ErrorTypeUpstream,
			fmt.Sprintf("agent platform request failed: %s %s", method, path),
			err,
			"6a8c0e2f-4b6d-4c8e-9a0c-5d7f9b1d3f5a",
		)
	}
	metrics.RecordUpstream(operationLabel(path), strconv.Itoa(resp.StatusCode()), time.Since(start).Seconds())

	return &Response{
		StatusCode:  resp.StatusCode(),
		Body:        resp.Bytes(),
		ContentType: resp.Header().Get("Content-Type"),
	}, nil
}

// ListAgents returns the org's agents.
func (c *Client) ListAgents(ctx context.Context) (*Response, error) {
	return c.do(ctx, "GET", "/agents", nil, nil)
}

// GetAgent returns a single agent by platform id.
func (c *Client) GetAgent(ctx context.Context, agentID string) (*Response, error) {
	return c.do(ctx, "GET", "/agents/"+url.PathEscape(agentID), nil, nil)
}

// UpdateAgent posts an updated agent definition to the platform.
func (c *Client) UpdateAgent(ctx context.Context, agentID string, payload any) (*Response, error) {
	return c.do(ctx, "POST", "/agents/"+url.PathEscape(agentID), nil, payload)
}

// ListDatastores returns the org's datastores.
func (c *Client) ListDatastores(ctx context.Context) (*Response, error) {
	return c.do(ctx, "GET", "/datastores", nil, nil)
}

// CreateDatastore creates a datastore from the given payload.
func (c *Client) CreateDatastore(ctx context.Context, payload any) (*Response, error) {
	return c.do(ctx, "POST", "/datastores", nil, payload)
}

// DeleteDatastore removes a datastore.
func (c *Client) DeleteDatastore(ctx context.Context, datastoreID string) (*Response, error) {
	return c.do(ctx, "DELETE", "/datastores/"+url.PathEscape(datastoreID), nil, nil)
}

// QueryDatastore runs a retrieval query against a datastore.
func (c *Client) QueryDatastore(ctx context.Context, datastoreID string, payload any) (*Response, error) {
	return c.do(ctx, "POST", "/datastores/"+url.PathEscape(datastoreID)+"/query", nil, payload)
}

// ListDatasources returns the datasources of a datastore.
func (c *Client) ListDatasources(ctx context.Context, datastoreID string) (*Response, error) {
	query := url.Values{"datastore_id": []string{datastoreID}}
	return c.do(ctx, "GET", "/datasources", query, nil)
}

// CreateDatasource attaches a datasource to a datastore.
func (c *Client) CreateDatasource(ctx context.Context, payload any) (*Response, error) {
	return c.do(ctx, "POST", "/datasources", nil, payload)
}

// UploadDatasource attaches a file-backed datasource via a multipart
// body forwarded verbatim.
func (c *Client) UploadDatasource(ctx context.Context, contentType string, body []byte) (*Response, error) {
	return c.forward(ctx, "POST", "/datasources", contentType, body)
}

// GetDatasource returns a single datasource.
func (c *Client) GetDatasource(ctx context.Context, datasourceID string) (*Response, error) {
	return c.do(ctx, "GET", "/datasources/"+url.PathEscape(datasourceID), nil, nil)
}

// DeleteDatasource removes a datasource.
func (c *Client) DeleteDatasource(ctx context.Context, datasourceID string) (*Response, error) {
	return c.do(ctx, "DELETE", "/datasources/"+url.PathEscape(datasourceID), nil, nil)
}

// QueryAgent forwards a user query to a deployed agent.
func (c *Client) QueryAgent(ctx context.Context, agentID string, payload any) (*Response, error) {
	return c.do(ctx, "POST", "/agents/"+url.PathEscape(agentID)+"/query", nil, payload)
}

// CreateChatSession opens a platform-side chat session for an agent.
func (c *Client) CreateChatSession(ctx context.Context, agentID string) (*Response, error) {
	return c.do(ctx, "POST", "/chat/sessions", nil, map[string]string{"agent_id": agentID})
}

// ListChatSessions returns the platform-side chat sessions of an agent.
func (c *Client) ListChatSessions(ctx context.Context, agentID string) (*Response, error) {
	return c.do(ctx, "GET", "/deployments/"+url.PathEscape(agentID)+"/chat-sessions", nil, nil)
}

// GetChatSession returns one platform-side chat session transcript.
func (c *Client) GetChatSession(ctx context.Context, agentID, sessionID string) (*Response, error) {
	return c.do(ctx, "GET", "/deployments/"+url.PathEscape(agentID)+"/chat-sessions/"+url.PathEscape(sessionID), nil, nil)
}
