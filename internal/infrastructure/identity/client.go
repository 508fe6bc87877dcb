// Package identity wraps the managed identity provider's admin API.
// Account records live in the provider; the console only stores the
// profile row keyed by the provider subject.
package identity

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/apperrors"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/httpclients"
)

// Account is the provider-side identity record.
type Account struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"user_metadata,omitempty"`
}

// CreateAccountParams describes a new provider account.
type CreateAccountParams struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Confirm  bool           `json:"email_confirm"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

type providerError struct {
	Message string `json:"msg"`
	Error   string `json:"error"`
}

// Client calls the identity provider admin endpoints using the
// service-role key. The key grants full account management and must
// never be exposed to browsers.
type Client struct {
	baseURL    string
	serviceKey string
	rest       *resty.Client
	logger     zerolog.Logger
}

// NewClient constructs an identity admin client.
func NewClient(baseURL, serviceKey string, timeout time.Duration, logger zerolog.Logger) *Client {
	rest := httpclients.NewClient("identity")
	rest.SetTimeout(timeout)
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		rest:       rest,
		logger:     logger,
	}
}

func (c *Client) ensureConfigured(ctx context.Context) error {
	if c.serviceKey == "" {
		return apperrors.New(
			ctx,
			apperrors.LayerClient,
			apperrors.ErrorTypeConfiguration,
			"identity service key is not configured",
			nil,
			"4e6a8c0d-2f4b-4c8e-a0d2-5b7d9f1b3d5f",
		)
	}
	return nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.serviceKey).
		SetHeader("apikey", c.serviceKey).
		SetHeader("Content-Type", "application/json")
}

// CreateAccount provisions a provider account and returns its record.
func (c *Client) CreateAccount(ctx context.Context, params CreateAccountParams) (*Account, error) {
	if err := c.ensureConfigured(ctx); err != nil {
		return nil, err
	}

	var account Account
	var provErr providerError
	resp, err := c.request(ctx).
		SetBody(params).
		SetResult(&account).
		SetError(&provErr).
		Post(c.baseURL + "/auth/v1/admin/users")
	if err != nil {
		return nil, apperrors.New(
			ctx,
			apperrors.LayerClient,
			apperrors.ErrorTypeUpstream,
			"identity provider create account failed",
			err,
			"6a8c0e2d-4f6b-4e0a-8c2e-7d9f1b3d5f7a",
		)
	}
	if resp.IsError() {
		return nil, c.mapProviderError(ctx, resp.StatusCode(), provErr, "create account")
	}
	return &account, nil
}

// GetAccount fetches a provider account by subject id.
func (c *Client) GetAccount(ctx context.Context, subject string) (*Account, error) {
	if err := c.ensureConfigured(ctx); err != nil {
		return nil, err
	}

	var account Account
	var provErr providerError
	resp, err := c.request(ctx).
		SetResult(&account).
		SetError(&provErr).
		Get(c.baseURL + "/auth/v1/admin/users/" + url.PathEscape(subject))
	if err != nil {
		return nil, apperrors.New(
			ctx,
			apperrors.LayerClient,
			apperrors.ErrorTypeUpstream,
			"identity provider get account failed",
			err,
			"8c0e2f4a-6b8d-4a2c-9e4f-0d2f4b6d8f0b",
		)
	}
	if resp.IsError() {
		return nil, c.mapProviderError(ctx, resp.StatusCode(), provErr, "get account")
	}
	return &account, nil
}

// DeleteAccount removes a provider account.
func (c *Client) DeleteAccount(ctx context.Context, subject string) error {
	if err := c.ensureConfigured(ctx); err != nil {
		return err
	}

	var provErr providerError
	resp, err := c.request(ctx).
		SetError(&provErr).
		Delete(c.baseURL + "/auth/v1/admin/users/" + url.PathEscape(subject))
	if err != nil {
		return apperrors.New(
			ctx,
			apperrors.LayerClient,
			apperrors.ErrorTypeUpstream,
			"identity provider delete account failed",
			err,
			"0e2f4b6c-8d0f-4c4e-b6a8-1f3b5d7f9b1d",
		)
	}
	if resp.IsError() {
		return c.mapProviderError(ctx, resp.StatusCode(), provErr, "delete account")
	}
	return nil
}

func (c *Client) mapProviderError(ctx context.Context, status int, provErr providerError, op string) error {
	msg := provErr.Message
	if msg == "" {
		msg = provErr.Error
	}
	if msg == "" {
		msg = fmt.Sprintf("identity provider %s failed with status %d", op, status)
	}

	errType := apperrors.ErrorTypeUpstream
	switch {
	case status == 404:
		errType = apperrors.ErrorTypeNotFound
	case status == 422 || status == 400:
		errType = apperrors.ErrorTypeValidation
	}

	return apperrors.New(
		ctx,
		apperrors.LayerClient,
		errType,
		msg,
		nil,
		"2f4b6d8e-0a2c-4e6a-8c0d-3b5d7f9b1d3f",
	)
}
