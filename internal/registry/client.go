package registry

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/mrz1836/taskschema/internal/constants"
	"github.com/mrz1836/taskschema/internal/errors"
)

// ClientConfig holds the settings needed to talk to a remote task registry.
type ClientConfig struct {
	// OrganizationURL is the organization base URL, e.g. https://dev.azure.com/contoso.
	OrganizationURL string
	// Token is the personal access token sent with Basic authentication.
	Token string
	// APIVersion is sent as the api-version query parameter.
	APIVersion string
	// Timeout bounds a single request. Zero uses the default.
	Timeout time.Duration
}

// Client downloads task registry exports over HTTP.
type Client struct {
	http       *resty.Client
	apiVersion string
	logger     zerolog.Logger
}

// NewClient creates a registry client for the given organization.
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultRegistryTimeout
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = constants.DefaultAPIVersion
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.OrganizationURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		httpClient.SetBasicAuth("", cfg.Token)
	}

	return &Client{
		http:       httpClient,
		apiVersion: apiVersion,
		logger:     logger.With().Str("component", "registry").Logger(),
	}
}

// HTTPClient exposes the underlying *http.Client so tests can mock transport.
func (c *Client) HTTPClient() *http.Client {
	return c.http.GetClient()
}

// FetchRaw downloads the task registry and returns the response body.
// The body is guaranteed to be JSON with a "value" array.
func (c *Client) FetchRaw(ctx context.Context) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api-version", c.apiVersion).
		Get(constants.TasksEndpoint)
	if err != nil {
		return nil, errors.Wrap(fmt.Errorf("%w: %w", errors.ErrRegistryFetch, err), "request task registry")
	}

	body := resp.Body()
	c.logger.Debug().
		Int("status", resp.StatusCode()).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("task registry response received")

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, errors.Wrapf(errors.ErrRegistryAuth, "status %d", resp.StatusCode())
	case resp.StatusCode() == http.StatusNonAuthoritativeInfo && !gjson.ValidBytes(body):
		// An expired or malformed token is answered with a sign-in page.
		return nil, errors.Wrap(errors.ErrRegistryAuth, "registry returned a sign-in page")
	case resp.IsError():
		return nil, errors.Wrapf(errors.ErrRegistryFetch, "status %d", resp.StatusCode())
	}

	if !gjson.ValidBytes(body) {
		return nil, errors.Wrap(errors.ErrRegistryFetch, "response is not JSON")
	}
	if !gjson.GetBytes(body, "value").IsArray() {
		return nil, errors.Wrap(errors.ErrRegistryFetch, `response has no "value" array`)
	}

	return body, nil
}

// Fetch downloads and decodes the task registry.
func (c *Client) Fetch(ctx context.Context) (*Registry, []byte, error) {
	body, err := c.FetchRaw(ctx)
	if err != nil {
		return nil, nil, err
	}
	reg, err := Decode(body)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Info().Int("tasks", len(reg.Tasks())).Msg("task registry fetched")
	return reg, body, nil
}
