// In file: internal/backend/clientrequest.go
package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// RequestServiceConfig configures the client-request (BCM) search client.
// Unlike the landscape service this endpoint requires basic authentication
// and addresses a specific SAP client via the sap-client query parameter.
type RequestServiceConfig struct {
	Endpoint           string
	SAPClient          string
	Generic            bool
	Timeout            time.Duration
	InsecureSkipVerify bool

	// Credentials come from the environment, not the config file.
	Username string
	Password string
}

// RequestClient searches client requests with selection-table payloads built
// by the filter package.
type RequestClient struct {
	cfg        RequestServiceConfig
	httpClient *http.Client
}

// NewRequestClient creates a configured client-request search client.
func NewRequestClient(cfg RequestServiceConfig) (*RequestClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("client-request endpoint cannot be empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.InsecureSkipVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &RequestClient{cfg: cfg, httpClient: client}, nil
}

// SearchResult is the outcome of one search call. When the backend answers
// with something that is not JSON (SAP services occasionally emit plain text
// or HTML on success paths), Body carries the raw text and Structured is
// false so the caller knows no parsing occurred.
type SearchResult struct {
	Body       string
	Structured bool
}

// Search POSTs the query payload and returns the backend's answer.
// The payload is marshalled in the backend wire shape (<GROUP>_FILTER
// criterion arrays plus <GROUP>_OUT_FIELD comma-separated field lists).
func (c *RequestClient) Search(ctx context.Context, payload json.Marshaler) (*SearchResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search payload: %w", err)
	}

	reqURL, err := c.buildURL()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json, text/plain, */*")
	httpReq.Header.Set("Content-Type", "application/json;charset=utf-8")
	// SAP ICF services reject requests without this header.
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	if c.cfg.Username != "" {
		httpReq.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: reqURL, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return &SearchResult{Body: string(raw), Structured: json.Valid(raw)}, nil
}

// buildURL appends the SAP client selector and the generic-mode flag to the
// configured endpoint.
func (c *RequestClient) buildURL() (string, error) {
	u, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid client-request endpoint: %w", err)
	}
	q := u.Query()
	if c.cfg.SAPClient != "" {
		q.Set("sap-client", c.cfg.SAPClient)
	}
	if c.cfg.Generic {
		q.Set("IS_GENERIC", "X")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
