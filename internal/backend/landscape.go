// In file: internal/backend/landscape.go
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
	"strings"
	"time"
)

const (
	systemDataPath = "/rest/external/aicockpit/systemdata"
	sectionsPath   = "/rest/external/aicockpit/sections"

	// DefaultSysType is assumed when a lookup does not name a system type.
	DefaultSysType = "ABAPSystem"
)

// DefaultTimeout bounds every backend call. Timeouts are not retried; they
// surface as a TransportError.
const DefaultTimeout = 30 * time.Second

// LandscapeConfig configures the system-landscape (AICockpit) client.
// The service runs unauthenticated behind the corporate network; internal
// landscapes often terminate TLS with self-signed certificates, hence the
// skip-verify toggle.
type LandscapeConfig struct {
	BaseURL            string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// LandscapeClient calls the AICockpit provider API for system details and
// section metadata. It holds its own configured HTTP client so hung requests
// cannot outlive the timeout.
type LandscapeClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewLandscapeClient creates a configured landscape client.
func NewLandscapeClient(cfg LandscapeConfig) (*LandscapeClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("landscape base URL cannot be empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}
	if cfg.InsecureSkipVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &LandscapeClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: client,
	}, nil
}

// SystemDataRequest identifies one system and the data sections to fetch.
// SID or ObjID must be set; the caller (the tool layer) enforces that before
// any network traffic happens.
type SystemDataRequest struct {
	SysType  string   `json:"sysType"`
	SID      string   `json:"sid,omitempty"`
	ObjID    string   `json:"objid,omitempty"`
	Sections []string `json:"sections,omitempty"`
}

// SystemData POSTs a system lookup and returns the raw JSON document. The
// response keeps its top-level section keys; interpreting them is left to
// the model.
func (c *LandscapeClient) SystemData(ctx context.Context, req SystemDataRequest) (json.RawMessage, error) {
	if req.SysType == "" {
		req.SysType = DefaultSysType
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal system data request: %w", err)
	}

	url := c.baseURL + systemDataPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create system data request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	raw, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, &StatusError{URL: url, StatusCode: http.StatusOK, Body: string(raw)}
	}
	return json.RawMessage(raw), nil
}

// SectionsInfo is the metadata catalog describing which data sections a
// system-details lookup may request.
type SectionsInfo struct {
	AvailableSections []SectionMeta `json:"available_sections"`
	TotalSections     int           `json:"total_sections"`
	Description       string        `json:"description"`
}

// SectionMeta describes one requestable section.
type SectionMeta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Sections GETs the section catalog.
func (c *LandscapeClient) Sections(ctx context.Context) (*SectionsInfo, error) {
	url := c.baseURL + sectionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create sections request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	raw, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var info SectionsInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, &StatusError{URL: url, StatusCode: http.StatusOK, Body: string(raw)}
	}
	return &info, nil
}

// do executes the request and applies the transport/status error split.
func (c *LandscapeClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: req.URL.String(), Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: req.URL.String(), StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}
