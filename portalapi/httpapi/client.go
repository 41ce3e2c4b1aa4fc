package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/tenant-portal/internal/errors"
	"github.com/jrsteele09/tenant-portal/portalapi"
	"github.com/jrsteele09/tenant-portal/tenants"
	"github.com/rs/zerolog/log"
)

const defaultInvalidCredentials = "Invalid credentials"

var _ portalapi.Client = (*Client)(nil)

// Client talks to the portal REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
}

// ClientOption modifies a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTokenSource supplies the bearer token attached to requests. It is
// called per request so a later login is picked up.
func WithTokenSource(token func() string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

func New(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		token:      func() string { return "" },
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil, "Backend unavailable")
}

// VerifyTenant posts the tenant credentials. Rejections map to
// ErrInvalidCredentials, 403 to ErrAccountDisabled and 5xx to ErrNetwork.
func (c *Client) VerifyTenant(ctx context.Context, tenantID, apiKey string) (portalapi.Identity, error) {
	body := map[string]string{"tenantId": tenantID, "apiKey": apiKey}
	resp, err := c.send(ctx, http.MethodPost, "/login/tenant", body)
	if err != nil {
		return portalapi.Identity{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return portalapi.Identity{}, errors.Message(errors.ErrNetwork, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(raw, defaultInvalidCredentials)
		switch {
		case resp.StatusCode == http.StatusForbidden:
			return portalapi.Identity{}, errors.Message(errors.ErrAccountDisabled, msg)
		case resp.StatusCode >= 500:
			return portalapi.Identity{}, errors.Message(errors.ErrNetwork, msg)
		default:
			return portalapi.Identity{}, errors.Message(errors.ErrInvalidCredentials, msg)
		}
	}
	return portalapi.DecodeIdentity(raw)
}

func (c *Client) GetTenants(ctx context.Context) ([]*tenants.Tenant, error) {
	var out []*tenants.Tenant
	if err := c.doJSON(ctx, http.MethodGet, "/tenants", nil, &out, "Failed to fetch tenants"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTenant(ctx context.Context, name string) (*tenants.Tenant, error) {
	var out tenants.Tenant
	body := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPost, "/tenants", body, &out, "Failed to create tenant"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTenant(ctx context.Context, tenantID string) (*tenants.Tenant, error) {
	var out tenants.Tenant
	if err := c.doJSON(ctx, http.MethodGet, tenantPath(tenantID), nil, &out, "Failed to fetch tenant"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTenantStatus(ctx context.Context, tenantID string, status tenants.Status) (*tenants.Tenant, error) {
	var out tenants.Tenant
	body := map[string]tenants.Status{"status": status}
	if err := c.doJSON(ctx, http.MethodPatch, tenantPath(tenantID, "status"), body, &out, "Failed to update status"); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegenerateAPIKey has no REST endpoint.
func (c *Client) RegenerateAPIKey(context.Context, string) (string, error) {
	return "", errors.Wrapf(errors.ErrUnsupported, "regenerate api key over http")
}

func (c *Client) GetFiles(ctx context.Context, tenantID string) ([]*tenants.File, error) {
	var out []*tenants.File
	if err := c.doJSON(ctx, http.MethodGet, tenantPath(tenantID, "files"), nil, &out, "Failed to fetch files"); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadFile sends content as the multipart field "file".
func (c *Client) UploadFile(ctx context.Context, tenantID, name string, content io.Reader) (*tenants.File, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("[UploadFile] create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("[UploadFile] copy content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("[UploadFile] close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, tenantPath(tenantID, "files"), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out tenants.File
	if err := c.exchange(req, &out, "Upload failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFile(ctx context.Context, tenantID, fileID string) error {
	return c.doJSON(ctx, http.MethodDelete, tenantPath(tenantID, "files", fileID), nil, nil, "Failed to delete file")
}

func (c *Client) UpdateBranding(ctx context.Context, tenantID, brandColor, font string) (*tenants.Tenant, error) {
	var out tenants.Tenant
	body := map[string]string{"brandColor": brandColor, "font": font}
	if err := c.doJSON(ctx, http.MethodPatch, tenantPath(tenantID, "branding"), body, &out, "Failed to update branding"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTeams(ctx context.Context, tenantID string) ([]*tenants.Team, error) {
	var out []*tenants.Team
	if err := c.doJSON(ctx, http.MethodGet, tenantPath(tenantID, "teams"), nil, &out, "Failed to fetch teams"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTeam(ctx context.Context, tenantID string, input tenants.TeamInput) (*tenants.Team, error) {
	var out tenants.Team
	if err := c.doJSON(ctx, http.MethodPost, tenantPath(tenantID, "teams"), input, &out, "Failed to create team"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTeam(ctx context.Context, tenantID, teamID string, patch tenants.TeamPatch) (*tenants.Team, error) {
	var out tenants.Team
	if err := c.doJSON(ctx, http.MethodPatch, tenantPath(tenantID, "teams", teamID), patch, &out, "Failed to update team"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, failMsg string) error {
	resp, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out, failMsg)
}

func (c *Client) send(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("[httpapi] marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.roundTrip(req)
}

func (c *Client) exchange(req *http.Request, out any, failMsg string) error {
	resp, err := c.roundTrip(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out, failMsg)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("[httpapi] build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("Portal API request failed")
		return nil, errors.Message(errors.ErrNetwork, err.Error())
	}
	return resp, nil
}

func decodeResponse(resp *http.Response, out any, failMsg string) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return errors.Message(statusKind(resp.StatusCode), serverMessage(raw, failMsg))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Message(errors.ErrNetwork, "malformed response: "+err.Error())
	}
	return nil
}

func statusKind(status int) error {
	switch {
	case status == http.StatusNotFound:
		return errors.ErrNotFound
	case status == http.StatusUnauthorized:
		return errors.ErrInvalidCredentials
	case status == http.StatusForbidden:
		return errors.ErrAccountDisabled
	case status >= 500:
		return errors.ErrNetwork
	default:
		return errors.ErrInvalidRequest
	}
}

// serverMessage extracts the "error" field of a JSON error body.
func serverMessage(raw []byte, fallback string) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		return fallback
	}
	return body.Error
}

func tenantPath(tenantID string, parts ...string) string {
	p := "/tenants/" + url.PathEscape(tenantID)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}
