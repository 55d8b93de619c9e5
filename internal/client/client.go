package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/prospect-intake/internal/entity"
	"github.com/xavierca1/prospect-intake/internal/validation"
)

const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx response. Message is the server's text, unchanged.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []validation.FieldError
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

type SubmitProspectResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) ListRecipients(ctx context.Context) ([]entity.EmailRecipient, error) {
	out := []entity.EmailRecipient{}
	if err := c.do(ctx, http.MethodGet, "/email-recipients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRecipient(ctx context.Context, in entity.CreateEmailRecipientInput) (*entity.EmailRecipient, error) {
	var out entity.EmailRecipient
	if err := c.do(ctx, http.MethodPost, "/email-recipients", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRecipient sends only the non-nil fields of in.
func (c *Client) UpdateRecipient(ctx context.Context, id string, in entity.UpdateEmailRecipientInput) (*entity.EmailRecipient, error) {
	var out entity.EmailRecipient
	if err := c.do(ctx, http.MethodPut, "/email-recipients/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRecipient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/email-recipients/"+url.PathEscape(id), nil, nil)
}

func (c *Client) SubmitProspect(ctx context.Context, s entity.ProspectSubmission) (*SubmitProspectResponse, error) {
	var out SubmitProspectResponse
	if err := c.do(ctx, http.MethodPost, "/prospects", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Services(ctx context.Context) ([]entity.Service, error) {
	var out []entity.Service
	if err := c.do(ctx, http.MethodGet, "/services", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}
	var body struct {
		Error   string                  `json:"error"`
		Message string                  `json:"message"`
		Fields  []validation.FieldError `json:"fields"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
		apiErr.Fields = body.Fields
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
