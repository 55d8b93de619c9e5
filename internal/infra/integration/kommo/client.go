package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/prospect-intake/internal/infra/queue"
)

type Client struct {
	apiToken   string
	baseURL    string
	statusID   int
	httpClient *http.Client
}

// NewClient targets a Kommo account API base such as https://acme.kommo.com/api/v4.
// statusID is the pipeline stage new leads land in; zero keeps the account default.
func NewClient(baseURL, apiToken string, statusID int) *Client {
	return &Client{
		apiToken:   apiToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		statusID:   statusID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateLead registers the prospect as a lead attached to a contact found by phone
// or created on the fly.
func (c *Client) CreateLead(ctx context.Context, prospect queue.ProspectSubmittedPayload) (int, error) {
	return c.createLead(ctx, CreateLeadInput{
		Name:        prospect.Name,
		Email:       prospect.Email,
		Phone:       prospect.Phone,
		Company:     prospect.Company,
		BudgetLabel: prospect.BudgetRange.Label(),
		Services:    prospect.Services,
		Tags:        []string{"questionnaire", string(prospect.BudgetRange)},
	})
}

func (c *Client) createLead(ctx context.Context, input CreateLeadInput) (int, error) {
	if c.apiToken == "" {
		log.Println("⚠️ Kommo: API token not configured")
		return 0, fmt.Errorf("kommo not configured")
	}

	contactID, err := c.findOrCreateContact(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("find or create contact: %w", err)
	}

	tags := make([]map[string]interface{}, 0, len(input.Tags))
	for _, t := range input.Tags {
		tags = append(tags, map[string]interface{}{"name": t})
	}

	lead := map[string]interface{}{
		"name": fmt.Sprintf("%s - %s", input.Name, strings.Join(input.Services, ", ")),
		"_embedded": map[string]interface{}{
			"tags":     tags,
			"contacts": []map[string]interface{}{{"id": contactID}},
		},
	}
	if c.statusID != 0 {
		lead["status_id"] = c.statusID
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/leads", []map[string]interface{}{lead}, &result); err != nil {
		return 0, fmt.Errorf("create lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, fmt.Errorf("lead not created")
	}

	leadID := result.Embedded.Leads[0].ID
	log.Printf("✅ Kommo: lead #%d created for %s (%s)", leadID, input.Name, input.BudgetLabel)
	return leadID, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, input CreateLeadInput) (int, error) {
	if id, err := c.findContactByPhone(ctx, input.Phone); err == nil && id > 0 {
		log.Printf("📱 Kommo: existing contact %d", id)
		return id, nil
	}
	return c.createContact(ctx, input)
}

func (c *Client) findContactByPhone(ctx context.Context, phone string) (int, error) {
	var result embeddedIDs
	if err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(phone), nil, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) > 0 {
		return result.Embedded.Contacts[0].ID, nil
	}
	return 0, fmt.Errorf("contact not found")
}

func (c *Client) createContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contact := map[string]interface{}{
		"name": input.Name,
		"custom_fields_values": []map[string]interface{}{
			{
				"field_code": "PHONE",
				"values":     []map[string]interface{}{{"value": input.Phone, "enum_code": "WORK"}},
			},
			{
				"field_code": "EMAIL",
				"values":     []map[string]interface{}{{"value": input.Email, "enum_code": "WORK"}},
			},
		},
	}
	if input.Company != "" {
		contact["_embedded"] = map[string]interface{}{
			"companies": []map[string]interface{}{{"name": input.Company}},
		}
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/contacts", []map[string]interface{}{contact}, &result); err != nil {
		return 0, fmt.Errorf("create contact: %w", err)
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, fmt.Errorf("contact id missing from response")
	}

	contactID := result.Embedded.Contacts[0].ID
	log.Printf("✅ Kommo: new contact %d", contactID)
	return contactID, nil
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
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("kommo %s %s: %d - %s", method, path, resp.StatusCode, string(raw))
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
