package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://graph.facebook.com/v18.0"

type Client struct {
	accessToken  string
	phoneID      string
	baseURL      string
	templateName string
	language     string
	httpClient   *http.Client
}

func NewClient(baseURL, accessToken, phoneID, templateName, language string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if language == "" {
		language = "en_US"
	}
	return &Client{
		accessToken:  accessToken,
		phoneID:      phoneID,
		baseURL:      strings.TrimRight(baseURL, "/"),
		templateName: templateName,
		language:     language,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SendProspectAcknowledgement tells the prospect their questionnaire arrived.
func (c *Client) SendProspectAcknowledgement(ctx context.Context, phone, name string) error {
	return c.SendMessage(ctx, SendMessageInput{
		PhoneNumber:  digitsOnly(phone),
		TemplateName: c.templateName,
		Parameters:   []string{name},
	})
}

func (c *Client) SendMessage(ctx context.Context, input SendMessageInput) error {
	if c.accessToken == "" || c.phoneID == "" {
		log.Println("⚠️ WhatsApp: access token or phone id not configured")
		return fmt.Errorf("whatsapp not configured")
	}
	if input.PhoneNumber == "" {
		return fmt.Errorf("whatsapp: empty phone number")
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                input.PhoneNumber,
		"type":              "template",
		"template": map[string]interface{}{
			"name":     input.TemplateName,
			"language": map[string]string{"code": c.language},
			"components": []map[string]interface{}{
				{
					"type":       "body",
					"parameters": convertParametersToAPI(input.Parameters),
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ WhatsApp: request failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("❌ WhatsApp: reading response (status %d) failed: %v", resp.StatusCode, err)
		return fmt.Errorf("whatsapp: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("❌ WhatsApp: API returned status %d: %s", resp.StatusCode, string(respBody))
		var result SendMessageResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			log.Printf("⚠️ WhatsApp: error body is not JSON: %v", err)
		} else if result.Error != nil {
			return fmt.Errorf("whatsapp: %s (code %d)", result.Error.Message, result.Error.Code)
		}
		return fmt.Errorf("whatsapp api error: %d", resp.StatusCode)
	}

	var result SendMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		log.Printf("❌ WhatsApp: decoding response failed: %v", err)
		return fmt.Errorf("whatsapp: decode response: %w", err)
	}
	if result.Error != nil {
		return fmt.Errorf("whatsapp: %s (code %d)", result.Error.Message, result.Error.Code)
	}

	log.Printf("✅ WhatsApp: acknowledgement sent to %s", input.PhoneNumber)
	return nil
}

func convertParametersToAPI(params []string) []map[string]string {
	result := make([]map[string]string, 0, len(params))
	for _, param := range params {
		result = append(result, map[string]string{
			"type": "text",
			"text": param,
		})
	}
	return result
}

func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
