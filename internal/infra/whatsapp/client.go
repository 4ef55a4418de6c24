// internal/infra/whatsapp/client.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// CloudAPIClient implements the messaging Transport interface against
// the WhatsApp Business Cloud API. One call is one delivery attempt;
// retry policy lives with the caller.
type CloudAPIClient struct {
	httpClient    *http.Client
	baseURL       string
	phoneNumberID string
	token         string
	languageCode  string
}

func NewCloudAPIClient(baseURL, phoneNumberID, token string) *CloudAPIClient {
	return &CloudAPIClient{
		httpClient:    &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:       baseURL,
		phoneNumberID: phoneNumberID,
		token:         token,
		languageCode:  "en",
	}
}

// templateMessage is the Cloud API request body for a positional
// template send.
type templateMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Template         template `json:"template"`
}

type template struct {
	Name       string      `json:"name"`
	Language   language    `json:"language"`
	Components []component `json:"components"`
}

type language struct {
	Code string `json:"code"`
}

type component struct {
	Type       string      `json:"type"`
	Parameters []parameter `json:"parameters"`
}

type parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// apiError mirrors the error envelope the Cloud API returns on non-2xx
// responses.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendTemplate performs a single template send attempt. Params are
// bound in order to the template body's positional placeholders. The
// raw response body is returned on success so the caller can keep it as
// the delivery receipt.
func (c *CloudAPIClient) SendTemplate(ctx context.Context, to, templateName string, params []string) (string, error) {
	parameters := make([]parameter, 0, len(params))
	for _, p := range params {
		parameters = append(parameters, parameter{Type: "text", Text: p})
	}

	msg := templateMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: template{
			Name:     templateName,
			Language: language{Code: c.languageCode},
			Components: []component{
				{Type: "body", Parameters: parameters},
			},
		},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("error encoding template message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending template message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		if json.Unmarshal(respBody, &ae) == nil && ae.Error.Message != "" {
			return "", fmt.Errorf("whatsapp api error (status %d, code %d): %s", resp.StatusCode, ae.Error.Code, ae.Error.Message)
		}
		return "", fmt.Errorf("whatsapp api error (status %d): %s", resp.StatusCode, respBody)
	}

	return string(respBody), nil
}
