package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"office_manager_notifier/internal/domain/notification"
)

const defaultEndpoint = "https://apis.aligo.in/send/"

// AligoClient sends SMS through an Aligo-style HTTP gateway: a single
// form-encoded POST answered with a JSON result code. Credentials come in
// with each send as part of the pass's settings snapshot.
type AligoClient struct {
	httpClient *http.Client
	endpoint   string
}

func NewAligoClient(timeout time.Duration) *AligoClient {
	return &AligoClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   defaultEndpoint,
	}
}

// WithEndpoint overrides the gateway URL (tests point it at a local server).
func (c *AligoClient) WithEndpoint(endpoint string) *AligoClient {
	c.endpoint = endpoint
	return c
}

type aligoResponse struct {
	ResultCode json.Number `json:"result_code"`
	Message    string      `json:"message"`
}

func (c *AligoClient) SendSms(ctx context.Context, settings *notification.Settings, phoneNumber, message string) error {
	if !settings.SmsConfigured() {
		return fmt.Errorf("sms gateway credentials are missing")
	}

	form := url.Values{
		"key":      {settings.SmsAPIKey},
		"user_id":  {settings.SmsAPISecret},
		"sender":   {settings.SmsSenderNumber},
		"receiver": {phoneNumber},
		"msg":      {message},
		"msg_type": {"SMS"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("failed to read sms gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	var parsed aligoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("failed to parse sms gateway response: %w", err)
	}
	// The gateway reports success with result_code "1"; anything else is a
	// provider-side rejection.
	if parsed.ResultCode.String() != "1" {
		return fmt.Errorf("sms gateway rejected message: code=%s message=%s", parsed.ResultCode, parsed.Message)
	}
	return nil
}
