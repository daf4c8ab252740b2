package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edubooster/backend/config"
	"github.com/edubooster/backend/internal/constants"
	"github.com/edubooster/backend/pkg/circuit"
	"github.com/edubooster/backend/pkg/logger"
)

const (
	smsMaxRetries   = 3
	smsRetryBackoff = 500 * time.Millisecond
	smsTimeout      = 10 * time.Second
)

// SMSGateway delivers one-time codes through an HTTP SMS provider. Calls
// run behind a circuit breaker so a dead provider fails fast instead of
// tying up request handlers.
type SMSGateway struct {
	client  *http.Client
	breaker *circuit.Breaker
	baseURL string
	apiKey  string
	sender  string
}

func NewSMSGateway(cfg *config.Config) *SMSGateway {
	return &SMSGateway{
		client:  &http.Client{Timeout: smsTimeout},
		breaker: circuit.NewBreaker("sms-provider", circuit.DefaultConfig(), logger.GetLogger()),
		baseURL: cfg.SMS.BaseURL,
		apiKey:  cfg.SMS.APIKey,
		sender:  cfg.SMS.Sender,
	}
}

type smsPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// SendPhoneCode sends the verification code as a text message. Transient
// provider failures are retried with backoff inside a single breaker call.
func (g *SMSGateway) SendPhoneCode(ctx context.Context, phone, code string) error {
	if g.baseURL == "" {
		return fmt.Errorf("sms provider is not configured")
	}

	payload := smsPayload{
		From: g.sender,
		To:   phone,
		Text: fmt.Sprintf("Your %s verification code is %s", g.sender, code),
	}

	return g.breaker.Execute(func() error {
		return g.post(ctx, payload)
	})
}

func (g *SMSGateway) post(ctx context.Context, payload smsPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= smsMaxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(smsRetryBackoff * time.Duration(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build sms request: %w", err)
		}
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
		req.Header.Set(constants.HeaderAuthorization, "App "+g.apiKey)

		resp, err := g.client.Do(req)
		if err != nil {
			lastErr = err
			logger.WarnWithContext(ctx, "SMS provider request failed").
				Int("attempt", attempt).
				Err(err).
				Log()
			continue
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			logger.DebugWithContext(ctx, "SMS delivered").
				String("to", payload.To).
				Int("attempt", attempt).
				Log()
			return nil
		}

		lastErr = fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, respBody)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// Provider rejected the request; retrying will not help.
			return lastErr
		}

		logger.WarnWithContext(ctx, "SMS provider returned server error").
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Log()
	}

	return fmt.Errorf("sms delivery failed after %d attempts: %w", smsMaxRetries, lastErr)
}
