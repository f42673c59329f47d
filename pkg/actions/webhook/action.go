// Package webhook provides the webhook_call action: an outbound HTTP request
// carrying a normalized card projection plus caller-supplied payload fields.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/flowkan/flowkan/pkg/models"
)

const defaultTimeoutSeconds = 30

// ErrURLRequired is returned when the config has no URL.
var ErrURLRequired = errors.New("missing or invalid 'url' in configuration")

type Action struct {
	URL     string
	Method  string
	Headers map[string]string
	Payload map[string]any
	Timeout time.Duration
}

func NewAction(config map[string]any) (*Action, error) {
	url, ok := config["url"].(string)
	if !ok || url == "" {
		return nil, ErrURLRequired
	}

	method, _ := config["method"].(string)
	if method == "" {
		method = http.MethodPost
	}

	headers := make(map[string]string)

	if headersConfig, exists := config["headers"]; exists {
		if headersMap, ok := headersConfig.(map[string]any); ok {
			for key, value := range headersMap {
				if strValue, ok := value.(string); ok {
					headers[key] = strValue
				}
			}
		}
	}

	payload, _ := config["payload"].(map[string]any)

	return &Action{
		URL:     url,
		Method:  strings.ToUpper(method),
		Headers: headers,
		Payload: payload,
		Timeout: defaultTimeoutSeconds * time.Second,
	}, nil
}

// Execute sends the request and parses the JSON response. Failures come back
// as errors for the executor to record in the action's result slot; they never
// abort the remaining actions of the rule.
func (a *Action) Execute(ctx context.Context, executionCtx models.ExecutionContext, logger *slog.Logger) (map[string]any, error) {
	logger = logger.With("action_type", "webhook_call", "url", a.URL)
	logger.InfoContext(ctx, "Executing webhook call")

	body, err := json.Marshal(a.buildBody(executionCtx.Card))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, a.Method, a.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	for key, value := range a.Headers {
		req.Header.Set(key, value)
	}

	client := &http.Client{Timeout: a.Timeout}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	var responseBody any

	err = json.Unmarshal(responseBytes, &responseBody)
	if err != nil {
		responseBody = string(responseBytes)

		logger.WarnContext(ctx, "Webhook response is not JSON, returning as string", "error", err)
	}

	logger.InfoContext(ctx, fmt.Sprintf("Webhook call completed with status %d", resp.StatusCode))

	return map[string]any{
		"status_code": resp.StatusCode,
		"response":    responseBody,
	}, nil
}

// buildBody produces the fixed-shape JSON body: the card projection, a
// timestamp and the caller-supplied payload fields merged at the top level.
func (a *Action) buildBody(card *models.KanbanCard) map[string]any {
	body := map[string]any{
		"card": map[string]any{
			"id":       card.ID,
			"title":    card.Title,
			"status":   card.Status,
			"assignee": card.Assignee,
			"priority": card.Priority,
			"tags":     card.Tags,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	for key, value := range a.Payload {
		body[key] = value
	}

	return body
}
