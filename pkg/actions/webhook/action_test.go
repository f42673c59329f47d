package webhook_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowkan/flowkan/pkg/actions/webhook"
	"github.com/flowkan/flowkan/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func testCard() *models.KanbanCard {
	return &models.KanbanCard{
		ID:       "card-1",
		Title:    "Fix login bug",
		Status:   "in-progress",
		Assignee: "alice",
		Priority: "high",
		Tags:     []string{"bug"},
	}
}

func TestNewAction(t *testing.T) {
	t.Parallel()

	_, err := webhook.NewAction(map[string]any{})
	assert.ErrorIs(t, err, webhook.ErrURLRequired)

	action, err := webhook.NewAction(map[string]any{"url": "https://example.com/hook"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, action.Method)

	action, err = webhook.NewAction(map[string]any{"url": "https://example.com/hook", "method": "put"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, action.Method)
}

func TestExecute_Success(t *testing.T) {
	t.Parallel()

	var receivedBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
		assert.Equal(t, "secret", request.Header.Get("X-Token"))

		err := json.NewDecoder(request.Body).Decode(&receivedBody)
		require.NoError(t, err)

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte(`{"received": true}`))
	}))
	defer server.Close()

	action, err := webhook.NewAction(map[string]any{
		"url":     server.URL,
		"headers": map[string]any{"X-Token": "secret"},
		"payload": map[string]any{"source": "board"},
	})
	require.NoError(t, err)

	executionCtx := models.ExecutionContext{Card: testCard()}

	output, err := action.Execute(context.Background(), executionCtx, testLogger())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, output["status_code"])
	assert.Equal(t, map[string]any{"received": true}, output["response"])

	// The body carries the card projection, the merged payload and a timestamp.
	card, ok := receivedBody["card"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "card-1", card["id"])
	assert.Equal(t, "Fix login bug", card["title"])
	assert.Equal(t, "alice", card["assignee"])
	assert.Equal(t, "board", receivedBody["source"])
	assert.NotEmpty(t, receivedBody["timestamp"])
}

func TestExecute_NonJSONResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusAccepted)
		_, _ = writer.Write([]byte("accepted"))
	}))
	defer server.Close()

	action, err := webhook.NewAction(map[string]any{"url": server.URL})
	require.NoError(t, err)

	output, err := action.Execute(context.Background(), models.ExecutionContext{Card: testCard()}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, output["status_code"])
	assert.Equal(t, "accepted", output["response"])
}

func TestExecute_NetworkFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	action, err := webhook.NewAction(map[string]any{"url": server.URL})
	require.NoError(t, err)

	output, err := action.Execute(context.Background(), models.ExecutionContext{Card: testCard()}, testLogger())
	require.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "webhook request failed")
}
