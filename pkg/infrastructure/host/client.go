// Package host talks to the printer host's plugin API.
package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
)

// Plugin API commands.
const (
	CommandSaveHooks = "savehooks"
	CommandTestHook  = "testhook"
)

// Client sends plugin commands to the host. Requests are never retried: a
// save replaces the whole stored collection and a test-fire is a one-shot
// trigger.
type Client struct {
	baseURL  string
	apiKey   string
	pluginID string
	client   *http.Client
}

// NewClient creates a client for the host at baseURL.
func NewClient(baseURL, apiKey, pluginID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		pluginID: pluginID,
		client:   &http.Client{Timeout: timeout},
	}
}

type saveHooksRequest struct {
	Command  string           `json:"command"`
	Settings profile.Settings `json:"settings"`
}

type testHookRequest struct {
	Command   string `json:"command"`
	Event     string `json:"event"`
	HookIndex int    `json:"hook_index"`
}

// SaveSettings stores every profile on the host.
func (c *Client) SaveSettings(ctx context.Context, settings profile.Settings) error {
	return c.command(ctx, saveHooksRequest{Command: CommandSaveHooks, Settings: settings})
}

// TestFire asks the host to fire event for the stored profile at index.
func (c *Client) TestFire(ctx context.Context, event string, index int) error {
	return c.command(ctx, testHookRequest{Command: CommandTestHook, Event: event, HookIndex: index})
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("host returned status %d", e.Code)
	}
	return fmt.Sprintf("host returned status %d: %s", e.Code, e.Body)
}

func (c *Client) command(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}

	url := c.baseURL + "/api/plugin/" + c.pluginID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "printhooks/1.0")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
