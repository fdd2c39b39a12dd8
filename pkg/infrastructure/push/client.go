// Package push reads the host's push socket and forwards plugin messages.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/printhooks/pkg/domain/notify"
	"github.com/gorilla/websocket"
)

// SocketPath is the host's raw websocket endpoint.
const SocketPath = "/sockjs/websocket"

// Receiver accepts plugin messages.
type Receiver interface {
	Receive(msg notify.Message) bool
}

// Client is a push socket subscriber.
type Client struct {
	url    string
	auth   string
	dialer *websocket.Dialer
	logger *slog.Logger
}

// NewClient creates a client for the host at baseURL. auth is the
// "user:session" string sent after connecting; empty skips authentication.
func NewClient(baseURL, auth string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:    SocketURL(baseURL),
		auth:   auth,
		dialer: websocket.DefaultDialer,
		logger: logger,
	}
}

// SocketURL converts an http(s) base URL into the push socket URL.
func SocketURL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + SocketPath
}

type frame struct {
	Plugin *notify.Message `json:"plugin,omitempty"`
}

type authFrame struct {
	Auth string `json:"auth"`
}

// Run connects and forwards plugin messages to r until ctx is cancelled or
// the connection fails.
func (c *Client) Run(ctx context.Context, r Receiver) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	defer conn.Close()

	if c.auth != "" {
		if err := conn.WriteJSON(authFrame{Auth: c.auth}); err != nil {
			return fmt.Errorf("send auth: %w", err)
		}
	}

	// The connection allows one writer. The close frame is only written
	// once the auth frame is out.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = conn.Close()
		case <-stop:
		}
	}()

	c.logger.Info("push socket connected", "url", c.url)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read push socket: %w", err)
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			c.logger.Debug("skipping undecodable frame", "error", err)
			continue
		}
		if f.Plugin == nil {
			continue
		}
		if !r.Receive(*f.Plugin) {
			c.logger.Debug("ignoring plugin message", "plugin", f.Plugin.Plugin)
		}
	}
}
