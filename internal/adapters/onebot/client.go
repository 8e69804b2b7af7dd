package onebot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const actionTimeout = 10 * time.Second

// Client speaks the OneBot v11 websocket protocol to the hosting bot
// runtime. Actions are correlated to responses via the echo field.
type Client struct {
	url         string
	accessToken string
	logger      *slog.Logger

	conn    *websocket.Conn
	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan actionResponse

	handler func(context.Context, Event)
}

type actionResponse struct {
	Status  string          `json:"status"`
	RetCode int             `json:"retcode"`
	Data    json.RawMessage `json:"data"`
	Echo    string          `json:"echo"`
}

func NewClient(url, accessToken string, logger *slog.Logger) *Client {
	return &Client{
		url:         url,
		accessToken: accessToken,
		logger:      logger,
		pending:     make(map[string]chan actionResponse),
	}
}

// OnEvent registers the inbound event handler. Must be called before Run.
func (c *Client) OnEvent(handler func(context.Context, Event)) {
	c.handler = handler
}

func (c *Client) Connect(ctx context.Context) error {
	header := http.Header{}
	if c.accessToken != "" {
		header.Set("Authorization", "Bearer "+c.accessToken)
	}
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return fmt.Errorf("dial onebot: %w", err)
	}
	c.conn = conn
	return nil
}

// Run reads frames until the context is cancelled or the connection
// drops. Each inbound event is handled in its own goroutine; handlers
// share no mutable state.
func (c *Client) Run(ctx context.Context) error {
	if c.conn == nil {
		return errors.New("onebot: Run before Connect")
	}

	go func() {
		<-ctx.Done()
		_ = c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read onebot frame: %w", err)
		}
		c.dispatch(ctx, data)
	}
}

func (c *Client) Close() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) dispatch(ctx context.Context, data []byte) {
	var head struct {
		PostType string `json:"post_type"`
		Echo     string `json:"echo"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		c.logger.Warn("undecodable onebot frame", "error", err)
		return
	}

	if head.Echo != "" {
		var resp actionResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			c.logger.Warn("undecodable action response", "error", err)
			return
		}
		c.deliver(resp)
		return
	}

	if head.PostType == "" || c.handler == nil {
		return
	}
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		c.logger.Warn("undecodable onebot event", "error", err)
		return
	}
	go c.handler(ctx, event)
}

func (c *Client) deliver(resp actionResponse) {
	c.pendingMu.Lock()
	ch, ok := c.pending[resp.Echo]
	if ok {
		delete(c.pending, resp.Echo)
	}
	c.pendingMu.Unlock()
	if ok {
		ch <- resp
	}
}

func (c *Client) call(ctx context.Context, action string, params any) (json.RawMessage, error) {
	echo := uuid.NewString()
	ch := make(chan actionResponse, 1)
	c.pendingMu.Lock()
	c.pending[echo] = ch
	c.pendingMu.Unlock()

	payload := map[string]any{
		"action": action,
		"params": params,
		"echo":   echo,
	}
	c.writeMu.Lock()
	err := c.conn.WriteJSON(payload)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(echo)
		return nil, fmt.Errorf("send %s action: %w", action, err)
	}

	timer := time.NewTimer(actionTimeout)
	defer timer.Stop()
	select {
	case resp := <-ch:
		if resp.Status == "failed" || resp.RetCode >= 400 {
			return nil, fmt.Errorf("%s action failed: retcode %d", action, resp.RetCode)
		}
		return resp.Data, nil
	case <-timer.C:
		c.forget(echo)
		return nil, fmt.Errorf("%s action timed out", action)
	case <-ctx.Done():
		c.forget(echo)
		return nil, ctx.Err()
	}
}

func (c *Client) forget(echo string) {
	c.pendingMu.Lock()
	delete(c.pending, echo)
	c.pendingMu.Unlock()
}

// SendGroupMessage delivers a message-array send to one group.
func (c *Client) SendGroupMessage(ctx context.Context, groupID int64, segments []Segment) error {
	_, err := c.call(ctx, "send_group_msg", map[string]any{
		"group_id": groupID,
		"message":  segments,
	})
	return err
}

// GetMessageText re-delivers the text content of a previously sent
// message, identified by the id carried in a reply segment.
func (c *Client) GetMessageText(ctx context.Context, messageID string) (string, error) {
	data, err := c.call(ctx, "get_msg", map[string]any{"message_id": messageID})
	if err != nil {
		return "", err
	}
	var msg struct {
		Message    []Segment `json:"message"`
		RawMessage string    `json:"raw_message"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", fmt.Errorf("decode get_msg response: %w", err)
	}
	text := Event{Message: msg.Message}.PlainText()
	if text == "" {
		text = msg.RawMessage
	}
	return text, nil
}
