// Package prefs subscribes to glow preference pushes from a settings
// service over websocket.
package prefs

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/uzumaki-ak/LumaFront/internal/log"
	"github.com/uzumaki-ak/LumaFront/pkg/glow"
)

const (
	handshakeTimeout = 10 * time.Second
	minBackoff       = time.Second
	maxBackoff       = 30 * time.Second
)

// Client maintains a websocket subscription to the preferences
// service. Each valid message replaces the glow configuration and is
// forwarded to OnConfig.
type Client struct {
	url string

	// OnConfig is called from the read loop for every accepted config.
	// Set before Run.
	OnConfig func(glow.Config)

	mu      sync.RWMutex
	current glow.Config
	ws      *websocket.Conn
}

func NewClient(url string, initial glow.Config) *Client {
	return &Client{url: url, current: initial}
}

// Current returns the last accepted configuration.
func (c *Client) Current() glow.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Run connects and reads until the context is cancelled, reconnecting
// with exponential backoff on any failure.
func (c *Client) Run(ctx context.Context) {
	backoff := minBackoff
	for {
		if err := c.connectAndRead(ctx); err != nil {
			log.Warn("prefs connection lost", "url", c.url, "err", err, "retry_in", backoff)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (c *Client) connectAndRead(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	ws, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.ws = ws
	c.mu.Unlock()
	defer ws.Close()

	// Unblock ReadMessage on shutdown.
	stop := context.AfterFunc(ctx, func() { ws.Close() })
	defer stop()

	log.Info("prefs connected", "url", c.url)
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg []byte) {
	var cfg glow.Config
	if err := json.Unmarshal(msg, &cfg); err != nil {
		log.Warn("prefs message is not a config", "err", err)
		return
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		log.Warn("rejecting invalid glow config", "problems", problems)
		return
	}
	c.mu.Lock()
	c.current = cfg
	c.mu.Unlock()
	if c.OnConfig != nil {
		c.OnConfig(cfg)
	}
}
