// Package panel drives the web management panel: rendering its
// environment configuration, health-checking it, and pushing inbound
// and outbound configuration through its HTTP management API.
package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"
)

// ContainerName is the name the panel container runs under.
const ContainerName = "stackup-panel"

// Client is a session-authenticated management API client.
type Client struct {
	http *resty.Client
}

// NewClient creates a panel client for the given base URL, e.g.
// "http://127.0.0.1:2053".
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetCookieJar(jar).
			SetTimeout(15 * time.Second),
	}, nil
}

// apiResponse is the panel's uniform response envelope.
type apiResponse struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

// Login authenticates and stores the session cookie for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"username": username, "password": password}).
		SetResult(&out).
		Post("/login")
	if err != nil {
		return fmt.Errorf("panel login failed: %w", err)
	}
	if resp.IsError() || !out.Success {
		return fmt.Errorf("panel login rejected: %s", out.Msg)
	}
	return nil
}

// Inbound describes the proxy inbound pushed to the panel.
type Inbound struct {
	Remark   string
	Port     int
	Protocol string
	// Settings and StreamSettings are the panel's JSON sub-documents,
	// built by the caller from typed step outputs.
	Settings       map[string]any
	StreamSettings map[string]any
}

// AddInbound creates an inbound through the management API.
func (c *Client) AddInbound(ctx context.Context, in Inbound) error {
	settings, err := json.Marshal(in.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal inbound settings: %w", err)
	}
	stream, err := json.Marshal(in.StreamSettings)
	if err != nil {
		return fmt.Errorf("failed to marshal stream settings: %w", err)
	}

	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"remark":         in.Remark,
			"port":           fmt.Sprintf("%d", in.Port),
			"protocol":       in.Protocol,
			"enable":         "true",
			"settings":       string(settings),
			"streamSettings": string(stream),
			"sniffing":       `{"enabled":true,"destOverride":["http","tls","quic"]}`,
		}).
		SetResult(&out).
		Post("/panel/api/inbounds/add")
	if err != nil {
		return fmt.Errorf("failed to add inbound: %w", err)
	}
	if resp.IsError() || !out.Success {
		return fmt.Errorf("panel rejected inbound: %s", out.Msg)
	}
	return nil
}

// PushOutbound installs the tunnel outbound into the panel's core
// configuration template.
func (c *Client) PushOutbound(ctx context.Context, outboundJSON string) error {
	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"xrayOutboundTemplate": outboundJSON}).
		SetResult(&out).
		Post("/panel/api/setting/update")
	if err != nil {
		return fmt.Errorf("failed to push outbound: %w", err)
	}
	if resp.IsError() || !out.Success {
		return fmt.Errorf("panel rejected outbound: %s", out.Msg)
	}
	return nil
}

// Healthy polls the panel until it answers or the timeout elapses.
func (c *Client) Healthy(ctx context.Context, interval, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		resp, err := c.http.R().SetContext(ctx).Get("/")
		if err == nil && resp.StatusCode() < 500 {
			return nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("status %d", resp.StatusCode())
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("panel not responding: %w", lastErr)
}
