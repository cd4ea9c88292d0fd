// Package tunnel registers an account with the outbound tunnel provider
// and translates the resulting WireGuard-style peer configuration into
// the panel's outbound format.
package tunnel

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bertffff/stackup/internal/util/keygen"
)

// DefaultEndpoint is the registration API used when the configuration
// does not override it.
const DefaultEndpoint = "https://api.cloudflareclient.com/v0a2158"

// Account is a registered tunnel identity plus the peer parameters
// needed to build an outbound.
type Account struct {
	ID           string `json:"id"`
	PrivateKey   string `json:"private_key"`
	PublicKey    string `json:"public_key"`
	PeerKey      string `json:"peer_key"`
	PeerEndpoint string `json:"peer_endpoint"`
	Address4     string `json:"address_v4"`
	Address6     string `json:"address_v6"`
}

// Client talks to the tunnel registration API.
type Client struct {
	http *resty.Client
}

// NewClient creates a tunnel client for the given API base URL.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		http: resty.New().
			SetBaseURL(endpoint).
			SetTimeout(30 * time.Second),
	}
}

// registerResponse is the subset of the registration payload we consume.
type registerResponse struct {
	ID     string `json:"id"`
	Config struct {
		Peers []struct {
			PublicKey string `json:"public_key"`
			Endpoint  struct {
				Host string `json:"host"`
			} `json:"endpoint"`
		} `json:"peers"`
		Interface struct {
			Addresses struct {
				V4 string `json:"v4"`
				V6 string `json:"v6"`
			} `json:"addresses"`
		} `json:"interface"`
	} `json:"config"`
}

// Register creates a new device key pair, registers it, and returns the
// resulting account. The private key never leaves the host.
func (c *Client) Register(ctx context.Context) (*Account, error) {
	pair, err := keygen.GenerateX25519()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tunnel key: %w", err)
	}
	// The tunnel API expects standard (not URL-safe) base64 keys.
	pub, err := base64.RawURLEncoding.DecodeString(pair.Public)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode public key: %w", err)
	}
	priv, err := base64.RawURLEncoding.DecodeString(pair.Private)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode private key: %w", err)
	}
	pubStd := base64.StdEncoding.EncodeToString(pub)
	privStd := base64.StdEncoding.EncodeToString(priv)

	var out registerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"key":    pubStd,
			"tos":    time.Now().UTC().Format(time.RFC3339),
			"model":  "stackup",
			"locale": "en_US",
		}).
		SetResult(&out).
		Post("/reg")
	if err != nil {
		return nil, fmt.Errorf("tunnel registration failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tunnel registration failed: status %d", resp.StatusCode())
	}
	if len(out.Config.Peers) == 0 {
		return nil, fmt.Errorf("tunnel registration returned no peers")
	}

	return &Account{
		ID:           out.ID,
		PrivateKey:   privStd,
		PublicKey:    pubStd,
		PeerKey:      out.Config.Peers[0].PublicKey,
		PeerEndpoint: out.Config.Peers[0].Endpoint.Host,
		Address4:     out.Config.Interface.Addresses.V4,
		Address6:     out.Config.Interface.Addresses.V6,
	}, nil
}

// outbound is the panel's WireGuard outbound shape.
type outbound struct {
	Tag      string `json:"tag"`
	Protocol string `json:"protocol"`
	Settings struct {
		SecretKey string   `json:"secretKey"`
		Address   []string `json:"address"`
		Peers     []struct {
			PublicKey string `json:"publicKey"`
			Endpoint  string `json:"endpoint"`
		} `json:"peers"`
		MTU int `json:"mtu"`
	} `json:"settings"`
}

// OutboundJSON translates the account into the panel's outbound
// configuration format.
func OutboundJSON(acc *Account) (string, error) {
	var ob outbound
	ob.Tag = "warp"
	ob.Protocol = "wireguard"
	ob.Settings.SecretKey = acc.PrivateKey
	ob.Settings.MTU = 1280
	for _, addr := range []string{acc.Address4, acc.Address6} {
		if addr != "" {
			ob.Settings.Address = append(ob.Settings.Address, addr)
		}
	}
	ob.Settings.Peers = append(ob.Settings.Peers, struct {
		PublicKey string `json:"publicKey"`
		Endpoint  string `json:"endpoint"`
	}{PublicKey: acc.PeerKey, Endpoint: acc.PeerEndpoint})

	data, err := json.Marshal(ob)
	if err != nil {
		return "", fmt.Errorf("failed to marshal outbound: %w", err)
	}
	return string(data), nil
}

// SaveAccount persists the account file with restrictive permissions.
func SaveAccount(path string, acc *Account) error {
	data, err := json.MarshalIndent(acc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write account file: %w", err)
	}
	return nil
}

// LoadAccount reads a previously saved account file.
func LoadAccount(path string) (*Account, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	var acc Account
	if err := json.Unmarshal(data, &acc); err != nil {
		return nil, fmt.Errorf("failed to parse account file: %w", err)
	}
	return &acc, nil
}
