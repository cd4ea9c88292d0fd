package netutil

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// publicIPServices are tried in order until one returns a valid address.
var publicIPServices = []string{
	"https://api.ipify.org",
	"https://ifconfig.me/ip",
	"https://icanhazip.com",
}

// DetectPublicIP queries well-known echo services for the host's public
// IPv4 address. Detection happens once, early, before any mutation.
func DetectPublicIP(ctx context.Context) (string, error) {
	client := resty.New().SetTimeout(10 * time.Second)

	var lastErr error
	for _, url := range publicIPServices {
		resp, err := client.R().SetContext(ctx).Get(url)
		if err != nil {
			lastErr = err
			continue
		}
		candidate := strings.TrimSpace(resp.String())
		ip := net.ParseIP(candidate)
		if ip == nil || ip.To4() == nil {
			lastErr = fmt.Errorf("%s returned %q", url, candidate)
			continue
		}
		return ip.String(), nil
	}
	return "", fmt.Errorf("could not detect public IP: %w", lastErr)
}
