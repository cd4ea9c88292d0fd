package dnsfilter

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bertffff/stackup/internal/platform/host"
)

type nopRunner struct{}

func (nopRunner) Run(context.Context, string, ...string) (string, error) {
	return "", nil
}

func testAdGuard(t *testing.T) *AdGuard {
	t.Helper()
	return New(nopRunner{}, host.NewSystemd(nopRunner{})).WithDir(t.TempDir())
}

func TestWriteConfig(t *testing.T) {
	a := testAdGuard(t)

	require.NoError(t, a.WriteConfig(Options{
		WebPort:  3000,
		BindHost: "0.0.0.0",
	}))

	data, err := os.ReadFile(a.ConfigPath())
	require.NoError(t, err)

	var cfg adguardConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "0.0.0.0:3000", cfg.HTTP.Address)
	assert.Equal(t, 53, cfg.DNS.Port)
	assert.NotEmpty(t, cfg.DNS.UpstreamDNS, "defaults to DoH upstreams")
	for _, u := range cfg.DNS.UpstreamDNS {
		assert.True(t, strings.HasPrefix(u, "https://"), "upstream %s", u)
	}
}

func TestWriteConfig_CustomUpstreams(t *testing.T) {
	a := testAdGuard(t)

	require.NoError(t, a.WriteConfig(Options{
		WebPort:   3000,
		BindHost:  "0.0.0.0",
		Upstreams: []string{"9.9.9.9"},
	}))

	data, err := os.ReadFile(a.ConfigPath())
	require.NoError(t, err)

	var cfg adguardConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, []string{"9.9.9.9"}, cfg.DNS.UpstreamDNS)
}

func TestInstalled(t *testing.T) {
	a := testAdGuard(t)
	assert.False(t, a.Installed())

	require.NoError(t, os.WriteFile(a.dir+"/AdGuardHome", []byte("#!/bin/sh"), 0o755))
	assert.True(t, a.Installed())
}
