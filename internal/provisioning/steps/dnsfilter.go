package steps

import (
	"context"
	"time"

	"github.com/bertffff/stackup/internal/platform/dnsfilter"
	"github.com/bertffff/stackup/internal/provisioning"
)

// DNSService is the slice of the dnsfilter surface the step needs.
type DNSService interface {
	Installed() bool
	Active(ctx context.Context) bool
	WriteConfig(opts dnsfilter.Options) error
	Install(ctx context.Context) error
	Start(ctx context.Context) error
	Healthy(ctx context.Context, webPort int, interval, timeout time.Duration) error
	ConfigPath() string
}

// DNSStep configures and starts the DNS/filtering service.
type DNSStep struct {
	dns DNSService
}

// NewDNSStep creates the DNS/filtering step.
func NewDNSStep(dns DNSService) *DNSStep {
	return &DNSStep{dns: dns}
}

// Name implements provisioning.Step.
func (s *DNSStep) Name() string { return "dns service" }

// Milestone implements provisioning.Step.
func (s *DNSStep) Milestone() provisioning.Milestone { return provisioning.MilestoneDNSService }

// DegradedPrompt implements provisioning.Degradable: a DNS service that
// fails its health check leaves the rest of the stack usable.
func (s *DNSStep) DegradedPrompt() string {
	return "The DNS/filtering service did not pass its health check. The rest of the stack works without it; it will be retried on the next run."
}

// Probe reports whether the service is installed and active.
func (s *DNSStep) Probe(ctx *provisioning.Context) (bool, error) {
	return s.dns.Installed() && s.dns.Active(ctx), nil
}

// Execute writes the configuration, installs the service if needed,
// starts it, and waits for it to become healthy.
func (s *DNSStep) Execute(ctx *provisioning.Context) error {
	ctx.Tracker.TrackPath(s.dns.ConfigPath())
	if err := s.dns.WriteConfig(dnsfilter.Options{
		WebPort:  ctx.Config.DNS.WebPort,
		BindHost: "0.0.0.0",
	}); err != nil {
		return err
	}

	if !s.dns.Installed() {
		installCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.Install)
		defer cancel()
		if err := s.dns.Install(installCtx); err != nil {
			return err
		}
	}

	ctx.Tracker.TrackService(dnsfilter.ServiceName)

	if err := s.dns.Start(ctx); err != nil {
		return err
	}

	timeout := ctx.Timeouts.HealthCheck
	if err := s.dns.Healthy(ctx, ctx.Config.DNS.WebPort, ctx.Timeouts.PollInterval, timeout); err != nil {
		return &provisioning.HealthCheckError{Target: "dns service", Timeout: timeout, Err: err}
	}
	return nil
}
