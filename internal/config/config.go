package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config is the validated installation configuration.
type Config struct {
	// Domain is the public DNS name the stack is served under.
	Domain string `mapstructure:"domain" validate:"required,fqdn"`

	// Email is used for ACME certificate registration. When empty the
	// certificate step falls back to a self-signed certificate.
	Email string `mapstructure:"email" validate:"omitempty,email"`

	// SSHPort overrides remote-access port detection. 0 means detect.
	SSHPort int `mapstructure:"ssh_port" validate:"min=0,max=65535"`

	// StateDir holds the persisted state file, run log, generated
	// credentials, and the final summary.
	StateDir string `mapstructure:"state_dir" validate:"required"`

	Network  Network  `mapstructure:"network"`
	Firewall Firewall `mapstructure:"firewall"`
	DNS      DNS      `mapstructure:"dns"`
	Tunnel   Tunnel   `mapstructure:"tunnel"`
	Panel    Panel    `mapstructure:"panel"`
}

// Network configures the isolated container network.
type Network struct {
	Name   string `mapstructure:"name" validate:"required"`
	Subnet string `mapstructure:"subnet" validate:"required,cidrv4"`
}

// Firewall configures extra allowed ports beyond the ones the stack
// itself requires. The remote-access port is always preserved.
type Firewall struct {
	ExtraPorts []PortRule `mapstructure:"extra_ports" validate:"dive"`
}

// PortRule is one additional allow rule.
type PortRule struct {
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	Protocol string `mapstructure:"protocol" validate:"oneof=tcp udp"`
	Comment  string `mapstructure:"comment"`
}

// DNS configures the DNS/filtering service.
type DNS struct {
	Enabled bool `mapstructure:"enabled"`
	// WebPort is the admin UI port used for health checks.
	WebPort int `mapstructure:"web_port" validate:"min=1,max=65535"`
}

// Tunnel configures the outbound tunnel account registration.
type Tunnel struct {
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the registration API base URL.
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

// Panel configures the management panel container.
type Panel struct {
	Image    string `mapstructure:"image" validate:"required"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	Username string `mapstructure:"username" validate:"required"`
	// Password is generated when empty.
	Password string `mapstructure:"password"`
}

// Validate checks the configuration, combining struct tag validation
// with semantic checks the tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The panel and DNS admin UI cannot share a port.
	if c.DNS.Enabled && c.DNS.WebPort == c.Panel.Port {
		return fmt.Errorf("invalid configuration: dns web_port and panel port are both %d", c.Panel.Port)
	}
	for _, rule := range c.Firewall.ExtraPorts {
		if c.SSHPort != 0 && rule.Port == c.SSHPort {
			return fmt.Errorf("invalid configuration: extra port %d duplicates the ssh port", rule.Port)
		}
	}
	return nil
}
