// Package config loads and validates the stackup installation
// configuration. Configuration comes from a YAML file and is validated
// in full before any host mutation begins; operation timeouts can be
// tuned through environment variables.
package config
