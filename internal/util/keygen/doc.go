// Package keygen generates the asymmetric key material and short
// identifiers used by the proxy protocol configuration.
package keygen
