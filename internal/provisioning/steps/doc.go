// Package steps contains the concrete provisioning steps, in dependency
// order: container runtime, isolated network, firewall, certificates,
// proxy keys, tunnel account, DNS/filtering service, and the management
// panel.
//
// Each step consumes its platform provider through a narrow interface,
// registers compensations before mutating, and publishes typed results
// into the run outputs. Probes are side-effect free; when a probe finds
// the goal state already satisfied it hydrates the outputs later steps
// need from the existing artifacts.
package steps
