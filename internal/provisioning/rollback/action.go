package rollback

import "context"

// ActionKind identifies one of the closed set of undo operations.
// Compensations never carry command text to be re-interpreted later;
// every action is one of these statically enumerable variants.
type ActionKind int

const (
	// ActionRemovePath removes a file or directory created during the run.
	ActionRemovePath ActionKind = iota
	// ActionRemoveNetworkObject removes a container network created during the run.
	ActionRemoveNetworkObject
	// ActionDisableService stops and disables a host service started during the run.
	ActionDisableService
	// ActionRestoreFirewallSnapshot restores a previously captured firewall rule set.
	ActionRestoreFirewallSnapshot
	// ActionRunCallback runs a custom undo function for effects the other
	// variants cannot express (e.g. removing a container).
	ActionRunCallback
)

// String returns the kind name for logging.
func (k ActionKind) String() string {
	switch k {
	case ActionRemovePath:
		return "remove-path"
	case ActionRemoveNetworkObject:
		return "remove-network"
	case ActionDisableService:
		return "disable-service"
	case ActionRestoreFirewallSnapshot:
		return "restore-firewall"
	case ActionRunCallback:
		return "callback"
	default:
		return "unknown"
	}
}

// Action is a tagged undo operation. Exactly the fields relevant to the
// Kind are set; the executor switches on Kind and ignores the rest.
type Action struct {
	Kind     ActionKind
	Path     string
	Network  string
	Service  string
	Snapshot []byte
	Callback func(ctx context.Context) error
}

// RemovePath returns an action that removes path if it still exists.
func RemovePath(path string) Action {
	return Action{Kind: ActionRemovePath, Path: path}
}

// RemoveNetworkObject returns an action that removes the named container network.
func RemoveNetworkObject(name string) Action {
	return Action{Kind: ActionRemoveNetworkObject, Network: name}
}

// DisableService returns an action that stops and disables the named service.
func DisableService(name string) Action {
	return Action{Kind: ActionDisableService, Service: name}
}

// RestoreFirewallSnapshot returns an action that restores the given rule snapshot.
func RestoreFirewallSnapshot(snapshot []byte) Action {
	return Action{Kind: ActionRestoreFirewallSnapshot, Snapshot: snapshot}
}

// RunCallback returns an action that invokes fn during rollback.
func RunCallback(fn func(ctx context.Context) error) Action {
	return Action{Kind: ActionRunCallback, Callback: fn}
}
