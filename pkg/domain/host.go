package domain

// HostState tracks a host through a reboot watch.
// It advances monotonically and is discarded when the watch returns.
type HostState string

const (
	HostUnknown             HostState = "unknown"
	HostNetworkDown         HostState = "network_down"
	HostNetworkUp           HostState = "network_up"
	HostCommandChannelReady HostState = "command_channel_ready"
)

// Lifecycle events driving HostState.
const (
	EventWentDown     = "went_down"
	EventNetworkUp    = "network_up"
	EventChannelReady = "channel_ready"
)

// HostFamily classifies a host by distribution family.
type HostFamily int

const (
	FamilyUnknown HostFamily = iota
	FamilySUSE
	FamilySLEMicro
	FamilyRedHat
	FamilyDebian
)

func (f HostFamily) String() string {
	switch f {
	case FamilySUSE:
		return "suse"
	case FamilySLEMicro:
		return "slemicro"
	case FamilyRedHat:
		return "redhat"
	case FamilyDebian:
		return "debian"
	default:
		return "unknown"
	}
}
