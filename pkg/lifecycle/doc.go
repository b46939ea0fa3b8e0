/*
Package lifecycle follows a host through a reboot.

A Watcher drives package poll with a reachability probe and a command channel.
The host state only moves forward:

	unknown -> network_down -> network_up -> command_channel_ready

Failures surface as *domain.PollError (or a *domain.ProbeError when a probe
cannot run); no partial state is returned.
*/
package lifecycle
