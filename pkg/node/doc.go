// Package node reads operating-system facts from a node through a ports.CommandChannel.
package node
