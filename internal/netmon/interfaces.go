// Package netmon observes network reachability of the remote document
// service and exposes edge-triggered "came back online" notifications.
//
// Connectivity readings are advisory only: an online reading never
// guarantees that a subsequent network call succeeds, so all network calls
// handle failure independently. The edge-triggered flag exists so that a
// consumer polling IsOnline cannot fire redundant queue-drain passes on
// every poll; the flag is raised exactly once per offline-to-online
// transition and stays raised until explicitly acknowledged.
package netmon

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/netmon_mock.go -package=mock

// Monitor is the connection monitor contract consumed by the sync engine
// and its background job.
type Monitor interface {
	// IsOnline reports the best-effort current connectivity reading.
	IsOnline() bool

	// JustCameOnline reports whether an offline-to-online transition has
	// happened since the last AckOnline call.
	JustCameOnline() bool

	// AckOnline resets the edge-triggered transition flag. The caller
	// acknowledges it has scheduled whatever work the transition
	// warranted.
	AckOnline()

	// Notify returns a channel that receives a coalesced signal on every
	// offline-to-online transition. Intended for the background sync job;
	// the channel is buffered and never blocks the monitor.
	Notify() <-chan struct{}

	// SetOnline force-feeds a connectivity reading. Used by tests and by
	// components that learn about connectivity as a side effect of their
	// own calls.
	SetOnline(online bool)

	// Run drives the probe loop until ctx is cancelled.
	Run(ctx context.Context)
}

// Prober performs a single reachability check. A nil return means the
// remote endpoint answered.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a plain function to the [Prober] interface.
type ProberFunc func(ctx context.Context) error

func (f ProberFunc) Probe(ctx context.Context) error { return f(ctx) }
