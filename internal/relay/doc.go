// Package relay implements a minimal websocket relay connection: publishing
// events with acknowledgement, filter-based subscriptions, and frame
// dispatch. It knows nothing about message encryption; the wrap protocol
// sits above it.
package relay
