package domain

import "context"

// EventMonitor defines the interface for downstream event stream connectors
// (the exchange's own reporting channel, observed for logs only).
type EventMonitor interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
}
