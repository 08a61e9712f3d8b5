package bus

import "time"

// Event kinds published by the daemon, grouped by namespace prefix.
// Subscribers filter on the prefix: "net.", "sync.", "item.", "daemon.".
const (
	KindNetOnline  = "net.online"
	KindNetOffline = "net.offline"

	KindSyncStarted   = "sync.started"
	KindSyncCompleted = "sync.completed"
	KindSyncFailed    = "sync.failed"

	KindItemUpserted = "item.upserted"
	KindItemDeleted  = "item.deleted"

	KindStatusChanged = "daemon.status_changed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
