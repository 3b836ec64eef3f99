// Package outbox relays order lifecycle events written transactionally by
// the storage layer to a message broker. Events stay queued in the outbox
// table until a publish attempt succeeds, so a broker outage never blocks or
// loses an order write.
package outbox

import (
	"encoding/json"
	"time"
)

// Record is one queued event row.
type Record struct {
	ID        int64
	Topic     string
	EventType string
	Key       string
	Payload   json.RawMessage
	CreatedAt time.Time
	SentAt    *time.Time
}
