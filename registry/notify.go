package registry

import "github.com/rs/zerolog"

// Notifier observes committed registry mutations. Notifications are
// delivered synchronously in commit order; implementations must not block.
type Notifier interface {
	// RecordStored is called after a record is committed.
	RecordStored(StoredEvent)

	// RecordDeleted is called after a record is deleted.
	RecordDeleted(DeletedEvent)
}

// ChanNotifier feeds events to monitor goroutines over buffered channels.
// An event is dropped when its channel buffer is full rather than blocking
// the mutating path.
type ChanNotifier struct {
	stored  chan StoredEvent
	deleted chan DeletedEvent
}

// Compile-time interface check.
var _ Notifier = (*ChanNotifier)(nil)

// NewChanNotifier creates a channel notifier with the given buffer size per
// event kind.
func NewChanNotifier(buffer int) *ChanNotifier {
	return &ChanNotifier{
		stored:  make(chan StoredEvent, buffer),
		deleted: make(chan DeletedEvent, buffer),
	}
}

// Stored returns the stored-event feed.
func (n *ChanNotifier) Stored() <-chan StoredEvent { return n.stored }

// Deleted returns the deleted-event feed.
func (n *ChanNotifier) Deleted() <-chan DeletedEvent { return n.deleted }

// RecordStored implements Notifier.
func (n *ChanNotifier) RecordStored(evt StoredEvent) {
	select {
	case n.stored <- evt:
	default:
	}
}

// RecordDeleted implements Notifier.
func (n *ChanNotifier) RecordDeleted(evt DeletedEvent) {
	select {
	case n.deleted <- evt:
	default:
	}
}

// LogNotifier writes registry events to a structured log.
type LogNotifier struct {
	log zerolog.Logger
}

// Compile-time interface check.
var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a notifier that logs events through logger.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: logger}
}

// RecordStored implements Notifier.
func (n *LogNotifier) RecordStored(evt StoredEvent) {
	n.log.Info().
		Uint64("id", evt.ID).
		Str("owner", evt.Owner).
		Str("content_hash", evt.ContentHash).
		Uint64("timestamp", evt.Timestamp).
		Msg("record stored")
}

// RecordDeleted implements Notifier.
func (n *LogNotifier) RecordDeleted(evt DeletedEvent) {
	n.log.Info().
		Uint64("id", evt.ID).
		Str("owner", evt.Owner).
		Msg("record deleted")
}
