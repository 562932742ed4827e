package spritepaint

// SheetEventType identifies what happened to a sheet.
type SheetEventType uint8

const (
	SheetReady   SheetEventType = iota // setup or recolor committed
	SheetEvicted                       // removed after a palette invariant violation
	SheetPurged                        // removed after a deletion report
	SheetFailed                        // recoverable failure, Err is set
)

func (t SheetEventType) String() string {
	switch t {
	case SheetReady:
		return "ready"
	case SheetEvicted:
		return "evicted"
	case SheetPurged:
		return "purged"
	case SheetFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SheetEvent carries one sheet lifecycle notification.
type SheetEvent struct {
	Type        SheetEventType
	Destination string
	Timestamp   uint64 // tick that produced the event
	Err         error
}

// EventSink is the interface for optional event forwarding, for example into
// an ECS world. When set on a Painter, sheet events are forwarded after each
// tick commits.
type EventSink interface {
	EmitEvent(event SheetEvent)
}
