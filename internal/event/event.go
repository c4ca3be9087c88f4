package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	Resolved Type = iota + 1
	CopyStarted
	CopyCompleted
	CopyFailed
	VerifyStarted
	VerifyOK
	VerifyFailed
)

var typeNames = [...]string{
	Resolved:      "Resolved",
	CopyStarted:   "CopyStarted",
	CopyCompleted: "CopyCompleted",
	CopyFailed:    "CopyFailed",
	VerifyStarted: "VerifyStarted",
	VerifyOK:      "VerifyOK",
	VerifyFailed:  "VerifyFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Container string        // container reference being copied to or from
	Root      string        // resolved host root filesystem (Resolved)
	Src       string        // host source path
	Dst       string        // host destination path
	Size      int64         // bytes copied (CopyCompleted) or expected (CopyStarted)
	Elapsed   time.Duration // copy duration (CopyCompleted)
	Method    string        // copy strategy (CopyCompleted)
	Error     error
}

// Handler receives events synchronously, in emission order.
type Handler func(Event)

// Emit sends ev to h, stamping the time. A nil handler discards the event.
func (h Handler) Emit(ev Event) {
	if h == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	h(ev)
}
