package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// LinkEvent captures a control-loop event for post-mortem analysis
type LinkEvent struct {
	EventType uint8  // Event type code
	Clock     uint32 // System clock at event
	Value     uint32 // Context-dependent value
}

// Event type codes
const (
	EvtLineReady    = 1 // Line handed to the actuator (Value = length)
	EvtActuate      = 2 // Indicator driven active (Value = button index)
	EvtRelease      = 3 // Hold expired, indicator released (Value = button index)
	EvtUnrecognized = 4 // Line matched no button (Value = length)
	EvtOverrun      = 5 // Receive buffer overruns since last report (Value = count)
	EvtDropped      = 6 // Bytes dropped while busy since last report (Value = count)
	EvtTransmit     = 7 // Button message written (Value = button index)
	EvtTransportErr = 8 // Open/close/write failed
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event ring, written from the main loop only
	eventRing     [EventRingSize]LinkEvent
	eventRingHead uint8

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if !debugEnabled {
		return
	}
	if debugChan == nil {
		DebugPrintln(msg)
		return
	}
	select {
	case debugChan <- msg:
	default:
	}
}

// RecordEvent appends an event to the ring buffer
func RecordEvent(eventType uint8, value uint32) {
	idx := eventRingHead
	eventRing[idx] = LinkEvent{
		EventType: eventType,
		Clock:     GetTime(),
		Value:     value,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first
func Events() []LinkEvent {
	out := make([]LinkEvent, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// EventName returns a short label for an event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtLineReady:
		return "LINE_READY"
	case EvtActuate:
		return "ACTUATE"
	case EvtRelease:
		return "RELEASE"
	case EvtUnrecognized:
		return "UNRECOGNIZED"
	case EvtOverrun:
		return "OVERRUN!"
	case EvtDropped:
		return "DROPPED"
	case EvtTransmit:
		return "TRANSMIT"
	case EvtTransportErr:
		return "TRANSPORT_ERR!"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing outputs the event ring through the debug writer
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVENTS] " + EventName(evt.EventType) +
			" clock=" + utoa(evt.Clock) +
			" v=" + utoa(evt.Value))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	for i := range eventRing {
		eventRing[i] = LinkEvent{}
	}
	eventRingHead = 0
}
