package core

import "sync/atomic"

// Stats holds diagnostic counters. Fields are updated atomically because the
// receive path bumps them from interrupt context; use Snapshot to read.
type Stats struct {
	LinesReceived   uint32 // Lines handed to the actuator
	Matched         uint32 // Lines matching a button message
	Unrecognized    uint32 // Well-formed lines matching nothing
	Overruns        uint32 // Lines discarded because they exceeded the buffer
	Dropped         uint32 // Bytes lost while a line was pending or being actuated
	Transmits       uint32 // Button messages written
	TransmitErrors  uint32 // Button messages the transport refused
	TransportErrors uint32 // Failed Open/Close calls
	Heartbeats      uint32 // Heartbeat toggles
}

func (s *Stats) inc(field *uint32) {
	atomic.AddUint32(field, 1)
}

// Snapshot returns a consistent-per-field copy of the counters
func (s *Stats) Snapshot() Stats {
	return Stats{
		LinesReceived:   atomic.LoadUint32(&s.LinesReceived),
		Matched:         atomic.LoadUint32(&s.Matched),
		Unrecognized:    atomic.LoadUint32(&s.Unrecognized),
		Overruns:        atomic.LoadUint32(&s.Overruns),
		Dropped:         atomic.LoadUint32(&s.Dropped),
		Transmits:       atomic.LoadUint32(&s.Transmits),
		TransmitErrors:  atomic.LoadUint32(&s.TransmitErrors),
		TransportErrors: atomic.LoadUint32(&s.TransportErrors),
		Heartbeats:      atomic.LoadUint32(&s.Heartbeats),
	}
}

// String formats the counters on one line
func (s Stats) String() string {
	return "lines=" + utoa(s.LinesReceived) +
		" matched=" + utoa(s.Matched) +
		" unrecognized=" + utoa(s.Unrecognized) +
		" overruns=" + utoa(s.Overruns) +
		" dropped=" + utoa(s.Dropped) +
		" tx=" + utoa(s.Transmits) +
		" tx_err=" + utoa(s.TransmitErrors) +
		" link_err=" + utoa(s.TransportErrors) +
		" heartbeats=" + utoa(s.Heartbeats)
}
