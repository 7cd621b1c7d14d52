package jitter

// Packet is the wire-agnostic carrier the buffer operates on. SequenceNumber
// and StreamTimestamp arrive from the wire; PresentationTimeMs and
// DurationMs are derived and written by the buffer itself.
type Packet struct {
	SequenceNumber   uint16
	StreamTimestamp  uint32
	PresentationTimeMs int64
	DurationMs       int64
	Payload          []byte
}

// MediaFormat names a media rate/codec pairing understood by a MediaClock.
// FormatAny is the sentinel the buffer and clock both treat as "no format
// configured yet" and silently ignore.
type MediaFormat struct {
	Name        string
	ClockRateHz uint32
}

// FormatAny is the zero MediaFormat, used as the "unset" sentinel.
var FormatAny = MediaFormat{}

func (f MediaFormat) isAny() bool {
	return f == FormatAny
}
