package jitter

import "github.com/sirupsen/logrus"

// Listener receives diagnostic notifications from a JitterBuffer. None of
// these calls may block or retain the passed Packet beyond the call.
type Listener interface {
	// OnLateDiscard fires when write silently drops a packet that arrived
	// after the read cursor has already passed its presentation time.
	OnLateDiscard(pkt *Packet, timestampMs int64)

	// OnReady fires exactly once per session, when duration_total_ms first
	// exceeds the configured jitter budget and the latch closes.
	OnReady(durationTotalMs int64, jitterBudgetMs uint32)

	// OnSimpleOverflow fires when an in-order write evicts the packet
	// sitting at the read cursor because the ring has wrapped onto it.
	OnSimpleOverflow(evicted *Packet)

	// OnPositiveOverflow fires once per gap-write that laps the read
	// cursor and evicts at least one packet, after all evictions for that
	// write have completed.
	OnPositiveOverflow(evictedCount int, newReadCursor int)

	// OnEmptyRead fires when read is called on a buffer with nothing
	// presentable (not ready, or duration_total_ms == 0).
	OnEmptyRead()
}

// NullListener discards every notification. It is the default Listener for
// a JitterBuffer constructed without WithListener, and is therefore called
// on every Write/Read — it must be inert, not a placeholder.
type NullListener struct{}

func (NullListener) OnLateDiscard(*Packet, int64) {}
func (NullListener) OnReady(int64, uint32)        {}
func (NullListener) OnSimpleOverflow(*Packet)     {}
func (NullListener) OnPositiveOverflow(int, int)  {}
func (NullListener) OnEmptyRead()                 {}

// LogrusListener emits diagnostics through a logrus.FieldLogger, matching
// the trace/warn split called for by the buffer's diagnostics contract:
// late discards and overflow evictions warn, everything else traces.
type LogrusListener struct {
	Log logrus.Ext1FieldLogger
}

// NewLogrusListener wraps log, defaulting to logrus's standard logger if
// log is nil.
func NewLogrusListener(log logrus.Ext1FieldLogger) *LogrusListener {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogrusListener{Log: log}
}

func (l *LogrusListener) OnLateDiscard(pkt *Packet, timestampMs int64) {
	l.Log.WithFields(logrus.Fields{
		"sequenceNumber":     pkt.SequenceNumber,
		"presentationTimeMs": pkt.PresentationTimeMs,
		"timestampMs":        timestampMs,
	}).Warn("jitter: discarding late packet")
}

func (l *LogrusListener) OnReady(durationTotalMs int64, jitterBudgetMs uint32) {
	l.Log.WithFields(logrus.Fields{
		"durationTotalMs": durationTotalMs,
		"jitterBudgetMs":  jitterBudgetMs,
	}).Trace("jitter: buffer ready")
}

func (l *LogrusListener) OnSimpleOverflow(evicted *Packet) {
	l.Log.WithFields(logrus.Fields{
		"sequenceNumber": evicted.SequenceNumber,
	}).Warn("jitter: simple overflow eviction")
}

func (l *LogrusListener) OnPositiveOverflow(evictedCount int, newReadCursor int) {
	l.Log.WithFields(logrus.Fields{
		"evictedCount":  evictedCount,
		"newReadCursor": newReadCursor,
	}).Warn("jitter: positive overflow eviction")
}

func (l *LogrusListener) OnEmptyRead() {
	l.Log.Trace("jitter: read on empty buffer")
}
