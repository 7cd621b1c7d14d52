package jitter

import (
	"sync"
	"time"
)

// QueueSize is the fixed capacity of the ring buffer's slot array.
const QueueSize = 100

// JitterBuffer absorbs short-term variance in packet inter-arrival time so
// that a consumer polling Read on its own cadence sees packets in
// presentation-time order. It owns a fixed-capacity ring of QueueSize
// slots, read/write cursors, a running duration total, and an RFC 3550
// inter-arrival jitter estimate.
//
// A JitterBuffer is not safe for concurrent Write/Read from multiple
// goroutines at once beyond the mutual exclusion its own lock provides;
// callers are expected to serialize calls the way a receive loop and a
// media pacer naturally do, one instance per session.
type JitterBuffer struct {
	sync.Mutex

	queue       [QueueSize]*Packet
	readCursor  int
	writeCursor int

	durationTotalMs int64
	ready           bool
	readStarted     bool
	writeStarted    bool

	driftMs     int64
	timestampMs int64

	estimator JitterEstimator

	jitterBudgetMs uint32
	clock          MediaClock
	format         MediaFormat
	listener       Listener
	nowFunc        func() int64

	correctedAccounting bool
}

// Option configures a JitterBuffer at construction time.
type Option func(*JitterBuffer)

// WithClock sets the MediaClock used to derive presentation times.
func WithClock(c MediaClock) Option {
	return func(b *JitterBuffer) { b.SetClock(c) }
}

// WithFormat sets the media format propagated to the clock. FormatAny is
// ignored, matching SetFormat's own behavior.
func WithFormat(f MediaFormat) Option {
	return func(b *JitterBuffer) { b.SetFormat(f) }
}

// WithListener installs a diagnostic sink. The default is NullListener.
func WithListener(l Listener) Option {
	return func(b *JitterBuffer) { b.listener = l }
}

// WithCorrectedAccounting opts into a duration_total_ms adjustment on
// out-of-order insertion that the original source's diff<0 branch omits
// (see the CorrectedAccounting section of SPEC_FULL.md). Off by default so
// behavior stays bit-exact with the source.
func WithCorrectedAccounting() Option {
	return func(b *JitterBuffer) { b.correctedAccounting = true }
}

// WithNowFunc overrides the wall-clock source used on every Write. Tests
// use this for deterministic arrival timing; production callers have no
// reason to set it.
func WithNowFunc(f func() int64) Option {
	return func(b *JitterBuffer) { b.nowFunc = f }
}

// NewJitterBuffer constructs a JitterBuffer that will not deliver packets
// until durationTotalMs exceeds jitterBudgetMs. A clock must be supplied,
// either here via WithClock or later via SetClock, before the first Write.
func NewJitterBuffer(jitterBudgetMs uint32, opts ...Option) *JitterBuffer {
	b := &JitterBuffer{
		jitterBudgetMs: jitterBudgetMs,
		readStarted:    true, // pre-armed, per the design this buffer follows
		listener:       NullListener{},
		nowFunc:        defaultNowFunc,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func defaultNowFunc() int64 {
	return time.Now().UnixMilli()
}

// SetClock installs the MediaClock. If a format has already been set (and
// is not FormatAny) it is propagated to the new clock immediately.
func (b *JitterBuffer) SetClock(c MediaClock) {
	b.clock = c
	if c != nil && !b.format.isAny() {
		c.SetFormat(b.format)
	}
}

// SetFormat sets the media format, propagating it to the clock if one is
// already installed. FormatAny is ignored.
func (b *JitterBuffer) SetFormat(f MediaFormat) {
	b.format = f
	if b.clock != nil && !f.isAny() {
		b.clock.SetFormat(f)
	}
}

// GetJitterBudget returns the configured readiness threshold in ms.
func (b *JitterBuffer) GetJitterBudget() uint32 { return b.jitterBudgetMs }

// GetInterArrivalJitter returns the current RFC 3550 jitter estimate.
func (b *JitterBuffer) GetInterArrivalJitter() float64 { return b.estimator.J() }

// GetMaxJitter returns the largest jitter estimate ever observed.
func (b *JitterBuffer) GetMaxJitter() float64 { return b.estimator.Jm() }

// Write consumes one packet: it derives a presentation time, folds the
// arrival into the jitter estimate, and inserts the packet into the ring
// with at most one eviction. It never blocks and never allocates on a
// steady-state path. Write panics if no clock has been configured — that
// is a programmer error, not a runtime condition to recover from.
func (b *JitterBuffer) Write(packet *Packet) {
	b.Lock()
	defer b.Unlock()

	if b.clock == nil {
		panic("jitter: Write called before a MediaClock was set")
	}

	t := b.clock.TimeOf(packet.StreamTimestamp)
	packet.PresentationTimeMs = t
	now := b.nowFunc()

	b.estimator.Update(now, t)

	if b.ready && b.readStarted && t <= b.timestampMs {
		b.listener.OnLateDiscard(packet, b.timestampMs)
		return
	}

	if !b.writeStarted {
		b.queue[0] = packet
		b.writeCursor = 0
		b.writeStarted = true
	} else {
		prev := b.queue[b.writeCursor]
		diff := int(int16(packet.SequenceNumber - prev.SequenceNumber))

		switch {
		case diff == 1:
			b.writeCursor = inc(b.writeCursor, 1)
			if b.writeCursor == b.readCursor && b.queue[b.writeCursor] != nil {
				evicted := b.queue[b.writeCursor]
				b.queue[b.writeCursor] = nil
				b.durationTotalMs -= evicted.DurationMs
				b.readCursor = inc(b.readCursor, 1)
				b.listener.OnSimpleOverflow(evicted)
			}
			b.queue[b.writeCursor] = packet
			prev.DurationMs = t - prev.PresentationTimeMs
			b.durationTotalMs += prev.DurationMs

		case diff > 1:
			w := b.writeCursor
			nextWriteCursor := inc(w, diff)
			b.applyPositiveOverflow(w, nextWriteCursor, diff)
			b.writeCursor = nextWriteCursor
			b.queue[b.writeCursor] = packet
			prev.DurationMs = t - prev.PresentationTimeMs
			b.durationTotalMs += prev.DurationMs

		default: // diff < 0: out-of-order, in-window
			rightIndex := b.writeCursor
			b.writeCursor = inc(b.writeCursor, diff)
			b.queue[b.writeCursor] = packet

			i := dec(b.writeCursor, 1)
			for count := 0; b.queue[i] == nil && count < QueueSize-1; count++ {
				i = dec(i, 1)
			}
			if left := b.queue[i]; left != nil {
				oldLeftDur := left.DurationMs
				left.DurationMs = t - left.PresentationTimeMs
				if b.correctedAccounting {
					b.durationTotalMs += left.DurationMs - oldLeftDur
				}
			}

			j := inc(b.writeCursor, 1)
			for j != rightIndex && b.queue[j] == nil {
				j = inc(j, 1)
			}
			if right := b.queue[j]; right != nil {
				packet.DurationMs = right.PresentationTimeMs - t
				if b.correctedAccounting {
					b.durationTotalMs += packet.DurationMs
				}
			}
			// duration_total_ms is otherwise left unchanged in the
			// default mode: the new packet's duration is recorded but
			// not summed. See WithCorrectedAccounting.
		}
	}

	if !b.ready && b.durationTotalMs > int64(b.jitterBudgetMs) {
		b.ready = true
		b.listener.OnReady(b.durationTotalMs, b.jitterBudgetMs)
	}
}

// applyPositiveOverflow evicts a run of packets backward from
// nextWriteCursor when a gap-write's new cursor laps the read cursor.
// w and nw are both pre-wrap-aware: w is the writeCursor before this
// write, nw is its wrapped post-advance value.
func (b *JitterBuffer) applyPositiveOverflow(w, nw, diff int) {
	boundaryExceeds := w+diff >= QueueSize
	r := b.readCursor

	evict := false
	switch {
	case boundaryExceeds && r > w && nw < r:
		evict = true
	case boundaryExceeds && r < w && nw >= r:
		evict = true
	case !boundaryExceeds && r > w && nw >= r:
		evict = true
	}
	if !evict {
		return
	}

	evictedCount, newReadCursor := b.cleanOnPositiveOverflow(nw)
	if evictedCount > 0 {
		b.listener.OnPositiveOverflow(evictedCount, newReadCursor)
	}
}

// cleanOnPositiveOverflow removes packets walking backward from nw,
// stopping at the first empty slot or after one full lap back to the old
// read cursor. The oldest survivor becomes the slot just past nw.
func (b *JitterBuffer) cleanOnPositiveOverflow(nw int) (evictedCount, newReadCursor int) {
	oldRead := b.readCursor
	b.readCursor = inc(nw, 1)

	boundary := dec(oldRead, 1)
	cur := nw
	for cur != boundary {
		if b.queue[cur] == nil {
			break
		}
		evicted := b.queue[cur]
		b.queue[cur] = nil
		b.durationTotalMs -= evicted.DurationMs
		evictedCount++
		cur = dec(cur, 1)
	}
	return evictedCount, b.readCursor
}

// Read returns the next packet in presentation-time order, or (nil, false)
// if the buffer is still warming up or has nothing buffered. It never
// blocks; the caller drives its own cadence and is responsible for pacing
// using each packet's DurationMs.
func (b *JitterBuffer) Read(localNowMs int64) (*Packet, bool) {
	b.Lock()
	defer b.Unlock()

	if !b.ready {
		b.listener.OnEmptyRead()
		return nil, false
	}

	if !b.readStarted {
		b.readStarted = true
		b.driftMs = b.queue[0].PresentationTimeMs - localNowMs
	}

	b.timestampMs = localNowMs + b.driftMs

	if b.durationTotalMs == 0 {
		b.listener.OnEmptyRead()
		return nil, false
	}

	packet := b.queue[b.readCursor]
	b.queue[b.readCursor] = nil
	b.durationTotalMs -= packet.DurationMs
	b.readCursor = inc(b.readCursor, 1)

	for count := 0; b.durationTotalMs >= 0 && b.queue[b.readCursor] == nil && count < QueueSize; count++ {
		b.readCursor = inc(b.readCursor, 1)
	}

	return packet, true
}

// Reset returns the buffer to its initial state: cursors and duration
// total zeroed, the ready latch reopened, and the clock reset. Slot
// contents are left in place; the next Write overwrites slot 0 and
// subsequent writes follow the cursor from there.
func (b *JitterBuffer) Reset() {
	b.Lock()
	defer b.Unlock()

	b.durationTotalMs = 0
	b.driftMs = 0
	b.estimator.Reset()

	b.ready = false
	b.readStarted = true
	b.writeStarted = false

	b.readCursor = 0
	b.writeCursor = 0

	if b.clock != nil {
		b.clock.Reset()
	}
}

func mod(i, c int) int {
	i %= c
	if i < 0 {
		i += c
	}
	return i
}

func inc(i, delta int) int { return mod(i+delta, QueueSize) }
func dec(i, delta int) int { return mod(i-delta, QueueSize) }
