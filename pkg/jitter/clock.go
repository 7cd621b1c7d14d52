package jitter

import "github.com/samber/lo"

// MediaClock converts a remote stream timestamp (media units, e.g. 8kHz
// samples) into a monotonic millisecond value on the local time base. A
// JitterBuffer holds exactly one MediaClock, set via WithClock or SetClock.
type MediaClock interface {
	SetFormat(format MediaFormat)
	TimeOf(streamTimestamp uint32) int64
	Reset()
}

// SampleClock is a MediaClock for fixed-rate sample-clocked media (PCM,
// Opus, G.711, ...): it divides the stream timestamp by the configured
// clock rate expressed in samples per millisecond, widening the 32-bit
// wire timestamp across rollover first so presentation time stays
// monotonically increasing across a session.
type SampleClock struct {
	format           MediaFormat
	samplesPerMillis int64

	haveLast  bool
	lastTS    uint32
	rollovers int64
}

// NewSampleClock builds a SampleClock for the given format. Passing
// FormatAny defers rate configuration to a later SetFormat call.
func NewSampleClock(format MediaFormat) *SampleClock {
	c := &SampleClock{}
	c.SetFormat(format)
	return c
}

func (c *SampleClock) SetFormat(format MediaFormat) {
	if format.isAny() {
		return
	}
	c.format = format
	c.samplesPerMillis = lo.Max([]int64{int64(format.ClockRateHz) / 1000, 1})
}

func (c *SampleClock) TimeOf(streamTimestamp uint32) int64 {
	if !c.haveLast {
		c.haveLast = true
		c.lastTS = streamTimestamp
	} else if streamTimestamp < c.lastTS && c.lastTS-streamTimestamp > 1<<31 {
		c.rollovers++
		c.lastTS = streamTimestamp
	} else {
		c.lastTS = streamTimestamp
	}

	widened := int64(streamTimestamp) + c.rollovers*(1<<32)
	rate := lo.Max([]int64{c.samplesPerMillis, 1})
	return widened / rate
}

// Reset clears rollover tracking, per the Clock interface's contract.
func (c *SampleClock) Reset() {
	c.haveLast = false
	c.lastTS = 0
	c.rollovers = 0
}
