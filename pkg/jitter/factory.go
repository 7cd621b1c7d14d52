package jitter

// BufferFactory builds a JitterBuffer configured the same way every time.
// PacketSource uses one to create a fresh buffer whenever it starts
// tracking a new SSRC.
type BufferFactory interface {
	CreateBuffer() *JitterBuffer
}

// Factory is a BufferFactory that stamps out JitterBuffers sharing a
// jitter budget and a fixed set of options — clock factory, listener,
// accounting mode, and so on.
type Factory struct {
	jitterBudgetMs uint32
	newClock       func() MediaClock
	opts           []Option
}

// NewFactory builds a Factory. newClock is called once per CreateBuffer to
// produce an independent MediaClock for the new buffer — clocks are not
// shared across SSRCs since each carries its own rollover state.
func NewFactory(jitterBudgetMs uint32, newClock func() MediaClock, opts ...Option) *Factory {
	return &Factory{
		jitterBudgetMs: jitterBudgetMs,
		newClock:       newClock,
		opts:           opts,
	}
}

// CreateBuffer builds one new, independently clocked JitterBuffer.
func (f *Factory) CreateBuffer() *JitterBuffer {
	opts := make([]Option, 0, len(f.opts)+1)
	if f.newClock != nil {
		opts = append(opts, WithClock(f.newClock()))
	}
	opts = append(opts, f.opts...)
	return NewJitterBuffer(f.jitterBudgetMs, opts...)
}
