package jitter

import (
	"testing"

	"github.com/huandu/go-assert"
	"github.com/pion/rtp"
)

func testFactory(budget uint32) *Factory {
	return NewFactory(budget, func() MediaClock { return identityClock{} })
}

// Writing under a new SSRC re-creates the underlying buffer instead of
// reusing the old one.
func Test_PacketSource_reinitializes_on_SSRC_change(t *testing.T) {
	src := NewPacketSource(testFactory(10))

	src.Put(&rtp.Packet{
		Header:  rtp.Header{SSRC: 1, SequenceNumber: 1, Timestamp: 0},
		Payload: []byte{0xAA},
	})
	first := src.Buffer()
	assert.Assert(t, first != nil)

	src.Put(&rtp.Packet{
		Header:  rtp.Header{SSRC: 2, SequenceNumber: 1, Timestamp: 0},
		Payload: []byte{0xBB},
	})
	second := src.Buffer()
	assert.Assert(t, second != nil)
	assert.Assert(t, first != second)
}

func Test_PacketSource_Get_before_any_Put(t *testing.T) {
	src := NewPacketSource(testFactory(10))
	_, ok := src.Get(0)
	assert.Equal(t, ok, false)
}

func Test_PacketSource_Put_writes_into_buffer(t *testing.T) {
	src := NewPacketSource(testFactory(5))

	src.Put(&rtp.Packet{
		Header:  rtp.Header{SSRC: 9, SequenceNumber: 1, Timestamp: 0},
		Payload: []byte{1},
	})
	src.Put(&rtp.Packet{
		Header:  rtp.Header{SSRC: 9, SequenceNumber: 2, Timestamp: 10},
		Payload: []byte{2},
	})

	assert.Equal(t, src.Buffer().durationTotalMs, int64(10))
}
