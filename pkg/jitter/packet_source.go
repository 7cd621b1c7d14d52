package jitter

import "github.com/pion/rtp"

// PacketSource feeds *rtp.Packet arrivals for a single RTP stream into a
// JitterBuffer, re-creating the buffer whenever the stream's SSRC changes.
//
// Sequence-number wraparound is handled inside JitterBuffer.Write itself
// (a signed 16-bit diff on the raw wire sequence numbers already orders
// correctly across the 0xFFFF boundary); stream-timestamp rollover is
// handled inside the MediaClock (SampleClock tracks it and clears it on
// Reset). PacketSource therefore passes both straight through unmodified.
type PacketSource struct {
	factory BufferFactory
	buffer  *JitterBuffer

	haveSSRC bool
	ssrc     uint32
}

// NewPacketSource builds a PacketSource that asks factory for a new
// JitterBuffer each time the SSRC changes.
func NewPacketSource(factory BufferFactory) *PacketSource {
	return &PacketSource{factory: factory}
}

// Put derives a Packet from pkt and writes it into the underlying
// JitterBuffer, creating a fresh buffer first if the SSRC has changed.
func (s *PacketSource) Put(pkt *rtp.Packet) {
	if !s.haveSSRC || s.ssrc != pkt.SSRC {
		s.buffer = s.factory.CreateBuffer()
		s.ssrc = pkt.SSRC
		s.haveSSRC = true
	}

	s.buffer.Write(&Packet{
		SequenceNumber:  pkt.SequenceNumber,
		StreamTimestamp: pkt.Timestamp,
		Payload:         pkt.Payload,
	})
}

// Get pulls the next ready packet for localNowMs, see JitterBuffer.Read.
func (s *PacketSource) Get(localNowMs int64) (*Packet, bool) {
	if s.buffer == nil {
		return nil, false
	}
	return s.buffer.Read(localNowMs)
}

// Buffer returns the JitterBuffer currently backing this source, or nil
// before the first packet has arrived.
func (s *PacketSource) Buffer() *JitterBuffer { return s.buffer }
