package jitter

import (
	"testing"

	"github.com/huandu/go-assert"
)

func Test_JitterEstimator_constant_interarrival_converges_to_zero(t *testing.T) {
	var e JitterEstimator

	now, ts := int64(0), int64(0)
	for i := 0; i < 50; i++ {
		now += 10
		ts += 10
		e.Update(now, ts)
	}

	assert.Equal(t, e.J(), float64(0))
}

// One late packet arriving 30ms after its predecessor while its timestamp
// advances only 10ms (D = 20) should push J to exactly 1.25 given the
// RFC 3550 update formula, and latch that as the running max.
func Test_JitterEstimator_one_late_packet_produces_expected_jump(t *testing.T) {
	var e JitterEstimator

	now, ts := int64(0), int64(0)
	for i := 0; i < 5; i++ {
		now += 10
		ts += 10
		e.Update(now, ts)
	}
	assert.Equal(t, e.J(), float64(0))

	now += 30 // arrives 20ms later than the 10ms cadence on the wall clock
	ts += 10
	e.Update(now, ts)

	assert.Equal(t, e.J(), 1.25)
	assert.Equal(t, e.Jm(), 1.25)
}

// Alternating +d/-d perturbation keeps J bounded by d.
func Test_JitterEstimator_alternating_perturbation_is_bounded(t *testing.T) {
	var e JitterEstimator
	const d = 20

	now, ts := int64(0), int64(0)
	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			now += 10 + d
		} else {
			now += 10 - d
		}
		ts += 10
		j := e.Update(now, ts)
		assert.Assert(t, j <= float64(d))
	}
}

func Test_JitterEstimator_Reset(t *testing.T) {
	var e JitterEstimator
	e.Update(0, 0)
	e.Update(40, 10)

	e.Reset()

	assert.Equal(t, e.J(), float64(0))
	assert.Equal(t, e.Jm(), float64(0))
}
