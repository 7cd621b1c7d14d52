package jitter

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func Test_NullListener_is_inert(t *testing.T) {
	var l NullListener
	l.OnLateDiscard(&Packet{}, 0)
	l.OnReady(0, 0)
	l.OnSimpleOverflow(&Packet{})
	l.OnPositiveOverflow(0, 0)
	l.OnEmptyRead()
}

func Test_LogrusListener_emits_without_panicking(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.TraceLevel)
	l := NewLogrusListener(log)

	l.OnLateDiscard(&Packet{SequenceNumber: 7}, 100)
	l.OnReady(50, 30)
	l.OnSimpleOverflow(&Packet{SequenceNumber: 1})
	l.OnPositiveOverflow(3, 5)
	l.OnEmptyRead()
}

func Test_NewLogrusListener_defaults_to_standard_logger(t *testing.T) {
	l := NewLogrusListener(nil)
	if l.Log == nil {
		t.Fatalf("expected a default logger")
	}
}
