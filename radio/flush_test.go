package radio_test

import (
	"context"
	"testing"
	"time"

	"i4.energy/across/btbond/rn"
)

func TestFlush(t *testing.T) {
	t.Run("Nothing pending", func(t *testing.T) {
		h := newHarness(t)
		start := h.transport.Clock().Now()

		if n := h.radio.Flush(context.Background(), 0); n != 0 {
			t.Errorf("expected nothing drained, got %d", n)
		}
		if h.trace.Len() != 0 {
			t.Errorf("expected no trace output, got %q", h.trace.String())
		}
		elapsed := h.transport.Clock().Now().Sub(start)
		if elapsed <= rn.QuietWindow || elapsed > rn.QuietWindow+5*time.Millisecond {
			t.Errorf("expected a single quiet window, took %v", elapsed)
		}
	})

	t.Run("Adds missing newline", func(t *testing.T) {
		h := newHarness(t)
		h.transport.SendData("CMD")

		if n := h.radio.Flush(context.Background(), 0); n != 3 {
			t.Errorf("expected 3 bytes drained, got %d", n)
		}
		if h.trace.String() != "CMD\n" {
			t.Errorf("expected %q, got %q", "CMD\n", h.trace.String())
		}
	})

	t.Run("Keeps existing newline", func(t *testing.T) {
		h := newHarness(t)
		h.transport.SendData("END\r\n")

		if n := h.radio.Flush(context.Background(), 0); n != 5 {
			t.Errorf("expected 5 bytes drained, got %d", n)
		}
		if h.trace.String() != "END\r\n" {
			t.Errorf("expected %q, got %q", "END\r\n", h.trace.String())
		}
	})

	t.Run("Every byte restarts the quiet window", func(t *testing.T) {
		h := newHarness(t)
		h.transport.SendData("a")
		h.transport.SendDataAfter(150*time.Millisecond, "b")
		h.transport.SendDataAfter(300*time.Millisecond, "c")
		h.transport.SendDataAfter(600*time.Millisecond, "d")

		if n := h.radio.Flush(context.Background(), 0); n != 3 {
			t.Errorf("expected 3 bytes drained, got %d", n)
		}
		if got := h.transport.Pending(); got != 1 {
			t.Errorf("expected the late byte to stay queued, %d pending", got)
		}
	})

	t.Run("Custom window", func(t *testing.T) {
		h := newHarness(t)
		h.transport.SendDataAfter(600*time.Millisecond, "D")

		if n := h.radio.Flush(context.Background(), rn.DumpQuietWindow); n != 1 {
			t.Errorf("expected the byte to arrive within the window, got %d", n)
		}
	})
}
