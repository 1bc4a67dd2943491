package radio

import (
	"context"
	"sync"
	"time"
)

// ManualClock is a Clock that only moves when told to. Sleep advances it
// instead of blocking.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Unix(0, 0)}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Sleep(d time.Duration) {
	c.Advance(d)
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestTransport is a test helper that simulates a radio module on a
// ManualClock. Replies are scripted per command and become readable a short
// delay after the command is written. Use Yield as the Radio's yield hook so
// that idle polling advances the clock by one millisecond per iteration.
type TestTransport struct {
	mu      sync.Mutex
	clock   *ManualClock
	queue   []timedByte
	replies map[string]reply
	writes  []string
	closed  bool

	// ReplyDelay is how long after a write the scripted reply arrives.
	ReplyDelay time.Duration
}

type timedByte struct {
	at time.Time
	c  byte
}

type reply struct {
	data  string
	delay time.Duration
}

// NewTestTransport creates a new test transport for testing.
// Exported for use in tests.
func NewTestTransport() *TestTransport {
	return &TestTransport{
		clock:      NewManualClock(),
		replies:    make(map[string]reply),
		ReplyDelay: 5 * time.Millisecond,
	}
}

// Clock returns the clock the transport schedules data on.
func (t *TestTransport) Clock() *ManualClock {
	return t.clock
}

// Yield advances the clock by one millisecond.
func (t *TestTransport) Yield() {
	t.clock.Advance(time.Millisecond)
}

// Dial implements Dialer by returning the transport itself.
func (t *TestTransport) Dial(ctx context.Context) (Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// OnWrite scripts the reply sent each time cmd is written.
func (t *TestTransport) OnWrite(cmd, data string) *TestTransport {
	return t.OnWriteAfter(cmd, data, -1)
}

// OnWriteAfter scripts a reply with its own delay.
func (t *TestTransport) OnWriteAfter(cmd, data string, delay time.Duration) *TestTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies[cmd] = reply{data: data, delay: delay}
	return t
}

// SendData queues data to be read immediately.
// This simulates receiving data from the radio.
func (t *TestTransport) SendData(data string) {
	t.SendDataAfter(0, data)
}

// SendDataAfter queues data that becomes readable once the clock has
// advanced by d.
func (t *TestTransport) SendDataAfter(d time.Duration, data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enqueue(t.clock.Now().Add(d), data)
}

func (t *TestTransport) enqueue(at time.Time, data string) {
	if n := len(t.queue); n > 0 && t.queue[n-1].at.After(at) {
		at = t.queue[n-1].at
	}
	for i := 0; i < len(data); i++ {
		t.queue = append(t.queue, timedByte{at: at, c: data[i]})
	}
}

// Writes returns every write in order.
func (t *TestTransport) Writes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.writes...)
}

// Pending returns the number of queued bytes, readable or not.
func (t *TestTransport) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}

func (t *TestTransport) Buffered() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()
	n := 0
	for _, b := range t.queue {
		if b.at.After(now) {
			break
		}
		n++
	}
	return n
}

func (t *TestTransport) ReadByte() (byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.queue) == 0 || t.queue[0].at.After(t.clock.Now()) {
		return 0, ErrNoData
	}
	c := t.queue[0].c
	t.queue = t.queue[1:]
	return c, nil
}

func (t *TestTransport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, ErrAlreadyClosed
	}
	cmd := string(p)
	t.writes = append(t.writes, cmd)
	if r, ok := t.replies[cmd]; ok {
		delay := r.delay
		if delay < 0 {
			delay = t.ReplyDelay
		}
		t.enqueue(t.clock.Now().Add(delay), r.data)
	}
	return len(p), nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}
