package radio

import "time"

// Clock supplies the monotonic time used for deadlines and the pauses of
// the bonding sequence.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// deadline is measured from a start instant; elapsed time is recomputed on
// every poll.
type deadline struct {
	clock   Clock
	start   time.Time
	timeout time.Duration
}

func (r *Radio) newDeadline(timeout time.Duration) deadline {
	return deadline{clock: r.clock, start: r.clock.Now(), timeout: timeout}
}

func (d deadline) expired() bool {
	return d.clock.Now().Sub(d.start) > d.timeout
}

func (d *deadline) reset() {
	d.start = d.clock.Now()
}
