package radio

import (
	"context"
	"fmt"
	"io"
	"time"
)

// matcher tracks progress through an expected token one byte at a time.
type matcher interface {
	feed(c byte)
	done() bool
}

func (r *Radio) newMatcher(token string) matcher {
	if r.config.matchMode == MatchContiguous {
		return newContiguousMatcher(token)
	}
	return &inOrderMatcher{token: token}
}

// inOrderMatcher advances on every byte equal to the next expected one and
// ignores everything else, so "AOK" is also found in "A.O.K".
type inOrderMatcher struct {
	token string
	pos   int
}

func (m *inOrderMatcher) feed(c byte) {
	if m.pos < len(m.token) && c == m.token[m.pos] {
		m.pos++
	}
}

func (m *inOrderMatcher) done() bool { return m.pos == len(m.token) }

// contiguousMatcher is a Knuth-Morris-Pratt scanner: on a mismatch pos falls
// back to the longest token prefix that is still a suffix of the input.
type contiguousMatcher struct {
	token string
	fail  []int
	pos   int
}

func newContiguousMatcher(token string) *contiguousMatcher {
	fail := make([]int, len(token))
	k := 0
	for i := 1; i < len(token); i++ {
		for k > 0 && token[i] != token[k] {
			k = fail[k-1]
		}
		if token[i] == token[k] {
			k++
		}
		fail[i] = k
	}
	return &contiguousMatcher{token: token, fail: fail}
}

func (m *contiguousMatcher) feed(c byte) {
	if m.done() {
		return
	}
	for m.pos > 0 && c != m.token[m.pos] {
		m.pos = m.fail[m.pos-1]
	}
	if c == m.token[m.pos] {
		m.pos++
	}
}

func (m *contiguousMatcher) done() bool { return m.pos == len(m.token) }

// WaitFor consumes the stream until token has been seen or the timeout
// elapses. Received bytes are not kept. A zero timeout uses the configured
// command timeout.
//
// Whatever the outcome, the radio's trailing output is flushed before
// WaitFor returns. On timeout the failure is logged and ErrTimeout is
// returned.
func (r *Radio) WaitFor(ctx context.Context, token string, timeout time.Duration) error {
	if err := r.ready(); err != nil {
		return err
	}
	if timeout == 0 {
		timeout = r.config.commandTimeout
	}

	err := r.scanFor(ctx, token, timeout)
	switch err {
	case nil:
		io.WriteString(r.trace, token)
	case ErrTimeout:
		r.logger.Error("Timeout waiting for reply", "token", token, "timeout", timeout)
	}
	r.Flush(ctx, 0)
	return err
}

func (r *Radio) scanFor(ctx context.Context, token string, timeout time.Duration) error {
	m := r.newMatcher(token)
	d := r.newDeadline(timeout)
	for !m.done() {
		if d.expired() {
			return ErrTimeout
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		c, ok, err := r.next()
		if err != nil {
			return fmt.Errorf("waiting for %q: %w", token, err)
		}
		if ok {
			m.feed(c)
		}
	}
	return nil
}
