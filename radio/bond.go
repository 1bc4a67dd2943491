package radio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"i4.energy/across/btbond/rn"
)

// bondSession is the state of one Bond call.
type bondSession struct {
	address1 string
	address2 string
	reported string
	peer     string
}

// resolvePeer picks the address to bond with: the candidate that is not the
// attached radio. Addresses compare case-insensitively.
func (s *bondSession) resolvePeer() error {
	switch {
	case strings.EqualFold(s.reported, s.address1):
		s.peer = s.address2
	case strings.EqualFold(s.reported, s.address2):
		s.peer = s.address1
	default:
		return fmt.Errorf("%w: radio reports %q, expected %q or %q",
			ErrAddressMismatch, s.reported, s.address1, s.address2)
	}
	return nil
}

// step runs one exchange of a sequence. With AbortOnFailure unset the error
// has already been logged and is dropped so the sequence carries on.
func (r *Radio) step(ctx context.Context, cmd, expect string, timeout time.Duration) error {
	err := r.SendAndExpect(ctx, cmd, expect, timeout)
	if err == nil || (!r.config.abortOnFailure && ctx.Err() == nil) {
		return nil
	}
	return fmt.Errorf("%s: %w", strings.TrimSpace(cmd), err)
}

// Bond pairs the attached radio with a second one so that both connect
// exclusively to each other.
//
// One of address1 and address2 must be the address of the attached radio;
// the other is the remote radio. Order does not matter. Requiring both lets
// Bond catch a mistyped address: if the attached radio reports neither, the
// mismatch is logged and ErrAddressMismatch is returned before any pairing
// command is sent.
//
// Bond reboots the radio and takes several seconds.
func (r *Radio) Bond(ctx context.Context, address1, address2 string) error {
	if err := r.ready(); err != nil {
		return err
	}
	s := bondSession{address1: address1, address2: address2}

	r.clock.Sleep(r.config.setupDelay)
	if err := r.step(ctx, rn.CmdEnter, rn.CMD, rn.EnterTimeout); err != nil {
		return err
	}

	configure := []struct {
		cmd     string
		timeout time.Duration
	}{
		{rn.CmdFactoryReset, rn.FactoryTimeout},
		{rn.CmdAuthMode, 0},
		{rn.CmdPairingEvents, 0},
	}
	for _, c := range configure {
		if err := r.step(ctx, c.cmd, rn.AOK, c.timeout); err != nil {
			return err
		}
	}

	if err := r.Send(ctx, rn.CmdGetAddress); err != nil {
		return err
	}
	line := NewLine(r.config.lineCapacity)
	if err := r.ReceiveLine(ctx, line, rn.DefaultTimeout); err != nil && (r.config.abortOnFailure || ctx.Err() != nil) {
		return fmt.Errorf("read own address: %w", err)
	}
	s.reported = line.String()

	if err := s.resolvePeer(); err != nil {
		r.logger.Error("Bonding address is incorrect",
			"reported", s.reported,
			"address1", s.address1,
			"address2", s.address2,
		)
		return err
	}
	r.logger.Info("Bonding radio", "address", s.reported, "peer", s.peer)

	if err := r.step(ctx, rn.RemoteAddress(s.peer), rn.AOK, 0); err != nil {
		return err
	}
	r.clock.Sleep(rn.SettleDelay)
	if err := r.step(ctx, rn.CmdSecurityMode, rn.AOK, 0); err != nil {
		return err
	}
	if err := r.step(ctx, rn.PinCode(r.config.pinCode), rn.AOK, 0); err != nil {
		return err
	}
	if err := r.step(ctx, rn.CmdReboot, rn.Reboot, rn.RebootTimeout); err != nil {
		return err
	}
	r.clock.Sleep(rn.SettleDelay)

	if err := r.step(ctx, rn.CmdEnter, rn.CMD, rn.ReenterTimeout); err != nil {
		return err
	}
	if err := r.Send(ctx, rn.CmdBasicSettings); err != nil {
		return err
	}
	r.Flush(ctx, rn.DumpQuietWindow)
	if err := r.step(ctx, rn.CmdExit, rn.END, 0); err != nil {
		return err
	}
	r.Flush(ctx, 0)

	return ctx.Err()
}

// IsConnected reports whether the radio currently holds a connection. It
// enters and leaves command mode to query the status, which takes well over
// a second; use it sparingly.
//
// Any failure along the way yields false.
func (r *Radio) IsConnected(ctx context.Context) bool {
	if r.ready() != nil {
		return false
	}

	r.SendAndExpect(ctx, rn.CmdEnter, rn.CMD, rn.EnterTimeout)
	if err := r.Send(ctx, rn.CmdGetConnection); err != nil {
		return false
	}

	status := NewLine(r.config.lineCapacity)
	err := r.ReceiveLine(ctx, status, rn.DefaultTimeout)
	connected := err == nil && strings.EqualFold(status.String(), rn.Connected)
	if err == nil && rn.Classify(status.String()) == rn.TypeError {
		r.logger.Warn("Connection status rejected", "reply", status.String())
	}

	r.SendAndExpect(ctx, rn.CmdExit, rn.END, 0)
	return connected
}

// PrintSettingsAndExit enters command mode, dumps the basic and extended
// settings to the trace and leaves command mode again. The dumped text is
// also returned; its content is not validated.
func (r *Radio) PrintSettingsAndExit(ctx context.Context) string {
	if r.ready() != nil {
		return ""
	}

	var dump strings.Builder
	r.Send(ctx, rn.CmdEnter)
	r.WaitFor(ctx, rn.CMD, rn.EnterTimeout)
	r.Flush(ctx, 0)

	r.Send(ctx, rn.CmdBasicSettings)
	r.drain(ctx, 0, &dump)
	r.trace.Write([]byte("\n"))
	r.Send(ctx, rn.CmdExtSettings)
	r.drain(ctx, 0, &dump)

	r.Send(ctx, rn.CmdExit)
	r.WaitFor(ctx, rn.END, rn.ExitTimeout)

	r.trace.Write([]byte("\nFinished settings print and exited command mode\n"))
	return dump.String()
}
