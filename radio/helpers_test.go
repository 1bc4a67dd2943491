package radio_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"i4.energy/across/btbond/radio"
	"i4.energy/across/btbond/rn"
)

// harness bundles a Radio with the fake module it talks to and the
// buffers its trace and error log end up in.
type harness struct {
	radio     *radio.Radio
	transport *radio.TestTransport
	trace     *bytes.Buffer
	log       *bytes.Buffer
}

func newHarness(t *testing.T, configure ...func(*radio.ConfigBuilder)) *harness {
	t.Helper()

	h := &harness{
		transport: radio.NewTestTransport(),
		trace:     &bytes.Buffer{},
		log:       &bytes.Buffer{},
	}

	builder := radio.NewConfigBuilder().
		WithDialer(h.transport).
		WithClock(h.transport.Clock()).
		WithYield(h.transport.Yield).
		WithVerbose(true).
		WithTrace(h.trace).
		WithLogger(slog.New(slog.NewTextHandler(h.log, nil)))
	for _, fn := range configure {
		fn(builder)
	}

	config, err := builder.Build()
	if err != nil {
		t.Fatalf("unexpected error from Build(): %v", err)
	}

	r, err := radio.New(context.Background(), config)
	if err != nil {
		t.Fatalf("failed to create radio: %v", err)
	}
	t.Cleanup(func() { r.Close() })

	h.radio = r
	return h
}

// scriptModule answers every command of the bonding, status and settings
// sequences the way a healthy module does.
func scriptModule(tt *radio.TestTransport, ownAddress string) {
	tt.OnWrite(rn.CmdEnter, "CMD\r\n")
	tt.OnWrite(rn.CmdExit, "END\r\n")
	tt.OnWrite(rn.CmdFactoryReset, "AOK\r\n")
	tt.OnWrite(rn.CmdAuthMode, "AOK\r\n")
	tt.OnWrite(rn.CmdPairingEvents, "AOK\r\n")
	tt.OnWrite(rn.CmdGetAddress, ownAddress+"\r\n")
	tt.OnWrite(rn.CmdSecurityMode, "AOK\r\n")
	tt.OnWrite(rn.PinCode(rn.DefaultPinCode), "AOK\r\n")
	tt.OnWrite(rn.CmdReboot, "Reboot!\r\n")
	tt.OnWrite(rn.CmdBasicSettings, "***Settings***\r\nBTA="+ownAddress+"\r\n")
	tt.OnWrite(rn.CmdExtSettings, "***ADVANCED Settings***\r\nSrvName= SPP\r\n")
}

func equalWrites(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
