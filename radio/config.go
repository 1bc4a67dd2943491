package radio

import (
	"errors"
	"io"
	"log/slog"
	"runtime"
	"time"

	"i4.energy/across/btbond/rn"
)

// MatchMode selects how WaitFor recognises the expected reply token.
type MatchMode int

const (
	// MatchInOrder completes once the token's characters have arrived in
	// order, not necessarily next to each other. A mismatching byte leaves
	// the match position untouched.
	MatchInOrder MatchMode = iota
	// MatchContiguous requires the token to arrive as a contiguous run of
	// bytes.
	MatchContiguous
)

func (m MatchMode) String() string {
	switch m {
	case MatchInOrder:
		return "inorder"
	case MatchContiguous:
		return "contiguous"
	default:
		return "unknown"
	}
}

// ParseMatchMode converts the textual form used in configuration files and
// flags.
func ParseMatchMode(s string) (MatchMode, error) {
	switch s {
	case "", "inorder", "in-order":
		return MatchInOrder, nil
	case "contiguous", "strict":
		return MatchContiguous, nil
	}
	return MatchInOrder, errors.New("unknown match mode: " + s)
}

func (c *Config) validate() error {
	if c.dialer == nil {
		return ErrNoDialer
	}
	if c.lineCapacity < 2 {
		return errors.New("line capacity must be at least 2")
	}
	return nil
}

// Config holds the settings of a Radio. Use NewConfigBuilder to create one.
type Config struct {
	dialer         Dialer
	commandTimeout time.Duration
	quietWindow    time.Duration
	lineCapacity   int
	matchMode      MatchMode
	verbose        bool
	trace          io.Writer
	logger         *slog.Logger
	clock          Clock
	yield          func()
	abortOnFailure bool
	pinCode        string
	setupDelay     time.Duration
}

func (c *Config) setDefaults() {
	if c.commandTimeout == 0 {
		c.commandTimeout = rn.DefaultTimeout
	}
	if c.quietWindow == 0 {
		c.quietWindow = rn.QuietWindow
	}
	if c.lineCapacity == 0 {
		c.lineCapacity = rn.LineCapacity
	}
	if c.trace == nil {
		c.trace = io.Discard
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.clock == nil {
		c.clock = systemClock{}
	}
	if c.yield == nil {
		c.yield = runtime.Gosched
	}
	if c.pinCode == "" {
		c.pinCode = rn.DefaultPinCode
	}
	if c.setupDelay == 0 {
		c.setupDelay = rn.DefaultSetupWait
	}
}

// ConfigBuilder assembles a Config.
type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.dialer = d
	return b
}

// WithCommandTimeout sets the deadline used when an exchange does not name
// its own.
func (b *ConfigBuilder) WithCommandTimeout(d time.Duration) *ConfigBuilder {
	b.config.commandTimeout = d
	return b
}

// WithQuietWindow sets how long the stream must stay silent before a flush
// considers the radio done talking.
func (b *ConfigBuilder) WithQuietWindow(d time.Duration) *ConfigBuilder {
	b.config.quietWindow = d
	return b
}

// WithLineCapacity sets the response buffer size for single line replies,
// terminator slot included.
func (b *ConfigBuilder) WithLineCapacity(n int) *ConfigBuilder {
	b.config.lineCapacity = n
	return b
}

func (b *ConfigBuilder) WithMatchMode(m MatchMode) *ConfigBuilder {
	b.config.matchMode = m
	return b
}

// WithVerbose enables the byte trace. When disabled the trace writer is
// replaced by io.Discard; errors are still logged.
func (b *ConfigBuilder) WithVerbose(v bool) *ConfigBuilder {
	b.config.verbose = v
	return b
}

// WithTrace sets the writer receiving the human readable exchange trace.
func (b *ConfigBuilder) WithTrace(w io.Writer) *ConfigBuilder {
	b.config.trace = w
	return b
}

func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.logger = l
	return b
}

func (b *ConfigBuilder) WithClock(c Clock) *ConfigBuilder {
	b.config.clock = c
	return b
}

// WithYield sets the hook invoked on every idle poll iteration. Use a no-op
// on bare metal and a scheduler yield or short sleep on a host.
func (b *ConfigBuilder) WithYield(fn func()) *ConfigBuilder {
	b.config.yield = fn
	return b
}

// WithAbortOnFailure makes Bond stop at the first step whose reply did not
// arrive. By default every step is attempted.
func (b *ConfigBuilder) WithAbortOnFailure(v bool) *ConfigBuilder {
	b.config.abortOnFailure = v
	return b
}

func (b *ConfigBuilder) WithPinCode(pin string) *ConfigBuilder {
	b.config.pinCode = pin
	return b
}

// WithSetupDelay sets the pause taken before entering command mode at the
// start of Bond.
func (b *ConfigBuilder) WithSetupDelay(d time.Duration) *ConfigBuilder {
	b.config.setupDelay = d
	return b
}

func (b *ConfigBuilder) Build() (Config, error) {
	b.config.setDefaults()
	if err := b.config.validate(); err != nil {
		return Config{}, err
	}
	return b.config, nil
}
