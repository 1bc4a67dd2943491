package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.bug.st/serial"
	"i4.energy/across/btbond/radio"
)

const usage = `usage: btbond [flags] [command]

commands:
  serve                     run the HTTP control server (default)
  bond [address1 address2]  pair the attached radio with the other address
  status                    report whether the radio holds a connection
  settings                  dump the radio settings
  echo                      bridge stdin/stdout with the radio

flags:
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	configPath := flag.String("config", "", "Path to a YAML or TOML configuration file")
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port the radio is attached to")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Bool("verbose", false, "Trace the exchange with the radio on stdout")
	flag.String("match-mode", "inorder", "Reply token matching (inorder, contiguous)")
	flag.Bool("abort-on-failure", false, "Stop bonding at the first unanswered command")
	flag.String("pin-code", "c0de", "Pairing code programmed during bonding")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithFile(*configPath), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	radioConfig, err := config.radioConfig(logger)
	if err != nil {
		logger.Error("Failed to create radio config", "error", err)
		os.Exit(1)
	}

	r, err := radio.New(ctx, radioConfig)
	if err != nil {
		logger.Error("Failed to open radio", "error", err, "port", config.SerialPort)
		os.Exit(1)
	}

	err = run(ctx, config, r, logger, flag.Args())

	logger.Debug("Closing radio connection")
	if cerr := r.Close(); cerr != nil {
		logger.Error("Failed to close radio", "error", cerr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// radioConfig translates the application configuration for the driver.
func (c *Config) radioConfig(logger *slog.Logger) (radio.Config, error) {
	mode, err := radio.ParseMatchMode(c.MatchMode)
	if err != nil {
		return radio.Config{}, err
	}

	return radio.NewConfigBuilder().
		WithDialer(radio.SerialDialer{
			PortName: c.SerialPort,
			Mode: &serial.Mode{
				BaudRate: c.BaudRate,
				DataBits: 8,
				Parity:   serial.NoParity,
				StopBits: serial.OneStopBit,
			},
		}).
		WithMatchMode(mode).
		WithVerbose(c.Verbose).
		WithTrace(os.Stdout).
		WithLogger(logger.With("component", "radio")).
		WithAbortOnFailure(c.AbortOnFailure).
		WithPinCode(c.PinCode).
		Build()
}

// run executes the command named by args against an open radio.
func run(ctx context.Context, config *Config, r *radio.Radio, logger *slog.Logger, args []string) error {
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "serve":
		return serve(ctx, config, r, logger)

	case "bond":
		address1, address2 := config.Bond.Address1, config.Bond.Address2
		if len(args) == 3 {
			address1, address2 = args[1], args[2]
		}
		if address1 == "" || address2 == "" {
			return errors.New("bond needs two addresses")
		}
		if err := r.Bond(ctx, address1, address2); err != nil {
			return err
		}
		logger.Info("Radio bonded", "address1", address1, "address2", address2)
		return nil

	case "status":
		connected := r.IsConnected(ctx)
		fmt.Println(connected)
		return nil

	case "settings":
		dump := r.PrintSettingsAndExit(ctx)
		if !config.Verbose {
			fmt.Print(dump)
		}
		return nil

	case "echo":
		err := r.EchoLoop(ctx, radio.NewReaderStream(os.Stdin, os.Stdout))
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	flag.Usage()
	return fmt.Errorf("unknown command %q", command)
}

func serve(ctx context.Context, config *Config, r *radio.Radio, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr: config.BindAddress,
		Handler: &Server{
			Logger: logger.With("component", "server"),
			Radio:  r,
		},
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Closing HTTP server")
	return httpServer.Shutdown(shutdownCtx)
}
