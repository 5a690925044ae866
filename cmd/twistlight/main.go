//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"
)

const version = "0.4.0"

func printVersion() {
	fmt.Printf("twistlight v%s\n", version)
	fmt.Println("Twisty-puzzle controller: switches in, cube on an LED strip out")
}

func printUsage() {
	printVersion()
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  twistlight [OPTIONS]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Reads face-twist switches from Linux input devices, keeps a cube model,")
	fmt.Println("  renders it on a WS2812 strip over spidev, and speaks the controller's")
	fmt.Println("  byte protocol on a serial tty and/or a Unix socket.")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -config string")
	fmt.Println("        YAML config file (optional; flags override it)")
	fmt.Println()
	fmt.Println("  -serial string")
	fmt.Println("        Serial tty carrying the protocol (e.g. /dev/ttyGS0)")
	fmt.Println()
	fmt.Println("  -socket string")
	fmt.Printf("        Unix socket carrying the protocol (default %q)\n", defaultSocketPath)
	fmt.Println()
	fmt.Println("  -input string")
	fmt.Println("        Comma-separated evdev devices for the switches")
	fmt.Println()
	fmt.Println("  -strip string")
	fmt.Println("        spidev node driving the LED strip (e.g. /dev/spidev0.0)")
	fmt.Println()
	fmt.Println("  -monitor-addr string")
	fmt.Println("        Listen address for the WebSocket monitor (e.g. 127.0.0.1:8090)")
	fmt.Println()
	fmt.Println("  -log-level string")
	fmt.Println("        Log level: error, warn, info, debug (default \"info\")")
	fmt.Println()
	fmt.Println("  -sim")
	fmt.Println("        Run the terminal simulator instead of real switches and strip")
	fmt.Println()
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println()
	fmt.Println("  -help")
	fmt.Println("        Print this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Hardware: gpio-keys switches, strip on SPI0, protocol on USB gadget serial")
	fmt.Println("  twistlight -input /dev/input/event0 -strip /dev/spidev0.0 -serial /dev/ttyGS0")
	fmt.Println()
	fmt.Println("  # Simulator with a monitor, driven by cubectl over the socket")
	fmt.Println("  twistlight -sim -monitor-addr 127.0.0.1:8090")
	fmt.Println()
	fmt.Println("NOTES:")
	fmt.Println("  - Requires read access to input devices (run as root or add user to 'input' group)")
	fmt.Println("  - In -sim mode logs go to logging.file, or nowhere if it is unset")
	fmt.Println()
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printVersion()
			return
		}
		if arg == "-help" || arg == "--help" || arg == "-h" {
			printUsage()
			return
		}
	}

	var (
		configPath   = flag.String("config", "", "YAML config file")
		serialDevice = flag.String("serial", "", "Serial tty carrying the protocol")
		socketPath   = flag.String("socket", defaultSocketPath, "Unix socket carrying the protocol")
		inputDevices = flag.String("input", "", "Comma-separated evdev devices for the switches")
		stripDevice  = flag.String("strip", "", "spidev node driving the LED strip")
		monitorAddr  = flag.String("monitor-addr", "", "Listen address for the WebSocket monitor")
		logLevelStr  = flag.String("log-level", "info", "Log level: error, warn, info, debug")
		sim          = flag.Bool("sim", false, "Run the terminal simulator")
		showVersion  = flag.Bool("version", false, "Print version and exit")
		showHelp     = flag.Bool("help", false, "Print help message")
	)

	flag.Usage = printUsage
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}
	if *showVersion {
		printVersion()
		return
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	}

	// Only flags given on the command line override the file.
	var o FlagOverrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "serial":
			o.SerialDevice = serialDevice
		case "socket":
			o.SerialSocket = socketPath
		case "input":
			o.InputDevices = splitList(*inputDevices)
		case "strip":
			o.StripDevice = stripDevice
		case "monitor-addr":
			o.MonitorAddr = monitorAddr
		case "log-level":
			o.LogLevel = logLevelStr
		case "sim":
			o.Sim = sim
		}
	})
	o.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logLevel, _ := parseLogLevel(cfg.Logging.Level)
	logOut, closeLog, err := openLogOutput(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer closeLog()
	logger := setupLogger(logOut, logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Debug("starting twistlight", "version", version)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("twistlight stopped", "error", err)
		closeLog()
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func openLogOutput(cfg Config) (io.Writer, func(), error) {
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(ExpandPath(cfg.Logging.File), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	}
	if cfg.Sim.Enabled {
		// The simulator owns the terminal.
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// run wires the configured components around the daemon loop and blocks
// until ctx is canceled or one of them fails.
func run(parent context.Context, cfg Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	settings := cfg.ToSettings()
	clock := systemClock{}
	now := clock.Now()

	switches := NewSwitchMapping()
	state := NewDaemonState(settings, switches, now)
	deb := NewDebounceState(now, settings.Debounce, switches)

	events := make(chan Event, 256)
	fx := &Effects{Debounce: deb}
	var status []io.Writer

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Serial.Socket != "" {
		bridge := NewSerialBridge(logger)
		status = append(status, bridge)
		g.Go(func() error {
			return bridge.Serve(ctx, cfg.Serial.Socket, events, clock)
		})
	}

	if cfg.Serial.Device != "" {
		tty, err := openSerialTTY(cfg.Serial.Device, cfg.Serial.Baud)
		if err != nil {
			return fmt.Errorf("open serial %s: %w", cfg.Serial.Device, err)
		}
		status = append(status, tty)
		g.Go(func() error {
			<-ctx.Done()
			return tty.Close()
		})
		g.Go(func() error {
			logger.Info("serial listening", "device", cfg.Serial.Device, "baud", cfg.Serial.Baud)
			err := pumpBytes(ctx, tty, events, clock)
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("serial %s: %w", cfg.Serial.Device, err)
		})
	}

	var broadcastOuts []chan StateBroadcast

	if cfg.Monitor.Addr != "" {
		srv := NewMonitorServer(logger, events, HubConfig{})
		monitorCh := make(chan StateBroadcast, 256)
		broadcastOuts = append(broadcastOuts, monitorCh)
		g.Go(func() error {
			srv.Hub().Run(ctx)
			return nil
		})
		g.Go(func() error {
			RunBroadcaster(ctx, srv.Hub(), monitorCh, logger)
			return nil
		})
		g.Go(func() error {
			return runMonitorServer(ctx, cfg.Monitor.Addr, cfg.Monitor.Path, srv, logger)
		})
	}

	if cfg.Sim.Enabled {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		strip := newMemStrip(numLEDs + settings.SkipLEDs)
		s := newSimulator(screen, cfg.Sim.Keys, settings.SkipLEDs, deb, switches, clock, logger)
		s.attach(strip)
		fx.Strip = strip
		status = append(status, s)

		if cfg.Sim.Sound {
			ch := newChime()
			if err := ch.Initialize(); err != nil {
				logger.Warn("sound disabled", "error", err)
			} else {
				s.chime = ch
				defer ch.Close()
			}
		}

		simCh := make(chan StateBroadcast, 64)
		broadcastOuts = append(broadcastOuts, simCh)
		g.Go(func() error {
			return s.run(ctx, simCh, cancel)
		})
	} else if cfg.Strip.Device != "" {
		strip, err := openSPIStrip(cfg.Strip.Device, numLEDs+settings.SkipLEDs, cfg.Strip.SpeedHz)
		if err != nil {
			return err
		}
		defer strip.Close()
		fx.Strip = strip
		logger.Info("strip ready", "device", cfg.Strip.Device, "leds", strip.Len(), "speed_hz", cfg.Strip.SpeedHz)
	} else {
		logger.Warn("running without a strip", "error", errNoStrip)
	}

	if len(cfg.Input.Devices) > 0 {
		g.Go(func() error {
			return runSwitchInput(ctx, cfg.Input.Devices, cfg.Input, deb, clock, logger)
		})
	}

	if len(broadcastOuts) > 0 {
		src := make(chan StateBroadcast, 256)
		fx.Broadcasts = src
		g.Go(func() error {
			fanOutBroadcasts(ctx, src, broadcastOuts)
			return nil
		})
	}

	if len(status) > 0 {
		fx.Status = io.MultiWriter(status...)
	}

	g.Go(func() error {
		runDaemon(ctx, events, deb, clock, fx, state, settings.loopInterval(), logger)
		return nil
	})

	logger.Info("listening",
		"serial", cfg.Serial.Device,
		"socket", cfg.Serial.Socket,
		"inputs", cfg.Input.Devices,
		"strip", cfg.Strip.Device,
		"monitor", cfg.Monitor.Addr,
		"sim", cfg.Sim.Enabled,
		"loop_hz", settings.LoopHz)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// fanOutBroadcasts copies every broadcast to each output, dropping it for
// outputs that are full.
func fanOutBroadcasts(ctx context.Context, src <-chan StateBroadcast, outs []chan StateBroadcast) {
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-src:
			for _, out := range outs {
				select {
				case out <- b:
				default:
				}
			}
		}
	}
}
