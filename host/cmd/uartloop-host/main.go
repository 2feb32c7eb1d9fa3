package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"uartloop/core"
	"uartloop/host/config"
	"uartloop/host/mcu"
	"uartloop/host/serial"
	"uartloop/protocol"
)

var (
	configPath  = flag.String("config", "", "YAML configuration file")
	device      = flag.String("device", "", "Serial device with TX jumpered to RX (overrides config)")
	simulate    = flag.Bool("sim", false, "Use an in-memory loopback instead of a serial device")
	interactive = flag.Bool("i", true, "Run the interactive console")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Route core debug output into glog
	core.SetDebugWriter(func(msg string) { glog.Info(msg) })
	core.SetDebugEnabled(bool(glog.V(1)))

	var link core.SerialTransport
	var port *serial.Transport
	if cfg.Simulate {
		link = protocol.NewLoopback(256)
		glog.Info("using in-memory loopback")
	} else {
		port = serial.NewTransport(&serial.Config{
			Device:      cfg.Serial.Device,
			Baud:        cfg.Serial.Baud,
			ReadTimeout: cfg.Serial.ReadTimeoutMs,
		})
		link = port
		glog.Infof("using %s at %d baud", cfg.Serial.Device, cfg.Serial.Baud)
	}

	board := mcu.NewBoard(cfg.Core(), link)
	if port != nil {
		port.SetReceiver(board.Dispatcher().OnByte)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- board.Run(ctx) }()

	if *interactive {
		sh := newShell(board)
		board.GPIO().OnChange = func(_ core.GPIOPin, name string, level bool) {
			glog.V(1).Infof("LED %s level=%v", name, level)
		}
		sh.Run()
		cancel()
	}

	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		glog.Errorf("loop stopped: %v", err)
	}
	if port != nil {
		port.Wait()
		glog.V(1).Infof("link discarded %d bytes read after close", port.Lost())
	}
	glog.Infof("final counters: %s", board.Stats())
	if glog.V(1) {
		core.DumpEventRing()
	}
}

// loadConfig reads -config if given, applies flag overrides and validates
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, err
		}
	}

	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *simulate {
		cfg.Simulate = true
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
