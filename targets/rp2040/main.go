//go:build rp2040

package main

import (
	"machine"
	"strconv"
	"time"

	"uartloop/core"
	"uartloop/targets/pio"
)

// Indicator pins on the Pico; LEDs are wired to ground so active-high
var (
	indicatorAPin    = machine.GPIO16 // green, "SW4\n"
	indicatorBPin    = machine.GPIO17 // red, "SW5\n"
	heartbeatPin     = machine.GPIO18 // yellow
	pixelDataPin     = machine.GPIO22
	indicatorsActiveLow = false
)

var (
	link       *UARTTransport
	dispatcher *core.Dispatcher

	// Debug counters
	loopErrors uint32
	lastLost   uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	mode := GetMode()
	if mode.Debug {
		core.SetDebugWriter(func(msg string) {
			_, _ = machine.Serial.Write([]byte(msg + "\r\n"))
		})
		core.SetDebugEnabled(true)
		core.InitAsyncDebug()
	}

	// Initialize clock
	UpdateSystemTime()
	core.TimerInit()

	ind := initIndicators(mode.Indicators)

	cfg := core.DefaultConfig()
	link = NewUARTTransport(linkUART)
	dispatcher = core.NewDispatcher(cfg, link, ind)
	if err := dispatcher.Start(); err != nil {
		core.DebugPrintln("[MAIN] start failed: " + err.Error())
		haltBlink(ind.Heartbeat)
	}

	if err := InitButtons(dispatcher); err != nil {
		core.DebugPrintln("[MAIN] button setup failed: " + err.Error())
	}

	go link.readerLoop(dispatcher.OnByte)

	core.DebugPrintln("[MAIN] uartloop ready, indicators=" + mode.Indicators.String())

	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopErrors++
					core.RecordEvent(core.EvtTransportErr, loopErrors)
					core.DumpEventRing()
				}
			}()

			UpdateSystemTime()
			dispatcher.Step()

			if lost := link.Lost(); lost != lastLost {
				core.DebugAsync("[UART] discarded while closed: " + strconv.FormatUint(uint64(lost-lastLost), 10))
				lastLost = lost
			}
		}()

		time.Sleep(cfg.LoopInterval)
	}
}

// initIndicators installs the GPIO backend and returns the indicators on it
func initIndicators(backend IndicatorBackend) core.Indicators {
	switch backend {
	case BackendPIO:
		core.SetGPIODriver(pio.NewOutputDriver())
	case BackendPixel:
		core.SetGPIODriver(NewPixelDriver(pixelDataPin))
		return core.Indicators{
			A:         core.NewIndicator("green", pixelGreen, false),
			B:         core.NewIndicator("red", pixelRed, false),
			Heartbeat: core.NewIndicator("blue", pixelBlue, false),
		}
	default:
		core.SetGPIODriver(NewRPGPIODriver())
	}

	return core.Indicators{
		A:         core.NewIndicator("green", core.GPIOPin(indicatorAPin), indicatorsActiveLow),
		B:         core.NewIndicator("red", core.GPIOPin(indicatorBPin), indicatorsActiveLow),
		Heartbeat: core.NewIndicator("yellow", core.GPIOPin(heartbeatPin), indicatorsActiveLow),
	}
}

// haltBlink signals a fatal setup error by blinking fast forever
func haltBlink(led *core.Indicator) {
	on := false
	for {
		on = !on
		_ = led.Set(on)
		time.Sleep(100 * time.Millisecond)
	}
}
