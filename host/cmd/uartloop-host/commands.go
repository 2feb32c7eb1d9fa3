package main

import (
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"

	"uartloop/core"
	"uartloop/host/mcu"
	"uartloop/protocol"
)

const (
	boardKey = "$board"
	prompt   = "uartloop> "
)

var commands = []*ishell.Cmd{
	&PressCmd,
	&SendCmd,
	&StatsCmd,
	&LedsCmd,
	&EventsCmd,
}

func newShell(board *mcu.Board) *ishell.Shell {
	sh := ishell.New()
	sh.Set(boardKey, board)
	sh.SetPrompt(prompt)
	sh.Println("uartloop host " + protocol.Version + " (type 'help' for commands)")
	for _, cmd := range commands {
		sh.AddCmd(cmd)
	}
	return sh
}

// boardFrom gets the board from the ishell context
func boardFrom(c *ishell.Context) *mcu.Board {
	return c.Get(boardKey).(*mcu.Board)
}

var (
	// PressCmd injects a rising edge on a button.
	PressCmd = ishell.Cmd{
		Name:    "press",
		Aliases: []string{"p"},
		Help:    "sw4|sw5 [COUNT]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("button expected: sw4 or sw5"))
				return
			}
			var id core.ButtonID
			switch strings.ToLower(c.Args[0]) {
			case "sw4", "4":
				id = core.SW4
			case "sw5", "5":
				id = core.SW5
			default:
				c.Err(fmt.Errorf("unknown button %q", c.Args[0]))
				return
			}
			count := 1
			if len(c.Args) > 1 {
				if _, err := fmt.Sscanf(c.Args[1], "%d", &count); err != nil || count < 1 {
					c.Err(fmt.Errorf("invalid count %q", c.Args[1]))
					return
				}
			}
			board := boardFrom(c)
			for i := 0; i < count; i++ {
				board.Press(id)
			}
		},
	}

	// SendCmd writes text on the link; a terminator is appended unless -n.
	SendCmd = ishell.Cmd{
		Name: "send",
		Help: "[-n] TEXT",
		Func: func(c *ishell.Context) {
			args := c.Args
			terminate := true
			if len(args) > 0 && args[0] == "-n" {
				terminate = false
				args = args[1:]
			}
			text := strings.Join(args, " ")
			if terminate {
				text += string(protocol.Terminator)
			}
			if err := boardFrom(c).Send(text); err != nil {
				c.Err(err)
			}
		},
	}

	// StatsCmd prints the loop counters.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Help: "",
		Func: func(c *ishell.Context) {
			board := boardFrom(c)
			c.Println(board.Stats().String())
			c.Printf("busy=%v uptime=%v\n", board.Busy(), board.Uptime())
		},
	}

	// LedsCmd prints the indicator states.
	LedsCmd = ishell.Cmd{
		Name:    "leds",
		Aliases: []string{"l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			for _, led := range boardFrom(c).LEDs() {
				state := "off"
				if led.Active {
					state = "ON"
				}
				c.Printf("%-7s %s\n", led.Name, state)
			}
		},
	}

	// EventsCmd prints the diagnostic event ring, oldest first.
	EventsCmd = ishell.Cmd{
		Name: "events",
		Help: "[clear]",
		Func: func(c *ishell.Context) {
			board := boardFrom(c)
			if len(c.Args) > 0 && c.Args[0] == "clear" {
				board.ClearEvents()
				return
			}
			events := board.Events()
			if len(events) == 0 {
				c.Println("No events")
				return
			}
			for _, evt := range events {
				c.Printf("%10d  %-14s %d\n", evt.Clock, core.EventName(evt.EventType), evt.Value)
			}
		},
	}
)
