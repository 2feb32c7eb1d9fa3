// Package protocol defines the button message wire format carried over the
// looped-back UART and the fixed-capacity buffers used to assemble it.
package protocol

// Version represents the firmware version
const Version = "0.1.0"

// Wire constants
const (
	BaudRate   = 115200 // 8 data bits, no parity, 1 stop bit
	Terminator = '\n'   // Single line terminator, no other framing
	LineMax    = 16     // Receive buffer capacity in bytes

	// Button identifier messages, terminator included
	MessageSW4 = "SW4\n"
	MessageSW5 = "SW5\n"

	MessageLen = 4
)
