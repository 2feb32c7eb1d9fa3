package core

// SerialTransport is the UART boundary. Received bytes are not read through
// this interface: the platform delivers each one to Assembler.Receive from
// its receive interrupt or reader goroutine.
type SerialTransport interface {
	// Open enables the link; reception resumes
	Open() error

	// Close suspends the link; bytes arriving while closed are lost
	Close() error

	// Write queues data for transmission without waiting for it to drain
	Write(data []byte) (int, error)
}
