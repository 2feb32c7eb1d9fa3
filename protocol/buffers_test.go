package protocol

import "testing"

func TestLineBuffer(t *testing.T) {
	var buf LineBuffer

	for _, b := range []byte("SW4\n") {
		if err := buf.Append(b); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	if buf.Len() != 4 {
		t.Errorf("Expected cursor 4, got %d", buf.Len())
	}

	if idx := buf.IndexByte(Terminator); idx != 3 {
		t.Errorf("Expected terminator at 3, got %d", idx)
	}

	buf.Reset()
	if buf.Len() != 0 {
		t.Errorf("After reset, expected cursor 0, got %d", buf.Len())
	}
	if idx := buf.IndexByte(Terminator); idx != -1 {
		t.Errorf("After reset, expected no terminator, got %d", idx)
	}
}

func TestLineBufferFull(t *testing.T) {
	var buf LineBuffer

	for i := 0; i < LineMax; i++ {
		if err := buf.Append('x'); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
	}

	if err := buf.Append('y'); err != ErrBufferFull {
		t.Errorf("Expected ErrBufferFull, got %v", err)
	}

	if buf.Len() != LineMax {
		t.Errorf("Expected cursor to stay at %d, got %d", LineMax, buf.Len())
	}
	if buf.Bytes()[LineMax-1] != 'x' {
		t.Errorf("Last byte overwritten: got %q", buf.Bytes()[LineMax-1])
	}
}

func TestCopyLine(t *testing.T) {
	var line Line

	CopyLine(&line, []byte("SW5\nxx"))
	if !line.Equal(MessageSW5) {
		t.Errorf("Expected %q, got %q", MessageSW5, line.String())
	}

	if line.Equal("SW5") {
		t.Error("Match must include the terminator")
	}

	line.Clear()
	if line.Len() != 0 {
		t.Errorf("After clear, expected length 0, got %d", line.Len())
	}

	CopyLine(&line, []byte("\n"))
	if line.Len() != 1 || line.Equal(MessageSW4) || line.Equal(MessageSW5) {
		t.Errorf("Bare terminator should not match, got %q", line.String())
	}
}

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if !fifo.IsEmpty() {
		t.Error("New FIFO should be empty")
	}

	data := []byte{1, 2, 3, 4, 5}
	written := fifo.Write(data)

	if written != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", written)
	}

	readBuf := make([]byte, 3)
	read := fifo.Read(readBuf)

	if read != 3 {
		t.Errorf("Expected to read 3 bytes, read %d", read)
	}

	if readBuf[0] != 1 || readBuf[1] != 2 || readBuf[2] != 3 {
		t.Errorf("Read data mismatch: got %v", readBuf)
	}

	b, ok := fifo.ReadByte()
	if !ok || b != 4 {
		t.Errorf("Expected ReadByte to return 4, got %d (ok=%v)", b, ok)
	}

	if fifo.Available() != 1 {
		t.Errorf("Expected 1 available, got %d", fifo.Available())
	}

	fifo.Reset()
	bigData := make([]byte, 12)
	written = fifo.Write(bigData)
	if written != 9 { // Buffer size is 10, can only store 9 (one slot reserved)
		t.Errorf("Expected to write 9 bytes to size-10 FIFO, wrote %d", written)
	}
	if fifo.Free() != 0 {
		t.Errorf("Expected full FIFO, %d free", fifo.Free())
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	fifo.Write([]byte{1, 2, 3, 4})

	readBuf := make([]byte, 2)
	fifo.Read(readBuf)

	written := fifo.Write([]byte{5, 6})
	if written != 2 {
		t.Errorf("Expected to write 2 bytes, wrote %d", written)
	}

	allData := make([]byte, 4)
	read := fifo.Read(allData)
	if read != 4 {
		t.Errorf("Expected to read 4 bytes, read %d", read)
	}
	if allData[0] != 3 || allData[1] != 4 || allData[2] != 5 || allData[3] != 6 {
		t.Errorf("Wrap-around data mismatch: got %v", allData)
	}
}
