package icm

import (
	"bytes"
	"io"
	"sync"
	"time"
)

// fakeTimeout implements net.Error to stand in for a real socket's
// deadline-exceeded error, since the in-memory fakeConn below has no
// kernel receive buffer to make a zero-duration SetReadDeadline
// meaningful the way it is against a real connection.
type fakeTimeout struct{}

func (fakeTimeout) Error() string   { return "fakeconn: i/o timeout" }
func (fakeTimeout) Timeout() bool   { return true }
func (fakeTimeout) Temporary() bool { return true }

// fakeConn is a minimal in-memory stand-in for a socket, satisfying the
// icm.Conn interface. Unlike net.Pipe, reads against an empty buffer
// report a timeout rather than blocking, which is what lets tests drive
// ReadFrame's would-block branch deterministically.
type fakeConn struct {
	mu       sync.Mutex
	readBuf  bytes.Buffer
	writeBuf bytes.Buffer
	closed   bool
	readErr  error
}

func (c *fakeConn) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, io.ErrClosedPipe
	}
	if c.readErr != nil {
		return 0, c.readErr
	}
	if c.readBuf.Len() == 0 {
		return 0, fakeTimeout{}
	}
	return c.readBuf.Read(p)
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, io.ErrClosedPipe
	}
	return c.writeBuf.Write(p)
}

func (c *fakeConn) SetReadDeadline(t time.Time) error {
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) feed(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readBuf.Write(b)
}

func (c *fakeConn) setReadErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readErr = err
}

func (c *fakeConn) written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, c.writeBuf.Len())
	copy(out, c.writeBuf.Bytes())
	return out
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
