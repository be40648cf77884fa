// Package icm implements the Interface Communication Manager: the
// stateful protocol engine that validates incoming TLV frames, tracks
// their lifecycle against vehicle state, rate-limits outbound frames
// (a frame that is refused or fails to send is not retried), and sweeps
// cycle-count timeouts once per tick.
package icm

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/pion/logging"
	"github.com/vsi-core/interlock/pkg/dictionary"
	"github.com/vsi-core/interlock/pkg/wireframe"
)

// ConnectionState tracks the lifecycle of one peer connection (spec
// §4.1 receive step 1, transmit step 3).
type ConnectionState uint8

const (
	ConnectionDisconnected ConnectionState = iota
	ConnectionConnected
	ConnectionError
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionConnected:
		return "Connected"
	case ConnectionError:
		return "Error"
	default:
		return "Disconnected"
	}
}

// Conn is the minimal byte-stream contract a Connection wraps. A real
// net.Conn (or github.com/pion/transport/v3/test in-memory pipe)
// satisfies it; SetReadDeadline is what makes the per-tick read
// non-blocking (spec §4.1 receive step 1).
type Conn interface {
	io.Reader
	io.Writer
	SetReadDeadline(t time.Time) error
	Close() error
}

// Connection wraps one established byte stream to a peer (VAM or CM),
// tracking its lifecycle state. Socket setup and accept/connect are out
// of scope (spec §1); the core only ever sees an already-established
// stream.
type Connection struct {
	mu    sync.Mutex
	role  dictionary.Role
	conn  Conn
	state ConnectionState
	log   logging.LeveledLogger

	readBuf [wireframe.Size]byte
}

// NewConnection wraps conn for role, starting in the Connected state.
func NewConnection(role dictionary.Role, conn Conn, log logging.LeveledLogger) *Connection {
	if log == nil {
		log = logging.NewDefaultLoggerFactory().NewLogger("icm")
	}
	return &Connection{role: role, conn: conn, state: ConnectionConnected, log: log}
}

// Role reports which peer this connection talks to.
func (c *Connection) Role() dictionary.Role {
	return c.role
}

// State returns the connection's current lifecycle state.
func (c *Connection) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Connection) setState(s ConnectionState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// ReadFrame attempts a non-blocking read of exactly one TLV frame (spec
// §4.1 receive step 1). A zero-duration read deadline turns a would-block
// condition into a timeout error, which this method normalizes to
// ErrWouldBlock. A clean peer close marks the connection Disconnected and
// returns ErrConnectionClosed; any other I/O error marks it Error, closes
// the underlying stream, and is returned as-is.
func (c *Connection) ReadFrame() (wireframe.Frame, error) {
	if c.State() != ConnectionConnected {
		return wireframe.Frame{}, ErrNotConnected
	}

	if err := c.conn.SetReadDeadline(time.Now()); err != nil {
		c.setState(ConnectionError)
		c.conn.Close()
		return wireframe.Frame{}, err
	}

	_, err := io.ReadFull(c.conn, c.readBuf[:])
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return wireframe.Frame{}, ErrWouldBlock
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			c.setState(ConnectionDisconnected)
			return wireframe.Frame{}, ErrConnectionClosed
		}
		c.setState(ConnectionError)
		c.conn.Close()
		return wireframe.Frame{}, err
	}

	var f wireframe.Frame
	if _, err := f.Decode(c.readBuf[:]); err != nil {
		return wireframe.Frame{}, err
	}
	return f, nil
}

// WriteFrame sends one encoded TLV frame (spec §4.1 transmit step 5). On
// error the connection is marked Error and closed.
func (c *Connection) WriteFrame(f *wireframe.Frame) error {
	if c.State() != ConnectionConnected {
		return ErrNotConnected
	}
	buf := f.Encode()
	if _, err := c.conn.Write(buf); err != nil {
		c.setState(ConnectionError)
		c.conn.Close()
		return err
	}
	return nil
}

// Close releases the underlying stream.
func (c *Connection) Close() error {
	c.setState(ConnectionDisconnected)
	return c.conn.Close()
}
