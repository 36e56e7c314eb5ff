package swim

import (
	"net"

	"github.com/pkg/errors"
)

// maxDatagramSize bounds the payload of a single received frame.
const maxDatagramSize = 65507

// Transport is the swim network abstraction layer: a datagram channel
// delivering at most one packet per read. Implementations must be safe
// for one reader and many concurrent writers.
type Transport interface {
	// WriteTo sends one datagram to the given member address.
	WriteTo(addr NodeAddress, p []byte) error

	// ReadFrom blocks until the next datagram arrives.
	ReadFrom() (NodeAddress, []byte, error)

	// LocalAddr returns the address this transport is bound to.
	LocalAddr() NodeAddress

	// Close shuts the transport down and unblocks pending reads.
	Close() error
}

// UDPTransport sends and receives swim packets over a single UDP socket.
type UDPTransport struct {
	conn *net.UDPConn
}

// NewUDPTransport binds a UDP socket on the given host:port address.
func NewUDPTransport(addr NodeAddress) (*UDPTransport, error) {
	uaddr, err := net.ResolveUDPAddr("udp", addr.String())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve bind address %s", addr)
	}

	conn, err := net.ListenUDP("udp", uaddr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", addr)
	}

	return &UDPTransport{conn: conn}, nil
}

// WriteTo sends one datagram to the given member address.
func (t *UDPTransport) WriteTo(addr NodeAddress, p []byte) error {
	uaddr, err := net.ResolveUDPAddr("udp", addr.String())
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", addr)
	}

	_, err = t.conn.WriteToUDP(p, uaddr)
	return err
}

// ReadFrom blocks until the next datagram arrives.
func (t *UDPTransport) ReadFrom() (NodeAddress, []byte, error) {
	buf := make([]byte, maxDatagramSize)

	n, uaddr, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		return "", nil, err
	}

	return NodeAddress(uaddr.String()), buf[:n], nil
}

// LocalAddr returns the address this transport is bound to.
func (t *UDPTransport) LocalAddr() NodeAddress {
	return NodeAddress(t.conn.LocalAddr().String())
}

// Close shuts the socket down and unblocks pending reads.
func (t *UDPTransport) Close() error {
	return t.conn.Close()
}
