// Package mcast is the probe's transport layer: plain IPv4 multicast
// UDP, one datagram per message, no reliability or ordering beyond what
// the network gives.
package mcast

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"

	"mcastprobe/internal/netutil"
)

// MaxDatagramSize bounds a single receive. Both wire formats stay far
// below this.
const MaxDatagramSize = 8192

// Sender writes datagrams to one multicast group:port.
type Sender struct {
	conn *net.UDPConn
	dest *net.UDPAddr
}

// NewSender dials the multicast group and applies TTL and the outgoing
// interface. ifaceSel is an interface name or assigned IP, or empty for
// the kernel default. All errors here are setup errors: fatal to the
// caller, never retried.
func NewSender(group string, port, ttl int, ifaceSel string) (*Sender, error) {
	ip, err := netutil.ResolveGroup(group)
	if err != nil {
		return nil, err
	}
	if err := netutil.ValidatePort(port); err != nil {
		return nil, err
	}
	ifi, err := netutil.ResolveInterface(ifaceSel)
	if err != nil {
		return nil, err
	}

	dest := &net.UDPAddr{IP: ip, Port: port}
	conn, err := net.DialUDP("udp4", nil, dest)
	if err != nil {
		return nil, fmt.Errorf("failed to dial multicast group %s: %w", dest, err)
	}

	p := ipv4.NewPacketConn(conn)
	if err := p.SetMulticastTTL(ttl); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set multicast TTL %d: %w", ttl, err)
	}
	if ifi != nil {
		if err := p.SetMulticastInterface(ifi); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to select interface %s: %w", ifi.Name, err)
		}
	}

	return &Sender{conn: conn, dest: dest}, nil
}

// Send writes one datagram to the group. Errors are steady-state I/O
// errors and propagate to the caller unretried.
func (s *Sender) Send(b []byte) (int, error) {
	return s.conn.Write(b)
}

// Dest returns the group:port the sender is bound to.
func (s *Sender) Dest() *net.UDPAddr {
	return s.dest
}

func (s *Sender) Close() error {
	return s.conn.Close()
}

// Listener receives datagrams from one multicast group:port.
type Listener struct {
	conn  *net.UDPConn
	group *net.UDPAddr
}

// NewListener binds the port with SO_REUSEADDR/SO_REUSEPORT so several
// listeners can share a group on one host, then joins the group on the
// selected interface (nil = kernel default).
func NewListener(group string, port int, ifaceSel string) (*Listener, error) {
	ip, err := netutil.ResolveGroup(group)
	if err != nil {
		return nil, err
	}
	if err := netutil.ValidatePort(port); err != nil {
		return nil, err
	}
	ifi, err := netutil.ResolveInterface(ifaceSel)
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var opErr error
			err := c.Control(func(fd uintptr) {
				opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
				if opErr != nil {
					return
				}
				opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
			if err != nil {
				return err
			}
			return opErr
		},
	}

	pc, err := lc.ListenPacket(context.Background(), "udp4", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to bind port %d: %w", port, err)
	}

	conn, ok := pc.(*net.UDPConn)
	if !ok {
		_ = pc.Close()
		return nil, fmt.Errorf("unexpected packet conn type %T", pc)
	}

	p := ipv4.NewPacketConn(conn)
	if err := p.JoinGroup(ifi, &net.UDPAddr{IP: ip}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to join group %s: %w", ip, err)
	}

	if err := conn.SetReadBuffer(MaxDatagramSize); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set read buffer: %w", err)
	}

	return &Listener{conn: conn, group: &net.UDPAddr{IP: ip, Port: port}}, nil
}

// Receive blocks until the next datagram arrives. No deadline is set:
// the listener waits indefinitely, and shutdown is done by closing the
// connection, which fails the pending read.
func (l *Listener) Receive(buf []byte) (int, *net.UDPAddr, error) {
	return l.conn.ReadFromUDP(buf)
}

// Group returns the joined group:port.
func (l *Listener) Group() *net.UDPAddr {
	return l.group
}

func (l *Listener) Close() error {
	return l.conn.Close()
}
