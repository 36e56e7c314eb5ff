package swim

import (
	"net"
	"sync"
	"testing"
	"time"
)

// loopNetwork wires in-process transports together so server tests can
// run a full cluster without sockets. Delivery is lossy like UDP: a
// full inbox drops the datagram.
type loopNetwork struct {
	mu    sync.Mutex
	links map[NodeAddress]*loopTransport
}

type datagram struct {
	from NodeAddress
	b    []byte
}

type loopTransport struct {
	network *loopNetwork
	addr    NodeAddress
	in      chan datagram
	once    sync.Once
	done    chan struct{}
}

func newLoopNetwork() *loopNetwork {
	return &loopNetwork{links: make(map[NodeAddress]*loopTransport)}
}

func (n *loopNetwork) transport(addr NodeAddress) *loopTransport {
	n.mu.Lock()
	defer n.mu.Unlock()

	t := &loopTransport{
		network: n,
		addr:    addr,
		in:      make(chan datagram, 64),
		done:    make(chan struct{}),
	}
	n.links[addr] = t
	return t
}

func (t *loopTransport) WriteTo(addr NodeAddress, p []byte) error {
	t.network.mu.Lock()
	peer, ok := t.network.links[addr]
	t.network.mu.Unlock()
	if !ok {
		return nil
	}

	cp := make([]byte, len(p))
	copy(cp, p)
	select {
	case peer.in <- datagram{from: t.addr, b: cp}:
	default:
	}
	return nil
}

func (t *loopTransport) ReadFrom() (NodeAddress, []byte, error) {
	select {
	case d := <-t.in:
		return d.from, d.b, nil
	case <-t.done:
		return "", nil, net.ErrClosed
	}
}

func (t *loopTransport) LocalAddr() NodeAddress {
	return t.addr
}

func (t *loopTransport) Close() error {
	t.once.Do(func() { close(t.done) })
	return nil
}

func testClusterConfig(addr NodeAddress, peers ...NodeAddress) *Config {
	conf := DefaultConfig()
	conf.Address = addr
	conf.Peers = peers
	conf.PingPeriod = 40 * time.Millisecond
	conf.PingExpire = 10 * time.Millisecond
	conf.SuspectExpire = 150 * time.Millisecond
	return conf
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func findMember(members []Member, addr NodeAddress) (Member, bool) {
	for _, m := range members {
		if m.Addr == addr {
			return m, true
		}
	}
	return Member{}, false
}

func TestServerStartStop(t *testing.T) {
	network := newLoopNetwork()
	addr := NodeAddress("10.0.0.1:51000")

	s, err := NewServer(testClusterConfig(addr), network.transport(addr), nil)
	if err != nil {
		t.Fatalf("expected server creation to succeed, got %v", err)
	}

	if err := s.Stop(); err != ErrStopped {
		t.Errorf("expected %v before serving, got %v", ErrStopped, err)
	}

	go s.Serve()
	waitFor(t, func() bool { return !s.isStopped() }, "server never started")

	if err := s.Stop(); err != nil {
		t.Errorf("expected clean stop, got %v", err)
	}
	if err := s.Stop(); err != ErrStopped {
		t.Errorf("expected %v on double stop, got %v", ErrStopped, err)
	}
}

func TestServerDetectsFailedPeer(t *testing.T) {
	network := newLoopNetwork()
	addrA := NodeAddress("10.0.0.1:51000")
	addrB := NodeAddress("10.0.0.2:51000")

	a, err := NewServer(testClusterConfig(addrA, addrB), network.transport(addrA), nil)
	if err != nil {
		t.Fatalf("expected server A creation to succeed, got %v", err)
	}
	b, err := NewServer(testClusterConfig(addrB, addrA), network.transport(addrB), nil)
	if err != nil {
		t.Fatalf("expected server B creation to succeed, got %v", err)
	}

	go a.Serve()
	go b.Serve()
	defer a.Stop()

	// Both sides keep each other alive while B answers probes.
	waitFor(t, func() bool {
		m, ok := findMember(a.GetMap(), addrB)
		return ok && m.Status == Alive
	}, "server A never saw B alive")
	waitFor(t, func() bool {
		m, ok := findMember(b.GetMap(), addrA)
		return ok && m.Status == Alive
	}, "server B never saw A alive")

	// B goes silent; A suspects it and finally declares it faulty.
	if err := b.Stop(); err != nil {
		t.Fatalf("expected clean stop of B, got %v", err)
	}
	waitFor(t, func() bool {
		m, ok := findMember(a.GetMap(), addrB)
		return ok && m.Status == Faulty
	}, "server A never declared the silent B faulty")
}
