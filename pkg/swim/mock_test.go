package swim

import (
	"sync"
	"time"
)

// recordSink records every disseminated event.
type recordSink struct {
	mu     sync.Mutex
	events []Member
}

func (s *recordSink) push(e Member) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, e)
}

func (s *recordSink) all() []Member {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]Member, len(s.events))
	copy(cp, s.events)
	return cp
}

// recordScheduler captures deferred callbacks so tests can fire them
// at will.
type recordScheduler struct {
	mu      sync.Mutex
	entries []scheduled
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

func (s *recordScheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, scheduled{delay: d, fn: fn})
}

// take removes and returns all captured entries.
func (s *recordScheduler) take() []scheduled {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := s.entries
	s.entries = nil
	return taken
}

// recordSender records every outbound frame instead of sending it.
type recordSender struct {
	mu   sync.Mutex
	sent []sentPacket
}

type sentPacket struct {
	addr NodeAddress
	pkt  Packet
}

func (s *recordSender) send(addr NodeAddress, p *Packet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, sentPacket{addr: addr, pkt: *p})
}

// take removes and returns all recorded frames.
func (s *recordSender) take() []sentPacket {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := s.sent
	s.sent = nil
	return taken
}
