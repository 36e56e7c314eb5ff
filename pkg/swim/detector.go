package swim

import (
	"math/rand"
	"time"
)

// sender hands an outbound frame to the transport layer.
type sender interface {
	send(addr NodeAddress, p *Packet)
}

// Requests accepted by the detector inbox.
type (
	fdTick struct {
		seq uint64
	}
	fdPacket struct {
		from NodeAddress
		pkt  *Packet
	}
	fdPingExpired struct {
		seq    uint64
		target NodeAddress
	}
)

// pingKey correlates an ack with the probe that asked for it.
type pingKey struct {
	addr NodeAddress
	seq  uint64
}

// unackedPing is the single outstanding direct probe of the current
// period. It survives until a matching ack arrives or the next period
// escalates it to suspicion.
type unackedPing struct {
	addr NodeAddress
	inc  Incarnation
	seq  uint64
}

// detector drives the probing side of the protocol. Once per period it
// pings one member in round-robin shuffled order, escalates silent
// members to indirect probing through a group of helpers, and finally
// asks the membership list to suspect members which never answered.
// Like memList it is a single goroutine draining an inbox.
type detector struct {
	local     NodeAddress
	meml      *memList
	out       sender
	sched     Scheduler
	rng       *rand.Rand
	expire    time.Duration
	groupSize int

	unacked *unackedPing
	pending map[pingKey]NodeAddress
	ring    []Member

	inbox chan interface{}
	done  chan struct{}
}

func newDetector(local NodeAddress, meml *memList, out sender, sched Scheduler,
	rng *rand.Rand, expire time.Duration, groupSize int) *detector {
	return &detector{
		local:     local,
		meml:      meml,
		out:       out,
		sched:     sched,
		rng:       rng,
		expire:    expire,
		groupSize: groupSize,
		pending:   make(map[pingKey]NodeAddress),
		inbox:     make(chan interface{}, mailboxSize),
		done:      make(chan struct{}),
	}
}

func (d *detector) run() {
	for {
		select {
		case <-d.done:
			return
		case m := <-d.inbox:
			d.dispatch(m)
		}
	}
}

func (d *detector) stopActor() {
	close(d.done)
}

func (d *detector) dispatch(m interface{}) {
	switch req := m.(type) {
	case fdTick:
		d.handleTick(req.seq)
	case fdPacket:
		d.handlePacket(req.from, req.pkt)
	case fdPingExpired:
		d.handlePingExpired(req.seq, req.target)
	}
}

// Tick starts a new protocol period under the given sequence number.
func (d *detector) Tick(seq uint64) {
	select {
	case d.inbox <- fdTick{seq: seq}:
	case <-d.done:
	}
}

// Receive posts one decoded packet from the transport.
func (d *detector) Receive(from NodeAddress, pkt *Packet) {
	select {
	case d.inbox <- fdPacket{from: from, pkt: pkt}:
	case <-d.done:
	}
}

func (d *detector) post(m interface{}) {
	select {
	case d.inbox <- m:
	case <-d.done:
	}
}

// handleTick closes the previous period and opens a new one. A probe
// left unanswered, directly or through helpers, is the only path into
// suspicion: it is escalated here, before the next target is picked.
func (d *detector) handleTick(seq uint64) {
	if d.unacked != nil {
		suspicions.Inc()
		d.meml.Update(Member{
			Addr:        d.unacked.addr,
			Status:      Suspect,
			Incarnation: d.unacked.inc,
		})
		d.unacked = nil
	}

	// Relays that never saw their ack expire with the period.
	if len(d.pending) > 0 {
		d.pending = make(map[pingKey]NodeAddress)
	}

	target, ok := d.nextTarget()
	if !ok {
		return
	}

	d.unacked = &unackedPing{addr: target.Addr, inc: target.Incarnation, seq: seq}
	d.out.send(target.Addr, &Packet{Type: Ping, Seq: seq})

	d.sched.After(d.expire, func() {
		d.post(fdPingExpired{seq: seq, target: target.Addr})
	})
}

// handlePingExpired escalates a still unanswered direct probe to an
// indirect probe through up to groupSize random helpers. There is no
// separate indirect timeout: the next tick settles the question.
func (d *detector) handlePingExpired(seq uint64, target NodeAddress) {
	if d.unacked == nil || d.unacked.seq != seq || d.unacked.addr != target {
		// The ack already arrived.
		return
	}

	for _, h := range d.pickHelpers(target) {
		d.out.send(h.Addr, &Packet{Type: PingRequest, Seq: seq, Target: target})
	}
}

func (d *detector) handlePacket(from NodeAddress, pkt *Packet) {
	// Piggybacked gossip is merged first, whatever the message is.
	for _, e := range pkt.Events {
		d.meml.Update(e)
	}

	switch pkt.Type {
	case Ping:
		d.out.send(from, &Packet{Type: Ack, Seq: pkt.Seq, From: d.local})

	case PingRequest:
		d.pending[pingKey{addr: pkt.Target, seq: pkt.Seq}] = from
		d.out.send(pkt.Target, &Packet{Type: Ping, Seq: pkt.Seq})

	case Ack:
		d.handleAck(pkt)
	}
}

// handleAck correlates an ack against the outstanding direct probe and
// against the relays this member is performing for others. Anything
// that matches neither is dropped.
func (d *detector) handleAck(pkt *Packet) {
	key := pingKey{addr: pkt.From, seq: pkt.Seq}

	if d.unacked != nil && d.unacked.addr == pkt.From && d.unacked.seq == pkt.Seq {
		if _, relaying := d.pending[key]; !relaying {
			d.meml.Update(Member{
				Addr:        pkt.From,
				Status:      Alive,
				Incarnation: d.unacked.inc,
			})
			d.unacked = nil
			return
		}
	}

	if origin, ok := d.pending[key]; ok {
		d.out.send(origin, &Packet{Type: Ack, Seq: pkt.Seq, From: pkt.From})
		delete(d.pending, key)
		return
	}
}

// nextTarget pops the next probe target, refilling the ring from a
// fresh membership snapshot in uniformly shuffled order when exhausted.
func (d *detector) nextTarget() (Member, bool) {
	if len(d.ring) == 0 {
		d.refill()
	}
	if len(d.ring) == 0 {
		return Member{}, false
	}

	target := d.ring[0]
	d.ring = d.ring[1:]
	return target, true
}

func (d *detector) refill() {
	members := d.meml.Members()

	ring := make([]Member, 0, len(members))
	for _, m := range members {
		if m.Addr == d.local || m.Status == Faulty {
			continue
		}
		ring = append(ring, m)
	}

	d.rng.Shuffle(len(ring), func(i, j int) {
		ring[i], ring[j] = ring[j], ring[i]
	})
	d.ring = ring
}

// pickHelpers draws up to groupSize distinct random members to carry an
// indirect probe. The target, the local member and faulty tombstones
// are never eligible.
func (d *detector) pickHelpers(target NodeAddress) []Member {
	candidates := make([]Member, 0)
	for _, m := range d.meml.Members() {
		if m.Addr == d.local || m.Addr == target || m.Status == Faulty {
			continue
		}
		candidates = append(candidates, m)
	}

	d.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if len(candidates) > d.groupSize {
		candidates = candidates[:d.groupSize]
	}
	return candidates
}
