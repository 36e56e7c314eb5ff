package swim

import (
	"time"
)

const mailboxSize = 1024

// Requests accepted by the memList inbox.
type (
	mlUpdate struct {
		claim Member
	}
	mlMembers struct {
		reply chan []Member
	}
	mlLength struct {
		reply chan int
	}
	mlLocal struct {
		reply chan Member
	}
)

// memList is the authoritative membership view of the local server.
// All state is owned by a single goroutine which drains the inbox in
// arrival order; callers interact only through the typed methods below.
// The local member is tracked apart from the map and never appears in
// it: claims against the local member are answered by refutation.
type memList struct {
	me     Member
	list   map[NodeAddress]Member
	sink   eventSink
	sched  Scheduler
	expire time.Duration

	inbox chan interface{}
	done  chan struct{}
}

func newMemList(me NodeAddress, expire time.Duration, sink eventSink, sched Scheduler) *memList {
	return &memList{
		me:     Member{Addr: me, Status: Alive, Incarnation: 0},
		list:   make(map[NodeAddress]Member),
		sink:   sink,
		sched:  sched,
		expire: expire,
		inbox:  make(chan interface{}, mailboxSize),
		done:   make(chan struct{}),
	}
}

// run drains the inbox until stopActor is called. Deferred timer
// deliveries which arrive after stop are discarded by the post helpers.
func (ml *memList) run() {
	for {
		select {
		case <-ml.done:
			return
		case m := <-ml.inbox:
			ml.dispatch(m)
		}
	}
}

func (ml *memList) stopActor() {
	close(ml.done)
}

func (ml *memList) dispatch(m interface{}) {
	switch req := m.(type) {
	case mlUpdate:
		ml.handleUpdate(req.claim)
	case mlMembers:
		req.reply <- ml.snapshot()
	case mlLength:
		req.reply <- len(ml.list)
	case mlLocal:
		req.reply <- ml.me
	}
}

// Update posts a status claim. The claim is reconciled against the
// current entry and dropped when stale.
func (ml *memList) Update(claim Member) {
	select {
	case ml.inbox <- mlUpdate{claim: claim}:
	case <-ml.done:
	}
}

// Members returns a snapshot copy of the current entries, faulty
// tombstones included.
func (ml *memList) Members() []Member {
	reply := make(chan []Member, 1)
	select {
	case ml.inbox <- mlMembers{reply: reply}:
	case <-ml.done:
		return nil
	}
	select {
	case members := <-reply:
		return members
	case <-ml.done:
		return nil
	}
}

// Length returns the number of entries in the list.
func (ml *memList) Length() int {
	reply := make(chan int, 1)
	select {
	case ml.inbox <- mlLength{reply: reply}:
	case <-ml.done:
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-ml.done:
		return 0
	}
}

// Local returns the local member with its current incarnation.
func (ml *memList) Local() Member {
	reply := make(chan Member, 1)
	select {
	case ml.inbox <- mlLocal{reply: reply}:
	case <-ml.done:
		return Member{}
	}
	select {
	case me := <-reply:
		return me
	case <-ml.done:
		return Member{}
	}
}

// handleUpdate applies the reconciliation rules to a single claim.
// Exactly one event is pushed to the sink per accepted transition;
// stale claims leave the list untouched and push nothing.
func (ml *memList) handleUpdate(claim Member) {
	if claim.Addr == ml.me.Addr {
		ml.refute(claim)
		return
	}

	var old *Member
	if cur, ok := ml.list[claim.Addr]; ok {
		old = &cur
	}

	if !compare(old, claim) {
		return
	}

	ml.list[claim.Addr] = claim
	trackTransition(old, claim)
	if claim.Status == Suspect {
		ml.armSuspectTimer(claim)
	}
	ml.sink.push(claim)
}

// refute answers a remote claim against the local member. The local
// incarnation advances past the claimed one and a fresh alive
// announcement is queued for dissemination. Alive claims about the
// local member carry no new information and are ignored.
func (ml *memList) refute(claim Member) {
	if claim.Status == Alive {
		return
	}

	if claim.Incarnation > ml.me.Incarnation {
		ml.me.Incarnation = claim.Incarnation
	}
	ml.me.Incarnation++
	refutations.Inc()
	ml.sink.push(ml.me)
}

// armSuspectTimer schedules the faulty declaration for a freshly
// suspected member. The timer is not cancellable: a stale firing is
// dropped by the reconciliation rules once the entry has moved on.
func (ml *memList) armSuspectTimer(m Member) {
	claim := Member{Addr: m.Addr, Status: Faulty, Incarnation: m.Incarnation}
	ml.sched.After(ml.expire, func() {
		ml.Update(claim)
	})
}

func (ml *memList) snapshot() []Member {
	members := make([]Member, 0, len(ml.list))
	for _, m := range ml.list {
		members = append(members, m)
	}
	return members
}
