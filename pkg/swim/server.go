package swim

import (
	"math/rand"
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger *logrus.Entry

// Server maintains the list of connected members and drives the
// periodic failure detection protocol over the given transport.
// Membership changes are reconciled by the member list and queued for
// piggybacking on outgoing packets.
type Server struct {
	conf Config
	meml *memList
	det  *detector
	disq *eventQueue

	trans Transport

	seq     uint64
	stop    chan chan error
	stopped uint32
}

// NewServer creates swim server object. The given peers are seeded as
// alive members; there is no join handshake beyond the steady-state
// protocol.
func NewServer(conf *Config, trans Transport, log *logrus.Entry) (*Server, error) {
	if err := validateConfig(conf); err != nil {
		return nil, err
	}

	if log != nil {
		logger = log
	} else if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}

	if conf.PingExpire >= conf.PingPeriod {
		logger.Warnf("ping expire %v is not shorter than ping period %v: indirect probing will never run",
			conf.PingExpire, conf.PingPeriod)
	}

	disq := newEventQueue(conf.DisseminationLimit)
	sched := timeScheduler{}
	meml := newMemList(conf.Address, conf.SuspectExpire, disq, sched)

	// Seed the initial membership.
	for _, p := range conf.Peers {
		if p == conf.Address {
			continue
		}
		meml.handleUpdate(Member{Addr: p, Status: Alive, Incarnation: 0})
	}

	s := &Server{
		conf:    *conf,
		meml:    meml,
		disq:    disq,
		trans:   trans,
		stop:    make(chan chan error, 1),
		stopped: uint32(1),
	}
	s.det = newDetector(conf.Address, meml, s, sched,
		rand.New(rand.NewSource(time.Now().UnixNano())),
		conf.PingExpire, conf.PingRequestGroupSize)

	return s, nil
}

// Serve starts the member list and detector actors and drives the
// protocol periods. It blocks until Stop is called.
func (s *Server) Serve() {
	if s.canStart() == false {
		logger.Error(ErrRunning)
		return
	}

	go s.meml.run()
	go s.det.run()
	go s.recvLoop()

	ticker := time.NewTicker(s.conf.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case exit := <-s.stop:
			s.det.stopActor()
			s.meml.stopActor()
			exit <- s.trans.Close()
			return
		case <-ticker.C:
			s.seq++
			s.det.Tick(s.seq)
		}
	}
}

// Stop will stop the swim server and cleaning up.
func (s *Server) Stop() error {
	if s.isStopped() {
		return ErrStopped
	}

	exit := make(chan error)
	s.stop <- exit

	atomic.SwapUint32(&s.stopped, uint32(1))

	return <-exit
}

// GetMap returns a snapshot of the membership list.
func (s *Server) GetMap() []Member {
	return s.meml.Members()
}

// Local returns the local member with its current incarnation.
func (s *Server) Local() Member {
	return s.meml.Local()
}

func (s *Server) canStart() bool {
	return atomic.SwapUint32(&s.stopped, uint32(0)) == 1
}

func (s *Server) isStopped() bool {
	return atomic.LoadUint32(&s.stopped) == 1
}

// recvLoop pumps decoded packets from the transport into the detector.
// Malformed datagrams are discarded here and never reach the protocol.
func (s *Server) recvLoop() {
	for {
		from, b, err := s.trans.ReadFrom()
		if err != nil {
			if s.isStopped() || errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Warn(errors.Wrap(err, "failed to read from transport"))
			continue
		}

		pkt, err := decodePacket(b)
		if err != nil {
			logger.Warn(errors.Wrapf(err, "discarding malformed datagram from %s", from))
			continue
		}

		s.det.Receive(from, pkt)
	}
}

// send encodes one frame, attaching queued gossip events, and hands it
// to the transport. A send failure only logs: the next period will
// re-probe naturally.
func (s *Server) send(addr NodeAddress, p *Packet) {
	b, err := encodePacket(p, s.disq, s.conf.PiggybackLimit)
	if err != nil {
		logger.Error(err)
		return
	}

	if err := s.trans.WriteTo(addr, b); err != nil {
		logger.Warn(errors.Wrapf(err, "failed to send %s packet to %s", p.Type, addr))
		return
	}

	packetsSent.WithLabelValues(p.Type.String()).Inc()
}
