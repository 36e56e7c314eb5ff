package swim

// MessageType indicates what kind of packet is carried.
type MessageType int32

const (
	// Ping is the direct probe message.
	Ping MessageType = iota
	// PingRequest asks a third member to probe the target indirectly.
	PingRequest
	// Ack answers a probe, echoing the prober's sequence number.
	Ack
)

// String returns the string of message type.
func (m MessageType) String() string {
	switch m {
	case Ping:
		return "PING"
	case PingRequest:
		return "PING-REQ"
	case Ack:
		return "ACK"
	default:
		return "unknown"
	}
}

// Packet is the single wire frame exchanged between swim servers.
// Target is only set on PING-REQ frames and From only on ACK frames.
// Events carry piggybacked membership gossip; the detection logic
// never inspects them beyond handing them to the membership list.
type Packet struct {
	Type   MessageType
	Seq    uint64
	Target NodeAddress
	From   NodeAddress
	Events []Member
}
