package swim

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
)

// encodePacket frames a packet with gob, draining up to limit gossip
// events from the queue into the packet's piggyback section.
func encodePacket(p *Packet, q *eventQueue, limit int) ([]byte, error) {
	if q != nil && limit > 0 {
		p.Events = q.fetch(limit)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(p); err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s packet", p.Type)
	}
	return buf.Bytes(), nil
}

// decodePacket parses a single datagram payload.
func decodePacket(b []byte) (*Packet, error) {
	p := &Packet{}
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(p); err != nil {
		return nil, errors.Wrap(err, "failed to decode packet")
	}
	return p, nil
}
