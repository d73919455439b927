// Package transport simulates the receiver side of a reliable transport
// session. Incoming packets are routed through a dispatch.Registry keyed
// on packet type: a base hook logs and counts every packet, and one
// handler per packet type advances the session state.
package transport

import (
	"fmt"

	"github.com/kimberlypn/keydispatch/pkg/dispatch"
	"github.com/kimberlypn/keydispatch/pkg/errors"
	"github.com/kimberlypn/keydispatch/pkg/logging"
	"github.com/kimberlypn/keydispatch/pkg/sequence"
)

// PacketType identifies which handler a packet is dispatched to.
type PacketType string

const (
	PacketSyn  PacketType = "syn"
	PacketData PacketType = "data"
	PacketAck  PacketType = "ack"
	PacketFin  PacketType = "fin"
)

// Packet is one inbound segment.
type Packet struct {
	Type    PacketType
	Seq     uint32
	Payload []byte
}

// Ack is the receiver's answer to a packet: the next sequence number it
// expects, and whether this is a re-ack for an out-of-order segment.
type Ack struct {
	Seq       uint32
	Duplicate bool
}

// Session is the owner threaded through every dispatch for one peer.
type Session struct {
	// NextSeq is the next in-order sequence number expected from the peer.
	NextSeq uint32
	// PeerAcked is the highest sequence number the peer has acknowledged.
	PeerAcked uint32
	// BytesReceived counts in-order payload bytes.
	BytesReceived uint64
	// Dispatched counts every packet seen by the base hook, including
	// ones that failed dispatch.
	Dispatched int
	// Duplicates counts out-of-order data segments that were re-acked.
	Duplicates int

	Established bool
	Closed      bool
}

// packetOps routes packets to their per-type handlers. The table is built
// in init and read-only afterwards.
var packetOps = dispatch.MustNew[*Session, PacketType, Packet, Ack](logPacket)

func init() {
	packetOps.Handle(PacketSyn, handleSyn)
	packetOps.Handle(PacketData, handleData)
	packetOps.Handle(PacketAck, handleAck)
	packetOps.Handle(PacketFin, handleFin)
}

// logPacket is the base hook: it runs before every handler, regardless of
// packet type, and never decides the dispatch result.
func logPacket(s *Session, key PacketType, p Packet) {
	s.Dispatched++
	logger := logging.GetLogger("transport")
	logger.Debug().
		Str("type", string(key)).
		Uint32("seq", p.Seq).
		Int("len", len(p.Payload)).
		Msg("Packet received")
}

// Receive dispatches one packet against the session. Packet types without
// a registered handler fail with ErrKeyNotFound after the base hook has
// counted the packet.
func (s *Session) Receive(p Packet) (Ack, error) {
	return packetOps.Dispatch(s, p.Type, p)
}

// HandledTypes returns the packet types the session can dispatch.
func HandledTypes() []PacketType {
	return packetOps.Keys()
}

func handleSyn(s *Session, p Packet) (Ack, error) {
	if s.Established {
		return Ack{}, errors.Newf(errors.ErrInvalidInput, "duplicate syn on established session")
	}

	s.Established = true
	// A syn consumes one sequence number
	s.NextSeq = sequence.Add(p.Seq, 1)
	return Ack{Seq: s.NextSeq}, nil
}

func handleData(s *Session, p Packet) (Ack, error) {
	if !s.Established {
		return Ack{}, errors.New(errors.ErrInvalidInput, "data before syn")
	}
	if s.Closed {
		return Ack{}, errors.New(errors.ErrInvalidInput, "data after fin")
	}

	if p.Seq != s.NextSeq {
		// Out of order: re-ack what we already have
		s.Duplicates++
		return Ack{Seq: s.NextSeq, Duplicate: true}, nil
	}

	s.NextSeq = sequence.Next(p.Seq, p.Payload)
	s.BytesReceived += uint64(len(p.Payload))
	return Ack{Seq: s.NextSeq}, nil
}

func handleAck(s *Session, p Packet) (Ack, error) {
	if !s.Established {
		return Ack{}, errors.New(errors.ErrInvalidInput, "ack before syn")
	}

	s.PeerAcked = p.Seq
	return Ack{Seq: s.NextSeq}, nil
}

func handleFin(s *Session, p Packet) (Ack, error) {
	if !s.Established {
		return Ack{}, errors.New(errors.ErrInvalidInput, "fin before syn")
	}

	s.Closed = true
	// A fin consumes one sequence number, like syn
	s.NextSeq = sequence.Add(p.Seq, 1)
	return Ack{Seq: s.NextSeq}, nil
}

// Summary returns a one-line account of the session, suitable for the CLI.
func (s *Session) Summary() string {
	state := "open"
	switch {
	case s.Closed:
		state = "closed"
	case !s.Established:
		state = "idle"
	}
	return fmt.Sprintf("session %s: %d packets, %d bytes, %d duplicates, next seq %d",
		state, s.Dispatched, s.BytesReceived, s.Duplicates, s.NextSeq)
}
