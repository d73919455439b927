// Package scenario loads packet scenarios from TOML files. A scenario is
// a named list of packets to feed a transport session in order.
package scenario

import (
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	tomlv2 "github.com/pelletier/go-toml/v2"

	"github.com/kimberlypn/keydispatch/pkg/errors"
	"github.com/kimberlypn/keydispatch/pkg/transport"
)

// Scenario is one runnable packet sequence.
type Scenario struct {
	Name    string `koanf:"name" toml:"name"`
	Packets []Step `koanf:"packets" toml:"packets"`
}

// Step is one packet in a scenario file. Payload is carried as a string
// for TOML readability.
type Step struct {
	Type    string `koanf:"type" toml:"type"`
	Seq     uint32 `koanf:"seq" toml:"seq"`
	Payload string `koanf:"payload" toml:"payload,omitempty"`
}

// Load reads and validates a scenario file. Unknown packet types are
// rejected here, before anything is dispatched.
func Load(path string) (*Scenario, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load scenario from %s", path)
	}

	var s Scenario
	if err := k.Unmarshal("", &s); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse scenario from %s", path)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scenario against the packet types the transport
// session can dispatch.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New(errors.ErrInvalidInput, "scenario name is required")
	}
	if len(s.Packets) == 0 {
		return errors.New(errors.ErrInvalidInput, "scenario has no packets")
	}

	known := make(map[transport.PacketType]bool)
	for _, t := range transport.HandledTypes() {
		known[t] = true
	}

	for i, step := range s.Packets {
		if !known[transport.PacketType(step.Type)] {
			return errors.Newf(errors.ErrConfigParse, "packet %d has unknown type %q", i, step.Type).
				WithDetail("index", i).
				WithDetail("type", step.Type)
		}
	}
	return nil
}

// TransportPackets converts the scenario steps into transport packets.
func (s *Scenario) TransportPackets() []transport.Packet {
	packets := make([]transport.Packet, 0, len(s.Packets))
	for _, step := range s.Packets {
		var payload []byte
		if step.Payload != "" {
			payload = []byte(step.Payload)
		}
		packets = append(packets, transport.Packet{
			Type:    transport.PacketType(step.Type),
			Seq:     step.Seq,
			Payload: payload,
		})
	}
	return packets
}

// Sample returns the scenario written by WriteSample: a three-way
// handshake, two in-order segments, one out-of-order retransmit, and a
// close.
func Sample() Scenario {
	return Scenario{
		Name: "handshake-and-transfer",
		Packets: []Step{
			{Type: string(transport.PacketSyn), Seq: 100},
			{Type: string(transport.PacketData), Seq: 101, Payload: "hello "},
			{Type: string(transport.PacketData), Seq: 107, Payload: "world"},
			{Type: string(transport.PacketData), Seq: 107, Payload: "world"},
			{Type: string(transport.PacketAck), Seq: 112},
			{Type: string(transport.PacketFin), Seq: 112},
		},
	}
}

// WriteSample marshals the sample scenario to path.
func WriteSample(path string) error {
	data, err := tomlv2.Marshal(Sample())
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to marshal sample scenario")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to write sample scenario to %s", path)
	}
	return nil
}
