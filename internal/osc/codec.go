package osc

import (
	"errors"
	"fmt"
	"strings"

	goosc "github.com/hypebeast/go-osc/osc"
)

// Framing selects how OSC packets are delimited on a stream transport.
type Framing string

const (
	// FramingLength prefixes every packet with a 4-byte big-endian length (OSC 1.0 over TCP).
	FramingLength Framing = "length"
	// FramingSLIP delimits packets with SLIP END bytes (OSC 1.1 over TCP).
	FramingSLIP Framing = "slip"
)

// MaxPacketSize bounds a single decoded packet.
const MaxPacketSize = 1 << 20

var (
	// ErrUnsupportedArgument reports an argument that has no OSC wire type.
	ErrUnsupportedArgument = errors.New("unsupported osc argument")
	// ErrMalformedFrame reports bytes that could not be framed into a packet.
	ErrMalformedFrame = errors.New("malformed osc frame")

	errNotPacket = errors.New("body is not an osc message or bundle")
)

// Codec turns messages into framed bytes and produces per-stream decoders.
type Codec interface {
	Framing() Framing
	Encode(msg Message) ([]byte, error)
	NewDecoder() Decoder
}

// Decoder reassembles packets from a byte stream. A decoder is bound to one
// connection and is not safe for concurrent use.
//
// Feed returns every complete message found so far. Errors describe frames that
// were dropped; decoding continues with the following bytes.
type Decoder interface {
	Feed(p []byte) ([]Message, []error)
}

// NewCodec returns the codec for the given framing. An empty framing selects
// FramingLength.
func NewCodec(framing Framing) (Codec, error) {
	switch Framing(strings.ToLower(strings.TrimSpace(string(framing)))) {
	case FramingLength, "":
		return lengthCodec{}, nil
	case FramingSLIP:
		return slipCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown framing %q", framing)
	}
}

// marshal encodes the OSC body of msg without any stream framing.
func marshal(msg Message) ([]byte, error) {
	if !strings.HasPrefix(msg.Path, "/") {
		return nil, fmt.Errorf("encode %q: address must start with /", msg.Path)
	}
	out := goosc.NewMessage(msg.Path)
	for i, arg := range msg.Args {
		switch arg.(type) {
		case int32, int64, float32, float64, string, bool, []byte, nil:
			out.Append(arg)
		default:
			return nil, fmt.Errorf("encode %s arg %d (%T): %w", msg.Path, i, arg, ErrUnsupportedArgument)
		}
	}
	body, err := out.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.Path, err)
	}
	return body, nil
}

// unmarshal parses one OSC packet body. Bundles are flattened into their messages.
func unmarshal(body []byte) ([]Message, error) {
	packet, err := goosc.ParsePacket(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse packet: %w", err)
	}
	if packet == nil {
		return nil, errNotPacket
	}
	var msgs []Message
	flatten(packet, &msgs)
	return msgs, nil
}

func flatten(packet goosc.Packet, out *[]Message) {
	switch p := packet.(type) {
	case *goosc.Message:
		args := make([]any, len(p.Arguments))
		copy(args, p.Arguments)
		*out = append(*out, Message{Path: p.Address, Args: args})
	case *goosc.Bundle:
		for _, m := range p.Messages {
			flatten(m, out)
		}
		for _, b := range p.Bundles {
			flatten(b, out)
		}
	}
}
