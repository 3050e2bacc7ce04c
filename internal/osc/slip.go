package osc

import "fmt"

// SLIP special bytes (RFC 1055).
const (
	slipEnd    byte = 0xC0
	slipEsc    byte = 0xDB
	slipEscEnd byte = 0xDC
	slipEscEsc byte = 0xDD
)

type slipCodec struct{}

func (slipCodec) Framing() Framing { return FramingSLIP }

// Encode frames the packet as END <escaped body> END.
func (slipCodec) Encode(msg Message) ([]byte, error) {
	body, err := marshal(msg)
	if err != nil {
		return nil, err
	}
	framed := make([]byte, 0, len(body)+8)
	framed = append(framed, slipEnd)
	for _, b := range body {
		switch b {
		case slipEnd:
			framed = append(framed, slipEsc, slipEscEnd)
		case slipEsc:
			framed = append(framed, slipEsc, slipEscEsc)
		default:
			framed = append(framed, b)
		}
	}
	framed = append(framed, slipEnd)
	return framed, nil
}

func (slipCodec) NewDecoder() Decoder {
	return &slipDecoder{}
}

type slipDecoder struct {
	frame    []byte
	escaped  bool
	dropping bool
}

func (d *slipDecoder) Feed(p []byte) ([]Message, []error) {
	var (
		msgs []Message
		errs []error
	)
	for _, b := range p {
		if b == slipEnd {
			if !d.dropping && len(d.frame) > 0 {
				decoded, err := unmarshal(d.frame)
				if err != nil {
					errs = append(errs, fmt.Errorf("%w: %v", ErrMalformedFrame, err))
				} else {
					msgs = append(msgs, decoded...)
				}
			}
			d.reset()
			continue
		}
		if d.dropping {
			continue
		}
		if d.escaped {
			d.escaped = false
			switch b {
			case slipEscEnd:
				d.frame = append(d.frame, slipEnd)
			case slipEscEsc:
				d.frame = append(d.frame, slipEsc)
			default:
				errs = append(errs, fmt.Errorf("escape sequence 0x%02X: %w", b, ErrMalformedFrame))
				d.dropping = true
			}
			continue
		}
		if b == slipEsc {
			d.escaped = true
			continue
		}
		if len(d.frame) >= MaxPacketSize {
			errs = append(errs, fmt.Errorf("frame exceeds %d bytes: %w", MaxPacketSize, ErrMalformedFrame))
			d.dropping = true
			continue
		}
		d.frame = append(d.frame, b)
	}
	return msgs, errs
}

func (d *slipDecoder) reset() {
	d.frame = d.frame[:0]
	d.escaped = false
	d.dropping = false
}
