package osc

import (
	"encoding/binary"
	"fmt"
)

const lengthHeaderSize = 4

type lengthCodec struct{}

func (lengthCodec) Framing() Framing { return FramingLength }

func (lengthCodec) Encode(msg Message) ([]byte, error) {
	body, err := marshal(msg)
	if err != nil {
		return nil, err
	}
	framed := make([]byte, lengthHeaderSize+len(body))
	binary.BigEndian.PutUint32(framed, uint32(len(body)))
	copy(framed[lengthHeaderSize:], body)
	return framed, nil
}

func (lengthCodec) NewDecoder() Decoder {
	return &lengthDecoder{}
}

type lengthDecoder struct {
	buf []byte
}

func (d *lengthDecoder) Feed(p []byte) ([]Message, []error) {
	d.buf = append(d.buf, p...)

	var (
		msgs []Message
		errs []error
		pos  int
	)
	for len(d.buf)-pos >= lengthHeaderSize {
		size := binary.BigEndian.Uint32(d.buf[pos:])
		if size == 0 || size > MaxPacketSize {
			// The stream position is lost; nothing buffered can be trusted.
			errs = append(errs, fmt.Errorf("length header %d: %w", size, ErrMalformedFrame))
			pos = len(d.buf)
			break
		}
		end := pos + lengthHeaderSize + int(size)
		if end > len(d.buf) {
			break
		}
		decoded, err := unmarshal(d.buf[pos+lengthHeaderSize : end])
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %v", ErrMalformedFrame, err))
		} else {
			msgs = append(msgs, decoded...)
		}
		pos = end
	}

	if pos > 0 {
		rest := copy(d.buf, d.buf[pos:])
		d.buf = d.buf[:rest]
	}
	return msgs, errs
}
