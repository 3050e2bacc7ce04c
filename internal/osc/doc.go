// Package osc frames OSC packets for stream transports.
//
// # Overview
//
// OSC over TCP has no packet boundaries of its own, so every packet needs an
// envelope. Eos consoles speak two envelopes on port 3032 and this package
// implements both behind the same Codec interface:
//
//   - FramingLength: OSC 1.0 style. A 4-byte big-endian length header followed by
//     exactly that many bytes of OSC body.
//   - FramingSLIP: OSC 1.1 style. The body is byte-stuffed and delimited by SLIP
//     END bytes (0xC0) on both sides.
//
// The codec is chosen once, from configuration, when a session is built. The two
// implementations share nothing but the body encoder.
//
// # Bodies
//
// Message bodies are marshalled and parsed with github.com/hypebeast/go-osc.
// Bundles are flattened into their messages in order. Only arguments with an OSC
// wire type are accepted (int32, int64, float32, float64, string, bool, []byte,
// nil); anything else returns ErrUnsupportedArgument from Encode.
//
// # Decoding
//
// A Decoder is bound to one connection and buffers partial frames between reads:
//
//	dec := codec.NewDecoder()
//	for {
//		n, err := conn.Read(buf)
//		msgs, errs := dec.Feed(buf[:n])
//		...
//	}
//
// Malformed frames are reported through the error slice and dropped. Decoding
// always continues with the next bytes; a bad frame never tears down the stream.
package osc
