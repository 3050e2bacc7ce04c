package osc

import (
	"fmt"
	"strconv"
	"strings"
)

// Message is one decoded OSC message: an address path and its typed arguments.
//
// Arguments carry the OSC wire types as Go values: int32, int64, float32,
// float64, string, bool, []byte or nil.
type Message struct {
	Path string
	Args []any
}

// NewMessage builds a message for path with the given arguments.
func NewMessage(path string, args ...any) Message {
	return Message{Path: path, Args: args}
}

// String renders the message for debug logs.
func (m Message) String() string {
	if len(m.Args) == 0 {
		return m.Path
	}
	parts := make([]string, 0, len(m.Args))
	for _, arg := range m.Args {
		parts = append(parts, fmt.Sprintf("%v(%s)", arg, typeTag(arg)))
	}
	return m.Path + " " + strings.Join(parts, ", ")
}

// StringArg returns argument i when it is an OSC string.
func (m Message) StringArg(i int) (string, bool) {
	if i < 0 || i >= len(m.Args) {
		return "", false
	}
	s, ok := m.Args[i].(string)
	return s, ok
}

// FloatArg returns argument i coerced to float64. Numeric strings are accepted.
func (m Message) FloatArg(i int) (float64, bool) {
	if i < 0 || i >= len(m.Args) {
		return 0, false
	}
	switch v := m.Args[i].(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// TextArg returns argument i formatted as text regardless of its OSC type.
// Missing and nil arguments yield "".
func (m Message) TextArg(i int) string {
	if i < 0 || i >= len(m.Args) {
		return ""
	}
	switch v := m.Args[i].(type) {
	case nil:
		return ""
	case string:
		return v
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func typeTag(arg any) string {
	switch arg.(type) {
	case int32:
		return "i"
	case int64:
		return "h"
	case float32:
		return "f"
	case float64:
		return "d"
	case string:
		return "s"
	case []byte:
		return "b"
	case bool:
		return "T/F"
	case nil:
		return "N"
	default:
		return "?"
	}
}
