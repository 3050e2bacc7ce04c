package eos

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/five82/eosbridge/internal/osc"
)

const pathPrefix = "/eos/"

// IntensityTarget selects what SetIntensity addresses.
type IntensityTarget string

const (
	TargetChannel IntensityTarget = "chan"
	TargetGroup   IntensityTarget = "group"
	TargetSub     IntensityTarget = "sub"
)

// ButtonState is the argument convention shared by sub bumps and softkeys.
type ButtonState int

const (
	// Press sends no argument: the console presses and releases.
	Press ButtonState = iota
	// Hold sends 1.0.
	Hold
	// Release sends 0.0.
	Release
)

func (b ButtonState) args() []any {
	switch b {
	case Hold:
		return []any{float32(1)}
	case Release:
		return []any{float32(0)}
	default:
		return nil
	}
}

// Prefixed builds a message under the /eos/ root.
func Prefixed(path string, args ...any) osc.Message {
	return osc.NewMessage(pathPrefix+strings.TrimPrefix(path, "/"), args...)
}

// CommandLineMessage replaces (clear) or appends to the command line. The
// line is terminated with # unless keepBuilding is set.
func CommandLineMessage(text string, clear, keepBuilding bool) osc.Message {
	path := "cmd"
	if clear {
		path = "newcmd"
	}
	if !keepBuilding {
		text += "#"
	}
	return Prefixed(path, text)
}

// KeyMessage presses a named console key.
func KeyMessage(name string, args ...any) osc.Message {
	return Prefixed("key/"+name, args...)
}

// BlackoutMessage toggles blackout.
func BlackoutMessage() osc.Message { return KeyMessage("blackout") }

// GoMessage presses Go on the main playback.
func GoMessage() osc.Message { return KeyMessage("go_0", float32(1)) }

// StopBackMessage presses Stop/Back on the main playback.
func StopBackMessage() osc.Message { return KeyMessage("stop", float32(1)) }

// FireCueMessage fires cue number in list.
func FireCueMessage(list, number string) osc.Message {
	return Prefixed(fmt.Sprintf("cue/%s/%s/fire", list, number))
}

// FireMacroMessage fires a macro.
func FireMacroMessage(macro int) osc.Message {
	return Prefixed("macro/fire", int32(macro))
}

// FirePresetMessage recalls a preset on the current selection.
func FirePresetMessage(preset int) osc.Message {
	return Prefixed(fmt.Sprintf("preset/%d/fire", preset))
}

// IntensityMessage sets the level of a channel, group or sub. Numeric values
// are percentages clamped to [0,100]; subs receive the fraction 0..1. Any other
// value (out, full, min, max) is appended to the path with no argument.
func IntensityMessage(target IntensityTarget, id, value string) osc.Message {
	base := fmt.Sprintf("%s/%s", target, id)
	level, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(level) {
		return Prefixed(base + "/" + strings.TrimSpace(value))
	}
	level = math.Max(0, math.Min(100, level))
	if target == TargetSub {
		level /= 100
	}
	return Prefixed(base, float32(level))
}

// SubBumpMessage drives the bump button of a submaster.
func SubBumpMessage(sub string, st ButtonState) osc.Message {
	return Prefixed(fmt.Sprintf("sub/%s/fire", sub), st.args()...)
}

// SoftkeyMessage drives a softkey.
func SoftkeyMessage(softkey int, st ButtonState) osc.Message {
	return Prefixed(fmt.Sprintf("softkey/%d", softkey), st.args()...)
}

// ParseArguments turns a textual argument list such as `1 "two words" 2.5`
// into OSC arguments. Numbers containing a dot become float32, other numbers
// int32, everything else a string with its quotes removed. Double-quoted
// tokens may span spaces; curly quotes count as straight ones.
func ParseArguments(text string) []any {
	text = strings.NewReplacer("“", `"`, "”", `"`).Replace(text)
	raw := strings.Split(text, " ")

	var args []any
	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		if tok == "" {
			continue
		}
		if n, err := strconv.ParseFloat(tok, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			if strings.Contains(tok, ".") {
				args = append(args, float32(n))
			} else if v, err := strconv.ParseInt(tok, 10, 32); err == nil {
				args = append(args, int32(v))
			} else {
				args = append(args, float32(n))
			}
			continue
		}
		if strings.HasPrefix(tok, `"`) {
			for !strings.HasSuffix(tok, `"`) || tok == `"` {
				if i+1 >= len(raw) {
					break
				}
				i++
				tok += " " + raw[i]
			}
		}
		args = append(args, strings.NewReplacer(`"`, "", "'", "").Replace(tok))
	}
	return args
}

// resyncMessages is the sequence sent after connecting and on show reloads:
// reset, select the user, then request the polled labels.
func resyncMessages(userID string, numLabels int) []osc.Message {
	msgs := []osc.Message{
		osc.NewMessage("/eos/reset"),
		osc.NewMessage("/eos/user=" + userID),
	}
	for n := 1; n <= numLabels; n++ {
		msgs = append(msgs,
			Prefixed(fmt.Sprintf("get/macro/%d", n)),
			Prefixed(fmt.Sprintf("get/group/%d", n)),
		)
	}
	return msgs
}
