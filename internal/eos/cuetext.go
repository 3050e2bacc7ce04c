package eos

import (
	"regexp"
	"strings"

	"github.com/five82/eosbridge/internal/state"
)

// Cue text looks like "51.1 Drums 3.0 100%" or "1/2 Drums 3.0":
// <cue number> <label> <duration> [<intensity>%]. The label keeps its leading space.
var cueTextPattern = regexp.MustCompile(`^([\d.]+/[\d.]+|[\d.]+)?(/[\d.]+)?( (.*?))? ([\d.]+)( ([\d.]+%))?$`)

var noActiveCuePattern = regexp.MustCompile(`^ ?0\.0( |$)`)

// CueText is the result of parsing one cue description.
type CueText struct {
	// Matched is false when the text did not fit the pattern. Label then holds
	// the raw text and the other fields are empty.
	Matched      bool
	CueNumber    string
	Label        string
	Duration     string
	Intensity    string
	HasIntensity bool
}

// ParseCueText parses a cue description. It never fails: text that does not
// fit the pattern is returned verbatim as the label.
//
// When the text carries no label the cue number (with any sub-list suffix)
// stands in for it, so "51.1 3.0 100%" yields the label "51.1".
func ParseCueText(text string) CueText {
	m := cueTextPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return CueText{Label: text}
	}
	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return text[m[2*i]:m[2*i+1]], true
	}

	cue, _ := group(1)
	sublist, _ := group(2)
	out := CueText{Matched: true, CueNumber: cue + sublist}
	if label, ok := group(3); ok {
		out.Label = label
	} else {
		out.Label = cue + sublist
	}
	out.Duration, _ = group(5)
	out.Intensity, out.HasIntensity = group(7)
	return out
}

// Values returns the store values for slot. Duration and intensity are only
// present when the text matched.
func (c CueText) Values(slot state.CueSlot) map[string]string {
	values := map[string]string{state.CueKey(slot, state.FieldLabel): c.Label}
	if !c.Matched {
		return values
	}
	values[state.CueKey(slot, state.FieldDuration)] = c.Duration
	if c.HasIntensity {
		values[state.CueKey(slot, state.FieldIntensity)] = c.Intensity
	}
	return values
}

// String reassembles the text the console would have sent for c.
func (c CueText) String() string {
	if !c.Matched {
		return c.Label
	}
	var b strings.Builder
	b.WriteString(c.CueNumber)
	if c.Label != c.CueNumber {
		b.WriteString(c.Label)
	}
	b.WriteByte(' ')
	b.WriteString(c.Duration)
	if c.HasIntensity {
		b.WriteByte(' ')
		b.WriteString(c.Intensity)
	}
	return b.String()
}

// clearsActiveCue reports whether text is the console's "no active cue"
// report: empty, or a lone 0.0 duration with nothing before it.
func clearsActiveCue(text string) bool {
	return text == "" || noActiveCuePattern.MatchString(text)
}
