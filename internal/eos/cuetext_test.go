package eos

import (
	"fmt"
	"testing"

	"github.com/five82/eosbridge/internal/state"
)

func TestParseCueText(t *testing.T) {
	tests := []struct {
		text          string
		label         string
		duration      string
		intensity     string
		hasIntensity  bool
		unmatchedText bool
	}{
		{text: "1/0.91 test 59.0", label: " test", duration: "59.0"},
		{text: "1/2 before after / max. colon : 100% end 1.0 100%", label: " before after / max. colon : 100% end", duration: "1.0", intensity: "100%", hasIntensity: true},
		{text: "1/2 min 0.0 100%", label: " min", duration: "0.0", intensity: "100%", hasIntensity: true},
		{text: "51.1 Drums 3.0 100%", label: " Drums", duration: "3.0", intensity: "100%", hasIntensity: true},
		{text: "1/1 Opening 5.0 100%", label: " Opening", duration: "5.0", intensity: "100%", hasIntensity: true},
		// No label: the cue number stands in.
		{text: "51.1 3.0 100%", label: "51.1", duration: "3.0", intensity: "100%", hasIntensity: true},
		{text: "51.1 3.0", label: "51.1", duration: "3.0"},
		{text: "1/2/3 3.0", label: "1/2/3", duration: "3.0"},
		{text: "not-a-parseable-cue", label: "not-a-parseable-cue", unmatchedText: true},
		{text: " 0.0 ", label: " 0.0 ", unmatchedText: true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ParseCueText(tt.text)
			if got.Matched == tt.unmatchedText {
				t.Fatalf("Matched = %v, want %v", got.Matched, !tt.unmatchedText)
			}
			if got.Label != tt.label {
				t.Fatalf("Label = %q, want %q", got.Label, tt.label)
			}
			if got.Duration != tt.duration {
				t.Fatalf("Duration = %q, want %q", got.Duration, tt.duration)
			}
			if got.Intensity != tt.intensity || got.HasIntensity != tt.hasIntensity {
				t.Fatalf("Intensity = %q/%v, want %q/%v", got.Intensity, got.HasIntensity, tt.intensity, tt.hasIntensity)
			}
		})
	}
}

func TestParseCueText_FieldsReassembleInput(t *testing.T) {
	lists := []string{"1", "12"}
	numbers := []string{"0.5", "51.1", "100"}
	labels := []string{"Drums", "Act 2 Scene 3", "a/b : c.", "Fade 10% warm"}
	durations := []string{"0.0", "3.0", "59.25"}
	intensities := []string{"", "0%", "100%", "42.5%"}

	for _, list := range lists {
		for _, num := range numbers {
			for _, label := range labels {
				for _, dur := range durations {
					for _, intensity := range intensities {
						text := fmt.Sprintf("%s/%s %s %s", list, num, label, dur)
						if intensity != "" {
							text += " " + intensity
						}
						got := ParseCueText(text)
						if !got.Matched || got.Label != " "+label || got.Duration != dur || got.Intensity != intensity {
							t.Fatalf("ParseCueText(%q) = %#v", text, got)
						}
						if got.String() != text {
							t.Fatalf("String() = %q, want %q", got.String(), text)
						}
					}
				}
			}
		}
	}
}

func TestCueTextValues(t *testing.T) {
	values := ParseCueText("51.1 Drums 3.0").Values(state.CuePending)
	if len(values) != 2 {
		t.Fatalf("values = %v, want label and duration only", values)
	}
	if values[state.CueKey(state.CuePending, state.FieldLabel)] != " Drums" {
		t.Fatalf("label = %q", values[state.CueKey(state.CuePending, state.FieldLabel)])
	}

	values = ParseCueText("garbage").Values(state.CueActive)
	if len(values) != 1 || values["cue_active_label"] != "garbage" {
		t.Fatalf("unmatched values = %v, want only the raw label", values)
	}
}

func TestClearsActiveCue(t *testing.T) {
	for text, want := range map[string]bool{
		"":                 true,
		" 0.0 ":            true,
		"0.0":              true,
		"0.0 100%":         true,
		"  0.0":            false,
		"1/1 0.0":          false,
		"51.1 Drums 3.0":   false,
		"0.05 Walk In 3.0": false,
		"0.01":             false,
		" 0.0.1 2.0":       false,
	} {
		if got := clearsActiveCue(text); got != want {
			t.Fatalf("clearsActiveCue(%q) = %v, want %v", text, got, want)
		}
	}
}
