package eos

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/five82/eosbridge/internal/state"
)

// wheelCategory is one of the fixed encoder categories the console assigns.
type wheelCategory struct {
	id   string
	name string
}

var wheelCategories = []wheelCategory{
	{"1", "intensity"},
	{"2", "focus"},
	{"3", "color"},
	{"4", "image"},
	{"5", "form"},
	{"6", "shutter"},
}

// "Pan [45]" carries its string value in brackets.
var wheelLabelPattern = regexp.MustCompile(`^([^\[]*)\s*\[([^\]]*)\]`)

// WheelSample is the decoded payload of one /active/wheel/<index> message.
type WheelSample struct {
	Index     int
	Label     string
	StringVal string
	Category  string
	FloatVal  string
}

// ParseWheel decodes the label, category and value arguments of a wheel
// message. A missing or non-numeric value becomes 0.00.
func ParseWheel(index int, rawLabel, category string, value float64, hasValue bool) WheelSample {
	sample := WheelSample{Index: index, Label: rawLabel, Category: category}
	if m := wheelLabelPattern.FindStringSubmatch(rawLabel); m != nil {
		sample.Label = strings.TrimRight(m[1], " \t")
		sample.StringVal = m[2]
	}
	if !hasValue {
		value = 0
	}
	sample.FloatVal = strconv.FormatFloat(value, 'f', 2, 64)
	return sample
}

// Values returns the transient slot keys of the sample.
func (w WheelSample) Values() map[string]string {
	return map[string]string{
		state.WheelKey(w.Index, state.FieldWheelLabel): w.Label,
		state.WheelKey(w.Index, state.FieldStringVal):  w.StringVal,
		state.WheelKey(w.Index, state.FieldCategory):   w.Category,
		state.WheelKey(w.Index, state.FieldFloatVal):   w.FloatVal,
	}
}

// CommandName normalizes a wheel label into the name used in command bindings.
func CommandName(label string) string {
	name := strings.ToLower(label)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "/", `\`)
}

// wheelSamples reads the populated wheel slots 1..limit out of the store in index order.
func wheelSamples(store *state.Store, limit int) []WheelSample {
	snap := store.Snapshot()
	var samples []WheelSample
	for i := 1; i <= limit; i++ {
		label, ok := snap.Values[state.WheelKey(i, state.FieldWheelLabel)]
		if !ok {
			continue
		}
		samples = append(samples, WheelSample{
			Index:     i,
			Label:     label,
			StringVal: snap.Get(state.WheelKey(i, state.FieldStringVal)),
			Category:  snap.Get(state.WheelKey(i, state.FieldCategory)),
			FloatVal:  snap.Get(state.WheelKey(i, state.FieldFloatVal)),
		})
	}
	return samples
}

// AggregateWheels groups samples by category. Every fixed category gets its
// total count; the first perCategory entries (by wheel index) are published
// and the remaining slots are blanked. It returns the values and the number of
// samples that fell into a fixed category.
func AggregateWheels(samples []WheelSample, perCategory int) (map[string]string, int) {
	sorted := make([]WheelSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	byCategory := make(map[string][]WheelSample, len(wheelCategories))
	for _, sample := range sorted {
		id := strings.TrimSpace(sample.Category)
		byCategory[id] = append(byCategory[id], sample)
	}

	values := make(map[string]string)
	total := 0
	for _, cat := range wheelCategories {
		entries := byCategory[cat.id]
		total += len(entries)
		values[state.CategoryCountKey(cat.name)] = strconv.Itoa(len(entries))
		for j := 1; j <= perCategory; j++ {
			var e WheelSample
			if j <= len(entries) {
				e = entries[j-1]
			}
			values[state.CategoryKey(cat.name, j, state.FieldWheelLabel)] = e.Label
			values[state.CategoryKey(cat.name, j, state.FieldStringVal)] = e.StringVal
			values[state.CategoryKey(cat.name, j, state.FieldFloatVal)] = e.FloatVal
			values[state.CategoryKey(cat.name, j, state.FieldCommand)] = CommandName(e.Label)
		}
	}
	return values, total
}

// wheelAggregator debounces wheel bursts. It is owned by the session loop:
// Touch, Stop and fire all run there. The timer callback only posts.
type wheelAggregator struct {
	quiet time.Duration
	post  func(func()) bool
	flush func()

	timer   *time.Timer
	gen     uint64
	reading bool
}

func newWheelAggregator(quiet time.Duration, post func(func()) bool, flush func()) *wheelAggregator {
	return &wheelAggregator{quiet: quiet, post: post, flush: flush}
}

// Touch restarts the quiet period.
func (w *wheelAggregator) Touch() {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.gen++
	gen := w.gen
	w.reading = true
	w.timer = time.AfterFunc(w.quiet, func() {
		w.post(func() { w.fire(gen) })
	})
}

// Reading reports whether a burst is in flight.
func (w *wheelAggregator) Reading() bool {
	return w.reading
}

// Stop cancels a pending aggregation.
func (w *wheelAggregator) Stop() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.gen++
	w.reading = false
}

func (w *wheelAggregator) fire(gen uint64) {
	// A Touch or Stop after this firing was scheduled supersedes it.
	if gen != w.gen || !w.reading {
		return
	}
	w.reading = false
	w.flush()
}
