package eos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/eosbridge/internal/state"
)

func TestParseWheel(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		value     float64
		hasValue  bool
		label     string
		stringVal string
		floatVal  string
	}{
		{"bracketed value", "Pan [45]", 45, true, "Pan", "45", "45.00"},
		{"trailing spaces trimmed", "Color Select  [Open]", 1, true, "Color Select", "Open", "1.00"},
		{"no brackets", "Intens", 72.456, true, "Intens", "", "72.46"},
		{"missing value", "Zoom [20]", 0, false, "Zoom", "20", "0.00"},
		{"empty brackets", "Iris []", 3, true, "Iris", "", "3.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseWheel(4, tt.raw, "2", tt.value, tt.hasValue)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.stringVal, got.StringVal)
			assert.Equal(t, tt.floatVal, got.FloatVal)
			assert.Equal(t, "2", got.Category)
		})
	}
}

func TestWheelSampleValues(t *testing.T) {
	values := ParseWheel(9, "Tilt [10]", "2", 10, true).Values()
	assert.Equal(t, map[string]string{
		"wheel_label_9":     "Tilt",
		"wheel_stringval_9": "10",
		"wheel_cat_9":       "2",
		"wheel_floatval_9":  "10.00",
	}, values)
}

func TestCommandName(t *testing.T) {
	assert.Equal(t, "color_mix\\mspeed", CommandName("Color Mix/MSpeed"))
	assert.Equal(t, "x_focus", CommandName("X Focus"))
}

func TestParameterFor(t *testing.T) {
	key, ok := ParameterFor("INTENS")
	require.True(t, ok)
	assert.Equal(t, "enc_intensity", key)

	key, ok = ParameterFor("Color Mix MSpeed")
	require.True(t, ok)
	assert.Equal(t, "enc_c2", key)

	_, ok = ParameterFor("Gobo Wheel")
	assert.False(t, ok)
}

func TestAggregateWheels(t *testing.T) {
	samples := []WheelSample{
		{Index: 3, Label: "Green", Category: "3", FloatVal: "2.00"},
		{Index: 1, Label: "Intens", Category: "1", FloatVal: "100.00"},
		{Index: 2, Label: "Red", StringVal: "R", Category: "3", FloatVal: "1.00"},
		{Index: 5, Label: "Blue", Category: "3", FloatVal: "3.00"},
		{Index: 9, Label: "Mystery", Category: "7"},
	}

	values, total := AggregateWheels(samples, 2)
	assert.Equal(t, 4, total)

	assert.Equal(t, "1", values[state.CategoryCountKey("intensity")])
	assert.Equal(t, "3", values[state.CategoryCountKey("color")])
	assert.Equal(t, "0", values[state.CategoryCountKey("shutter")])

	// Ordered by wheel index, capped at two per category.
	assert.Equal(t, "Red", values[state.CategoryKey("color", 1, state.FieldWheelLabel)])
	assert.Equal(t, "R", values[state.CategoryKey("color", 1, state.FieldStringVal)])
	assert.Equal(t, "red", values[state.CategoryKey("color", 1, state.FieldCommand)])
	assert.Equal(t, "Green", values[state.CategoryKey("color", 2, state.FieldWheelLabel)])
	_, ok := values[state.CategoryKey("color", 3, state.FieldWheelLabel)]
	assert.False(t, ok)

	// Empty slots are blanked so stale aggregates disappear.
	v, ok := values[state.CategoryKey("focus", 1, state.FieldWheelLabel)]
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestWheelSamplesReadsStoreInOrder(t *testing.T) {
	var store state.Store
	store.SetMany(ParseWheel(2, "Pan [1]", "2", 1, true).Values(), false)
	store.SetMany(ParseWheel(1, "Intens", "1", 50, true).Values(), false)
	store.SetMany(ParseWheel(80, "Beyond", "1", 50, true).Values(), false)

	samples := wheelSamples(&store, 50)
	require.Len(t, samples, 2)
	assert.Equal(t, 1, samples[0].Index)
	assert.Equal(t, "Pan", samples[1].Label)
	assert.Equal(t, "1", samples[1].StringVal)
}

// loopAggregator runs an aggregator whose posted work is executed by the test
// goroutine, standing in for the session loop.
type loopAggregator struct {
	*wheelAggregator
	events  chan func()
	flushes int
}

func newLoopAggregator(quiet time.Duration) *loopAggregator {
	l := &loopAggregator{events: make(chan func(), 64)}
	l.wheelAggregator = newWheelAggregator(quiet, func(fn func()) bool {
		l.events <- fn
		return true
	}, func() { l.flushes++ })
	return l
}

func (l *loopAggregator) runFor(d time.Duration) {
	deadline := time.After(d)
	for {
		select {
		case fn := <-l.events:
			fn()
		case <-deadline:
			return
		}
	}
}

func TestWheelAggregator_BurstFlushesOnce(t *testing.T) {
	l := newLoopAggregator(30 * time.Millisecond)
	for i := 0; i < 10; i++ {
		l.Touch()
	}
	require.True(t, l.Reading())

	l.runFor(250 * time.Millisecond)
	assert.Equal(t, 1, l.flushes)
	assert.False(t, l.Reading())
}

func TestWheelAggregator_ContinuousStreamDefers(t *testing.T) {
	l := newLoopAggregator(60 * time.Millisecond)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	stop := time.After(300 * time.Millisecond)
streaming:
	for {
		select {
		case <-ticker.C:
			l.Touch()
		case fn := <-l.events:
			fn()
		case <-stop:
			break streaming
		}
	}
	require.Zero(t, l.flushes, "aggregation ran while updates kept arriving")
	require.True(t, l.Reading())

	l.runFor(300 * time.Millisecond)
	assert.Equal(t, 1, l.flushes)
}

func TestWheelAggregator_StopCancelsPendingFlush(t *testing.T) {
	l := newLoopAggregator(20 * time.Millisecond)
	l.Touch()
	l.Stop()
	assert.False(t, l.Reading())

	l.runFor(150 * time.Millisecond)
	assert.Zero(t, l.flushes)
}

func TestWheelAggregator_StaleFiringIgnored(t *testing.T) {
	l := newLoopAggregator(time.Hour)
	l.Touch()
	stale := l.gen
	l.Touch()

	l.fire(stale)
	assert.Zero(t, l.flushes)
	assert.True(t, l.Reading())

	l.fire(l.gen)
	assert.Equal(t, 1, l.flushes)
	l.Stop()
}
