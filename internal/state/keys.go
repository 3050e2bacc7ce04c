package state

import (
	"strconv"
	"strings"
)

// CueSlot names one of the three cue references the console reports.
type CueSlot string

const (
	CueActive   CueSlot = "active"
	CuePending  CueSlot = "pending"
	CuePrevious CueSlot = "previous"
)

// Cue reference fields.
const (
	FieldList      = "list"
	FieldNumber    = "num"
	FieldLabel     = "label"
	FieldDuration  = "duration"
	FieldIntensity = "intensity"
)

// Wheel sample fields.
const (
	FieldWheelLabel = "label"
	FieldStringVal  = "stringval"
	FieldCategory   = "cat"
	FieldFloatVal   = "floatval"
	FieldCommand    = "cmd"
)

// Fixed keys.
const (
	KeyCommandLine = "cmd"
	KeyShowName    = "show_name"
)

const wheelPrefix = "wheel_"

// CueKey returns the key of one field of a cue slot, e.g. cue_active_num.
func CueKey(slot CueSlot, field string) string {
	return "cue_" + string(slot) + "_" + field
}

// SoftkeyKey returns the label key of softkey i.
func SoftkeyKey(i int) string {
	return "softkey_label_" + strconv.Itoa(i)
}

// WheelKey returns the key of one field of transient wheel slot i, e.g. wheel_label_3.
func WheelKey(i int, field string) string {
	return wheelPrefix + field + "_" + strconv.Itoa(i)
}

// IsWheelKey reports whether key belongs to a transient wheel slot.
func IsWheelKey(key string) bool {
	return strings.HasPrefix(key, wheelPrefix)
}

// ParamKey returns the key of a distinct parameter value, e.g. enc_pan_floatval.
func ParamKey(param, field string) string {
	return param + "_" + field
}

// CategoryCountKey returns the key holding the number of wheels in a category.
func CategoryCountKey(category string) string {
	return category + "_wheel_count"
}

// CategoryKey returns the key of one field of the j-th wheel of a category,
// e.g. color_wheel_2_label.
func CategoryKey(category string, j int, field string) string {
	return category + "_wheel_" + strconv.Itoa(j) + "_" + field
}

// LabelKey returns the key of a polled target label, e.g. macro_label_12.
func LabelKey(kind, number string) string {
	return kind + "_label_" + number
}
