package eos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/eosbridge/internal/osc"
)

func TestIntensityMessage(t *testing.T) {
	tests := []struct {
		name   string
		target IntensityTarget
		value  string
		path   string
		args   []any
	}{
		{"channel clamps high", TargetChannel, "150", "/eos/chan/7", []any{float32(100)}},
		{"channel keeps percent", TargetChannel, "55", "/eos/chan/7", []any{float32(55)}},
		{"group clamps low", TargetGroup, "-5", "/eos/group/7", []any{float32(0)}},
		{"sub clamps to one", TargetSub, "150", "/eos/sub/7", []any{float32(1)}},
		{"sub half", TargetSub, "50", "/eos/sub/7", []any{float32(0.5)}},
		{"keyword out", TargetChannel, "out", "/eos/chan/7/out", nil},
		{"keyword full trimmed", TargetSub, " full ", "/eos/sub/7/full", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := IntensityMessage(tt.target, "7", tt.value)
			assert.Equal(t, tt.path, msg.Path)
			assert.Equal(t, tt.args, msg.Args)
		})
	}
}

func TestCommandLineMessage(t *testing.T) {
	msg := CommandLineMessage("Chan 1 At Full", false, false)
	assert.Equal(t, osc.NewMessage("/eos/cmd", "Chan 1 At Full#"), msg)

	msg = CommandLineMessage("Chan 1", true, false)
	assert.Equal(t, "/eos/newcmd", msg.Path)
	assert.Equal(t, []any{"Chan 1#"}, msg.Args)

	msg = CommandLineMessage("Chan 1", true, true)
	assert.Equal(t, []any{"Chan 1"}, msg.Args)
}

func TestKeyAndFireMessages(t *testing.T) {
	tests := []struct {
		msg  osc.Message
		path string
		args []any
	}{
		{BlackoutMessage(), "/eos/key/blackout", nil},
		{GoMessage(), "/eos/key/go_0", []any{float32(1)}},
		{StopBackMessage(), "/eos/key/stop", []any{float32(1)}},
		{KeyMessage("live"), "/eos/key/live", nil},
		{FireCueMessage("1", "2.5"), "/eos/cue/1/2.5/fire", nil},
		{FireMacroMessage(12), "/eos/macro/fire", []any{int32(12)}},
		{FirePresetMessage(4), "/eos/preset/4/fire", nil},
		{SubBumpMessage("3", Press), "/eos/sub/3/fire", nil},
		{SubBumpMessage("3", Hold), "/eos/sub/3/fire", []any{float32(1)}},
		{SubBumpMessage("3", Release), "/eos/sub/3/fire", []any{float32(0)}},
		{SoftkeyMessage(6, Press), "/eos/softkey/6", nil},
		{SoftkeyMessage(6, Hold), "/eos/softkey/6", []any{float32(1)}},
		{SoftkeyMessage(6, Release), "/eos/softkey/6", []any{float32(0)}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.path, tt.msg.Path)
		assert.Equal(t, tt.args, tt.msg.Args, tt.path)
	}
}

func TestPrefixed(t *testing.T) {
	assert.Equal(t, "/eos/key/go_0", Prefixed("/key/go_0").Path)
	assert.Equal(t, "/eos/key/go_0", Prefixed("key/go_0").Path)
}

func TestParseArguments(t *testing.T) {
	tests := []struct {
		text string
		want []any
	}{
		{`1 "test" 2.5`, []any{int32(1), "test", float32(2.5)}},
		{`"two words" here`, []any{"two words", "here"}},
		{`“curly quoted” 3`, []any{"curly quoted", int32(3)}},
		{`it's  -4`, []any{"its", int32(-4)}},
		{`NaN`, []any{"NaN"}},
		{``, nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseArguments(tt.text))
		})
	}
}

func TestParseArguments_UnterminatedQuoteTakesRest(t *testing.T) {
	assert.Equal(t, []any{"open ended text"}, ParseArguments(`"open ended text`))
}

func TestResyncMessages(t *testing.T) {
	msgs := resyncMessages("-1", 2)
	paths := make([]string, 0, len(msgs))
	for _, m := range msgs {
		require.Empty(t, m.Args)
		paths = append(paths, m.Path)
	}
	assert.Equal(t, []string{
		"/eos/reset",
		"/eos/user=-1",
		"/eos/get/macro/1",
		"/eos/get/group/1",
		"/eos/get/macro/2",
		"/eos/get/group/2",
	}, paths)

	assert.Len(t, resyncMessages("1", 0), 2)
}

func TestCommandMessagesEncode(t *testing.T) {
	codec, err := osc.NewCodec(osc.FramingLength)
	require.NoError(t, err)
	for _, msg := range []osc.Message{
		GoMessage(),
		FireMacroMessage(1),
		IntensityMessage(TargetSub, "1", "50"),
		CommandLineMessage("Go To Cue 1", true, false),
		osc.NewMessage("/x", ParseArguments(`1 "a b" 2.5`)...),
	} {
		_, err := codec.Encode(msg)
		assert.NoError(t, err, msg.Path)
	}
}
