package eos

import (
	"github.com/five82/eosbridge/internal/osc"
)

// Send queues msg for the console without blocking. Sends are fire-and-forget:
// the message is dropped when no host is configured, before Run or after it
// returns, when the event queue is full, or when there is no live connection.
// It is safe to call from store callbacks.
func (s *Session) Send(msg osc.Message) {
	if s.cfg.Addr() == "" || !s.running.Load() || !s.tryPost(func() { s.write(msg) }) {
		s.metrics.dropped()
	}
}

// SendPath sends path with args. Unless raw is set, path is placed under /eos/.
func (s *Session) SendPath(path string, raw bool, args ...any) {
	if raw {
		s.Send(osc.NewMessage(path, args...))
		return
	}
	s.Send(Prefixed(path, args...))
}

// SendParsed sends path with arguments parsed from text, see ParseArguments.
func (s *Session) SendParsed(path, argText string, raw bool) {
	s.SendPath(path, raw, ParseArguments(argText)...)
}

// CommandLine types text on the console command line.
func (s *Session) CommandLine(text string, clear, keepBuilding bool) {
	s.Send(CommandLineMessage(text, clear, keepBuilding))
}

func (s *Session) Blackout() { s.Send(BlackoutMessage()) }
func (s *Session) Go() { s.Send(GoMessage()) }
func (s *Session) StopBack() { s.Send(StopBackMessage()) }
func (s *Session) PressKey(name string) { s.Send(KeyMessage(name)) }
func (s *Session) FireCue(list, num string) { s.Send(FireCueMessage(list, num)) }
func (s *Session) FireMacro(macro int) { s.Send(FireMacroMessage(macro)) }
func (s *Session) FirePreset(preset int) { s.Send(FirePresetMessage(preset)) }

// SetIntensity sets a channel, group or sub level. See IntensityMessage.
func (s *Session) SetIntensity(target IntensityTarget, id, value string) {
	s.Send(IntensityMessage(target, id, value))
}

// SubBump drives a submaster bump button.
func (s *Session) SubBump(sub string, st ButtonState) {
	s.Send(SubBumpMessage(sub, st))
}

// Softkey drives a softkey.
func (s *Session) Softkey(softkey int, st ButtonState) {
	s.Send(SoftkeyMessage(softkey, st))
}
