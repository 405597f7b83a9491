// Package scrollnorm normalizes raw terminal mouse-scroll events into
// viewport line deltas. Terminal emulators disagree wildly on how many raw
// scroll events correspond to one physical wheel notch, so scroll input is
// treated as a sequence of short "streams" bounded by an idle gap or a
// direction reversal, classified as wheel-like or trackpad-like, and
// converted to line deltas with a terminal-specific "events per tick"
// factor.
//
// Grounded on the teacher's tui/mouse.go wheel handling (handleConvWheel)
// and on the codex-rs tui2 scroll_input_model described in spec §4.3.
package scrollnorm

import "time"

// Kind classifies how a scroll stream was produced.
type Kind int

const (
	KindUnknown Kind = iota
	KindWheel
	KindTrackpad
)

// Mode forces (or lets Auto infer) the scroll stream classification.
type Mode int

const (
	ModeAuto Mode = iota
	ModeWheel
	ModeTrackpad
)

// Direction is the high-level sign of a scroll gesture.
type Direction int

const (
	DirUp Direction = iota
	DirDown
)

func (d Direction) sign() int32 {
	if d == DirUp {
		return -1
	}
	return 1
}

func (d Direction) inverted() Direction {
	if d == DirUp {
		return DirDown
	}
	return DirUp
}

const (
	streamGap           = 80 * time.Millisecond
	redrawCadence       = 16 * time.Millisecond
	maxEventsPerStream  = 256
	maxAccumulatedLines = 256
)

// Config holds the terminal-derived and user-overridable scroll knobs from
// spec §4.3.
type Config struct {
	EventsPerTick        uint16
	WheelLinesPerTick     uint16
	TrackpadLinesPerTick  uint16
	TrackpadAccelEvents   uint16
	TrackpadAccelMax      uint16
	Mode                  Mode
	WheelTickDetectMax    time.Duration
	WheelLikeMaxDuration  time.Duration
	InvertDirection       bool
}

// DefaultConfig returns the fallback values used for an unrecognized
// terminal (spec §4.3: events_per_tick=3, wheel_lines_per_tick=3,
// trackpad_lines_per_tick=1, ...).
func DefaultConfig() Config {
	return Config{
		EventsPerTick:        3,
		WheelLinesPerTick:    3,
		TrackpadLinesPerTick: 1,
		TrackpadAccelEvents:  30,
		TrackpadAccelMax:     3,
		Mode:                 ModeAuto,
		WheelTickDetectMax:   12 * time.Millisecond,
		WheelLikeMaxDuration: 200 * time.Millisecond,
	}
}

// TerminalEventsPerTick is the table of known terminal-dependent raw
// events-per-wheel-notch defaults from spec §4.3.
func TerminalEventsPerTick(name string) uint16 {
	switch name {
	case "Apple_Terminal":
		return 3
	case "Warp":
		return 9
	case "WezTerm":
		return 1
	case "Alacritty":
		return 3
	case "Ghostty":
		return 3
	case "iTerm.app":
		return 1
	case "vscode":
		return 1
	case "kitty":
		return 3
	default:
		return 3
	}
}

// WheelTickDetectMax returns the per-terminal detection window; Warp emits
// wheel ticks more slowly than other terminals so it gets a longer window.
func WheelTickDetectMax(name string) time.Duration {
	if name == "Warp" {
		return 20 * time.Millisecond
	}
	return 12 * time.Millisecond
}

// Result is returned from every state transition.
type Result struct {
	Lines      int32
	NextTickIn *time.Duration
}

// stream is the live per-gesture state. Only one exists at a time.
type stream struct {
	startTime            time.Time
	lastEventTime         time.Time
	direction             Direction
	eventCount            int
	accumulatedSignedEvts int32
	appliedLines          int32
	kind                  Kind
	firstTickCompletedAt  *time.Time
	justPromoted          bool
	lastRedraw            time.Time
}

// State is the exclusively-owned scroll normalization state machine for one
// viewport. Zero value is ready to use.
type State struct {
	cur          *stream
	trackpadCarryLines float64
	trackpadCarryDir   Direction
	haveCarry          bool
}

// OnScrollEvent processes one raw scroll event at time t (normally
// time.Now(), threaded explicitly for deterministic tests).
func (s *State) OnScrollEvent(t time.Time, dir Direction, cfg Config) Result {
	if cfg.InvertDirection {
		dir = dir.inverted()
	}

	var finalizedLines int32
	if s.cur != nil {
		gap := t.Sub(s.cur.lastEventTime)
		if gap > streamGap || s.cur.direction != dir {
			finalizedLines = s.finalize(t, cfg)
		}
	}
	if s.cur == nil {
		s.cur = &stream{startTime: t, lastEventTime: t, direction: dir, kind: KindUnknown}
	}

	st := s.cur
	st.lastEventTime = t
	if st.eventCount < maxEventsPerStream {
		st.eventCount++
	}
	st.accumulatedSignedEvts += dir.sign()

	// Attempt promotion to Wheel.
	if cfg.Mode == ModeAuto && cfg.EventsPerTick >= 2 && st.kind == KindUnknown {
		if st.eventCount == int(cfg.EventsPerTick) {
			st.firstTickCompletedAt = ptr(t)
			if t.Sub(st.startTime) <= cfg.WheelTickDetectMax {
				st.kind = KindWheel
				st.justPromoted = true
			}
		}
	}

	res := s.computeAndMaybeFlush(t, cfg)
	res.Lines += finalizedLines
	return res
}

// OnTick processes a scheduled follow-up wake-up (spec §4.3 "Follow-up
// ticks"): it finalizes an idle stream and flushes any pending fractional
// lines.
func (s *State) OnTick(t time.Time, cfg Config) Result {
	if s.cur == nil {
		return Result{}
	}
	if t.Sub(s.cur.lastEventTime) > streamGap {
		lines := s.finalize(t, cfg)
		return Result{Lines: lines, NextTickIn: nil}
	}
	return s.computeAndMaybeFlush(t, cfg)
}

func ptr[T any](v T) *T { return &v }

// wheelLike reports whether the stream should use wheel semantics: either
// classified Wheel, or just-promoted this event.
func (st *stream) wheelLike() bool {
	return st.kind == KindWheel || st.justPromoted
}

// rawLines computes the spec §4.3 "Line computation" for the current
// accumulated state of st, given cfg and any inherited trackpad carry.
func rawLines(st *stream, cfg Config, carry float64, haveCarry bool) float64 {
	eventsPerTickEff := float64(cfg.EventsPerTick)
	linesPerTickEff := float64(cfg.WheelLinesPerTick)
	if !st.wheelLike() {
		eventsPerTickEff = float64(cfg.EventsPerTick)
		if eventsPerTickEff > 3 {
			eventsPerTickEff = 3
		}
		linesPerTickEff = float64(cfg.TrackpadLinesPerTick)
	}
	if eventsPerTickEff <= 0 {
		eventsPerTickEff = 1
	}

	raw := float64(st.accumulatedSignedEvts) * linesPerTickEff / eventsPerTickEff
	if raw > maxAccumulatedLines {
		raw = maxAccumulatedLines
	}
	if raw < -maxAccumulatedLines {
		raw = -maxAccumulatedLines
	}

	if !st.wheelLike() {
		if haveCarry {
			raw += carry
		}
		accel := 1 + float64(st.eventCount)/float64(cfg.TrackpadAccelEvents)
		if accel > float64(cfg.TrackpadAccelMax) {
			accel = float64(cfg.TrackpadAccelMax)
		}
		if accel < 1 {
			accel = 1
		}
		raw *= accel
	}
	return raw
}

func truncToInt(f float64) int32 {
	return int32(f)
}

// computeAndMaybeFlush computes the desired delta and flushes it per the
// cadence rule (wheel-like: every event; trackpad: every >=16ms).
func (s *State) computeAndMaybeFlush(t time.Time, cfg Config) Result {
	st := s.cur
	carry, haveCarry := 0.0, false
	if !st.wheelLike() && s.haveCarry && s.trackpadCarryDir == st.direction {
		carry, haveCarry = s.trackpadCarryLines, true
	}

	raw := rawLines(st, cfg, carry, haveCarry)
	desired := truncToInt(raw) - st.appliedLines

	if st.wheelLike() && st.accumulatedSignedEvts != 0 && desired == 0 {
		if st.direction == DirUp {
			desired = -1
		} else {
			desired = 1
		}
	}

	shouldFlush := st.wheelLike() || st.justPromoted
	if !shouldFlush {
		shouldFlush = t.Sub(st.lastRedraw) >= redrawCadence
	}

	var lines int32
	if shouldFlush {
		lines = desired
		st.appliedLines += desired
		st.lastRedraw = t
	}
	st.justPromoted = false

	return Result{Lines: lines, NextTickIn: s.nextTickIn(t, cfg)}
}

// nextTickIn implements spec §4.3 "Follow-up ticks".
func (s *State) nextTickIn(t time.Time, cfg Config) *time.Duration {
	if s.cur == nil {
		return nil
	}
	gap := t.Sub(s.cur.lastEventTime)
	if gap >= streamGap {
		return nil
	}
	gapRemaining := streamGap - gap
	st := s.cur
	pendingInt := truncToInt(rawLines(st, cfg, s.trackpadCarryLines, s.haveCarry && s.trackpadCarryDir == st.direction)) != st.appliedLines
	if pendingInt {
		since := t.Sub(st.lastRedraw)
		redrawRemaining := redrawCadence - since
		if redrawRemaining < 0 {
			redrawRemaining = 0
		}
		d := gapRemaining
		if redrawRemaining < d {
			d = redrawRemaining
		}
		return &d
	}
	return &gapRemaining
}

// finalize forces a kind decision, performs the last flush, and (for
// trackpad streams) preserves fractional carry into the next gesture. It
// returns the line delta produced by the final flush.
func (s *State) finalize(t time.Time, cfg Config) int32 {
	st := s.cur
	if st == nil {
		return 0
	}

	switch {
	case cfg.Mode == ModeWheel:
		st.kind = KindWheel
	case cfg.Mode == ModeTrackpad:
		st.kind = KindTrackpad
	case st.kind == KindUnknown:
		duration := st.lastEventTime.Sub(st.startTime)
		if cfg.EventsPerTick <= 1 && st.eventCount <= 2 && duration <= cfg.WheelLikeMaxDuration {
			st.kind = KindWheel
		} else {
			st.kind = KindTrackpad
		}
	}

	carry, haveCarry := 0.0, false
	if !st.wheelLike() && s.haveCarry && s.trackpadCarryDir == st.direction {
		carry, haveCarry = s.trackpadCarryLines, true
	}
	raw := rawLines(st, cfg, carry, haveCarry)
	desired := truncToInt(raw) - st.appliedLines
	st.appliedLines += desired

	if st.kind == KindTrackpad {
		s.trackpadCarryLines = raw - float64(st.appliedLines)
		s.trackpadCarryDir = st.direction
		s.haveCarry = true
	} else {
		s.haveCarry = false
	}

	s.cur = nil
	return desired
}
