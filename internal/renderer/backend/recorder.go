package backend

import (
	"sync"

	"github.com/dshills/sabrevga/internal/renderer/core"
)

// Op identifies a recorded drawing command.
type Op uint8

// Recorded operations.
const (
	OpClear Op = iota
	OpClearRect
	OpFillRect
	OpDrawString
	OpDrawTarget
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpClear:
		return "Clear"
	case OpClearRect:
		return "ClearRect"
	case OpFillRect:
		return "FillRect"
	case OpDrawString:
		return "DrawString"
	case OpDrawTarget:
		return "DrawTarget"
	default:
		return "Unknown"
	}
}

// Command is one recorded drawing call.
type Command struct {
	Op     Op
	Rect   core.Rect
	Color  core.Color
	Text   string
	Glyphs []PlacedGlyph
	Target *RecordTarget
	Pos    core.Point
}

// Recorder is a Context that records every call instead of drawing.
// It is intended for testing.
type Recorder struct {
	mu        sync.Mutex
	commands  []Command
	targets   []*RecordTarget
	targetErr error
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailTargets makes subsequent NewTarget calls return err. Pass nil to
// restore normal allocation.
func (r *Recorder) FailTargets(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targetErr = err
}

// NewTarget implements Device.
func (r *Recorder) NewTarget(size core.Size) (Target, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.targetErr != nil {
		return nil, r.targetErr
	}
	if size.IsEmpty() {
		return nil, ErrInvalidTargetSize
	}
	t := &RecordTarget{id: len(r.targets), size: size}
	r.targets = append(r.targets, t)
	return t, nil
}

// Clear implements Canvas.
func (r *Recorder) Clear(c core.Color) {
	r.record(Command{Op: OpClear, Color: c})
}

// ClearRect implements Canvas.
func (r *Recorder) ClearRect(rect core.Rect) {
	r.record(Command{Op: OpClearRect, Rect: rect})
}

// FillRect implements Canvas.
func (r *Recorder) FillRect(rect core.Rect, c core.Color) {
	r.record(Command{Op: OpFillRect, Rect: rect, Color: c})
}

// DrawString implements Canvas.
func (r *Recorder) DrawString(font Font, text string, origin core.Point, fn GlyphFunc) {
	r.record(Command{
		Op:     OpDrawString,
		Text:   text,
		Pos:    origin,
		Glyphs: Layout(font, text, origin, fn),
	})
}

// DrawTarget implements Context.
func (r *Recorder) DrawTarget(t Target, pos core.Point) {
	rt, _ := t.(*RecordTarget)
	r.record(Command{Op: OpDrawTarget, Target: rt, Pos: pos})
}

// Commands returns a copy of the recorded host commands.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

// Targets returns every target allocated so far, released or not.
func (r *Recorder) Targets() []*RecordTarget {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RecordTarget(nil), r.targets...)
}

// LiveTargets returns the number of allocated targets not yet released.
func (r *Recorder) LiveTargets() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.targets {
		if !t.Released() {
			n++
		}
	}
	return n
}

// Reset discards recorded host commands. Targets are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
}

func (r *Recorder) record(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
}

// RecordTarget is an off-screen target created by a Recorder.
type RecordTarget struct {
	mu       sync.Mutex
	id       int
	size     core.Size
	released bool
	commands []Command
}

// ID returns the allocation order of the target.
func (t *RecordTarget) ID() int {
	return t.id
}

// Size implements Target.
func (t *RecordTarget) Size() core.Size {
	return t.size
}

// Release implements Target.
func (t *RecordTarget) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.released = true
	t.commands = nil
}

// Released reports whether Release has been called.
func (t *RecordTarget) Released() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}

// Clear implements Canvas.
func (t *RecordTarget) Clear(c core.Color) {
	t.record(Command{Op: OpClear, Color: c})
}

// ClearRect implements Canvas.
func (t *RecordTarget) ClearRect(rect core.Rect) {
	t.record(Command{Op: OpClearRect, Rect: rect})
}

// FillRect implements Canvas.
func (t *RecordTarget) FillRect(rect core.Rect, c core.Color) {
	t.record(Command{Op: OpFillRect, Rect: rect, Color: c})
}

// DrawString implements Canvas.
func (t *RecordTarget) DrawString(font Font, text string, origin core.Point, fn GlyphFunc) {
	t.record(Command{
		Op:     OpDrawString,
		Text:   text,
		Pos:    origin,
		Glyphs: Layout(font, text, origin, fn),
	})
}

// Commands returns a copy of the commands drawn into the target.
func (t *RecordTarget) Commands() []Command {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Command(nil), t.commands...)
}

// ResetCommands discards the recorded commands.
func (t *RecordTarget) ResetCommands() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.commands = nil
}

func (t *RecordTarget) record(cmd Command) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.commands = append(t.commands, cmd)
}
