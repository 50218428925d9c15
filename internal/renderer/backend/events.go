package backend

// EventType identifies the kind of host event.
type EventType uint8

// Event types.
const (
	EventNone EventType = iota
	EventKey
	EventResize
)

// Key identifies a key.
type Key uint16

// Keys the console host reacts to.
const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyCtrlC
	KeyCtrlL
)

// ModMask represents modifier keys.
type ModMask uint8

// Modifier flags.
const (
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Event is a host input event.
type Event struct {
	Type EventType
	Key  Key
	Rune rune
	Mod  ModMask

	// Width and Height are the new host size in terminal cells for EventResize.
	Width  int
	Height int
}
