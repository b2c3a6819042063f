// Package input defines the platform-neutral events a host forwards to behaviors.
package input

import (
	"fmt"
	"strings"
)

// Key is a logical key code. Hosts translate their platform codes into these.
type Key int

const (
	KeyUnknown Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyShift
	KeyControl
)

var keyNames = map[Key]string{
	KeyUp:      "up",
	KeyDown:    "down",
	KeyLeft:    "left",
	KeyRight:   "right",
	KeySpace:   "space",
	KeyEnter:   "enter",
	KeyEscape:  "escape",
	KeyTab:     "tab",
	KeyShift:   "shift",
	KeyControl: "control",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames)+26)
	for k, name := range keyNames {
		m[name] = k
	}
	for k := KeyA; k <= KeyZ; k++ {
		m[k.String()] = k
	}
	return m
}()

func (k Key) String() string {
	if k >= KeyA && k <= KeyZ {
		return string(rune('a' + int(k-KeyA)))
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKey accepts a key name as written in scene files, e.g. "w" or "left".
func ParseKey(name string) (Key, error) {
	k, ok := keysByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return KeyUnknown, fmt.Errorf("input: unknown key %q", name)
	}
	return k, nil
}

// MarshalYAML and UnmarshalYAML let keys appear by name in YAML.
func (k Key) MarshalYAML() (any, error) {
	return k.String(), nil
}

func (k *Key) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseKey(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Kind identifies the type of an Event.
type Kind uint8

const (
	KindKeyPressed Kind = iota + 1
	KindKeyReleased
	KindPointerMoved
	KindResized
	KindCloseRequested
)

func (k Kind) String() string {
	switch k {
	case KindKeyPressed:
		return "key_pressed"
	case KindKeyReleased:
		return "key_released"
	case KindPointerMoved:
		return "pointer_moved"
	case KindResized:
		return "resized"
	case KindCloseRequested:
		return "close_requested"
	default:
		return "unknown"
	}
}

// Event is one platform input event. Only the fields relevant to Kind are set.
type Event struct {
	Kind   Kind
	Key    Key
	X, Y   float64
	Width  int
	Height int
}

func KeyPressed(k Key) Event {
	return Event{Kind: KindKeyPressed, Key: k}
}

func KeyReleased(k Key) Event {
	return Event{Kind: KindKeyReleased, Key: k}
}

func PointerMoved(x, y float64) Event {
	return Event{Kind: KindPointerMoved, X: x, Y: y}
}

func Resized(w, h int) Event {
	return Event{Kind: KindResized, Width: w, Height: h}
}

func CloseRequested() Event {
	return Event{Kind: KindCloseRequested}
}

// IsKey reports whether the event is a key press or release.
func (e Event) IsKey() bool {
	return e.Kind == KindKeyPressed || e.Kind == KindKeyReleased
}
