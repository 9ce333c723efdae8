package controller

import (
	"strings"

	"github.com/oxydraw/oxydraw/internal/geom"
)

type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonXButton1
	ButtonXButton2
)

// Modifiers is a set of modifier keys held during an input event.
type Modifiers uint8

const (
	ModNone    Modifiers = 0
	ModShift   Modifiers = 1 << 0
	ModControl Modifiers = 1 << 1
	ModAlt     Modifiers = 1 << 2
)

func (m Modifiers) Control() bool { return m&ModControl != 0 }

type Key string

const (
	KeyA        Key = "a"
	KeyHome     Key = "home"
	KeyLeft     Key = "left"
	KeyRight    Key = "right"
	KeyUp       Key = "up"
	KeyDown     Key = "down"
	KeyAdd      Key = "add"
	KeySubtract Key = "subtract"
	KeyPageUp   Key = "pageup"
	KeyPageDown Key = "pagedown"
)

// ParseKey maps a browser KeyboardEvent.key value to a Key.
func ParseKey(s string) Key {
	switch s {
	case "ArrowLeft":
		return KeyLeft
	case "ArrowRight":
		return KeyRight
	case "ArrowUp":
		return KeyUp
	case "ArrowDown":
		return KeyDown
	case "+", "=":
		return KeyAdd
	case "-", "_":
		return KeySubtract
	}
	return Key(strings.ToLower(s))
}

type MouseEvent struct {
	Position   geom.ScreenPoint `json:"position"`
	Button     Button           `json:"button"`
	Modifiers  Modifiers        `json:"modifiers"`
	ClickCount int              `json:"clickCount"`
}

type WheelEvent struct {
	Position  geom.ScreenPoint `json:"position"`
	Delta     float64          `json:"delta"`
	Modifiers Modifiers        `json:"modifiers"`
}

type KeyEvent struct {
	Key       Key       `json:"key"`
	Modifiers Modifiers `json:"modifiers"`
}

// TouchEvent describes one step of a touch gesture. DeltaScale is the pinch factor
// since the previous event; (1, 1) means no change.
type TouchEvent struct {
	Position         geom.ScreenPoint  `json:"position"`
	DeltaTranslation geom.ScreenVector `json:"deltaTranslation"`
	DeltaScale       geom.ScreenVector `json:"deltaScale"`
}
