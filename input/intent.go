// Package input translates terminal events into semantic intents
package input

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit       // Ctrl+C, Ctrl+Q
	IntentEscape     // ESC, q (context-dependent: leave session or exit)
	IntentConfirm    // Enter: start, again
	IntentPause      // p
	IntentToggleMute // m, Ctrl+S
	IntentResize     // Terminal resize event

	// Minigame input
	IntentMotion     // w,a,s,d, arrows
	IntentAction     // Space
	IntentMouseClick // Left-click
)

func (t IntentType) String() string {
	switch t {
	case IntentQuit:
		return "Quit"
	case IntentEscape:
		return "Escape"
	case IntentConfirm:
		return "Confirm"
	case IntentPause:
		return "Pause"
	case IntentToggleMute:
		return "ToggleMute"
	case IntentResize:
		return "Resize"
	case IntentMotion:
		return "Motion"
	case IntentAction:
		return "Action"
	case IntentMouseClick:
		return "MouseClick"
	default:
		return "None"
	}
}

// MotionOp identifies a direction
type MotionOp uint8

const (
	MotionNone  MotionOp = iota
	MotionLeft           // a, Left arrow
	MotionRight          // d, Right arrow
	MotionUp             // w, Up arrow
	MotionDown           // s, Down arrow
)

// Intent is one translated terminal event
type Intent struct {
	Type   IntentType
	Motion MotionOp
	X, Y   int // Mouse position for IntentMouseClick
}
