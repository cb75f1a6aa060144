package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// KeyTable maps special keys and runes to intents
type KeyTable struct {
	SpecialKeys map[tcell.Key]Intent
	RuneKeys    map[rune]Intent
}

// DefaultKeyTable returns the built-in bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]Intent{
			tcell.KeyCtrlC:  {Type: IntentQuit},
			tcell.KeyCtrlQ:  {Type: IntentQuit},
			tcell.KeyCtrlS:  {Type: IntentToggleMute},
			tcell.KeyEscape: {Type: IntentEscape},
			tcell.KeyEnter:  {Type: IntentConfirm},
			tcell.KeyUp:     {Type: IntentMotion, Motion: MotionUp},
			tcell.KeyDown:   {Type: IntentMotion, Motion: MotionDown},
			tcell.KeyLeft:   {Type: IntentMotion, Motion: MotionLeft},
			tcell.KeyRight:  {Type: IntentMotion, Motion: MotionRight},
		},
		RuneKeys: map[rune]Intent{
			'q': {Type: IntentEscape},
			'p': {Type: IntentPause},
			'm': {Type: IntentToggleMute},
			' ': {Type: IntentAction},
			'w': {Type: IntentMotion, Motion: MotionUp},
			's': {Type: IntentMotion, Motion: MotionDown},
			'a': {Type: IntentMotion, Motion: MotionLeft},
			'd': {Type: IntentMotion, Motion: MotionRight},
		},
	}
}

// Translate maps a terminal event to an intent; unbound events yield IntentNone
func (kt *KeyTable) Translate(ev tcell.Event) Intent {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyRune {
			if in, ok := kt.RuneKeys[unicode.ToLower(ev.Rune())]; ok {
				return in
			}
			return Intent{}
		}
		if in, ok := kt.SpecialKeys[ev.Key()]; ok {
			return in
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			return Intent{Type: IntentMouseClick, X: x, Y: y}
		}
	case *tcell.EventResize:
		return Intent{Type: IntentResize}
	}
	return Intent{}
}
