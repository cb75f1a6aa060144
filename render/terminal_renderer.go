package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/party-fever/engine"
	"github.com/lixenwraith/party-fever/games"
	"github.com/mattn/go-runewidth"
)

const (
	gameTitle     = "PARTY FEVER"
	feverBarWidth = 20
)

// TerminalRenderer draws captured views onto a tcell screen
type TerminalRenderer struct {
	screen tcell.Screen
	width  int
	height int
	base   tcell.Style
}

// NewTerminalRenderer creates a renderer for the screen's current size
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	w, h := screen.Size()
	return &TerminalRenderer{
		screen: screen,
		width:  w,
		height: h,
		base:   tcell.StyleDefault.Background(RgbBackground).Foreground(RgbText),
	}
}

// Resize picks up the new terminal size on the next frame
func (r *TerminalRenderer) Resize() {
	r.width, r.height = r.screen.Size()
}

// RenderFrame draws one view and flushes it
func (r *TerminalRenderer) RenderFrame(v View) {
	bg := r.base
	if v.Screen == "post_game" {
		bg = bg.Background(Background(v.Snapshot.Random))
	}
	r.fill(bg)

	switch v.Screen {
	case "splash":
		r.drawSplash(bg)
	case "gameplay":
		r.drawGameplay(v, bg)
	case "post_game":
		r.drawPostGame(v, bg)
	default:
		r.drawTitle(bg)
	}

	r.drawStatusBar(v, bg)
	r.screen.Show()
}

func (r *TerminalRenderer) drawSplash(bg tcell.Style) {
	mid := r.height / 2
	r.center(mid-1, gameTitle, bg.Foreground(RgbTitle).Bold(true))
	r.center(mid+1, "get ready", bg.Foreground(RgbDim))
}

func (r *TerminalRenderer) drawTitle(bg tcell.Style) {
	mid := r.height / 2
	r.center(mid-2, gameTitle, bg.Foreground(RgbTitle).Bold(true))
	r.center(mid, "[Enter] start   [Esc] quit", bg)
	r.center(mid+1, "[m] mute   [p] pause", bg.Foreground(RgbDim))
}

func (r *TerminalRenderer) drawGameplay(v View, bg tcell.Style) {
	r.drawFever(v, bg)

	mid := r.height / 2
	switch v.State {
	case engine.StatePreGame:
		if v.Last != nil {
			r.center(mid-4, resultText(*v.Last), bg.Foreground(resultColor(*v.Last)).Bold(true))
		}
		r.center(mid-2, "Next up", bg.Foreground(RgbDim))
		r.center(mid-1, v.Next.Kind.String(), bg.Foreground(GameColor(v.Next)).Bold(true))
		r.center(mid+1, fmt.Sprintf("%d", v.Countdown), bg.Bold(true))

	case engine.StateGame:
		info, err := games.Info(v.Game)
		if err != nil {
			break
		}
		r.center(mid-2, info.Kind.String(), bg.Foreground(GameColor(info)).Bold(true))
		r.center(mid, controlPrompt(info.Controls), bg)
		if v.RoundOpen {
			r.center(mid+2, fmt.Sprintf("%.1fs", v.RoundLeft.Seconds()), bg.Foreground(RgbDim))
		}
	}

	if v.Hint != nil {
		r.drawHint(*v.Hint, bg)
	}
}

// drawHint overlays a boxed hint near the bottom
func (r *TerminalRenderer) drawHint(info games.GameInfo, bg tcell.Style) {
	text := fmt.Sprintf(" %s! (%s) ", info.Hint, info.Controls)
	w := runewidth.StringWidth(text) + 2
	x := (r.width - w) / 2
	y := r.height - 5
	if y < 2 {
		return
	}

	box := bg.Foreground(GameColor(info))
	r.text(x, y, "┌"+strings.Repeat("─", w-2)+"┐", box)
	r.text(x, y+1, "│", box)
	r.text(x+1, y+1, text, box.Bold(true))
	r.text(x+w-1, y+1, "│", box)
	r.text(x, y+2, "└"+strings.Repeat("─", w-2)+"┘", box)
}

func (r *TerminalRenderer) drawFever(v View, bg tcell.Style) {
	filled := int(v.Snapshot.FeverGradeNominal*feverBarWidth + 0.5)
	filled = min(max(filled, 0), feverBarWidth)

	x := r.text(1, 0, "FEVER ", bg.Foreground(RgbDim))
	fever := FeverColor(v.Snapshot.FeverGradeNominal)
	for i := 0; i < feverBarWidth; i++ {
		if i < filled {
			r.screen.SetContent(x+i, 0, '█', nil, bg.Foreground(fever))
		} else {
			r.screen.SetContent(x+i, 0, '░', nil, bg.Foreground(RgbFeverEmpty))
		}
	}

	info := fmt.Sprintf("Round %d  Level %d", v.Snapshot.Round, v.Snapshot.Level)
	r.text(r.width-runewidth.StringWidth(info)-1, 0, info, bg)
}

func (r *TerminalRenderer) drawPostGame(v View, bg tcell.Style) {
	mid := r.height / 2
	snap := v.Snapshot
	r.center(mid-3, "FEVER!", bg.Foreground(RgbFailed).Bold(true))
	r.center(mid-1, fmt.Sprintf("Passed %d   Failed %d", snap.Passed, snap.Failed), bg)
	r.center(mid, fmt.Sprintf("%d rounds in %s", snap.Passed+snap.Failed, snap.Elapsed.Round(time.Second)), bg.Foreground(RgbDim))
	r.center(mid+2, "Again? [Enter]", bg.Bold(true))
	r.center(mid+3, "[Esc] title", bg.Foreground(RgbDim))
}

func (r *TerminalRenderer) drawStatusBar(v View, bg tcell.Style) {
	y := r.height - 1
	if y <= 0 {
		return
	}

	x := 0
	if v.Muted {
		x = r.text(x, y, " MUTE ", bg.Foreground(tcell.ColorBlack).Background(RgbMuted))
	} else {
		x = r.text(x, y, " ♫ ", bg.Foreground(tcell.ColorBlack).Background(RgbAudio))
	}
	if v.Paused {
		r.text(x+1, y, "PAUSED", bg.Foreground(RgbPaused).Bold(true))
	}
}

func (r *TerminalRenderer) fill(style tcell.Style) {
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// text draws s at (x, y) and returns the column after it
func (r *TerminalRenderer) text(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
	return x
}

func (r *TerminalRenderer) center(y int, s string, style tcell.Style) {
	r.text((r.width-runewidth.StringWidth(s))/2, y, s, style)
}

func resultText(res games.Result) string {
	if res == games.Passed {
		return "Passed!"
	}
	return "Failed!"
}

func resultColor(res games.Result) tcell.Color {
	if res == games.Passed {
		return RgbPassed
	}
	return RgbFailed
}

func controlPrompt(c games.ControlMethod) string {
	switch c {
	case games.ControlWasd:
		return "move! [wasd / arrows]"
	case games.ControlMouse:
		return "click!"
	case games.ControlKeyboard:
		return "hit it! [space]"
	}
	return ""
}
