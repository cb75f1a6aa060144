package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/party-fever/engine"
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/progress"
)

func newTestRenderer(t *testing.T) (*TerminalRenderer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)
	return NewTerminalRenderer(screen), screen
}

// screenText returns every row joined by newlines
func screenText(s tcell.Screen) string {
	w, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ch, _, _, _ := s.GetContent(x, y)
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestScreensDrawTheirContent(t *testing.T) {
	failed := games.Failed
	hint := games.MustInfo(games.Popup)

	tests := []struct {
		name string
		view View
		want []string
	}{
		{"splash", View{Screen: "splash"}, []string{"PARTY FEVER"}},
		{"title", View{Screen: "title"}, []string{"PARTY FEVER", "[Enter] start"}},
		{
			"pregame",
			View{
				Screen:    "gameplay",
				State:     engine.StatePreGame,
				Next:      games.MustInfo(games.Popup),
				Last:      &failed,
				Countdown: 3,
				Snapshot:  progress.Snapshot{Round: 3, Level: 0},
			},
			[]string{"FEVER", "Failed!", "Next up", "Popup", "3", "Round 3"},
		},
		{
			"live with hint",
			View{
				Screen:    "gameplay",
				State:     engine.StateGame,
				Game:      games.Popup,
				RoundOpen: true,
				RoundLeft: 2500 * time.Millisecond,
				Hint:      &hint,
			},
			[]string{"Popup", "click!", "2.5s", "Close!"},
		},
		{
			"post game",
			View{Screen: "post_game", Snapshot: progress.Snapshot{Passed: 7, Failed: 4, Round: 12, Random: 3}},
			[]string{"Passed 7", "Failed 4", "11 rounds", "Again? [Enter]"},
		},
		{"paused muted", View{Screen: "title", Paused: true, Muted: true}, []string{"MUTE", "PAUSED"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, screen := newTestRenderer(t)
			r.RenderFrame(tt.view)
			text := screenText(screen)
			for _, w := range tt.want {
				if !strings.Contains(text, w) {
					t.Errorf("missing %q in:\n%s", w, text)
				}
			}
		})
	}
}

func TestPostGameBackground(t *testing.T) {
	r, screen := newTestRenderer(t)
	r.RenderFrame(View{Screen: "post_game", Snapshot: progress.Snapshot{Random: 5}})

	_, _, style, _ := screen.GetContent(0, 1)
	_, bg, _ := style.Decompose()
	if bg != Background(5) {
		t.Errorf("background = %v, want %v", bg, Background(5))
	}
	t.Logf("✓ post-game background from pool")
}

func TestBackgroundWraps(t *testing.T) {
	tests := []struct {
		in, same int
	}{
		{0, 20},
		{3, 23},
		{19, -1},
	}
	for _, tt := range tests {
		if Background(tt.in) != Background(tt.same) {
			t.Errorf("Background(%d) != Background(%d)", tt.in, tt.same)
		}
	}
}

func TestFeverColorGrades(t *testing.T) {
	cool := FeverColor(0)
	hot := FeverColor(1)
	if cool == hot {
		t.Fatal("fever color does not change")
	}
	if FeverColor(2) != hot || FeverColor(-1) != cool {
		t.Error("fever color not clamped")
	}
}
