package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/party-fever/games"
	"github.com/lixenwraith/party-fever/parameter"
)

var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbText       = tcell.NewRGBColor(220, 220, 220) // Light gray
	RgbDim        = tcell.NewRGBColor(110, 110, 130) // Muted gray-blue
	RgbTitle      = tcell.NewRGBColor(255, 165, 0)   // Orange

	RgbPassed = tcell.NewRGBColor(80, 220, 80)   // Green
	RgbFailed = tcell.NewRGBColor(255, 80, 80)   // Red
	RgbPaused = tcell.NewRGBColor(255, 255, 0)   // Yellow
	RgbMuted  = tcell.NewRGBColor(200, 50, 50)   // Dark red
	RgbAudio  = tcell.NewRGBColor(144, 238, 144) // Light grass green

	RgbFeverEmpty = tcell.NewRGBColor(50, 50, 60)
)

// backgrounds is the post-game pool indexed by the session's random draw
var backgrounds = [parameter.BackgroundCount]tcell.Color{
	tcell.NewRGBColor(40, 20, 60), tcell.NewRGBColor(20, 40, 60), tcell.NewRGBColor(60, 20, 30),
	tcell.NewRGBColor(20, 60, 40), tcell.NewRGBColor(60, 50, 20), tcell.NewRGBColor(30, 30, 70),
	tcell.NewRGBColor(70, 30, 50), tcell.NewRGBColor(20, 55, 55), tcell.NewRGBColor(55, 35, 20),
	tcell.NewRGBColor(35, 60, 25), tcell.NewRGBColor(50, 20, 50), tcell.NewRGBColor(25, 35, 45),
	tcell.NewRGBColor(65, 40, 40), tcell.NewRGBColor(40, 65, 40), tcell.NewRGBColor(40, 40, 65),
	tcell.NewRGBColor(60, 60, 30), tcell.NewRGBColor(30, 60, 60), tcell.NewRGBColor(60, 30, 60),
	tcell.NewRGBColor(45, 25, 35), tcell.NewRGBColor(25, 45, 35),
}

// Background returns the pool color for a draw, wrapping out-of-range indices
func Background(random int) tcell.Color {
	n := len(backgrounds)
	return backgrounds[((random%n)+n)%n]
}

// GameColor converts a game's RGBA metadata color
func GameColor(info games.GameInfo) tcell.Color {
	r, g, b := info.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// FeverColor grades from green to red across the nominal fever range
func FeverColor(nominal float32) tcell.Color {
	t := min(max(nominal, 0), 1)
	return tcell.NewRGBColor(int32(80+175*t), int32(220-140*t), 80)
}
