package tui

import (
	"fmt"

	"github.com/vovakirdan/qsnake/internal/core"
	"github.com/vovakirdan/qsnake/internal/snake"
	"github.com/vovakirdan/qsnake/internal/train"
)

// Board layout constants
const (
	hudHeight = 2 // Status line plus separator
	cellWidth = 2 // Terminal columns per grid cell, keeps cells roughly square
)

// BoardSize returns the screen area needed to draw a grid of the given size.
func BoardSize(gridSize int) (w, h int) {
	return gridSize*cellWidth + 2, gridSize + 2 + hudHeight
}

// DrawBoard draws one training tick: HUD, framed grid, snake and food.
func DrawBoard(dst *core.Screen, snap train.Snapshot) {
	dst.Clear()
	drawHUD(dst, snap)

	boxW, boxH := snap.GridSize*cellWidth+2, snap.GridSize+2
	if boxW > dst.Width() || hudHeight+boxH > dst.Height() {
		drawOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	frame := core.NewRect((dst.Width()-boxW)/2, hudHeight, boxW, boxH)
	dst.DrawBox(frame, core.ColorGray)
	inner := frame.Inset(1)

	put := func(p snake.Position, glyph string, c core.Color) {
		x, y := inner.X+p.X*cellWidth, inner.Y+p.Y
		if inner.Contains(x, y) {
			dst.DrawTextColor(x, y, glyph, c)
		}
	}

	if snap.Food.Placed {
		put(snap.Food.Pos, "● ", core.ColorRed)
	}
	for i := len(snap.Body) - 1; i >= 0; i-- {
		if i == 0 {
			put(snap.Body[i], "██", core.ColorBrightGreen)
		} else {
			put(snap.Body[i], "▓▓", core.ColorGreen)
		}
	}
}

// drawHUD draws the top status bar.
func drawHUD(dst *core.Screen, snap train.Snapshot) {
	hud := fmt.Sprintf(" Q-Snake  Score: %d  High: %d  Epoch: %d/%d  ε: %.3f",
		snap.Score, snap.HighScore, snap.DisplayEpoch(), snap.TotalEpochs, snap.Epsilon)
	dst.DrawTextColor(0, 0, hud, core.ColorBrightWhite)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

// drawOverlay draws a centered two-line message box.
func drawOverlay(dst *core.Screen, line1, line2 string) {
	w := max(len([]rune(line1)), len([]rune(line2))) + 4
	h := 4
	r := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(r, core.ColorYellow)
	dst.DrawTextCentered(r.Y+1, line1)
	dst.DrawTextCentered(r.Y+2, line2)
}
