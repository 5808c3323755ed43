package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/qsnake/internal/core"
)

// RenderCurve draws the per-epoch score series as a bar chart of the
// given size and returns it styled for the terminal.
func RenderCurve(scores []int, width, height int) string {
	screen := core.NewScreen(width, height)
	DrawCurve(screen, core.NewRect(0, 0, width, height), scores)
	return RenderScreen(screen)
}

// DrawCurve draws a learning curve into area. The left column holds the
// score axis, the bottom row the epoch axis. When there are more epochs
// than plot columns, each column shows the mean of its bucket.
func DrawCurve(dst *core.Screen, area core.Rect, scores []int) {
	peak := 0
	for _, s := range scores {
		peak = max(peak, s)
	}

	top := fmt.Sprint(peak)
	labelW := len(top) + 1
	plotW := area.W - labelW
	plotH := area.H - 1
	if plotW < 1 || plotH < 1 {
		return
	}

	// Axes
	dst.DrawTextColor(area.X, area.Y, top, core.ColorGray)
	dst.DrawTextColor(area.X+labelW-2, area.Y+plotH-1, "0", core.ColorGray)
	for y := 0; y < plotH; y++ {
		dst.SetColor(area.X+labelW-1, area.Y+y, '│', core.ColorGray)
	}
	dst.SetColor(area.X+labelW-1, area.Y+plotH, '└', core.ColorGray)
	for x := labelW; x < area.W; x++ {
		dst.SetColor(area.X+x, area.Y+plotH, '─', core.ColorGray)
	}

	if peak == 0 {
		return
	}
	for col, v := range bucketMeans(scores, plotW) {
		h := int(math.Round(v / float64(peak) * float64(plotH)))
		for i := 0; i < h; i++ {
			dst.SetColor(area.X+labelW+col, area.Y+plotH-1-i, '█', core.ColorGreen)
		}
	}
}

// bucketMeans reduces scores to at most n values, one per plot column.
func bucketMeans(scores []int, n int) []float64 {
	if len(scores) <= n {
		out := make([]float64, len(scores))
		for i, s := range scores {
			out[i] = float64(s)
		}
		return out
	}

	out := make([]float64, n)
	for c := range out {
		lo, hi := c*len(scores)/n, (c+1)*len(scores)/n
		sum := 0
		for _, s := range scores[lo:hi] {
			sum += s
		}
		out[c] = float64(sum) / float64(hi-lo)
	}
	return out
}
