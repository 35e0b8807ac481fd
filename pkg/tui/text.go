package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

/**************************************************************************************************
** drawText writes a string starting at (x, y), clipped at maxX, and returns the x position after
** the last drawn cell. Wide runes advance by their display width so CJK names line up.
**
** @param screen - Target screen
** @param x - Starting column
** @param y - Row
** @param maxX - First column that must not be written
** @param text - Text to draw
** @param style - Style for every cell
** @return int - Column after the last drawn rune
**************************************************************************************************/
func drawText(screen tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

/**************************************************************************************************
** fillLine pads a row with spaces from x up to maxX.
**************************************************************************************************/
func fillLine(screen tcell.Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}

/**************************************************************************************************
** truncate shortens a string to the given display width, ellipsis included when anything had to
** go.
**
** @param text - Text to shorten
** @param width - Available display width
** @return string - Text fitting within width
**************************************************************************************************/
func truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "…")
}
