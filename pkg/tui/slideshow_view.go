package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/mattn/go-runewidth"
)

const railSlotWidth = 7

/**************************************************************************************************
** drawSlideshow paints the full-screen viewer: a header with the position and autoplay state, the
** half-block preview of the displayed photo, a metadata line, the index rail around the focused
** photo, the shareable link and the footer. The preview is whatever variant the cache has ready;
** until the async load lands a placeholder with the photo id is shown instead.
**
** @param w - Screen width
** @param h - Screen height
**************************************************************************************************/
func (a *App) drawSlideshow(w, h int) {
	headerStyle := tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	endX := drawText(a.screen, 0, 0, w, " slideshow ", headerStyle.Bold(true))

	segments := []string{}
	if total := a.slideshow.TotalCount(); total > 0 {
		segments = append(segments, fmt.Sprintf("%d of %d", a.slideshow.CurrentIndex()+1, total))
	}
	if current, count, ok := a.slideshow.ClusterBadge(); ok {
		segments = append(segments, fmt.Sprintf("⧉ %d/%d", current, count))
	}
	if a.slideshow.AutoplayActive() {
		segments = append(segments, "▶ autoplay")
	}
	switch a.slideshow.State() {
	case utils.StateLoading:
		segments = append(segments, "loading…")
	case utils.StateLoadingMore:
		segments = append(segments, "fetching…")
	}
	endX = drawText(a.screen, endX+1, 0, w, strings.Join(segments, " · "), headerStyle)
	fillLine(a.screen, endX, 0, w, headerStyle)

	photo, hasPhoto := a.slideshow.CurrentPhoto()
	previewH := h - 6
	if previewH > 0 {
		if img, ready := a.preview.Get(photo, w-4, previewH); hasPhoto && ready {
			img.draw(a.screen, 2, 1, w-4, previewH)
		} else {
			a.drawPreviewPlaceholder(w, previewH, photo, hasPhoto)
		}
	}

	if hasPhoto {
		meta := photo.Photographer
		if photo.EventName != "" {
			meta += " · " + photo.EventName
		}
		if photo.CompanyName != "" {
			meta += " · " + photo.CompanyName
		}
		if date := captureDate(photo.CapturedAt); date != "" {
			meta += " · " + date
		}
		drawText(a.screen, 2, h-4, w-2, truncate(meta, w-4), tcell.StyleDefault)
	}

	a.drawRail(w, h-3)
	drawText(a.screen, 2, h-2, w-2, truncate(a.location.String(), w-4), tcell.StyleDefault.Dim(true))
	a.drawFooter(w, h, "←→ navigate · space autoplay · c cycle · s shuffle · d delete · esc close")
}

func (a *App) drawPreviewPlaceholder(w, previewH int, photo utils.TPhoto, hasPhoto bool) {
	text := "no photos loaded"
	if hasPhoto {
		text = photo.ID + " · loading preview…"
	}
	y := 1 + previewH/2
	x := (w - runewidth.StringWidth(text)) / 2
	if x < 0 {
		x = 0
	}
	drawText(a.screen, x, y, w, text, tcell.StyleDefault.Dim(true))
}

/**************************************************************************************************
** drawRail paints the one-line index rail. It windows the loaded photos around the focused index
** so the focused slot stays roughly centered, brackets the focused slot, and marks cluster
** representatives. Edge ellipses signal that more photos are loaded beyond the window.
**
** @param w - Screen width
** @param y - Rail row
**************************************************************************************************/
func (a *App) drawRail(w, y int) {
	photos := a.slideshow.Photos()
	if len(photos) == 0 {
		return
	}
	focus := a.slideshow.CurrentIndex()

	visible := w / railSlotWidth
	if visible < 1 {
		visible = 1
	}
	start := focus - visible/2
	if start > len(photos)-visible {
		start = len(photos) - visible
	}
	if start < 0 {
		start = 0
	}

	x := 0
	for i := start; i < len(photos) && i < start+visible; i++ {
		label := fmt.Sprintf("%d", i+1)
		if photos[i].IsClusterHead() {
			label += "⧉"
		}
		if i == focus {
			label = "[" + label + "]"
		}
		slot := padSlot(label, railSlotWidth)
		style := tcell.StyleDefault.Dim(true)
		if i == focus {
			style = tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack)
		}
		x = drawText(a.screen, x, y, w, slot, style)
	}
	if start > 0 {
		drawText(a.screen, 0, y, w, "…", tcell.StyleDefault.Dim(true))
	}
	if start+visible < len(photos) {
		drawText(a.screen, w-1, y, w, "…", tcell.StyleDefault.Dim(true))
	}
}

func padSlot(label string, width int) string {
	labelWidth := runewidth.StringWidth(label)
	if labelWidth >= width {
		return runewidth.Truncate(label, width, "")
	}
	pad := width - labelWidth
	left := pad / 2
	return strings.Repeat(" ", left) + label + strings.Repeat(" ", pad-left)
}
