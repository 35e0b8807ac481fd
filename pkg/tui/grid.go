package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/majorfi/gig-gallery/pkg/filters"
	"github.com/majorfi/gig-gallery/pkg/utils"
)

const (
	cardWidth  = 32
	cardHeight = 4
)

/**************************************************************************************************
** drawGrid paints the browsing surface: a header with the active selection, metadata cards in as
** many columns as fit, and the footer. Cards belonging to a cluster render the metadata of the
** member their cluster currently displays, with the same-class count as badge, so auto-cycling
** is visible card by card.
**
** @param w - Screen width
** @param h - Screen height
**************************************************************************************************/
func (a *App) drawGrid(w, h int) {
	headerStyle := tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	endX := drawText(a.screen, 0, 0, w, " gig-gallery ", headerStyle.Bold(true))
	summary := filterSummary(a.filters.Snapshot(), a.browse.TotalCount())
	endX = drawText(a.screen, endX+1, 0, w, summary, headerStyle)
	fillLine(a.screen, endX, 0, w, headerStyle)

	photos := a.browse.Photos()
	state := a.browse.State()
	columns := a.gridColumns(w)
	a.resolveEarlierAnchor(photos)

	switch {
	case len(photos) == 0 && state == utils.StateLoading:
		drawText(a.screen, 2, 2, w, "Loading photos…", tcell.StyleDefault.Dim(true))
	case len(photos) == 0:
		drawText(a.screen, 2, 2, w, "No photos match this selection", tcell.StyleDefault.Dim(true))
	default:
		a.clampSelection(len(photos))
		a.ensureSelectionVisible(columns, a.gridVisibleRows(h))
		firstIdx := a.rowOffset * columns
		y := 1
		for idx := firstIdx; idx < len(photos) && y+cardHeight <= h-1; idx++ {
			col := (idx - firstIdx) % columns
			a.drawCard(col*cardWidth, y, photos[idx], idx == a.selected)
			if col == columns-1 {
				y += cardHeight
			}
		}
		if state == utils.StateLoadingMore && y < h-1 {
			drawText(a.screen, 2, y, w, "… loading more", tcell.StyleDefault.Dim(true))
		}
	}

	a.drawFooter(w, h, "↑↓←→ move · enter view · f filters · s shuffle · g/G grouping · c cycle · d delete · q quit")

	if a.menu != nil {
		a.menu.draw(a.screen, w, h)
	}
}

/**************************************************************************************************
** drawCard paints one metadata card. Cluster representatives show the displayed member's
** metadata and the same-class badge.
**
** @param x - Card left edge
** @param y - Card top edge
** @param photo - Page-ordered record behind the card
** @param selected - Whether the card is the focused one
**************************************************************************************************/
func (a *App) drawCard(x, y int, photo utils.TPhoto, selected bool) {
	style := tcell.StyleDefault
	if selected {
		style = style.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack)
	}

	display := photo
	badge := ""
	if current, count, ok := a.browse.ClusterBadge(photo.ID); ok {
		display = current
		badge = fmt.Sprintf(" ⧉%d", count)
	}

	title := display.EventName
	if display.BandName != "" {
		title = display.BandName
	}
	if title == "" {
		title = display.ID
	}
	marker := "  "
	if selected {
		marker = "▶ "
	}
	width := cardWidth - 1

	line := truncate(marker+title, width-len(badge)) + badge
	endX := drawText(a.screen, x, y, x+width, line, style.Bold(selected))
	fillLine(a.screen, endX, y, x+width, style)

	credit := display.Photographer
	if display.CompanyName != "" {
		credit += " · " + display.CompanyName
	}
	endX = drawText(a.screen, x, y+1, x+width, truncate("  "+credit, width), style)
	fillLine(a.screen, endX, y+1, x+width, style)

	detail := captureDate(display.CapturedAt)
	if display.IsMonochrome != nil && *display.IsMonochrome {
		detail += " · b&w"
	}
	if display.HasLabel(utils.LabelHero) {
		detail += " · hero"
	}
	endX = drawText(a.screen, x, y+2, x+width, truncate("  "+detail, width), style.Dim(!selected))
	fillLine(a.screen, endX, y+2, x+width, style)
	fillLine(a.screen, x, y+3, x+width, tcell.StyleDefault)
}

func (a *App) drawFooter(w, h int, help string) {
	footerStyle := tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	text := help
	if status := a.currentStatus(); status != "" {
		text = status
		footerStyle = footerStyle.Foreground(tcell.ColorYellow)
	}
	endX := drawText(a.screen, 0, h-1, w, " "+truncate(text, w-2), footerStyle)
	fillLine(a.screen, endX, h-1, w, footerStyle)
}

func (a *App) gridColumns(w int) int {
	columns := w / cardWidth
	if columns < 1 {
		return 1
	}
	return columns
}

func (a *App) gridVisibleRows(h int) int {
	rows := (h - 2) / cardHeight
	if rows < 1 {
		return 1
	}
	return rows
}

func (a *App) clampSelection(count int) {
	if a.selected >= count {
		a.selected = count - 1
	}
	if a.selected < 0 {
		a.selected = 0
	}
}

func (a *App) ensureSelectionVisible(columns, visibleRows int) {
	row := a.selected / columns
	if row < a.rowOffset {
		a.rowOffset = row
	}
	if row >= a.rowOffset+visibleRows {
		a.rowOffset = row - visibleRows + 1
	}
	if a.rowOffset < 0 {
		a.rowOffset = 0
	}
}

/**************************************************************************************************
** filterSummary renders the active selection for the header bar.
**
** @param snapshot - Current filter snapshot
** @param total - Server-reported photo total
** @return string - Header summary
**************************************************************************************************/
func filterSummary(snapshot filters.TFilterSnapshot, total int) string {
	parts := []string{}
	if snapshot.EventID != "" {
		parts = append(parts, "event "+snapshot.EventID)
	}
	if snapshot.BandID != "" {
		parts = append(parts, "band "+snapshot.BandID)
	}
	if snapshot.Photographer != "" {
		parts = append(parts, snapshot.Photographer)
	}
	if snapshot.Company != "" {
		parts = append(parts, snapshot.Company)
	}
	if snapshot.Shuffled() {
		parts = append(parts, "shuffled")
	}
	if len(parts) == 0 {
		parts = append(parts, "all photos")
	}
	return fmt.Sprintf("%s · %d photos", strings.Join(parts, " · "), total)
}

func captureDate(capturedAt string) string {
	if idx := strings.IndexByte(capturedAt, 'T'); idx > 0 {
		return capturedAt[:idx]
	}
	return capturedAt
}
