package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/majorfi/gig-gallery/pkg/browse"
	"github.com/majorfi/gig-gallery/pkg/filters"
	"github.com/majorfi/gig-gallery/pkg/utils"
)

const menuSectionCap = 8

/**************************************************************************************************
** menuEntry is one row of the filter menu: a section header, or a selectable action. Active
** entries carry the check marker.
**************************************************************************************************/
type menuEntry struct {
	label  string
	header bool
	active bool
	apply  func()
}

/**************************************************************************************************
** filterMenu is the modal facet picker. It is rebuilt from the live facet counts every time it
** opens, so it always reflects the current selection; entries apply themselves through the
** shared filter store and close the menu.
**************************************************************************************************/
type filterMenu struct {
	entries []menuEntry
	cursor  int
	offset  int
}

/**************************************************************************************************
** buildFilterMenu assembles the menu from the current snapshot and the facet counts delivered
** with the first page. Facet sections are capped; the counts tell the viewer what a selection
** will yield before committing to it.
**
** @param store - Shared filter store the entries apply through
** @param controller - Grid controller holding facets
** @return *filterMenu - Menu with the cursor on the first selectable entry
**************************************************************************************************/
func buildFilterMenu(store *filters.Store, controller *browse.Controller) *filterMenu {
	snapshot := store.Snapshot()
	facets := controller.Facets()

	entries := []menuEntry{
		{
			label:  "Everything",
			active: snapshot.EventID == "" && snapshot.Company == "" && snapshot.Photographer == "",
			apply:  store.ResetFacets,
		},
	}

	if facets != nil && len(facets.Events) > 0 {
		entries = append(entries, menuEntry{label: "Events", header: true})
		for _, facet := range capEvents(facets.Events) {
			id := facet.ID
			entries = append(entries, menuEntry{
				label:  fmt.Sprintf("%s (%d)", facet.Name, facet.Count),
				active: snapshot.EventID == id,
				apply:  func() { store.SetEvent(id) },
			})
		}
	}

	photographers := photographerEntries(snapshot, store, facets, controller.Photographers())
	if len(photographers) > 0 {
		entries = append(entries, menuEntry{label: "Photographers", header: true})
		entries = append(entries, photographers...)
	}

	companies := companyEntries(snapshot, store, facets, controller.Companies())
	if len(companies) > 0 {
		entries = append(entries, menuEntry{label: "Companies", header: true})
		entries = append(entries, companies...)
	}

	entries = append(entries,
		menuEntry{label: "Options", header: true},
		menuEntry{label: "Shuffle order", active: snapshot.Shuffled(), apply: store.ToggleShuffle},
		menuEntry{
			label:  "Group near-duplicates",
			active: snapshot.GroupDuplicates,
			apply:  func() { store.SetGroupDuplicates(!snapshot.GroupDuplicates) },
		},
		menuEntry{
			label:  "Group same-scene bursts",
			active: snapshot.GroupScenes,
			apply:  func() { store.SetGroupScenes(!snapshot.GroupScenes) },
		},
	)

	menu := &filterMenu{entries: entries}
	menu.move(0)
	return menu
}

func capEvents(events []utils.TEventFacet) []utils.TEventFacet {
	if len(events) > menuSectionCap {
		return events[:menuSectionCap]
	}
	return events
}

func photographerEntries(snapshot filters.TFilterSnapshot, store *filters.Store, facets *utils.TAvailableFilters, names []string) []menuEntry {
	entries := []menuEntry{}
	if facets != nil && len(facets.Photographers) > 0 {
		for _, facet := range facets.Photographers {
			if len(entries) == menuSectionCap {
				break
			}
			name := facet.Name
			entries = append(entries, menuEntry{
				label:  fmt.Sprintf("%s (%d)", facet.Name, facet.Count),
				active: snapshot.Photographer == name,
				apply:  func() { store.SetPhotographer(name) },
			})
		}
		return entries
	}
	for _, rawName := range names {
		if len(entries) == menuSectionCap {
			break
		}
		name := rawName
		entries = append(entries, menuEntry{
			label:  name,
			active: snapshot.Photographer == name,
			apply:  func() { store.SetPhotographer(name) },
		})
	}
	return entries
}

func companyEntries(snapshot filters.TFilterSnapshot, store *filters.Store, facets *utils.TAvailableFilters, companies []utils.TCompany) []menuEntry {
	entries := []menuEntry{}
	if facets != nil && len(facets.Companies) > 0 {
		for _, facet := range facets.Companies {
			if len(entries) == menuSectionCap {
				break
			}
			slug := facet.Slug
			entries = append(entries, menuEntry{
				label:  fmt.Sprintf("%s (%d)", facet.Name, facet.Count),
				active: snapshot.Company == slug,
				apply:  func() { store.SetCompany(slug) },
			})
		}
		return entries
	}
	for _, company := range companies {
		if len(entries) == menuSectionCap {
			break
		}
		slug := company.Slug
		entries = append(entries, menuEntry{
			label:  company.Name,
			active: snapshot.Company == slug,
			apply:  func() { store.SetCompany(slug) },
		})
	}
	return entries
}

/**************************************************************************************************
** move shifts the cursor by delta, skipping section headers. A zero delta normalizes the cursor
** onto the nearest selectable entry, which is how the menu lands on its first row.
**
** @param delta - Rows to move, negative for up
**************************************************************************************************/
func (m *filterMenu) move(delta int) {
	if len(m.entries) == 0 {
		return
	}

	step := delta
	if step == 0 {
		step = 1
	} else if step > 0 {
		step = 1
	} else {
		step = -1
	}

	next := m.cursor + delta
	for {
		if next < 0 {
			next = 0
			step = 1
		}
		if next >= len(m.entries) {
			next = len(m.entries) - 1
			step = -1
		}
		if !m.entries[next].header {
			break
		}
		next += step
	}
	m.cursor = next
}

/**************************************************************************************************
** selected applies the entry under the cursor. Returns false for header rows, which have no
** action.
**
** @return bool - Whether an action ran
**************************************************************************************************/
func (m *filterMenu) selected() bool {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return false
	}
	entry := m.entries[m.cursor]
	if entry.header || entry.apply == nil {
		return false
	}
	entry.apply()
	return true
}

/**************************************************************************************************
** draw paints the menu as a centered overlay. The cursor row is highlighted; the visible window
** follows the cursor through sections that do not fit.
**
** @param screen - Target screen
** @param w - Screen width
** @param h - Screen height
**************************************************************************************************/
func (m *filterMenu) draw(screen tcell.Screen, w, h int) {
	boxWidth := 42
	if boxWidth > w-2 {
		boxWidth = w - 2
	}
	boxHeight := len(m.entries) + 2
	if boxHeight > h-2 {
		boxHeight = h - 2
	}
	if boxWidth < 8 || boxHeight < 3 {
		return
	}
	left := (w - boxWidth) / 2
	top := (h - boxHeight) / 2

	visible := boxHeight - 2
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}

	titleStyle := tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite).Bold(true)
	baseStyle := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorSilver)
	headerStyle := baseStyle.Foreground(tcell.ColorTeal).Bold(true)
	cursorStyle := tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack)

	endX := drawText(screen, left, top, left+boxWidth, " Filters ", titleStyle)
	fillLine(screen, endX, top, left+boxWidth, titleStyle)

	row := top + 1
	for i := m.offset; i < len(m.entries) && row < top+boxHeight-1; i++ {
		entry := m.entries[i]
		style := baseStyle
		text := "   " + entry.label
		switch {
		case entry.header:
			style = headerStyle
			text = " " + entry.label
		case i == m.cursor:
			style = cursorStyle
		}
		if entry.active && !entry.header {
			text = " ✓ " + entry.label
		}
		endX = drawText(screen, left, row, left+boxWidth, truncate(text, boxWidth), style)
		fillLine(screen, endX, row, left+boxWidth, style)
		row++
	}

	hint := " enter apply · esc close "
	endX = drawText(screen, left, top+boxHeight-1, left+boxWidth, hint, titleStyle)
	fillLine(screen, endX, top+boxHeight-1, left+boxWidth, titleStyle)
}
