package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/majorfi/gig-gallery/pkg/browse"
	"github.com/majorfi/gig-gallery/pkg/filters"
	"github.com/majorfi/gig-gallery/pkg/gallery"
	"github.com/majorfi/gig-gallery/pkg/nav"
	"github.com/majorfi/gig-gallery/pkg/slideshow"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/sirupsen/logrus"
)

const (
	tickInterval = 250 * time.Millisecond
	statusTTL    = 4 * time.Second

	// A terminal cell stands in for roughly 8px of web viewport, so a 240
	// column terminal warms the same rail depth as a 1920px browser window.
	cellWidthPx = 8
)

/**************************************************************************************************
** App is the terminal front end. It owns the screen, the two controllers and the preview cache,
** and runs a single event loop that serializes all input handling and rendering. Controllers call
** back into requestRedraw from their own goroutines; the buffered redraw channel coalesces those
** into at most one pending repaint.
**************************************************************************************************/
type App struct {
	screen    tcell.Screen
	logger    *logrus.Logger
	client    *gallery.Client
	filters   *filters.Store
	location  *nav.Location
	browse    *browse.Controller
	slideshow *slideshow.Controller
	preview   *previewCache

	redrawCh    chan struct{}
	openOnStart bool

	width  int
	height int

	selected      int
	rowOffset     int
	earlierAnchor string
	menu          *filterMenu

	statusMu sync.Mutex
	status   string
	statusAt time.Time
}

/**************************************************************************************************
** NewApp wires the terminal front end together. The screen is injected so commands hand over a
** real terminal and tests a simulation screen.
**
** @param screen - Target screen
** @param client - Photo Query API client
** @param store - Shared filter store
** @param location - Browsing location
** @param logger - Logger instance for output
** @return *App - Configured app, nil on invalid input
**************************************************************************************************/
func NewApp(screen tcell.Screen, client *gallery.Client, store *filters.Store, location *nav.Location, logger *logrus.Logger) *App {
	if screen == nil || client == nil || store == nil || location == nil || logger == nil {
		return nil
	}

	app := &App{
		screen:   screen,
		logger:   logger,
		client:   client,
		filters:  store,
		location: location,
		redrawCh: make(chan struct{}, 1),
	}
	app.browse = browse.NewController(client, store, logger)
	app.slideshow = slideshow.NewController(client, store, location, logger)
	app.preview = newPreviewCache(client, logger, app.requestRedraw)
	app.browse.SetOnChange(app.requestRedraw)
	app.slideshow.SetOnChange(app.requestRedraw)
	app.slideshow.SetOnClose(app.requestRedraw)
	return app
}

/**************************************************************************************************
** OpenViewerOnStart makes Run open the slideshow immediately even without a photo param in the
** location. The slideshow command's entry path.
**************************************************************************************************/
func (a *App) OpenViewerOnStart() {
	a.openOnStart = true
}

/**************************************************************************************************
** Run starts the controllers and blocks in the event loop until the viewer quits. When the
** location carries a photo param the slideshow opens immediately, which is how shared slideshow
** links land directly in the viewer.
**
** @return error - Screen initialization error
**************************************************************************************************/
func (a *App) Run() error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("error initializing screen: %w", err)
	}
	defer a.screen.Fini()
	a.screen.Clear()

	a.width, a.height = a.screen.Size()
	a.slideshow.SetViewportWidth(a.width * cellWidthPx)

	a.browse.Start()
	a.slideshow.Start()
	defer a.browse.Close()
	defer a.slideshow.Stop()

	if a.openOnStart || a.location.Param(utils.ParamPhoto) != "" {
		a.slideshow.Open()
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	dirty := true
	for {
		if dirty {
			a.render()
			dirty = false
		}
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if a.handleEvent(ev) {
				return nil
			}
			dirty = true
		case <-a.redrawCh:
			dirty = true
		case now := <-ticker.C:
			a.handleTick(now)
			dirty = true
		}
	}
}

func (a *App) render() {
	a.screen.Clear()
	w, h := a.width, a.height
	if w <= 0 || h <= 0 {
		w, h = a.screen.Size()
	}
	if a.slideshow.IsOpen() {
		a.drawSlideshow(w, h)
	} else {
		a.drawGrid(w, h)
	}
	a.screen.Show()
}

func (a *App) requestRedraw() {
	select {
	case a.redrawCh <- struct{}{}:
	default:
	}
}

/**************************************************************************************************
** handleTick advances time-driven state: cluster auto-cycling in whichever view is active, and
** expiry of the status message. The focused grid card's cluster is held still so the viewer can
** read it.
**
** @param now - Current time
**************************************************************************************************/
func (a *App) handleTick(now time.Time) {
	if a.slideshow.IsOpen() {
		a.slideshow.AutoCycle(now)
	} else {
		focusedID := ""
		if photos := a.browse.Photos(); a.selected >= 0 && a.selected < len(photos) {
			focusedID = photos[a.selected].ID
		}
		a.browse.AutoCycle(now, focusedID)
	}
	a.expireStatus(now)
}

func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.width, a.height = ev.Size()
		a.slideshow.SetViewportWidth(a.width * cellWidthPx)
		a.screen.Sync()
	case *tcell.EventKey:
		return a.handleKey(ev)
	}
	return false
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	if a.menu != nil {
		a.handleMenuKey(ev)
		return false
	}
	if a.slideshow.IsOpen() {
		return a.handleSlideshowKey(ev)
	}
	return a.handleGridKey(ev)
}

func (a *App) handleMenuKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.menu = nil
	case tcell.KeyUp:
		a.menu.move(-1)
	case tcell.KeyDown:
		a.menu.move(1)
	case tcell.KeyEnter:
		if a.menu.selected() {
			a.menu = nil
		}
	}
}

/**************************************************************************************************
** handleGridKey dispatches browsing keys: selection movement with infinite scroll, opening the
** viewer, the filter menu, the order and grouping toggles, manual cluster cycling and the admin
** delete.
**
** @param ev - Key event
** @return bool - True to quit
**************************************************************************************************/
func (a *App) handleGridKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyLeft:
		a.moveSelection(-1)
	case tcell.KeyRight:
		a.moveSelection(1)
	case tcell.KeyUp:
		a.moveSelection(-a.gridColumns(a.width))
	case tcell.KeyDown:
		a.moveSelection(a.gridColumns(a.width))
	case tcell.KeyEnter:
		a.openSelected()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'f':
			a.menu = buildFilterMenu(a.filters, a.browse)
		case 's':
			a.filters.ToggleShuffle()
		case 'g':
			a.filters.SetGroupDuplicates(!a.filters.Snapshot().GroupDuplicates)
		case 'G':
			a.filters.SetGroupScenes(!a.filters.Snapshot().GroupScenes)
		case 'c':
			if id, ok := a.selectedPhotoID(); ok {
				a.browse.CycleCluster(id)
			}
		case 'd':
			a.deleteSelected()
		}
	}
	return false
}

/**************************************************************************************************
** handleSlideshowKey dispatches viewer keys. Escape syncs the grid selection onto the photo that
** was on screen before closing, so leaving the viewer lands where the show left off.
**
** @param ev - Key event
** @return bool - True to quit
**************************************************************************************************/
func (a *App) handleSlideshowKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.syncGridSelection()
		a.slideshow.Close()
	case tcell.KeyLeft:
		a.slideshow.Prev()
	case tcell.KeyRight:
		a.slideshow.Next()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			a.slideshow.ToggleAutoplay()
		case 'c':
			a.slideshow.CycleCluster()
		case 's':
			a.filters.ToggleShuffle()
		case 'd':
			a.deleteDisplayed()
		}
	}
	return false
}

func (a *App) moveSelection(delta int) {
	photos := a.browse.Photos()
	if len(photos) == 0 {
		return
	}
	if delta < 0 && a.selected == 0 && a.browse.HasEarlier() {
		if a.earlierAnchor == "" {
			a.earlierAnchor = photos[0].ID
		}
		a.browse.LoadEarlier()
		return
	}
	a.selected += delta
	a.clampSelection(len(photos))
	if len(photos)-a.selected <= a.gridColumns(a.width)*2 {
		a.browse.LoadMore()
	}
}

/**************************************************************************************************
** resolveEarlierAnchor lands the selection after a backward page load. Moving up from the top of
** a deep-linked grid requests the previous page; once it splices in, the selection steps onto
** the record just above the old top, which is where the upward move was headed. The anchor
** survives until the splice lands and is dropped when the load ends without one.
**
** @param photos - Current photo sequence
**************************************************************************************************/
func (a *App) resolveEarlierAnchor(photos []utils.TPhoto) {
	if a.earlierAnchor == "" {
		return
	}
	idx := -1
	for i, photo := range photos {
		if photo.ID == a.earlierAnchor {
			idx = i
			break
		}
	}
	switch {
	case idx > 0:
		a.selected = idx - 1
		a.earlierAnchor = ""
	case idx < 0 || a.browse.State() == utils.StateIdle:
		a.earlierAnchor = ""
	}
}

func (a *App) selectedPhotoID() (string, bool) {
	photos := a.browse.Photos()
	if a.selected < 0 || a.selected >= len(photos) {
		return "", false
	}
	return photos[a.selected].ID, true
}

func (a *App) openSelected() {
	if id, ok := a.selectedPhotoID(); ok {
		a.slideshow.OpenAt(id)
	}
}

/**************************************************************************************************
** syncGridSelection moves the grid selection to the slideshow's focused photo, by id. The viewer
** may have advanced far past where the grid was scrolled.
**************************************************************************************************/
func (a *App) syncGridSelection() {
	slides := a.slideshow.Photos()
	idx := a.slideshow.CurrentIndex()
	if idx < 0 || idx >= len(slides) {
		return
	}
	id := slides[idx].ID
	for i, photo := range a.browse.Photos() {
		if photo.ID == id {
			a.selected = i
			return
		}
	}
}

/**************************************************************************************************
** deleteSelected removes the selected card's record through the admin side channel. The grid
** delete targets the page-ordered record, not the cluster member its card happens to display.
**************************************************************************************************/
func (a *App) deleteSelected() {
	if !a.browse.IsAdmin() {
		a.setStatus("admin session required")
		return
	}
	id, ok := a.selectedPhotoID()
	if !ok {
		return
	}

	go func() {
		if err := a.client.DeletePhoto(id); err != nil {
			a.setStatus(fmt.Sprintf("delete failed: %v", err))
			a.requestRedraw()
			return
		}
		if !a.client.IsDryRun() {
			a.browse.ApplyDeletion(id)
			a.slideshow.ApplyDeletion(id)
		}
		a.setStatus("deleted " + id)
		a.requestRedraw()
	}()
}

/**************************************************************************************************
** deleteDisplayed removes the photo the viewer is showing, cluster member included, and mirrors
** the removal into the grid cache.
**************************************************************************************************/
func (a *App) deleteDisplayed() {
	if !a.browse.IsAdmin() {
		a.setStatus("admin session required")
		return
	}
	photo, ok := a.slideshow.CurrentPhoto()
	if !ok {
		return
	}

	go func() {
		if err := a.slideshow.Delete(); err != nil {
			a.setStatus(fmt.Sprintf("delete failed: %v", err))
		} else if !a.client.IsDryRun() {
			a.browse.ApplyDeletion(photo.ID)
			a.setStatus("deleted " + photo.ID)
		}
		a.requestRedraw()
	}()
}

func (a *App) setStatus(text string) {
	a.statusMu.Lock()
	a.status = text
	a.statusAt = time.Now()
	a.statusMu.Unlock()
}

func (a *App) currentStatus() string {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	return a.status
}

func (a *App) expireStatus(now time.Time) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	if a.status != "" && now.Sub(a.statusAt) >= statusTTL {
		a.status = ""
	}
}
