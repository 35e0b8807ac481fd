package slideshow

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/majorfi/gig-gallery/pkg/cluster"
	"github.com/majorfi/gig-gallery/pkg/filters"
	"github.com/majorfi/gig-gallery/pkg/gallery"
	"github.com/majorfi/gig-gallery/pkg/nav"
	"github.com/majorfi/gig-gallery/pkg/pagecache"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/sirupsen/logrus"
)

/**************************************************************************************************
** Controller runs the full-screen viewer. It keeps its own page cache for the current filter
** selection, anchored on whichever photo the viewer opened with: pages are warmed sequentially
** until the thumbnail rail is covered, a deep-linked photo that no warmed page contains is
** fetched by id and spliced ahead of the sequence, and further pages are prefetched whenever the
** focused index drifts near either loaded edge. The focused index survives prepends, deletions
** and cluster cycling; it only resets when the filter selection itself changes, and even then the
** controller re-anchors on the photo that was on screen.
**************************************************************************************************/
type Controller struct {
	mu               sync.Mutex
	logger           *logrus.Logger
	client           *gallery.Client
	filters          *filters.Store
	location         *nav.Location
	cache            *pagecache.Cache
	clusters         *cluster.Index
	state            utils.LoadState
	generation       uint64
	fetchedOnce      bool
	open             bool
	focus            int
	pendingPhotoID   string
	autoplay         bool
	autoplayTimer    *time.Timer
	autoplayInterval time.Duration
	syncDebounce     *utils.Debouncer
	viewportWidth    int
	onChange         func()
	onClose          func()
	unsubscribe      func()
}

/**************************************************************************************************
** NewController creates a slideshow controller. It stays closed until Open or OpenAt runs.
**
** @param client - Photo Query API client
** @param store - Shared filter store
** @param location - Address bar the photo param is synced to
** @param logger - Logger instance for output
** @return *Controller - Configured controller, nil on invalid input
**************************************************************************************************/
func NewController(client *gallery.Client, store *filters.Store, location *nav.Location, logger *logrus.Logger) *Controller {
	if client == nil || store == nil || location == nil || logger == nil {
		return nil
	}

	return &Controller{
		logger:           logger,
		client:           client,
		filters:          store,
		location:         location,
		cache:            pagecache.New(),
		clusters:         cluster.NewIndex(),
		autoplayInterval: utils.AutoplayInterval,
		syncDebounce:     utils.NewDebouncer(utils.PhotoSyncDebounce),
		viewportWidth:    utils.DefaultViewportWidthPx,
	}
}

/**************************************************************************************************
** SetOnChange registers the redraw callback, fired outside the lock after any observable change.
**
** @param fn - Callback invoked after state changes
**************************************************************************************************/
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

/**************************************************************************************************
** SetOnClose registers the callback fired when the viewer closes, whether by user action or
** because the last photo was deleted out from under it.
**
** @param fn - Callback invoked after the viewer closes
**************************************************************************************************/
func (c *Controller) SetOnClose(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = fn
}

/**************************************************************************************************
** SetViewportWidth adjusts the warm-load target: enough photos to fill two rail widths of
** thumbnails. Called by the UI on resize, before Open for the initial size.
**
** @param px - Viewport width in pixels, non-positive values ignored
**************************************************************************************************/
func (c *Controller) SetViewportWidth(px int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if px > 0 {
		c.viewportWidth = px
	}
}

/**************************************************************************************************
** Start subscribes the controller to filter changes. Subscribing is separate from opening so a
** filter change while the viewer is closed costs nothing.
**************************************************************************************************/
func (c *Controller) Start() {
	c.unsubscribe = c.filters.Subscribe(c.onFilterChange)
}

/**************************************************************************************************
** Stop tears the controller down: detaches from filter notifications, cancels any pending URL
** sync and stops the autoplay timer. The viewer close path is Close, not Stop.
**************************************************************************************************/
func (c *Controller) Stop() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.syncDebounce.Cancel()

	c.mu.Lock()
	c.stopAutoplayLocked()
	c.mu.Unlock()
}

/**************************************************************************************************
** Open opens the viewer anchored on the photo named in the address bar, or on the first photo of
** the selection when no photo param is present. The deep-link entry point.
**************************************************************************************************/
func (c *Controller) Open() {
	c.OpenAt(c.location.Param(utils.ParamPhoto))
}

/**************************************************************************************************
** OpenAt opens the viewer anchored on a specific photo. The photo lands in the address bar
** immediately so the link is shareable from the first frame, then pages warm in the background
** until the rail is covered. An anchor that no warmed page contains is resolved by id afterwards
** and spliced ahead of the sequence; an anchor that resolves to nothing falls back to the first
** photo.
**
** @param photoID - Photo id to anchor on, empty for the first photo of the selection
**************************************************************************************************/
func (c *Controller) OpenAt(photoID string) {
	snapshot := c.filters.Snapshot()
	generation := c.filters.Generation()

	c.mu.Lock()
	if c.open {
		c.mu.Unlock()
		return
	}
	c.open = true
	c.generation = generation
	c.cache.Reset()
	c.clusters.Reset()
	c.fetchedOnce = false
	c.focus = 0
	c.pendingPhotoID = photoID
	c.autoplay = false
	c.state = utils.StateLoading
	if photoID != "" {
		c.location.SetParam(utils.ParamPhoto, photoID)
	}
	c.mu.Unlock()

	c.client.TrackEvent(utils.TAnalyticsEvent{Name: "slideshow_open", PhotoID: photoID})
	c.logger.Debugf("🎬 Slideshow opening (anchor %q, generation %d)", photoID, generation)
	c.notify()
	go c.warmLoad(snapshot, generation)
}

/**************************************************************************************************
** Close closes the viewer and clears the photo param from the address bar, restoring the plain
** grid link. Autoplay stops and any pending URL sync is dropped so a stale timer cannot write a
** photo back after the fact.
**************************************************************************************************/
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return
	}
	c.open = false
	c.stopAutoplayLocked()
	c.state = utils.StateIdle
	c.mu.Unlock()

	c.syncDebounce.Cancel()
	c.location.SetParam(utils.ParamPhoto, "")
	c.logger.Debugf("🎬 Slideshow closed")
	c.notifyClose()
	c.notify()
}

/**************************************************************************************************
** IsOpen reports whether the viewer is showing.
**
** @return bool - Open flag
**************************************************************************************************/
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

/**************************************************************************************************
** Next advances to the following photo. Manual navigation, so autoplay stops. Past the last
** loaded photo it wraps to the first only once the whole selection is loaded; otherwise it waits
** for the prefetch already racing the viewer.
**************************************************************************************************/
func (c *Controller) Next() {
	c.step(1, true)
}

/**************************************************************************************************
** Prev steps back to the preceding photo. Manual navigation, so autoplay stops.
**************************************************************************************************/
func (c *Controller) Prev() {
	c.step(-1, true)
}

/**************************************************************************************************
** JumpTo focuses a loaded photo by index, the thumbnail rail click. Manual navigation, so
** autoplay stops.
**
** @param idx - Index into the loaded sequence
**************************************************************************************************/
func (c *Controller) JumpTo(idx int) {
	c.mu.Lock()
	if !c.open || idx < 0 || idx >= c.cache.Len() {
		c.mu.Unlock()
		return
	}
	c.stopAutoplayLocked()
	changed := idx != c.focus
	c.focus = idx
	c.maybePrefetchLocked()
	c.mu.Unlock()

	if changed {
		c.notify()
		c.scheduleSync()
	}
}

/**************************************************************************************************
** ToggleAutoplay starts or stops the slide timer. Starting arms the first tick at the full
** interval; stopping takes effect immediately.
**************************************************************************************************/
func (c *Controller) ToggleAutoplay() {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return
	}
	if c.autoplay {
		c.stopAutoplayLocked()
	} else {
		c.autoplay = true
		c.armAutoplayLocked()
	}
	c.mu.Unlock()

	c.notify()
}

/**************************************************************************************************
** PauseAutoplay stops the slide timer without toggling, for interactions that should silence
** autoplay as a side effect, like opening an overlay.
**************************************************************************************************/
func (c *Controller) PauseAutoplay() {
	c.mu.Lock()
	active := c.autoplay
	c.stopAutoplayLocked()
	c.mu.Unlock()

	if active {
		c.notify()
	}
}

/**************************************************************************************************
** AutoplayActive reports whether the slide timer is running.
**
** @return bool - Autoplay flag
**************************************************************************************************/
func (c *Controller) AutoplayActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoplay
}

/**************************************************************************************************
** CycleCluster advances the focused slide's cluster one member, changing which photo the slide
** shows without moving the focused index. The address bar keeps the page-ordered record's id, so
** the shared link stays stable while the cluster cycles.
**************************************************************************************************/
func (c *Controller) CycleCluster() {
	c.mu.Lock()
	photo, ok := c.cache.Get(c.focus)
	if !c.open || !ok {
		c.mu.Unlock()
		return
	}
	_, cycled := c.clusters.Cycle(photo.ID, time.Now())
	c.mu.Unlock()

	if cycled {
		c.notify()
	}
}

/**************************************************************************************************
** AutoCycle advances every due cluster except the focused slide's own, which stays paused while
** it is on screen. The UI calls this on its tick.
**
** @param now - Current time
** @return []string - Representative ids whose display slot changed
**************************************************************************************************/
func (c *Controller) AutoCycle(now time.Time) []string {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return nil
	}
	focusedID := ""
	if photo, ok := c.cache.Get(c.focus); ok {
		focusedID = photo.ID
	}
	changed := c.clusters.AutoCycle(now, func(headID string) bool {
		return headID == focusedID
	})
	c.mu.Unlock()

	if len(changed) > 0 {
		c.notify()
	}
	return changed
}

/**************************************************************************************************
** ClusterBadge returns the focused slide's position within its cluster, one-based, and the
** cluster size. ok is false when the focused slide is not a cluster.
**
** @return int - One-based position of the displayed member
** @return int - Cluster size
** @return bool - Whether the focused slide is a cluster
**************************************************************************************************/
func (c *Controller) ClusterBadge() (int, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	photo, ok := c.cache.Get(c.focus)
	if !ok {
		return 0, 0, false
	}
	entry, isCluster := c.clusters.Entry(photo.ID)
	if !isCluster {
		return 0, 0, false
	}
	return entry.CurrentIndex + 1, len(entry.Members), true
}

/**************************************************************************************************
** Delete deletes the photo currently on screen through the API, then folds the deletion into
** local state. In dry-run mode the API client only logs, so local state is left alone too and
** the slide stays up.
**
** @return error - Non-nil if the API rejected the deletion
**************************************************************************************************/
func (c *Controller) Delete() error {
	c.mu.Lock()
	displayed, ok := c.displayedLocked()
	c.mu.Unlock()
	if !ok {
		return nil
	}

	if err := c.client.DeletePhoto(displayed.ID); err != nil {
		return fmt.Errorf("error deleting photo %s: %w", displayed.ID, err)
	}
	if c.client.IsDryRun() {
		return nil
	}

	c.ApplyDeletion(displayed.ID)
	return nil
}

/**************************************************************************************************
** ApplyDeletion removes a deleted photo from the viewer. A deletion before the focused index
** shifts the focus down one so the same photo stays on screen; deleting the focused photo shows
** the next one, or the new last one when the end was deleted; deleting the only photo closes the
** viewer. An id that only exists inside a cluster is stripped from its member list instead.
**
** @param id - Deleted photo id
**************************************************************************************************/
func (c *Controller) ApplyDeletion(id string) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return
	}

	idx, removed := c.cache.Remove(id)
	if !removed {
		stripped := c.stripClusterMemberLocked(id)
		c.mu.Unlock()
		if stripped {
			c.notify()
		}
		return
	}

	if c.cache.Len() == 0 {
		c.mu.Unlock()
		c.logger.Debugf("🎬 Last photo deleted, closing slideshow")
		c.Close()
		return
	}
	if idx < c.focus {
		c.focus--
	} else if c.focus >= c.cache.Len() {
		c.focus = c.cache.Len() - 1
	}
	c.clusters.Rebuild(c.cache.Photos(), c.filters.Snapshot().GroupingEnabled(), time.Now())
	c.mu.Unlock()

	c.notify()
	c.scheduleSync()
}

/**************************************************************************************************
** ApplyUpdate merges an admin-updated record into the viewer in place.
**
** @param photo - Updated record, nil tolerated for dry-run results
**************************************************************************************************/
func (c *Controller) ApplyUpdate(photo *utils.TPhoto) {
	if photo == nil {
		return
	}

	c.mu.Lock()
	replaced := c.cache.UpdateInPlace(*photo)
	if replaced {
		c.clusters.Rebuild(c.cache.Photos(), c.filters.Snapshot().GroupingEnabled(), time.Now())
	}
	c.mu.Unlock()

	if replaced {
		c.notify()
	}
}

/**************************************************************************************************
** CurrentPhoto returns the photo on screen: the focused record, or its cluster's currently
** displayed member when the focused record is a cluster.
**
** @return utils.TPhoto - Displayed photo
** @return bool - False while nothing is loaded
**************************************************************************************************/
func (c *Controller) CurrentPhoto() (utils.TPhoto, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayedLocked()
}

/**************************************************************************************************
** CurrentIndex returns the focused index into the loaded sequence.
**
** @return int - Focused index
**************************************************************************************************/
func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focus
}

/**************************************************************************************************
** Photos returns a copy of the loaded photo sequence, for the thumbnail rail.
**
** @return []utils.TPhoto - Loaded photos in display order
**************************************************************************************************/
func (c *Controller) Photos() []utils.TPhoto {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]utils.TPhoto(nil), c.cache.Photos()...)
}

/**************************************************************************************************
** TotalCount returns the server-reported total for the current selection.
**
** @return int - Total photo count
**************************************************************************************************/
func (c *Controller) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Total()
}

/**************************************************************************************************
** State returns the current loading state.
**
** @return utils.LoadState - Loading state
**************************************************************************************************/
func (c *Controller) State() utils.LoadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

/**************************************************************************************************
** onFilterChange reacts to a filter store notification while the viewer is open. The cache is
** rebuilt for the new selection, but the photo that was on screen becomes the new anchor, so
** toggling shuffle mid-show keeps the same photo up and only reorders its neighbours. The grid
** underneath subscribes to the same store, so both surfaces land on the same order.
**
** @param snapshot - New filter snapshot
** @param generation - Generation of the new snapshot
**************************************************************************************************/
func (c *Controller) onFilterChange(snapshot filters.TFilterSnapshot, generation uint64) {
	c.mu.Lock()
	if !c.open || generation == c.generation {
		c.mu.Unlock()
		return
	}

	anchor := ""
	if photo, ok := c.cache.Get(c.focus); ok {
		anchor = photo.ID
	}
	c.generation = generation
	c.cache.Reset()
	c.clusters.Reset()
	c.fetchedOnce = false
	c.focus = 0
	c.pendingPhotoID = anchor
	c.state = utils.StateLoading
	c.mu.Unlock()

	c.logger.Debugf("🎬 Selection changed, re-anchoring slideshow on %q (generation %d)", anchor, generation)
	c.notify()
	go c.warmLoad(snapshot, generation)
}

/**************************************************************************************************
** warmLoad fetches pages forward from the snapshot's initial page until enough photos are loaded
** to cover two viewport widths of rail thumbnails, or the selection runs out. Each merged page
** is checked for the pending anchor; an anchor still unresolved when warming ends is fetched by
** id. The loop aborts silently the moment the generation moves on or the viewer closes.
**
** @param snapshot - Snapshot to load
** @param generation - Generation of that snapshot
**************************************************************************************************/
func (c *Controller) warmLoad(snapshot filters.TFilterSnapshot, generation uint64) {
	page := snapshot.InitialPage
	for {
		c.mu.Lock()
		if generation != c.generation || !c.open {
			c.mu.Unlock()
			return
		}
		skipMeta := c.fetchedOnce
		c.mu.Unlock()

		response, err := c.client.FetchPhotos(snapshot.Query(page, skipMeta))

		c.mu.Lock()
		if generation != c.generation || !c.open {
			c.mu.Unlock()
			c.logger.Debugf("🗑️  Dropping stale slideshow page %d response", page)
			return
		}
		if err != nil {
			c.state = utils.StateIdle
			c.mu.Unlock()
			c.logger.Errorf("Slideshow warm load page %d failed: %v", page, err)
			c.notify()
			return
		}

		if response.Seed != "" {
			c.filters.ResolveShuffleSeed(response.Seed)
		}
		c.fetchedOnce = true
		c.mergeLocked(page, response)

		if c.cache.HasMoreForward() && c.cache.Len() < c.warmTargetLocked() {
			highest, _ := c.cache.HighestPage()
			page = highest + 1
			c.mu.Unlock()
			c.notify()
			continue
		}

		pending := c.pendingPhotoID
		if pending != "" {
			c.mu.Unlock()
			c.notify()
			c.resolveDeepLink(pending, generation)
			return
		}

		c.state = utils.StateIdle
		c.maybePrefetchLocked()
		c.mu.Unlock()

		c.notify()
		c.scheduleSync()
		return
	}
}

/**************************************************************************************************
** resolveDeepLink fetches a deep-linked photo by id after the warmed pages failed to contain it,
** and splices it ahead of the page-ordered sequence. A photo the API no longer knows clears the
** pending anchor and leaves the default one, so a stale shared link still opens the show.
**
** @param id - Photo id to resolve
** @param generation - Generation the open was issued under
**************************************************************************************************/
func (c *Controller) resolveDeepLink(id string, generation uint64) {
	c.logger.Debugf("🔍 Resolving deep linked photo %s by id", id)
	photo, err := c.client.FetchPhoto(id)

	c.mu.Lock()
	if generation != c.generation || !c.open {
		c.mu.Unlock()
		return
	}
	c.state = utils.StateIdle
	if err != nil {
		c.pendingPhotoID = ""
		c.maybePrefetchLocked()
		c.mu.Unlock()

		if errors.Is(err, gallery.ErrNotFound) {
			c.logger.Debugf("🔍 Deep linked photo %s is gone, falling back to the first photo", id)
		} else {
			c.logger.Errorf("Deep linked photo %s fetch failed: %v", id, err)
		}
		c.notify()
		c.scheduleSync()
		return
	}

	c.cache.SpliceFront(*photo)
	if idx := c.cache.IndexOf(photo.ID); idx >= 0 {
		c.focus = idx
	}
	c.pendingPhotoID = ""
	c.clusters.Rebuild(c.cache.Photos(), c.filters.Snapshot().GroupingEnabled(), time.Now())
	c.maybePrefetchLocked()
	c.mu.Unlock()

	c.notify()
	c.scheduleSync()
}

/**************************************************************************************************
** step moves the focus by delta. Manual steps stop autoplay; timer steps leave it running. The
** focus wraps only once the whole selection is loaded, since until then the real neighbour is a
** page fetch away, not the opposite end.
**
** @param delta - Offset to apply to the focused index
** @param manual - Whether a person asked for the move
**************************************************************************************************/
func (c *Controller) step(delta int, manual bool) {
	c.mu.Lock()
	if !c.open || c.cache.Len() == 0 {
		c.mu.Unlock()
		return
	}
	if manual {
		c.stopAutoplayLocked()
	}

	next := c.focus + delta
	wholeLoaded := !c.cache.HasEarlier() && !c.cache.HasMoreForward()
	switch {
	case next < 0 && wholeLoaded:
		next = c.cache.Len() - 1
	case next >= c.cache.Len() && wholeLoaded:
		next = 0
	case next < 0 || next >= c.cache.Len():
		next = c.focus
	}

	changed := next != c.focus
	c.focus = next
	c.maybePrefetchLocked()
	c.mu.Unlock()

	if changed || manual {
		c.notify()
	}
	if changed {
		c.scheduleSync()
	}
}

/**************************************************************************************************
** maybePrefetchLocked issues the next page fetch when the focus is within the prefetch threshold
** of either loaded edge, forward edge first. One fetch at a time; merges call back in here, so a
** viewer parked near an edge keeps pulling pages until the threshold is satisfied.
**************************************************************************************************/
func (c *Controller) maybePrefetchLocked() {
	if c.state != utils.StateIdle {
		return
	}

	if c.cache.Len()-1-c.focus <= utils.PrefetchThreshold && c.cache.HasMoreForward() {
		highest, _ := c.cache.HighestPage()
		c.launchPageLocked(highest + 1)
		return
	}
	if c.focus <= utils.PrefetchThreshold && c.cache.HasEarlier() {
		lowest, _ := c.cache.LowestPage()
		c.launchPageLocked(lowest - 1)
	}
}

func (c *Controller) launchPageLocked(page int) {
	snapshot := c.filters.Snapshot()
	generation := c.generation
	skipMeta := c.fetchedOnce
	c.state = utils.StateLoadingMore
	go c.fetchPage(snapshot, generation, page, skipMeta)
}

/**************************************************************************************************
** fetchPage performs one prefetch request and merges the result. Stale generations are dropped;
** the loading state clears on every other path.
**
** @param snapshot - Snapshot the request was built from
** @param generation - Generation the request was issued under
** @param page - Page number to fetch
** @param skipMeta - Whether facet metadata can be skipped
**************************************************************************************************/
func (c *Controller) fetchPage(snapshot filters.TFilterSnapshot, generation uint64, page int, skipMeta bool) {
	response, err := c.client.FetchPhotos(snapshot.Query(page, skipMeta))

	c.mu.Lock()
	if generation != c.generation || !c.open {
		c.mu.Unlock()
		c.logger.Debugf("🗑️  Dropping stale slideshow page %d response", page)
		return
	}

	c.state = utils.StateIdle
	if err != nil {
		c.mu.Unlock()
		c.logger.Errorf("Slideshow page %d failed: %v", page, err)
		c.notify()
		return
	}

	if response.Seed != "" {
		c.filters.ResolveShuffleSeed(response.Seed)
	}
	c.fetchedOnce = true
	c.mergeLocked(page, response)
	c.maybePrefetchLocked()
	c.mu.Unlock()

	c.notify()
}

/**************************************************************************************************
** mergeLocked folds one page response into the cache. When records land at or before the focused
** index, the focus shifts by the insert size so the photo on screen does not change; a merge into
** an empty cache anchors at the start instead. Resolves the pending deep-link anchor if the page
** contained it and rebuilds the cluster index.
**
** @param page - Page number the response answers
** @param response - Page response to fold in
**************************************************************************************************/
func (c *Controller) mergeLocked(page int, response *utils.TPhotoQueryResponse) {
	hadBefore := c.cache.Len()
	pos, added := c.cache.Merge(page, response.Photos, response.Pagination)
	if hadBefore > 0 && added > 0 && pos <= c.focus {
		c.focus += added
	}
	if c.pendingPhotoID != "" {
		if idx := c.cache.IndexOf(c.pendingPhotoID); idx >= 0 {
			c.focus = idx
			c.pendingPhotoID = ""
		}
	}
	c.clusters.Rebuild(c.cache.Photos(), c.filters.Snapshot().GroupingEnabled(), time.Now())
}

/**************************************************************************************************
** displayedLocked resolves what is on screen: the focused record, or its cluster's displayed
** member.
**************************************************************************************************/
func (c *Controller) displayedLocked() (utils.TPhoto, bool) {
	photo, ok := c.cache.Get(c.focus)
	if !ok {
		return utils.TPhoto{}, false
	}
	if member, isCluster := c.clusters.Current(photo.ID); isCluster {
		return member, true
	}
	return photo, true
}

func (c *Controller) warmTargetLocked() int {
	return 2 * c.viewportWidth / utils.RailThumbWidthPx
}

/**************************************************************************************************
** stripClusterMemberLocked removes a photo that only exists inside cluster member lists. The
** cluster index is rebuilt so badges and cycling see the shrunken cluster.
**************************************************************************************************/
func (c *Controller) stripClusterMemberLocked(id string) bool {
	stripped := false
	for _, photo := range c.cache.Photos() {
		kept := photo.ClusterMembers[:0:0]
		for _, member := range photo.ClusterMembers {
			if member.ID != id {
				kept = append(kept, member)
			}
		}
		if len(kept) != len(photo.ClusterMembers) {
			photo.ClusterMembers = kept
			c.cache.UpdateInPlace(photo)
			stripped = true
		}
	}
	if stripped {
		c.clusters.Rebuild(c.cache.Photos(), c.filters.Snapshot().GroupingEnabled(), time.Now())
	}
	return stripped
}

/**************************************************************************************************
** scheduleSync debounces writing the focused photo's id into the address bar. Rapid navigation
** collapses into one rewrite once the viewer settles; the rewrite replaces the current history
** entry, never grows it. The id written is the page-ordered record's, not a cycling cluster
** member's, so the link survives the cluster moving on. The settle point doubles as the view
** analytics event, so skimming past photos does not count as viewing them.
**************************************************************************************************/
func (c *Controller) scheduleSync() {
	c.syncDebounce.Schedule(func() {
		c.mu.Lock()
		if !c.open {
			c.mu.Unlock()
			return
		}
		photo, ok := c.cache.Get(c.focus)
		c.mu.Unlock()

		if ok {
			c.location.SetParam(utils.ParamPhoto, photo.ID)
			c.client.TrackEvent(utils.TAnalyticsEvent{Name: "slideshow_view", PhotoID: photo.ID})
		}
	})
}

func (c *Controller) armAutoplayLocked() {
	if c.autoplayTimer != nil {
		c.autoplayTimer.Stop()
	}
	c.autoplayTimer = time.AfterFunc(c.autoplayInterval, c.autoplayTick)
}

func (c *Controller) stopAutoplayLocked() {
	c.autoplay = false
	if c.autoplayTimer != nil {
		c.autoplayTimer.Stop()
		c.autoplayTimer = nil
	}
}

/**************************************************************************************************
** autoplayTick advances one slide and re-arms the timer, unless autoplay was stopped between the
** timer firing and the tick running.
**************************************************************************************************/
func (c *Controller) autoplayTick() {
	c.mu.Lock()
	if !c.open || !c.autoplay {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.step(1, false)

	c.mu.Lock()
	if c.open && c.autoplay {
		c.armAutoplayLocked()
	}
	c.mu.Unlock()
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Controller) notifyClose() {
	c.mu.Lock()
	fn := c.onClose
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
