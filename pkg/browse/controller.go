package browse

import (
	"sync"
	"time"

	"github.com/majorfi/gig-gallery/pkg/cluster"
	"github.com/majorfi/gig-gallery/pkg/filters"
	"github.com/majorfi/gig-gallery/pkg/gallery"
	"github.com/majorfi/gig-gallery/pkg/pagecache"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/sirupsen/logrus"
)

/**************************************************************************************************
** Controller orchestrates the photo grid: it owns the page cache and cluster index for the
** current filter selection, resets them when the selection changes, and grows the cache as the
** viewer scrolls. Every fetch is tagged with the filter generation it was issued under; a
** response whose generation has been superseded is discarded, so a slow answer for the previous
** selection can never populate the next one's cache.
**************************************************************************************************/
type Controller struct {
	mu            sync.Mutex
	logger        *logrus.Logger
	client        *gallery.Client
	filters       *filters.Store
	cache         *pagecache.Cache
	clusters      *cluster.Index
	state         utils.LoadState
	generation    uint64
	fetchedOnce   bool
	photographers []string
	companies     []utils.TCompany
	facets        *utils.TAvailableFilters
	isAdmin       bool
	onChange      func()
	unsubscribe   func()
}

/**************************************************************************************************
** NewController creates a gallery controller. The controller is inert until Start runs; the
** filter store must have been initialized by then so stored filters reach the first fetch.
**
** @param client - Photo Query API client
** @param store - Shared filter store
** @param logger - Logger instance for output
** @return *Controller - Configured controller, nil on invalid input
**************************************************************************************************/
func NewController(client *gallery.Client, store *filters.Store, logger *logrus.Logger) *Controller {
	if client == nil || store == nil || logger == nil {
		return nil
	}

	return &Controller{
		logger:   logger,
		client:   client,
		filters:  store,
		cache:    pagecache.New(),
		clusters: cluster.NewIndex(),
	}
}

/**************************************************************************************************
** SetOnChange registers the redraw callback. It fires outside the controller's lock after any
** observable state change.
**
** @param fn - Callback invoked after state changes
**************************************************************************************************/
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

/**************************************************************************************************
** Start subscribes to filter changes, resolves the viewer's session, and issues the first page
** fetch for the current snapshot.
**************************************************************************************************/
func (c *Controller) Start() {
	c.unsubscribe = c.filters.Subscribe(c.onFilterChange)

	go func() {
		session, err := c.client.GetSession()
		if err != nil {
			return
		}
		c.mu.Lock()
		c.isAdmin = session.IsAdmin
		c.mu.Unlock()
		c.notify()
	}()

	c.beginLoad(c.filters.Snapshot(), c.filters.Generation())
}

/**************************************************************************************************
** Close detaches the controller from filter notifications.
**************************************************************************************************/
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

/**************************************************************************************************
** LoadMore grows the cache forward by one page. It is the infinite-scroll trigger: a no-op
** unless the controller is idle and both the photo count and the page count say more exists, so
** rapid re-triggering while a fetch is in flight stays harmless.
**************************************************************************************************/
func (c *Controller) LoadMore() {
	c.mu.Lock()
	if c.state != utils.StateIdle || !c.cache.HasMoreForward() {
		c.mu.Unlock()
		return
	}
	highest, ok := c.cache.HighestPage()
	if !ok {
		c.mu.Unlock()
		return
	}

	snapshot := c.filters.Snapshot()
	generation := c.generation
	skipMeta := c.fetchedOnce
	c.state = utils.StateLoadingMore
	c.mu.Unlock()

	go c.fetchPage(snapshot, generation, highest+1, skipMeta)
}

/**************************************************************************************************
** LoadEarlier grows the cache backward by one page, for grids entered through a pagination deep
** link. Shares the single in-flight guard with LoadMore.
**************************************************************************************************/
func (c *Controller) LoadEarlier() {
	c.mu.Lock()
	if c.state != utils.StateIdle || !c.cache.HasEarlier() {
		c.mu.Unlock()
		return
	}
	lowest, _ := c.cache.LowestPage()

	snapshot := c.filters.Snapshot()
	generation := c.generation
	skipMeta := c.fetchedOnce
	c.state = utils.StateLoadingMore
	c.mu.Unlock()

	go c.fetchPage(snapshot, generation, lowest-1, skipMeta)
}

/**************************************************************************************************
** HasEarlier reports whether pages before the lowest loaded one exist, which is only the case
** after a pagination deep link.
**
** @return bool - Whether LoadEarlier can make progress
**************************************************************************************************/
func (c *Controller) HasEarlier() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.HasEarlier()
}

/**************************************************************************************************
** CycleCluster advances a cluster's display slot one step immediately and restarts its
** auto-cycle interval. The badge action.
**
** @param headID - Representative photo id
**************************************************************************************************/
func (c *Controller) CycleCluster(headID string) {
	c.mu.Lock()
	_, ok := c.clusters.Cycle(headID, time.Now())
	c.mu.Unlock()
	if ok {
		c.notify()
	}
}

/**************************************************************************************************
** AutoCycle advances every due cluster whose card is not the focused one. The UI calls this on
** its tick; a non-empty result means something changed on screen.
**
** @param now - Current time
** @param focusedID - Representative id of the focused card, pauses that cluster
** @return []string - Representative ids whose display slot changed
**************************************************************************************************/
func (c *Controller) AutoCycle(now time.Time, focusedID string) []string {
	c.mu.Lock()
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
** ClusterBadge returns what a cluster's grid badge shows: the currently displayed member and
** how many members share its monochrome class, the displayed member included.
**
** @param headID - Representative photo id
** @return utils.TPhoto - Displayed member
** @return int - Same-class member count
** @return bool - Whether the id is a known cluster
**************************************************************************************************/
func (c *Controller) ClusterBadge(headID string) (utils.TPhoto, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.clusters.Current(headID)
	if !ok {
		return utils.TPhoto{}, 0, false
	}
	return current, c.clusters.SameClassCount(headID), true
}

/**************************************************************************************************
** ApplyUpdate merges an admin-updated record into the cache in place.
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
** ApplyDeletion removes a deleted photo from the cache and decrements the total.
**
** @param id - Deleted photo id
**************************************************************************************************/
func (c *Controller) ApplyDeletion(id string) {
	c.mu.Lock()
	_, removed := c.cache.Remove(id)
	if removed {
		c.clusters.Rebuild(c.cache.Photos(), c.filters.Snapshot().GroupingEnabled(), time.Now())
	}
	c.mu.Unlock()
	if removed {
		c.notify()
	}
}

/**************************************************************************************************
** Photos returns a copy of the loaded photo sequence.
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
** Photographers returns the photographer facet delivered with the first page.
**
** @return []string - Photographer names
**************************************************************************************************/
func (c *Controller) Photographers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.photographers...)
}

/**************************************************************************************************
** Companies returns the company facet delivered with the first page.
**
** @return []utils.TCompany - Companies
**************************************************************************************************/
func (c *Controller) Companies() []utils.TCompany {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]utils.TCompany(nil), c.companies...)
}

/**************************************************************************************************
** Facets returns the facet counts delivered with the first page, nil when the server sent none.
**
** @return *utils.TAvailableFilters - Facet counts
**************************************************************************************************/
func (c *Controller) Facets() *utils.TAvailableFilters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.facets
}

/**************************************************************************************************
** IsAdmin reports whether the session grants admin controls.
**
** @return bool - Admin flag from the session lookup
**************************************************************************************************/
func (c *Controller) IsAdmin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isAdmin
}

/**************************************************************************************************
** onFilterChange reacts to a filter store notification. Only a generation change obliges a
** reset; same-generation notifications carry metadata the next fetch picks up by itself.
**
** @param snapshot - New filter snapshot
** @param generation - Generation of the new snapshot
**************************************************************************************************/
func (c *Controller) onFilterChange(snapshot filters.TFilterSnapshot, generation uint64) {
	c.mu.Lock()
	if generation == c.generation {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.beginLoad(snapshot, generation)
}

/**************************************************************************************************
** beginLoad clears everything and fetches the snapshot's first page. The cache is cleared
** synchronously before the fetch goes out, so the old selection's photos are gone the moment
** the grid rerenders as loading.
**
** @param snapshot - Snapshot to load
** @param generation - Generation of that snapshot
**************************************************************************************************/
func (c *Controller) beginLoad(snapshot filters.TFilterSnapshot, generation uint64) {
	c.mu.Lock()
	c.generation = generation
	c.cache.Reset()
	c.clusters.Reset()
	c.fetchedOnce = false
	c.photographers = nil
	c.companies = nil
	c.facets = nil
	c.state = utils.StateLoading
	c.mu.Unlock()

	c.notify()
	c.logger.Debugf("🖼️  Loading grid page %d (generation %d)", snapshot.InitialPage, generation)
	go c.fetchPage(snapshot, generation, snapshot.InitialPage, false)
}

/**************************************************************************************************
** fetchPage performs one page request and merges the result. The loading state is cleared on
** every path, success or failure, so the grid can never stick in a permanent spinner. A
** response tagged with a superseded generation is dropped without touching anything.
**
** @param snapshot - Snapshot the request was built from
** @param generation - Generation the request was issued under
** @param page - Page number to fetch
** @param skipMeta - Whether facet metadata can be skipped
**************************************************************************************************/
func (c *Controller) fetchPage(snapshot filters.TFilterSnapshot, generation uint64, page int, skipMeta bool) {
	response, err := c.client.FetchPhotos(snapshot.Query(page, skipMeta))

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		c.logger.Debugf("🗑️  Dropping stale page %d response (generation %d, now %d)", page, generation, c.generation)
		return
	}

	c.state = utils.StateIdle
	if err != nil {
		c.mu.Unlock()
		c.logger.Errorf("Grid page %d failed: %v", page, err)
		c.notify()
		return
	}

	if response.Seed != "" {
		c.filters.ResolveShuffleSeed(response.Seed)
	}
	if !skipMeta {
		c.photographers = response.Photographers
		c.companies = response.Companies
		c.facets = response.AvailableFilters
	}
	c.fetchedOnce = true
	_, added := c.cache.Merge(page, response.Photos, response.Pagination)
	c.clusters.Rebuild(c.cache.Photos(), snapshot.GroupingEnabled(), time.Now())
	loaded, total := c.cache.Len(), c.cache.Total()
	c.mu.Unlock()

	c.logger.Debugf("🖼️  Grid page %d merged: +%d photos (%d of %d loaded)", page, added, loaded, total)
	c.notify()
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
