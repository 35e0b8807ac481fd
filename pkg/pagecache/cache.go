package pagecache

import (
	"github.com/majorfi/gig-gallery/pkg/utils"
)

/**************************************************************************************************
** Cache accumulates fetched photo pages for one filter selection. It keeps the ordered set of
** loaded page numbers, the concatenated deduplicated photo sequence they produced, and the
** server-reported totals. Two invariants hold at all times: no photo id appears twice, and the
** sequence order matches ascending page-number concatenation, no matter in which order the
** pages actually arrived.
**
** Deep-linked single-photo records sit in a front segment ahead of all page-ordered records;
** their later in-page appearance is absorbed by the id dedup.
**
** Cache is not safe for concurrent use. Controllers own one and guard it with their own lock.
**************************************************************************************************/
type Cache struct {
	frontCount int
	spans      []span
	photos     []utils.TPhoto
	ids        map[string]struct{}
	total      int
	totalPages int
}

// span is one loaded page and how many records it kept after dedup.
type span struct {
	page  int
	count int
}

/**************************************************************************************************
** New creates an empty cache.
**
** @return *Cache - Ready to use cache
**************************************************************************************************/
func New() *Cache {
	return &Cache{ids: map[string]struct{}{}}
}

/**************************************************************************************************
** Reset drops everything. Called when the filter selection changes.
**************************************************************************************************/
func (c *Cache) Reset() {
	c.frontCount = 0
	c.spans = nil
	c.photos = nil
	c.ids = map[string]struct{}{}
	c.total = 0
	c.totalPages = 0
}

/**************************************************************************************************
** Merge splices one fetched page into the sequence at its page-order position. Records whose id
** is already present are dropped, which guards against server-side duplication across pages,
** especially under shuffle pagination. Re-merging an already loaded page is a no-op.
**
** The returned position and count let callers fix up any index they hold into the sequence: a
** held index at or after the position moves forward by the added count.
**
** @param page - Page number the records came from
** @param incoming - Records of that page, server order
** @param pagination - Server-reported pagination for this response
** @return int - Position the new records were inserted at
** @return int - How many records were actually added after dedup
**************************************************************************************************/
func (c *Cache) Merge(page int, incoming []utils.TPhoto, pagination utils.TPagination) (int, int) {
	c.total = pagination.Total
	c.totalPages = pagination.TotalPages

	if c.HasPage(page) {
		return 0, 0
	}

	kept := make([]utils.TPhoto, 0, len(incoming))
	for _, photo := range incoming {
		if _, seen := c.ids[photo.ID]; seen {
			continue
		}
		c.ids[photo.ID] = struct{}{}
		kept = append(kept, photo)
	}

	pos := c.frontCount
	spanIdx := len(c.spans)
	for i, s := range c.spans {
		if s.page > page {
			spanIdx = i
			break
		}
		pos += s.count
	}

	updated := make([]utils.TPhoto, 0, len(c.photos)+len(kept))
	updated = append(updated, c.photos[:pos]...)
	updated = append(updated, kept...)
	updated = append(updated, c.photos[pos:]...)
	c.photos = updated

	c.spans = append(c.spans, span{})
	copy(c.spans[spanIdx+1:], c.spans[spanIdx:])
	c.spans[spanIdx] = span{page: page, count: len(kept)}

	return pos, len(kept)
}

/**************************************************************************************************
** SpliceFront inserts a single photo ahead of every page-ordered record. Used when a deep link
** names a photo that no loaded page contains. Returns false when the id is already present.
**
** @param photo - Photo to insert
** @return bool - Whether the photo was inserted
**************************************************************************************************/
func (c *Cache) SpliceFront(photo utils.TPhoto) bool {
	if _, seen := c.ids[photo.ID]; seen {
		return false
	}

	c.ids[photo.ID] = struct{}{}
	c.photos = append([]utils.TPhoto{photo}, c.photos...)
	c.frontCount++
	return true
}

/**************************************************************************************************
** Remove drops a photo from the sequence, reports at which index it sat, and decrements the
** total. The page it belonged to stays marked as loaded.
**
** @param id - Photo id to remove
** @return int - Index the photo occupied
** @return bool - Whether the photo was present
**************************************************************************************************/
func (c *Cache) Remove(id string) (int, bool) {
	idx := c.IndexOf(id)
	if idx < 0 {
		return 0, false
	}

	if idx < c.frontCount {
		c.frontCount--
	} else {
		offset := c.frontCount
		for i := range c.spans {
			if idx < offset+c.spans[i].count {
				c.spans[i].count--
				break
			}
			offset += c.spans[i].count
		}
	}

	c.photos = append(c.photos[:idx], c.photos[idx+1:]...)
	delete(c.ids, id)
	if c.total > 0 {
		c.total--
	}
	return idx, true
}

/**************************************************************************************************
** UpdateInPlace replaces the stored record with the same id, both at the top level and inside
** any cluster member list that carries it. Admin edits merge back this way without disturbing
** order or indexes.
**
** @param photo - Updated record
** @return bool - Whether anything was replaced
**************************************************************************************************/
func (c *Cache) UpdateInPlace(photo utils.TPhoto) bool {
	replaced := false
	for i := range c.photos {
		if c.photos[i].ID == photo.ID {
			c.photos[i] = photo
			replaced = true
			continue
		}
		for j := range c.photos[i].ClusterMembers {
			if c.photos[i].ClusterMembers[j].ID == photo.ID {
				c.photos[i].ClusterMembers[j] = photo
				replaced = true
			}
		}
	}
	return replaced
}

/**************************************************************************************************
** Photos returns the current sequence. The slice is the cache's own backing storage; callers
** that hand it across a lock boundary must copy it first.
**
** @return []utils.TPhoto - Page-ordered deduplicated sequence
**************************************************************************************************/
func (c *Cache) Photos() []utils.TPhoto {
	return c.photos
}

/**************************************************************************************************
** Get returns the photo at a sequence index.
**
** @param idx - Sequence index
** @return utils.TPhoto - Photo at that index
** @return bool - Whether the index is in range
**************************************************************************************************/
func (c *Cache) Get(idx int) (utils.TPhoto, bool) {
	if idx < 0 || idx >= len(c.photos) {
		return utils.TPhoto{}, false
	}
	return c.photos[idx], true
}

/**************************************************************************************************
** IndexOf locates a photo id in the sequence.
**
** @param id - Photo id
** @return int - Sequence index, -1 when absent
**************************************************************************************************/
func (c *Cache) IndexOf(id string) int {
	for i := range c.photos {
		if c.photos[i].ID == id {
			return i
		}
	}
	return -1
}

/**************************************************************************************************
** Len returns how many photos are loaded.
**
** @return int - Loaded photo count
**************************************************************************************************/
func (c *Cache) Len() int {
	return len(c.photos)
}

/**************************************************************************************************
** Total returns the server-reported total for the filter selection.
**
** @return int - Total photo count
**************************************************************************************************/
func (c *Cache) Total() int {
	return c.total
}

/**************************************************************************************************
** TotalPages returns the server-reported page count.
**
** @return int - Total pages
**************************************************************************************************/
func (c *Cache) TotalPages() int {
	return c.totalPages
}

/**************************************************************************************************
** HasPage reports whether a page number was already merged.
**
** @param page - Page number
** @return bool - Whether the page is loaded
**************************************************************************************************/
func (c *Cache) HasPage(page int) bool {
	for _, s := range c.spans {
		if s.page == page {
			return true
		}
	}
	return false
}

/**************************************************************************************************
** LowestPage returns the lowest loaded page number.
**
** @return int - Lowest page
** @return bool - False when no page is loaded
**************************************************************************************************/
func (c *Cache) LowestPage() (int, bool) {
	if len(c.spans) == 0 {
		return 0, false
	}
	return c.spans[0].page, true
}

/**************************************************************************************************
** HighestPage returns the highest loaded page number.
**
** @return int - Highest page
** @return bool - False when no page is loaded
**************************************************************************************************/
func (c *Cache) HighestPage() (int, bool) {
	if len(c.spans) == 0 {
		return 0, false
	}
	return c.spans[len(c.spans)-1].page, true
}

/**************************************************************************************************
** HasMoreForward reports whether pages beyond the highest loaded one exist.
**
** @return bool - Whether forward loading can make progress
**************************************************************************************************/
func (c *Cache) HasMoreForward() bool {
	highest, ok := c.HighestPage()
	if !ok {
		return false
	}
	return highest < c.totalPages && len(c.photos) < c.total
}

/**************************************************************************************************
** HasEarlier reports whether pages before the lowest loaded one exist.
**
** @return bool - Whether backward loading can make progress
**************************************************************************************************/
func (c *Cache) HasEarlier() bool {
	lowest, ok := c.LowestPage()
	if !ok {
		return false
	}
	return lowest > 1
}

/**************************************************************************************************
** Pages lists the loaded page numbers in ascending order.
**
** @return []int - Loaded pages
**************************************************************************************************/
func (c *Cache) Pages() []int {
	pages := make([]int, 0, len(c.spans))
	for _, s := range c.spans {
		pages = append(pages, s.page)
	}
	return pages
}
