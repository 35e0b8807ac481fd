package cluster

import (
	"time"

	"github.com/majorfi/gig-gallery/pkg/utils"
)

/**************************************************************************************************
** Entry tracks one cluster on screen: the full ordered member list as the server grouped it,
** and which member is currently rendered in the cluster's single display slot. CurrentIndex
** always stays inside [0, len(Members)) and cycling wraps.
**************************************************************************************************/
type Entry struct {
	Members      []utils.TPhoto
	CurrentIndex int
	nextCycle    time.Time
}

/**************************************************************************************************
** Current returns the member currently rendered for this entry.
**
** @return utils.TPhoto - Displayed member
**************************************************************************************************/
func (e *Entry) Current() utils.TPhoto {
	return e.Members[e.CurrentIndex]
}

/**************************************************************************************************
** Index maps cluster representatives to their display state. Only representatives carrying more
** than one member are indexed; everything else renders as a plain photo. The index consumes the
** server's grouping verbatim, it never computes similarity itself.
**
** Index is not safe for concurrent use. Controllers own one and guard it with their own lock.
**************************************************************************************************/
type Index struct {
	entries map[string]*Entry
}

/**************************************************************************************************
** NewIndex creates an empty cluster index.
**
** @return *Index - Ready to use index
**************************************************************************************************/
func NewIndex() *Index {
	return &Index{entries: map[string]*Entry{}}
}

/**************************************************************************************************
** Rebuild recomputes the index from the current photo sequence. Display offsets of clusters
** that survive the rebuild are preserved so a growing photo list does not visibly snap every
** cluster back to its representative; new clusters start at their representative. When grouping
** is disabled the index empties.
**
** @param photos - Current photo sequence
** @param enabled - Whether any grouping toggle is on
** @param now - Current time, anchors the auto-cycle interval of new entries
**************************************************************************************************/
func (x *Index) Rebuild(photos []utils.TPhoto, enabled bool, now time.Time) {
	if !enabled {
		x.entries = map[string]*Entry{}
		return
	}

	rebuilt := make(map[string]*Entry, len(x.entries))
	for _, photo := range photos {
		if !photo.IsClusterHead() {
			continue
		}

		entry := &Entry{
			Members:   photo.ClusterMembers,
			nextCycle: now.Add(utils.ClusterCycleInterval),
		}
		if previous, ok := x.entries[photo.ID]; ok {
			entry.nextCycle = previous.nextCycle
			if previous.CurrentIndex < len(entry.Members) {
				entry.CurrentIndex = previous.CurrentIndex
			}
		}
		rebuilt[photo.ID] = entry
	}
	x.entries = rebuilt
}

/**************************************************************************************************
** Reset empties the index. Called on filter reset, the only event allowed to forget display
** offsets.
**************************************************************************************************/
func (x *Index) Reset() {
	x.entries = map[string]*Entry{}
}

/**************************************************************************************************
** Entry returns the display state for a representative id.
**
** @param headID - Representative photo id
** @return *Entry - Cluster display state
** @return bool - Whether the id is a known cluster
**************************************************************************************************/
func (x *Index) Entry(headID string) (*Entry, bool) {
	entry, ok := x.entries[headID]
	return entry, ok
}

/**************************************************************************************************
** Current returns the member currently displayed for a representative, falling back to nothing
** when the id is not a known cluster.
**
** @param headID - Representative photo id
** @return utils.TPhoto - Displayed member
** @return bool - Whether the id is a known cluster
**************************************************************************************************/
func (x *Index) Current(headID string) (utils.TPhoto, bool) {
	entry, ok := x.entries[headID]
	if !ok {
		return utils.TPhoto{}, false
	}
	return entry.Current(), true
}

/**************************************************************************************************
** Cycle advances a cluster's display slot by one member, wrapping at the end, and restarts its
** auto-cycle interval. This is the badge action: it works regardless of hover or class.
**
** @param headID - Representative photo id
** @param now - Current time
** @return utils.TPhoto - Newly displayed member
** @return bool - Whether the id is a known cluster
**************************************************************************************************/
func (x *Index) Cycle(headID string, now time.Time) (utils.TPhoto, bool) {
	entry, ok := x.entries[headID]
	if !ok {
		return utils.TPhoto{}, false
	}

	entry.CurrentIndex = (entry.CurrentIndex + 1) % len(entry.Members)
	entry.nextCycle = now.Add(utils.ClusterCycleInterval)
	return entry.Current(), true
}

/**************************************************************************************************
** AutoCycle advances every due, unpaused cluster to its next member sharing the displayed
** member's monochrome class. A member without classification counts as compatible with either
** class. Clusters whose displayed member has no other compatible sibling stay put. Paused
** clusters (the hovered card) keep their interval fresh so they do not fire the moment the
** pause lifts.
**
** @param now - Current time
** @param paused - Reports whether a cluster's card is currently hovered
** @return []string - Representative ids whose display slot changed
**************************************************************************************************/
func (x *Index) AutoCycle(now time.Time, paused func(headID string) bool) []string {
	var changed []string
	for headID, entry := range x.entries {
		if now.Before(entry.nextCycle) {
			continue
		}
		if paused != nil && paused(headID) {
			entry.nextCycle = now.Add(utils.ClusterCycleInterval)
			continue
		}

		entry.nextCycle = now.Add(utils.ClusterCycleInterval)
		if next, ok := nextSameClass(entry); ok {
			entry.CurrentIndex = next
			changed = append(changed, headID)
		}
	}
	return changed
}

/**************************************************************************************************
** SameClassCount reports how many members share the displayed member's monochrome class,
** including the displayed member itself. The badge shows this count; a count of one means the
** displayed member is alone in its class and auto-cycle leaves the cluster alone.
**
** @param headID - Representative photo id
** @return int - Compatible member count, 0 for unknown clusters
**************************************************************************************************/
func (x *Index) SameClassCount(headID string) int {
	entry, ok := x.entries[headID]
	if !ok {
		return 0
	}

	displayed := entry.Current()
	count := 0
	for i := range entry.Members {
		if classCompatible(displayed.IsMonochrome, entry.Members[i].IsMonochrome) {
			count++
		}
	}
	return count
}

/**************************************************************************************************
** Len returns how many clusters are indexed.
**
** @return int - Indexed cluster count
**************************************************************************************************/
func (x *Index) Len() int {
	return len(x.entries)
}

/**************************************************************************************************
** nextSameClass finds the next member index after CurrentIndex, wrapping, whose classification
** is compatible with the displayed member's. Returns false when no other member qualifies.
**
** @param entry - Cluster display state
** @return int - Index of the next compatible member
** @return bool - Whether a compatible member exists
**************************************************************************************************/
func nextSameClass(entry *Entry) (int, bool) {
	displayed := entry.Current()
	for step := 1; step < len(entry.Members); step++ {
		candidate := (entry.CurrentIndex + step) % len(entry.Members)
		if classCompatible(displayed.IsMonochrome, entry.Members[candidate].IsMonochrome) {
			return candidate, true
		}
	}
	return 0, false
}

func classCompatible(a, b *bool) bool {
	return a == nil || b == nil || *a == *b
}
