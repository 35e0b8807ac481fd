package filters

import (
	"github.com/majorfi/gig-gallery/pkg/gallery"
	"github.com/majorfi/gig-gallery/pkg/utils"
)

/**************************************************************************************************
** TFilterSnapshot is an immutable value describing the active photo query: which facets are
** selected, which sort mode applies, and how records are grouped. Chronological and shuffled
** ordering are mutually exclusive: an empty ShuffleToken means date order, the placeholder
** value means "shuffle requested, server assigns the seed", anything else is a concrete seed.
**************************************************************************************************/
type TFilterSnapshot struct {
	EventID         string // Selected event id, empty for all events
	BandID          string // Legacy band facet, deep links only
	Photographer    string // Selected photographer name
	Company         string // Selected company slug
	ShuffleToken    string // Empty = chronological order
	GroupDuplicates bool   // Collapse near-duplicate clusters
	GroupScenes     bool   // Collapse same-scene clusters
	InitialPage     int    // First page to fetch, from pagination deep links
}

/**************************************************************************************************
** DefaultSnapshot returns the snapshot of a fresh, unfiltered visit: everything shown, grouping
** enabled, chronological order, first page.
**
** @return TFilterSnapshot - Default snapshot
**************************************************************************************************/
func DefaultSnapshot() TFilterSnapshot {
	return TFilterSnapshot{
		GroupDuplicates: true,
		GroupScenes:     true,
		InitialPage:     1,
	}
}

/**************************************************************************************************
** ResetEqual reports whether two snapshots describe the same photo set and ordering. Any
** difference in this comparison obliges controllers to throw away their caches and start over.
** InitialPage and the legacy band facet are deliberately outside the comparison: they steer
** where loading starts, not what is loaded under the active facets.
**
** @param o - Snapshot to compare against
** @return bool - True when no cache reset is needed
**************************************************************************************************/
func (s TFilterSnapshot) ResetEqual(o TFilterSnapshot) bool {
	return s.EventID == o.EventID &&
		s.Photographer == o.Photographer &&
		s.Company == o.Company &&
		s.ShuffleToken == o.ShuffleToken &&
		s.GroupDuplicates == o.GroupDuplicates &&
		s.GroupScenes == o.GroupScenes
}

/**************************************************************************************************
** Shuffled reports whether the snapshot asks for shuffled ordering.
**
** @return bool - True when a shuffle token (placeholder or seed) is set
**************************************************************************************************/
func (s TFilterSnapshot) Shuffled() bool {
	return s.ShuffleToken != ""
}

/**************************************************************************************************
** GroupTypes derives the server-side grouping selector from the two toggles.
**
** @return []string - Cluster types to request, empty when grouping is fully disabled
**************************************************************************************************/
func (s TFilterSnapshot) GroupTypes() []string {
	types := make([]string, 0, 2)
	if s.GroupDuplicates {
		types = append(types, utils.GroupTypeNearDuplicate)
	}
	if s.GroupScenes {
		types = append(types, utils.GroupTypeScene)
	}
	return types
}

/**************************************************************************************************
** GroupingEnabled reports whether at least one grouping toggle is on.
**
** @return bool - True when cluster display applies
**************************************************************************************************/
func (s TFilterSnapshot) GroupingEnabled() bool {
	return s.GroupDuplicates || s.GroupScenes
}

/**************************************************************************************************
** Query builds the page request for this snapshot, carrying every facet plus the sort mode.
**
** @param page - Page number to fetch
** @param skipMeta - Whether facet metadata can be skipped (every request after the first)
** @return gallery.Query - Ready to encode request
**************************************************************************************************/
func (s TFilterSnapshot) Query(page int, skipMeta bool) gallery.Query {
	return gallery.Query{
		Event:        s.EventID,
		Band:         s.BandID,
		Photographer: s.Photographer,
		Company:      s.Company,
		Page:         page,
		ShuffleToken: s.ShuffleToken,
		GroupTypes:   s.GroupTypes(),
		SkipMeta:     skipMeta,
	}
}
