package gallery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/majorfi/gig-gallery/pkg/utils"
)

/**************************************************************************************************
** Query describes one page request against the Photo Query API. The zero value asks for the
** first chronological page with every grouping enabled and facet metadata included.
**
** Sort mode is driven by ShuffleToken: empty means chronological (order=date, stable across
** loads), anything else means shuffled pagination under that seed. The two modes are mutually
** exclusive on the wire, so Values never emits both order and shuffle.
**************************************************************************************************/
type Query struct {
	Event        string   // Event id filter
	Band         string   // Band id filter (gallery legacy facet)
	Photographer string   // Photographer name filter
	Company      string   // Company slug filter
	Page         int      // 1-based page number
	Limit        int      // Page size; 0 falls back to DefaultPageSize
	ShuffleToken string   // Empty = chronological, ShufflePlaceholder or a concrete seed otherwise
	GroupTypes   []string // Cluster families to collapse (near_duplicate, scene)
	SkipMeta     bool     // Set on every request after a snapshot's first
}

/**************************************************************************************************
** Values encodes the query as Photo Query API parameters.
**
** @return url.Values - Encoded parameters ready for a GET request
**************************************************************************************************/
func (q Query) Values() url.Values {
	v := url.Values{}

	if q.Event != "" {
		v.Set(utils.ParamEvent, q.Event)
	}
	if q.Band != "" {
		v.Set(utils.ParamBand, q.Band)
	}
	if q.Photographer != "" {
		v.Set(utils.ParamPhotographer, q.Photographer)
	}
	if q.Company != "" {
		v.Set(utils.ParamCompany, q.Company)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set(utils.ParamPage, strconv.Itoa(page))

	limit := q.Limit
	if limit <= 0 {
		limit = utils.DefaultPageSize
	}
	v.Set("limit", strconv.Itoa(limit))

	if q.ShuffleToken != "" {
		v.Set(utils.ParamShuffle, q.ShuffleToken)
	} else {
		v.Set("order", "date")
	}

	if groupTypes := utils.RemoveEmptyStrings(q.GroupTypes); len(groupTypes) > 0 {
		v.Set("groupTypes", strings.Join(groupTypes, ","))
	}

	if q.SkipMeta {
		v.Set("skipMeta", "true")
	}

	return v
}

/**************************************************************************************************
** WithPage returns a copy of the query targeting a different page. Used by the controllers
** when walking forward or backward through a snapshot's pages.
**
** @param page - Page number for the copy
** @return Query - Copy with the page replaced
**************************************************************************************************/
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}
