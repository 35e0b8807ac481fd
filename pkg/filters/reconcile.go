package filters

import (
	"net/url"
	"strconv"

	"github.com/majorfi/gig-gallery/pkg/prefs"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"golang.org/x/text/unicode/norm"
)

// Query keys that count as "the link carries a filter selection". Page and the
// slideshow photo anchor are navigation, not selection, and stay off this list.
var filterParamKeys = []string{
	utils.ParamEvent,
	utils.ParamEventLegacy,
	utils.ParamBand,
	utils.ParamBandLegacy,
	utils.ParamPhotographer,
	utils.ParamCompany,
	utils.ParamShuffle,
	utils.ParamGroupDuplicates,
	utils.ParamGroupScenes,
}

/**************************************************************************************************
** HasFilterParams reports whether the query carries any recognized filter, shuffle or grouping
** key. Deciding this is what lets a deep link win over the stored preference: when the link
** says nothing about filters, storage applies; when it says anything at all, storage is skipped.
**
** @param query - URL query parameters
** @return bool - True when at least one filter key is present
**************************************************************************************************/
func HasFilterParams(query url.Values) bool {
	for _, key := range filterParamKeys {
		if query.Has(key) {
			return true
		}
	}
	return false
}

/**************************************************************************************************
** Reconcile merges the three sources of filter truth into one snapshot. Precedence is fixed:
** explicit URL keys beat stored preference beats the previous snapshot. A URL key only touches
** its own field when it is literally present in the query, so filters restored from storage
** survive a navigation event that does not mention them, while explicit deep links override.
**
** Reconcile is pure. The store calls it once at initialization (passing the stored preference
** only when the URL carries no filter keys) and again on every history navigation (passing an
** empty preference, since storage only participates at initialization).
**
** @param query - Current URL query parameters
** @param stored - Stored preference, zero value to keep storage out of the merge
** @param previous - Snapshot to inherit unmentioned fields from
** @return TFilterSnapshot - Reconciled snapshot
**************************************************************************************************/
func Reconcile(query url.Values, stored prefs.TStoredPreference, previous TFilterSnapshot) TFilterSnapshot {
	next := previous

	if stored.Event != "" {
		next.EventID = stored.Event
	}
	if stored.Photographer != "" {
		next.Photographer = norm.NFC.String(stored.Photographer)
	}
	if stored.Company != "" {
		next.Company = stored.Company
	}
	if stored.Shuffle != "" {
		next.ShuffleToken = stored.Shuffle
	}
	if stored.GroupDuplicates != nil {
		next.GroupDuplicates = *stored.GroupDuplicates
	}
	if stored.GroupScenes != nil {
		next.GroupScenes = *stored.GroupScenes
	}

	if query.Has(utils.ParamEvent) {
		next.EventID = query.Get(utils.ParamEvent)
	} else if query.Has(utils.ParamEventLegacy) {
		next.EventID = query.Get(utils.ParamEventLegacy)
	}

	if query.Has(utils.ParamBand) {
		next.BandID = query.Get(utils.ParamBand)
	} else if query.Has(utils.ParamBandLegacy) {
		next.BandID = query.Get(utils.ParamBandLegacy)
	}

	if query.Has(utils.ParamPhotographer) {
		next.Photographer = norm.NFC.String(query.Get(utils.ParamPhotographer))
	}

	if query.Has(utils.ParamCompany) {
		next.Company = query.Get(utils.ParamCompany)
	}

	if query.Has(utils.ParamShuffle) {
		token := query.Get(utils.ParamShuffle)
		if token == "" {
			token = utils.ShufflePlaceholder
		}
		next.ShuffleToken = token
	}

	if query.Has(utils.ParamGroupDuplicates) {
		next.GroupDuplicates = query.Get(utils.ParamGroupDuplicates) != "false"
	}

	if query.Has(utils.ParamGroupScenes) {
		next.GroupScenes = query.Get(utils.ParamGroupScenes) != "false"
	}

	if query.Has(utils.ParamPage) {
		if page, err := strconv.Atoi(query.Get(utils.ParamPage)); err == nil && page >= 1 {
			next.InitialPage = page
		}
	}

	return next
}
