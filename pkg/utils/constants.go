package utils

import "time"

/**************************************************************************************************
** DefaultPageSize is the fixed page size sent on every photo query. The server clamps larger
** values, so there is no point in making this configurable per call site.
**************************************************************************************************/
const DefaultPageSize = 50

/**************************************************************************************************
** ShufflePlaceholder is the sentinel shuffle token meaning "shuffle requested, server will pick
** the seed". Deep links carry it as shuffle=true; the first response resolves it to a concrete
** seed that all subsequent page requests must reuse.
**************************************************************************************************/
const ShufflePlaceholder = "true"

/**************************************************************************************************
** Group type identifiers accepted by the Photo Query API's groupTypes parameter. The clusters
** themselves are computed server-side by the photo intelligence pipeline; clients only choose
** which cluster families to collapse.
**************************************************************************************************/
const (
	GroupTypeNearDuplicate = "near_duplicate"
	GroupTypeScene         = "scene"
)

/**************************************************************************************************
** Hero-placement tags understood by the label endpoint. LabelHero pins a photo into the landing
** page hero rotation; LabelNoHero excludes it from automatic selection.
**************************************************************************************************/
const (
	LabelHero   = "hero"
	LabelNoHero = "no_hero"
)

/**************************************************************************************************
** Query parameter keys owned by the browsing state. The *Legacy keys are accepted on inbound
** deep links for backward compatibility but never written back.
**************************************************************************************************/
const (
	ParamEvent           = "event"
	ParamEventLegacy     = "eventId"
	ParamBand            = "band"
	ParamBandLegacy      = "bandId"
	ParamPhotographer    = "photographer"
	ParamCompany         = "company"
	ParamShuffle         = "shuffle"
	ParamGroupDuplicates = "groupDuplicates"
	ParamGroupScenes     = "groupScenes"
	ParamPage            = "page"
	ParamPhoto           = "photo"
)

/**************************************************************************************************
** Timing constants for the interactive views.
**
** ClusterCycleInterval is the per-card cadence of the gallery grid's automatic cluster cycling.
** AutoplayInterval drives the slideshow timer. PhotoSyncDebounce is how long the slideshow
** focus must be stable before the photo id is written back to the location.
**************************************************************************************************/
const (
	ClusterCycleInterval = 1000 * time.Millisecond
	AutoplayInterval     = 4 * time.Second
	PhotoSyncDebounce    = 400 * time.Millisecond
)

/**************************************************************************************************
** Slideshow prefetch tuning. PrefetchThreshold is how close the focused index may get to either
** loaded edge before the next page in that direction is requested. The warm-load on open keeps
** fetching until the loaded count covers two viewport-widths of the thumbnail rail, estimated
** with RailThumbWidthPx per entry.
**************************************************************************************************/
const (
	PrefetchThreshold      = 5
	RailThumbWidthPx       = 96
	DefaultViewportWidthPx = 1920
)

/**************************************************************************************************
** DefaultFocalPercent is the center coordinate used when a photo has no stored focal point.
**************************************************************************************************/
const DefaultFocalPercent = 50.0

/**************************************************************************************************
** Preference storage location. One JSON object under the user config dir; read once at mount,
** overwritten on every filter change after initialization.
**************************************************************************************************/
const (
	PreferenceDirName  = "gig-gallery"
	PreferenceFileName = "preferences.json"
)

/**************************************************************************************************
** CropAspects lists the hero aspect ratios the crop pipeline understands.
**************************************************************************************************/
var CropAspects = []string{"4:5", "16:9", "1:1"}
