package utils

/**************************************************************************************************
** TFocalPoint represents the hero focal point of a photo as percentage coordinates.
** Both values are expressed in the [0, 100] range; {50, 50} is the image center and is the
** default used whenever the server omits the field.
**************************************************************************************************/
type TFocalPoint struct {
	X float64 `json:"x" validate:"gte=0,lte=100"` // Horizontal position in percent
	Y float64 `json:"y" validate:"gte=0,lte=100"` // Vertical position in percent
}

/**************************************************************************************************
** TPhoto represents a gallery photo with all its display metadata and properties.
** This structure matches the Photo Query API response format. ClusterMembers is only present
** when the record is the representative of a near-duplicate or same-scene cluster; the member
** list is computed server-side and consumed as-is.
**
** IsMonochrome is tri-state: nil means the intelligence pipeline never classified the photo,
** which is treated as compatible with both color and monochrome siblings when cycling.
**************************************************************************************************/
type TPhoto struct {
	ID             string       `json:"id" validate:"required"` // Unique identifier
	ThumbURL       string       `json:"thumbUrl"`               // Grid thumbnail variant
	MediumURL      string       `json:"mediumUrl"`              // Medium display variant
	FullURL        string       `json:"fullUrl"`                // Full-screen display variant
	OriginalURL    string       `json:"originalUrl"`            // Original upload
	Width          int          `json:"width"`                  // Pixel width of the original
	Height         int          `json:"height"`                 // Pixel height of the original
	EventID        string       `json:"eventId"`                // Associated event identifier
	EventName      string       `json:"eventName"`              // Associated event display name
	BandID         string       `json:"bandId,omitempty"`       // Band identifier (gallery variant)
	BandName       string       `json:"bandName,omitempty"`     // Band display name (gallery variant)
	Photographer   string       `json:"photographer"`           // Photographer display name
	CompanyName    string       `json:"companyName"`            // Sponsoring company name
	CompanySlug    string       `json:"companySlug"`            // Sponsoring company slug
	CompanyIconURL string       `json:"companyIconUrl"`         // Sponsoring company icon
	CapturedAt     string       `json:"capturedAt"`             // Capture time (RFC3339)
	HeroFocalPoint *TFocalPoint `json:"heroFocalPoint"`         // Hero crop focal point, nil = center
	Labels         []string     `json:"labels"`                 // Hero-placement tags
	IsMonochrome   *bool        `json:"isMonochrome"`           // B&W classification, nil = unknown
	ClusterMembers []TPhoto     `json:"clusterMembers,omitempty"`
}

/**************************************************************************************************
** TCompany represents a sponsoring company facet as returned alongside photo pages.
**************************************************************************************************/
type TCompany struct {
	Slug string `json:"slug"` // URL-safe identifier
	Name string `json:"name"` // Display name
}

/**************************************************************************************************
** TPagination represents the pagination block of a Photo Query API response.
**************************************************************************************************/
type TPagination struct {
	Page       int `json:"page" validate:"gte=1"`       // Current page number (1-based)
	Limit      int `json:"limit" validate:"gte=1"`      // Page size used by the server
	Total      int `json:"total" validate:"gte=0"`      // Total matching photos
	TotalPages int `json:"totalPages" validate:"gte=0"` // Total pages at this limit
}

/**************************************************************************************************
** TEventFacet, TNameFacet and TCompanyFacet carry the per-facet photo counts that drive the
** filter menu. They are only populated on the first (non skipMeta) request of a filter snapshot.
**************************************************************************************************/
type TEventFacet struct {
	ID    string `json:"id"`    // Event identifier
	Name  string `json:"name"`  // Event display name
	Count int    `json:"count"` // Matching photos
}

type TNameFacet struct {
	Name  string `json:"name"`  // Facet value
	Count int    `json:"count"` // Matching photos
}

type TCompanyFacet struct {
	Slug  string `json:"slug"`  // Company slug
	Name  string `json:"name"`  // Company display name
	Count int    `json:"count"` // Matching photos
}

/**************************************************************************************************
** TAvailableFilters groups the facet counts for every filterable dimension.
**************************************************************************************************/
type TAvailableFilters struct {
	Events        []TEventFacet   `json:"events"`        // Event facets with counts
	Photographers []TNameFacet    `json:"photographers"` // Photographer facets with counts
	Companies     []TCompanyFacet `json:"companies"`     // Company facets with counts
}

/**************************************************************************************************
** TPhotoQueryResponse represents the response of the paged photo query endpoint.
** Seed is present and authoritative when a shuffle was requested with the placeholder token;
** later pages of the same snapshot must be requested with that resolved seed.
**************************************************************************************************/
type TPhotoQueryResponse struct {
	Photos           []TPhoto           `json:"photos" validate:"dive"`         // Page of photo records
	Pagination       TPagination        `json:"pagination" validate:"required"` // Pagination block
	Photographers    []string           `json:"photographers"`                  // Known photographer names
	Companies        []TCompany         `json:"companies"`                      // Known companies
	AvailableFilters *TAvailableFilters `json:"availableFilters,omitempty"`     // Facet counts (first page only)
	Seed             string             `json:"seed,omitempty"`                 // Server-resolved shuffle seed
}

/**************************************************************************************************
** TSession represents the session lookup used to gate admin-only controls. Everything beyond
** the admin flag is informational.
**************************************************************************************************/
type TSession struct {
	IsAdmin bool   `json:"isAdmin"` // Whether admin controls are available
	Name    string `json:"name"`    // Display name of the signed-in user, if any
}

/**************************************************************************************************
** TCropBox represents a crop request for one of the supported hero aspect ratios. Coordinates
** are pixels within the original image.
**************************************************************************************************/
type TCropBox struct {
	Aspect string `json:"aspect"` // One of "4:5", "16:9", "1:1"
	X      int    `json:"x"`      // Left edge
	Y      int    `json:"y"`      // Top edge
	Width  int    `json:"width"`  // Crop width
	Height int    `json:"height"` // Crop height
}

/**************************************************************************************************
** TPhotoUpdate represents an admin metadata edit. Only non-nil fields are sent, so a partial
** update never clobbers fields the editor did not touch.
**************************************************************************************************/
type TPhotoUpdate struct {
	EventID        *string      `json:"eventId,omitempty"`        // Reassign event
	BandID         *string      `json:"bandId,omitempty"`         // Reassign band
	Photographer   *string      `json:"photographer,omitempty"`   // Correct photographer credit
	CapturedAt     *string      `json:"capturedAt,omitempty"`     // Correct capture time
	HeroFocalPoint *TFocalPoint `json:"heroFocalPoint,omitempty"` // Move the hero focal point
}

/**************************************************************************************************
** TAnalyticsEvent represents a fire-and-forget analytics emission. No response is awaited and
** failures are never surfaced.
**************************************************************************************************/
type TAnalyticsEvent struct {
	Name    string            `json:"name"`              // Event name, e.g. "slideshow_open"
	PhotoID string            `json:"photoId,omitempty"` // Related photo, if any
	Props   map[string]string `json:"props,omitempty"`   // Free-form properties
}

/**************************************************************************************************
** LoadState is the loading state machine shared by the grid and slideshow controllers. Initial
** loading and load-more are distinct states rather than two booleans so that their illegal
** combination cannot be represented.
**************************************************************************************************/
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateLoadingMore
)

/**************************************************************************************************
** String returns the human readable name of the state.
**
** @return string - State name
**************************************************************************************************/
func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoadingMore:
		return "loading-more"
	default:
		return "idle"
	}
}

/**************************************************************************************************
** FocalPointOrDefault returns the photo's hero focal point, falling back to the image center
** when the server omitted the field.
**************************************************************************************************/
func (p *TPhoto) FocalPointOrDefault() TFocalPoint {
	if p.HeroFocalPoint == nil {
		return TFocalPoint{X: DefaultFocalPercent, Y: DefaultFocalPercent}
	}
	return *p.HeroFocalPoint
}

/**************************************************************************************************
** IsClusterHead reports whether the record represents a cluster with at least one alternate
** member. Single-member lists are treated as plain photos.
**************************************************************************************************/
func (p *TPhoto) IsClusterHead() bool {
	return len(p.ClusterMembers) > 1
}

/**************************************************************************************************
** HasLabel reports whether the photo carries the given hero-placement tag.
**************************************************************************************************/
func (p *TPhoto) HasLabel(label string) bool {
	return Contains(p.Labels, label)
}
