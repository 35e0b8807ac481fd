package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/majorfi/gig-gallery/pkg/filters"
	"github.com/majorfi/gig-gallery/pkg/gallery"
	"github.com/majorfi/gig-gallery/pkg/nav"
	"github.com/majorfi/gig-gallery/pkg/prefs"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/************************************************************************************************
** Test helper functions and types
************************************************************************************************/

type memPrefs struct {
	stored prefs.TStoredPreference
}

func (m *memPrefs) Load() prefs.TStoredPreference     { return m.stored }
func (m *memPrefs) Save(pref prefs.TStoredPreference) { m.stored = pref }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// fakeSite serves six photos where p-1 is a three-member cluster, plus the
// session, deletion and analytics endpoints the app touches. With pageSize
// zero everything fits one page; otherwise responses honor the page param.
type fakeSite struct {
	mu       sync.Mutex
	admin    bool
	pageSize int
	photos   []utils.TPhoto
	requests []url.Values
	deletes  []string
}

func newFakeSite() *fakeSite {
	cluster := []utils.TPhoto{
		{ID: "p-1", EventID: "e1", EventName: "Summer Fest", Photographer: "Alice", CompanyName: "Acme Media", CompanySlug: "acme", CapturedAt: "2025-06-14T20:31:00Z"},
		{ID: "p-1b", EventID: "e1", EventName: "Summer Fest", Photographer: "Alice", CompanyName: "Acme Media", CompanySlug: "acme", CapturedAt: "2025-06-14T20:31:02Z"},
		{ID: "p-1c", EventID: "e1", EventName: "Summer Fest", Photographer: "Alice", CompanyName: "Acme Media", CompanySlug: "acme", CapturedAt: "2025-06-14T20:31:04Z"},
	}
	head := cluster[0]
	head.ClusterMembers = cluster

	return &fakeSite{
		photos: []utils.TPhoto{
			{ID: "p-0", EventID: "e1", EventName: "Summer Fest", Photographer: "Alice", CompanyName: "Acme Media", CompanySlug: "acme", CapturedAt: "2025-06-14T20:30:00Z"},
			head,
			{ID: "p-2", EventID: "e1", EventName: "Summer Fest", Photographer: "Bob", CompanyName: "Acme Media", CompanySlug: "acme", CapturedAt: "2025-06-14T21:00:00Z"},
			{ID: "p-3", EventID: "e2", EventName: "Winter Gala", Photographer: "Bob", CompanyName: "Moonlight Press", CompanySlug: "moonlight", CapturedAt: "2025-12-06T19:00:00Z"},
			{ID: "p-4", EventID: "e2", EventName: "Winter Gala", Photographer: "Alice", CompanyName: "Moonlight Press", CompanySlug: "moonlight", CapturedAt: "2025-12-06T19:05:00Z"},
			{ID: "p-5", EventID: "e1", EventName: "Summer Fest", Photographer: "Bob", CompanyName: "Acme Media", CompanySlug: "acme", CapturedAt: "2025-06-14T22:00:00Z"},
		},
	}
}

func (f *fakeSite) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/session":
			f.mu.Lock()
			admin := f.admin
			f.mu.Unlock()
			json.NewEncoder(w).Encode(utils.TSession{IsAdmin: admin})
		case r.URL.Path == "/api/analytics/events":
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/api/photos":
			f.mu.Lock()
			f.requests = append(f.requests, r.URL.Query())
			photos := append([]utils.TPhoto(nil), f.photos...)
			pageSize := f.pageSize
			f.mu.Unlock()

			page := 1
			if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
				page = n
			}
			pagination := utils.TPagination{Page: page, Limit: utils.DefaultPageSize, Total: len(photos), TotalPages: 1}
			if pageSize > 0 {
				pagination.Limit = pageSize
				pagination.TotalPages = (len(photos) + pageSize - 1) / pageSize
				start := (page - 1) * pageSize
				if start > len(photos) {
					start = len(photos)
				}
				end := start + pageSize
				if end > len(photos) {
					end = len(photos)
				}
				photos = photos[start:end]
			}
			json.NewEncoder(w).Encode(utils.TPhotoQueryResponse{
				Photos:        photos,
				Pagination:    pagination,
				Photographers: []string{"Alice", "Bob"},
				Companies:     []utils.TCompany{{Slug: "acme", Name: "Acme Media"}, {Slug: "moonlight", Name: "Moonlight Press"}},
				AvailableFilters: &utils.TAvailableFilters{
					Events:        []utils.TEventFacet{{ID: "e1", Name: "Summer Fest", Count: 4}, {ID: "e2", Name: "Winter Gala", Count: 2}},
					Photographers: []utils.TNameFacet{{Name: "Alice", Count: 3}, {Name: "Bob", Count: 3}},
					Companies:     []utils.TCompanyFacet{{Slug: "acme", Name: "Acme Media", Count: 4}, {Slug: "moonlight", Name: "Moonlight Press", Count: 2}},
				},
			})
		case strings.HasPrefix(r.URL.Path, "/api/photos/") && r.Method == http.MethodDelete:
			f.mu.Lock()
			f.deletes = append(f.deletes, strings.TrimPrefix(r.URL.Path, "/api/photos/"))
			f.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		case strings.HasPrefix(r.URL.Path, "/api/photos/"):
			json.NewEncoder(w).Encode(utils.TPhoto{ID: strings.TrimPrefix(r.URL.Path, "/api/photos/")})
		default:
			http.NotFound(w, r)
		}
	}))
}

func (f *fakeSite) listRequests() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.requests...)
}

func (f *fakeSite) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

type tuiHarness struct {
	site     *fakeSite
	sim      tcell.SimulationScreen
	app      *App
	store    *filters.Store
	location *nav.Location
}

// newTUIHarness builds the app against a simulation screen and started
// controllers, without entering Run; tests drive the handlers directly.
func newTUIHarness(t *testing.T, site *fakeSite, query url.Values) *tuiHarness {
	t.Helper()
	server := site.server(t)
	t.Cleanup(server.Close)

	location := nav.NewLocation("/photos", query)
	store := filters.NewStore(location, &memPrefs{}, testLogger())
	require.NotNil(t, store)
	store.Init()

	client := gallery.NewClient(server.URL, "", false, testLogger())
	require.NotNil(t, client)

	sim := tcell.NewSimulationScreen("")
	require.NoError(t, sim.Init())
	sim.SetSize(120, 32)

	app := NewApp(sim, client, store, location, testLogger())
	require.NotNil(t, app)
	app.width, app.height = 120, 32
	app.browse.Start()
	app.slideshow.Start()
	t.Cleanup(func() {
		app.slideshow.Stop()
		app.browse.Close()
		sim.Fini()
	})

	return &tuiHarness{site: site, sim: sim, app: app, store: store, location: location}
}

func (h *tuiHarness) waitPhotos(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.app.browse.State() == utils.StateIdle && len(h.app.browse.Photos()) > 0
	}, 2*time.Second, 5*time.Millisecond)
}

func (h *tuiHarness) key(key tcell.Key, r rune) {
	h.app.handleKey(tcell.NewEventKey(key, r, tcell.ModNone))
}

func screenText(sim tcell.SimulationScreen) string {
	cells, w, h := sim.GetContents()
	var b strings.Builder
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			runes := cells[row*w+col].Runes
			if len(runes) > 0 {
				b.WriteRune(runes[0])
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

/************************************************************************************************
** Grid view
************************************************************************************************/

func TestGridRendersHeaderCardsAndBadge(t *testing.T) {
	// Setup
	h := newTUIHarness(t, newFakeSite(), url.Values{})
	h.waitPhotos(t)

	// Act
	h.app.render()
	text := screenText(h.sim)

	// Assert
	assert.Contains(t, text, "gig-gallery")
	assert.Contains(t, text, "all photos · 6 photos")
	assert.Contains(t, text, "Summer Fest")
	assert.Contains(t, text, "Alice · Acme Media")
	assert.Contains(t, text, "⧉3", "cluster card should carry the member count badge")
	assert.Contains(t, text, "enter view")
}

func TestGridSelectionMovesAndOpensViewer(t *testing.T) {
	// Setup
	h := newTUIHarness(t, newFakeSite(), url.Values{})
	h.waitPhotos(t)

	// Act: two right, one down in a three-column layout lands on the last card
	h.key(tcell.KeyRight, 0)
	h.key(tcell.KeyRight, 0)
	h.key(tcell.KeyDown, 0)

	// Assert
	require.Equal(t, 5, h.app.selected)

	// Act
	h.key(tcell.KeyEnter, 0)

	// Assert
	require.True(t, h.app.slideshow.IsOpen())
	require.Eventually(t, func() bool {
		photo, ok := h.app.slideshow.CurrentPhoto()
		return ok && photo.ID == "p-5"
	}, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		return h.location.Param(utils.ParamPhoto) == "p-5"
	}, 2*time.Second, 5*time.Millisecond, "viewer should sync the photo param")
}

func TestEscapeClosesViewerAndSyncsGridSelection(t *testing.T) {
	// Setup
	h := newTUIHarness(t, newFakeSite(), url.Values{})
	h.waitPhotos(t)
	h.key(tcell.KeyEnter, 0)
	require.Eventually(t, func() bool {
		return h.app.slideshow.State() == utils.StateIdle && len(h.app.slideshow.Photos()) > 0
	}, 2*time.Second, 5*time.Millisecond)

	// Act
	h.key(tcell.KeyRight, 0)
	h.key(tcell.KeyRight, 0)
	h.key(tcell.KeyEscape, 0)

	// Assert
	assert.False(t, h.app.slideshow.IsOpen())
	assert.Equal(t, 2, h.app.selected, "grid selection should follow the viewer")
	assert.Eventually(t, func() bool {
		return h.location.Param(utils.ParamPhoto) == ""
	}, 2*time.Second, 5*time.Millisecond)
}

func TestGridMoveUpFromDeepLinkedPageLoadsEarlier(t *testing.T) {
	// Setup: enter on page 2 with three photos per page
	site := newFakeSite()
	site.pageSize = 3
	h := newTUIHarness(t, site, url.Values{"page": []string{"2"}})
	h.waitPhotos(t)
	require.Equal(t, "p-3", h.app.browse.Photos()[0].ID)

	// Act: moving up from the top requests the previous page
	h.key(tcell.KeyUp, 0)

	// Assert
	require.Eventually(t, func() bool {
		return len(h.app.browse.Photos()) == 6
	}, 2*time.Second, 5*time.Millisecond)
	h.app.render()
	assert.Equal(t, 2, h.app.selected, "selection should land just above the old top")
	assert.Equal(t, "p-2", h.app.browse.Photos()[h.app.selected].ID)
}

func TestShuffleKeyTogglesOrder(t *testing.T) {
	// Setup
	h := newTUIHarness(t, newFakeSite(), url.Values{})
	h.waitPhotos(t)

	// Act
	h.key(tcell.KeyRune, 's')

	// Assert
	assert.True(t, h.store.Snapshot().Shuffled())
	require.Eventually(t, func() bool {
		for _, q := range h.site.listRequests() {
			if q.Has("shuffle") {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)

	// Act
	h.key(tcell.KeyRune, 's')

	// Assert
	assert.False(t, h.store.Snapshot().Shuffled())
}

/************************************************************************************************
** Filter menu
************************************************************************************************/

func TestFilterMenuAppliesEventFacet(t *testing.T) {
	// Setup
	h := newTUIHarness(t, newFakeSite(), url.Values{})
	h.waitPhotos(t)

	// Act
	h.key(tcell.KeyRune, 'f')

	// Assert
	require.NotNil(t, h.app.menu)
	h.app.render()
	text := screenText(h.sim)
	assert.Contains(t, text, "Filters")
	assert.Contains(t, text, "Summer Fest (4)")

	// Act: first down skips the section header and lands on the first event
	h.key(tcell.KeyDown, 0)
	h.key(tcell.KeyEnter, 0)

	// Assert
	assert.Nil(t, h.app.menu)
	assert.Equal(t, "e1", h.store.Snapshot().EventID)
	require.Eventually(t, func() bool {
		for _, q := range h.site.listRequests() {
			if q.Get("event") == "e1" {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond, "selection should trigger a filtered refetch")
}

func TestFilterMenuEverythingResetsFacets(t *testing.T) {
	// Setup
	h := newTUIHarness(t, newFakeSite(), url.Values{"event": []string{"e1"}})
	h.waitPhotos(t)
	require.Equal(t, "e1", h.store.Snapshot().EventID)

	// Act
	h.key(tcell.KeyRune, 'f')
	require.NotNil(t, h.app.menu)
	h.key(tcell.KeyEnter, 0)

	// Assert
	assert.Nil(t, h.app.menu)
	assert.Equal(t, "", h.store.Snapshot().EventID)
}

func TestFilterMenuEscapeClosesWithoutApplying(t *testing.T) {
	// Setup
	h := newTUIHarness(t, newFakeSite(), url.Values{})
	h.waitPhotos(t)
	before := h.store.Generation()

	// Act
	h.key(tcell.KeyRune, 'f')
	h.key(tcell.KeyDown, 0)
	h.key(tcell.KeyEscape, 0)

	// Assert
	assert.Nil(t, h.app.menu)
	assert.Equal(t, before, h.store.Generation())
}

/************************************************************************************************
** Admin deletion
************************************************************************************************/

func TestGridDeleteNeedsAdminSession(t *testing.T) {
	// Setup
	h := newTUIHarness(t, newFakeSite(), url.Values{})
	h.waitPhotos(t)

	// Act
	h.key(tcell.KeyRune, 'd')

	// Assert
	assert.Equal(t, "admin session required", h.app.currentStatus())
	assert.Empty(t, h.site.deleted())
	assert.Len(t, h.app.browse.Photos(), 6)
}

func TestGridDeleteRemovesSelectedCard(t *testing.T) {
	// Setup
	site := newFakeSite()
	site.admin = true
	h := newTUIHarness(t, site, url.Values{})
	h.waitPhotos(t)
	require.Eventually(t, func() bool {
		return h.app.browse.IsAdmin()
	}, 2*time.Second, 5*time.Millisecond)

	// Act
	h.key(tcell.KeyRune, 'd')

	// Assert
	require.Eventually(t, func() bool {
		return len(h.site.deleted()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"p-0"}, h.site.deleted())
	require.Eventually(t, func() bool {
		photos := h.app.browse.Photos()
		return len(photos) == 5 && photos[0].ID == "p-1"
	}, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		return h.app.currentStatus() == "deleted p-0"
	}, 2*time.Second, 5*time.Millisecond)
}

/************************************************************************************************
** Slideshow view
************************************************************************************************/

func TestSlideshowRendersPositionRailAndLink(t *testing.T) {
	// Setup
	h := newTUIHarness(t, newFakeSite(), url.Values{})
	h.waitPhotos(t)
	h.key(tcell.KeyEnter, 0)
	require.Eventually(t, func() bool {
		return h.app.slideshow.State() == utils.StateIdle && len(h.app.slideshow.Photos()) > 0
	}, 2*time.Second, 5*time.Millisecond)

	// Act
	h.app.render()
	text := screenText(h.sim)

	// Assert
	assert.Contains(t, text, "slideshow")
	assert.Contains(t, text, "1 of 6")
	assert.Contains(t, text, "[1]", "rail should bracket the focused slot")
	assert.Contains(t, text, "loading preview…")
	assert.Contains(t, text, "/photos")
	assert.Contains(t, text, "esc close")

	// Act: focus the cluster record
	h.key(tcell.KeyRight, 0)
	h.app.render()
	text = screenText(h.sim)

	// Assert
	assert.Contains(t, text, "2 of 6")
	assert.Contains(t, text, "⧉ 1/3", "cluster badge should show the member position")
}

func TestSlideshowSpaceTogglesAutoplay(t *testing.T) {
	// Setup
	h := newTUIHarness(t, newFakeSite(), url.Values{})
	h.waitPhotos(t)
	h.key(tcell.KeyEnter, 0)
	require.Eventually(t, func() bool {
		return len(h.app.slideshow.Photos()) > 0
	}, 2*time.Second, 5*time.Millisecond)

	// Act
	h.key(tcell.KeyRune, ' ')

	// Assert
	assert.True(t, h.app.slideshow.AutoplayActive())

	// Act: manual navigation cancels autoplay
	h.key(tcell.KeyRight, 0)

	// Assert
	assert.False(t, h.app.slideshow.AutoplayActive())
}

func TestDeepLinkOpensViewerOnStartup(t *testing.T) {
	// Setup
	h := newTUIHarness(t, newFakeSite(), url.Values{"photo": []string{"p-3"}})

	// Act: Run is not entered in tests, trigger the same startup check
	if h.location.Param(utils.ParamPhoto) != "" {
		h.app.slideshow.Open()
	}

	// Assert
	require.True(t, h.app.slideshow.IsOpen())
	require.Eventually(t, func() bool {
		photo, ok := h.app.slideshow.CurrentPhoto()
		return ok && photo.ID == "p-3"
	}, 2*time.Second, 5*time.Millisecond)
}

/************************************************************************************************
** View helpers
************************************************************************************************/

func TestRailSlotPadding(t *testing.T) {
	testCases := []struct {
		label string
		width int
	}{
		{label: "1", width: 7},
		{label: "12⧉", width: 7},
		{label: "[999]", width: 7},
		{label: "[1000⧉]", width: 7},
	}

	for _, tc := range testCases {
		// Act
		slot := padSlot(tc.label, tc.width)

		// Assert
		assert.Equal(t, tc.width, runewidth.StringWidth(slot), "slot %q", tc.label)
	}
}

func TestFilterSummaryLine(t *testing.T) {
	// Act & Assert
	assert.Equal(t, "all photos · 6 photos", filterSummary(filters.TFilterSnapshot{}, 6))
	assert.Equal(t, "event e1 · Alice · shuffled · 12 photos", filterSummary(filters.TFilterSnapshot{
		EventID:      "e1",
		Photographer: "Alice",
		ShuffleToken: "seed-1",
	}, 12))
}
